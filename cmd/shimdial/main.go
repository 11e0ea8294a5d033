// Command shimdial opens a TLS session to a host through the legacy-shaped
// call surface and performs a single HTTP GET, printing the response to
// stdout. It exists mostly as a smoke test for the full boundary:
// method, context, session, descriptor hand-off, connect, read, write,
// free.
package main

import (
	"fmt"
	"log"
	"net"
	"os"
	"runtime"

	"github.com/jessevdk/go-flags"

	shimtls "github.com/aristanetworks/go-shimtls"
)

type options struct {
	Addr  string `short:"a" long:"addr" description:"host:port to connect to" required:"true"`
	Path  string `short:"p" long:"path" description:"request path" default:"/"`
	TLS12 bool   `long:"tls12" description:"pin TLS 1.2 instead of 1.3"`
	Debug bool   `short:"d" long:"debug" description:"enable debug tracing"`
}

func main() {
	var opts options
	parser := flags.NewNamedParser("shimdial", flags.Default)
	parser.AddGroup("dial", "dial options", &opts)
	if _, err := parser.Parse(); err != nil {
		os.Exit(1)
	}
	if opts.Debug {
		shimtls.EnableDebugLogging()
	}

	shimtls.LibraryInit()
	shimtls.AddSSLAlgorithms()
	shimtls.LoadErrorStrings()

	method := shimtls.TLSv13ClientMethod()
	if opts.TLS12 {
		method = shimtls.TLSv12ClientMethod()
	}
	ctx := shimtls.CTXNew(method)
	if ctx == 0 {
		log.Fatal("context construction failed")
	}
	defer shimtls.CTXFree(ctx)

	host, _, err := net.SplitHostPort(opts.Addr)
	if err != nil {
		log.Fatal(err)
	}
	raw, err := net.Dial("tcp", opts.Addr)
	if err != nil {
		log.Fatal(err)
	}
	file, err := raw.(*net.TCPConn).File()
	if err != nil {
		log.Fatal(err)
	}
	raw.Close()

	ssl := shimtls.SSLNew(ctx)
	if ssl == 0 {
		log.Fatal("session construction failed")
	}
	defer shimtls.SSLFree(ssl)

	if shimtls.SSLSetTlsExtHostName(ssl, host) != shimtls.SSLSuccess {
		log.Fatalf("set hostname failed: %s", shimtls.ERRGetError())
	}
	// The session owns the descriptor from here on.
	if shimtls.SSLSetFd(ssl, int(file.Fd())) != shimtls.SSLSuccess {
		log.Fatalf("set fd failed: %s", shimtls.ERRGetError())
	}
	if shimtls.SSLConnect(ssl) != shimtls.SSLSuccess {
		log.Fatalf("connect failed: %s", shimtls.ERRGetError())
	}

	request := fmt.Sprintf("GET %s HTTP/1.1\r\nHost: %s\r\nConnection: close\r\n\r\n", opts.Path, host)
	if n := shimtls.SSLWrite(ssl, []byte(request)); n != len(request) {
		log.Fatalf("write failed: %s", shimtls.ERRGetError())
	}

	buf := make([]byte, 4096)
	for {
		n := shimtls.SSLRead(ssl, buf)
		if n <= 0 {
			if code := shimtls.ERRPeekLastError(); code != shimtls.ErrorNone {
				log.Fatalf("read failed: %s", code)
			}
			break
		}
		os.Stdout.Write(buf[:n])
	}
	// Keep the *os.File from leaving scope early; its finalizer would
	// close the descriptor the session now owns.
	runtime.KeepAlive(file)
}
