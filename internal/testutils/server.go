package testutils

import (
	"crypto/tls"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
)

// TestServer is an HTTPS server whose certificate chains to an ephemeral
// CA. Clients must be configured to trust [TestServer.CA] explicitly; a
// production root bundle will reject it.
type TestServer struct {
	*httptest.Server
	URL  string
	Addr string
	CA   *CA
}

// NewTestServer starts an HTTPS server with /hello, /get, and /post echo
// handlers, serving a leaf certificate issued by a fresh CA for the
// loopback addresses.
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()
	ca := NewCA(t)
	certPEM, keyPEM := ca.Issue(t, "localhost", "127.0.0.1", "::1")
	cert, err := tls.X509KeyPair(certPEM, keyPEM)
	if err != nil {
		t.Fatalf("load server key pair: %v", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/hello", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"message": "Hello, from a simple HTTPS server!"})
	})
	mux.HandleFunc("/get", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Invalid request method", http.StatusMethodNotAllowed)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"message": "This is a GET response"})
	})
	mux.HandleFunc("/post", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Invalid request method", http.StatusMethodNotAllowed)
			return
		}
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request body", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", r.Header.Get("Content-Type"))
		w.Write(body)
	})

	server := httptest.NewUnstartedServer(mux)
	server.TLS = &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
		MaxVersion:   tls.VersionTLS13,
	}
	server.StartTLS()
	t.Cleanup(server.Close)

	return &TestServer{
		Server: server,
		URL:    server.URL,
		Addr:   server.Listener.Addr().String(),
		CA:     ca,
	}
}

// NewEchoServer starts a raw TLS echo server with a leaf issued by the
// given CA and returns its address. Each accepted connection is echoed
// back until EOF.
func NewEchoServer(t *testing.T, ca *CA) string {
	t.Helper()
	certPEM, keyPEM := ca.Issue(t, "localhost", "127.0.0.1", "::1")
	cert, err := tls.X509KeyPair(certPEM, keyPEM)
	if err != nil {
		t.Fatalf("load echo key pair: %v", err)
	}
	ln, err := tls.Listen("tcp", "127.0.0.1:0", &tls.Config{
		Certificates: []tls.Certificate{cert},
	})
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func(c net.Conn) {
				defer c.Close()
				io.Copy(c, c)
			}(conn)
		}
	}()
	return ln.Addr().String()
}
