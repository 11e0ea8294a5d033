package shimtls

import (
	"bufio"
	"io"
	"net"
	"net/http"
	"net/http/httputil"
	"sync"
)

// Transport implements [http.RoundTripper] by dialing a TLS [Conn] using
// [Dialer]. A new connection is dialed for every round trip.
type Transport struct {
	// Dialer is used for creating TLS connections.
	Dialer *Dialer

	// ModifyHeader is called in RoundTrip to modify the request headers
	// before making the request.
	ModifyHeader func(*http.Header)
}

// RoundTrip does a single HTTP transaction over a freshly dialed [Conn].
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.ModifyHeader != nil {
		t.ModifyHeader(&req.Header)
	}

	port := req.URL.Port()
	if port == "" {
		port = "443"
	}
	address := net.JoinHostPort(req.URL.Hostname(), port)
	conn, err := t.Dialer.DialContext(req.Context(), "tcp", address)
	if err != nil {
		return nil, err
	}

	if deadline, ok := req.Context().Deadline(); ok {
		conn.SetDeadline(deadline)
	}

	b, err := httputil.DumpRequestOut(req, true)
	if err != nil {
		conn.Close()
		return nil, err
	}
	if _, err := conn.Write(b); err != nil {
		conn.Close()
		return nil, err
	}
	resp, err := http.ReadResponse(bufio.NewReader(conn), req)
	if err != nil {
		conn.Close()
		return nil, err
	}
	// The connection stays open until the caller drains and closes the
	// body.
	resp.Body = &bodyWithConn{ReadCloser: resp.Body, conn: conn}
	return resp, nil
}

// bodyWithConn closes the connection together with the response body.
type bodyWithConn struct {
	io.ReadCloser
	conn      net.Conn
	closeOnce sync.Once
	closeErr  error
}

func (b *bodyWithConn) Close() error {
	b.closeOnce.Do(func() {
		b.closeErr = b.ReadCloser.Close()
		if err := b.conn.Close(); b.closeErr == nil {
			b.closeErr = err
		}
	})
	return b.closeErr
}
