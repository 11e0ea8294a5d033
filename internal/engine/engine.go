// Package engine wraps the TLS protocol implementation behind a small
// capability surface. The shim above it never touches handshake or record
// internals; it only asks for a role-specific session composed with a
// transport and then reads and writes application bytes.
package engine

import (
	"crypto/tls"
	"crypto/x509"
	"io"
	"net"

	"github.com/pkg/errors"
)

// Session is the encrypted duplex stream produced by the engine. Read and
// Write transparently drive the handshake if it has not completed yet;
// Handshake forces it eagerly.
type Session interface {
	io.ReadWriteCloser
	Handshake() error
	// CloseWrite sends the engine's end-of-stream alert without closing
	// the transport.
	CloseWrite() error
	ConnectionState() tls.ConnectionState
}

// Supported reports whether the engine implements the given protocol
// version. Versions below TLS 1.2 are deliberately absent.
func Supported(version uint16) bool {
	switch version {
	case tls.VersionTLS12, tls.VersionTLS13:
		return true
	}
	return false
}

// NewClientConfig builds a client-role configuration pinned to exactly one
// protocol version and trusting the given roots. The returned config is
// treated as immutable by callers; sessions clone it.
func NewClientConfig(version uint16, roots *x509.CertPool) *tls.Config {
	return &tls.Config{
		MinVersion: version,
		MaxVersion: version,
		RootCAs:    roots,
	}
}

// NewServerConfig builds a server-role configuration pinned to exactly one
// protocol version. No identity material is loaded here; certificates are
// appended by the caller before the config is shared.
func NewServerConfig(version uint16) *tls.Config {
	return &tls.Config{
		MinVersion: version,
		MaxVersion: version,
	}
}

// NewClientSession composes a client session with the transport. The config
// is cloned so the shared per-context configuration stays read-only, with
// only the peer hostname differing per session.
func NewClientSession(cfg *tls.Config, serverName string, transport net.Conn) (Session, error) {
	if transport == nil {
		return nil, errors.New("engine: client session requires a transport")
	}
	c := cfg.Clone()
	c.ServerName = serverName
	return tls.Client(transport, c), nil
}

// NewServerSession composes a server session with the transport.
func NewServerSession(cfg *tls.Config, transport net.Conn) (Session, error) {
	if transport == nil {
		return nil, errors.New("engine: server session requires a transport")
	}
	return tls.Server(transport, cfg.Clone()), nil
}
