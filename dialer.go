package shimtls

import (
	"context"
	"net"
	"time"

	"github.com/pkg/errors"
	"google.golang.org/grpc"
)

// DefaultNetwork is used when neither the dialer nor the caller names one.
var DefaultNetwork = "tcp"

// Dialer creates [Conn] connections by driving the handle surface:
// session creation, transport hand-off, then connect.
type Dialer struct {
	// Ctx is the context handle sessions are created from.
	Ctx CtxHandle

	// TLS carries the dial options.
	TLS *Config
}

// NewDialer returns a [Dialer] for the given context handle.
func NewDialer(ctx CtxHandle, opts ...ConfigOption) (*Dialer, error) {
	if ctx == 0 {
		return nil, ErrEmptyContext
	}
	return &Dialer{Ctx: ctx, TLS: NewConfig(opts...)}, nil
}

// DialContext dials the address, hands the transport to a fresh session,
// and connects it. The network must be one of "tcp", "tcp4" (IPv4-only),
// or "tcp6" (IPv6-only); when empty, the dialer's configured network is
// used.
func (d *Dialer) DialContext(ctx context.Context, network, addr string) (net.Conn, error) {
	if network == "" {
		network = d.TLS.Network
	}
	if network == "" {
		network = DefaultNetwork
	}
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, err
	}
	if d.TLS.ServerName != "" {
		host = d.TLS.ServerName
	}

	nd := net.Dialer{Deadline: d.deadline(ctx, time.Now())}
	raw, err := nd.DialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}

	ssl := SSLNew(d.Ctx)
	if ssl == 0 {
		raw.Close()
		return nil, ErrEmptyContext
	}
	if SSLSetConn(ssl, raw) != SSLSuccess || SSLSetTlsExtHostName(ssl, host) != SSLSuccess {
		SSLFree(ssl)
		return nil, errFromRegistry()
	}
	if SSLConnect(ssl) != SSLSuccess {
		SSLFree(ssl)
		return nil, errFromRegistry()
	}
	return newConn(ssl, d.TLS.TraceEnabled)
}

// errFromRegistry lifts the calling goroutine's registry entry into an
// error for the Go-facing surface.
func errFromRegistry() error {
	code := ERRGetError()
	if code == ErrorNone {
		return ErrNotEstablished
	}
	return errors.Errorf("shimtls: connect failed: %s", code)
}

// NewGrpcDialOption returns a grpc dial option that creates [Conn]
// connections through this package. The context handle should be non-zero.
func NewGrpcDialOption(ctx CtxHandle, opts ...ConfigOption) (grpc.DialOption, error) {
	d, err := NewDialer(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return grpc.WithContextDialer(func(ctx context.Context, addr string) (net.Conn, error) {
		return d.DialContext(ctx, d.TLS.Network, addr)
	}), nil
}

// deadline returns the earliest of:
//   - now+Timeout
//   - d.TLS.Deadline
//   - the context's deadline
//
// Or zero, if none of Timeout, Deadline, or context's deadline is set.
func (d *Dialer) deadline(ctx context.Context, now time.Time) (earliest time.Time) {
	if d.TLS.Timeout != 0 {
		earliest = now.Add(d.TLS.Timeout)
	}
	if cd, ok := ctx.Deadline(); ok {
		earliest = minNonzeroTime(earliest, cd)
	}
	return minNonzeroTime(earliest, d.TLS.Deadline)
}

func minNonzeroTime(a, b time.Time) time.Time {
	if a.IsZero() {
		return b
	}
	if b.IsZero() || a.Before(b) {
		return a
	}
	return b
}
