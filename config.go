package shimtls

import (
	"time"
)

// Version selects the TLS protocol version for contexts built through
// [NewClientCtx]. It maps one-to-one onto the method constructors.
type Version int

const (
	VersionSSL30 Version = iota
	VersionTLS10
	VersionTLS11
	VersionTLS12
	VersionTLS13
)

// Config carries the options used by [Dialer] and [Transport]. Protocol
// behavior itself lives in the context; this only shapes how connections
// are dialed.
type Config struct {
	// Version is the protocol version for contexts created from this config.
	Version Version

	// Network is one of "tcp", "tcp4" (IPv4-only), or "tcp6" (IPv6-only).
	Network string

	// Timeout is the maximum amount of time a dial will wait for a
	// connect to complete. The default is no timeout.
	Timeout time.Duration

	// Deadline is the absolute point in time after which dials will fail.
	Deadline time.Time

	// ServerName overrides the hostname used for SNI and verification.
	// When empty, the host portion of the dialed address is used.
	ServerName string

	// TraceEnabled enables debug tracing in [Conn].
	TraceEnabled bool
}

// NewDefaultConfig returns a [Config] with sane defaults.
func NewDefaultConfig() *Config {
	return &Config{
		Version: VersionTLS13,
		Network: "tcp",
	}
}

// ConfigOption is a functional option for configuring [Config].
type ConfigOption func(*Config)

// NewConfig creates a new [Config] with the given options.
func NewConfig(opts ...ConfigOption) *Config {
	cfg := NewDefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithVersion sets the protocol version.
func WithVersion(v Version) ConfigOption {
	return func(cfg *Config) {
		cfg.Version = v
	}
}

// WithNetwork can be one of "tcp", "tcp4" (IPv4-only), or "tcp6"
// (IPv6-only).
func WithNetwork(network string) ConfigOption {
	return func(cfg *Config) {
		cfg.Network = network
	}
}

// WithDialTimeout sets the timeout for the dialer.
func WithDialTimeout(timeout time.Duration) ConfigOption {
	return func(cfg *Config) {
		cfg.Timeout = timeout
	}
}

// WithDialDeadline sets the deadline for the dialer.
func WithDialDeadline(deadline time.Time) ConfigOption {
	return func(cfg *Config) {
		cfg.Deadline = deadline
	}
}

// WithServerName overrides the hostname used for SNI and verification.
func WithServerName(name string) ConfigOption {
	return func(cfg *Config) {
		cfg.ServerName = name
	}
}

// WithTracingEnabled enables debug tracing in [Conn].
func WithTracingEnabled() ConfigOption {
	return func(cfg *Config) {
		cfg.TraceEnabled = true
	}
}

// NewClientCtx builds a context through the boundary surface for the
// configured version. Versions the engine does not implement fail with
// [ErrUnsupported], mirroring the zero handle the legacy constructors
// return.
func NewClientCtx(cfg *Config) (CtxHandle, error) {
	var m MethodHandle
	switch cfg.Version {
	case VersionSSL30:
		m = SSLv3ClientMethod()
	case VersionTLS10:
		m = TLSv1ClientMethod()
	case VersionTLS11:
		m = TLSv11ClientMethod()
	case VersionTLS12:
		m = TLSv12ClientMethod()
	case VersionTLS13:
		m = TLSv13ClientMethod()
	}
	if m == 0 {
		return 0, ErrUnsupported
	}
	ctx := CTXNew(m)
	if ctx == 0 {
		return 0, ErrEmptyContext
	}
	return ctx, nil
}
