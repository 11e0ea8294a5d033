package shimtls

import (
	"crypto/tls"
	"net"
	"unicode/utf8"

	"github.com/aristanetworks/go-shimtls/internal/engine"
)

// sessionState is the explicit configuration state of a session. Illegal
// accesses (reading before connect, connecting twice) are rejected as
// state errors instead of trusting that calls arrived in order.
type sessionState uint8

const (
	stateNew sessionState = iota
	stateConfiguring
	stateEstablished
	stateFailed
)

type sessionRole uint8

const (
	roleNone sessionRole = iota
	roleClient
	roleServer
)

// session is the per-connection object behind an [SSLHandle]. It holds a
// back-reference to its context plus the configuration pair captured when
// the context was sealed, the owned transport, and, once established, the
// composed encrypted stream produced by the engine.
//
// A session is not safe for concurrent mutation; callers must not invoke
// two mutating calls on the same handle from different goroutines. Two
// sessions sharing one context are fully independent.
type session struct {
	ctx          *sslCtx
	clientConfig *tls.Config
	serverConfig *tls.Config

	state       sessionState
	role        sessionRole
	hostname    string
	hasHostname bool
	bio         *BIO
	stream      engine.Session
}

// setHostname stores the caller's hostname for SNI and verification. The
// string is only checked for presence here; decodability is validated by
// connect.
func (s *session) setHostname(hostname string) error {
	if s.state != stateNew && s.state != stateConfiguring {
		return ErrWrongRole
	}
	if hostname == "" {
		return ErrNoHostname
	}
	s.hostname = hostname
	s.hasHostname = true
	s.state = stateConfiguring
	return nil
}

// setTransport takes ownership of the transport. A previously configured
// transport is released; the caller gave that one up already.
func (s *session) setTransport(bio *BIO) error {
	if s.state != stateNew && s.state != stateConfiguring {
		return ErrWrongRole
	}
	if s.bio != nil {
		s.bio.Close()
	}
	s.bio = bio
	s.state = stateConfiguring
	return nil
}

// checkPreconditions validates that the session can still be bound to a
// role and that a transport is present. Failing here leaves the session in
// its current configuring state so the caller can fix the input and retry.
func (s *session) checkPreconditions() error {
	switch s.state {
	case stateEstablished, stateFailed:
		return ErrWrongRole
	}
	if s.bio == nil {
		return ErrNoTransport
	}
	return nil
}

// connect binds the session to the client role: it builds a client engine
// session scoped to the context's client configuration and the configured
// hostname, composes it with the transport, and runs the handshake
// eagerly so certificate failures surface here rather than on first read.
func (s *session) connect() error {
	if err := s.checkPreconditions(); err != nil {
		return err
	}
	if !s.hasHostname {
		return ErrNoHostname
	}
	if !utf8.ValidString(s.hostname) {
		return ErrBadHostname
	}
	stream, err := engine.NewClientSession(s.clientConfig, s.hostname, s.bio.Conn())
	if err != nil {
		return err
	}
	return s.establish(stream, roleClient)
}

// accept binds the session to the server role. No hostname is required;
// the engine reads SNI from the peer if it sends one.
func (s *session) accept() error {
	if err := s.checkPreconditions(); err != nil {
		return err
	}
	stream, err := engine.NewServerSession(s.serverConfig, s.bio.Conn())
	if err != nil {
		return err
	}
	return s.establish(stream, roleServer)
}

func (s *session) establish(stream engine.Session, role sessionRole) error {
	if err := stream.Handshake(); err != nil {
		// The engine owns the transport once composed; closing the
		// stream tears the transport down with it.
		stream.Close()
		s.bio.Close()
		s.bio = nil
		s.state = stateFailed
		return err
	}
	s.stream = stream
	s.role = role
	s.state = stateEstablished
	debugf("session established role=%d local=%v remote=%v", role, s.bio.LocalAddr(), s.bio.RemoteAddr())
	return nil
}

// read delegates to the composed stream. io.EOF passes through untouched;
// the boundary layer folds it into a zero-byte success, the [Conn]
// adapter reports it as EOF.
func (s *session) read(b []byte) (int, error) {
	if s.state != stateEstablished {
		return 0, ErrNotEstablished
	}
	return s.stream.Read(b)
}

func (s *session) write(b []byte) (int, error) {
	if s.state != stateEstablished {
		return 0, ErrNotEstablished
	}
	return s.stream.Write(b)
}

// transport exposes the owned transport for deadline plumbing in [Conn].
func (s *session) transport() net.Conn {
	if s.bio == nil {
		return nil
	}
	return s.bio.Conn()
}

// shutdown sends the close-notify alert so the peer observes a graceful
// end-of-stream. The transport stays open for draining reads.
func (s *session) shutdown() error {
	if s.state != stateEstablished {
		return ErrNotEstablished
	}
	return s.stream.CloseWrite()
}

// free releases the engine session, the composed stream, and the
// transport. The transport is torn down abruptly, without a close-notify
// round trip, so free never blocks; [SSLShutdown] is the graceful path.
// The descriptor behind the transport is closed exactly once.
func (s *session) free() {
	s.stream = nil
	if s.bio != nil {
		s.bio.Close()
		s.bio = nil
	}
	s.state = stateFailed
}
