package shimtls

import (
	"io"
	"net"

	"github.com/pkg/errors"
)

// lookupSSL resolves a session handle. Failure is silent per the
// invalid-handle policy.
func lookupSSL(h SSLHandle) (*session, bool) {
	obj, ok := handles.get(uint64(h), kindSSL)
	if !ok {
		return nil, false
	}
	return obj.(*session), true
}

// classify maps a session-level error onto the registry taxonomy:
// precondition and state errors are the caller's fault, everything else
// came out of the engine or the transport.
func classify(err error) ErrorCode {
	switch {
	case errors.Is(err, ErrNoHostname),
		errors.Is(err, ErrBadHostname),
		errors.Is(err, ErrNoTransport),
		errors.Is(err, ErrNotEstablished),
		errors.Is(err, ErrWrongRole):
		return ErrorInvalidArgument
	}
	return ErrorProtocolOrIO
}

// SSLNew creates a session referencing the given context. The context is
// sealed by this call: its configurations are immutable from here on and
// are shared read-only by every session built from it. No transport or
// engine state is created yet.
func SSLNew(c CtxHandle) SSLHandle {
	obj, ok := handles.get(uint64(c), kindCtx)
	if !ok {
		return 0
	}
	ctx := obj.(*sslCtx)
	client, server := ctx.seal()
	s := &session{
		ctx:          ctx,
		clientConfig: client,
		serverConfig: server,
		state:        stateNew,
	}
	return SSLHandle(handles.put(kindSSL, s))
}

// SSLSetTlsExtHostName stores the hostname used for SNI and certificate
// verification on connect. An empty hostname fails with an invalid
// argument error. The string is not validated further until connect.
func SSLSetTlsExtHostName(h SSLHandle, hostname string) int {
	s, ok := lookupSSL(h)
	if !ok {
		return SSLFailure
	}
	if err := s.setHostname(hostname); err != nil {
		pushError(ErrorInvalidArgument)
		return SSLFailure
	}
	return SSLSuccess
}

// SSLSetFd transfers ownership of a connected socket descriptor to the
// session. The caller must not use or close the descriptor afterward; it
// is released when the session is freed.
func SSLSetFd(h SSLHandle, fd int) int {
	s, ok := lookupSSL(h)
	if !ok {
		return SSLFailure
	}
	bio, err := NewBIOFromFD(fd)
	if err != nil {
		pushError(ErrorInvalidArgument)
		return SSLFailure
	}
	if err := s.setTransport(bio); err != nil {
		bio.Close()
		pushError(ErrorInvalidArgument)
		return SSLFailure
	}
	return SSLSuccess
}

// SSLSetConn transfers ownership of an already-connected transport to the
// session. This is the native-Go companion to [SSLSetFd] for transports
// that have no descriptor.
func SSLSetConn(h SSLHandle, conn net.Conn) int {
	s, ok := lookupSSL(h)
	if !ok {
		return SSLFailure
	}
	if conn == nil {
		pushError(ErrorInvalidArgument)
		return SSLFailure
	}
	if err := s.setTransport(NewBIOFromConn(conn)); err != nil {
		pushError(ErrorInvalidArgument)
		return SSLFailure
	}
	return SSLSuccess
}

// SSLConnect binds the session to the client role and performs the
// handshake. A missing transport or missing/undecodable hostname fails
// with an invalid argument error and leaves the session configurable;
// a handshake failure records a protocol error.
func SSLConnect(h SSLHandle) int {
	s, ok := lookupSSL(h)
	if !ok {
		return SSLFailure
	}
	if err := s.connect(); err != nil {
		pushError(classify(err))
		return SSLFailure
	}
	return SSLSuccess
}

// SSLAccept binds the session to the server role and performs the
// handshake. A missing transport fails with an invalid argument error; no
// hostname is required.
func SSLAccept(h SSLHandle) int {
	s, ok := lookupSSL(h)
	if !ok {
		return SSLFailure
	}
	if err := s.accept(); err != nil {
		pushError(classify(err))
		return SSLFailure
	}
	return SSLSuccess
}

// SSLRead reads decrypted application data into buf and returns the byte
// count. End-of-stream is a successful zero-byte read. Failure returns
// SSLFailure with a registry entry.
func SSLRead(h SSLHandle, buf []byte) int {
	s, ok := lookupSSL(h)
	if !ok {
		return SSLFailure
	}
	n, err := s.read(buf)
	if err == io.EOF {
		// End-of-stream is an ordinary zero-byte read, not a failure.
		return n
	}
	if err != nil {
		pushError(classify(err))
		return SSLFailure
	}
	return n
}

// SSLWrite encrypts and writes buf and returns the byte count. Failure
// returns SSLFailure with a registry entry.
func SSLWrite(h SSLHandle, buf []byte) int {
	s, ok := lookupSSL(h)
	if !ok {
		return SSLFailure
	}
	n, err := s.write(buf)
	if err != nil {
		pushError(classify(err))
		return SSLFailure
	}
	return n
}

// SSLShutdown sends a close-notify alert to the peer so it observes a
// graceful end-of-stream. The session stays readable for draining.
func SSLShutdown(h SSLHandle) int {
	s, ok := lookupSSL(h)
	if !ok {
		return SSLFailure
	}
	if err := s.shutdown(); err != nil {
		pushError(classify(err))
		return SSLFailure
	}
	return SSLSuccess
}

// SSLFree retires the handle and releases the transport, the engine
// session, and the composed stream. The context the session references is
// never freed here. Safe to call with an already-freed handle; that is a
// silent no-op.
func SSLFree(h SSLHandle) {
	obj, ok := handles.retire(uint64(h), kindSSL)
	if !ok {
		return
	}
	obj.(*session).free()
}
