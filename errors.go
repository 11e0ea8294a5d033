package shimtls

import (
	"errors"
	"sync"

	"github.com/petermattis/goid"
)

// ErrorCode identifies the class of the most recent failure on the calling
// goroutine. Invalid-handle and unsupported-version failures communicate
// only through their return values and never appear here.
type ErrorCode int32

const (
	// ErrorNone means no failure has been recorded.
	ErrorNone ErrorCode = iota

	// ErrorInvalidArgument covers null or undecodable arguments and calls
	// made before their required prior configuration (no hostname, no
	// transport, wrong session state).
	ErrorInvalidArgument

	// ErrorProtocolOrIO covers handshake failures and encrypted-stream
	// read/write failures reported by the engine.
	ErrorProtocolOrIO
)

func (e ErrorCode) String() string {
	switch e {
	case ErrorNone:
		return "none"
	case ErrorInvalidArgument:
		return "invalid argument"
	case ErrorProtocolOrIO:
		return "protocol or I/O failure"
	}
	return "unknown"
}

// Sentinel errors surfaced by the Go-facing Conn and Dialer layers.
var (
	ErrNotEstablished = errors.New("shimtls: session is not established")
	ErrNoTransport    = errors.New("shimtls: no transport configured")
	ErrNoHostname     = errors.New("shimtls: no hostname configured")
	ErrBadHostname    = errors.New("shimtls: hostname is not decodable")
	ErrWrongRole      = errors.New("shimtls: session already bound to the other role")
	ErrEmptyContext   = errors.New("shimtls: cannot use the zero context handle")
	ErrUnsupported    = errors.New("shimtls: protocol version is not implemented")
	ErrShutdown       = errors.New("shimtls: session is shut down")
)

// errRegistry keys the last recorded error by goroutine id so one
// goroutine's failure never clobbers another's. Entries are overwritten by
// the next failure on the same goroutine and are never cleared by a
// successful call.
var errRegistry sync.Map

func pushError(code ErrorCode) {
	errRegistry.Store(goid.Get(), code)
}

// ERRGetError returns the last error recorded on the calling goroutine and
// clears it, or ErrorNone if nothing was recorded.
func ERRGetError() ErrorCode {
	v, ok := errRegistry.LoadAndDelete(goid.Get())
	if !ok {
		return ErrorNone
	}
	return v.(ErrorCode)
}

// ERRPeekLastError returns the last error recorded on the calling goroutine
// without clearing it.
func ERRPeekLastError() ErrorCode {
	v, ok := errRegistry.Load(goid.Get())
	if !ok {
		return ErrorNone
	}
	return v.(ErrorCode)
}

// ERRClearError drops the calling goroutine's recorded error, if any.
func ERRClearError() {
	errRegistry.Delete(goid.Get())
}
