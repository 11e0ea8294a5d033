// Package shimtls exposes a memory-safe TLS implementation through the
// object model of the classic SSL libraries: method, context, and session
// objects created, configured, connected, read, written, and freed through
// individual calls with the legacy 1/0 return convention.
//
// Callers never receive addresses. Every object lives in an internal arena
// and is referenced by an opaque handle carrying an index and a generation
// counter, so stale, foreign, or wrong-kind handles are detected before
// any object is touched. Calls made with an invalid handle fail silently
// through their return value; argument and protocol failures additionally
// record an [ErrorCode] readable on the calling goroutine via
// [ERRGetError].
//
// The TLS protocol itself is delegated to an engine that produces an
// encrypted duplex stream from a role, a version-pinned configuration, and
// a transport. The transport is handed over by descriptor ([SSLSetFd]) or
// directly ([SSLSetConn]) and is owned by the session from that point on.
//
// Three higher-level types wrap the handle surface for Go callers:
//   - [Config] carries dial options.
//   - [Dialer] creates a session per connection and returns a [net.Conn].
//   - [Transport] dials through [Dialer] for every HTTP round trip.
package shimtls
