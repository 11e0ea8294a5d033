package shimtls

import (
	"fmt"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"time"
)

// Conn is a [net.Conn] over an established session handle. It adds the
// locking and close-once discipline Go callers expect; the handle surface
// underneath stays single-threaded per session.
type Conn struct {
	ssl  SSLHandle
	sess *session

	closer Closer
	closed atomic.Bool
	in     sync.Mutex
	out    sync.Mutex

	localAddr  net.Addr
	remoteAddr net.Addr

	logger Logger
}

// newConn wraps an established session handle. The Conn assumes ownership
// of the handle and frees it on Close.
func newConn(ssl SSLHandle, trace bool) (*Conn, error) {
	s, ok := lookupSSL(ssl)
	if !ok {
		return nil, ErrNotEstablished
	}
	t := s.transport()
	if t == nil || s.state != stateEstablished {
		return nil, ErrNotEstablished
	}
	c := &Conn{
		ssl:        ssl,
		sess:       s,
		localAddr:  t.LocalAddr(),
		remoteAddr: t.RemoteAddr(),
		logger:     noopLogger{},
	}
	if trace {
		c.logger = pkgLogger.WithPrefix("[Conn] ")
	}
	c.closer = newOnceCloser(func() error {
		c.closed.Store(true)
		// Best-effort close-notify so the peer sees a clean EOF; the
		// handle is released either way.
		SSLShutdown(c.ssl)
		SSLFree(c.ssl)
		return nil
	})
	return c, nil
}

func (c *Conn) trace(msg string) {
	c.logger.Log(LevelDebug, "%-20s %-20s %s",
		fmt.Sprintf("local=%+v", c.localAddr),
		fmt.Sprintf("remote=%+v", c.remoteAddr),
		msg)
}

// Read reads decrypted application data. End-of-stream is reported as
// [io.EOF], unlike the boundary surface which folds it into a zero count.
func (c *Conn) Read(b []byte) (int, error) {
	c.trace("Read begin")
	defer c.trace("Read end")
	c.in.Lock()
	defer c.in.Unlock()
	if c.closed.Load() {
		return 0, net.ErrClosed
	}
	if len(b) == 0 {
		return 0, nil
	}
	n, err := c.sess.read(b)
	if err != nil && err != io.EOF {
		return n, &net.OpError{Op: "read", Net: c.remoteAddr.Network(), Addr: c.remoteAddr, Err: err}
	}
	return n, err
}

// Write encrypts and writes application data.
func (c *Conn) Write(b []byte) (int, error) {
	c.trace("Write begin")
	defer c.trace("Write end")
	c.out.Lock()
	defer c.out.Unlock()
	if c.closed.Load() {
		return 0, net.ErrClosed
	}
	n, err := c.sess.write(b)
	if err != nil {
		return n, &net.OpError{Op: "write", Net: c.remoteAddr.Network(), Addr: c.remoteAddr, Err: err}
	}
	return n, nil
}

// Close frees the underlying session handle, releasing the engine session
// and the transport. Safe to call more than once.
func (c *Conn) Close() error {
	c.trace("Close")
	return c.closer.Close()
}

// LocalAddr returns the local address of the transport.
func (c *Conn) LocalAddr() net.Addr {
	return c.localAddr
}

// RemoteAddr returns the peer address of the transport.
func (c *Conn) RemoteAddr() net.Addr {
	return c.remoteAddr
}

// SetDeadline sets the read and write deadlines of the transport.
func (c *Conn) SetDeadline(t time.Time) error {
	if c.closed.Load() {
		return net.ErrClosed
	}
	return c.sess.transport().SetDeadline(t)
}

// SetReadDeadline sets the deadline for future Read calls.
func (c *Conn) SetReadDeadline(t time.Time) error {
	if c.closed.Load() {
		return net.ErrClosed
	}
	return c.sess.transport().SetReadDeadline(t)
}

// SetWriteDeadline sets the deadline for future Write calls.
func (c *Conn) SetWriteDeadline(t time.Time) error {
	if c.closed.Load() {
		return net.ErrClosed
	}
	return c.sess.transport().SetWriteDeadline(t)
}
