package shimtls

import (
	"fmt"
	"net"
	"os"

	"github.com/pkg/errors"
)

// BIO is the transport abstraction a session reads from and writes to. It
// owns the underlying descriptor: once a BIO is built from a raw fd, the
// caller must not use or close that fd again. Ownership transfer is
// unconditional and unchecked.
type BIO struct {
	conn   net.Conn
	file   *os.File
	closer Closer
}

func (b *BIO) String() string {
	return fmt.Sprintf("%-20s %-20s",
		fmt.Sprintf("local=%+v", b.LocalAddr()),
		fmt.Sprintf("remote=%+v", b.RemoteAddr()))
}

// NewBIOFromFD takes exclusive ownership of a connected socket descriptor
// and wraps it in a [BIO]. The descriptor is duplicated into the runtime
// network poller; both the duplicate and the original are released exactly
// once by [BIO.Close].
func NewBIOFromFD(fd int) (*BIO, error) {
	if fd < 0 {
		return nil, errors.Errorf("shimtls: invalid transport descriptor %d", fd)
	}
	file := os.NewFile(uintptr(fd), "shimtls-transport")
	if file == nil {
		return nil, errors.Errorf("shimtls: descriptor %d is not usable", fd)
	}
	conn, err := net.FileConn(file)
	if err != nil {
		file.Close()
		return nil, errors.Wrap(err, "shimtls: transport from descriptor")
	}
	return newBIO(conn, file), nil
}

// NewBIOFromConn wraps an already-connected transport in a [BIO], taking
// ownership of it.
func NewBIOFromConn(conn net.Conn) *BIO {
	return newBIO(conn, nil)
}

func newBIO(conn net.Conn, file *os.File) *BIO {
	b := &BIO{conn: conn, file: file}
	b.closer = newOnceCloser(func() error {
		err := b.conn.Close()
		if b.file != nil {
			if ferr := b.file.Close(); err == nil {
				err = ferr
			}
		}
		return err
	})
	return b
}

// Conn returns the owned transport.
func (b *BIO) Conn() net.Conn {
	return b.conn
}

// LocalAddr returns the local address if known.
func (b *BIO) LocalAddr() net.Addr {
	return b.conn.LocalAddr()
}

// RemoteAddr returns the peer address if known.
func (b *BIO) RemoteAddr() net.Addr {
	return b.conn.RemoteAddr()
}

// Close releases the transport. Safe to call more than once; the
// descriptor is only closed the first time.
func (b *BIO) Close() error {
	return b.closer.Close()
}
