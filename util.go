package shimtls

import (
	"io"
	"sync"
)

// Closer is an [io.Closer] that remembers the error from its first Close.
type Closer interface {
	// Err returns the error recorded by Close.
	Err() error
	io.Closer
}

// noopCloser is the default closer that does nothing.
type noopCloser struct{}

func (noopCloser) Err() error   { return nil }
func (noopCloser) Close() error { return nil }

// onceCloser calls closeFunc once and stores the returned error.
type onceCloser struct {
	closeOnce sync.Once
	closeFunc func() error
	closeErr  error
}

func newOnceCloser(f func() error) Closer {
	return &onceCloser{closeFunc: f}
}

func (o *onceCloser) Err() error {
	return o.closeErr
}

func (o *onceCloser) Close() error {
	o.closeOnce.Do(func() {
		o.closeErr = o.closeFunc()
	})
	return o.closeErr
}
