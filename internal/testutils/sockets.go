//go:build unix

package testutils

import (
	"syscall"
	"testing"
)

// SocketPair returns a connected pair of stream socket descriptors. The
// caller owns both; hand one across an ownership-transferring call and
// close the other explicitly.
func SocketPair(t *testing.T) (int, int) {
	t.Helper()
	fds, err := syscall.Socketpair(syscall.AF_UNIX, syscall.SOCK_STREAM, 0)
	if err != nil {
		t.Fatalf("socketpair: %v", err)
	}
	return fds[0], fds[1]
}

// FDIsClosed reports whether the descriptor has been released, by probing
// it with fcntl(F_GETFD).
func FDIsClosed(fd int) bool {
	_, _, errno := syscall.Syscall(syscall.SYS_FCNTL, uintptr(fd), syscall.F_GETFD, 0)
	return errno == syscall.EBADF
}
