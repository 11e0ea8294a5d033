//go:build unix

package shimtls_test

import (
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	shimtls "github.com/aristanetworks/go-shimtls"
	"github.com/aristanetworks/go-shimtls/internal/testutils"
)

func TestBIOFromFD(t *testing.T) {
	t.Run("negative descriptor fails", func(t *testing.T) {
		_, err := shimtls.NewBIOFromFD(-1)
		require.Error(t, err)
	})

	t.Run("owns and releases the descriptor once", func(t *testing.T) {
		fd0, fd1 := testutils.SocketPair(t)
		defer syscall.Close(fd1)

		bio, err := shimtls.NewBIOFromFD(fd0)
		require.NoError(t, err)

		_, err = bio.Conn().Write([]byte("ping"))
		require.NoError(t, err)
		buf := make([]byte, 4)
		n, err := syscall.Read(fd1, buf)
		require.NoError(t, err)
		assert.Equal(t, "ping", string(buf[:n]))

		require.NoError(t, bio.Close())
		assert.True(t, testutils.FDIsClosed(fd0))

		// Second close is a no-op with the same result.
		assert.NoError(t, bio.Close())
	})
}

func TestSessionFreeClosesDescriptor(t *testing.T) {
	fd0, fd1 := testutils.SocketPair(t)
	defer syscall.Close(fd1)

	ctx := shimtls.CTXNew(shimtls.TLSv13ClientMethod())
	require.NotZero(t, ctx)
	defer shimtls.CTXFree(ctx)

	ssl := shimtls.SSLNew(ctx)
	require.NotZero(t, ssl)
	require.Equal(t, shimtls.SSLSuccess, shimtls.SSLSetFd(ssl, fd0))

	shimtls.SSLFree(ssl)
	assert.True(t, testutils.FDIsClosed(fd0))
}
