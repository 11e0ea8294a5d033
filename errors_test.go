package shimtls_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	shimtls "github.com/aristanetworks/go-shimtls"
)

// failOnce triggers an InvalidArgument registry entry on the calling
// goroutine by setting an empty hostname on a fresh session.
func failOnce(t *testing.T) {
	t.Helper()
	ctx, err := shimtls.NewClientCtx(shimtls.NewConfig())
	require.NoError(t, err)
	defer shimtls.CTXFree(ctx)
	ssl := shimtls.SSLNew(ctx)
	require.NotZero(t, ssl)
	defer shimtls.SSLFree(ssl)
	require.Equal(t, shimtls.SSLFailure, shimtls.SSLSetTlsExtHostName(ssl, ""))
}

func TestErrorRegistry(t *testing.T) {
	t.Run("get returns and clears", func(t *testing.T) {
		shimtls.ERRClearError()
		failOnce(t)
		assert.Equal(t, shimtls.ErrorInvalidArgument, shimtls.ERRGetError())
		assert.Equal(t, shimtls.ErrorNone, shimtls.ERRGetError())
	})

	t.Run("peek does not clear", func(t *testing.T) {
		shimtls.ERRClearError()
		failOnce(t)
		assert.Equal(t, shimtls.ErrorInvalidArgument, shimtls.ERRPeekLastError())
		assert.Equal(t, shimtls.ErrorInvalidArgument, shimtls.ERRPeekLastError())
		shimtls.ERRClearError()
		assert.Equal(t, shimtls.ErrorNone, shimtls.ERRPeekLastError())
	})

	t.Run("success does not clear a stale entry", func(t *testing.T) {
		shimtls.ERRClearError()
		failOnce(t)

		ctx, err := shimtls.NewClientCtx(shimtls.NewConfig())
		require.NoError(t, err)
		defer shimtls.CTXFree(ctx)
		ssl := shimtls.SSLNew(ctx)
		require.NotZero(t, ssl)
		defer shimtls.SSLFree(ssl)
		require.Equal(t, shimtls.SSLSuccess, shimtls.SSLSetTlsExtHostName(ssl, "example.com"))

		assert.Equal(t, shimtls.ErrorInvalidArgument, shimtls.ERRPeekLastError())
		shimtls.ERRClearError()
	})

	t.Run("entries are per goroutine", func(t *testing.T) {
		shimtls.ERRClearError()

		var wg sync.WaitGroup
		codes := make([]shimtls.ErrorCode, 2)
		wg.Add(2)
		go func() {
			defer wg.Done()
			failOnce(t)
			codes[0] = shimtls.ERRGetError()
		}()
		go func() {
			defer wg.Done()
			codes[1] = shimtls.ERRPeekLastError()
		}()
		wg.Wait()

		assert.Equal(t, shimtls.ErrorInvalidArgument, codes[0])
		assert.Equal(t, shimtls.ErrorNone, codes[1])
		assert.Equal(t, shimtls.ErrorNone, shimtls.ERRPeekLastError())
	})
}
