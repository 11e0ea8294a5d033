package shimtls_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	shimtls "github.com/aristanetworks/go-shimtls"
)

func TestMethodConstructors(t *testing.T) {
	t.Run("unsupported versions return the zero handle silently", func(t *testing.T) {
		shimtls.ERRClearError()
		tests := []struct {
			name string
			ctor func() shimtls.MethodHandle
		}{
			{"SSLv3", shimtls.SSLv3ClientMethod},
			{"TLSv1", shimtls.TLSv1ClientMethod},
			{"TLSv1.1", shimtls.TLSv11ClientMethod},
		}
		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				assert.Zero(t, tc.ctor())
				assert.Equal(t, shimtls.ErrorNone, shimtls.ERRPeekLastError())
			})
		}
	})

	t.Run("supported versions allocate a method", func(t *testing.T) {
		shimtls.ERRClearError()
		for _, ctor := range []func() shimtls.MethodHandle{
			shimtls.TLSv12ClientMethod,
			shimtls.TLSv13ClientMethod,
		} {
			m := ctor()
			require.NotZero(t, m)
			assert.Equal(t, shimtls.ErrorNone, shimtls.ERRPeekLastError())
			ctx := shimtls.CTXNew(m)
			require.NotZero(t, ctx)
			shimtls.CTXFree(ctx)
		}
	})

	t.Run("method is consumed by context construction", func(t *testing.T) {
		shimtls.ERRClearError()
		m := shimtls.TLSv13ClientMethod()
		require.NotZero(t, m)

		ctx := shimtls.CTXNew(m)
		require.NotZero(t, ctx)
		defer shimtls.CTXFree(ctx)

		// Reusing the consumed method handle fails silently; a fresh
		// method is required for each context.
		assert.Zero(t, shimtls.CTXNew(m))
		assert.Equal(t, shimtls.ErrorNone, shimtls.ERRPeekLastError())
	})

	t.Run("context construction from the zero handle is silent", func(t *testing.T) {
		shimtls.ERRClearError()
		assert.Zero(t, shimtls.CTXNew(0))
		assert.Equal(t, shimtls.ErrorNone, shimtls.ERRPeekLastError())
	})

	t.Run("context construction from a wrong-kind handle is silent", func(t *testing.T) {
		shimtls.ERRClearError()
		m := shimtls.TLSv13ClientMethod()
		ctx := shimtls.CTXNew(m)
		require.NotZero(t, ctx)
		defer shimtls.CTXFree(ctx)

		// A context handle is not a method handle.
		assert.Zero(t, shimtls.CTXNew(shimtls.MethodHandle(ctx)))
		assert.Equal(t, shimtls.ErrorNone, shimtls.ERRPeekLastError())
	})
}
