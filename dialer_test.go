package shimtls_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	shimtls "github.com/aristanetworks/go-shimtls"
	"github.com/aristanetworks/go-shimtls/internal/testutils"
)

func TestDialer(t *testing.T) {
	ca := testutils.NewCA(t)
	addr := testutils.NewEchoServer(t, ca)

	t.Run("requires a context handle", func(t *testing.T) {
		_, err := shimtls.NewDialer(0)
		assert.ErrorIs(t, err, shimtls.ErrEmptyContext)
	})

	t.Run("dials, echoes, and closes", func(t *testing.T) {
		ctx := shimtls.CTXNew(shimtls.TLSv13ClientMethod())
		require.NotZero(t, ctx)
		defer shimtls.CTXFree(ctx)
		require.Equal(t, shimtls.SSLSuccess, shimtls.CTXLoadVerifyLocations(ctx, ca.CertPEM))

		d, err := shimtls.NewDialer(ctx, shimtls.WithDialTimeout(5*time.Second))
		require.NoError(t, err)

		conn, err := d.DialContext(context.Background(), "", addr)
		require.NoError(t, err)

		require.NoError(t, conn.SetDeadline(time.Now().Add(5*time.Second)))
		_, err = conn.Write([]byte("ping"))
		require.NoError(t, err)
		buf := make([]byte, 4)
		n, err := conn.Read(buf)
		require.NoError(t, err)
		assert.Equal(t, "ping", string(buf[:n]))

		assert.NotNil(t, conn.LocalAddr())
		assert.NotNil(t, conn.RemoteAddr())
		require.NoError(t, conn.Close())
		assert.NoError(t, conn.Close())
	})

	t.Run("rejects a peer outside the trust set", func(t *testing.T) {
		// This context never learns the test CA, so verification runs
		// against the embedded production bundle and fails.
		ctx := shimtls.CTXNew(shimtls.TLSv13ClientMethod())
		require.NotZero(t, ctx)
		defer shimtls.CTXFree(ctx)

		d, err := shimtls.NewDialer(ctx, shimtls.WithDialTimeout(5*time.Second))
		require.NoError(t, err)

		_, err = d.DialContext(context.Background(), "tcp", addr)
		require.Error(t, err)
	})

	t.Run("grpc dial option wraps the dialer", func(t *testing.T) {
		ctx := shimtls.CTXNew(shimtls.TLSv13ClientMethod())
		require.NotZero(t, ctx)
		defer shimtls.CTXFree(ctx)

		opt, err := shimtls.NewGrpcDialOption(ctx)
		require.NoError(t, err)
		assert.NotNil(t, opt)
	})
}
