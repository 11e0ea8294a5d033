package engine

import (
	"crypto/tls"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vektra/neko"

	"github.com/aristanetworks/go-shimtls/internal/testutils"
)

func TestEngine(t *testing.T) {
	n := neko.Modern(t)

	n.It("rejects versions below TLS 1.2", func(t *testing.T) {
		assert.False(t, Supported(tls.VersionSSL30))
		assert.False(t, Supported(tls.VersionTLS10))
		assert.False(t, Supported(tls.VersionTLS11))
		assert.True(t, Supported(tls.VersionTLS12))
		assert.True(t, Supported(tls.VersionTLS13))
	})

	n.It("requires a transport for either role", func(t *testing.T) {
		_, err := NewClientSession(NewClientConfig(tls.VersionTLS13, nil), "localhost", nil)
		require.Error(t, err)
		_, err = NewServerSession(NewServerConfig(tls.VersionTLS13), nil)
		require.Error(t, err)
	})

	n.It("composes client and server sessions over one duplex stream", func(t *testing.T) {
		ca := testutils.NewCA(t)
		certPEM, keyPEM := ca.Issue(t, "localhost")
		cert, err := tls.X509KeyPair(certPEM, keyPEM)
		require.NoError(t, err)

		serverCfg := NewServerConfig(tls.VersionTLS13)
		serverCfg.Certificates = append(serverCfg.Certificates, cert)
		clientCfg := NewClientConfig(tls.VersionTLS13, ca.Pool())

		cp, sp := net.Pipe()
		client, err := NewClientSession(clientCfg, "localhost", cp)
		require.NoError(t, err)
		server, err := NewServerSession(serverCfg, sp)
		require.NoError(t, err)

		errs := make(chan error, 1)
		go func() { errs <- server.Handshake() }()
		require.NoError(t, client.Handshake())
		require.NoError(t, <-errs)

		assert.Equal(t, uint16(tls.VersionTLS13), client.ConnectionState().Version)

		go func() {
			_, err := client.Write([]byte("hello"))
			errs <- err
		}()
		buf := make([]byte, 5)
		_, err = server.Read(buf)
		require.NoError(t, err)
		require.NoError(t, <-errs)
		assert.Equal(t, "hello", string(buf))

		cp.Close()
		sp.Close()
	})

	n.It("pins the session to exactly one protocol version", func(t *testing.T) {
		ca := testutils.NewCA(t)
		certPEM, keyPEM := ca.Issue(t, "localhost")
		cert, err := tls.X509KeyPair(certPEM, keyPEM)
		require.NoError(t, err)

		// Server only speaks 1.2, client only accepts 1.3.
		serverCfg := NewServerConfig(tls.VersionTLS12)
		serverCfg.Certificates = append(serverCfg.Certificates, cert)
		clientCfg := NewClientConfig(tls.VersionTLS13, ca.Pool())

		cp, sp := net.Pipe()
		client, err := NewClientSession(clientCfg, "localhost", cp)
		require.NoError(t, err)
		server, err := NewServerSession(serverCfg, sp)
		require.NoError(t, err)

		go func() { server.Handshake() }()
		require.Error(t, client.Handshake())
		client.Close()
		server.Close()
	})

	n.Meow()
}
