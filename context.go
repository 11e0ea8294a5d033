package shimtls

import (
	"crypto/tls"
	"crypto/x509"
	"sync"
	"sync/atomic"

	"github.com/certifi/gocertifi"

	"github.com/aristanetworks/go-shimtls/internal/engine"
)

// caBundle is the embedded well-known root set used by every client-role
// configuration. Parsed once; on the (never observed) chance the bundle
// fails to parse, clients get an empty pool and verification fails at
// handshake time instead.
var caBundle = sync.OnceValue(func() *x509.CertPool {
	pool, err := gocertifi.CACerts()
	if err != nil {
		return x509.NewCertPool()
	}
	return pool
})

// sslCtx owns one client-role and one server-role configuration, both
// pinned to the version of the method it was built from. The pair is
// mutable only through the certificate loaders below and only until the
// first session is created, after which both configs are shared read-only
// by every session derived from the context.
type sslCtx struct {
	mu           sync.Mutex
	clientConfig *tls.Config
	serverConfig *tls.Config
	sealed       atomic.Bool
}

// seal marks the context immutable and returns its configuration pair.
func (c *sslCtx) seal() (client, server *tls.Config) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sealed.Store(true)
	return c.clientConfig, c.serverConfig
}

// CTXNew builds a context from a method. The method handle is consumed:
// it is retired before configuration begins and must not be reused,
// matching the ownership-transfer contract of the legacy API. An invalid
// method handle returns the zero handle without touching the error
// registry.
func CTXNew(m MethodHandle) CtxHandle {
	obj, ok := handles.retire(uint64(m), kindMethod)
	if !ok {
		return 0
	}
	mtd := obj.(*method)
	ctx := &sslCtx{
		clientConfig: engine.NewClientConfig(mtd.version, caBundle().Clone()),
		serverConfig: engine.NewServerConfig(mtd.version),
	}
	return CtxHandle(handles.put(kindCtx, ctx))
}

// CTXUseCertificate loads a PEM certificate chain and private key into the
// context's server-role configuration. Valid only before the first session
// is created from the context.
func CTXUseCertificate(h CtxHandle, certPEM, keyPEM []byte) int {
	obj, ok := handles.get(uint64(h), kindCtx)
	if !ok {
		return SSLFailure
	}
	ctx := obj.(*sslCtx)
	if ctx.sealed.Load() {
		pushError(ErrorInvalidArgument)
		return SSLFailure
	}
	cert, err := tls.X509KeyPair(certPEM, keyPEM)
	if err != nil {
		pushError(ErrorInvalidArgument)
		return SSLFailure
	}
	ctx.mu.Lock()
	ctx.serverConfig.Certificates = append(ctx.serverConfig.Certificates, cert)
	ctx.mu.Unlock()
	return SSLSuccess
}

// CTXLoadVerifyLocations appends PEM trust anchors to the context's
// client-role root set, alongside the embedded well-known bundle. Valid
// only before the first session is created from the context.
func CTXLoadVerifyLocations(h CtxHandle, caPEM []byte) int {
	obj, ok := handles.get(uint64(h), kindCtx)
	if !ok {
		return SSLFailure
	}
	ctx := obj.(*sslCtx)
	if ctx.sealed.Load() {
		pushError(ErrorInvalidArgument)
		return SSLFailure
	}
	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	if !ctx.clientConfig.RootCAs.AppendCertsFromPEM(caPEM) {
		pushError(ErrorInvalidArgument)
		return SSLFailure
	}
	return SSLSuccess
}

// CTXFree retires the context handle. Sessions created from the context
// keep their configuration references and remain usable; freeing only
// invalidates the handle for further CTX calls and session creation.
func CTXFree(h CtxHandle) {
	handles.retire(uint64(h), kindCtx)
}
