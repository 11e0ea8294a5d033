package shimtls

import "crypto/tls"

// method selects a protocol version for contexts built from it. The object
// is consumed by CTXNew; after that call the handle is dead regardless of
// whether context construction succeeded.
type method struct {
	version uint16
}

func newMethod(version uint16) MethodHandle {
	return MethodHandle(handles.put(kindMethod, &method{version: version}))
}

// SSLv3ClientMethod always returns the zero handle; SSLv3 is not
// implemented by the engine.
func SSLv3ClientMethod() MethodHandle {
	return 0
}

// TLSv1ClientMethod always returns the zero handle; TLS 1.0 is not
// implemented by the engine.
func TLSv1ClientMethod() MethodHandle {
	return 0
}

// TLSv11ClientMethod always returns the zero handle; TLS 1.1 is not
// implemented by the engine.
func TLSv11ClientMethod() MethodHandle {
	return 0
}

// TLSv12ClientMethod returns a method selecting TLS 1.2.
func TLSv12ClientMethod() MethodHandle {
	return newMethod(tls.VersionTLS12)
}

// TLSv13ClientMethod returns a method selecting TLS 1.3.
func TLSv13ClientMethod() MethodHandle {
	return newMethod(tls.VersionTLS13)
}
