package shimtls

// Legacy two-valued return convention used by every status-returning call
// on the boundary surface.
const (
	SSLFailure = 0
	SSLSuccess = 1
)

// LibraryInit exists for compatibility with callers that expect an explicit
// initialization step. The shim has no global state to set up.
func LibraryInit() int {
	return SSLSuccess
}

// AddSSLAlgorithms is a compatibility no-op; the engine registers its own
// cipher suites.
func AddSSLAlgorithms() int {
	return SSLSuccess
}

// LoadErrorStrings is a compatibility no-op; error codes are formatted by
// [ErrorCode.String].
func LoadErrorStrings() {}
