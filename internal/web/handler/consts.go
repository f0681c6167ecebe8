package handler

const (
	// RootPath is the root path the route group.
	RootPath = "/"

	// APIPath prefixes every route that requires a bearer token.
	APIPath = "/api/v1"

	// LocalsUsername names the fiber local holding the authenticated username.
	LocalsUsername = "username"

	// LocalsPrincipal names the fiber local holding the authorized *authz.Principal.
	LocalsPrincipal = "principal"

	// ErrNilEnvFatalLogMsg is used if the router or a dependency is nil.
	ErrNilEnvFatalLogMsg = "router or handler env is nil"
)
