// Package auth provides the authentication middlewares of the API.
//
// Bearer verifies the signed access token issued by the login handler and
// puts its subject into fiber.Locals. RequirePrivilege asks the authorization
// resolver whether that user holds a privilege and stops the request with
// 401 Not Authorized otherwise.
//
// Usage:
//
//	api := app.Group("/api/v1", auth.Bearer(issuer))
//	api.Post("/roles", auth.RequirePrivilege(resolver, authz.CanCreateRole), createRole)
package auth
