package authz

import "errors"

var (
	// ErrNotAuthorized is the only error the resolver returns. The cause is logged, never exposed.
	ErrNotAuthorized = errors.New("not authorized")

	// ErrUserNotFound is returned by a Store when no user has the username.
	ErrUserNotFound = errors.New("user not found")
	// ErrFunctionNotFound is returned by a Store when no active system function has the name.
	ErrFunctionNotFound = errors.New("system function not found")

	errInactive = errors.New("user is inactive")
)

// reason labels a decision in logs and metrics.
type reason string

const (
	reasonGranted          reason = "granted"
	reasonEmptyUsername    reason = "empty_username"
	reasonUnknownUser      reason = "unknown_user"
	reasonInactiveUser     reason = "inactive_user"
	reasonUnknownPrivilege reason = "unknown_privilege"
	reasonPrivilegeNotHeld reason = "privilege_not_held"
	reasonStorageFailure   reason = "storage_failure"
)
