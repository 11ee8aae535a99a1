// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidCredentials indicates a failed email/password check.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidRefreshToken indicates a missing, expired or mismatched refresh token.
	ErrInvalidRefreshToken = errors.New("invalid refresh token")

	// ErrAccessDenied indicates the user has no active membership for the tenant.
	ErrAccessDenied = errors.New("access denied")

	// ErrTenantInactive indicates the targeted autarquia is globally disabled.
	ErrTenantInactive = errors.New("autarquia inactive")

	// ErrNotSuperuser indicates a delegation attempt by a non-superadmin.
	ErrNotSuperuser = errors.New("not superuser")

	// ErrNotDelegated indicates an exit-context call outside support mode.
	ErrNotDelegated = errors.New("not in support mode")

	// ErrModuleNotActive indicates a grant targeting a module that is not
	// enabled for the tenant.
	ErrModuleNotActive = errors.New("module not active for autarquia")

	// ErrConflict indicates an operation blocked by dependent records
	// (e.g. deleting an autarquia that still has members).
	ErrConflict = errors.New("conflict")
)
