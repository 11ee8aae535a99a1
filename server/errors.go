package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/saracristina-sh3/auth-suite-sub000/errs"
)

// writeError maps domain sentinels to HTTP statuses and emits the standard
// error envelope.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	code := "server_error"
	switch {
	case errors.Is(err, errs.ErrNotFound):
		status, code = http.StatusNotFound, "not_found"
	case errors.Is(err, errs.ErrInvalidCredentials):
		status, code = http.StatusUnauthorized, "invalid_grant"
	case errors.Is(err, errs.ErrInvalidRefreshToken):
		status, code = http.StatusUnauthorized, "invalid_grant"
	case errors.Is(err, errs.ErrAccessDenied):
		status, code = http.StatusForbidden, "access_denied"
	case errors.Is(err, errs.ErrTenantInactive):
		status, code = http.StatusForbidden, "tenant_inactive"
	case errors.Is(err, errs.ErrNotSuperuser):
		status, code = http.StatusForbidden, "not_superuser"
	case errors.Is(err, errs.ErrNotDelegated):
		status, code = http.StatusConflict, "not_delegated"
	case errors.Is(err, errs.ErrModuleNotActive):
		status, code = http.StatusUnprocessableEntity, "module_not_active"
	case errors.Is(err, errs.ErrConflict):
		status, code = http.StatusConflict, "conflict"
	}
	c.JSON(status, gin.H{"error": code, "error_description": err.Error()})
}

func badRequest(c *gin.Context, desc string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": desc})
}
