package httpapi

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bustracker/backend/internal/auth"
	"github.com/bustracker/backend/internal/fleet"
	"github.com/bustracker/backend/internal/users"
	"github.com/bustracker/backend/internal/validate"
)

// respondError maps a service error to a status code and the JSON error
// shape the frontend expects.
func respondError(c *gin.Context, err error) {
	var verr *validate.ValidationError
	if errors.As(err, &verr) {
		msgs := make([]string, len(verr.Violations))
		for i, v := range verr.Violations {
			msgs[i] = v.Message
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Validation failed",
			"errors":  msgs,
		})
		return
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, auth.ErrNotAuthenticated),
		errors.Is(err, auth.ErrInvalidCredential),
		errors.Is(err, users.ErrInvalidLogin),
		errors.Is(err, users.ErrAccountInactive),
		errors.Is(err, users.ErrRoleMismatch),
		errors.Is(err, users.ErrWrongPassword):
		status = http.StatusUnauthorized
	case errors.Is(err, auth.ErrInsufficientRole),
		errors.Is(err, auth.ErrNotOwner):
		status = http.StatusForbidden
	case errors.Is(err, auth.ErrSelfActionForbidden),
		errors.Is(err, fleet.ErrDuplicateBusNumber),
		errors.Is(err, users.ErrEmailTaken),
		errors.Is(err, users.ErrBadBulkAction):
		status = http.StatusBadRequest
	case errors.Is(err, fleet.ErrBusNotFound),
		errors.Is(err, users.ErrUserNotFound):
		status = http.StatusNotFound
	default:
		log.Printf("[ERROR] %v", err)
	}
	c.JSON(status, gin.H{"success": false, "message": err.Error()})
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": message})
}
