package auth

import (
	"errors"

	"github.com/bustracker/backend/internal/models"
)

var (
	ErrNotAuthenticated    = errors.New("not authenticated")
	ErrInsufficientRole    = errors.New("role not authorized for this operation")
	ErrNotOwner            = errors.New("caller does not own the target record")
	ErrSelfActionForbidden = errors.New("cannot perform this action on your own account")
)

// Operation is the closed set of actions gated by the policy.
type Operation int

const (
	OpBusCreate Operation = iota
	OpBusRead
	OpBusSearch
	OpBusUpdate
	OpBusUpdateLocation
	OpBusDelete
	OpBusStats
	OpUserList
	OpUserCreate
	OpUserUpdate
	OpUserDelete
	OpUserToggleStatus
	OpUserBulkAction
	OpDashboard
	OpActivityLogs
)

// Caller is the verified identity behind a request. A zero Caller (not
// Authenticated) represents an anonymous request.
type Caller struct {
	ID            uint
	Role          models.Role
	Authenticated bool
}

// Authorize decides whether caller may perform op. For bus mutations targetID
// is the owning user's id; for user management it is the target user's id.
// Denials carry a distinct reason so the boundary layer can pick a status.
func Authorize(caller Caller, op Operation, targetID uint) error {
	// Read-only bus operations are public.
	switch op {
	case OpBusRead, OpBusSearch:
		return nil
	}

	if !caller.Authenticated {
		return ErrNotAuthenticated
	}

	if caller.Role == models.RoleAdmin {
		// The one thing an admin may not do is destroy their own account.
		if (op == OpUserDelete || op == OpUserBulkAction) && targetID == caller.ID {
			return ErrSelfActionForbidden
		}
		return nil
	}

	switch op {
	case OpBusCreate:
		if caller.Role == models.RoleDriver {
			return nil
		}
		return ErrInsufficientRole
	case OpBusUpdate, OpBusUpdateLocation:
		if caller.ID == targetID {
			return nil
		}
		return ErrNotOwner
	case OpBusDelete, OpBusStats,
		OpUserList, OpUserCreate, OpUserUpdate, OpUserDelete,
		OpUserToggleStatus, OpUserBulkAction, OpDashboard, OpActivityLogs:
		return ErrInsufficientRole
	}
	return ErrInsufficientRole
}
