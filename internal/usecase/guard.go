package usecase

import (
	"movie-review/internal/apperror"
	"movie-review/internal/data/entity"

	"github.com/google/uuid"
)

// Capability names an action a caller may attempt.
type Capability string

const (
	CapCreateMovie  Capability = "movie:create"
	CapUpdateMovie  Capability = "movie:update"
	CapDeleteMovie  Capability = "movie:delete"
	CapPromoteUser  Capability = "user:promote"
	CapCreateReview Capability = "review:create"
	CapModifyReview Capability = "review:modify"
	CapDeleteReview Capability = "review:delete"
)

// Caller is the authenticated identity attached to a request.
// A nil *Caller means the request carried no valid session.
type Caller struct {
	ID   uuid.UUID
	Role entity.UserRole
}

func (c *Caller) IsAdmin() bool {
	return c != nil && c.Role == entity.RoleAdmin
}

// Authorize decides whether caller may perform cap on a resource owned
// by ownerID. Movie mutations and role changes require the admin role.
// Review modification and deletion require ownership, with no admin
// override. ownerID is ignored for capabilities that do not involve
// ownership.
func Authorize(caller *Caller, cap Capability, ownerID uuid.UUID) error {
	if caller == nil {
		return apperror.Unauthenticated("authentication required")
	}

	switch cap {
	case CapCreateMovie, CapUpdateMovie, CapDeleteMovie:
		if !caller.IsAdmin() {
			return apperror.Forbidden("admin role required")
		}
	case CapPromoteUser:
		if !caller.IsAdmin() {
			return apperror.Forbidden("admin role required")
		}
	case CapCreateReview:
		// Any authenticated user may review.
	case CapModifyReview, CapDeleteReview:
		if caller.ID != ownerID {
			return apperror.Forbidden("you can only manage your own reviews")
		}
	default:
		return apperror.Forbidden("unknown capability")
	}

	return nil
}
