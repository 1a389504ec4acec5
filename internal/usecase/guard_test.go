package usecase

import (
	"errors"
	"testing"

	"movie-review/internal/apperror"
	"movie-review/internal/data/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestAuthorize(t *testing.T) {
	ownerID := uuid.New()
	user := &Caller{ID: ownerID, Role: entity.RoleUser}
	otherUser := &Caller{ID: uuid.New(), Role: entity.RoleUser}
	admin := &Caller{ID: uuid.New(), Role: entity.RoleAdmin}

	tests := []struct {
		name    string
		caller  *Caller
		cap     Capability
		ownerID uuid.UUID
		wantErr error
	}{
		{"anonymous cannot create movie", nil, CapCreateMovie, uuid.Nil, apperror.ErrUnauthenticated},
		{"anonymous cannot create review", nil, CapCreateReview, uuid.Nil, apperror.ErrUnauthenticated},
		{"user cannot create movie", user, CapCreateMovie, uuid.Nil, apperror.ErrForbidden},
		{"user cannot update movie", user, CapUpdateMovie, uuid.Nil, apperror.ErrForbidden},
		{"user cannot delete movie", user, CapDeleteMovie, uuid.Nil, apperror.ErrForbidden},
		{"user cannot promote", user, CapPromoteUser, uuid.Nil, apperror.ErrForbidden},
		{"admin can create movie", admin, CapCreateMovie, uuid.Nil, nil},
		{"admin can update movie", admin, CapUpdateMovie, uuid.Nil, nil},
		{"admin can delete movie", admin, CapDeleteMovie, uuid.Nil, nil},
		{"admin can promote", admin, CapPromoteUser, uuid.Nil, nil},
		{"user can create review", user, CapCreateReview, uuid.Nil, nil},
		{"admin can create review", admin, CapCreateReview, uuid.Nil, nil},
		{"owner can modify own review", user, CapModifyReview, ownerID, nil},
		{"owner can delete own review", user, CapDeleteReview, ownerID, nil},
		{"other user cannot modify review", otherUser, CapModifyReview, ownerID, apperror.ErrForbidden},
		{"other user cannot delete review", otherUser, CapDeleteReview, ownerID, apperror.ErrForbidden},
		{"admin cannot modify another user's review", admin, CapModifyReview, ownerID, apperror.ErrForbidden},
		{"admin cannot delete another user's review", admin, CapDeleteReview, ownerID, apperror.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Authorize(tt.caller, tt.cap, tt.ownerID)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v, want %v", err, tt.wantErr)
			}
		})
	}
}
