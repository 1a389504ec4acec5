package usecase

import (
	"context"
	"errors"
	"testing"

	"movie-review/internal/apperror"
	"movie-review/internal/dto/request"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateRoleAdminOnly(t *testing.T) {
	svc, _ := newTestService(t)
	admin := registerUser(t, svc, "boss", "boss@example.com", true)
	alice := registerUser(t, svc, "alice", "alice@example.com", false)
	bob := registerUser(t, svc, "bob", "bob@example.com", false)

	req := &request.UpdateRoleRequest{Role: "admin"}

	_, err := svc.User.UpdateRole(context.Background(), bob, alice.ID.String(), req)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrForbidden))

	_, err = svc.User.UpdateRole(context.Background(), nil, alice.ID.String(), req)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrUnauthenticated))

	promoted, err := svc.User.UpdateRole(context.Background(), admin, alice.ID.String(), req)
	require.NoError(t, err)
	assert.Equal(t, "admin", promoted.Role)
}

func TestUpdateRoleUnknownUser(t *testing.T) {
	svc, _ := newTestService(t)
	admin := registerUser(t, svc, "boss", "boss@example.com", true)

	_, err := svc.User.UpdateRole(context.Background(), admin, uuid.NewString(), &request.UpdateRoleRequest{Role: "admin"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}

func TestGetUserByID(t *testing.T) {
	svc, _ := newTestService(t)
	alice := registerUser(t, svc, "alice", "alice@example.com", false)

	user, err := svc.User.GetByID(context.Background(), alice.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "alice@example.com", user.Email)

	_, err = svc.User.GetByID(context.Background(), uuid.NewString())
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}
