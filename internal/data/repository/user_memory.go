package repository

import (
	"context"
	"strings"

	"movie-review/internal/apperror"
	"movie-review/internal/data/entity"

	"github.com/google/uuid"
)

type userMemory struct {
	state *memoryState
}

func (m *userMemory) Create(ctx context.Context, user *entity.User) error {
	s := m.state
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Username == user.Username {
			return apperror.Conflict("username already taken")
		}
		if strings.EqualFold(existing.Email, user.Email) {
			return apperror.Conflict("email already registered")
		}
	}

	s.users[user.ID] = copyUser(user)
	return nil
}

func (m *userMemory) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	s := m.state
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	return copyUser(user), nil
}

func (m *userMemory) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	s := m.state
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if strings.EqualFold(user.Email, email) {
			return copyUser(user), nil
		}
	}
	return nil, nil
}

func (m *userMemory) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	s := m.state
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.Username == username {
			return copyUser(user), nil
		}
	}
	return nil, nil
}

func (m *userMemory) UpdateRole(ctx context.Context, user *entity.User) error {
	s := m.state
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.users[user.ID]
	if !ok {
		return apperror.NotFound("user", user.ID.String())
	}

	existing.Role = user.Role
	existing.UpdatedAt = user.UpdatedAt
	return nil
}
