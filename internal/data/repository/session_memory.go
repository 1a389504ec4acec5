package repository

import (
	"context"
	"time"

	"movie-review/internal/apperror"
	"movie-review/internal/data/entity"

	"github.com/google/uuid"
)

type sessionMemory struct {
	state *memoryState
}

func (m *sessionMemory) Create(ctx context.Context, session *entity.Session) error {
	s := m.state
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[session.Token] = copySession(session)
	return nil
}

func (m *sessionMemory) FindValidSession(ctx context.Context, token string) (*entity.Session, error) {
	tokenUUID, err := uuid.Parse(token)
	if err != nil {
		return nil, nil
	}

	s := m.state
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[tokenUUID]
	if !ok || session.RevokedAt != nil || !session.ExpiresAt.After(time.Now()) {
		return nil, nil
	}
	return copySession(session), nil
}

func (m *sessionMemory) Revoke(ctx context.Context, token string) error {
	tokenUUID, err := uuid.Parse(token)
	if err != nil {
		return apperror.NotFound("session", token)
	}

	s := m.state
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[tokenUUID]
	if !ok || session.RevokedAt != nil {
		return apperror.NotFound("session", token)
	}

	now := time.Now()
	session.RevokedAt = &now
	return nil
}
