package usecase

import (
	"context"
	"testing"

	"movie-review/internal/data/entity"
	"movie-review/internal/data/repository"
	"movie-review/internal/dto/request"
	"movie-review/internal/dto/response"
	"movie-review/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) (*Service, *repository.Repository) {
	t.Helper()

	repo := repository.NewMemoryRepository()
	config := &utils.Config{
		Session: utils.SessionConfig{ExpiryHours: 24},
		Review:  utils.ReviewConfig{MaxRating: 5},
	}
	return NewService(repo, config, zap.NewNop()), repo
}

func registerUser(t *testing.T, svc *Service, username, email string, admin bool) *Caller {
	t.Helper()

	req := &request.RegisterRequest{
		Username: username,
		Email:    email,
		Password: "secret123",
	}
	if admin {
		role := "admin"
		req.Role = &role
	}

	resp, err := svc.Auth.Register(context.Background(), req)
	require.NoError(t, err)

	id, err := uuid.Parse(resp.ID)
	require.NoError(t, err)

	return &Caller{ID: id, Role: entity.UserRole(resp.Role)}
}

func createMovie(t *testing.T, svc *Service, admin *Caller, title string) *response.MovieResponse {
	t.Helper()

	movie, err := svc.Movie.Create(context.Background(), admin, &request.MovieRequest{
		Title:       title,
		Director:    "Denis Villeneuve",
		ReleaseYear: 2021,
		Genre:       "Sci-Fi",
	})
	require.NoError(t, err)
	return movie
}
