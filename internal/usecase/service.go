package usecase

import (
	"movie-review/internal/data/repository"
	"movie-review/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth   AuthService
	User   UserService
	Movie  MovieService
	Review ReviewService
}

func NewService(repo *repository.Repository, config *utils.Config, log *zap.Logger) *Service {
	return &Service{
		Auth:   NewAuthService(repo, config, log),
		User:   NewUserService(repo.User, log),
		Movie:  NewMovieService(repo, log),
		Review: NewReviewService(repo, config, log),
	}
}
