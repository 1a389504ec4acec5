package usecase

import (
	"context"
	"fmt"
	"time"

	"movie-review/internal/apperror"
	"movie-review/internal/data/entity"
	"movie-review/internal/data/repository"
	"movie-review/internal/dto/request"
	"movie-review/internal/dto/response"
	"movie-review/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type MovieService interface {
	// Public endpoints
	GetByID(ctx context.Context, id string) (*response.MovieResponse, error)
	List(ctx context.Context) ([]response.MovieResponse, error)
	ListWithRatings(ctx context.Context) ([]response.MovieRatingResponse, error)
	Genres(ctx context.Context) ([]string, error)
	ListByGenre(ctx context.Context, genre string) ([]response.MovieResponse, error)

	// Admin endpoints
	Create(ctx context.Context, caller *Caller, req *request.MovieRequest) (*response.MovieResponse, error)
	Update(ctx context.Context, caller *Caller, id string, req *request.MovieUpdateRequest) (*response.MovieResponse, error)
	Delete(ctx context.Context, caller *Caller, id string) error
}

type movieService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewMovieService(repo *repository.Repository, log *zap.Logger) MovieService {
	return &movieService{
		repo: repo,
		log:  log.With(zap.String("service", "movie")),
	}
}

func (s *movieService) Create(ctx context.Context, caller *Caller, req *request.MovieRequest) (*response.MovieResponse, error) {
	if err := Authorize(caller, CapCreateMovie, uuid.Nil); err != nil {
		return nil, err
	}

	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create movie validation failed", zap.Any("errors", errs))
		return nil, apperror.InvalidInput("", utils.FormatValidationErrors(errs))
	}

	now := time.Now()
	movie := &entity.Movie{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Title:       req.Title,
		Director:    req.Director,
		ReleaseYear: req.ReleaseYear,
		Genre:       req.Genre,
		OwnerID:     caller.ID,
		ReviewIDs:   []uuid.UUID{},
	}

	if err := s.repo.Movie.Create(ctx, movie); err != nil {
		s.log.Error("Failed to create movie", zap.Error(err), zap.String("title", req.Title))
		return nil, err
	}

	s.log.Info("Movie created",
		zap.String("movie_id", movie.ID.String()),
		zap.String("title", movie.Title),
		zap.String("owner_id", caller.ID.String()))

	resp := response.MovieToResponse(movie)
	return &resp, nil
}

func (s *movieService) GetByID(ctx context.Context, id string) (*response.MovieResponse, error) {
	movie, err := s.findMovie(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := response.MovieToResponse(movie)
	return &resp, nil
}

func (s *movieService) List(ctx context.Context) ([]response.MovieResponse, error) {
	movies, err := s.repo.Movie.FindAll(ctx)
	if err != nil {
		s.log.Error("Failed to list movies", zap.Error(err))
		return nil, fmt.Errorf("list movies: %w", err)
	}
	return response.MoviesToResponse(movies), nil
}

// ListWithRatings returns every movie with its review count and mean
// rating, both computed from the review rows at read time.
func (s *movieService) ListWithRatings(ctx context.Context) ([]response.MovieRatingResponse, error) {
	movies, err := s.repo.Movie.FindAllWithStats(ctx)
	if err != nil {
		s.log.Error("Failed to list movies with ratings", zap.Error(err))
		return nil, fmt.Errorf("list movies with ratings: %w", err)
	}

	result := make([]response.MovieRatingResponse, 0, len(movies))
	for _, m := range movies {
		result = append(result, response.MovieToRatingResponse(m))
	}
	return result, nil
}

func (s *movieService) Genres(ctx context.Context) ([]string, error) {
	genres, err := s.repo.Movie.FindGenres(ctx)
	if err != nil {
		s.log.Error("Failed to list genres", zap.Error(err))
		return nil, fmt.Errorf("list genres: %w", err)
	}
	return genres, nil
}

func (s *movieService) ListByGenre(ctx context.Context, genre string) ([]response.MovieResponse, error) {
	if genre == "" {
		return nil, apperror.InvalidInput("genre", "genre is required")
	}

	movies, err := s.repo.Movie.FindByGenre(ctx, genre)
	if err != nil {
		s.log.Error("Failed to list movies by genre", zap.Error(err), zap.String("genre", genre))
		return nil, fmt.Errorf("list movies by genre: %w", err)
	}
	return response.MoviesToResponse(movies), nil
}

func (s *movieService) Update(ctx context.Context, caller *Caller, id string, req *request.MovieUpdateRequest) (*response.MovieResponse, error) {
	if err := Authorize(caller, CapUpdateMovie, uuid.Nil); err != nil {
		return nil, err
	}

	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Update movie validation failed", zap.Any("errors", errs))
		return nil, apperror.InvalidInput("", utils.FormatValidationErrors(errs))
	}

	movie, err := s.findMovie(ctx, id)
	if err != nil {
		return nil, err
	}

	// Merge provided fields. Omitted fields keep their stored value,
	// and the owner never changes. A field provided empty is not an
	// omission, it is bad input.
	if req.Title != nil {
		if *req.Title == "" {
			return nil, apperror.InvalidInput("title", "title cannot be empty")
		}
		movie.Title = *req.Title
	}
	if req.Director != nil {
		if *req.Director == "" {
			return nil, apperror.InvalidInput("director", "director cannot be empty")
		}
		movie.Director = *req.Director
	}
	if req.ReleaseYear != nil {
		if *req.ReleaseYear <= 0 {
			return nil, apperror.InvalidInput("release_year", "release year must be positive")
		}
		movie.ReleaseYear = *req.ReleaseYear
	}
	if req.Genre != nil {
		if *req.Genre == "" {
			return nil, apperror.InvalidInput("genre", "genre cannot be empty")
		}
		movie.Genre = *req.Genre
	}
	movie.UpdatedAt = time.Now()

	if err := s.repo.Movie.Update(ctx, movie); err != nil {
		s.log.Error("Failed to update movie", zap.Error(err), zap.String("movie_id", id))
		return nil, err
	}

	s.log.Info("Movie updated",
		zap.String("movie_id", id),
		zap.String("updated_by", caller.ID.String()))

	resp := response.MovieToResponse(movie)
	return &resp, nil
}

// Delete removes a movie together with all of its reviews in one
// transaction.
func (s *movieService) Delete(ctx context.Context, caller *Caller, id string) error {
	if err := Authorize(caller, CapDeleteMovie, uuid.Nil); err != nil {
		return err
	}

	movieID, err := uuid.Parse(id)
	if err != nil {
		return apperror.InvalidInput("id", "invalid movie ID format")
	}

	if err := s.repo.Movie.Delete(ctx, movieID); err != nil {
		s.log.Error("Failed to delete movie", zap.Error(err), zap.String("movie_id", id))
		return err
	}

	s.log.Info("Movie deleted",
		zap.String("movie_id", id),
		zap.String("deleted_by", caller.ID.String()))

	return nil
}

// ==================== HELPER METHODS ====================

func (s *movieService) findMovie(ctx context.Context, id string) (*entity.Movie, error) {
	movieID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.InvalidInput("id", "invalid movie ID format")
	}

	movie, err := s.repo.Movie.FindByID(ctx, movieID)
	if err != nil {
		s.log.Error("Failed to find movie", zap.Error(err), zap.String("movie_id", id))
		return nil, fmt.Errorf("find movie: %w", err)
	}
	if movie == nil {
		return nil, apperror.NotFound("movie", id)
	}

	return movie, nil
}
