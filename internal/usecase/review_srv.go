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

type ReviewService interface {
	// Public endpoints
	GetByID(ctx context.Context, id string) (*response.ReviewResponse, error)
	ListAll(ctx context.Context) ([]response.ReviewResponse, error)
	ListForMovie(ctx context.Context, movieID string) ([]response.ReviewResponse, error)
	StatsForMovie(ctx context.Context, movieID string) (*response.MovieReviewStats, error)

	// Authenticated endpoints
	Create(ctx context.Context, caller *Caller, req *request.CreateReviewRequest) (*response.ReviewResponse, error)
	Update(ctx context.Context, caller *Caller, id string, req *request.UpdateReviewRequest) (*response.ReviewResponse, error)
	Delete(ctx context.Context, caller *Caller, id string) error
}

type reviewService struct {
	repo   *repository.Repository
	config *utils.Config
	log    *zap.Logger
}

func NewReviewService(repo *repository.Repository, config *utils.Config, log *zap.Logger) ReviewService {
	return &reviewService{
		repo:   repo,
		config: config,
		log:    log.With(zap.String("service", "review")),
	}
}

func (s *reviewService) Create(ctx context.Context, caller *Caller, req *request.CreateReviewRequest) (*response.ReviewResponse, error) {
	if err := Authorize(caller, CapCreateReview, uuid.Nil); err != nil {
		return nil, err
	}

	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create review validation failed", zap.Any("errors", errs))
		return nil, apperror.InvalidInput("", utils.FormatValidationErrors(errs))
	}

	movieID, err := uuid.Parse(req.MovieID)
	if err != nil {
		return nil, apperror.InvalidInput("movie_id", "invalid movie ID format")
	}

	// 1. The movie must exist
	movie, err := s.repo.Movie.FindByID(ctx, movieID)
	if err != nil {
		s.log.Error("Failed to find movie", zap.Error(err), zap.String("movie_id", req.MovieID))
		return nil, fmt.Errorf("find movie: %w", err)
	}
	if movie == nil {
		return nil, apperror.NotFound("movie", req.MovieID)
	}

	// 2. One review per user per movie
	existing, err := s.repo.Review.FindByUserAndMovie(ctx, caller.ID, movieID)
	if err != nil {
		s.log.Error("Failed to check existing review", zap.Error(err))
		return nil, fmt.Errorf("check existing review: %w", err)
	}
	if existing != nil {
		return nil, apperror.Conflict("user already reviewed this movie")
	}

	// 3. Rating inside the configured bound
	if err := s.validateRating(req.Rating); err != nil {
		return nil, err
	}

	now := time.Now()
	review := &entity.Review{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		UserID:  caller.ID,
		MovieID: movieID,
		Rating:  req.Rating,
		Comment: req.Comment,
	}

	// The repository layer resolves duplicate submissions racing past
	// the check above into the same conflict error.
	if err := s.repo.Review.Create(ctx, review); err != nil {
		s.log.Error("Failed to create review",
			zap.Error(err),
			zap.String("user_id", caller.ID.String()),
			zap.String("movie_id", req.MovieID),
		)
		return nil, err
	}

	s.log.Info("Review created",
		zap.String("review_id", review.ID.String()),
		zap.String("user_id", caller.ID.String()),
		zap.String("movie_id", req.MovieID),
		zap.Int("rating", req.Rating),
	)

	resp := response.ReviewToResponse(review)
	return &resp, nil
}

func (s *reviewService) GetByID(ctx context.Context, id string) (*response.ReviewResponse, error) {
	review, err := s.findReview(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := response.ReviewToResponse(review)
	return &resp, nil
}

func (s *reviewService) ListAll(ctx context.Context) ([]response.ReviewResponse, error) {
	reviews, err := s.repo.Review.FindAll(ctx)
	if err != nil {
		s.log.Error("Failed to list reviews", zap.Error(err))
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return response.ReviewsToResponse(reviews), nil
}

// ListForMovie returns the reviews of one movie, newest first. A movie
// without reviews, or one that no longer exists, yields an empty list.
func (s *reviewService) ListForMovie(ctx context.Context, movieID string) ([]response.ReviewResponse, error) {
	movieUUID, err := uuid.Parse(movieID)
	if err != nil {
		return nil, apperror.InvalidInput("movie_id", "invalid movie ID format")
	}

	reviews, err := s.repo.Review.FindByMovieID(ctx, movieUUID)
	if err != nil {
		s.log.Error("Failed to list movie reviews", zap.Error(err), zap.String("movie_id", movieID))
		return nil, fmt.Errorf("list movie reviews: %w", err)
	}
	return response.ReviewsToResponse(reviews), nil
}

func (s *reviewService) StatsForMovie(ctx context.Context, movieID string) (*response.MovieReviewStats, error) {
	movieUUID, err := uuid.Parse(movieID)
	if err != nil {
		return nil, apperror.InvalidInput("movie_id", "invalid movie ID format")
	}

	movie, err := s.repo.Movie.FindByID(ctx, movieUUID)
	if err != nil {
		s.log.Error("Failed to find movie", zap.Error(err), zap.String("movie_id", movieID))
		return nil, fmt.Errorf("find movie: %w", err)
	}
	if movie == nil {
		return nil, apperror.NotFound("movie", movieID)
	}

	stats, err := s.repo.Review.StatsByMovieID(ctx, movieUUID)
	if err != nil {
		s.log.Error("Failed to get review stats", zap.Error(err), zap.String("movie_id", movieID))
		return nil, fmt.Errorf("get review stats: %w", err)
	}

	return response.StatsToResponse(stats), nil
}

func (s *reviewService) Update(ctx context.Context, caller *Caller, id string, req *request.UpdateReviewRequest) (*response.ReviewResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Update review validation failed", zap.Any("errors", errs))
		return nil, apperror.InvalidInput("", utils.FormatValidationErrors(errs))
	}

	review, err := s.findReview(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := Authorize(caller, CapModifyReview, review.UserID); err != nil {
		return nil, err
	}

	if req.Rating != nil {
		if err := s.validateRating(*req.Rating); err != nil {
			return nil, err
		}
		review.Rating = *req.Rating
	}
	if req.Comment != nil {
		review.Comment = *req.Comment
	}
	review.UpdatedAt = time.Now()

	if err := s.repo.Review.Update(ctx, review); err != nil {
		s.log.Error("Failed to update review", zap.Error(err), zap.String("review_id", id))
		return nil, err
	}

	s.log.Info("Review updated",
		zap.String("review_id", id),
		zap.String("user_id", caller.ID.String()),
	)

	resp := response.ReviewToResponse(review)
	return &resp, nil
}

func (s *reviewService) Delete(ctx context.Context, caller *Caller, id string) error {
	review, err := s.findReview(ctx, id)
	if err != nil {
		return err
	}

	if err := Authorize(caller, CapDeleteReview, review.UserID); err != nil {
		return err
	}

	if err := s.repo.Review.Delete(ctx, review); err != nil {
		s.log.Error("Failed to delete review", zap.Error(err), zap.String("review_id", id))
		return err
	}

	s.log.Info("Review deleted",
		zap.String("review_id", id),
		zap.String("user_id", caller.ID.String()),
		zap.String("movie_id", review.MovieID.String()),
	)

	return nil
}

// ==================== HELPER METHODS ====================

func (s *reviewService) validateRating(rating int) error {
	maxRating := s.config.Review.MaxRating
	if rating < 1 || rating > maxRating {
		return apperror.InvalidInput("rating", fmt.Sprintf("rating must be between 1 and %d", maxRating))
	}
	return nil
}

func (s *reviewService) findReview(ctx context.Context, id string) (*entity.Review, error) {
	reviewID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.InvalidInput("id", "invalid review ID format")
	}

	review, err := s.repo.Review.FindByID(ctx, reviewID)
	if err != nil {
		s.log.Error("Failed to find review", zap.Error(err), zap.String("review_id", id))
		return nil, fmt.Errorf("find review: %w", err)
	}
	if review == nil {
		return nil, apperror.NotFound("review", id)
	}

	return review, nil
}
