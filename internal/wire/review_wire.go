package wire

import (
	"movie-review/internal/adaptor"
	"movie-review/internal/data/repository"
	"movie-review/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireReview(
	r chi.Router,
	reviewHandler *adaptor.ReviewHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	r.Get("/api/reviews", reviewHandler.GetReviews)
	r.Get("/api/reviews/{id}", reviewHandler.GetReviewByID)
	r.Get("/api/movies/{id}/reviews", reviewHandler.GetMovieReviews)
	r.Get("/api/movies/{id}/rating", reviewHandler.GetMovieReviewStats)

	// ==================== PROTECTED ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo, log))

		r.Post("/api/reviews", reviewHandler.CreateReview)
		r.Put("/api/reviews/{id}", reviewHandler.UpdateReview)
		r.Delete("/api/reviews/{id}", reviewHandler.DeleteReview)
	})
}
