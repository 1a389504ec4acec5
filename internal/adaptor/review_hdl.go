package adaptor

import (
	"encoding/json"
	"net/http"

	"movie-review/internal/dto/request"
	"movie-review/internal/usecase"
	"movie-review/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ReviewHandler struct {
	service usecase.ReviewService
	log     *zap.Logger
}

func NewReviewHandler(service usecase.ReviewService, log *zap.Logger) *ReviewHandler {
	return &ReviewHandler{
		service: service,
		log:     log.With(zap.String("handler", "review")),
	}
}

// GetReviews handles GET /api/reviews
func (h *ReviewHandler) GetReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.service.ListAll(r.Context())
	if err != nil {
		respondError(w, h.log, err, "get reviews")
		return
	}

	utils.ResponseSuccess(w, "Reviews retrieved successfully", reviews)
}

// GetReviewByID handles GET /api/reviews/{id}
func (h *ReviewHandler) GetReviewByID(w http.ResponseWriter, r *http.Request) {
	reviewID := chi.URLParam(r, "id")

	review, err := h.service.GetByID(r.Context(), reviewID)
	if err != nil {
		respondError(w, h.log, err, "get review by ID")
		return
	}

	utils.ResponseSuccess(w, "Review retrieved successfully", review)
}

// GetMovieReviews handles GET /api/movies/{id}/reviews
func (h *ReviewHandler) GetMovieReviews(w http.ResponseWriter, r *http.Request) {
	movieID := chi.URLParam(r, "id")

	reviews, err := h.service.ListForMovie(r.Context(), movieID)
	if err != nil {
		respondError(w, h.log, err, "get movie reviews")
		return
	}

	utils.ResponseSuccess(w, "Reviews retrieved successfully", reviews)
}

// GetMovieReviewStats handles GET /api/movies/{id}/rating
func (h *ReviewHandler) GetMovieReviewStats(w http.ResponseWriter, r *http.Request) {
	movieID := chi.URLParam(r, "id")

	stats, err := h.service.StatsForMovie(r.Context(), movieID)
	if err != nil {
		respondError(w, h.log, err, "get movie review stats")
		return
	}

	utils.ResponseSuccess(w, "Review stats retrieved successfully", stats)
}

// CreateReview handles POST /api/reviews
func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	var req request.CreateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	review, err := h.service.Create(r.Context(), callerFromContext(r), &req)
	if err != nil {
		respondError(w, h.log, err, "create review")
		return
	}

	utils.ResponseCreated(w, "Review created successfully", review)
}

// UpdateReview handles PUT /api/reviews/{id} (owner only)
func (h *ReviewHandler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	reviewID := chi.URLParam(r, "id")

	var req request.UpdateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	review, err := h.service.Update(r.Context(), callerFromContext(r), reviewID, &req)
	if err != nil {
		respondError(w, h.log, err, "update review")
		return
	}

	utils.ResponseSuccess(w, "Review updated successfully", review)
}

// DeleteReview handles DELETE /api/reviews/{id} (owner only)
func (h *ReviewHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	reviewID := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), callerFromContext(r), reviewID); err != nil {
		respondError(w, h.log, err, "delete review")
		return
	}

	utils.ResponseSuccess(w, "Review deleted successfully", nil)
}
