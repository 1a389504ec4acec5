package response

import (
	"time"

	"movie-review/internal/data/entity"
)

type ReviewResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	MovieID   string    `json:"movie_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MovieReviewStats is the rating aggregate for one movie.
// AverageRating is null for a movie with no reviews.
type MovieReviewStats struct {
	ReviewCount   int64    `json:"review_count"`
	AverageRating *float64 `json:"average_rating"`
}

// Helper converters
func ReviewToResponse(review *entity.Review) ReviewResponse {
	return ReviewResponse{
		ID:        review.ID.String(),
		UserID:    review.UserID.String(),
		MovieID:   review.MovieID.String(),
		Rating:    review.Rating,
		Comment:   review.Comment,
		CreatedAt: review.CreatedAt,
		UpdatedAt: review.UpdatedAt,
	}
}

func ReviewsToResponse(reviews []*entity.Review) []ReviewResponse {
	result := make([]ReviewResponse, 0, len(reviews))
	for _, review := range reviews {
		result = append(result, ReviewToResponse(review))
	}
	return result
}

func StatsToResponse(stats *entity.ReviewStats) *MovieReviewStats {
	return &MovieReviewStats{
		ReviewCount:   stats.Count,
		AverageRating: stats.Average,
	}
}
