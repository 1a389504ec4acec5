package response

import (
	"time"

	"movie-review/internal/data/entity"
)

type MovieResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Director    string    `json:"director"`
	ReleaseYear int       `json:"release_year"`
	Genre       string    `json:"genre"`
	OwnerID     string    `json:"owner_id"`
	ReviewIDs   []string  `json:"review_ids"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// MovieRatingResponse joins a movie with its on-demand rating aggregate.
// AverageRating serializes as null when the movie has no reviews.
type MovieRatingResponse struct {
	MovieResponse
	ReviewCount   int64    `json:"review_count"`
	AverageRating *float64 `json:"average_rating"`
}

// Helper converters
func MovieToResponse(movie *entity.Movie) MovieResponse {
	reviewIDs := make([]string, 0, len(movie.ReviewIDs))
	for _, id := range movie.ReviewIDs {
		reviewIDs = append(reviewIDs, id.String())
	}

	return MovieResponse{
		ID:          movie.ID.String(),
		Title:       movie.Title,
		Director:    movie.Director,
		ReleaseYear: movie.ReleaseYear,
		Genre:       movie.Genre,
		OwnerID:     movie.OwnerID.String(),
		ReviewIDs:   reviewIDs,
		CreatedAt:   movie.CreatedAt,
		UpdatedAt:   movie.UpdatedAt,
	}
}

func MovieToRatingResponse(m *entity.MovieWithStats) MovieRatingResponse {
	return MovieRatingResponse{
		MovieResponse: MovieToResponse(&m.Movie),
		ReviewCount:   m.ReviewCount,
		AverageRating: m.AverageRating,
	}
}

func MoviesToResponse(movies []*entity.Movie) []MovieResponse {
	result := make([]MovieResponse, 0, len(movies))
	for _, movie := range movies {
		result = append(result, MovieToResponse(movie))
	}
	return result
}
