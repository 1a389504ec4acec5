package entity

import (
	"github.com/google/uuid"
)

type Movie struct {
	Base
	Title       string    `db:"title"`
	Director    string    `db:"director"`
	ReleaseYear int       `db:"release_year"`
	Genre       string    `db:"genre"`
	OwnerID     uuid.UUID `db:"owner_id"` // immutable after creation

	// ReviewIDs mirrors which reviews target this movie. It is a lookup
	// aid only; the review rows are the source of truth. Maintained by
	// the review store inside the same transaction as the review row.
	ReviewIDs []uuid.UUID `db:"review_ids"`
}

// MovieWithStats joins a movie with its rating aggregate. AverageRating
// is nil when the movie has no reviews, not zero.
type MovieWithStats struct {
	Movie
	ReviewCount   int64
	AverageRating *float64
}
