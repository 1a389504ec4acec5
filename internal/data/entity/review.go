package entity

import (
	"github.com/google/uuid"
)

type Review struct {
	Base
	UserID  uuid.UUID `db:"user_id"`
	MovieID uuid.UUID `db:"movie_id"`
	Rating  int       `db:"rating"`
	Comment string    `db:"comment"`
}

// ReviewStats is the on-demand rating aggregate for one movie.
// Average is nil when Count is 0.
type ReviewStats struct {
	Count   int64
	Average *float64
}
