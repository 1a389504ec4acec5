package repository

import (
	"sort"
	"sync"

	"movie-review/internal/data/entity"

	"github.com/google/uuid"
)

// memoryState is the shared backing store for the in-memory repositories.
// One mutex covers all record sets so that compound operations (review
// insert + movie back-reference append, movie delete + review cascade)
// are atomic exactly like their transactional postgres counterparts.
type memoryState struct {
	mu       sync.RWMutex
	users    map[uuid.UUID]*entity.User
	sessions map[uuid.UUID]*entity.Session // keyed by token
	movies   map[uuid.UUID]*entity.Movie
	reviews  map[uuid.UUID]*entity.Review
	// reviewByPair enforces at-most-one-review-per-(user,movie); checked
	// and written under the same lock as the insert, so concurrent
	// creates for one pair cannot both succeed.
	reviewByPair map[reviewPair]uuid.UUID
}

type reviewPair struct {
	userID  uuid.UUID
	movieID uuid.UUID
}

// NewMemoryRepository wires in-memory implementations of every store over
// one shared state. Used by tests and by anything that needs the domain
// rules without a database.
func NewMemoryRepository() *Repository {
	state := &memoryState{
		users:        make(map[uuid.UUID]*entity.User),
		sessions:     make(map[uuid.UUID]*entity.Session),
		movies:       make(map[uuid.UUID]*entity.Movie),
		reviews:      make(map[uuid.UUID]*entity.Review),
		reviewByPair: make(map[reviewPair]uuid.UUID),
	}

	return &Repository{
		User:    &userMemory{state: state},
		Session: &sessionMemory{state: state},
		Movie:   &movieMemory{state: state},
		Review:  &reviewMemory{state: state},
	}
}

func copyUser(u *entity.User) *entity.User {
	c := *u
	return &c
}

func copySession(s *entity.Session) *entity.Session {
	c := *s
	return &c
}

func copyMovie(m *entity.Movie) *entity.Movie {
	c := *m
	c.ReviewIDs = append([]uuid.UUID(nil), m.ReviewIDs...)
	return &c
}

func copyReview(r *entity.Review) *entity.Review {
	c := *r
	return &c
}

// newestFirst matches the postgres ORDER BY created_at DESC, with the id
// as a tie-breaker so list results stay stable.
func sortMoviesNewestFirst(movies []*entity.Movie) {
	sort.Slice(movies, func(i, j int) bool {
		if movies[i].CreatedAt.Equal(movies[j].CreatedAt) {
			return movies[i].ID.String() < movies[j].ID.String()
		}
		return movies[i].CreatedAt.After(movies[j].CreatedAt)
	})
}

func sortReviewsNewestFirst(reviews []*entity.Review) {
	sort.Slice(reviews, func(i, j int) bool {
		if reviews[i].CreatedAt.Equal(reviews[j].CreatedAt) {
			return reviews[i].ID.String() < reviews[j].ID.String()
		}
		return reviews[i].CreatedAt.After(reviews[j].CreatedAt)
	})
}
