package repository

import (
	"context"
	"math"
	"sort"

	"movie-review/internal/apperror"
	"movie-review/internal/data/entity"

	"github.com/google/uuid"
)

type movieMemory struct {
	state *memoryState
}

func (m *movieMemory) Create(ctx context.Context, movie *entity.Movie) error {
	s := m.state
	s.mu.Lock()
	defer s.mu.Unlock()

	s.movies[movie.ID] = copyMovie(movie)
	return nil
}

func (m *movieMemory) FindByID(ctx context.Context, id uuid.UUID) (*entity.Movie, error) {
	s := m.state
	s.mu.RLock()
	defer s.mu.RUnlock()

	movie, ok := s.movies[id]
	if !ok {
		return nil, nil
	}
	return copyMovie(movie), nil
}

func (m *movieMemory) FindAll(ctx context.Context) ([]*entity.Movie, error) {
	s := m.state
	s.mu.RLock()
	defer s.mu.RUnlock()

	movies := make([]*entity.Movie, 0, len(s.movies))
	for _, movie := range s.movies {
		movies = append(movies, copyMovie(movie))
	}
	sortMoviesNewestFirst(movies)
	return movies, nil
}

func (m *movieMemory) Update(ctx context.Context, movie *entity.Movie) error {
	s := m.state
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.movies[movie.ID]
	if !ok {
		return apperror.NotFound("movie", movie.ID.String())
	}

	// Owner and back-reference list are not the caller's to change.
	existing.Title = movie.Title
	existing.Director = movie.Director
	existing.ReleaseYear = movie.ReleaseYear
	existing.Genre = movie.Genre
	existing.UpdatedAt = movie.UpdatedAt
	return nil
}

// Delete removes the movie together with every review pointing at it,
// all inside one critical section.
func (m *movieMemory) Delete(ctx context.Context, id uuid.UUID) error {
	s := m.state
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.movies[id]; !ok {
		return apperror.NotFound("movie", id.String())
	}

	for reviewID, review := range s.reviews {
		if review.MovieID == id {
			delete(s.reviews, reviewID)
			delete(s.reviewByPair, reviewPair{userID: review.UserID, movieID: id})
		}
	}

	delete(s.movies, id)
	return nil
}

func (m *movieMemory) FindGenres(ctx context.Context) ([]string, error) {
	s := m.state
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool)
	var genres []string
	for _, movie := range s.movies {
		if !seen[movie.Genre] {
			seen[movie.Genre] = true
			genres = append(genres, movie.Genre)
		}
	}
	sort.Strings(genres)
	return genres, nil
}

func (m *movieMemory) FindByGenre(ctx context.Context, genre string) ([]*entity.Movie, error) {
	s := m.state
	s.mu.RLock()
	defer s.mu.RUnlock()

	var movies []*entity.Movie
	for _, movie := range s.movies {
		if movie.Genre == genre {
			movies = append(movies, copyMovie(movie))
		}
	}
	sortMoviesNewestFirst(movies)
	return movies, nil
}

func (m *movieMemory) FindAllWithStats(ctx context.Context) ([]*entity.MovieWithStats, error) {
	s := m.state
	s.mu.RLock()
	defer s.mu.RUnlock()

	movies := make([]*entity.Movie, 0, len(s.movies))
	for _, movie := range s.movies {
		movies = append(movies, copyMovie(movie))
	}
	sortMoviesNewestFirst(movies)

	result := make([]*entity.MovieWithStats, 0, len(movies))
	for _, movie := range movies {
		stats := computeStats(s, movie.ID)
		result = append(result, &entity.MovieWithStats{
			Movie:         *movie,
			ReviewCount:   stats.Count,
			AverageRating: stats.Average,
		})
	}
	return result, nil
}

// computeStats recalculates count and mean from current review records.
// Callers must hold at least a read lock.
func computeStats(s *memoryState, movieID uuid.UUID) *entity.ReviewStats {
	var count int64
	var sum int
	for _, review := range s.reviews {
		if review.MovieID == movieID {
			count++
			sum += review.Rating
		}
	}

	stats := &entity.ReviewStats{Count: count}
	if count > 0 {
		avg := math.Round(float64(sum)/float64(count)*100) / 100
		stats.Average = &avg
	}
	return stats
}
