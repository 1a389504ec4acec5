package repository

import (
	"context"

	"movie-review/internal/apperror"
	"movie-review/internal/data/entity"

	"github.com/google/uuid"
)

type reviewMemory struct {
	state *memoryState
}

func (m *reviewMemory) Create(ctx context.Context, review *entity.Review) error {
	s := m.state
	s.mu.Lock()
	defer s.mu.Unlock()

	movie, ok := s.movies[review.MovieID]
	if !ok {
		return apperror.NotFound("movie", review.MovieID.String())
	}

	pair := reviewPair{userID: review.UserID, movieID: review.MovieID}
	if _, exists := s.reviewByPair[pair]; exists {
		return apperror.Conflict("user already reviewed this movie")
	}

	// Insert and back-reference append happen under the same lock; no
	// reader can observe one without the other.
	s.reviews[review.ID] = copyReview(review)
	s.reviewByPair[pair] = review.ID
	movie.ReviewIDs = append(movie.ReviewIDs, review.ID)
	return nil
}

func (m *reviewMemory) FindByID(ctx context.Context, id uuid.UUID) (*entity.Review, error) {
	s := m.state
	s.mu.RLock()
	defer s.mu.RUnlock()

	review, ok := s.reviews[id]
	if !ok {
		return nil, nil
	}
	return copyReview(review), nil
}

func (m *reviewMemory) FindByMovieID(ctx context.Context, movieID uuid.UUID) ([]*entity.Review, error) {
	s := m.state
	s.mu.RLock()
	defer s.mu.RUnlock()

	var reviews []*entity.Review
	for _, review := range s.reviews {
		if review.MovieID == movieID {
			reviews = append(reviews, copyReview(review))
		}
	}
	sortReviewsNewestFirst(reviews)
	return reviews, nil
}

func (m *reviewMemory) FindByUserAndMovie(ctx context.Context, userID, movieID uuid.UUID) (*entity.Review, error) {
	s := m.state
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.reviewByPair[reviewPair{userID: userID, movieID: movieID}]
	if !ok {
		return nil, nil
	}
	return copyReview(s.reviews[id]), nil
}

func (m *reviewMemory) FindAll(ctx context.Context) ([]*entity.Review, error) {
	s := m.state
	s.mu.RLock()
	defer s.mu.RUnlock()

	reviews := make([]*entity.Review, 0, len(s.reviews))
	for _, review := range s.reviews {
		reviews = append(reviews, copyReview(review))
	}
	sortReviewsNewestFirst(reviews)
	return reviews, nil
}

func (m *reviewMemory) Update(ctx context.Context, review *entity.Review) error {
	s := m.state
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.reviews[review.ID]
	if !ok {
		return apperror.NotFound("review", review.ID.String())
	}

	existing.Rating = review.Rating
	existing.Comment = review.Comment
	existing.UpdatedAt = review.UpdatedAt
	return nil
}

func (m *reviewMemory) Delete(ctx context.Context, review *entity.Review) error {
	s := m.state
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.reviews[review.ID]
	if !ok {
		return apperror.NotFound("review", review.ID.String())
	}

	delete(s.reviews, review.ID)
	delete(s.reviewByPair, reviewPair{userID: stored.UserID, movieID: stored.MovieID})

	if movie, ok := s.movies[stored.MovieID]; ok {
		kept := movie.ReviewIDs[:0]
		for _, id := range movie.ReviewIDs {
			if id != review.ID {
				kept = append(kept, id)
			}
		}
		movie.ReviewIDs = kept
	}
	return nil
}

func (m *reviewMemory) StatsByMovieID(ctx context.Context, movieID uuid.UUID) (*entity.ReviewStats, error) {
	s := m.state
	s.mu.RLock()
	defer s.mu.RUnlock()

	return computeStats(s, movieID), nil
}
