package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"movie-review/internal/apperror"
	"movie-review/internal/data/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type MemoryRepositorySuite struct {
	suite.Suite
	repo *Repository
	ctx  context.Context
}

func (s *MemoryRepositorySuite) SetupTest() {
	s.repo = NewMemoryRepository()
	s.ctx = context.Background()
}

func TestMemoryRepositorySuite(t *testing.T) {
	suite.Run(t, new(MemoryRepositorySuite))
}

func (s *MemoryRepositorySuite) newUser(username, email string) *entity.User {
	now := time.Now()
	user := &entity.User{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Username:     username,
		Email:        email,
		PasswordHash: "x",
		Role:         entity.RoleUser,
	}
	s.Require().NoError(s.repo.User.Create(s.ctx, user))
	return user
}

func (s *MemoryRepositorySuite) newMovie(title string, owner uuid.UUID) *entity.Movie {
	now := time.Now()
	movie := &entity.Movie{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Title:       title,
		Director:    "Someone",
		ReleaseYear: 2020,
		Genre:       "Drama",
		OwnerID:     owner,
		ReviewIDs:   []uuid.UUID{},
	}
	s.Require().NoError(s.repo.Movie.Create(s.ctx, movie))
	return movie
}

func (s *MemoryRepositorySuite) newReview(userID, movieID uuid.UUID, rating int) *entity.Review {
	now := time.Now()
	review := &entity.Review{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		UserID:  userID,
		MovieID: movieID,
		Rating:  rating,
		Comment: "fine",
	}
	s.Require().NoError(s.repo.Review.Create(s.ctx, review))
	return review
}

// ==================== USER ====================

func (s *MemoryRepositorySuite) TestUserUsernameUnique() {
	s.newUser("alice", "alice@example.com")

	dup := &entity.User{
		Base:         entity.Base{ID: uuid.New(), CreatedAt: time.Now(), UpdatedAt: time.Now()},
		Username:     "alice",
		Email:        "other@example.com",
		PasswordHash: "x",
		Role:         entity.RoleUser,
	}
	err := s.repo.User.Create(s.ctx, dup)
	s.Require().Error(err)
	s.True(errors.Is(err, apperror.ErrConflict))
}

func (s *MemoryRepositorySuite) TestUserEmailUniqueCaseInsensitive() {
	s.newUser("alice", "alice@example.com")

	dup := &entity.User{
		Base:         entity.Base{ID: uuid.New(), CreatedAt: time.Now(), UpdatedAt: time.Now()},
		Username:     "alice2",
		Email:        "ALICE@Example.COM",
		PasswordHash: "x",
		Role:         entity.RoleUser,
	}
	err := s.repo.User.Create(s.ctx, dup)
	s.Require().Error(err)
	s.True(errors.Is(err, apperror.ErrConflict))
}

func (s *MemoryRepositorySuite) TestUserFindByEmailCaseInsensitive() {
	created := s.newUser("alice", "alice@example.com")

	found, err := s.repo.User.FindByEmail(s.ctx, "Alice@EXAMPLE.com")
	s.Require().NoError(err)
	s.Require().NotNil(found)
	s.Equal(created.ID, found.ID)
}

func (s *MemoryRepositorySuite) TestUserUpdateRole() {
	user := s.newUser("alice", "alice@example.com")

	user.Role = entity.RoleAdmin
	s.Require().NoError(s.repo.User.UpdateRole(s.ctx, user))

	found, err := s.repo.User.FindByID(s.ctx, user.ID)
	s.Require().NoError(err)
	s.Equal(entity.RoleAdmin, found.Role)
}

// ==================== SESSION ====================

func (s *MemoryRepositorySuite) TestSessionLifecycle() {
	user := s.newUser("alice", "alice@example.com")

	session := &entity.Session{
		BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: time.Now()},
		UserID:     user.ID,
		Token:      uuid.New(),
		ExpiresAt:  time.Now().Add(time.Hour),
	}
	s.Require().NoError(s.repo.Session.Create(s.ctx, session))

	found, err := s.repo.Session.FindValidSession(s.ctx, session.Token.String())
	s.Require().NoError(err)
	s.Require().NotNil(found)
	s.Equal(user.ID, found.UserID)

	s.Require().NoError(s.repo.Session.Revoke(s.ctx, session.Token.String()))

	found, err = s.repo.Session.FindValidSession(s.ctx, session.Token.String())
	s.Require().NoError(err)
	s.Nil(found)
}

func (s *MemoryRepositorySuite) TestExpiredSessionInvalid() {
	user := s.newUser("alice", "alice@example.com")

	session := &entity.Session{
		BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: time.Now()},
		UserID:     user.ID,
		Token:      uuid.New(),
		ExpiresAt:  time.Now().Add(-time.Minute),
	}
	s.Require().NoError(s.repo.Session.Create(s.ctx, session))

	found, err := s.repo.Session.FindValidSession(s.ctx, session.Token.String())
	s.Require().NoError(err)
	s.Nil(found)
}

// ==================== REVIEW ====================

func (s *MemoryRepositorySuite) TestReviewPairUnique() {
	user := s.newUser("alice", "alice@example.com")
	movie := s.newMovie("Dune", user.ID)
	s.newReview(user.ID, movie.ID, 4)

	dup := &entity.Review{
		Base:    entity.Base{ID: uuid.New(), CreatedAt: time.Now(), UpdatedAt: time.Now()},
		UserID:  user.ID,
		MovieID: movie.ID,
		Rating:  5,
	}
	err := s.repo.Review.Create(s.ctx, dup)
	s.Require().Error(err)
	s.True(errors.Is(err, apperror.ErrConflict))
}

func (s *MemoryRepositorySuite) TestReviewCreateMissingMovie() {
	user := s.newUser("alice", "alice@example.com")

	review := &entity.Review{
		Base:    entity.Base{ID: uuid.New(), CreatedAt: time.Now(), UpdatedAt: time.Now()},
		UserID:  user.ID,
		MovieID: uuid.New(),
		Rating:  4,
	}
	err := s.repo.Review.Create(s.ctx, review)
	s.Require().Error(err)
	s.True(errors.Is(err, apperror.ErrNotFound))
}

func (s *MemoryRepositorySuite) TestReviewBackReference() {
	user := s.newUser("alice", "alice@example.com")
	movie := s.newMovie("Dune", user.ID)
	review := s.newReview(user.ID, movie.ID, 4)

	found, err := s.repo.Movie.FindByID(s.ctx, movie.ID)
	s.Require().NoError(err)
	s.Require().Len(found.ReviewIDs, 1)
	s.Equal(review.ID, found.ReviewIDs[0])

	s.Require().NoError(s.repo.Review.Delete(s.ctx, review))

	found, err = s.repo.Movie.FindByID(s.ctx, movie.ID)
	s.Require().NoError(err)
	s.Empty(found.ReviewIDs)
}

func (s *MemoryRepositorySuite) TestConcurrentReviewCreateOneWins() {
	user := s.newUser("alice", "alice@example.com")
	movie := s.newMovie("Dune", user.ID)

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			review := &entity.Review{
				Base:    entity.Base{ID: uuid.New(), CreatedAt: time.Now(), UpdatedAt: time.Now()},
				UserID:  user.ID,
				MovieID: movie.ID,
				Rating:  3,
			}
			errs[i] = s.repo.Review.Create(s.ctx, review)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			s.True(errors.Is(err, apperror.ErrConflict))
		}
	}
	s.Equal(1, succeeded)

	found, err := s.repo.Movie.FindByID(s.ctx, movie.ID)
	s.Require().NoError(err)
	s.Len(found.ReviewIDs, 1)
}

// ==================== MOVIE ====================

func (s *MemoryRepositorySuite) TestMovieDeleteCascadesReviews() {
	alice := s.newUser("alice", "alice@example.com")
	bob := s.newUser("bob", "bob@example.com")
	movie := s.newMovie("Dune", alice.ID)
	r1 := s.newReview(alice.ID, movie.ID, 4)
	r2 := s.newReview(bob.ID, movie.ID, 5)

	s.Require().NoError(s.repo.Movie.Delete(s.ctx, movie.ID))

	for _, id := range []uuid.UUID{r1.ID, r2.ID} {
		found, err := s.repo.Review.FindByID(s.ctx, id)
		s.Require().NoError(err)
		s.Nil(found)
	}

	// The pair slot frees up with the cascade, so the same user could
	// review a recreated movie.
	movie2 := s.newMovie("Dune", alice.ID)
	s.newReview(alice.ID, movie2.ID, 2)
}

func (s *MemoryRepositorySuite) TestMovieDeleteNotFound() {
	err := s.repo.Movie.Delete(s.ctx, uuid.New())
	s.Require().Error(err)
	s.True(errors.Is(err, apperror.ErrNotFound))
}

func (s *MemoryRepositorySuite) TestMovieUpdateNotFound() {
	movie := &entity.Movie{
		Base:  entity.Base{ID: uuid.New(), CreatedAt: time.Now(), UpdatedAt: time.Now()},
		Title: "Ghost",
	}
	err := s.repo.Movie.Update(s.ctx, movie)
	s.Require().Error(err)
	s.True(errors.Is(err, apperror.ErrNotFound))
}

// ==================== STATS ====================

func (s *MemoryRepositorySuite) TestStatsNoReviews() {
	user := s.newUser("alice", "alice@example.com")
	movie := s.newMovie("Dune", user.ID)

	stats, err := s.repo.Review.StatsByMovieID(s.ctx, movie.ID)
	s.Require().NoError(err)
	s.Equal(int64(0), stats.Count)
	s.Nil(stats.Average)
}

func (s *MemoryRepositorySuite) TestStatsMeanRoundedToTwoDecimals() {
	users := []*entity.User{
		s.newUser("a", "a@example.com"),
		s.newUser("b", "b@example.com"),
		s.newUser("c", "c@example.com"),
	}
	movie := s.newMovie("Dune", users[0].ID)

	for i, rating := range []int{3, 4, 5} {
		s.newReview(users[i].ID, movie.ID, rating)
	}

	stats, err := s.repo.Review.StatsByMovieID(s.ctx, movie.ID)
	s.Require().NoError(err)
	s.Equal(int64(3), stats.Count)
	s.Require().NotNil(stats.Average)
	s.InDelta(4.0, *stats.Average, 0.0001)
}

func (s *MemoryRepositorySuite) TestStatsRepeatingMean() {
	users := []*entity.User{
		s.newUser("a", "a@example.com"),
		s.newUser("b", "b@example.com"),
		s.newUser("c", "c@example.com"),
	}
	movie := s.newMovie("Dune", users[0].ID)

	for i, rating := range []int{3, 3, 4} {
		s.newReview(users[i].ID, movie.ID, rating)
	}

	stats, err := s.repo.Review.StatsByMovieID(s.ctx, movie.ID)
	s.Require().NoError(err)
	s.Require().NotNil(stats.Average)
	s.InDelta(3.33, *stats.Average, 0.0001)
}

func (s *MemoryRepositorySuite) TestFindAllWithStats() {
	user := s.newUser("alice", "alice@example.com")
	rated := s.newMovie("Dune", user.ID)
	unrated := s.newMovie("Heat", user.ID)
	s.newReview(user.ID, rated.ID, 4)

	all, err := s.repo.Movie.FindAllWithStats(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(all, 2)

	byID := make(map[uuid.UUID]*entity.MovieWithStats, len(all))
	for _, m := range all {
		byID[m.ID] = m
	}

	s.Equal(int64(1), byID[rated.ID].ReviewCount)
	s.Require().NotNil(byID[rated.ID].AverageRating)
	s.InDelta(4.0, *byID[rated.ID].AverageRating, 0.0001)

	s.Equal(int64(0), byID[unrated.ID].ReviewCount)
	s.Nil(byID[unrated.ID].AverageRating)
}

func TestFindByGenre(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	now := time.Now()

	owner := uuid.New()
	for _, m := range []struct {
		title string
		genre string
	}{
		{"Dune", "Sci-Fi"},
		{"Heat", "Crime"},
		{"Blade Runner", "Sci-Fi"},
	} {
		require.NoError(t, repo.Movie.Create(ctx, &entity.Movie{
			Base:        entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
			Title:       m.title,
			Director:    "Someone",
			ReleaseYear: 2000,
			Genre:       m.genre,
			OwnerID:     owner,
		}))
	}

	genres, err := repo.Movie.FindGenres(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"Crime", "Sci-Fi"}, genres)

	scifi, err := repo.Movie.FindByGenre(ctx, "Sci-Fi")
	require.NoError(t, err)
	require.Len(t, scifi, 2)
}
