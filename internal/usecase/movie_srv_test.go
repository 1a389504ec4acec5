package usecase

import (
	"context"
	"errors"
	"testing"

	"movie-review/internal/apperror"
	"movie-review/internal/dto/request"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateMovieRequiresAdmin(t *testing.T) {
	svc, _ := newTestService(t)
	user := registerUser(t, svc, "alice", "alice@example.com", false)

	_, err := svc.Movie.Create(context.Background(), user, &request.MovieRequest{
		Title:       "Dune",
		Director:    "Denis Villeneuve",
		ReleaseYear: 2021,
		Genre:       "Sci-Fi",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrForbidden))

	_, err = svc.Movie.Create(context.Background(), nil, &request.MovieRequest{
		Title:       "Dune",
		Director:    "Denis Villeneuve",
		ReleaseYear: 2021,
		Genre:       "Sci-Fi",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrUnauthenticated))
}

func TestCreateMovieRequiredFields(t *testing.T) {
	svc, _ := newTestService(t)
	admin := registerUser(t, svc, "boss", "boss@example.com", true)

	_, err := svc.Movie.Create(context.Background(), admin, &request.MovieRequest{
		Title: "Dune",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrInvalidInput))
}

func TestCreateMovieSetsOwner(t *testing.T) {
	svc, repo := newTestService(t)
	admin := registerUser(t, svc, "boss", "boss@example.com", true)

	movie := createMovie(t, svc, admin, "Dune")

	movieID, err := uuid.Parse(movie.ID)
	require.NoError(t, err)

	stored, err := repo.Movie.FindByID(context.Background(), movieID)
	require.NoError(t, err)
	assert.Equal(t, admin.ID, stored.OwnerID)
	assert.Empty(t, stored.ReviewIDs)
}

func TestUpdateMoviePartial(t *testing.T) {
	svc, repo := newTestService(t)
	admin := registerUser(t, svc, "boss", "boss@example.com", true)
	movie := createMovie(t, svc, admin, "Dune")

	title := "Dune: Part Two"
	year := 2024
	updated, err := svc.Movie.Update(context.Background(), admin, movie.ID, &request.MovieUpdateRequest{
		Title:       &title,
		ReleaseYear: &year,
	})
	require.NoError(t, err)

	// Provided fields replaced, omitted fields untouched.
	assert.Equal(t, "Dune: Part Two", updated.Title)
	assert.Equal(t, 2024, updated.ReleaseYear)
	assert.Equal(t, "Denis Villeneuve", updated.Director)
	assert.Equal(t, "Sci-Fi", updated.Genre)

	// The owner stays with the creator.
	movieID, err := uuid.Parse(movie.ID)
	require.NoError(t, err)
	stored, err := repo.Movie.FindByID(context.Background(), movieID)
	require.NoError(t, err)
	assert.Equal(t, admin.ID, stored.OwnerID)
}

func TestUpdateMovieEmptyFieldRejected(t *testing.T) {
	svc, _ := newTestService(t)
	admin := registerUser(t, svc, "boss", "boss@example.com", true)
	movie := createMovie(t, svc, admin, "Dune")

	empty := ""
	_, err := svc.Movie.Update(context.Background(), admin, movie.ID, &request.MovieUpdateRequest{Title: &empty})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrInvalidInput))

	zero := 0
	_, err = svc.Movie.Update(context.Background(), admin, movie.ID, &request.MovieUpdateRequest{ReleaseYear: &zero})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrInvalidInput))
}

func TestUpdateMovieRequiresAdmin(t *testing.T) {
	svc, _ := newTestService(t)
	admin := registerUser(t, svc, "boss", "boss@example.com", true)
	user := registerUser(t, svc, "alice", "alice@example.com", false)
	movie := createMovie(t, svc, admin, "Dune")

	title := "Hijacked"
	_, err := svc.Movie.Update(context.Background(), user, movie.ID, &request.MovieUpdateRequest{Title: &title})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrForbidden))
}

func TestUpdateMovieNotFound(t *testing.T) {
	svc, _ := newTestService(t)
	admin := registerUser(t, svc, "boss", "boss@example.com", true)

	title := "Ghost"
	_, err := svc.Movie.Update(context.Background(), admin, uuid.NewString(), &request.MovieUpdateRequest{Title: &title})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}

func TestGetMovieInvalidID(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Movie.GetByID(context.Background(), "not-a-uuid")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrInvalidInput))
}

func TestDeleteMovieRequiresAdmin(t *testing.T) {
	svc, _ := newTestService(t)
	admin := registerUser(t, svc, "boss", "boss@example.com", true)
	user := registerUser(t, svc, "alice", "alice@example.com", false)
	movie := createMovie(t, svc, admin, "Dune")

	err := svc.Movie.Delete(context.Background(), user, movie.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrForbidden))

	require.NoError(t, svc.Movie.Delete(context.Background(), admin, movie.ID))

	_, err = svc.Movie.GetByID(context.Background(), movie.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}

func TestListMoviesAndGenres(t *testing.T) {
	svc, _ := newTestService(t)
	admin := registerUser(t, svc, "boss", "boss@example.com", true)

	createMovie(t, svc, admin, "Dune")
	_, err := svc.Movie.Create(context.Background(), admin, &request.MovieRequest{
		Title:       "Heat",
		Director:    "Michael Mann",
		ReleaseYear: 1995,
		Genre:       "Crime",
	})
	require.NoError(t, err)

	movies, err := svc.Movie.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, movies, 2)

	genres, err := svc.Movie.Genres(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Crime", "Sci-Fi"}, genres)

	crime, err := svc.Movie.ListByGenre(context.Background(), "Crime")
	require.NoError(t, err)
	require.Len(t, crime, 1)
	assert.Equal(t, "Heat", crime[0].Title)
}

func TestListWithRatings(t *testing.T) {
	svc, _ := newTestService(t)
	admin := registerUser(t, svc, "boss", "boss@example.com", true)
	alice := registerUser(t, svc, "alice", "alice@example.com", false)
	bob := registerUser(t, svc, "bob", "bob@example.com", false)

	rated := createMovie(t, svc, admin, "Dune")
	unrated := createMovie(t, svc, admin, "Heat")

	for _, c := range []struct {
		caller *Caller
		rating int
	}{
		{alice, 3},
		{bob, 4},
	} {
		_, err := svc.Review.Create(context.Background(), c.caller, &request.CreateReviewRequest{
			MovieID: rated.ID,
			Rating:  c.rating,
			Comment: "fine",
		})
		require.NoError(t, err)
	}

	all, err := svc.Movie.ListWithRatings(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)

	for _, m := range all {
		switch m.ID {
		case rated.ID:
			assert.Equal(t, int64(2), m.ReviewCount)
			require.NotNil(t, m.AverageRating)
			assert.InDelta(t, 3.5, *m.AverageRating, 0.0001)
		case unrated.ID:
			assert.Equal(t, int64(0), m.ReviewCount)
			assert.Nil(t, m.AverageRating)
		default:
			t.Fatalf("unexpected movie %s", m.ID)
		}
	}
}
