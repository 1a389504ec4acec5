package repository

import (
	"context"
	"fmt"

	"movie-review/internal/apperror"
	"movie-review/internal/data/entity"
	"movie-review/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type MovieRepository interface {
	Create(ctx context.Context, movie *entity.Movie) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Movie, error)
	FindAll(ctx context.Context) ([]*entity.Movie, error)
	Update(ctx context.Context, movie *entity.Movie) error
	Delete(ctx context.Context, id uuid.UUID) error

	// Genre queries
	FindGenres(ctx context.Context) ([]string, error)
	FindByGenre(ctx context.Context, genre string) ([]*entity.Movie, error)

	// FindAllWithStats recomputes each movie's rating aggregate from the
	// review rows at read time; nothing denormalized is stored.
	FindAllWithStats(ctx context.Context) ([]*entity.MovieWithStats, error)
}

type movieRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewMovieRepository(db database.PgxIface, log *zap.Logger) MovieRepository {
	return &movieRepository{
		db:  db,
		log: log.With(zap.String("repository", "movie")),
	}
}

func (r *movieRepository) Create(ctx context.Context, movie *entity.Movie) error {
	query := `
		INSERT INTO movies (id, title, director, release_year, genre, owner_id,
		                   review_ids, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.Exec(ctx, query,
		movie.ID,
		movie.Title,
		movie.Director,
		movie.ReleaseYear,
		movie.Genre,
		movie.OwnerID,
		movie.ReviewIDs,
		movie.CreatedAt,
		movie.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create movie",
			zap.Error(err),
			zap.String("title", movie.Title),
		)
		return fmt.Errorf("create movie %s: %w", movie.Title, err)
	}

	return nil
}

func (r *movieRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Movie, error) {
	query := `
		SELECT id, title, director, release_year, genre, owner_id,
		       review_ids, created_at, updated_at
		FROM movies
		WHERE id = $1
	`

	var movie entity.Movie
	err := r.db.QueryRow(ctx, query, id).Scan(
		&movie.ID,
		&movie.Title,
		&movie.Director,
		&movie.ReleaseYear,
		&movie.Genre,
		&movie.OwnerID,
		&movie.ReviewIDs,
		&movie.CreatedAt,
		&movie.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find movie by ID",
			zap.Error(err),
			zap.String("movie_id", id.String()),
		)
		return nil, fmt.Errorf("find movie by ID %s: %w", id.String(), err)
	}

	return &movie, nil
}

func (r *movieRepository) FindAll(ctx context.Context) ([]*entity.Movie, error) {
	query := `
		SELECT id, title, director, release_year, genre, owner_id,
		       review_ids, created_at, updated_at
		FROM movies
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to find all movies", zap.Error(err))
		return nil, fmt.Errorf("find all movies: %w", err)
	}
	defer rows.Close()

	return r.scanMovies(rows)
}

// Update replaces the descriptive fields. owner_id is deliberately not in
// the SET list; the owning user never changes after creation.
func (r *movieRepository) Update(ctx context.Context, movie *entity.Movie) error {
	query := `
		UPDATE movies
		SET title = $2, director = $3, release_year = $4, genre = $5, updated_at = $6
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		movie.ID,
		movie.Title,
		movie.Director,
		movie.ReleaseYear,
		movie.Genre,
		movie.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to update movie",
			zap.Error(err),
			zap.String("movie_id", movie.ID.String()),
		)
		return fmt.Errorf("update movie %s: %w", movie.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NotFound("movie", movie.ID.String())
	}

	return nil
}

// Delete removes a movie and every review that references it in a single
// transaction. The reviews go first, so no review row can ever survive
// its movie and no observer sees the movie without its reviews gone too.
func (r *movieRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin delete movie %s: %w", id.String(), err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM reviews WHERE movie_id = $1`, id); err != nil {
		r.log.Error("Failed to cascade delete reviews",
			zap.Error(err),
			zap.String("movie_id", id.String()),
		)
		return fmt.Errorf("cascade delete reviews for movie %s: %w", id.String(), err)
	}

	result, err := tx.Exec(ctx, `DELETE FROM movies WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete movie",
			zap.Error(err),
			zap.String("movie_id", id.String()),
		)
		return fmt.Errorf("delete movie %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NotFound("movie", id.String())
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit delete movie %s: %w", id.String(), err)
	}

	r.log.Info("Movie deleted", zap.String("movie_id", id.String()))
	return nil
}

func (r *movieRepository) FindGenres(ctx context.Context) ([]string, error) {
	query := `SELECT DISTINCT genre FROM movies ORDER BY genre`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to find genres", zap.Error(err))
		return nil, fmt.Errorf("find genres: %w", err)
	}
	defer rows.Close()

	var genres []string
	for rows.Next() {
		var genre string
		if err := rows.Scan(&genre); err != nil {
			return nil, fmt.Errorf("scan genre row: %w", err)
		}
		genres = append(genres, genre)
	}

	return genres, rows.Err()
}

func (r *movieRepository) FindByGenre(ctx context.Context, genre string) ([]*entity.Movie, error) {
	query := `
		SELECT id, title, director, release_year, genre, owner_id,
		       review_ids, created_at, updated_at
		FROM movies
		WHERE genre = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, genre)
	if err != nil {
		r.log.Error("Failed to find movies by genre",
			zap.Error(err),
			zap.String("genre", genre),
		)
		return nil, fmt.Errorf("find movies by genre %s: %w", genre, err)
	}
	defer rows.Close()

	return r.scanMovies(rows)
}

func (r *movieRepository) FindAllWithStats(ctx context.Context) ([]*entity.MovieWithStats, error) {
	// Left join keeps movies with zero reviews; their AVG comes back NULL
	// and stays NULL (absent), never zero.
	query := `
		SELECT m.id, m.title, m.director, m.release_year, m.genre, m.owner_id,
		       m.review_ids, m.created_at, m.updated_at,
		       COUNT(rv.id) AS review_count,
		       ROUND(AVG(rv.rating)::numeric, 2)::float8 AS average_rating
		FROM movies m
		LEFT JOIN reviews rv ON rv.movie_id = m.id
		GROUP BY m.id
		ORDER BY m.created_at DESC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to find movies with stats", zap.Error(err))
		return nil, fmt.Errorf("find movies with stats: %w", err)
	}
	defer rows.Close()

	var result []*entity.MovieWithStats
	for rows.Next() {
		var m entity.MovieWithStats
		err := rows.Scan(
			&m.ID,
			&m.Title,
			&m.Director,
			&m.ReleaseYear,
			&m.Genre,
			&m.OwnerID,
			&m.ReviewIDs,
			&m.CreatedAt,
			&m.UpdatedAt,
			&m.ReviewCount,
			&m.AverageRating,
		)
		if err != nil {
			r.log.Error("Failed to scan movie stats row", zap.Error(err))
			return nil, fmt.Errorf("scan movie stats row: %w", err)
		}
		result = append(result, &m)
	}

	return result, rows.Err()
}

func (r *movieRepository) scanMovies(rows pgx.Rows) ([]*entity.Movie, error) {
	var movies []*entity.Movie
	for rows.Next() {
		var movie entity.Movie
		err := rows.Scan(
			&movie.ID,
			&movie.Title,
			&movie.Director,
			&movie.ReleaseYear,
			&movie.Genre,
			&movie.OwnerID,
			&movie.ReviewIDs,
			&movie.CreatedAt,
			&movie.UpdatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan movie row", zap.Error(err))
			return nil, fmt.Errorf("scan movie row: %w", err)
		}
		movies = append(movies, &movie)
	}

	return movies, rows.Err()
}
