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

type ReviewRepository interface {
	// Create inserts the review and appends its id to the movie's
	// back-reference list atomically. Returns a Conflict error when the
	// (user, movie) pair already has a review, and NotFound when the
	// movie disappeared underneath the caller.
	Create(ctx context.Context, review *entity.Review) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Review, error)
	FindByMovieID(ctx context.Context, movieID uuid.UUID) ([]*entity.Review, error)
	FindByUserAndMovie(ctx context.Context, userID, movieID uuid.UUID) (*entity.Review, error)
	FindAll(ctx context.Context) ([]*entity.Review, error)
	Update(ctx context.Context, review *entity.Review) error
	// Delete removes the review and its back-reference entry atomically.
	Delete(ctx context.Context, review *entity.Review) error

	// StatsByMovieID recomputes the rating aggregate from current rows.
	StatsByMovieID(ctx context.Context, movieID uuid.UUID) (*entity.ReviewStats, error)
}

type reviewRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewReviewRepository(db database.PgxIface, log *zap.Logger) ReviewRepository {
	return &reviewRepository{
		db:  db,
		log: log.With(zap.String("repository", "review")),
	}
}

func (r *reviewRepository) Create(ctx context.Context, review *entity.Review) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create review: %w", err)
	}
	defer tx.Rollback(ctx)

	insert := `
		INSERT INTO reviews (id, user_id, movie_id, rating, comment, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err = tx.Exec(ctx, insert,
		review.ID,
		review.UserID,
		review.MovieID,
		review.Rating,
		review.Comment,
		review.CreatedAt,
		review.UpdatedAt,
	)

	// The unique (user_id, movie_id) index serializes concurrent creates
	// for the same pair; the loser lands here, not on a stale pre-check.
	if pgErrCode(err) == pgUniqueViolation {
		return apperror.Conflict("user already reviewed this movie")
	}
	if pgErrCode(err) == pgForeignKeyViolation {
		return apperror.NotFound("movie", review.MovieID.String())
	}
	if err != nil {
		r.log.Error("Failed to create review",
			zap.Error(err),
			zap.String("user_id", review.UserID.String()),
			zap.String("movie_id", review.MovieID.String()),
		)
		return fmt.Errorf("create review for movie %s by user %s: %w",
			review.MovieID.String(), review.UserID.String(), err)
	}

	backref := `
		UPDATE movies
		SET review_ids = array_append(review_ids, $2)
		WHERE id = $1
	`

	result, err := tx.Exec(ctx, backref, review.MovieID, review.ID)
	if err != nil {
		r.log.Error("Failed to append review back-reference",
			zap.Error(err),
			zap.String("movie_id", review.MovieID.String()),
		)
		return fmt.Errorf("append review back-reference: %w", err)
	}
	if result.RowsAffected() == 0 {
		// Movie deleted concurrently; the rollback drops the review too.
		return apperror.NotFound("movie", review.MovieID.String())
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit create review: %w", err)
	}

	return nil
}

func (r *reviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Review, error) {
	query := `
		SELECT id, user_id, movie_id, rating, comment, created_at, updated_at
		FROM reviews
		WHERE id = $1
	`

	var review entity.Review
	err := r.db.QueryRow(ctx, query, id).Scan(
		&review.ID,
		&review.UserID,
		&review.MovieID,
		&review.Rating,
		&review.Comment,
		&review.CreatedAt,
		&review.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find review by ID",
			zap.Error(err),
			zap.String("review_id", id.String()),
		)
		return nil, fmt.Errorf("find review by ID %s: %w", id.String(), err)
	}

	return &review, nil
}

func (r *reviewRepository) FindByMovieID(ctx context.Context, movieID uuid.UUID) ([]*entity.Review, error) {
	query := `
		SELECT id, user_id, movie_id, rating, comment, created_at, updated_at
		FROM reviews
		WHERE movie_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, movieID)
	if err != nil {
		r.log.Error("Failed to find reviews by movie ID",
			zap.Error(err),
			zap.String("movie_id", movieID.String()),
		)
		return nil, fmt.Errorf("find reviews by movie ID %s: %w", movieID.String(), err)
	}
	defer rows.Close()

	return r.scanReviews(rows)
}

func (r *reviewRepository) FindByUserAndMovie(ctx context.Context, userID, movieID uuid.UUID) (*entity.Review, error) {
	query := `
		SELECT id, user_id, movie_id, rating, comment, created_at, updated_at
		FROM reviews
		WHERE user_id = $1 AND movie_id = $2
	`

	var review entity.Review
	err := r.db.QueryRow(ctx, query, userID, movieID).Scan(
		&review.ID,
		&review.UserID,
		&review.MovieID,
		&review.Rating,
		&review.Comment,
		&review.CreatedAt,
		&review.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find review by user and movie",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.String("movie_id", movieID.String()),
		)
		return nil, fmt.Errorf("find review by user %s and movie %s: %w",
			userID.String(), movieID.String(), err)
	}

	return &review, nil
}

func (r *reviewRepository) FindAll(ctx context.Context) ([]*entity.Review, error) {
	query := `
		SELECT id, user_id, movie_id, rating, comment, created_at, updated_at
		FROM reviews
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to find all reviews", zap.Error(err))
		return nil, fmt.Errorf("find all reviews: %w", err)
	}
	defer rows.Close()

	return r.scanReviews(rows)
}

func (r *reviewRepository) Update(ctx context.Context, review *entity.Review) error {
	query := `
		UPDATE reviews
		SET rating = $2, comment = $3, updated_at = $4
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		review.ID,
		review.Rating,
		review.Comment,
		review.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to update review",
			zap.Error(err),
			zap.String("review_id", review.ID.String()),
		)
		return fmt.Errorf("update review %s: %w", review.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NotFound("review", review.ID.String())
	}

	return nil
}

func (r *reviewRepository) Delete(ctx context.Context, review *entity.Review) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin delete review: %w", err)
	}
	defer tx.Rollback(ctx)

	result, err := tx.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, review.ID)
	if err != nil {
		r.log.Error("Failed to delete review",
			zap.Error(err),
			zap.String("review_id", review.ID.String()),
		)
		return fmt.Errorf("delete review %s: %w", review.ID.String(), err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NotFound("review", review.ID.String())
	}

	remove := `
		UPDATE movies
		SET review_ids = array_remove(review_ids, $2)
		WHERE id = $1
	`

	if _, err := tx.Exec(ctx, remove, review.MovieID, review.ID); err != nil {
		r.log.Error("Failed to remove review back-reference",
			zap.Error(err),
			zap.String("movie_id", review.MovieID.String()),
		)
		return fmt.Errorf("remove review back-reference: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit delete review: %w", err)
	}

	r.log.Info("Review deleted", zap.String("review_id", review.ID.String()))
	return nil
}

func (r *reviewRepository) StatsByMovieID(ctx context.Context, movieID uuid.UUID) (*entity.ReviewStats, error) {
	// AVG over zero rows is NULL and is scanned into a nil pointer: a
	// movie with no reviews has no average, which is not an average of 0.
	query := `
		SELECT COUNT(*), ROUND(AVG(rating)::numeric, 2)::float8
		FROM reviews
		WHERE movie_id = $1
	`

	var stats entity.ReviewStats
	err := r.db.QueryRow(ctx, query, movieID).Scan(&stats.Count, &stats.Average)
	if err != nil {
		r.log.Error("Failed to get review stats",
			zap.Error(err),
			zap.String("movie_id", movieID.String()),
		)
		return nil, fmt.Errorf("get review stats for movie %s: %w", movieID.String(), err)
	}

	return &stats, nil
}

func (r *reviewRepository) scanReviews(rows pgx.Rows) ([]*entity.Review, error) {
	var reviews []*entity.Review
	for rows.Next() {
		var review entity.Review
		err := rows.Scan(
			&review.ID,
			&review.UserID,
			&review.MovieID,
			&review.Rating,
			&review.Comment,
			&review.CreatedAt,
			&review.UpdatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan review row", zap.Error(err))
			return nil, fmt.Errorf("scan review row: %w", err)
		}
		reviews = append(reviews, &review)
	}

	return reviews, rows.Err()
}
