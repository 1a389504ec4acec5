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

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
	UpdateRole(ctx context.Context, user *entity.User) error
}

type userRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewUserRepository(db database.PgxIface, log *zap.Logger) UserRepository {
	return &userRepository{
		db:  db,
		log: log.With(zap.String("repository", "user")),
	}
}

func (ur *userRepository) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (id, username, email, password, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := ur.db.Exec(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.CreatedAt,
		user.UpdatedAt,
	)

	// Uniqueness is enforced here by the store's indexes, so two
	// concurrent registrations cannot both pass a pre-check.
	if pgErrCode(err) == pgUniqueViolation {
		switch pgConstraint(err) {
		case "users_username_key":
			return apperror.Conflict("username already taken")
		default:
			return apperror.Conflict("email already registered")
		}
	}

	if err != nil {
		ur.log.Error("Failed to create user",
			zap.Error(err),
			zap.String("email", user.Email),
			zap.String("username", user.Username),
		)
		return fmt.Errorf("create user %s: %w", user.Email, err)
	}

	return nil
}

func (ur *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	query := `
		SELECT id, username, email, password, role, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	return ur.scanOne(ctx, query, id.String(), id)
}

func (ur *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	query := `
		SELECT id, username, email, password, role, created_at, updated_at
		FROM users
		WHERE LOWER(email) = LOWER($1)
	`

	return ur.scanOne(ctx, query, email, email)
}

func (ur *userRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	query := `
		SELECT id, username, email, password, role, created_at, updated_at
		FROM users
		WHERE username = $1
	`

	return ur.scanOne(ctx, query, username, username)
}

func (ur *userRepository) UpdateRole(ctx context.Context, user *entity.User) error {
	query := `
		UPDATE users
		SET role = $2, updated_at = $3
		WHERE id = $1
	`

	result, err := ur.db.Exec(ctx, query, user.ID, user.Role, user.UpdatedAt)
	if err != nil {
		ur.log.Error("Failed to update user role",
			zap.Error(err),
			zap.String("user_id", user.ID.String()),
		)
		return fmt.Errorf("update role for user %s: %w", user.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NotFound("user", user.ID.String())
	}

	return nil
}

// scanOne runs a single-row user lookup; returns (nil, nil) when no row
// matches, following the convention used by every Find* here.
func (ur *userRepository) scanOne(ctx context.Context, query, key string, arg any) (*entity.User, error) {
	var user entity.User
	err := ur.db.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		ur.log.Error("Failed to find user",
			zap.Error(err),
			zap.String("key", key),
		)
		return nil, fmt.Errorf("find user %s: %w", key, err)
	}

	return &user, nil
}
