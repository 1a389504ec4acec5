package adaptor

import (
	"errors"
	"net/http"

	"movie-review/internal/apperror"
	"movie-review/internal/data/entity"
	"movie-review/internal/usecase"
	"movie-review/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Auth   *AuthHandler
	User   *UserHandler
	Movie  *MovieHandler
	Review *ReviewHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Auth:   NewAuthHandler(service.Auth, log),
		User:   NewUserHandler(service.User, log),
		Movie:  NewMovieHandler(service.Movie, log),
		Review: NewReviewHandler(service.Review, log),
	}
}

// respondError maps service errors onto HTTP status codes.
func respondError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	switch {
	case errors.Is(err, apperror.ErrNotFound):
		log.Warn(operation+" failed", zap.Error(err))
		utils.ResponseNotFound(w, err.Error())

	case errors.Is(err, apperror.ErrConflict):
		log.Warn(operation+" failed", zap.Error(err))
		utils.ResponseConflict(w, err.Error())

	case errors.Is(err, apperror.ErrInvalidInput):
		log.Warn(operation+" failed", zap.Error(err))
		utils.ResponseBadRequest(w, err.Error(), nil)

	case errors.Is(err, apperror.ErrUnauthenticated):
		log.Warn(operation+" failed", zap.Error(err))
		utils.ResponseUnauthorized(w, err.Error())

	case errors.Is(err, apperror.ErrForbidden):
		log.Warn(operation+" failed", zap.Error(err))
		utils.ResponseForbidden(w, err.Error())

	default:
		log.Error("Failed to "+operation, zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
	}
}

// callerFromContext rebuilds the authenticated caller the session
// middleware stored on the request context. Returns nil when the
// request carried no valid session.
func callerFromContext(r *http.Request) *usecase.Caller {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		return nil
	}

	role, ok := utils.GetRoleFromContext(r.Context())
	if !ok {
		return nil
	}

	return &usecase.Caller{
		ID:   userID,
		Role: entity.UserRole(role),
	}
}
