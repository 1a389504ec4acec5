package usecase

import (
	"context"
	"fmt"
	"time"

	"movie-review/internal/apperror"
	"movie-review/internal/data/entity"
	"movie-review/internal/data/repository"
	"movie-review/internal/dto/request"
	"movie-review/internal/dto/response"
	"movie-review/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type UserService interface {
	GetByID(ctx context.Context, id string) (*response.UserResponse, error)
	UpdateRole(ctx context.Context, caller *Caller, id string, req *request.UpdateRoleRequest) (*response.UserResponse, error)
}

type userService struct {
	userRepo repository.UserRepository
	log      *zap.Logger
}

func NewUserService(userRepo repository.UserRepository, log *zap.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		log:      log.With(zap.String("service", "user")),
	}
}

func (s *userService) GetByID(ctx context.Context, id string) (*response.UserResponse, error) {
	userID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.InvalidInput("id", "invalid user ID format")
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		s.log.Error("Failed to find user", zap.Error(err), zap.String("user_id", id))
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return nil, apperror.NotFound("user", id)
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (s *userService) UpdateRole(ctx context.Context, caller *Caller, id string, req *request.UpdateRoleRequest) (*response.UserResponse, error) {
	if err := Authorize(caller, CapPromoteUser, uuid.Nil); err != nil {
		return nil, err
	}

	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Update role validation failed", zap.Any("errors", errs))
		return nil, apperror.InvalidInput("", utils.FormatValidationErrors(errs))
	}

	userID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.InvalidInput("id", "invalid user ID format")
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		s.log.Error("Failed to find user", zap.Error(err), zap.String("user_id", id))
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return nil, apperror.NotFound("user", id)
	}

	user.Role = entity.UserRole(req.Role)
	user.UpdatedAt = time.Now()

	if err := s.userRepo.UpdateRole(ctx, user); err != nil {
		s.log.Error("Failed to update role", zap.Error(err), zap.String("user_id", id))
		return nil, err
	}

	s.log.Info("User role updated",
		zap.String("user_id", id),
		zap.String("role", req.Role),
		zap.String("changed_by", caller.ID.String()))

	resp := response.UserToResponse(user)
	return &resp, nil
}
