package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/tably/orders-api/internal/apperr"
	"github.com/tably/orders-api/internal/dto"
	"github.com/tably/orders-api/internal/model"
	"github.com/tably/orders-api/internal/repository"
)

type UserService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// Create registers a user. Email uniqueness is enforced by the database; a
// duplicate surfaces as ErrConflict.
func (s *UserService) Create(ctx context.Context, req dto.CreateUserRequest) (*dto.UserResponse, error) {
	var details []string
	details = append(details, checkEmail("email", req.Email)...)
	details = append(details, checkName("name", req.Name)...)
	if len(details) > 0 {
		return nil, apperr.Validation(details...)
	}

	user := &model.User{Email: req.Email, Name: req.Name}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			return nil, err
		}
		return nil, apperr.Persistence("create user", err)
	}
	resp := toUserResponse(user)
	return &resp, nil
}

func (s *UserService) List(ctx context.Context, req dto.PageParams) (*dto.UserListResponse, error) {
	page, perPage := clampPage(req.Page, req.PerPage)

	users, total, err := s.userRepo.List(ctx, perPage, (page-1)*perPage)
	if err != nil {
		return nil, apperr.Persistence("list users", err)
	}

	items := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, toUserResponse(&users[i]))
	}
	return &dto.UserListResponse{
		Users:      items,
		Pagination: buildPagination(total, page, perPage),
	}, nil
}

func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*dto.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Persistence("get user", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user %s: %w", id, apperr.ErrNotFound)
	}
	resp := toUserResponse(user)
	return &resp, nil
}
