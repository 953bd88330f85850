package service

import (
	"context"
	"errors"
	"strings"

	"go-inventory-pos/internal/model"
	"go-inventory-pos/internal/repository"
	"go-inventory-pos/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const minPasswordLength = 6

type UserService interface {
	CreateUser(ctx context.Context, req *CreateUserRequest, actor Actor) (*model.User, error)
	UpdateUser(ctx context.Context, userID uuid.UUID, req *UpdateUserRequest, actor Actor) (*model.User, error)
	DeleteUser(ctx context.Context, userID uuid.UUID) error
	ResetPassword(ctx context.Context, username, newPassword string) error
	GetAllUsers(ctx context.Context) ([]model.UserResponse, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*model.UserResponse, error)
	EnsureAdministrator(ctx context.Context, username, password string) (bool, error)
}

type CreateUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=100"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required"`
}

type UpdateUserRequest struct {
	Username string  `json:"username" validate:"required,min=3,max=100"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=6"` // Optional
	Role     string  `json:"role" validate:"required"`
	IsActive *bool   `json:"is_active"`
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func parseRole(s string) (model.Role, error) {
	role, err := model.ParseRole(strings.TrimSpace(s))
	if err != nil {
		return "", invalid(nil, "%v", err)
	}
	return role, nil
}

func translateUserWrite(op string, err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateUser
	}
	return storageErr(op, err)
}

func (s *userService) CreateUser(ctx context.Context, req *CreateUserRequest, actor Actor) (*model.User, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, invalid(nil, "%s", validator.FirstError(errs))
	}
	role, err := parseRole(req.Role)
	if err != nil {
		return nil, err
	}

	if existing, err := s.userRepo.FindByUsername(ctx, req.Username); err == nil && existing != nil {
		return nil, ErrDuplicateUser
	}

	user := &model.User{
		Username: strings.TrimSpace(req.Username),
		Role:     role,
		IsActive: true,
	}
	user.CreatedBy = actor.audit()
	user.UpdatedBy = actor.audit()

	if err := user.SetPassword(req.Password); err != nil {
		return nil, errors.New("failed to hash password")
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, translateUserWrite("create user", err)
	}
	return user, nil
}

func (s *userService) UpdateUser(ctx context.Context, userID uuid.UUID, req *UpdateUserRequest, actor Actor) (*model.User, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, invalid(nil, "%s", validator.FirstError(errs))
	}
	role, err := parseRole(req.Role)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound, "find user")
	}

	if req.Username != user.Username {
		if existing, err := s.userRepo.FindByUsername(ctx, req.Username); err == nil && existing != nil {
			return nil, ErrDuplicateUser
		}
	}

	demoted := user.Role == model.RoleAdministrator && role != model.RoleAdministrator
	deactivated := user.Role == model.RoleAdministrator && req.IsActive != nil && !*req.IsActive
	if demoted || deactivated {
		if err := s.guardLastAdministrator(ctx); err != nil {
			return nil, err
		}
	}

	user.Username = strings.TrimSpace(req.Username)
	user.Role = role
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	user.UpdatedBy = actor.audit()

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, translateUserWrite("update user", err)
	}

	if req.Password != nil && *req.Password != "" {
		if err := user.SetPassword(*req.Password); err != nil {
			return nil, errors.New("failed to hash password")
		}
		if err := s.userRepo.UpdatePassword(ctx, user.ID, user.Password); err != nil {
			return nil, storageErr("update password", err)
		}
	}

	return s.userRepo.FindByID(ctx, userID)
}

func (s *userService) guardLastAdministrator(ctx context.Context) error {
	n, err := s.userRepo.CountByRole(ctx, model.RoleAdministrator)
	if err != nil {
		return storageErr("count administrators", err)
	}
	if n <= 1 {
		return ErrLastAdministrator
	}
	return nil
}

func (s *userService) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return notFound(err, ErrUserNotFound, "find user")
	}
	if user.Role == model.RoleAdministrator {
		if err := s.guardLastAdministrator(ctx); err != nil {
			return err
		}
	}
	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return notFound(err, ErrUserNotFound, "delete user")
	}
	return nil
}

// ResetPassword sets a new password without knowing the old one. It backs
// the reset-password command.
func (s *userService) ResetPassword(ctx context.Context, username, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return invalid(nil, "password must be at least %d characters", minPasswordLength)
	}
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return notFound(err, ErrUserNotFound, "find user")
	}
	if err := user.SetPassword(newPassword); err != nil {
		return errors.New("failed to hash password")
	}
	if err := s.userRepo.UpdatePassword(ctx, user.ID, user.Password); err != nil {
		return storageErr("reset password", err)
	}
	return nil
}

func (s *userService) GetAllUsers(ctx context.Context) ([]model.UserResponse, error) {
	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		return nil, storageErr("list users", err)
	}

	responses := make([]model.UserResponse, len(users))
	for i, user := range users {
		responses[i] = user.ToResponse()
	}
	return responses, nil
}

func (s *userService) GetUserByID(ctx context.Context, id uuid.UUID) (*model.UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound, "get user")
	}
	response := user.ToResponse()
	return &response, nil
}

// EnsureAdministrator seeds the first administrator when none exists. It
// reports whether a user was created.
func (s *userService) EnsureAdministrator(ctx context.Context, username, password string) (bool, error) {
	n, err := s.userRepo.CountByRole(ctx, model.RoleAdministrator)
	if err != nil {
		return false, storageErr("count administrators", err)
	}
	if n > 0 {
		return false, nil
	}
	if password == "" {
		return false, invalid(nil, "ADMIN_PASSWORD is required to seed the first administrator")
	}
	_, err = s.CreateUser(ctx, &CreateUserRequest{
		Username: username,
		Password: password,
		Role:     string(model.RoleAdministrator),
	}, SystemActor)
	if err != nil {
		return false, err
	}
	return true, nil
}
