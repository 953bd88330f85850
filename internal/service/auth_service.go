package service

import (
	"context"
	"errors"
	"time"

	"go-inventory-pos/internal/model"
	"go-inventory-pos/internal/repository"
	"go-inventory-pos/pkg/jwt"

	"github.com/google/uuid"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserInactive       = errors.New("user account is inactive")
	ErrWrongPassword      = errors.New("current password is incorrect")
)

type AuthService interface {
	Login(ctx context.Context, username, password string) (*LoginResponse, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error
	ValidateToken(ctx context.Context, tokenString string) (*TokenValidationResponse, error)
}

type LoginResponse struct {
	Token        string             `json:"token"`
	User         model.UserResponse `json:"user"`
	Capabilities []string           `json:"capabilities"` // Flat capability array for easy checking
}

type TokenValidationResponse struct {
	User         model.UserResponse `json:"user"`
	Capabilities []string           `json:"capabilities"`
}

type authService struct {
	userRepo repository.UserRepository
	signer   *jwt.Signer
}

func NewAuthService(userRepo repository.UserRepository, signer *jwt.Signer) AuthService {
	return &authService{
		userRepo: userRepo,
		signer:   signer,
	}
}

func (s *authService) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrUserInactive
	}

	now := time.Now().UTC()
	if err := s.userRepo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, storageErr("update last login", err)
	}
	user.LastLoginAt = &now

	token, err := s.signer.GenerateToken(user.ID, user.Username, string(user.Role))
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	return &LoginResponse{
		Token:        token,
		User:         user.ToResponse(),
		Capabilities: user.Role.Capabilities(),
	}, nil
}

func (s *authService) ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return notFound(err, ErrUserNotFound, "find user")
	}

	if !user.CheckPassword(oldPassword) {
		return ErrWrongPassword
	}
	if len(newPassword) < minPasswordLength {
		return invalid(nil, "password must be at least %d characters", minPasswordLength)
	}

	if err := user.SetPassword(newPassword); err != nil {
		return errors.New("failed to hash new password")
	}
	if err := s.userRepo.UpdatePassword(ctx, user.ID, user.Password); err != nil {
		return storageErr("update password", err)
	}
	return nil
}

// ValidateToken checks the signature and that the account still exists and
// is active.
func (s *authService) ValidateToken(ctx context.Context, tokenString string) (*TokenValidationResponse, error) {
	claims, err := s.signer.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound, "find user")
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	return &TokenValidationResponse{
		User:         user.ToResponse(),
		Capabilities: user.Role.Capabilities(),
	}, nil
}
