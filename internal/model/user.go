package model

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// User represents an authenticated user in the system
type User struct {
	BaseModel
	Username    string     `gorm:"type:varchar(100);uniqueIndex;not null" json:"username" validate:"required,min=3,max=100"`
	Password    string     `gorm:"type:varchar(255);not null" json:"-"` // Hidden from JSON
	Role        Role       `gorm:"type:varchar(20);not null" json:"role"`
	IsActive    bool       `gorm:"not null" json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// SetPassword hashes and sets the user's password
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword verifies if the provided password matches the stored hash
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// UserResponse is used for API responses (without sensitive data)
type UserResponse struct {
	ID           uuid.UUID  `json:"id"`
	Username     string     `json:"username"`
	Role         Role       `json:"role"`
	RoleName     string     `json:"role_name"`
	IsActive     bool       `json:"is_active"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	Capabilities []string   `json:"capabilities"`
}

// ToResponse converts User to UserResponse
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:           u.ID,
		Username:     u.Username,
		Role:         u.Role,
		RoleName:     u.Role.Name(),
		IsActive:     u.IsActive,
		LastLoginAt:  u.LastLoginAt,
		Capabilities: u.Role.Capabilities(),
	}
}
