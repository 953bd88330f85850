package jwt

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestGenerateAndValidateToken(t *testing.T) {
	s := NewSigner("test-secret", time.Hour)
	id := uuid.New()

	token, err := s.GenerateToken(id, "cashier", "seller")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := s.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.UserID != id || claims.Username != "cashier" || claims.Role != "seller" {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestValidateTokenRejectsForeignSecret(t *testing.T) {
	token, err := NewSigner("one", time.Hour).GenerateToken(uuid.New(), "a", "seller")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := NewSigner("two", time.Hour).ValidateToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	s := NewSigner("secret", time.Hour)
	s.ttl = -time.Minute
	token, err := s.GenerateToken(uuid.New(), "a", "seller")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := s.ValidateToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestValidateTokenMissing(t *testing.T) {
	if _, err := NewSigner("", 0).ValidateToken(""); !errors.Is(err, ErrMissingToken) {
		t.Fatalf("expected ErrMissingToken, got %v", err)
	}
}
