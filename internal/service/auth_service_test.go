package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-inventory-pos/internal/model"
	"go-inventory-pos/internal/repository"
	"go-inventory-pos/internal/testutil"
	"go-inventory-pos/pkg/jwt"
)

func newAuthFixture(t *testing.T) (AuthService, UserService) {
	t.Helper()
	db := testutil.NewDB(t)
	users := repository.NewUserRepo(db)
	return NewAuthService(users, jwt.NewSigner("test-secret", time.Hour)), NewUserService(users)
}

func TestLoginIssuesTokenAndRecordsLastLogin(t *testing.T) {
	auth, users := newAuthFixture(t)
	ctx := context.Background()

	created, err := users.CreateUser(ctx, &CreateUserRequest{Username: "cashier", Password: "secret1", Role: "seller"}, SystemActor)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	resp, err := auth.Login(ctx, "cashier", "secret1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.Token == "" || resp.User.Role != model.RoleSeller {
		t.Fatalf("unexpected login response %+v", resp)
	}
	if len(resp.Capabilities) != 1 || resp.Capabilities[0] != string(model.CapSaleCreate) {
		t.Fatalf("unexpected capabilities %v", resp.Capabilities)
	}

	validated, err := auth.ValidateToken(ctx, resp.Token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if validated.User.ID != created.ID || validated.User.LastLoginAt == nil {
		t.Fatalf("expected last login recorded, got %+v", validated.User)
	}
}

func TestLoginFailures(t *testing.T) {
	auth, users := newAuthFixture(t)
	ctx := context.Background()

	u, err := users.CreateUser(ctx, &CreateUserRequest{Username: "clerk", Password: "secret1", Role: "operator"}, SystemActor)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	if _, err := auth.Login(ctx, "clerk", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := auth.Login(ctx, "nobody", "secret1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	inactive := false
	if _, err := users.UpdateUser(ctx, u.ID, &UpdateUserRequest{Username: "clerk", Role: "operator", IsActive: &inactive}, SystemActor); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if _, err := auth.Login(ctx, "clerk", "secret1"); !errors.Is(err, ErrUserInactive) {
		t.Fatalf("expected ErrUserInactive, got %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	auth, users := newAuthFixture(t)
	ctx := context.Background()
	u, err := users.CreateUser(ctx, &CreateUserRequest{Username: "owner", Password: "secret1", Role: "administrator"}, SystemActor)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	if err := auth.ChangePassword(ctx, u.ID, "nope", "secret2"); !errors.Is(err, ErrWrongPassword) {
		t.Fatalf("expected ErrWrongPassword, got %v", err)
	}
	if err := auth.ChangePassword(ctx, u.ID, "secret1", "secret2"); err != nil {
		t.Fatalf("change password: %v", err)
	}
	if _, err := auth.Login(ctx, "owner", "secret2"); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
}

func TestUserRolesAndLastAdministrator(t *testing.T) {
	_, users := newAuthFixture(t)
	ctx := context.Background()

	if _, err := users.CreateUser(ctx, &CreateUserRequest{Username: "bad", Password: "secret1", Role: "root"}, SystemActor); err == nil {
		t.Fatal("expected unknown role to be rejected")
	}

	created, err := users.EnsureAdministrator(ctx, "admin", "secret1")
	if err != nil || !created {
		t.Fatalf("ensure admin: created=%v err=%v", created, err)
	}
	created, err = users.EnsureAdministrator(ctx, "admin", "secret1")
	if err != nil || created {
		t.Fatalf("second ensure must be a no-op: created=%v err=%v", created, err)
	}

	all, err := users.GetAllUsers(ctx)
	if err != nil || len(all) != 1 {
		t.Fatalf("list users: %d err=%v", len(all), err)
	}
	if err := users.DeleteUser(ctx, all[0].ID); !errors.Is(err, ErrLastAdministrator) {
		t.Fatalf("expected ErrLastAdministrator, got %v", err)
	}
	if _, err := users.CreateUser(ctx, &CreateUserRequest{Username: "admin", Password: "secret1", Role: "seller"}, SystemActor); !errors.Is(err, ErrDuplicateUser) {
		t.Fatalf("expected ErrDuplicateUser, got %v", err)
	}

	if err := users.ResetPassword(ctx, "admin", "newsecret"); err != nil {
		t.Fatalf("reset password: %v", err)
	}
	if err := users.ResetPassword(ctx, "ghost", "newsecret"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
