package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shubh-aarambh/fintrack/internal/models"
	"github.com/shubh-aarambh/fintrack/internal/storage"
	"github.com/shubh-aarambh/fintrack/internal/storage/memory"
	"golang.org/x/crypto/bcrypt"
)

func newTestAuthenticator(dir *Directory) *PasswordAuthenticator {
	return NewPasswordAuthenticator(dir, WithHashCost(bcrypt.MinCost))
}

func TestRegisterAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	dir := NewDirectory(memory.New())
	a := newTestAuthenticator(dir)

	user, err := a.Register(ctx, "  Alice@Example.com ", "Alice", "correct-horse")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.Email != "alice@example.com" || user.PasswordHash == "" || user.PasswordHash == "correct-horse" {
		t.Errorf("unexpected user: %+v", user)
	}

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{"valid", "alice@example.com", "correct-horse", nil},
		{"email is case-insensitive", "ALICE@example.com", "correct-horse", nil},
		{"wrong password", "alice@example.com", "battery-staple", ErrInvalidCredentials},
		{"unknown email", "bob@example.com", "correct-horse", ErrInvalidCredentials},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := a.Authenticate(ctx, tt.email, tt.password)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Authenticate error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && got.ID != user.ID {
				t.Errorf("authenticated as %s, want %s", got.ID, user.ID)
			}
		})
	}
}

func TestRegisterRejections(t *testing.T) {
	ctx := context.Background()
	a := newTestAuthenticator(NewDirectory(memory.New()))

	user, err := a.Register(ctx, "alice@example.com", "", "long-enough")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.Name != "alice" {
		t.Errorf("expected display name from the email, got %q", user.Name)
	}

	tests := []struct {
		name    string
		email   string
		pass    string
		wantErr error
	}{
		{"duplicate email", "ALICE@example.com", "long-enough", ErrEmailExists},
		{"short password", "bob@example.com", "short", ErrWeakPassword},
		{"missing email", "   ", "long-enough", ErrInvalidEmail},
		{"no domain", "bob@", "long-enough", ErrInvalidEmail},
		{"no at sign", "bob.example.com", "long-enough", ErrInvalidEmail},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := a.Register(ctx, tt.email, "", tt.pass); !errors.Is(err, tt.wantErr) {
				t.Errorf("Register error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestAuthenticate_ImportedUserWithoutPassword(t *testing.T) {
	ctx := context.Background()
	dir := NewDirectory(memory.New())
	if err := dir.CreateUser(ctx, &models.User{ID: "legacy", Email: "old@example.com", Name: "Old"}); err != nil {
		t.Fatal(err)
	}

	_, err := newTestAuthenticator(dir).Authenticate(ctx, "old@example.com", "")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestDirectoryActiveUser(t *testing.T) {
	ctx := context.Background()
	blobs := memory.New()
	dir := NewDirectory(blobs)

	if _, ok, err := dir.Active(ctx); ok || err != nil {
		t.Fatalf("Active on empty store = %v, %v", ok, err)
	}

	user := models.NewUser("a@example.com", "A", "hash")
	if err := dir.CreateUser(ctx, user); err != nil {
		t.Fatal(err)
	}
	if err := dir.SetActive(ctx, user); err != nil {
		t.Fatal(err)
	}

	raw, _, _ := blobs.Get(ctx, storage.KeyUser)
	if strings.Contains(string(raw), "hash") {
		t.Errorf("active user blob contains credentials: %s", raw)
	}

	user.Name = "Renamed"
	if err := dir.UpdateUser(ctx, user); err != nil {
		t.Fatalf("UpdateUser failed: %v", err)
	}
	active, ok, err := dir.Active(ctx)
	if err != nil || !ok || active.Name != "Renamed" {
		t.Fatalf("Active = %+v, %v, %v", active, ok, err)
	}
	stored, err := dir.GetUserByID(ctx, user.ID)
	if err != nil || stored.Name != "Renamed" || stored.PasswordHash != "hash" {
		t.Errorf("GetUserByID = %+v, %v", stored, err)
	}

	if err := dir.ClearActive(ctx); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := dir.Active(ctx); ok {
		t.Error("user still active after ClearActive")
	}

	if err := dir.UpdateUser(ctx, &models.User{ID: "missing"}); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("UpdateUser(missing) = %v", err)
	}
}

func TestDirectoryCorruptActiveUserIsRemoved(t *testing.T) {
	ctx := context.Background()
	blobs := memory.New()
	if err := blobs.Set(ctx, storage.KeyUser, []byte("{broken")); err != nil {
		t.Fatal(err)
	}

	if _, ok, err := NewDirectory(blobs).Active(ctx); ok || err != nil {
		t.Fatalf("Active = %v, %v", ok, err)
	}
	if _, ok, _ := blobs.Get(ctx, storage.KeyUser); ok {
		t.Error("corrupt active user was not removed")
	}
}

func TestDirectoryKeepsUnreadableUsers(t *testing.T) {
	ctx := context.Background()
	blobs := memory.New()
	odd := `{"id":"u0","email":["not","a","string"]}`
	if err := blobs.Set(ctx, storage.KeyUsers, []byte("["+odd+"]")); err != nil {
		t.Fatal(err)
	}
	dir := NewDirectory(blobs)

	user, err := newTestAuthenticator(dir).Register(ctx, "carol@example.com", "", "long-enough")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	user.Name = "Carol C"
	if err := dir.UpdateUser(ctx, user); err != nil {
		t.Fatalf("UpdateUser failed: %v", err)
	}

	data, _, _ := blobs.Get(ctx, storage.KeyUsers)
	if !strings.Contains(string(data), odd) {
		t.Errorf("unreadable user was dropped: %s", data)
	}
	got, err := dir.GetUserByID(ctx, user.ID)
	if err != nil || got.Name != "Carol C" {
		t.Errorf("GetUserByID = %+v, %v", got, err)
	}
	if err := dir.UpdateUser(ctx, &models.User{ID: "missing"}); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("UpdateUser(missing) = %v, want ErrUserNotFound", err)
	}
}

func TestJWTManager(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)
	user := &models.User{ID: "u1", Email: "a@example.com"}

	token, err := m.Generate(user)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	claims, err := m.Validate(token)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if claims.UserID != "u1" || claims.Email != "a@example.com" {
		t.Errorf("unexpected claims: %+v", claims)
	}

	if _, err := NewJWTManager("other-secret", time.Hour).Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("token signed with another secret: %v", err)
	}

	expired := NewJWTManager("test-secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, err := expired.Generate(user)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.Validate(old); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expired token: %v", err)
	}

	if _, err := m.Validate("not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("garbage token: %v", err)
	}
}
