package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/shubh-aarambh/fintrack/internal/models"
	"github.com/shubh-aarambh/fintrack/internal/storage"
)

var ErrUserNotFound = errors.New("user not found")

// Directory stores registered users under the "users" key and the locally
// active user under the "user" key.
type Directory struct {
	blobs storage.Store
	mu    sync.Mutex
}

// NewDirectory creates a user directory over blobs.
func NewDirectory(blobs storage.Store) *Directory {
	return &Directory{blobs: blobs}
}

// NormalizeEmail lowercases and trims an address for comparison.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (d *Directory) load(ctx context.Context) ([]models.User, error) {
	return storage.LoadSlice[models.User](ctx, d.blobs, storage.KeyUsers, nil)
}

// CreateUser appends user. The email must not be registered yet.
func (d *Directory) CreateUser(ctx context.Context, user *models.User) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	users, err := d.load(ctx)
	if err != nil {
		return err
	}
	for _, u := range users {
		if NormalizeEmail(u.Email) == NormalizeEmail(user.Email) {
			return ErrEmailExists
		}
	}
	_, err = storage.UpdateSlice(ctx, d.blobs, storage.KeyUsers, nil, func([]models.User) ([]models.User, error) {
		return []models.User{*user}, nil
	})
	return err
}

func (d *Directory) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return d.find(ctx, func(u models.User) bool { return NormalizeEmail(u.Email) == NormalizeEmail(email) })
}

func (d *Directory) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return d.find(ctx, func(u models.User) bool { return u.ID == id })
}

func (d *Directory) find(ctx context.Context, match func(models.User) bool) (*models.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	users, err := d.load(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if match(u) {
			return &u, nil
		}
	}
	return nil, ErrUserNotFound
}

// UpdateUser replaces the stored user with the same ID. Other entries are
// written back as stored. When that user is the active one, the active copy
// is refreshed too.
func (d *Directory) UpdateUser(ctx context.Context, user *models.User) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	_, err := storage.UpdateSlice(ctx, d.blobs, storage.KeyUsers, storage.HasID(user.ID), func(current []models.User) ([]models.User, error) {
		if len(current) == 0 {
			return nil, ErrUserNotFound
		}
		return []models.User{*user}, nil
	})
	if err != nil {
		return err
	}

	active, ok, err := d.active(ctx)
	if err != nil {
		return err
	}
	if ok && active.ID == user.ID {
		return d.setActive(ctx, user)
	}
	return nil
}

// SetActive records user as the locally signed-in user.
func (d *Directory) SetActive(ctx context.Context, user *models.User) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.setActive(ctx, user)
}

func (d *Directory) setActive(ctx context.Context, user *models.User) error {
	data, err := json.Marshal(user.Public())
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}
	return d.blobs.Set(ctx, storage.KeyUser, data)
}

// Active returns the locally signed-in user. An unparsable entry is removed
// and reported as no user.
func (d *Directory) Active(ctx context.Context) (*models.User, bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.active(ctx)
}

func (d *Directory) active(ctx context.Context) (*models.User, bool, error) {
	data, ok, err := d.blobs.Get(ctx, storage.KeyUser)
	if err != nil || !ok {
		return nil, false, err
	}

	var user models.User
	if err := json.Unmarshal(data, &user); err != nil || user.ID == "" {
		slog.WarnContext(ctx, "Discarding unreadable active user", "error", err)
		return nil, false, d.blobs.Remove(ctx, storage.KeyUser)
	}
	return &user, true, nil
}

// ClearActive signs the local user out.
func (d *Directory) ClearActive(ctx context.Context) error {
	return d.blobs.Remove(ctx, storage.KeyUser)
}
