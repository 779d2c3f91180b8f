package users

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrNotFound   = errors.New("user not found")
	ErrEmailInUse = errors.New("email already in use")
)

type Repo interface {
	Create(ctx context.Context, p Profile) (Profile, error)
	GetByID(ctx context.Context, uid string) (Profile, error)
	GetByEmail(ctx context.Context, email string) (Profile, error)
	UpdatePhotoURL(ctx context.Context, uid, photoURL string) error
}

// NormalizeEmail is the form used for uniqueness checks.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
