package identity

import (
	"errors"

	"resume-scorer/internal/users"
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 6

var (
	ErrEmailInUse         = users.ErrEmailInUse
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrWeakPassword       = errors.New("password too short")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrNotConfigured      = errors.New("identity provider not configured")
)
