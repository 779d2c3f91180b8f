// Package identity registers accounts and signs users in with a password or
// a Google account.
package identity

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"resume-scorer/internal/session"
	"resume-scorer/internal/shared/metrics"
	"resume-scorer/internal/shared/telemetry"
	"resume-scorer/internal/users"
)

// SignUpInput is the registration form.
type SignUpInput struct {
	Email    string
	Password string
	Name     string
	Phone    string
}

// Result is a signed-in user and their session token.
type Result struct {
	session.Token
	User users.Profile `json:"user"`
}

// GoogleUser is the profile returned by Google's userinfo endpoint.
type GoogleUser struct {
	Sub           string
	Email         string
	EmailVerified bool
	Name          string
	Picture       string
}

type Service struct {
	Store    Store
	Sessions *session.Manager
	// Cost is the bcrypt cost; zero means bcrypt.DefaultCost.
	Cost int
}

func NewService(store Store, sessions *session.Manager) *Service {
	return &Service{Store: store, Sessions: sessions}
}

// SignUp creates the account and signs it in.
func (s *Service) SignUp(ctx context.Context, in SignUpInput) (Result, error) {
	email, err := normalizeAddress(in.Email)
	if err != nil {
		return Result{}, err
	}
	if len(in.Password) < MinPasswordLength {
		return Result{}, ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost())
	if err != nil {
		return Result{}, fmt.Errorf("hash password: %w", err)
	}

	p, err := s.Store.Register(ctx, users.Profile{
		UID:   uuid.NewString(),
		Email: email,
		Name:  strings.TrimSpace(in.Name),
		Phone: strings.TrimSpace(in.Phone),
	}, Credential{PasswordHash: string(hash)})
	if err != nil {
		if errors.Is(err, users.ErrEmailInUse) {
			return Result{}, ErrEmailInUse
		}
		return Result{}, fmt.Errorf("register: %w", err)
	}
	telemetry.Info("auth.signed_up", map[string]any{"user_id": p.UID})
	return s.issue(ctx, p)
}

// SignIn checks the password and opens a session. Unknown emails and wrong
// passwords both return ErrInvalidCredentials.
func (s *Service) SignIn(ctx context.Context, email, password string) (Result, error) {
	p, cred, err := s.Store.CredentialByEmail(ctx, email)
	if errors.Is(err, users.ErrNotFound) {
		metrics.IncSignInFailed()
		return Result{}, ErrInvalidCredentials
	}
	if err != nil {
		return Result{}, fmt.Errorf("load credentials: %w", err)
	}
	if cred.PasswordHash == "" || bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)) != nil {
		metrics.IncSignInFailed()
		telemetry.Warn("auth.sign_in_rejected", map[string]any{"user_id": p.UID})
		return Result{}, ErrInvalidCredentials
	}
	return s.issue(ctx, p)
}

// SignInGoogle signs in the account linked to the Google subject. An account
// with the same email is linked on first use when Google has verified that
// email; otherwise one is created.
func (s *Service) SignInGoogle(ctx context.Context, gu GoogleUser) (Result, error) {
	if gu.Sub == "" {
		return Result{}, ErrInvalidCredentials
	}
	p, err := s.Store.ProfileByGoogleSub(ctx, gu.Sub)
	if err == nil {
		return s.issue(ctx, p)
	}
	if !errors.Is(err, users.ErrNotFound) {
		return Result{}, fmt.Errorf("load google account: %w", err)
	}

	email, err := normalizeAddress(gu.Email)
	if err != nil {
		return Result{}, err
	}
	existing, _, err := s.Store.CredentialByEmail(ctx, email)
	switch {
	case err == nil:
		if !gu.EmailVerified {
			telemetry.Warn("auth.google_link_refused", map[string]any{"user_id": existing.UID, "reason": "email_unverified"})
			return Result{}, ErrEmailInUse
		}
		if err := s.Store.LinkGoogle(ctx, existing.UID, gu.Sub); err != nil {
			return Result{}, fmt.Errorf("link google account: %w", err)
		}
		telemetry.Info("auth.google_linked", map[string]any{"user_id": existing.UID})
		return s.issue(ctx, existing)
	case !errors.Is(err, users.ErrNotFound):
		return Result{}, fmt.Errorf("load credentials: %w", err)
	}

	p, err = s.Store.Register(ctx, users.Profile{
		UID:      uuid.NewString(),
		Email:    email,
		Name:     gu.Name,
		PhotoURL: gu.Picture,
	}, Credential{GoogleSub: gu.Sub})
	if err != nil {
		return Result{}, fmt.Errorf("register google account: %w", err)
	}
	telemetry.Info("auth.signed_up", map[string]any{"user_id": p.UID, "provider": "google"})
	return s.issue(ctx, p)
}

// SignOut revokes the caller's session.
func (s *Service) SignOut(ctx context.Context, sc session.Context) error {
	return s.Sessions.Revoke(ctx, sc)
}

func (s *Service) issue(ctx context.Context, p users.Profile) (Result, error) {
	tok, err := s.Sessions.Issue(ctx, session.Identity{UserID: p.UID, Email: p.Email, Name: p.Name})
	if err != nil {
		return Result{}, err
	}
	metrics.IncSignIn()
	return Result{Token: tok, User: p}, nil
}

func (s *Service) cost() int {
	if s.Cost > 0 {
		return s.Cost
	}
	return bcrypt.DefaultCost
}

func normalizeAddress(raw string) (string, error) {
	email := strings.TrimSpace(raw)
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", ErrInvalidEmail
	}
	return email, nil
}
