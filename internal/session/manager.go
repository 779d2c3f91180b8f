// Package session issues, verifies and revokes sign-in sessions, and
// notifies subscribers when a user's session state changes.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"resume-scorer/internal/shared/auth"
)

var (
	// ErrInvalid is returned for malformed, expired or revoked tokens.
	ErrInvalid = errors.New("invalid session")
)

// Identity is what a session is issued for.
type Identity struct {
	UserID string
	Email  string
	Name   string
}

// Token is an issued session credential.
type Token struct {
	Value     string    `json:"token"`
	SessionID string    `json:"sessionId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Manager ties tokens to server-side sessions.
type Manager struct {
	signer *auth.Signer
	store  Store
	broker *Broker
	ttl    time.Duration
	now    func() time.Time
}

// NewManager constructs a Manager. broker may be nil.
func NewManager(signer *auth.Signer, store Store, broker *Broker, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Manager{signer: signer, store: store, broker: broker, ttl: ttl, now: time.Now}
}

// Broker returns the event broker, which may be nil.
func (m *Manager) Broker() *Broker {
	return m.broker
}

// Issue creates a session for id and returns its token.
func (m *Manager) Issue(ctx context.Context, id Identity) (Token, error) {
	if id.UserID == "" {
		return Token{}, errors.New("user id is required")
	}
	now := m.now().UTC()
	s := Session{
		ID:        uuid.NewString(),
		UserID:    id.UserID,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}
	if err := m.store.Create(ctx, s); err != nil {
		return Token{}, fmt.Errorf("create session: %w", err)
	}

	value, err := m.signer.Sign(auth.Claims{
		Sub:   id.UserID,
		Sid:   s.ID,
		Email: id.Email,
		Name:  id.Name,
		Iat:   now.Unix(),
		Exp:   s.ExpiresAt.Unix(),
	}, m.ttl)
	if err != nil {
		return Token{}, fmt.Errorf("sign session: %w", err)
	}

	m.publish(EventSignedIn, id.UserID, s.ID, now)
	return Token{Value: value, SessionID: s.ID, ExpiresAt: s.ExpiresAt}, nil
}

// Verify resolves a token to the request context. Revoked or expired
// sessions fail with ErrInvalid.
func (m *Manager) Verify(ctx context.Context, token string) (Context, error) {
	claims, err := m.signer.Verify(token)
	if err != nil {
		return Context{}, ErrInvalid
	}
	s, err := m.store.Get(ctx, claims.Sid)
	if errors.Is(err, ErrNotFound) {
		return Context{}, ErrInvalid
	}
	if err != nil {
		return Context{}, fmt.Errorf("load session: %w", err)
	}
	if s.UserID != claims.Sub || !s.Active(m.now().UTC()) {
		return Context{}, ErrInvalid
	}
	return Context{UserID: claims.Sub, SessionID: claims.Sid, Email: claims.Email, Name: claims.Name}, nil
}

// Revoke ends the session. Revoking an already revoked session is a no-op
// and emits no event.
func (m *Manager) Revoke(ctx context.Context, sc Context) error {
	now := m.now().UTC()
	changed, err := m.store.Revoke(ctx, sc.SessionID, now)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	if changed {
		m.publish(EventSignedOut, sc.UserID, sc.SessionID, now)
	}
	return nil
}

func (m *Manager) publish(t EventType, userID, sessionID string, at time.Time) {
	if m.broker == nil {
		return
	}
	m.broker.Publish(Event{Type: t, UserID: userID, SessionID: sessionID, At: at})
}
