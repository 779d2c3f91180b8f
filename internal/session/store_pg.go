package session

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// PGStore implements Store using Postgres.
type PGStore struct {
	DB *sql.DB
}

// Create implements Store.
func (r *PGStore) Create(ctx context.Context, s Session) error {
	const query = `
INSERT INTO sessions (id, user_uid, created_at, expires_at)
VALUES ($1, $2, $3, $4)`
	_, err := r.DB.ExecContext(ctx, query, s.ID, s.UserID, s.CreatedAt, s.ExpiresAt)
	return err
}

// Get implements Store.
func (r *PGStore) Get(ctx context.Context, id string) (Session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Session{}, ErrNotFound
	}
	const query = `
SELECT id, user_uid, created_at, expires_at, revoked_at
FROM sessions
WHERE id = $1`
	var s Session
	var revokedAt sql.NullTime
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&s.ID, &s.UserID, &s.CreatedAt, &s.ExpiresAt, &revokedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, ErrNotFound
	}
	if err != nil {
		return Session{}, err
	}
	if revokedAt.Valid {
		t := revokedAt.Time
		s.RevokedAt = &t
	}
	return s, nil
}

// Revoke implements Store. The conditional update makes concurrent logouts
// of the same session report success exactly once.
func (r *PGStore) Revoke(ctx context.Context, id string, at time.Time) (bool, error) {
	if _, err := uuid.Parse(id); err != nil {
		return false, ErrNotFound
	}
	const query = `
UPDATE sessions SET revoked_at = $2
WHERE id = $1 AND revoked_at IS NULL`
	res, err := r.DB.ExecContext(ctx, query, id, at)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
