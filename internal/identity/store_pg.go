package identity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"resume-scorer/internal/users"
)

type PGStore struct {
	DB *sql.DB
}

func (s *PGStore) Register(ctx context.Context, p users.Profile, cred Credential) (users.Profile, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return users.Profile{}, err
	}
	defer func() { _ = tx.Rollback() }()

	created, err := users.InsertProfile(ctx, tx, p)
	if err != nil {
		return users.Profile{}, err
	}
	const query = `
INSERT INTO credentials (user_uid, password_hash, google_sub)
VALUES ($1, $2, $3)`
	if _, err := tx.ExecContext(ctx, query, created.UID, cred.PasswordHash, nullableString(cred.GoogleSub)); err != nil {
		return users.Profile{}, fmt.Errorf("insert credentials: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return users.Profile{}, err
	}
	return created, nil
}

func (s *PGStore) CredentialByEmail(ctx context.Context, email string) (users.Profile, Credential, error) {
	const query = `
SELECT u.uid, u.email, u.name, u.phone, u.photo_url, u.created_at, c.password_hash, COALESCE(c.google_sub, '')
FROM users u
JOIN credentials c ON c.user_uid = u.uid
WHERE lower(u.email) = $1
LIMIT 1`
	var p users.Profile
	var cred Credential
	err := s.DB.QueryRowContext(ctx, query, users.NormalizeEmail(email)).Scan(
		&p.UID, &p.Email, &p.Name, &p.Phone, &p.PhotoURL, &p.CreatedAt,
		&cred.PasswordHash, &cred.GoogleSub,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return users.Profile{}, Credential{}, users.ErrNotFound
		}
		return users.Profile{}, Credential{}, err
	}
	return p, cred, nil
}

func (s *PGStore) ProfileByGoogleSub(ctx context.Context, sub string) (users.Profile, error) {
	const query = `
SELECT u.uid, u.email, u.name, u.phone, u.photo_url, u.created_at
FROM users u
JOIN credentials c ON c.user_uid = u.uid
WHERE c.google_sub = $1
LIMIT 1`
	var p users.Profile
	err := s.DB.QueryRowContext(ctx, query, sub).Scan(&p.UID, &p.Email, &p.Name, &p.Phone, &p.PhotoURL, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return users.Profile{}, users.ErrNotFound
		}
		return users.Profile{}, err
	}
	return p, nil
}

func (s *PGStore) LinkGoogle(ctx context.Context, uid, sub string) error {
	res, err := s.DB.ExecContext(ctx, `UPDATE credentials SET google_sub = $2 WHERE user_uid = $1`, uid, sub)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return users.ErrNotFound
	}
	return nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
