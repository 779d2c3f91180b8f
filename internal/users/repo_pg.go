package users

import (
	"context"
	"database/sql"
	"errors"

	"resume-scorer/internal/shared/storage/db"
)

type PGRepo struct {
	DB *sql.DB
}

// Querier is satisfied by *sql.DB and *sql.Tx.
type Querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (r *PGRepo) Create(ctx context.Context, p Profile) (Profile, error) {
	return InsertProfile(ctx, r.DB, p)
}

// InsertProfile writes p through q so callers can include it in a transaction.
func InsertProfile(ctx context.Context, q Querier, p Profile) (Profile, error) {
	const query = `
INSERT INTO users (uid, email, name, phone, photo_url)
VALUES ($1, $2, $3, $4, $5)
RETURNING created_at`
	err := q.QueryRowContext(ctx, query, p.UID, p.Email, p.Name, p.Phone, p.PhotoURL).Scan(&p.CreatedAt)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return Profile{}, ErrEmailInUse
		}
		return Profile{}, err
	}
	return p, nil
}

func (r *PGRepo) GetByID(ctx context.Context, uid string) (Profile, error) {
	const query = `
SELECT uid, email, name, phone, photo_url, created_at
FROM users
WHERE uid = $1
LIMIT 1`
	return scanProfile(r.DB.QueryRowContext(ctx, query, uid))
}

func (r *PGRepo) GetByEmail(ctx context.Context, email string) (Profile, error) {
	const query = `
SELECT uid, email, name, phone, photo_url, created_at
FROM users
WHERE lower(email) = $1
LIMIT 1`
	return scanProfile(r.DB.QueryRowContext(ctx, query, NormalizeEmail(email)))
}

func (r *PGRepo) UpdatePhotoURL(ctx context.Context, uid, photoURL string) error {
	const query = `UPDATE users SET photo_url = $2 WHERE uid = $1`
	res, err := r.DB.ExecContext(ctx, query, uid, photoURL)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanProfile(row *sql.Row) (Profile, error) {
	var p Profile
	err := row.Scan(&p.UID, &p.Email, &p.Name, &p.Phone, &p.PhotoURL, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Profile{}, ErrNotFound
		}
		return Profile{}, err
	}
	return p, nil
}
