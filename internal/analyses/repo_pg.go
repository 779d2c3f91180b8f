package analyses

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// PGRepo implements Repo using Postgres. IDs and upload timestamps come from
// column defaults (gen_random_uuid() and now()).
type PGRepo struct {
	DB *sql.DB
}

const recordColumns = `id, owner_id, file_name, file_ref, file_url, mime_type, size_bytes, status, score,
       keywords_found, strengths, improvements, section_feedback, breakdown, uploaded_at`

// Create implements Repo.
func (r *PGRepo) Create(ctx context.Context, rec Record) (Record, error) {
	const query = `
INSERT INTO analyses (
	owner_id, file_name, file_ref, file_url, mime_type, size_bytes, status, score,
	keywords_found, strengths, improvements, section_feedback, breakdown
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
RETURNING id, uploaded_at`

	payloads, err := marshalAnalysis(rec.Analysis)
	if err != nil {
		return Record{}, err
	}
	err = r.DB.QueryRowContext(ctx, query,
		rec.OwnerID,
		rec.FileName,
		rec.FileRef,
		rec.FileURL,
		rec.MimeType,
		rec.SizeBytes,
		rec.Status,
		rec.Score,
		payloads[0],
		payloads[1],
		payloads[2],
		payloads[3],
		payloads[4],
	).Scan(&rec.ID, &rec.UploadedAt)
	if err != nil {
		return Record{}, err
	}
	rec.UploadedAt = rec.UploadedAt.UTC()
	return rec, nil
}

// GetByID implements Repo. Malformed ids are reported as ErrNotFound rather
// than sent to Postgres, which would reject them as invalid uuid input.
func (r *PGRepo) GetByID(ctx context.Context, id string) (Record, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Record{}, ErrNotFound
	}
	query := `
SELECT ` + recordColumns + `
FROM analyses
WHERE id = $1`
	rec, err := scanRecord(r.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, err
	}
	return rec, nil
}

// ListByOwner implements Repo.
func (r *PGRepo) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]Record, error) {
	if offset < 0 {
		offset = 0
	}
	// LIMIT NULL means no limit in Postgres.
	var limitArg any
	if limit > 0 {
		limitArg = limit
	}
	query := `
SELECT ` + recordColumns + `
FROM analyses
WHERE owner_id = $1
ORDER BY uploaded_at DESC, id DESC
LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(ctx, query, ownerID, limitArg, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (Record, error) {
	var rec Record
	var keywords, strengths, improvements, sections, breakdown []byte
	err := row.Scan(
		&rec.ID,
		&rec.OwnerID,
		&rec.FileName,
		&rec.FileRef,
		&rec.FileURL,
		&rec.MimeType,
		&rec.SizeBytes,
		&rec.Status,
		&rec.Score,
		&keywords,
		&strengths,
		&improvements,
		&sections,
		&breakdown,
		&rec.UploadedAt,
	)
	if err != nil {
		return Record{}, err
	}
	targets := []struct {
		raw  []byte
		dest any
		name string
	}{
		{keywords, &rec.Analysis.Keywords, "keywords_found"},
		{strengths, &rec.Analysis.Strengths, "strengths"},
		{improvements, &rec.Analysis.Improvements, "improvements"},
		{sections, &rec.Analysis.Sections, "section_feedback"},
		{breakdown, &rec.Analysis.Breakdown, "breakdown"},
	}
	for _, t := range targets {
		if len(t.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(t.raw, t.dest); err != nil {
			return Record{}, fmt.Errorf("decode %s for analysis %s: %w", t.name, rec.ID, err)
		}
	}
	rec.UploadedAt = rec.UploadedAt.UTC()
	return rec, nil
}

func marshalAnalysis(a Analysis) ([5]string, error) {
	var out [5]string
	values := []any{nonNil(a.Keywords), nonNil(a.Strengths), nonNil(a.Improvements), a.Sections, a.Breakdown}
	for i, v := range values {
		b, err := json.Marshal(v)
		if err != nil {
			return out, err
		}
		out[i] = string(b)
	}
	return out, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
