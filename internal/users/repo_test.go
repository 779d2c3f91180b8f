package users

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestMemoryRepoEmailUniqueCaseInsensitive(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()

	if _, err := repo.Create(ctx, Profile{UID: "u-1", Email: "Jane@Example.com", Name: "Jane"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := repo.Create(ctx, Profile{UID: "u-2", Email: " jane@example.COM "}); !errors.Is(err, ErrEmailInUse) {
		t.Fatalf("expected ErrEmailInUse, got %v", err)
	}

	got, err := repo.GetByEmail(ctx, "JANE@example.com")
	if err != nil || got.UID != "u-1" || got.CreatedAt.IsZero() {
		t.Fatalf("GetByEmail = %+v, %v", got, err)
	}
}

func TestMemoryRepoUpdatePhotoURL(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()

	if err := repo.UpdatePhotoURL(ctx, "missing", "http://x"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := repo.Create(ctx, Profile{UID: "u-1", Email: "a@b.c"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.UpdatePhotoURL(ctx, "u-1", "http://x/photo"); err != nil {
		t.Fatalf("UpdatePhotoURL: %v", err)
	}
	got, _ := repo.GetByID(ctx, "u-1")
	if got.PhotoURL != "http://x/photo" || got.Email != "a@b.c" {
		t.Fatalf("unexpected profile %+v", got)
	}
}

func newMockRepo(t *testing.T) (*PGRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return &PGRepo{DB: db}, mock
}

func TestPGRepoCreateReturnsServerTime(t *testing.T) {
	repo, mock := newMockRepo(t)
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectQuery("INSERT INTO users").
		WithArgs("u-1", "jane@example.com", "Jane", "555", "").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(created))

	got, err := repo.Create(context.Background(), Profile{UID: "u-1", Email: "jane@example.com", Name: "Jane", Phone: "555"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !got.CreatedAt.Equal(created) {
		t.Fatalf("created_at = %v, want %v", got.CreatedAt, created)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPGRepoCreateDuplicateEmail(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery("INSERT INTO users").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := repo.Create(context.Background(), Profile{UID: "u-1", Email: "jane@example.com"})
	if !errors.Is(err, ErrEmailInUse) {
		t.Fatalf("expected ErrEmailInUse, got %v", err)
	}
}

func TestPGRepoGetByEmailNormalizes(t *testing.T) {
	repo, mock := newMockRepo(t)
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	mock.ExpectQuery("SELECT uid, email, name, phone, photo_url, created_at").
		WithArgs("jane@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"uid", "email", "name", "phone", "photo_url", "created_at"}).
			AddRow("u-1", "Jane@Example.com", "Jane", "", "", created))

	got, err := repo.GetByEmail(context.Background(), " Jane@Example.com")
	if err != nil || got.UID != "u-1" {
		t.Fatalf("GetByEmail = %+v, %v", got, err)
	}
}

func TestPGRepoGetByIDNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery("SELECT uid").WithArgs("missing").WillReturnError(sql.ErrNoRows)

	if _, err := repo.GetByID(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoUpdatePhotoURLNoRows(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec("UPDATE users SET photo_url").
		WithArgs("missing", "http://x").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.UpdatePhotoURL(context.Background(), "missing", "http://x"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
