package health

import (
	"context"
	"database/sql"
	"time"

	"resume-scorer/internal/shared/storage/db"
)

const (
	StateUp       = "up"
	StateDown     = "down"
	StateDisabled = "disabled"
)

// Service encapsulates health-related checks.
type Service struct {
	DB      *sql.DB
	Timeout time.Duration
}

// NewService constructs a new health service. conn may be nil when the
// process runs on in-memory repositories.
func NewService(conn *sql.DB) *Service {
	return &Service{DB: conn, Timeout: 2 * time.Second}
}

// Status is the health payload.
type Status struct {
	OK       bool   `json:"ok"`
	Database string `json:"database"`
}

// Check pings the database when one is configured.
func (s *Service) Check(ctx context.Context) Status {
	if s.DB == nil {
		return Status{OK: true, Database: StateDisabled}
	}
	if err := db.Ping(ctx, s.DB, s.Timeout); err != nil {
		return Status{OK: false, Database: StateDown}
	}
	return Status{OK: true, Database: StateUp}
}
