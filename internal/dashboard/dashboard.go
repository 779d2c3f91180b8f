package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"resume-scorer/internal/analyses"
	"resume-scorer/internal/scoring"
)

// RecentLimit caps the records shown on the dashboard.
const RecentLimit = 5

var ErrOwnerRequired = errors.New("owner id is required")

// Summary is the dashboard view of one owner's history.
type Summary struct {
	TotalAnalyses int               `json:"totalAnalyses"`
	AverageScore  int               `json:"averageScore"`
	Recent        []analyses.Record `json:"recent"`
}

// Summarize aggregates records that are already ordered newest first. The
// average covers completed records only and is 0 when there are none.
func Summarize(records []analyses.Record) Summary {
	sum, completed := 0, 0
	for _, r := range records {
		if r.Status != analyses.StatusCompleted {
			continue
		}
		sum += r.Score
		completed++
	}

	avg := 0
	if completed > 0 {
		avg = int(scoring.RoundHalfUp(float64(sum) / float64(completed)))
	}

	n := len(records)
	if n > RecentLimit {
		n = RecentLimit
	}
	recent := make([]analyses.Record, n)
	copy(recent, records[:n])

	return Summary{
		TotalAnalyses: len(records),
		AverageScore:  avg,
		Recent:        recent,
	}
}

// Lister is the read side of the analyses repository.
type Lister interface {
	ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]analyses.Record, error)
}

type Service struct {
	Records Lister
}

func NewService(records Lister) *Service {
	return &Service{Records: records}
}

// ForOwner loads every record of ownerID and summarizes them.
func (s *Service) ForOwner(ctx context.Context, ownerID string) (Summary, error) {
	if strings.TrimSpace(ownerID) == "" {
		return Summary{}, ErrOwnerRequired
	}
	records, err := s.Records.ListByOwner(ctx, ownerID, 0, 0)
	if err != nil {
		return Summary{}, fmt.Errorf("%w: list: %w", analyses.ErrPersistence, err)
	}
	return Summarize(records), nil
}
