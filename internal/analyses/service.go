package analyses

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"resume-scorer/internal/events"
	"resume-scorer/internal/extract"
	"resume-scorer/internal/scoring"
	"resume-scorer/internal/shared/metrics"
	"resume-scorer/internal/shared/storage/object"
	"resume-scorer/internal/shared/telemetry"
	"resume-scorer/internal/shared/util"
)

// Scorer produces a score for extracted resume text.
type Scorer interface {
	Score(text, fileName string) scoring.Result
}

// Service runs the upload pipeline and serves record reads.
type Service struct {
	Repo      Repo
	Store     object.Store
	Extractor extract.Extractor
	Scorer    Scorer
	Events    events.Publisher
	Now       func() time.Time
}

// Upload validates, stores, scores and records a resume. Validation failures
// return *ValidationError before any storage call. Later failures wrap
// ErrStorage, ErrExtraction or ErrPersistence. A file already stored when a
// later step fails is left in place.
func (s *Service) Upload(ctx context.Context, ownerID string, up Upload) (Record, error) {
	if strings.TrimSpace(ownerID) == "" {
		return Record{}, ErrOwnerRequired
	}
	if err := Validate(up); err != nil {
		metrics.IncUploadRejected()
		return Record{}, err
	}
	start := time.Now()

	key, err := util.ResumeKey(ownerID, up.FileName, s.now())
	if err != nil {
		metrics.IncUploadRejected()
		return Record{}, &ValidationError{Field: "fileName", Value: up.FileName, Message: "Invalid file name"}
	}

	rec, err := s.process(ctx, ownerID, key, up)
	if err != nil {
		metrics.IncUploadFailed()
		telemetry.Error("analysis.upload_failed", map[string]any{
			"user_id":   ownerID,
			"file_name": up.FileName,
			"file_ref":  key,
			"error":     err,
		})
		return Record{}, err
	}

	metrics.ObserveUpload(rec.Score, metrics.SinceMillis(start))
	telemetry.Info("analysis.completed", map[string]any{
		"analysis_id": rec.ID,
		"user_id":     ownerID,
		"score":       rec.Score,
		"keywords":    len(rec.Analysis.Keywords),
	})
	s.publish(ctx, rec)
	return rec, nil
}

func (s *Service) process(ctx context.Context, ownerID, key string, up Upload) (Record, error) {
	mimeType := normalizeMime(up.MimeType)
	if _, err := s.Store.Put(ctx, key, mimeType, bytes.NewReader(up.Data)); err != nil {
		return Record{}, fmt.Errorf("%w: put %s: %w", ErrStorage, key, err)
	}
	url, err := s.Store.DownloadURL(ctx, key)
	if err != nil {
		logOrphan(key, ownerID)
		return Record{}, fmt.Errorf("%w: download url %s: %w", ErrStorage, key, err)
	}

	text, err := s.Extractor.Extract(ctx, up.Data, mimeType, up.FileName)
	if err != nil {
		logOrphan(key, ownerID)
		return Record{}, fmt.Errorf("%w: %w", ErrExtraction, err)
	}
	result := s.Scorer.Score(text, up.FileName)

	rec, err := s.Repo.Create(ctx, Record{
		OwnerID:   ownerID,
		FileName:  up.FileName,
		FileRef:   key,
		FileURL:   url,
		MimeType:  mimeType,
		SizeBytes: up.size(),
		Score:     result.Score,
		Analysis:  analysisFromResult(result),
		Status:    StatusCompleted,
	})
	if err != nil {
		logOrphan(key, ownerID)
		return Record{}, fmt.Errorf("%w: create record: %w", ErrPersistence, err)
	}
	return rec, nil
}

// Get returns the owner's record. Records of other owners are reported as
// ErrNotFound.
func (s *Service) Get(ctx context.Context, ownerID, id string) (Record, error) {
	rec, err := s.Repo.GetByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("%w: get %s: %w", ErrPersistence, id, err)
	}
	if rec.OwnerID != ownerID {
		return Record{}, ErrNotFound
	}
	return rec, nil
}

// List returns the owner's records newest first.
func (s *Service) List(ctx context.Context, ownerID string, limit, offset int) ([]Record, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, ErrOwnerRequired
	}
	out, err := s.Repo.ListByOwner(ctx, ownerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%w: list: %w", ErrPersistence, err)
	}
	return out, nil
}

func (s *Service) publish(ctx context.Context, rec Record) {
	if s.Events == nil {
		return
	}
	err := s.Events.Publish(context.WithoutCancel(ctx), events.Event{
		Type:       events.TypeAnalysisCompleted,
		AnalysisID: rec.ID,
		OwnerID:    rec.OwnerID,
		FileName:   rec.FileName,
		Score:      rec.Score,
		OccurredAt: rec.UploadedAt,
	})
	if err != nil {
		metrics.IncEventPublishFailed()
		telemetry.Warn("analysis.event_publish_failed", map[string]any{
			"analysis_id": rec.ID,
			"error":       err,
		})
	}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func logOrphan(key, ownerID string) {
	telemetry.Warn("analysis.orphan_blob", map[string]any{"file_ref": key, "user_id": ownerID})
}
