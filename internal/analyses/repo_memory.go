package analyses

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepo stores records in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu      sync.RWMutex
	byID    map[string]Record
	byOwner map[string][]string
	now     func() time.Time
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		byID:    make(map[string]Record),
		byOwner: make(map[string][]string),
		now:     time.Now,
	}
}

// Create implements Repo.
func (r *MemoryRepo) Create(ctx context.Context, rec Record) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}
	rec.ID = uuid.NewString()
	rec.UploadedAt = r.now().UTC()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[rec.ID] = rec
	r.byOwner[rec.OwnerID] = append(r.byOwner[rec.OwnerID], rec.ID)
	return rec, nil
}

// GetByID implements Repo.
func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.byID[id]
	if !ok {
		return Record{}, ErrNotFound
	}
	return rec, nil
}

// ListByOwner implements Repo. Records with equal timestamps keep reverse
// insertion order.
func (r *MemoryRepo) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if offset < 0 {
		offset = 0
	}

	r.mu.RLock()
	ids := r.byOwner[ownerID]
	out := make([]Record, 0, len(ids))
	for i := len(ids) - 1; i >= 0; i-- {
		out = append(out, r.byID[ids[i]])
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UploadedAt.After(out[j].UploadedAt)
	})

	if offset >= len(out) {
		return []Record{}, nil
	}
	end := len(out)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return out[offset:end], nil
}
