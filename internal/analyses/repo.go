package analyses

import "context"

// Repo persists analysis records. The store assigns ID and UploadedAt on
// Create. There is no update or delete.
type Repo interface {
	Create(ctx context.Context, rec Record) (Record, error)
	GetByID(ctx context.Context, id string) (Record, error)
	// ListByOwner returns records newest first. limit <= 0 means no limit.
	ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]Record, error)
}
