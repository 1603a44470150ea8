package repository

import (
	"context"

	"storesite/internal/model"
)

// SnapshotRepository keeps the last successful payload of each catalog endpoint.
type SnapshotRepository interface {
	// Save upserts the snapshot for its endpoint.
	Save(ctx context.Context, s *model.Snapshot) error

	// Latest returns the stored snapshot for endpoint, or sql.ErrNoRows.
	Latest(ctx context.Context, endpoint string) (*model.Snapshot, error)
}
