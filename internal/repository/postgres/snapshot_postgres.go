package postgres

import (
	"context"
	"database/sql"

	"storesite/internal/model"
	"storesite/internal/repository"
)

// SnapshotPostgres stores catalog payload snapshots, one row per endpoint.
type SnapshotPostgres struct {
	db *sql.DB
}

// NewSnapshotPostgres creates a new SnapshotPostgres repository.
func NewSnapshotPostgres(db *sql.DB) *SnapshotPostgres {
	return &SnapshotPostgres{db: db}
}

var _ repository.SnapshotRepository = (*SnapshotPostgres)(nil)

// Save upserts the payload for the snapshot's endpoint.
func (r *SnapshotPostgres) Save(ctx context.Context, s *model.Snapshot) error {
	const q = `
		INSERT INTO catalog_snapshots (endpoint, payload, fetched_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (endpoint) DO UPDATE
		SET payload = EXCLUDED.payload, fetched_at = EXCLUDED.fetched_at
	`
	_, err := r.db.ExecContext(ctx, q, s.Endpoint, s.Payload, s.FetchedAt)
	return err
}

// Latest returns the stored snapshot for endpoint.
func (r *SnapshotPostgres) Latest(ctx context.Context, endpoint string) (*model.Snapshot, error) {
	const q = `
		SELECT endpoint, payload, fetched_at
		FROM catalog_snapshots
		WHERE endpoint = $1
	`
	var s model.Snapshot
	if err := r.db.QueryRowContext(ctx, q, endpoint).Scan(&s.Endpoint, &s.Payload, &s.FetchedAt); err != nil {
		return nil, err
	}
	return &s, nil
}
