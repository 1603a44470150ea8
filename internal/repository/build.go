package repository

import (
	"context"

	"storesite/internal/model"
)

// BuildRepository persists published prerender builds using SQL queries only.
type BuildRepository interface {
	// Create inserts a new build record and returns the stored row.
	Create(ctx context.Context, b *model.Build) (*model.Build, error)

	// FindByID returns a build by its ID. It returns sql.ErrNoRows when missing.
	FindByID(ctx context.Context, id string) (*model.Build, error)

	// List returns builds newest first with the total row count.
	List(ctx context.Context, pq PageQuery) (*PageResult[model.Build], error)
}
