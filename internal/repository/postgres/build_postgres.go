package postgres

import (
	"context"
	"database/sql"

	"storesite/internal/model"
	"storesite/internal/repository"
)

// BuildPostgres is a PostgreSQL implementation of repository.BuildRepository.
type BuildPostgres struct {
	db *sql.DB
}

// NewBuildPostgres creates a new BuildPostgres repository.
func NewBuildPostgres(db *sql.DB) *BuildPostgres {
	return &BuildPostgres{db: db}
}

var _ repository.BuildRepository = (*BuildPostgres)(nil)

const buildColumns = `id, storage_prefix, routes, files, menu_source, started_at, finished_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanBuild(s scanner) (*model.Build, error) {
	var b model.Build
	var source string
	if err := s.Scan(
		&b.ID,
		&b.StoragePrefix,
		&b.Routes,
		&b.Files,
		&source,
		&b.StartedAt,
		&b.FinishedAt,
	); err != nil {
		return nil, err
	}
	b.MenuSource = model.Source(source)
	return &b, nil
}

// Create inserts a new build row and returns the stored record.
func (r *BuildPostgres) Create(ctx context.Context, b *model.Build) (*model.Build, error) {
	const q = `
		INSERT INTO builds (id, storage_prefix, routes, files, menu_source, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + buildColumns
	row := r.db.QueryRowContext(ctx, q,
		b.ID,
		b.StoragePrefix,
		b.Routes,
		b.Files,
		string(b.MenuSource),
		b.StartedAt,
		b.FinishedAt,
	)
	return scanBuild(row)
}

// FindByID fetches a single build by its ID.
func (r *BuildPostgres) FindByID(ctx context.Context, id string) (*model.Build, error) {
	const q = `SELECT ` + buildColumns + ` FROM builds WHERE id = $1`
	return scanBuild(r.db.QueryRowContext(ctx, q, id))
}

// List returns builds using LIMIT/OFFSET pagination and a total count.
func (r *BuildPostgres) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Build], error) {
	const qCount = `SELECT COUNT(*) FROM builds`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `
		SELECT ` + buildColumns + `
		FROM builds
		ORDER BY started_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.QueryContext(ctx, qList, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Build, 0)
	for rows.Next() {
		b, err := scanBuild(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Build]{
		Items: items,
		Total: total,
	}, nil
}
