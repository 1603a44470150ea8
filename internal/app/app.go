// Package app wires configuration into the prerender pipeline shared by the
// site server and the prerender CLI.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"storesite/internal/catalog"
	"storesite/internal/company"
	"storesite/internal/config"
	"storesite/internal/database"
	"storesite/internal/database/migration"
	"storesite/internal/logger"
	"storesite/internal/model"
	"storesite/internal/prerender"
	"storesite/internal/repository"
	"storesite/internal/repository/postgres"
	"storesite/internal/service"
	"storesite/internal/storage"
)

// Pipeline holds the configured components. DB, Storage and Builds are nil
// when the corresponding backend is not configured.
type Pipeline struct {
	Company *model.CompanyProfile
	DB      *sql.DB
	Storage storage.Storage
	Loader  *catalog.Loader
	Site    *prerender.Site
	Builds  service.BuildService
}

// New builds the pipeline from cfg. Metrics are registered on reg.
func New(ctx context.Context, cfg *config.AppConfig, log zerolog.Logger, reg prometheus.Registerer) (*Pipeline, error) {
	p := &Pipeline{}

	c, err := company.Load(cfg.Site.CompanyFile)
	if err != nil {
		return nil, err
	}
	if cfg.Site.URL != "" {
		c.URL = strings.TrimRight(cfg.Site.URL, "/")
	}
	p.Company = c

	var snapshots repository.SnapshotRepository
	if cfg.Database.Enabled() {
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
		if err := migration.EnsureMigrated(ctx, db, logger.Component(log, "migration"), cfg.Database.Host); err != nil {
			db.Close()
			return nil, err
		}
		p.DB = db
		snapshots = postgres.NewSnapshotPostgres(db)
	}

	if cfg.MinIO.Enabled() {
		st, err := storage.NewMinIO(ctx, cfg.MinIO)
		if err != nil {
			p.Close()
			return nil, fmt.Errorf("init object storage: %w", err)
		}
		p.Storage = st
	}

	var fetcher catalog.Fetcher
	if cfg.Catalog.BaseURL != "" {
		fetcher = catalog.NewClient(cfg.Catalog.BaseURL, cfg.Catalog.Timeout())
	}
	p.Loader = catalog.NewLoader(fetcher, snapshots, logger.Component(log, "catalog"))

	metrics, err := prerender.NewMetrics(reg)
	if err != nil {
		p.Close()
		return nil, fmt.Errorf("register prerender metrics: %w", err)
	}
	p.Site = prerender.NewSite(cfg.Site.DistDir, cfg.Site.Template(), c, p.Loader, metrics, logger.Component(log, "prerender"))

	if p.DB != nil {
		p.Builds = service.NewBuildService(p.Storage, postgres.NewBuildPostgres(p.DB), cfg.MinIO.PresignTTL())
	}
	return p, nil
}

// Close releases the database connection, if any.
func (p *Pipeline) Close() error {
	if p.DB == nil {
		return nil
	}
	return p.DB.Close()
}

// Publish uploads the output of res. It fails when no database or storage
// is configured.
func (p *Pipeline) Publish(ctx context.Context, res *prerender.Result) (*model.Build, error) {
	if p.Builds == nil {
		return nil, errors.New("publishing requires DB_HOST to be configured")
	}
	return p.Builds.Publish(ctx, p.Site.DistDir(), res)
}
