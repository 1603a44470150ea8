package service

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"storesite/internal/prerender"
)

// ErrRebuildInProgress is returned when a rebuild is requested while another runs.
var ErrRebuildInProgress = errors.New("rebuild already in progress")

// SiteBuilder produces a prerendered site.
type SiteBuilder interface {
	Build(ctx context.Context) (*prerender.Result, error)
	DistDir() string
}

// Rebuilder re-runs the prerender pipeline, swaps the served catalog and
// optionally publishes the output. Runs never overlap.
type Rebuilder struct {
	site    SiteBuilder
	store   *CatalogStore
	builds  BuildService
	publish bool
	log     zerolog.Logger
	mu      sync.Mutex
}

// NewRebuilder creates a Rebuilder. builds may be nil; publish is ignored then.
func NewRebuilder(site SiteBuilder, store *CatalogStore, builds BuildService, publish bool, log zerolog.Logger) *Rebuilder {
	return &Rebuilder{site: site, store: store, builds: builds, publish: publish && builds != nil, log: log}
}

// Run performs one rebuild. A failed build leaves the served catalog untouched.
func (r *Rebuilder) Run(ctx context.Context) (*prerender.Result, error) {
	if !r.mu.TryLock() {
		r.log.Warn().Str("event", "rebuild_skipped").Msg("previous rebuild still running")
		return nil, ErrRebuildInProgress
	}
	defer r.mu.Unlock()

	res, err := r.site.Build(ctx)
	if err != nil {
		r.log.Error().Err(err).Str("event", "rebuild_failed").Msg("rebuild failed")
		return nil, err
	}
	r.store.Swap(res.Catalog)

	if r.publish {
		b, err := r.builds.Publish(ctx, r.site.DistDir(), res)
		if err != nil {
			r.log.Error().Err(err).Str("event", "publish_failed").Msg("build rendered but not published")
			return res, err
		}
		r.log.Info().Str("event", "publish_completed").Str("build_id", b.ID).Int("files", b.Files).Msg("build published")
	}
	return res, nil
}
