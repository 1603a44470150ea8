package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"storesite/internal/model"
	"storesite/internal/repository"
)

// Loader produces a reconciled catalog. Each collection comes from the API
// when it answers, else from the last persisted snapshot, else from the
// bundled fixtures. Failures are logged and never returned.
type Loader struct {
	fetcher   Fetcher
	snapshots repository.SnapshotRepository
	log       zerolog.Logger
	now       func() time.Time
}

// NewLoader wires a Loader. fetcher and snapshots may be nil.
func NewLoader(fetcher Fetcher, snapshots repository.SnapshotRepository, log zerolog.Logger) *Loader {
	return &Loader{
		fetcher:   fetcher,
		snapshots: snapshots,
		log:       log,
		now:       time.Now,
	}
}

// Load fetches and reconciles the catalog. It only fails when the bundled
// fixtures cannot be read.
func (l *Loader) Load(ctx context.Context) (*model.Catalog, error) {
	staticMenu, err := StaticMenu()
	if err != nil {
		return nil, err
	}
	staticServices, err := StaticServices()
	if err != nil {
		return nil, err
	}
	staticLocations, err := StaticLocations()
	if err != nil {
		return nil, err
	}

	var responses map[string]Response
	if l.fetcher != nil {
		responses = l.fetcher.FetchAll(ctx)
	}

	cat := &model.Catalog{FetchedAt: l.now().UTC()}
	warn := l.invalidRecord

	staticMenu = NormalizeMenu(cleanMenu(staticMenu, warn), false)
	menu, src := resolve(ctx, l, EndpointMenu, responses, DecodeMenu)
	if apiMenu := NormalizeMenu(cleanMenu(menu, warn), true); len(apiMenu) > 0 {
		cat.Menu = MergeMenu(apiMenu, staticMenu)
	} else {
		cat.Menu, src = staticMenu, l.noValidRecords(EndpointMenu, src)
	}
	cat.MenuSource = src

	staticServices = cleanServices(staticServices, warn)
	services, src := resolve(ctx, l, EndpointServices, responses, DecodeServices)
	if apiServices := cleanServices(services, warn); len(apiServices) > 0 {
		cat.Services = MergeServices(apiServices, staticServices)
	} else {
		cat.Services, src = staticServices, l.noValidRecords(EndpointServices, src)
	}
	cat.ServiceSource = src

	staticLocations = cleanLocations(staticLocations, warn)
	locations, src := resolve(ctx, l, EndpointLocations, responses, DecodeLocations)
	if apiLocations := cleanLocations(locations, warn); len(apiLocations) > 0 {
		cat.Locations = MergeLocations(apiLocations, staticLocations)
	} else {
		cat.Locations, src = staticLocations, l.noValidRecords(EndpointLocations, src)
	}
	cat.LocationSource = src

	l.log.Info().
		Str("event", "catalog_loaded").
		Str("menu_source", string(cat.MenuSource)).
		Str("service_source", string(cat.ServiceSource)).
		Str("location_source", string(cat.LocationSource)).
		Int("menu_items", len(cat.Menu)).
		Int("services", len(cat.Services)).
		Int("locations", len(cat.Locations)).
		Msg("catalog loaded")

	return cat, nil
}

// resolve walks the API → snapshot → static chain for one endpoint. An empty
// list from the API or a snapshot counts as no data.
func resolve[T any](ctx context.Context, l *Loader, endpoint string, responses map[string]Response, decode func([]byte) ([]T, error)) ([]T, model.Source) {
	if resp, ok := responses[endpoint]; ok {
		items, err := decodeResponse(resp, decode)
		if err == nil && len(items) > 0 {
			l.saveSnapshot(ctx, endpoint, resp.Body)
			return items, model.SourceAPI
		}
		if err == nil {
			err = fmt.Errorf("%s: empty list", endpoint)
		}
		l.log.Warn().Err(err).
			Str("event", "catalog_fetch_failed").
			Str("endpoint", endpoint).
			Msg("falling back")
	}

	if l.snapshots != nil {
		snap, err := l.snapshots.Latest(ctx, endpoint)
		if err == nil {
			items, derr := decode(snap.Payload)
			if derr == nil && len(items) > 0 {
				l.log.Info().
					Str("event", "catalog_snapshot_used").
					Str("endpoint", endpoint).
					Time("snapshot_fetched_at", snap.FetchedAt).
					Msg("using last snapshot")
				return items, model.SourceSnapshot
			}
			err = derr
		}
		if err != nil {
			l.log.Warn().Err(err).
				Str("event", "catalog_snapshot_unavailable").
				Str("endpoint", endpoint).
				Msg("no usable snapshot")
		}
	}

	return nil, model.SourceStatic
}

func decodeResponse[T any](resp Response, decode func([]byte) ([]T, error)) ([]T, error) {
	if resp.Err != nil {
		return nil, resp.Err
	}
	return decode(resp.Body)
}

func (l *Loader) saveSnapshot(ctx context.Context, endpoint string, body []byte) {
	if l.snapshots == nil {
		return
	}
	err := l.snapshots.Save(ctx, &model.Snapshot{
		Endpoint:  endpoint,
		Payload:   body,
		FetchedAt: l.now().UTC(),
	})
	if err != nil {
		l.log.Warn().Err(err).
			Str("event", "catalog_snapshot_save_failed").
			Str("endpoint", endpoint).
			Msg("snapshot not saved")
	}
}

// noValidRecords reports the static fallback taken when a fetched list had
// no record surviving validation.
func (l *Loader) noValidRecords(endpoint string, src model.Source) model.Source {
	if src != model.SourceStatic {
		l.log.Warn().
			Str("event", "catalog_fetch_failed").
			Str("endpoint", endpoint).
			Str("source", string(src)).
			Msg("no valid records, falling back to static")
	}
	return model.SourceStatic
}

func (l *Loader) invalidRecord(kind, id string, err error) {
	ev := l.log.Warn().Str("event", "catalog_record_dropped").Str("kind", kind).Str("id", id)
	if err != nil {
		ev = ev.Err(err)
	}
	ev.Msg("invalid record skipped")
}
