package prerender

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"storesite/internal/model"
)

// ErrTemplate is returned when the SPA shell cannot be read.
var ErrTemplate = errors.New("prerender template unavailable")

var tracer = otel.Tracer("storesite/internal/prerender")

// CatalogLoader supplies the catalog to render.
type CatalogLoader interface {
	Load(ctx context.Context) (*model.Catalog, error)
}

// Result summarizes one build.
type Result struct {
	Catalog    *model.Catalog
	Routes     []string
	Skipped    []string
	Files      []string
	SWUpdated  bool
	StartedAt  time.Time
	FinishedAt time.Time
}

// Site writes the prerendered site into a dist directory.
type Site struct {
	distDir      string
	templatePath string
	company      *model.CompanyProfile
	loader       CatalogLoader
	metrics      *Metrics
	log          zerolog.Logger
	now          func() time.Time
}

// NewSite creates a Site. metrics may be nil.
func NewSite(distDir, templatePath string, c *model.CompanyProfile, loader CatalogLoader, metrics *Metrics, log zerolog.Logger) *Site {
	return &Site{
		distDir:      distDir,
		templatePath: templatePath,
		company:      c,
		loader:       loader,
		metrics:      metrics,
		log:          log,
		now:          time.Now,
	}
}

// DistDir is the output directory.
func (s *Site) DistDir() string { return s.distDir }

// Build loads the catalog and writes every route, the sitemap, robots.txt
// and the precache list. Only a missing template, a catalog failure or an
// unwritable sitemap abort the build; a route that fails is skipped.
func (s *Site) Build(ctx context.Context) (*Result, error) {
	ctx, span := tracer.Start(ctx, "prerender.Build", trace.WithAttributes(attribute.String("dist", s.distDir)))
	defer span.End()

	res, err := s.build(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(
		attribute.Int("routes.rendered", len(res.Routes)),
		attribute.Int("routes.skipped", len(res.Skipped)),
	)
	return res, nil
}

func (s *Site) build(ctx context.Context) (*Result, error) {
	res := &Result{StartedAt: s.now()}

	// The root route overwrites the shell, so it is read before anything is written.
	tpl, err := os.ReadFile(s.templatePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTemplate, err)
	}

	cat, err := s.loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	res.Catalog = cat
	if s.metrics != nil {
		s.metrics.observeCatalog(cat)
	}

	renderer := NewRenderer(tpl, s.company, s.log)
	routes := Routes(cat, s.company)
	written := make([]Route, 0, len(routes))
	for _, rt := range routes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		file, err := s.writeRoute(ctx, renderer, rt)
		if err != nil {
			s.log.Warn().Err(err).
				Str("event", "prerender_route_skipped").
				Str("route", rt.Path).
				Msg("route skipped")
			res.Skipped = append(res.Skipped, rt.Path)
			if s.metrics != nil {
				s.metrics.pagesSkipped.Inc()
			}
			continue
		}
		written = append(written, rt)
		res.Routes = append(res.Routes, rt.Path)
		res.Files = append(res.Files, file)
		if s.metrics != nil {
			s.metrics.pagesRendered.Inc()
		}
	}

	sitemap, err := Sitemap(s.company.URL, written, res.StartedAt)
	if err != nil {
		return nil, err
	}
	if err := s.writeFile("sitemap.xml", sitemap); err != nil {
		return nil, err
	}
	res.Files = append(res.Files, "sitemap.xml")
	if err := s.writeFile("robots.txt", Robots(s.company.URL)); err != nil {
		return nil, err
	}
	res.Files = append(res.Files, "robots.txt")

	entries, err := Precache(s.distDir)
	if err != nil {
		return nil, err
	}
	res.SWUpdated, err = WriteManifest(s.distDir, entries)
	if err != nil {
		return nil, err
	}
	res.Files = append(res.Files, ManifestFile)

	res.FinishedAt = s.now()
	if s.metrics != nil {
		s.metrics.buildDuration.Observe(res.FinishedAt.Sub(res.StartedAt).Seconds())
	}
	s.log.Info().
		Str("event", "prerender_completed").
		Int("routes", len(res.Routes)).
		Int("skipped", len(res.Skipped)).
		Int("precached", len(entries)).
		Bool("sw_updated", res.SWUpdated).
		Dur("duration", res.FinishedAt.Sub(res.StartedAt)).
		Msg("prerender finished")
	return res, nil
}

func (s *Site) writeRoute(ctx context.Context, r *Renderer, rt Route) (string, error) {
	_, span := tracer.Start(ctx, "prerender.Route", trace.WithAttributes(attribute.String("route", rt.Path)))
	defer span.End()

	doc, err := r.Render(rt)
	if err != nil {
		span.RecordError(err)
		return "", err
	}
	rel := RouteFile(rt.Path)
	if err := s.writeFile(rel, doc); err != nil {
		span.RecordError(err)
		return "", err
	}
	return rel, nil
}

// ErrUnsafePath is returned for a route file that would land outside dist.
var ErrUnsafePath = errors.New("path escapes dist directory")

func (s *Site) writeFile(rel string, body []byte) error {
	if !filepath.IsLocal(filepath.FromSlash(rel)) {
		return fmt.Errorf("%w: %s", ErrUnsafePath, rel)
	}
	dst := filepath.Join(s.distDir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(dst), err)
	}
	return writeAtomic(dst, body)
}

// writeAtomic replaces dst through a temp file in the same directory, so the
// site server never reads a half-written file during a rebuild.
func writeAtomic(dst string, body []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".tmp-*")
	if err != nil {
		return fmt.Errorf("write %s: %w", dst, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(body); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", dst, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", dst, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", dst, err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return fmt.Errorf("write %s: %w", dst, err)
	}
	return nil
}

// RouteFile maps a route path to its slash-separated file under dist.
func RouteFile(routePath string) string {
	p := strings.Trim(routePath, "/")
	if p == "" {
		return "index.html"
	}
	return p + "/index.html"
}
