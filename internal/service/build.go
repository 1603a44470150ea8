package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"storesite/internal/model"
	"storesite/internal/prerender"
	"storesite/internal/repository"
	"storesite/internal/storage"
)

var (
	ErrIDRequired      = errors.New("id is required")
	ErrNotFound        = errors.New("build not found")
	ErrResultNil       = errors.New("build result is nil")
	ErrStorageDisabled = errors.New("object storage is not configured")
)

// BuildListResult is the service-level DTO for paginated builds.
type BuildListResult struct {
	Items []model.Build `json:"data"`
	Total int           `json:"total"`
}

// BuildView is a build with a time-limited link to its published home page.
type BuildView struct {
	model.Build
	PreviewURL string `json:"preview_url,omitempty"`
}

// BuildService publishes prerendered sites and exposes their history.
type BuildService interface {
	// Publish uploads dir under sites/<id>/ and records the build. Uploaded
	// objects are removed again when the record cannot be saved.
	Publish(ctx context.Context, dir string, res *prerender.Result) (*model.Build, error)

	// List returns builds newest first using limit/offset and a total count.
	List(ctx context.Context, limit, offset int) (*BuildListResult, error)

	// Get returns one build. PreviewURL is empty when storage is disabled.
	Get(ctx context.Context, id string) (*BuildView, error)
}

type buildService struct {
	store      storage.Storage
	repo       repository.BuildRepository
	previewTTL time.Duration
}

// NewBuildService constructs a BuildService. store may be nil, in which case
// publishing fails and builds carry no preview link.
func NewBuildService(store storage.Storage, repo repository.BuildRepository, previewTTL time.Duration) BuildService {
	return &buildService{store: store, repo: repo, previewTTL: previewTTL}
}

func (s *buildService) Publish(ctx context.Context, dir string, res *prerender.Result) (*model.Build, error) {
	if res == nil {
		return nil, ErrResultNil
	}
	if s.store == nil {
		return nil, ErrStorageDisabled
	}

	id := uuid.New().String()
	prefix := "sites/" + id

	keys, err := storage.UploadTree(ctx, s.store, prefix, dir)
	if err != nil {
		if delErr := storage.DeleteKeys(ctx, s.store, keys); delErr != nil {
			return nil, fmt.Errorf("upload to storage: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	b := &model.Build{
		ID:            id,
		StoragePrefix: prefix,
		Routes:        len(res.Routes),
		Files:         len(keys),
		StartedAt:     res.StartedAt.UTC(),
		FinishedAt:    res.FinishedAt.UTC(),
	}
	if res.Catalog != nil {
		b.MenuSource = res.Catalog.MenuSource
	}
	stored, err := s.repo.Create(ctx, b)
	if err != nil {
		if delErr := storage.DeleteKeys(ctx, s.store, keys); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}
	return stored, nil
}

func (s *buildService) List(ctx context.Context, limit, offset int) (*BuildListResult, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.repo.List(ctx, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &BuildListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *buildService) Get(ctx context.Context, id string) (*BuildView, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	view := &BuildView{Build: *b}
	if s.store != nil {
		u, err := s.store.PresignGet(ctx, b.StoragePrefix+"/index.html", s.previewTTL)
		if err != nil {
			return nil, fmt.Errorf("presign preview: %w", err)
		}
		view.PreviewURL = u
	}
	return view, nil
}
