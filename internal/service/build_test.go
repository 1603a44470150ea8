package service

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"storesite/internal/model"
	"storesite/internal/prerender"
	"storesite/internal/repository"
	repoMocks "storesite/internal/repository/mocks"
	"storesite/internal/storage"
	storeMocks "storesite/internal/storage/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func distTree(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html></html>"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "menu"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "menu", "index.html"), []byte("<html>menu</html>"), 0o644))
	return dir
}

func buildResult() *prerender.Result {
	start := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	return &prerender.Result{
		Catalog:    &model.Catalog{MenuSource: model.SourceAPI},
		Routes:     []string{"/", "/menu/"},
		StartedAt:  start,
		FinishedAt: start.Add(2 * time.Second),
	}
}

func TestBuildService_Publish(t *testing.T) {
	ctx := context.Background()
	isSiteKey := mock.MatchedBy(func(key string) bool { return strings.HasPrefix(key, "sites/") })

	tests := []struct {
		name       string
		res        *prerender.Result
		nilStore   bool
		setupMocks func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockBuildRepository)
		wantErr    error
		wantErrMsg string
	}{
		{
			name: "happy path",
			res:  buildResult(),
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockBuildRepository) {
				mStore.On("Put", mock.Anything, isSiteKey, mock.Anything, mock.Anything).Return(storage.ObjectInfo{}, nil).Twice()
				mRepo.On("Create", ctx, mock.MatchedBy(func(b *model.Build) bool {
					return b.ID != "" && b.StoragePrefix == "sites/"+b.ID && b.Routes == 2 && b.Files == 2 &&
						b.MenuSource == model.SourceAPI && b.FinishedAt.Sub(b.StartedAt) == 2*time.Second
				})).Return(&model.Build{ID: "gen-id"}, nil)
			},
		},
		{
			name:       "validation error - nil result",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockBuildRepository) {},
			wantErr:    ErrResultNil,
		},
		{
			name:       "storage disabled",
			res:        buildResult(),
			nilStore:   true,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockBuildRepository) {},
			wantErr:    ErrStorageDisabled,
		},
		{
			name: "storage error rolls back uploaded objects",
			res:  buildResult(),
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockBuildRepository) {
				mStore.On("Put", mock.Anything, mock.MatchedBy(func(key string) bool { return strings.HasSuffix(key, "/menu/index.html") }), mock.Anything, mock.Anything).
					Return(storage.ObjectInfo{}, errors.New("storage fail"))
				mStore.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(storage.ObjectInfo{}, nil)
				mStore.On("Delete", ctx, mock.MatchedBy(func(key string) bool { return strings.HasSuffix(key, "/index.html") })).Return(nil)
			},
			wantErrMsg: "upload to storage: upload menu/index.html: storage fail",
		},
		{
			name: "repository error with successful rollback",
			res:  buildResult(),
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockBuildRepository) {
				mStore.On("Put", mock.Anything, isSiteKey, mock.Anything, mock.Anything).Return(storage.ObjectInfo{}, nil)
				mRepo.On("Create", ctx, mock.Anything).Return(nil, errors.New("db fail"))
				mStore.On("Delete", ctx, isSiteKey).Return(nil).Twice()
			},
			wantErrMsg: "db save failed: db fail",
		},
		{
			name: "repository error with failed rollback",
			res:  buildResult(),
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockBuildRepository) {
				mStore.On("Put", mock.Anything, isSiteKey, mock.Anything, mock.Anything).Return(storage.ObjectInfo{}, nil)
				mRepo.On("Create", ctx, mock.Anything).Return(nil, errors.New("db fail"))
				mStore.On("Delete", ctx, isSiteKey).Return(errors.New("delete fail"))
			},
			wantErrMsg: "rollback delete failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mStore := new(storeMocks.MockStorage)
			mRepo := new(repoMocks.MockBuildRepository)
			var svc BuildService
			if tt.nilStore {
				svc = NewBuildService(nil, mRepo, time.Minute)
			} else {
				svc = NewBuildService(mStore, mRepo, time.Minute)
			}
			tt.setupMocks(mStore, mRepo)

			b, err := svc.Publish(ctx, distTree(t), tt.res)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, b)
			} else if tt.wantErrMsg != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErrMsg)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, b)
			}
			mRepo.AssertExpectations(t)
		})
	}
}

func TestBuildService_List(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		limit      int
		offset     int
		setupMocks func(mRepo *repoMocks.MockBuildRepository)
		wantErr    bool
		checkRes   func(t *testing.T, res *BuildListResult)
	}{
		{
			name:   "happy path",
			limit:  10,
			offset: 0,
			setupMocks: func(mRepo *repoMocks.MockBuildRepository) {
				mRepo.On("List", ctx, repository.PageQuery{Limit: 10, Offset: 0}).
					Return(&repository.PageResult[model.Build]{
						Items: []model.Build{{ID: "1"}, {ID: "2"}},
						Total: 2,
					}, nil)
			},
			checkRes: func(t *testing.T, res *BuildListResult) {
				assert.Equal(t, 2, len(res.Items))
				assert.Equal(t, 2, res.Total)
			},
		},
		{
			name:   "pagination boundary - zero limit uses default",
			limit:  0,
			offset: -1,
			setupMocks: func(mRepo *repoMocks.MockBuildRepository) {
				mRepo.On("List", ctx, repository.PageQuery{Limit: 10, Offset: 0}).
					Return(&repository.PageResult[model.Build]{Items: []model.Build{}, Total: 0}, nil)
			},
		},
		{
			name:  "repository error",
			limit: 10,
			setupMocks: func(mRepo *repoMocks.MockBuildRepository) {
				mRepo.On("List", ctx, mock.Anything).Return(nil, errors.New("db fail"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mRepo := new(repoMocks.MockBuildRepository)
			svc := NewBuildService(nil, mRepo, time.Minute)
			tt.setupMocks(mRepo)

			res, err := svc.List(ctx, tt.limit, tt.offset)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				if tt.checkRes != nil {
					tt.checkRes(t, res)
				}
			}
			mRepo.AssertExpectations(t)
		})
	}
}

func TestBuildService_Get(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		id          string
		nilStore    bool
		setupMocks  func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockBuildRepository)
		wantErr     error
		wantPreview string
	}{
		{
			name: "happy path with preview link",
			id:   "b1",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockBuildRepository) {
				mRepo.On("FindByID", ctx, "b1").Return(&model.Build{ID: "b1", StoragePrefix: "sites/b1"}, nil)
				mStore.On("PresignGet", ctx, "sites/b1/index.html", time.Minute).Return("https://minio.local/sites/b1/index.html?sig=x", nil)
			},
			wantPreview: "https://minio.local/sites/b1/index.html?sig=x",
		},
		{
			name:     "storage disabled has no preview",
			id:       "b1",
			nilStore: true,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockBuildRepository) {
				mRepo.On("FindByID", ctx, "b1").Return(&model.Build{ID: "b1", StoragePrefix: "sites/b1"}, nil)
			},
		},
		{
			name:       "validation - empty id",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockBuildRepository) {},
			wantErr:    ErrIDRequired,
		},
		{
			name: "not found - mapping sql.ErrNoRows",
			id:   "missing",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockBuildRepository) {
				mRepo.On("FindByID", ctx, "missing").Return(nil, sql.ErrNoRows)
			},
			wantErr: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mStore := new(storeMocks.MockStorage)
			mRepo := new(repoMocks.MockBuildRepository)
			var svc BuildService
			if tt.nilStore {
				svc = NewBuildService(nil, mRepo, time.Minute)
			} else {
				svc = NewBuildService(mStore, mRepo, time.Minute)
			}
			tt.setupMocks(mStore, mRepo)

			view, err := svc.Get(ctx, tt.id)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, view)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.id, view.ID)
				assert.Equal(t, tt.wantPreview, view.PreviewURL)
			}
			mStore.AssertExpectations(t)
			mRepo.AssertExpectations(t)
		})
	}
}
