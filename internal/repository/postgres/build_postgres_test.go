package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"storesite/internal/model"
	"storesite/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var buildCols = []string{"id", "storage_prefix", "routes", "files", "menu_source", "started_at", "finished_at"}

func TestBuildPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewBuildPostgres(db)
	ctx := context.Background()

	now := time.Now().UTC()
	b := &model.Build{
		ID:            "build-1",
		StoragePrefix: "sites/build-1",
		Routes:        12,
		Files:         40,
		MenuSource:    model.SourceAPI,
		StartedAt:     now.Add(-time.Second),
		FinishedAt:    now,
	}

	rows := sqlmock.NewRows(buildCols).
		AddRow(b.ID, b.StoragePrefix, b.Routes, b.Files, "api", b.StartedAt, b.FinishedAt)

	mock.ExpectQuery("INSERT INTO builds").
		WithArgs(b.ID, b.StoragePrefix, b.Routes, b.Files, "api", b.StartedAt, b.FinishedAt).
		WillReturnRows(rows)

	result, err := repo.Create(ctx, b)

	assert.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, b.ID, result.ID)
	assert.Equal(t, model.SourceAPI, result.MenuSource)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBuildPostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewBuildPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		rows := sqlmock.NewRows(buildCols).
			AddRow("build-1", "sites/build-1", 9, 30, "static", time.Now(), time.Now())

		mock.ExpectQuery("SELECT (.+) FROM builds WHERE id = ?").
			WithArgs("build-1").
			WillReturnRows(rows)

		b, err := repo.FindByID(ctx, "build-1")

		assert.NoError(t, err)
		require.NotNil(t, b)
		assert.Equal(t, 9, b.Routes)
		assert.Equal(t, model.SourceStatic, b.MenuSource)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM builds WHERE id = ?").
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		b, err := repo.FindByID(ctx, "missing")

		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, b)
	})
}

func TestBuildPostgres_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewBuildPostgres(db)
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM builds").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

		rows := sqlmock.NewRows(buildCols).
			AddRow("b2", "sites/b2", 9, 30, "api", time.Now(), time.Now()).
			AddRow("b1", "sites/b1", 8, 28, "snapshot", time.Now(), time.Now())

		mock.ExpectQuery("SELECT (.+) FROM builds ORDER BY").
			WithArgs(10, 0).
			WillReturnRows(rows)

		res, err := repo.List(ctx, repository.PageQuery{Limit: 10, Offset: 0})

		assert.NoError(t, err)
		assert.Equal(t, 2, res.Total)
		assert.Len(t, res.Items, 2)
		assert.Equal(t, "b2", res.Items[0].ID)
	})

	t.Run("count error", func(t *testing.T) {
		mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM builds").
			WillReturnError(errors.New("boom"))

		res, err := repo.List(ctx, repository.PageQuery{Limit: 10})

		assert.Error(t, err)
		assert.Nil(t, res)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
