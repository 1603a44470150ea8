package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"storesite/internal/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotPostgres_Save(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewSnapshotPostgres(db)
	now := time.Now().UTC()
	s := &model.Snapshot{Endpoint: "public-menu", Payload: []byte(`{"menu":[]}`), FetchedAt: now}

	mock.ExpectExec("INSERT INTO catalog_snapshots (.+) ON CONFLICT").
		WithArgs(s.Endpoint, s.Payload, s.FetchedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.Save(context.Background(), s))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSnapshotPostgres_Latest(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewSnapshotPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		now := time.Now()
		mock.ExpectQuery("SELECT (.+) FROM catalog_snapshots WHERE endpoint = ?").
			WithArgs("public-menu").
			WillReturnRows(sqlmock.NewRows([]string{"endpoint", "payload", "fetched_at"}).
				AddRow("public-menu", []byte(`{"menu":[]}`), now))

		s, err := repo.Latest(ctx, "public-menu")

		require.NoError(t, err)
		assert.Equal(t, "public-menu", s.Endpoint)
		assert.JSONEq(t, `{"menu":[]}`, string(s.Payload))
	})

	t.Run("missing", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM catalog_snapshots WHERE endpoint = ?").
			WithArgs("public-services").
			WillReturnError(sql.ErrNoRows)

		s, err := repo.Latest(ctx, "public-services")

		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, s)
	})
}
