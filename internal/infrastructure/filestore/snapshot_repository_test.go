package filestore_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-osv/internal/domain"
	"github.com/jhoicas/inventario-osv/internal/domain/osv"
	"github.com/jhoicas/inventario-osv/internal/infrastructure/filestore"
)

func sampleSnapshot() *osv.Snapshot {
	return &osv.Snapshot{
		Cutoff:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Revision:   "rev-1",
		ComputedAt: time.Date(2024, 1, 2, 8, 0, 0, 0, time.UTC),
		Entries: []osv.SnapshotEntry{{
			StorageCode: "s1", NomenclatureCode: "n1", NomenclatureName: "Мука",
			UnitCode: "u1", UnitName: "кг",
			Incoming: decimal.RequireFromString("10.5"), Outgoing: decimal.RequireFromString("3"),
		}},
	}
}

func TestSnapshotRepository_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "saved_turnovers.json")
	repo := filestore.NewSnapshotRepository(path)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, sampleSnapshot()))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "2024-01-01", got.Cutoff.Format(osv.DateLayout))
	assert.Equal(t, "rev-1", got.Revision)
	require.Len(t, got.Entries, 1)
	assert.True(t, got.Entries[0].Incoming.Equal(decimal.RequireFromString("10.5")))
	assert.Equal(t, "Мука", got.Entries[0].NomenclatureName)

	matches, err := filepath.Glob(filepath.Join(filepath.Dir(path), ".tmp-snapshot-*"))
	require.NoError(t, err)
	assert.Empty(t, matches, "no quedan temporales")
}

func TestSnapshotRepository_MissingFile(t *testing.T) {
	repo := filestore.NewSnapshotRepository(filepath.Join(t.TempDir(), "none.json"))
	got, err := repo.Load(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestSnapshotRepository_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saved_turnovers.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"cutoff": "2024-01-01", "entries": [`), 0o644))

	_, err := filestore.NewSnapshotRepository(path).Load(context.Background())
	assert.Error(t, err)
}

func TestSnapshotRepository_WriteFailure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	// El directorio padre es un archivo: no se puede crear el temporal.
	repo := filestore.NewSnapshotRepository(filepath.Join(blocker, "saved_turnovers.json"))
	err := repo.Save(context.Background(), sampleSnapshot())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrPersistence))
}
