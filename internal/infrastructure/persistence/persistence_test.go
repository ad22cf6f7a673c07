package persistence_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-osv/internal/domain/entity"
	"github.com/jhoicas/inventario-osv/internal/domain/osv"
	"github.com/jhoicas/inventario-osv/internal/infrastructure/persistence"
	"github.com/jhoicas/inventario-osv/pkg/config"
)

var fallback = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func admin() *entity.User {
	return &entity.User{ID: "u-1", Email: "admin@example.com", PasswordHash: "x", Role: entity.RoleAdmin, Status: entity.UserStatusActive}
}

func TestOpen_FileDriver(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saved_turnovers.json")
	cfg := &config.Config{Snapshot: config.SnapshotConfig{Driver: config.SnapshotDriverFile, Path: path}}

	stores, err := persistence.Open(context.Background(), cfg, fallback, admin(), nil)
	require.NoError(t, err)
	defer stores.Close()

	assert.Equal(t, path, stores.Location)

	cutoff, err := stores.Settings.BlockPeriod(context.Background())
	require.NoError(t, err)
	assert.True(t, cutoff.Equal(fallback))

	u, err := stores.Users.FindByEmail("ADMIN@example.com")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "u-1", u.ID)

	snap, err := stores.Snapshots.Load(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, snap)
}

func TestOpen_SQLiteDriver(t *testing.T) {
	cfg := &config.Config{Snapshot: config.SnapshotConfig{
		Driver:     config.SnapshotDriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "osv.db"),
	}}
	ctx := context.Background()

	stores, err := persistence.Open(ctx, cfg, fallback, nil, nil)
	require.NoError(t, err)
	defer stores.Close()

	require.NoError(t, stores.Settings.SetBlockPeriod(ctx, fallback.AddDate(0, 1, 0)))
	cutoff, err := stores.Settings.BlockPeriod(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2024-02-01", cutoff.Format(osv.DateLayout))

	u, err := stores.Users.FindByEmail("admin@example.com")
	assert.NoError(t, err)
	assert.Nil(t, u, "sin administrador configurado")
}
