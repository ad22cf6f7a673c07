// Package persistence elige los adaptadores del snapshot, ajustes y usuarios
// según SNAPSHOT_DRIVER. Lo comparten la API y la herramienta de recálculo.
package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/inventario-osv/internal/domain"
	"github.com/jhoicas/inventario-osv/internal/domain/entity"
	"github.com/jhoicas/inventario-osv/internal/domain/repository"
	"github.com/jhoicas/inventario-osv/internal/infrastructure/filestore"
	"github.com/jhoicas/inventario-osv/internal/infrastructure/memory"
	"github.com/jhoicas/inventario-osv/internal/infrastructure/objectstore"
	"github.com/jhoicas/inventario-osv/internal/infrastructure/postgres"
	"github.com/jhoicas/inventario-osv/internal/infrastructure/sqlite"
	"github.com/jhoicas/inventario-osv/pkg/config"
	"github.com/jhoicas/inventario-osv/pkg/logger"
)

// Stores adaptadores listos para los casos de uso.
type Stores struct {
	Snapshots repository.SnapshotRepository
	Settings  repository.SettingsRepository
	Users     repository.UserRepository
	Location  string // archivo o base de datos, para logs

	closers []func()
}

// Close libera conexiones abiertas (pool o base SQLite).
func (s *Stores) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

// Open construye los adaptadores del driver configurado. fallback es la fecha de
// bloqueo inicial cuando el almacén de ajustes aún no tiene una. admin puede ser nil.
func Open(ctx context.Context, cfg *config.Config, fallback time.Time, admin *entity.User, log *logger.Logger) (*Stores, error) {
	if log == nil {
		log = logger.Nop()
	}
	switch cfg.Snapshot.Driver {
	case config.SnapshotDriverSQLite:
		store, err := sqlite.Open(cfg.Snapshot.SQLitePath, fallback)
		if err != nil {
			return nil, err
		}
		return &Stores{
			Snapshots: store,
			Settings:  store,
			Users:     memory.NewUserRepository(users(admin)...),
			Location:  store.Path(),
			closers:   []func(){func() { _ = store.Close() }},
		}, nil

	case config.SnapshotDriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, err
		}
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		userRepo := postgres.NewUserRepository(pool)
		if admin != nil {
			err := userRepo.Create(ctx, admin)
			switch {
			case errors.Is(err, domain.ErrDuplicate):
				log.Debug().Str("email", admin.Email).Msg("administrador ya registrado")
			case err != nil:
				pool.Close()
				return nil, fmt.Errorf("registrar administrador: %w", err)
			}
		}
		tx := postgres.NewTxRunner(pool)
		return &Stores{
			Snapshots: postgres.NewSnapshotRepository(pool, tx),
			Settings:  postgres.NewSettingsRepository(pool, fallback),
			Users:     userRepo,
			Location:  cfg.DB.DBName,
			closers:   []func(){pool.Close},
		}, nil

	case config.SnapshotDriverS3:
		s3cfg := cfg.Snapshot.S3
		objects, err := objectstore.New(ctx, objectstore.Config{
			Bucket:    s3cfg.Bucket,
			Key:       s3cfg.Key,
			Region:    s3cfg.Region,
			Endpoint:  s3cfg.Endpoint,
			PathStyle: s3cfg.PathStyle,
		})
		if err != nil {
			return nil, err
		}
		return &Stores{
			Snapshots: objects,
			Settings:  memory.NewSettingsRepository(fallback),
			Users:     memory.NewUserRepository(users(admin)...),
			Location:  objects.Location(),
		}, nil

	default:
		files := filestore.NewSnapshotRepository(cfg.Snapshot.Path)
		return &Stores{
			Snapshots: files,
			Settings:  memory.NewSettingsRepository(fallback),
			Users:     memory.NewUserRepository(users(admin)...),
			Location:  files.Path(),
		}, nil
	}
}

func users(admin *entity.User) []*entity.User {
	if admin == nil {
		return nil
	}
	return []*entity.User{admin}
}
