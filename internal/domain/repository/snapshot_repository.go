package repository

import (
	"context"

	"github.com/jhoicas/inventario-osv/internal/domain/osv"
)

// SnapshotRepository persistencia del snapshot de periodo bloqueado.
// Save reemplaza el snapshot completo o no cambia nada.
// Load devuelve (nil, nil) si nunca se guardó uno.
type SnapshotRepository interface {
	Load(ctx context.Context) (*osv.Snapshot, error)
	Save(ctx context.Context, snap *osv.Snapshot) error
}
