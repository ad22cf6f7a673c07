package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-osv/internal/domain"
	"github.com/jhoicas/inventario-osv/internal/domain/osv"
	"github.com/jhoicas/inventario-osv/internal/domain/repository"
)

var _ repository.SnapshotRepository = (*SnapshotRepo)(nil)

var snapshotEntryColumns = []string{
	"storage_code", "nomenclature_code", "nomenclature_name",
	"unit_code", "unit_name", "incoming", "outgoing", "position",
}

// SnapshotRepo implementación sobre PostgreSQL. Lee con el pool y escribe
// dentro de una transacción del TxRunner.
type SnapshotRepo struct {
	q  Querier
	tx *TxRunner
}

// NewSnapshotRepository construye el adaptador.
func NewSnapshotRepository(q Querier, tx *TxRunner) *SnapshotRepo {
	return &SnapshotRepo{q: q, tx: tx}
}

// Load devuelve (nil, nil) si no hay snapshot guardado.
func (r *SnapshotRepo) Load(ctx context.Context) (*osv.Snapshot, error) {
	snap := &osv.Snapshot{Entries: []osv.SnapshotEntry{}}
	err := r.q.QueryRow(ctx, `SELECT cutoff, revision, computed_at FROM osv_snapshots WHERE id = 1`).
		Scan(&snap.Cutoff, &snap.Revision, &snap.ComputedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get snapshot: %w", err)
	}
	snap.Cutoff = osv.Day(snap.Cutoff)

	rows, err := r.q.Query(ctx, `
		SELECT storage_code, nomenclature_code, nomenclature_name, unit_code, unit_name, incoming, outgoing
		FROM osv_snapshot_entries ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("list snapshot entries: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var e osv.SnapshotEntry
		if err := rows.Scan(&e.StorageCode, &e.NomenclatureCode, &e.NomenclatureName, &e.UnitCode, &e.UnitName, &e.Incoming, &e.Outgoing); err != nil {
			return nil, fmt.Errorf("scan snapshot entry: %w", err)
		}
		snap.Entries = append(snap.Entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list snapshot entries: %w", err)
	}
	return snap, nil
}

// Save reemplaza el snapshot en una transacción (COPY de las entradas).
func (r *SnapshotRepo) Save(ctx context.Context, snap *osv.Snapshot) error {
	if snap == nil {
		return fmt.Errorf("save snapshot: %w", domain.ErrInvalidInput)
	}
	err := r.tx.Run(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM osv_snapshot_entries`); err != nil {
			return fmt.Errorf("delete snapshot entries: %w", err)
		}
		rows := make([][]any, 0, len(snap.Entries))
		for i, e := range snap.Entries {
			rows = append(rows, []any{e.StorageCode, e.NomenclatureCode, e.NomenclatureName, e.UnitCode, e.UnitName, e.Incoming, e.Outgoing, i})
		}
		if _, err := tx.CopyFrom(ctx, pgx.Identifier{"osv_snapshot_entries"}, snapshotEntryColumns, pgx.CopyFromRows(rows)); err != nil {
			return fmt.Errorf("copy snapshot entries: %w", err)
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO osv_snapshots (id, cutoff, revision, computed_at) VALUES (1, $1, $2, $3)
			ON CONFLICT (id) DO UPDATE SET cutoff = EXCLUDED.cutoff, revision = EXCLUDED.revision, computed_at = EXCLUDED.computed_at`,
			snap.Cutoff, snap.Revision, snap.ComputedAt.UTC().Truncate(time.Microsecond))
		if err != nil {
			return fmt.Errorf("upsert snapshot: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	return nil
}
