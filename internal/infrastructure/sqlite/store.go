// Package sqlite persiste el snapshot de periodo bloqueado y la fecha de bloqueo
// en un archivo SQLite (driver modernc, sin cgo).
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // driver sqlite en Go puro

	"github.com/jhoicas/inventario-osv/internal/domain"
	"github.com/jhoicas/inventario-osv/internal/domain/osv"
	"github.com/jhoicas/inventario-osv/internal/domain/repository"
)

var (
	_ repository.SnapshotRepository = (*Store)(nil)
	_ repository.SettingsRepository = (*Store)(nil)
)

var schema = []string{`
CREATE TABLE IF NOT EXISTS snapshot_meta (
	id          INTEGER PRIMARY KEY CHECK (id = 1),
	cutoff      TEXT NOT NULL,
	revision    TEXT NOT NULL,
	computed_at TEXT NOT NULL
)`, `
CREATE TABLE IF NOT EXISTS snapshot_entries (
	storage_code      TEXT NOT NULL,
	nomenclature_code TEXT NOT NULL,
	nomenclature_name TEXT NOT NULL,
	unit_code         TEXT NOT NULL,
	unit_name         TEXT NOT NULL,
	incoming          TEXT NOT NULL,
	outgoing          TEXT NOT NULL,
	PRIMARY KEY (storage_code, nomenclature_code, unit_code)
)`, `
CREATE TABLE IF NOT EXISTS settings (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
)`}

const settingBlockPeriod = "block_period"

// Store snapshot y ajustes sobre una base SQLite.
type Store struct {
	db       *sql.DB
	path     string
	fallback time.Time // fecha de bloqueo si la tabla settings está vacía
}

// Open abre (o crea) la base en path y aplica el esquema.
func Open(path string, defaultBlockPeriod time.Time) (*Store, error) {
	if path == "" {
		path = "inventario_osv.db"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("crear directorios: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("abrir sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("crear esquema: %w", err)
		}
	}
	return &Store{db: db, path: path, fallback: defaultBlockPeriod}, nil
}

// Close cierra la base.
func (s *Store) Close() error { return s.db.Close() }

// Path ruta del archivo.
func (s *Store) Path() string { return s.path }

// Load devuelve (nil, nil) si nunca se guardó un snapshot.
func (s *Store) Load(ctx context.Context) (*osv.Snapshot, error) {
	var cutoff, revision, computedAt string
	err := s.db.QueryRowContext(ctx, `SELECT cutoff, revision, computed_at FROM snapshot_meta WHERE id = 1`).
		Scan(&cutoff, &revision, &computedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("leer snapshot_meta: %w", err)
	}

	snap := &osv.Snapshot{Revision: revision, Entries: []osv.SnapshotEntry{}}
	if snap.Cutoff, err = time.ParseInLocation(osv.DateLayout, cutoff, time.UTC); err != nil {
		return nil, fmt.Errorf("corte inválido %q: %w", cutoff, err)
	}
	if snap.ComputedAt, err = time.Parse(time.RFC3339Nano, computedAt); err != nil {
		return nil, fmt.Errorf("computed_at inválido %q: %w", computedAt, err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT storage_code, nomenclature_code, nomenclature_name, unit_code, unit_name, incoming, outgoing
		FROM snapshot_entries ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("leer snapshot_entries: %w", err)
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var e osv.SnapshotEntry
		if err := rows.Scan(&e.StorageCode, &e.NomenclatureCode, &e.NomenclatureName, &e.UnitCode, &e.UnitName, &e.Incoming, &e.Outgoing); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		snap.Entries = append(snap.Entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("leer snapshot_entries: %w", err)
	}
	return snap, nil
}

// Save reemplaza el snapshot dentro de una única transacción.
func (s *Store) Save(ctx context.Context, snap *osv.Snapshot) (retErr error) {
	if snap == nil {
		return fmt.Errorf("guardar snapshot: %w", domain.ErrInvalidInput)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w: %w", domain.ErrPersistence, err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM snapshot_entries`); err != nil {
		return fmt.Errorf("limpiar snapshot_entries: %w: %w", domain.ErrPersistence, err)
	}
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO snapshot_entries (storage_code, nomenclature_code, nomenclature_name, unit_code, unit_name, incoming, outgoing)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparar insert: %w: %w", domain.ErrPersistence, err)
	}
	defer func() { _ = stmt.Close() }()
	for _, e := range snap.Entries {
		if _, err := stmt.ExecContext(ctx, e.StorageCode, e.NomenclatureCode, e.NomenclatureName, e.UnitCode, e.UnitName, e.Incoming, e.Outgoing); err != nil {
			return fmt.Errorf("insertar entrada %s/%s: %w: %w", e.NomenclatureCode, e.UnitCode, domain.ErrPersistence, err)
		}
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO snapshot_meta (id, cutoff, revision, computed_at) VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET cutoff = excluded.cutoff, revision = excluded.revision, computed_at = excluded.computed_at`,
		snap.Cutoff.Format(osv.DateLayout), snap.Revision, snap.ComputedAt.UTC().Format(time.RFC3339Nano)); err != nil {
		return fmt.Errorf("guardar snapshot_meta: %w: %w", domain.ErrPersistence, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w: %w", domain.ErrPersistence, err)
	}
	return nil
}

// BlockPeriod lee la fecha de bloqueo o devuelve la de configuración.
func (s *Store) BlockPeriod(ctx context.Context) (time.Time, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, settingBlockPeriod).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return s.fallback, nil
		}
		return time.Time{}, fmt.Errorf("leer settings: %w", err)
	}
	return time.ParseInLocation(osv.DateLayout, value, time.UTC)
}

// SetBlockPeriod guarda la fecha de bloqueo.
func (s *Store) SetBlockPeriod(ctx context.Context, cutoff time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		settingBlockPeriod, cutoff.Format(osv.DateLayout))
	if err != nil {
		return fmt.Errorf("guardar settings: %w: %w", domain.ErrPersistence, err)
	}
	return nil
}
