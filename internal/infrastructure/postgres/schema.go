package postgres

import (
	"context"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS osv_snapshots (
		id          SMALLINT PRIMARY KEY CHECK (id = 1),
		cutoff      DATE NOT NULL,
		revision    TEXT NOT NULL,
		computed_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS osv_snapshot_entries (
		storage_code      TEXT NOT NULL,
		nomenclature_code TEXT NOT NULL,
		nomenclature_name TEXT NOT NULL,
		unit_code         TEXT NOT NULL,
		unit_name         TEXT NOT NULL,
		incoming          NUMERIC NOT NULL,
		outgoing          NUMERIC NOT NULL,
		position          INTEGER NOT NULL,
		PRIMARY KEY (storage_code, nomenclature_code, unit_code)
	)`,
	`CREATE TABLE IF NOT EXISTS app_users (
		id            TEXT PRIMARY KEY,
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		name          TEXT NOT NULL,
		role          TEXT NOT NULL,
		status        TEXT NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS app_settings (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`,
}

// EnsureSchema crea las tablas del snapshot, usuarios y ajustes si no existen.
func EnsureSchema(ctx context.Context, q Querier) error {
	for _, stmt := range schema {
		if _, err := q.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("crear esquema: %w", err)
		}
	}
	return nil
}
