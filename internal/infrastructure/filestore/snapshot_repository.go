// Package filestore persiste el snapshot de periodo bloqueado en un archivo JSON
// (saved_turnovers.json). Cada escritura va a un temporal en el mismo directorio
// y se renombra sobre el destino, así un lector nunca ve un archivo a medias.
package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jhoicas/inventario-osv/internal/domain"
	"github.com/jhoicas/inventario-osv/internal/domain/osv"
	"github.com/jhoicas/inventario-osv/internal/domain/repository"
)

var _ repository.SnapshotRepository = (*SnapshotRepository)(nil)

// SnapshotRepository implementación sobre un archivo JSON.
type SnapshotRepository struct {
	path string
}

// NewSnapshotRepository construye el adaptador para path.
func NewSnapshotRepository(path string) *SnapshotRepository {
	return &SnapshotRepository{path: path}
}

// Path ruta del archivo.
func (r *SnapshotRepository) Path() string { return r.path }

// snapshotFile formato en disco; el corte se guarda como fecha YYYY-MM-DD.
type snapshotFile struct {
	Cutoff     string              `json:"cutoff"`
	Revision   string              `json:"revision"`
	ComputedAt time.Time           `json:"computed_at"`
	Entries    []osv.SnapshotEntry `json:"entries"`
}

// Load devuelve (nil, nil) si el archivo no existe.
func (r *SnapshotRepository) Load(_ context.Context) (*osv.Snapshot, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("leer snapshot %s: %w", r.path, err)
	}
	snap, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", r.path, err)
	}
	return snap, nil
}

// Save reemplaza el archivo completo.
func (r *SnapshotRepository) Save(_ context.Context, snap *osv.Snapshot) error {
	data, err := Encode(snap)
	if err != nil {
		return err
	}
	if err := writeAtomic(r.path, data); err != nil {
		return fmt.Errorf("escribir snapshot %s: %w: %w", r.path, domain.ErrPersistence, err)
	}
	return nil
}

// Encode serializa el snapshot con el formato de saved_turnovers.json.
// Otros almacenes (objetos S3) guardan el mismo documento.
func Encode(snap *osv.Snapshot) ([]byte, error) {
	if snap == nil {
		return nil, fmt.Errorf("guardar snapshot: %w", domain.ErrInvalidInput)
	}
	data, err := json.MarshalIndent(snapshotFile{
		Cutoff:     snap.Cutoff.Format(osv.DateLayout),
		Revision:   snap.Revision,
		ComputedAt: snap.ComputedAt,
		Entries:    snap.Entries,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("codificar snapshot: %w", err)
	}
	return data, nil
}

// Decode inverso de Encode.
func Decode(data []byte) (*osv.Snapshot, error) {
	var f snapshotFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decodificar snapshot: %w", err)
	}
	cutoff, err := time.ParseInLocation(osv.DateLayout, f.Cutoff, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("corte inválido %q: %w", f.Cutoff, err)
	}
	entries := f.Entries
	if entries == nil {
		entries = []osv.SnapshotEntry{}
	}
	return &osv.Snapshot{Cutoff: cutoff, Revision: f.Revision, ComputedAt: f.ComputedAt, Entries: entries}, nil
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".tmp-snapshot-*")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
