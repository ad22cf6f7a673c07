package osv

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SnapshotEntry acumulado de entradas y salidas desde el inicio hasta el corte,
// por almacén, nomenclatura y unidad.
type SnapshotEntry struct {
	StorageCode      string          `json:"storage_code"`
	NomenclatureCode string          `json:"nomenclature_code"`
	NomenclatureName string          `json:"nomenclature_name"`
	UnitCode         string          `json:"unit_code"`
	UnitName         string          `json:"unit_name"`
	Incoming         decimal.Decimal `json:"incoming"`
	Outgoing         decimal.Decimal `json:"outgoing"`
}

// Snapshot saldo acumulado hasta Cutoff (incluido).
type Snapshot struct {
	Cutoff     time.Time       `json:"cutoff"`
	Revision   string          `json:"revision"`
	ComputedAt time.Time       `json:"computed_at"`
	Entries    []SnapshotEntry `json:"entries"`
}

// EmptySnapshot snapshot sin corte: equivale a no tener histórico precalculado.
func EmptySnapshot() *Snapshot {
	return &Snapshot{Entries: []SnapshotEntry{}}
}

// IsEmpty indica que nunca se calculó (o no se pudo cargar).
func (s *Snapshot) IsEmpty() bool {
	return s == nil || s.Cutoff.IsZero()
}

// NewSnapshot construye un snapshot a partir de un agregado separado por almacén.
func NewSnapshot(cutoff time.Time, report *Report, now time.Time) *Snapshot {
	s := &Snapshot{
		Cutoff:     Day(cutoff),
		Revision:   uuid.NewString(),
		ComputedAt: now.UTC(),
		Entries:    make([]SnapshotEntry, 0, report.Len()),
	}
	for _, l := range report.Lines() {
		s.Entries = append(s.Entries, SnapshotEntry{
			StorageCode:      l.StorageCode,
			NomenclatureCode: l.NomenclatureCode,
			NomenclatureName: l.NomenclatureName,
			UnitCode:         l.UnitCode,
			UnitName:         l.UnitName,
			Incoming:         l.Incoming,
			Outgoing:         l.Outgoing,
		})
	}
	return s
}

// Merge combina las entradas del snapshot (filtradas por almacén y nomenclaturas
// admitidas) con delta, que debe cubrir solo días posteriores al corte.
// Devuelve un reporte nuevo sin dimensión de almacén; el snapshot no se modifica.
func (s *Snapshot) Merge(delta *Report, storageID string, admissible map[string]struct{}) *Report {
	out := NewReport()
	if s != nil {
		for _, e := range s.Entries {
			if storageID != "" && e.StorageCode != storageID {
				continue
			}
			if admissible != nil {
				if _, ok := admissible[e.NomenclatureCode]; !ok {
					continue
				}
			}
			l := out.line(LineKey{Nomenclature: e.NomenclatureCode, Unit: e.UnitCode}, e.NomenclatureName, e.UnitName)
			l.Incoming = l.Incoming.Add(e.Incoming)
			l.Outgoing = l.Outgoing.Add(e.Outgoing)
		}
	}
	if delta != nil {
		for _, d := range delta.Lines() {
			l := out.line(LineKey{Nomenclature: d.NomenclatureCode, Unit: d.UnitCode}, d.NomenclatureName, d.UnitName)
			l.Incoming = l.Incoming.Add(d.Incoming)
			l.Outgoing = l.Outgoing.Add(d.Outgoing)
		}
	}
	out.Finalize()
	return out
}
