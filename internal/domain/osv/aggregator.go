package osv

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-osv/internal/domain/entity"
)

// defaultUnitScale divisor cuando la transacción no tiene unidad o su escala es cero.
var defaultUnitScale = decimal.NewFromInt(1)

// AggregateInput parámetros de una agregación.
type AggregateInput struct {
	Transactions  []*entity.Transaction
	Nomenclatures []*entity.Nomenclature // fuente de líneas en cero cuando Seed

	// Ventana por día de calendario, ambos extremos incluidos.
	// Un extremo en cero no acota.
	Start time.Time
	End   time.Time

	StorageID  string              // "" = todos los almacenes
	Admissible map[string]struct{} // códigos de nomenclatura admitidos; nil = sin restricción

	Seed           bool // crear líneas en cero para nomenclaturas sin movimiento
	SplitByStorage bool // separar líneas por almacén
}

// Admits indica si la nomenclatura code pasa la restricción.
func (in AggregateInput) Admits(code string) bool {
	if in.Admissible == nil {
		return true
	}
	_, ok := in.Admissible[code]
	return ok
}

func (in AggregateInput) inWindow(t time.Time) bool {
	day := Day(t)
	if !in.Start.IsZero() && day.Before(Day(in.Start)) {
		return false
	}
	if !in.End.IsZero() && day.After(Day(in.End)) {
		return false
	}
	return true
}

// Aggregate acumula las transacciones de la ventana en líneas por
// (nomenclatura, unidad) y finaliza los saldos.
func Aggregate(in AggregateInput) *Report {
	report := NewReport()
	seen := make(map[string]struct{})

	for _, tr := range in.Transactions {
		if tr == nil || !in.inWindow(tr.Date) {
			continue
		}
		if in.StorageID != "" && tr.StorageCode() != in.StorageID {
			continue
		}
		code := tr.NomenclatureCode()
		if !in.Admits(code) {
			continue
		}

		key := LineKey{Nomenclature: code, Unit: tr.UnitCode()}
		if in.SplitByStorage {
			key.Storage = tr.StorageCode()
		}
		line := report.line(key, nomenclatureName(tr), unitName(tr))

		qty := Convert(tr)
		if qty.IsPositive() {
			line.Incoming = line.Incoming.Add(qty)
		} else {
			line.Outgoing = line.Outgoing.Add(qty.Abs())
		}
		seen[code] = struct{}{}
	}

	if in.Seed {
		for _, n := range in.Nomenclatures {
			if n == nil || !in.Admits(n.UniqueCode) {
				continue
			}
			if _, ok := seen[n.UniqueCode]; ok {
				continue
			}
			unit := ""
			if n.Unit != nil {
				unit = n.Unit.Name
			}
			report.line(LineKey{Storage: seedStorage(in), Nomenclature: n.UniqueCode, Unit: n.UnitCode()}, n.Name, unit)
		}
	}

	report.Finalize()
	return report
}

// Convert cantidad de la transacción normalizada por la escala de su unidad.
func Convert(tr *entity.Transaction) decimal.Decimal {
	scale := defaultUnitScale
	if tr.Unit != nil && !tr.Unit.Scale.IsZero() {
		scale = tr.Unit.Scale
	}
	return tr.Quantity.Div(scale)
}

func seedStorage(in AggregateInput) string {
	if in.SplitByStorage {
		return in.StorageID
	}
	return ""
}

func nomenclatureName(tr *entity.Transaction) string {
	if tr.Nomenclature == nil {
		return ""
	}
	return tr.Nomenclature.Name
}

func unitName(tr *entity.Transaction) string {
	if tr.Unit == nil {
		return ""
	}
	return tr.Unit.Name
}
