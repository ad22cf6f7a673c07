// Package osv calcula la oborotno-saldovaya vedomost' (OSV): saldo inicial,
// entradas, salidas y saldo final por artículo y unidad de medida, y el
// snapshot de periodo bloqueado que permite responder saldos sin recorrer
// todo el histórico.
package osv

import (
	"github.com/shopspring/decimal"
)

// LineKey identifica una línea del reporte. Storage solo se usa cuando el
// agregado se separa por almacén (snapshot); en reportes queda vacío.
type LineKey struct {
	Storage      string
	Nomenclature string
	Unit         string
}

// ReportLine línea de la OSV. EndBalance = StartBalance + Incoming - Outgoing
// después de Finalize.
type ReportLine struct {
	StorageCode      string          `json:"storage_code,omitempty"`
	NomenclatureCode string          `json:"nomenclature_code"`
	NomenclatureName string          `json:"nomenclature_name"`
	UnitCode         string          `json:"unit_code"`
	UnitName         string          `json:"unit_name"`
	StartBalance     decimal.Decimal `json:"start_balance"`
	Incoming         decimal.Decimal `json:"incoming"`
	Outgoing         decimal.Decimal `json:"outgoing"`
	EndBalance       decimal.Decimal `json:"end_balance"`
}

// Key devuelve la clave de la línea.
func (l ReportLine) Key() LineKey {
	return LineKey{Storage: l.StorageCode, Nomenclature: l.NomenclatureCode, Unit: l.UnitCode}
}

// Finalize recalcula el saldo final.
func (l *ReportLine) Finalize() {
	l.EndBalance = l.StartBalance.Add(l.Incoming).Sub(l.Outgoing)
}

// Net movimiento neto del periodo (entradas - salidas).
func (l ReportLine) Net() decimal.Decimal {
	return l.Incoming.Sub(l.Outgoing)
}

// Record representación plana para los renderizadores (json, csv, xml...).
func (l ReportLine) Record() map[string]any {
	r := map[string]any{
		"nomenclature_code": l.NomenclatureCode,
		"nomenclature_name": l.NomenclatureName,
		"unit_code":         l.UnitCode,
		"unit_name":         l.UnitName,
		"start_balance":     l.StartBalance.String(),
		"incoming":          l.Incoming.String(),
		"outgoing":          l.Outgoing.String(),
		"end_balance":       l.EndBalance.String(),
	}
	if l.StorageCode != "" {
		r["storage_code"] = l.StorageCode
	}
	return r
}

// Report conjunto de líneas únicas por clave, en orden de aparición.
type Report struct {
	lines map[LineKey]*ReportLine
	order []LineKey
}

// NewReport crea un reporte vacío.
func NewReport() *Report {
	return &Report{lines: make(map[LineKey]*ReportLine)}
}

// line devuelve la línea de key, creándola en cero si no existe.
func (r *Report) line(key LineKey, nomenclatureName, unitName string) *ReportLine {
	if l, ok := r.lines[key]; ok {
		return l
	}
	l := &ReportLine{
		StorageCode:      key.Storage,
		NomenclatureCode: key.Nomenclature,
		NomenclatureName: nomenclatureName,
		UnitCode:         key.Unit,
		UnitName:         unitName,
	}
	r.lines[key] = l
	r.order = append(r.order, key)
	return l
}

// Get busca una línea por clave.
func (r *Report) Get(key LineKey) (ReportLine, bool) {
	l, ok := r.lines[key]
	if !ok {
		return ReportLine{}, false
	}
	return *l, true
}

// Len número de líneas.
func (r *Report) Len() int { return len(r.order) }

// Finalize recalcula el saldo final de todas las líneas.
func (r *Report) Finalize() {
	for _, l := range r.lines {
		l.Finalize()
	}
}

// ApplyOpening usa el movimiento neto de opening como saldo inicial de las
// líneas de r, agregando las que solo existan en opening.
func (r *Report) ApplyOpening(opening *Report) {
	for _, key := range opening.order {
		src := opening.lines[key]
		dst := r.line(key, src.NomenclatureName, src.UnitName)
		dst.StartBalance = dst.StartBalance.Add(src.StartBalance).Add(src.Net())
	}
	r.Finalize()
}

// Lines copia las líneas en orden estable.
func (r *Report) Lines() []ReportLine {
	out := make([]ReportLine, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, *r.lines[key])
	}
	return out
}

// Field expone la línea al motor de filtros (ordenamiento de reportes).
// "nomenclature" y "unit" devuelven un registro {unique_code, name}.
func (l ReportLine) Field(name string) (any, bool) {
	switch name {
	case "storage_code":
		return l.StorageCode, true
	case "nomenclature_code":
		return l.NomenclatureCode, true
	case "nomenclature_name", "name":
		return l.NomenclatureName, true
	case "unit_code":
		return l.UnitCode, true
	case "unit_name":
		return l.UnitName, true
	case "nomenclature":
		return map[string]any{"unique_code": l.NomenclatureCode, "name": l.NomenclatureName}, true
	case "unit", "range":
		return map[string]any{"unique_code": l.UnitCode, "name": l.UnitName}, true
	case "start_balance":
		return l.StartBalance, true
	case "incoming":
		return l.Incoming, true
	case "outgoing":
		return l.Outgoing, true
	case "end_balance":
		return l.EndBalance, true
	}
	return nil, false
}
