// Package pdf genera la representación imprimible de la OSV (hoja de
// entradas, salidas y saldos) con Maroto v2.
//
// Layout de la página A4 horizontal:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + almacén     │  Periodo + fecha de emisión  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Código | Artículo | Unidad | Inicial | Entradas |    │
//	│         Salidas | Final                                      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES por unidad                                          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: corte de periodo bloqueado + revisión del snapshot  │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-osv/internal/domain/osv"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// OSVHeader datos de cabecera y pie del documento.
type OSVHeader struct {
	DateStart   string
	DateEnd     string
	StorageName string // "" = todos los almacenes
	Cutoff      string // corte del snapshot usado para el saldo inicial, si aplica
	Revision    string
	GeneratedAt time.Time
}

// ── Generator ─────────────────────────────────────────────────────────────────

// OSVPDFGenerator genera la OSV en PDF.
type OSVPDFGenerator struct {
	author string
}

// NewOSVPDFGenerator construye el generador; author va en los metadatos del PDF.
func NewOSVPDFGenerator(author string) *OSVPDFGenerator { return &OSVPDFGenerator{author: author} }

// GenerateOSVPDF genera el PDF y devuelve sus bytes.
func (g *OSVPDFGenerator) GenerateOSVPDF(_ context.Context, header OSVHeader, lines []osv.ReportLine) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithOrientation(orientation.Horizontal).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 8}).
		WithTitle("Oborotno-saldovaya vedomost (OSV)", true).
		WithAuthor(g.author, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(header))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableRows(lines)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRows(lines)...)

	m.AddRows(line.NewRow(3))
	m.AddRows(footerRow(header, len(lines)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(h OSVHeader) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New("HOJA DE ENTRADAS, SALIDAS Y SALDOS", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Almacén: "+nonEmpty(h.StorageName, "todos"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(fmt.Sprintf("Periodo: %s a %s", h.DateStart, h.DateEnd), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 2,
			}),
			text.New("Emitido: "+h.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 10, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Código", 2, align.Left),
		h("Artículo", 3, align.Left),
		h("Unidad", 1, align.Center),
		h("Inicial", 1, align.Right),
		h("Entradas", 2, align.Right),
		h("Salidas", 2, align.Right),
		h("Final", 1, align.Right),
	)
}

// tableRows una fila por línea del reporte.
func tableRows(lines []osv.ReportLine) []core.Row {
	result := make([]core.Row, 0, len(lines))
	cell := func(s string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(s, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
	}
	for _, l := range lines {
		result = append(result, row.New(6).Add(
			cell(l.NomenclatureCode, 2, align.Left),
			cell(l.NomenclatureName, 3, align.Left),
			cell(l.UnitName, 1, align.Center),
			cell(FormatQuantity(l.StartBalance), 1, align.Right),
			cell(FormatQuantity(l.Incoming), 2, align.Right),
			cell(FormatQuantity(l.Outgoing), 2, align.Right),
			cell(FormatQuantity(l.EndBalance), 1, align.Right),
		))
	}
	return result
}

// totalsRows suma por unidad: cantidades de unidades distintas no se mezclan.
func totalsRows(lines []osv.ReportLine) []core.Row {
	type total struct {
		unit                            string
		start, incoming, outgoing, end decimal.Decimal
	}
	var order []string
	totals := make(map[string]*total)
	for _, l := range lines {
		t, ok := totals[l.UnitCode]
		if !ok {
			t = &total{unit: nonEmpty(l.UnitName, "sin unidad")}
			totals[l.UnitCode] = t
			order = append(order, l.UnitCode)
		}
		t.start = t.start.Add(l.StartBalance)
		t.incoming = t.incoming.Add(l.Incoming)
		t.outgoing = t.outgoing.Add(l.Outgoing)
		t.end = t.end.Add(l.EndBalance)
	}

	bold := func(s string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 1, Right: 1,
		}))
	}
	rows := make([]core.Row, 0, len(order))
	for _, code := range order {
		t := totals[code]
		rows = append(rows, row.New(6).Add(
			bold("TOTAL", 5, align.Right),
			bold(t.unit, 1, align.Center),
			bold(FormatQuantity(t.start), 1, align.Right),
			bold(FormatQuantity(t.incoming), 2, align.Right),
			bold(FormatQuantity(t.outgoing), 2, align.Right),
			bold(FormatQuantity(t.end), 1, align.Right),
		))
	}
	return rows
}

func footerRow(h OSVHeader, count int) core.Row {
	note := fmt.Sprintf("%d líneas.", count)
	if h.Cutoff != "" {
		note += fmt.Sprintf(" Saldo inicial calculado con el periodo bloqueado al %s (revisión %s).",
			h.Cutoff, nonEmpty(h.Revision, "—"))
	}
	return row.New(8).Add(col.New(12).Add(
		text.New(note, props.Text{Size: 6.5, Color: colorGray, Top: 2}),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// FormatQuantity cantidad con puntos de miles y coma decimal, sin ceros
// sobrantes. Ej: 1234567.5 → "1.234.567,5", -2500 → "-2.500".
func FormatQuantity(d decimal.Decimal) string {
	s := d.Abs().StringFixed(3)
	intPart, frac, _ := strings.Cut(s, ".")
	frac = strings.TrimRight(frac, "0")

	out := groupThousands(intPart)
	if frac != "" {
		out += "," + frac
	}
	if d.IsNegative() && out != "0" {
		out = "-" + out
	}
	return out
}

// groupThousands inserta puntos de miles en un string numérico sin decimales.
// Ej: "25000" → "25.000", "1000000" → "1.000.000"
func groupThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf)
}
