// Package render serializa registros planos (entidades o líneas de reporte)
// en los formatos de salida de la API: json, csv, markdown y xml.
package render

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/inventario-osv/internal/domain"
	"github.com/jhoicas/inventario-osv/internal/domain/entity"
)

// Format formato de salida.
type Format string

const (
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatXML      Format = "xml"
)

// Formats formatos soportados, en el orden que publica /api/accessibility.
var Formats = []Format{FormatJSON, FormatCSV, FormatMarkdown, FormatXML}

// ParseFormat valida el formato recibido en la ruta. "md" es alias de markdown.
func ParseFormat(raw string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "xml":
		return FormatXML, nil
	}
	return "", domain.NewValidationError("format", raw, "formato no soportado (json, csv, markdown, xml)")
}

// ContentType cabecera Content-Type de la respuesta.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	case FormatXML:
		return "application/xml; charset=utf-8"
	}
	return "application/json"
}

func (f Format) String() string { return string(f) }

// Recorder algo que se puede representar como registro plano.
type Recorder interface {
	Record() map[string]any
}

// Records convierte una colección en registros.
func Records[T Recorder](items []T) []map[string]any {
	out := make([]map[string]any, len(items))
	for i, it := range items {
		out[i] = it.Record()
	}
	return out
}

// Render serializa records en el formato f. Una colección vacía produce un
// documento vacío válido para el formato ("[]", "" o <items/>).
func Render(f Format, records []map[string]any) ([]byte, error) {
	switch f {
	case FormatJSON:
		if records == nil {
			records = []map[string]any{}
		}
		return json.Marshal(records)
	case FormatCSV:
		return renderCSV(records)
	case FormatMarkdown:
		return renderMarkdown(records), nil
	case FormatXML:
		return renderXML(records)
	}
	return nil, fmt.Errorf("render: formato %q: %w", f, domain.ErrInvalidInput)
}

// columns orden de columnas: unique_code y name primero, el resto alfabético.
func columns(rec map[string]any) []string {
	keys := make([]string, 0, len(rec))
	for k := range rec {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		ri, rj := rank(keys[i]), rank(keys[j])
		if ri != rj {
			return ri < rj
		}
		return keys[i] < keys[j]
	})
	return keys
}

func rank(key string) int {
	switch key {
	case entity.FieldUniqueCode:
		return 0
	case entity.FieldName:
		return 1
	}
	return 2
}

// cell texto de un valor en formatos tabulares. Las referencias y listas se
// aplanan uniendo sus valores con sep.
func cell(v any, sep string) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case time.Time:
		return x.Format(entity.DateTimeLayout)
	case fmt.Stringer:
		return x.String()
	case map[string]any:
		parts := make([]string, 0, len(x))
		for _, k := range columns(x) {
			parts = append(parts, cell(x[k], sep))
		}
		return strings.Join(parts, sep)
	case []any:
		parts := make([]string, 0, len(x))
		for _, it := range x {
			parts = append(parts, cell(it, sep))
		}
		return strings.Join(parts, sep)
	case []string:
		return strings.Join(x, sep)
	}
	return fmt.Sprint(v)
}
