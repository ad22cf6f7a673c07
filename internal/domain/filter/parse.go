package filter

import (
	"fmt"
	"strings"

	"github.com/jhoicas/inventario-osv/internal/domain"
	"github.com/jhoicas/inventario-osv/internal/domain/entity"
)

// Parse construye un FilterSet a partir del registro crudo de la petición:
//
//	{"model": "nomenclature", "filters": [{"field_name": "group.name", "value": "x", "type": "LIKE"}], "sorting": ["name"]}
//
// También acepta la forma anidada {"filters": {"model": ..., "filters": [...]}, "sorting": [...]}.
// Cualquier error es un *domain.ValidationError.
func Parse(raw map[string]any) (*FilterSet, error) {
	fs := &FilterSet{}
	if raw == nil {
		return fs, nil
	}

	if inner, ok := raw["filters"].(map[string]any); ok {
		nested, err := Parse(inner)
		if err != nil {
			return nil, err
		}
		sorting, err := parseSorting(raw["sorting"])
		if err != nil {
			return nil, err
		}
		if len(sorting) > 0 {
			nested.Sorting = sorting
		}
		return nested, nil
	}

	if m, present := raw["model"]; present && m != nil {
		s, ok := m.(string)
		if !ok {
			return nil, domain.NewValidationError("model", fmt.Sprint(m), "debe ser texto")
		}
		if strings.TrimSpace(s) != "" {
			kind, ok := entity.ParseKind(s)
			if !ok {
				return nil, domain.NewValidationError("model", s, "modelo desconocido")
			}
			fs.Target = kind
		}
	}

	filters, err := parseFilters(raw["filters"])
	if err != nil {
		return nil, err
	}
	fs.Filters = filters

	sorting, err := parseSorting(raw["sorting"])
	if err != nil {
		return nil, err
	}
	fs.Sorting = sorting
	return fs, nil
}

func parseFilters(v any) ([]FieldFilter, error) {
	if v == nil {
		return nil, nil
	}
	list, ok := v.([]any)
	if !ok {
		return nil, domain.NewValidationError("filters", fmt.Sprintf("%T", v), "debe ser una lista")
	}
	out := make([]FieldFilter, 0, len(list))
	for i, item := range list {
		rec, ok := item.(map[string]any)
		if !ok {
			return nil, domain.NewValidationError(fmt.Sprintf("filters[%d]", i), fmt.Sprintf("%T", item), "debe ser un objeto")
		}

		path, _ := rec["field_name"].(string)
		path = strings.TrimSpace(path)
		if path == "" {
			return nil, domain.NewValidationError(fmt.Sprintf("filters[%d].field_name", i), "", "es obligatorio")
		}

		rawType, present := rec["type"]
		if !present || rawType == nil {
			return nil, domain.NewValidationError(fmt.Sprintf("filters[%d].type", i), "", "es obligatorio (EQUALS o LIKE)")
		}
		typeStr, _ := rawType.(string)
		kind, ok := ParseComparison(typeStr)
		if !ok {
			return nil, domain.NewValidationError(fmt.Sprintf("filters[%d].type", i), fmt.Sprint(rawType), "tipo de filtro desconocido")
		}

		out = append(out, FieldFilter{Path: path, Kind: kind, Expected: rec["value"]})
	}
	return out, nil
}

func parseSorting(v any) ([]string, error) {
	if v == nil {
		return nil, nil
	}
	list, ok := v.([]any)
	if !ok {
		if strs, ok := v.([]string); ok {
			return strs, nil
		}
		return nil, domain.NewValidationError("sorting", fmt.Sprintf("%T", v), "debe ser una lista de rutas")
	}
	out := make([]string, 0, len(list))
	for i, item := range list {
		s, ok := item.(string)
		if !ok || strings.TrimSpace(s) == "" {
			return nil, domain.NewValidationError(fmt.Sprintf("sorting[%d]", i), fmt.Sprint(item), "ruta inválida")
		}
		out = append(out, strings.TrimSpace(s))
	}
	return out, nil
}
