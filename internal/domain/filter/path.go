// Package filter implementa el motor genérico de filtros: resolución de rutas con
// puntos ("group.name", "composition.nomenclature.name") sobre cualquier entidad,
// evaluación de predicados EQUALS/LIKE y conjuntos de filtros con semántica AND.
package filter

import (
	"strings"

	"github.com/jhoicas/inventario-osv/internal/domain/entity"
)

// Resolve resuelve path sobre una entidad, un mapa o una colección.
//
// Devuelve un escalar, nil, o una lista aplanada cuando la ruta atraviesa
// colecciones. Un atributo o clave inexistente resuelve a nil, nunca a error.
func Resolve(node any, path string) any {
	if node == nil || path == "" {
		return node
	}
	head, tail, hasTail := strings.Cut(path, ".")

	var val any
	switch n := node.(type) {
	case map[string]any:
		val = n[head]
	case entity.FieldReader:
		val, _ = n.Field(head)
	default:
		if seq, ok := asSequence(node); ok {
			return resolveEach(seq, path)
		}
		return nil
	}

	if !hasTail {
		return val
	}
	if seq, ok := asSequence(val); ok {
		return resolveEach(seq, tail)
	}
	return Resolve(val, tail)
}

// resolveEach aplica path a cada elemento y junta los resultados no nulos.
// Devuelve nil (no una lista vacía) si ningún elemento resuelve.
func resolveEach(seq []any, path string) any {
	var out []any
	for _, item := range seq {
		r := Resolve(item, path)
		if r == nil {
			continue
		}
		if nested, ok := r.([]any); ok {
			out = append(out, nested...)
			continue
		}
		out = append(out, r)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// asSequence reconoce las colecciones que pueden aparecer en el grafo de entidades.
func asSequence(v any) ([]any, bool) {
	switch s := v.(type) {
	case []any:
		return s, true
	case []entity.FieldReader:
		out := make([]any, len(s))
		for i, it := range s {
			out[i] = it
		}
		return out, true
	case []entity.Entity:
		out := make([]any, len(s))
		for i, it := range s {
			out[i] = it
		}
		return out, true
	case []map[string]any:
		out := make([]any, len(s))
		for i, it := range s {
			out[i] = it
		}
		return out, true
	case []string:
		out := make([]any, len(s))
		for i, it := range s {
			out[i] = it
		}
		return out, true
	}
	return nil, false
}
