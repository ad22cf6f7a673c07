package filter

import (
	"github.com/jhoicas/inventario-osv/internal/domain/entity"
)

// FilterSet conjunto de filtros con semántica AND, modelo objetivo opcional y
// orden de salida opcional. Un FilterSet sin filtros acepta todo.
type FilterSet struct {
	Target  entity.Kind // vacío: sin modelo declarado
	Filters []FieldFilter
	Sorting []string
}

// New construye un FilterSet para target (puede ser "").
func New(target entity.Kind, filters ...FieldFilter) *FilterSet {
	return &FilterSet{Target: target, Filters: filters}
}

// HasTarget indica si la petición declaró el modelo a filtrar.
func (fs *FilterSet) HasTarget() bool {
	return fs != nil && fs.Target != ""
}

// Empty es verdadero cuando no hay ningún filtro que aplicar.
func (fs *FilterSet) Empty() bool {
	return fs == nil || len(fs.Filters) == 0
}

// Match evalúa todos los filtros sobre item, cortando en el primer fallo.
func (fs *FilterSet) Match(item entity.FieldReader) bool {
	if fs == nil {
		return true
	}
	for _, f := range fs.Filters {
		if !Matches(Resolve(item, f.Path), f) {
			return false
		}
	}
	return true
}

// Apply devuelve la subsecuencia de items que cumple el conjunto, en el orden original.
func (fs *FilterSet) Apply(items []entity.FieldReader) []entity.FieldReader {
	return Select(fs, items)
}

// Select es la versión genérica de Apply para colecciones tipadas
// ([]*entity.Transaction, []*entity.Nomenclature...).
func Select[T entity.FieldReader](fs *FilterSet, items []T) []T {
	if len(items) == 0 {
		return []T{}
	}
	out := make([]T, 0, len(items))
	for _, it := range items {
		if fs.Match(it) {
			out = append(out, it)
		}
	}
	return out
}
