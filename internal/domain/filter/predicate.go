package filter

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"github.com/jhoicas/inventario-osv/internal/domain/entity"
)

// Comparison tipo de comparación de un filtro de campo.
type Comparison string

const (
	Equals Comparison = "EQUALS" // igualdad exacta
	Like   Comparison = "LIKE"   // el valor esperado es subcadena del candidato
)

// defaultComparison se usa cuando un FieldFilter llega con un tipo desconocido.
// Parse nunca produce ese caso; solo filtros construidos a mano.
const defaultComparison = Equals

// ParseComparison normaliza un token ("like", " EQUALS ").
func ParseComparison(s string) (Comparison, bool) {
	switch Comparison(strings.ToUpper(strings.TrimSpace(s))) {
	case Equals:
		return Equals, true
	case Like:
		return Like, true
	}
	return "", false
}

// FieldFilter predicado sobre una ruta de campo.
type FieldFilter struct {
	Path     string
	Kind     Comparison
	Expected any
}

// Matches decide si candidate (resultado de Resolve) cumple el filtro.
// Una lista cumple si algún elemento cumple; nil nunca cumple.
func Matches(candidate any, f FieldFilter) bool {
	if candidate == nil {
		return false
	}
	if seq, ok := asSequence(candidate); ok {
		for _, c := range seq {
			if Matches(c, f) {
				return true
			}
		}
		return false
	}

	kind := f.Kind
	if kind != Equals && kind != Like {
		kind = defaultComparison
	}

	cand := normalize(candidate)
	want := normalize(f.Expected)
	if kind == Like {
		return strings.Contains(cand, want)
	}
	return cand == want
}

// normalize convierte un escalar en texto recortado y sin distinción de mayúsculas.
func normalize(v any) string {
	return cases.Fold().String(strings.TrimSpace(stringify(v)))
}

func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case time.Time:
		return x.Format(entity.DateTimeLayout)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}
