package filter

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-osv/internal/domain/entity"
)

// SortBy ordena items de forma estable según las rutas de keys; la primera
// clave es la principal. Valores numéricos se comparan como números, el resto
// como texto normalizado. Un valor no resuelto ordena como cadena vacía.
func SortBy[T entity.FieldReader](items []T, keys []string) {
	if len(keys) == 0 || len(items) < 2 {
		return
	}
	sort.SliceStable(items, func(i, j int) bool {
		for _, k := range keys {
			c := compareValues(Resolve(items[i], k), Resolve(items[j], k))
			if c != 0 {
				return c < 0
			}
		}
		return false
	})
}

// Sort aplica el orden declarado en el FilterSet.
func (fs *FilterSet) Sort(items []entity.FieldReader) {
	if fs == nil {
		return
	}
	SortBy(items, fs.Sorting)
}

func compareValues(a, b any) int {
	sa, sb := sortKey(a), sortKey(b)
	da, errA := decimal.NewFromString(sa)
	db, errB := decimal.NewFromString(sb)
	if errA == nil && errB == nil {
		return da.Cmp(db)
	}
	switch {
	case sa < sb:
		return -1
	case sa > sb:
		return 1
	}
	return 0
}

func sortKey(v any) string {
	if seq, ok := asSequence(v); ok {
		if len(seq) == 0 {
			return ""
		}
		v = seq[0]
	}
	return normalize(v)
}
