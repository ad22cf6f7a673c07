package osv

import (
	"strings"

	"github.com/jhoicas/inventario-osv/internal/domain"
	"github.com/jhoicas/inventario-osv/internal/domain/entity"
	"github.com/jhoicas/inventario-osv/internal/domain/filter"
)

// reportLeafFields campos finales permitidos en filtros de reportes.
var reportLeafFields = map[string]struct{}{
	entity.FieldName:       {},
	entity.FieldUniqueCode: {},
}

// ValidateReportFilter exige que cada ruta termine en un campo de identidad.
// Los reportes son más estrictos que el motor genérico de filtros.
func ValidateReportFilter(fs *filter.FilterSet) error {
	if fs == nil {
		return nil
	}
	for _, f := range fs.Filters {
		leaf := f.Path
		if i := strings.LastIndex(leaf, "."); i >= 0 {
			leaf = leaf[i+1:]
		}
		if _, ok := reportLeafFields[leaf]; !ok {
			return domain.NewValidationError(f.Path, leaf, "solo se puede filtrar por name o unique_code")
		}
	}
	return nil
}
