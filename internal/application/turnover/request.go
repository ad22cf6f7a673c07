package turnover

import (
	"time"

	"github.com/jhoicas/inventario-osv/internal/domain"
	"github.com/jhoicas/inventario-osv/internal/domain/filter"
	"github.com/jhoicas/inventario-osv/internal/domain/osv"
	"github.com/jhoicas/inventario-osv/internal/domain/repository"
)

// scope restricciones comunes de OSV y saldos ya validadas.
type scope struct {
	storageID string
	filter    *filter.FilterSet
	admission osv.Admission
}

// resolveScope valida el filtro y resuelve las nomenclaturas admitidas.
// Un storage_id que no existe no es error: simplemente no coincide con
// ninguna transacción y el reporte sale con líneas en cero.
func resolveScope(ds repository.DatasetRepository, storageID string, raw map[string]any) (scope, error) {
	fs, err := filter.Parse(raw)
	if err != nil {
		return scope{}, err
	}
	if err := osv.ValidateReportFilter(fs); err != nil {
		return scope{}, err
	}
	return scope{storageID: storageID, filter: fs, admission: osv.ResolveAdmission(fs, ds)}, nil
}

// parseWindow interpreta date_start y date_end y exige start <= end.
func parseWindow(rawStart, rawEnd string) (time.Time, time.Time, error) {
	start, err := osv.ParseDate("date_start", rawStart)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := osv.ParseDate("date_end", rawEnd)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, domain.NewValidationError("date_end", rawEnd, "anterior a date_start")
	}
	return start, end, nil
}

// sortLines aplica el "sorting" del filtro a las líneas.
func sortLines(lines []osv.ReportLine, fs *filter.FilterSet) []osv.ReportLine {
	if fs != nil {
		filter.SortBy(lines, fs.Sorting)
	}
	return lines
}
