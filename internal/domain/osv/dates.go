package osv

import (
	"strings"
	"time"

	"github.com/jhoicas/inventario-osv/internal/domain"
)

// DateLayout formato de las fechas de los parámetros (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// ParseDate interpreta value como fecha de calendario en UTC.
// field nombra el parámetro en el ValidationError.
func ParseDate(field, value string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(value), time.UTC)
	if err != nil {
		return time.Time{}, domain.NewValidationError(field, value, "formato de fecha esperado YYYY-MM-DD")
	}
	return t, nil
}

// Day trunca t al día de calendario (en su propia zona, expresado en UTC).
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NextDay primer día posterior a t.
func NextDay(t time.Time) time.Time {
	return Day(t).AddDate(0, 0, 1)
}
