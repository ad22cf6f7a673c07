package turnover

import "time"

// Recorder recibe las mediciones de reportes y recálculos (Prometheus en producción).
type Recorder interface {
	ObserveReport(report string, duration time.Duration, lines int, err error)
	ObserveRecompute(duration time.Duration, entries int, err error)
}

type nopRecorder struct{}

func (nopRecorder) ObserveReport(string, time.Duration, int, error) {}
func (nopRecorder) ObserveRecompute(time.Duration, int, error)      {}

// Nombres de reporte usados como etiqueta de métricas.
const (
	reportOSV     = "osv"
	reportBalance = "balance"
)
