package turnover

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-osv/internal/application/dto"
	"github.com/jhoicas/inventario-osv/internal/domain/osv"
	"github.com/jhoicas/inventario-osv/internal/domain/repository"
	"github.com/jhoicas/inventario-osv/pkg/logger"
)

// ReportUseCase genera la OSV de un periodo.
type ReportUseCase struct {
	dataset     repository.DatasetRepository
	blockPeriod *BlockPeriodUseCase
	recorder    Recorder
	log         *logger.Logger
	now         func() time.Time
}

// NewReportUseCase construye el caso de uso. blockPeriod se usa para el saldo
// inicial (opening_balance); puede ser nil y entonces se agrega todo el histórico.
func NewReportUseCase(dataset repository.DatasetRepository, blockPeriod *BlockPeriodUseCase, recorder Recorder, log *logger.Logger) *ReportUseCase {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &ReportUseCase{dataset: dataset, blockPeriod: blockPeriod, recorder: recorder, log: log, now: time.Now}
}

// GenerateOSV entradas, salidas y saldo por nomenclatura y unidad entre
// date_start y date_end (ambos incluidos). Las nomenclaturas admitidas sin
// movimiento aparecen en cero.
func (uc *ReportUseCase) GenerateOSV(ctx context.Context, in dto.OSVRequest) (lines []osv.ReportLine, err error) {
	started := uc.now()
	defer func() { uc.recorder.ObserveReport(reportOSV, uc.now().Sub(started), len(lines), err) }()

	start, end, err := parseWindow(in.DateStart, in.DateEnd)
	if err != nil {
		return nil, err
	}
	sc, err := resolveScope(uc.dataset, in.StorageID, in.Filter)
	if err != nil {
		return nil, err
	}

	report := osv.Aggregate(osv.AggregateInput{
		Transactions:  sc.admission.TransactionsFrom(uc.dataset.Transactions()),
		Nomenclatures: uc.dataset.Nomenclatures(),
		Start:         start,
		End:           end,
		StorageID:     sc.storageID,
		Admissible:    sc.admission.NomenclatureIDs,
		Seed:          true,
	})

	if in.OpeningBalance {
		report.ApplyOpening(uc.opening(start, sc))
	}

	uc.log.Debug().
		Str("date_start", in.DateStart).
		Str("date_end", in.DateEnd).
		Str("storage_id", in.StorageID).
		Str("resolved_kind", sc.admission.Kind.String()).
		Int("lines", report.Len()).
		Msg("OSV generada")
	return sortLines(report.Lines(), sc.filter), nil
}

// opening saldo acumulado hasta el día anterior a start.
func (uc *ReportUseCase) opening(start time.Time, sc scope) *osv.Report {
	dayBefore := osv.Day(start).AddDate(0, 0, -1)
	if uc.blockPeriod != nil {
		return uc.blockPeriod.balance(uc.blockPeriod.Snapshot(), dayBefore, sc)
	}
	return osv.Aggregate(osv.AggregateInput{
		Transactions: sc.admission.TransactionsFrom(uc.dataset.Transactions()),
		End:          dayBefore,
		StorageID:    sc.storageID,
		Admissible:   sc.admission.NomenclatureIDs,
	})
}
