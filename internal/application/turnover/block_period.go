package turnover

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jhoicas/inventario-osv/internal/application/dto"
	"github.com/jhoicas/inventario-osv/internal/domain"
	"github.com/jhoicas/inventario-osv/internal/domain/osv"
	"github.com/jhoicas/inventario-osv/internal/domain/repository"
	"github.com/jhoicas/inventario-osv/pkg/logger"
)

// BlockPeriodUseCase mantiene el snapshot de periodo bloqueado: lo carga al
// inicio, lo recalcula cuando cambia la fecha de bloqueo y responde saldos
// combinándolo con los movimientos posteriores al corte.
type BlockPeriodUseCase struct {
	dataset   repository.DatasetRepository
	settings  repository.SettingsRepository
	snapshots repository.SnapshotRepository
	recorder  Recorder
	log       *logger.Logger
	now       func() time.Time

	mu   sync.RWMutex // protege snap
	snap *osv.Snapshot

	recomputeMu sync.Mutex // serializa Recompute
}

// NewBlockPeriodUseCase construye el caso de uso con un snapshot vacío; llamar Load al iniciar.
func NewBlockPeriodUseCase(
	dataset repository.DatasetRepository,
	settings repository.SettingsRepository,
	snapshots repository.SnapshotRepository,
	recorder Recorder,
	log *logger.Logger,
) *BlockPeriodUseCase {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &BlockPeriodUseCase{
		dataset:   dataset,
		settings:  settings,
		snapshots: snapshots,
		recorder:  recorder,
		log:       log,
		now:       time.Now,
		snap:      osv.EmptySnapshot(),
	}
}

// Load lee el snapshot persistido. Un archivo ausente o corrupto deja el
// snapshot vacío (los saldos se calculan completos) y solo se registra.
func (uc *BlockPeriodUseCase) Load(ctx context.Context) {
	snap, err := uc.snapshots.Load(ctx)
	switch {
	case err != nil:
		uc.log.Warn().Err(err).Msg("no se pudo leer el snapshot de periodo bloqueado; se usa uno vacío")
		snap = osv.EmptySnapshot()
	case snap == nil:
		uc.log.Info().Msg("no hay snapshot de periodo bloqueado guardado")
		snap = osv.EmptySnapshot()
	default:
		uc.log.Info().
			Str("cutoff", snap.Cutoff.Format(osv.DateLayout)).
			Str("revision", snap.Revision).
			Int("entries", len(snap.Entries)).
			Msg("snapshot de periodo bloqueado cargado")
	}
	uc.setSnapshot(snap)
	uc.warnIfStale(ctx, snap)
}

// RecomputeBlockPeriod valida la fecha (YYYY-MM-DD) y recalcula.
func (uc *BlockPeriodUseCase) RecomputeBlockPeriod(ctx context.Context, rawCutoff string) error {
	cutoff, err := osv.ParseDate("date", rawCutoff)
	if err != nil {
		return err
	}
	return uc.Recompute(ctx, cutoff)
}

// Recompute agrega todo el histórico hasta cutoff (incluido), lo persiste y
// solo entonces lo publica. Si la escritura falla el snapshot anterior sigue
// vigente y el error envuelve domain.ErrPersistence. Si lo que falla es la
// fecha de bloqueo, el snapshot guardado ya está publicado.
func (uc *BlockPeriodUseCase) Recompute(ctx context.Context, cutoff time.Time) (err error) {
	uc.recomputeMu.Lock()
	defer uc.recomputeMu.Unlock()

	started := uc.now()
	entries := 0
	defer func() { uc.recorder.ObserveRecompute(uc.now().Sub(started), entries, err) }()

	report := osv.Aggregate(osv.AggregateInput{
		Transactions:   uc.dataset.Transactions(),
		End:            cutoff,
		SplitByStorage: true,
	})
	snap := osv.NewSnapshot(cutoff, report, uc.now())
	entries = len(snap.Entries)

	if err := uc.snapshots.Save(ctx, snap); err != nil {
		uc.log.Error().Err(err).Str("cutoff", snap.Cutoff.Format(osv.DateLayout)).Msg("no se pudo guardar el snapshot")
		if !errors.Is(err, domain.ErrPersistence) {
			err = fmt.Errorf("%w: %w", domain.ErrPersistence, err)
		}
		return fmt.Errorf("recalcular periodo bloqueado: %w", err)
	}
	// El snapshot ya es el durable: se publica aunque falle la fecha, que queda
	// desfasada y Status la reporta como stale.
	uc.setSnapshot(snap)
	if err := uc.settings.SetBlockPeriod(ctx, snap.Cutoff); err != nil {
		uc.log.Error().Err(err).Msg("snapshot guardado pero no la fecha de bloqueo")
		if !errors.Is(err, domain.ErrPersistence) {
			err = fmt.Errorf("%w: %w", domain.ErrPersistence, err)
		}
		return fmt.Errorf("guardar fecha de bloqueo: %w", err)
	}

	uc.log.Info().
		Str("cutoff", snap.Cutoff.Format(osv.DateLayout)).
		Str("revision", snap.Revision).
		Int("entries", entries).
		Dur("elapsed", uc.now().Sub(started)).
		Msg("snapshot de periodo bloqueado recalculado")
	return nil
}

// GetBalance saldo acumulado hasta date_end (incluido), opcionalmente por
// almacén y filtro de reporte.
func (uc *BlockPeriodUseCase) GetBalance(ctx context.Context, in dto.BalanceRequest) (lines []osv.ReportLine, err error) {
	started := uc.now()
	defer func() { uc.recorder.ObserveReport(reportBalance, uc.now().Sub(started), len(lines), err) }()

	end, err := osv.ParseDate("date_end", in.DateEnd)
	if err != nil {
		return nil, err
	}
	sc, err := resolveScope(uc.dataset, in.StorageID, in.Filter)
	if err != nil {
		return nil, err
	}

	snap := uc.Snapshot()
	uc.warnIfStale(ctx, snap)
	return sortLines(uc.balance(snap, end, sc).Lines(), sc.filter), nil
}

// balance combina snapshot y delta. Recurre a la agregación completa si no hay
// snapshot, si las transacciones ya vienen filtradas (el snapshot no las
// distingue) o si date_end es anterior al corte.
func (uc *BlockPeriodUseCase) balance(snap *osv.Snapshot, end time.Time, sc scope) *osv.Report {
	all := uc.dataset.Transactions()
	if snap.IsEmpty() || sc.admission.Prefiltered || osv.Day(end).Before(snap.Cutoff) {
		return osv.Aggregate(osv.AggregateInput{
			Transactions: sc.admission.TransactionsFrom(all),
			End:          end,
			StorageID:    sc.storageID,
			Admissible:   sc.admission.NomenclatureIDs,
		})
	}
	delta := osv.Aggregate(osv.AggregateInput{
		Transactions: all,
		Start:        osv.NextDay(snap.Cutoff),
		End:          end,
		StorageID:    sc.storageID,
		Admissible:   sc.admission.NomenclatureIDs,
	})
	return snap.Merge(delta, sc.storageID, sc.admission.NomenclatureIDs)
}

// Snapshot snapshot vigente (no modificar).
func (uc *BlockPeriodUseCase) Snapshot() *osv.Snapshot {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return uc.snap
}

func (uc *BlockPeriodUseCase) setSnapshot(snap *osv.Snapshot) {
	uc.mu.Lock()
	uc.snap = snap
	uc.mu.Unlock()
}

// Status estado del snapshot frente a la fecha de bloqueo configurada.
func (uc *BlockPeriodUseCase) Status(ctx context.Context) (*dto.BlockPeriodResponse, error) {
	setting, err := uc.settings.BlockPeriod(ctx)
	if err != nil {
		return nil, fmt.Errorf("leer fecha de bloqueo: %w", err)
	}
	snap := uc.Snapshot()
	out := &dto.BlockPeriodResponse{
		Setting: setting.Format(osv.DateLayout),
		Entries: len(snap.Entries),
		Stale:   snap.IsEmpty() || !osv.Day(setting).Equal(snap.Cutoff),
	}
	if !snap.IsEmpty() {
		out.Cutoff = snap.Cutoff.Format(osv.DateLayout)
		out.Revision = snap.Revision
		out.ComputedAt = snap.ComputedAt
	}
	return out, nil
}

// warnIfStale registra cuando la fecha de bloqueo cambió sin recalcular.
// Los saldos siguen siendo correctos: se usa el corte propio del snapshot.
func (uc *BlockPeriodUseCase) warnIfStale(ctx context.Context, snap *osv.Snapshot) {
	if snap.IsEmpty() {
		return
	}
	setting, err := uc.settings.BlockPeriod(ctx)
	if err != nil {
		uc.log.Warn().Err(err).Msg("no se pudo leer la fecha de bloqueo")
		return
	}
	if !osv.Day(setting).Equal(snap.Cutoff) {
		uc.log.Warn().
			Str("setting", setting.Format(osv.DateLayout)).
			Str("snapshot_cutoff", snap.Cutoff.Format(osv.DateLayout)).
			Msg("la fecha de bloqueo no coincide con el snapshot; falta recalcular")
	}
}
