// blockperiod recalcula y persiste el snapshot de periodo bloqueado sin levantar la API.
//
// Uso: go run ./cmd/blockperiod [YYYY-MM-DD]
// Sin fecha usa la fecha de bloqueo guardada (o BLOCK_PERIOD). Lee la misma
// configuración que la API (DATA_FILE, SNAPSHOT_DRIVER, ...).
// Con SNAPSHOT_DRIVER=file la fecha no se guarda: hay que ajustar BLOCK_PERIOD también.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jhoicas/inventario-osv/internal/application/turnover"
	"github.com/jhoicas/inventario-osv/internal/domain/osv"
	"github.com/jhoicas/inventario-osv/internal/infrastructure/dataset"
	"github.com/jhoicas/inventario-osv/internal/infrastructure/memory"
	"github.com/jhoicas/inventario-osv/internal/infrastructure/persistence"
	"github.com/jhoicas/inventario-osv/pkg/config"
	"github.com/jhoicas/inventario-osv/pkg/logger"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "blockperiod: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("cargar configuración: %w", err)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	ds, _, err := dataset.LoadFile(cfg.Data.File)
	if err != nil {
		return fmt.Errorf("cargar dataset: %w", err)
	}
	fallback, err := osv.ParseDate("BLOCK_PERIOD", cfg.Data.BlockPeriod)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	stores, err := persistence.Open(ctx, cfg, fallback, nil, log)
	if err != nil {
		return err
	}
	defer stores.Close()

	uc := turnover.NewBlockPeriodUseCase(memory.NewDatasetRepository(ds), stores.Settings, stores.Snapshots, nil, log)

	if len(args) > 0 {
		err = uc.RecomputeBlockPeriod(ctx, args[0])
	} else {
		var cutoff time.Time
		if cutoff, err = stores.Settings.BlockPeriod(ctx); err == nil {
			err = uc.Recompute(ctx, cutoff)
		}
	}
	if err != nil {
		return err
	}

	st, err := uc.Status(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Snapshot %s en %s: corte %s, %d entradas\n", st.Revision, stores.Location, st.Cutoff, st.Entries)
	return nil
}
