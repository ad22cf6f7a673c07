package repository

import (
	"context"
	"time"
)

// SettingsRepository fuente de la fecha de bloqueo (corte del snapshot).
type SettingsRepository interface {
	BlockPeriod(ctx context.Context) (time.Time, error)
	SetBlockPeriod(ctx context.Context, cutoff time.Time) error
}
