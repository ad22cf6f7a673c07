package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-osv/internal/domain"
	"github.com/jhoicas/inventario-osv/internal/domain/osv"
	"github.com/jhoicas/inventario-osv/internal/domain/repository"
)

var _ repository.SettingsRepository = (*SettingsRepo)(nil)

const settingBlockPeriod = "block_period"

// SettingsRepo fecha de bloqueo en la tabla app_settings.
type SettingsRepo struct {
	q        Querier
	fallback time.Time
}

// NewSettingsRepository construye el adaptador; fallback se usa si no hay fila.
func NewSettingsRepository(q Querier, fallback time.Time) *SettingsRepo {
	return &SettingsRepo{q: q, fallback: fallback}
}

func (r *SettingsRepo) BlockPeriod(ctx context.Context) (time.Time, error) {
	var value string
	err := r.q.QueryRow(ctx, `SELECT value FROM app_settings WHERE key = $1`, settingBlockPeriod).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return r.fallback, nil
		}
		return time.Time{}, fmt.Errorf("get block period: %w", err)
	}
	return time.ParseInLocation(osv.DateLayout, value, time.UTC)
}

func (r *SettingsRepo) SetBlockPeriod(ctx context.Context, cutoff time.Time) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO app_settings (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`,
		settingBlockPeriod, cutoff.Format(osv.DateLayout))
	if err != nil {
		return fmt.Errorf("set block period: %w: %w", domain.ErrPersistence, err)
	}
	return nil
}
