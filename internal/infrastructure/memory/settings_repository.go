package memory

import (
	"context"
	"sync"
	"time"
)

// SettingsRepository fecha de bloqueo en memoria (se pierde al reiniciar;
// el snapshot persistido guarda su propio corte).
type SettingsRepository struct {
	mu     sync.RWMutex
	cutoff time.Time
}

// NewSettingsRepository con el corte inicial.
func NewSettingsRepository(initial time.Time) *SettingsRepository {
	return &SettingsRepository{cutoff: initial}
}

func (r *SettingsRepository) BlockPeriod(_ context.Context) (time.Time, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cutoff, nil
}

func (r *SettingsRepository) SetBlockPeriod(_ context.Context, cutoff time.Time) error {
	r.mu.Lock()
	r.cutoff = cutoff
	r.mu.Unlock()
	return nil
}
