package dto

import (
	"time"

	"github.com/jhoicas/inventario-osv/internal/domain/osv"
)

// OSVRequest body para POST /api/reports/osv.
// Filter es el registro crudo del filtro ({"model", "filters", "sorting"}).
type OSVRequest struct {
	DateStart      string         `json:"date_start"`
	DateEnd        string         `json:"date_end"`
	StorageID      string         `json:"storage_id,omitempty"`
	Filter         map[string]any `json:"filter,omitempty"`
	OpeningBalance bool           `json:"opening_balance,omitempty"`
}

// BalanceRequest body para POST /api/reports/balance.
type BalanceRequest struct {
	DateEnd   string         `json:"date_end"`
	StorageID string         `json:"storage_id,omitempty"`
	Filter    map[string]any `json:"filter,omitempty"`
}

// ReportResponse salida de OSV y saldos.
type ReportResponse struct {
	DateStart string           `json:"date_start,omitempty"`
	DateEnd   string           `json:"date_end"`
	StorageID string           `json:"storage_id,omitempty"`
	Lines     []osv.ReportLine `json:"lines"`
	Count     int              `json:"count"`
}

// BlockPeriodRequest body para PUT /api/block-period.
type BlockPeriodRequest struct {
	Date string `json:"date" validate:"required"`
}

// BlockPeriodResponse estado del snapshot vigente.
type BlockPeriodResponse struct {
	Cutoff     string    `json:"cutoff"`
	Setting    string    `json:"setting"`
	Revision   string    `json:"revision,omitempty"`
	ComputedAt time.Time `json:"computed_at,omitempty"`
	Entries    int       `json:"entries"`
	Stale      bool      `json:"stale"`
}
