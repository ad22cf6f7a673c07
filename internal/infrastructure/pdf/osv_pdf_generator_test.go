package pdf_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-osv/internal/domain/osv"
	"github.com/jhoicas/inventario-osv/internal/infrastructure/pdf"
)

func TestGenerateOSVPDF(t *testing.T) {
	lines := []osv.ReportLine{
		{NomenclatureCode: "n-flour", NomenclatureName: "Harina", UnitCode: "u-kg", UnitName: "kg",
			StartBalance: decimal.NewFromInt(50), Outgoing: decimal.RequireFromString("2.5"), EndBalance: decimal.RequireFromString("47.5")},
		{NomenclatureCode: "n-eggs", NomenclatureName: "Huevos", UnitCode: "u-pcs", UnitName: "und",
			Incoming: decimal.NewFromInt(120), EndBalance: decimal.NewFromInt(120)},
	}
	g := pdf.NewOSVPDFGenerator("inventario-osv")

	out, err := g.GenerateOSVPDF(context.Background(), pdf.OSVHeader{
		DateStart:   "2025-01-01",
		DateEnd:     "2025-02-28",
		Cutoff:      "2024-12-31",
		Revision:    "rev-1",
		GeneratedAt: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
	}, lines)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestGenerateOSVPDF_EmptyReport(t *testing.T) {
	out, err := pdf.NewOSVPDFGenerator("").GenerateOSVPDF(context.Background(), pdf.OSVHeader{DateStart: "2025-01-01", DateEnd: "2025-01-31"}, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestFormatQuantity(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "0"},
		{"25000", "25.000"},
		{"1234567.5", "1.234.567,5"},
		{"-2500", "-2.500"},
		{"0.125", "0,125"},
		{"-0.0001", "0"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, pdf.FormatQuantity(decimal.RequireFromString(tc.in)), tc.in)
	}
}
