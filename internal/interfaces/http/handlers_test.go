package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/inventario-osv/internal/application/auth"
	"github.com/jhoicas/inventario-osv/internal/application/data"
	"github.com/jhoicas/inventario-osv/internal/application/turnover"
	"github.com/jhoicas/inventario-osv/internal/domain/entity"
	"github.com/jhoicas/inventario-osv/internal/domain/osv"
	"github.com/jhoicas/inventario-osv/internal/domain/repository"
	"github.com/jhoicas/inventario-osv/internal/infrastructure/filestore"
	"github.com/jhoicas/inventario-osv/internal/infrastructure/memory"
	"github.com/jhoicas/inventario-osv/internal/infrastructure/metrics"
	"github.com/jhoicas/inventario-osv/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/inventario-osv/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

func dataset() *memory.DatasetRepository {
	kg := &entity.Unit{Identity: entity.Identity{UniqueCode: "u-kg", Name: "kg"}, Scale: decimal.NewFromInt(1)}
	raw := &entity.Group{Identity: entity.Identity{UniqueCode: "g-raw", Name: "Materia prima"}}
	flour := &entity.Nomenclature{Identity: entity.Identity{UniqueCode: "n-flour", Name: "Harina de trigo"}, Group: raw, Unit: kg}
	sugar := &entity.Nomenclature{Identity: entity.Identity{UniqueCode: "n-sugar", Name: "Azúcar"}, Group: raw, Unit: kg}
	main := &entity.Storage{Identity: entity.Identity{UniqueCode: "s-main", Name: "Bodega principal"}}
	at := func(s string) time.Time {
		t, _ := time.Parse(entity.DateTimeLayout, s)
		return t
	}
	return memory.NewDatasetRepository(memory.Dataset{
		Units:         []*entity.Unit{kg},
		Groups:        []*entity.Group{raw},
		Nomenclatures: []*entity.Nomenclature{flour, sugar},
		Storages:      []*entity.Storage{main},
		Transactions: []*entity.Transaction{
			{Identity: entity.Identity{UniqueCode: "t1"}, Date: at("2024-12-01 08:00:00"), Storage: main, Nomenclature: flour, Unit: kg, Quantity: decimal.NewFromInt(40)},
			{Identity: entity.Identity{UniqueCode: "t2"}, Date: at("2025-01-15 08:00:00"), Storage: main, Nomenclature: flour, Unit: kg, Quantity: decimal.NewFromInt(-15)},
		},
	})
}

type brokenStore struct{}

func (brokenStore) Load(context.Context) (*osv.Snapshot, error) { return nil, nil }
func (brokenStore) Save(context.Context, *osv.Snapshot) error {
	return errors.New("sin espacio en disco")
}

type testServer struct {
	app     *fiber.App
	metrics *metrics.Metrics
}

func newServer(t *testing.T, snapshots repository.SnapshotRepository) testServer {
	t.Helper()
	ds := dataset()
	m := metrics.New()
	if snapshots == nil {
		snapshots = filestore.NewSnapshotRepository(filepath.Join(t.TempDir(), "saved_turnovers.json"))
	}
	cutoff, _ := osv.ParseDate("block_period", "1900-01-01")
	blockPeriod := turnover.NewBlockPeriodUseCase(ds, memory.NewSettingsRepository(cutoff), snapshots, m, nil)
	blockPeriod.Load(context.Background())

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	users := memory.NewUserRepository(&entity.User{
		ID: "admin", Email: testEmail, PasswordHash: string(hash), Role: entity.RoleAdmin, Status: entity.UserStatusActive,
	})

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		DataUC:        data.NewUseCase(ds, nil),
		ReportUC:      turnover.NewReportUseCase(ds, blockPeriod, m, nil),
		BlockPeriodUC: blockPeriod,
		AuthUC:        auth.NewAuthUseCase(users, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: 5, Issuer: testIssuer}),
		PDF:           pdf.NewOSVPDFGenerator("test"),
		Metrics:       m,
		MetricsHTTP:   m.Handler(),
		JWTSecret:     testJWTSecret,
	})
	return testServer{app: app, metrics: m}
}

func (s testServer) do(t *testing.T, method, path string, body any, authHeader string) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, out
}

func decode(t *testing.T, raw []byte) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Dataset y filtros
// ──────────────────────────────────────────────────────────────────────────────

func TestModels(t *testing.T) {
	s := newServer(t, nil)
	resp, body := s.do(t, http.MethodGet, "/api/models", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	out := decode(t, body)
	assert.Contains(t, out["available_models"], "nomenclature")
	assert.Contains(t, out["formats"], "markdown")
}

func TestListData_CSV(t *testing.T) {
	s := newServer(t, nil)
	resp, body := s.do(t, http.MethodGet, "/api/data/range/csv", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	out := decode(t, body)
	assert.Equal(t, "csv", out["format"])
	result, ok := out["result"].(string)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(result, "unique_code;name;"))
	assert.Contains(t, result, "u-kg;kg")
}

func TestListData_UnknownKindOrFormat(t *testing.T) {
	s := newServer(t, nil)
	for _, path := range []string{"/api/data/warehouse/json", "/api/data/unit/excel"} {
		resp, body := s.do(t, http.MethodGet, path, nil, "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, path)
		assert.Equal(t, "VALIDATION", decode(t, body)["code"], path)
	}
}

func TestFilterData(t *testing.T) {
	s := newServer(t, nil)
	resp, body := s.do(t, http.MethodPost, "/api/data/nomenclature/filter", map[string]any{
		"filters": []any{map[string]any{"field_name": "name", "value": "harina", "type": "LIKE"}},
	}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	out := decode(t, body)
	result := out["result"].([]any)
	require.Len(t, result, 1)
	assert.Equal(t, "n-flour", result[0].(map[string]any)["unique_code"])
}

// ──────────────────────────────────────────────────────────────────────────────
// Reportes
// ──────────────────────────────────────────────────────────────────────────────

func TestOSV(t *testing.T) {
	s := newServer(t, nil)
	resp, body := s.do(t, http.MethodPost, "/api/reports/osv", map[string]any{
		"date_start":      "2025-01-01",
		"date_end":        "2025-01-31",
		"opening_balance": true,
	}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	out := decode(t, body)
	assert.EqualValues(t, 2, out["count"])
	first := out["lines"].([]any)[0].(map[string]any)
	assert.Equal(t, "n-flour", first["nomenclature_code"])
	assert.Equal(t, "40", first["start_balance"])
	assert.Equal(t, "25", first["end_balance"])
}

func TestOSV_Markdown(t *testing.T) {
	s := newServer(t, nil)
	resp, body := s.do(t, http.MethodPost, "/api/reports/osv?format=markdown", map[string]any{
		"date_start": "2025-01-01",
		"date_end":   "2025-01-31",
	}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/markdown")
	assert.Contains(t, string(body), "| n-flour |")
}

func TestOSV_ValidationError(t *testing.T) {
	s := newServer(t, nil)
	resp, body := s.do(t, http.MethodPost, "/api/reports/osv", map[string]any{
		"date_start": "2025/01/01",
		"date_end":   "2025-01-31",
	}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	out := decode(t, body)
	assert.Equal(t, "VALIDATION", out["code"])
	assert.Contains(t, out["message"], "date_start")
}

func TestOSV_PDF(t *testing.T) {
	s := newServer(t, nil)
	resp, body := s.do(t, http.MethodPost, "/api/reports/osv/pdf", map[string]any{
		"date_start": "2025-01-01",
		"date_end":   "2025-01-31",
	}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))
}

func TestBalance(t *testing.T) {
	s := newServer(t, nil)
	resp, body := s.do(t, http.MethodPost, "/api/reports/balance", map[string]any{
		"date_end":   "2025-02-01",
		"storage_id": "s-main",
	}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	lines := decode(t, body)["lines"].([]any)
	require.Len(t, lines, 1)
	assert.Equal(t, "25", lines[0].(map[string]any)["end_balance"])
}

// ──────────────────────────────────────────────────────────────────────────────
// Periodo bloqueado
// ──────────────────────────────────────────────────────────────────────────────

func TestBlockPeriod_RequiresAdmin(t *testing.T) {
	s := newServer(t, nil)
	body := map[string]any{"date": "2024-12-31"}

	resp, _ := s.do(t, http.MethodPut, "/api/block-period", body, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = s.do(t, http.MethodPut, "/api/block-period", body, tokenForRole(t, entity.RoleViewer))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestBlockPeriod_LoginAndRecompute(t *testing.T) {
	s := newServer(t, nil)

	resp, body := s.do(t, http.MethodPost, "/api/auth/login", map[string]any{"email": testEmail, "password": "s3cret"}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	token := decode(t, body)["token"].(string)

	resp, body = s.do(t, http.MethodPut, "/api/block-period", map[string]any{"date": "2024-12-31"}, "Bearer "+token)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	out := decode(t, body)
	assert.Equal(t, "2024-12-31", out["cutoff"])
	assert.Equal(t, "2024-12-31", out["setting"])
	assert.Equal(t, false, out["stale"])

	resp, body = s.do(t, http.MethodGet, "/api/block-period", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 1, decode(t, body)["entries"])
}

func TestBlockPeriod_BadDate(t *testing.T) {
	s := newServer(t, nil)
	resp, body := s.do(t, http.MethodPut, "/api/block-period", map[string]any{"date": "31-12-2024"}, tokenForRole(t, entity.RoleAdmin))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", decode(t, body)["code"])
}

func TestBlockPeriod_PersistenceFailure(t *testing.T) {
	s := newServer(t, brokenStore{})
	resp, body := s.do(t, http.MethodPut, "/api/block-period", map[string]any{"date": "2024-12-31"}, tokenForRole(t, entity.RoleAdmin))
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "PERSISTENCE", decode(t, body)["code"])

	resp, body = s.do(t, http.MethodGet, "/api/block-period", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, decode(t, body)["stale"])
}

func TestLogin_InvalidCredentials(t *testing.T) {
	s := newServer(t, nil)
	resp, body := s.do(t, http.MethodPost, "/api/auth/login", map[string]any{"email": testEmail, "password": "otra"}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", decode(t, body)["code"])
}

func TestLogin_Validation(t *testing.T) {
	s := newServer(t, nil)
	tests := []struct {
		name  string
		body  map[string]any
		field string
	}{
		{"email mal formado", map[string]any{"email": "admin", "password": "s3cret"}, "email"},
		{"sin password", map[string]any{"email": testEmail}, "password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := s.do(t, http.MethodPost, "/api/auth/login", tt.body, "")
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			out := decode(t, body)
			assert.Equal(t, "VALIDATION", out["code"])
			assert.Contains(t, out["message"], tt.field)
		})
	}
}

func TestBlockPeriod_MissingDate(t *testing.T) {
	s := newServer(t, nil)
	resp, body := s.do(t, http.MethodPut, "/api/block-period", map[string]any{}, tokenForRole(t, entity.RoleAdmin))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, decode(t, body)["message"], "date")
}

func TestList_PageOutOfRange(t *testing.T) {
	s := newServer(t, nil)
	for _, q := range []string{"limit=0", "limit=500", "offset=-1"} {
		resp, body := s.do(t, http.MethodGet, "/api/data/nomenclature/json?"+q, nil, "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, q)
		assert.Equal(t, "VALIDATION", decode(t, body)["code"], q)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Métricas
// ──────────────────────────────────────────────────────────────────────────────

func TestMetricsEndpoint(t *testing.T) {
	s := newServer(t, nil)
	s.do(t, http.MethodGet, "/api/models", nil, "")
	s.do(t, http.MethodPost, "/api/reports/osv", map[string]any{"date_start": "2025-01-01", "date_end": "2025-01-31"}, "")

	resp, body := s.do(t, http.MethodGet, "/metrics", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	text := string(body)
	assert.Contains(t, text, `inventario_osv_http_requests_total{method="GET",path="/api/models",status="200"} 1`)
	assert.Contains(t, text, `inventario_osv_reports_total{report="osv",status="success"} 1`)
}
