package http

import (
	nethttp "net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/jhoicas/inventario-osv/internal/application/auth"
	"github.com/jhoicas/inventario-osv/internal/application/data"
	"github.com/jhoicas/inventario-osv/internal/application/turnover"
	"github.com/jhoicas/inventario-osv/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	DataUC        *data.UseCase
	ReportUC      *turnover.ReportUseCase
	BlockPeriodUC *turnover.BlockPeriodUseCase
	AuthUC        *auth.AuthUseCase
	PDF           osvPDFGenerator
	Metrics       requestRecorder
	MetricsHTTP   nethttp.Handler
	JWTSecret     string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.MetricsHTTP != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.MetricsHTTP))
	}

	api := app.Group("/api")
	if deps.Metrics != nil {
		api.Use(MetricsMiddleware(deps.Metrics))
	}

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Dataset y filtros (público, solo lectura)
	dataHandler := NewDataHandler(deps.DataUC)
	api.Get("/accessibility", dataHandler.Accessibility)
	api.Get("/models", dataHandler.Models)
	api.Post("/data/:kind/filter", dataHandler.Filter)
	api.Get("/data/:kind/:format", dataHandler.List)

	// Reportes
	reportHandler := NewReportHandler(deps.ReportUC, deps.BlockPeriodUC, deps.PDF)
	reports := api.Group("/reports")
	reports.Post("/osv", reportHandler.OSV)
	reports.Post("/osv/pdf", reportHandler.OSVPDF)
	reports.Post("/balance", reportHandler.Balance)

	// Periodo bloqueado: lectura pública, cambio solo admin
	blockHandler := NewBlockPeriodHandler(deps.BlockPeriodUC)
	api.Get("/block-period", blockHandler.Get)
	api.Put("/block-period",
		AuthMiddleware(deps.JWTSecret),
		RequireRole(entity.RoleAdmin),
		blockHandler.Update,
	)
}
