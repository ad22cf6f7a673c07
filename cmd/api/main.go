package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"
	"github.com/jhoicas/inventario-osv/internal/application/auth"
	"github.com/jhoicas/inventario-osv/internal/application/data"
	"github.com/jhoicas/inventario-osv/internal/application/turnover"
	"github.com/jhoicas/inventario-osv/internal/domain/entity"
	"github.com/jhoicas/inventario-osv/internal/domain/osv"
	"github.com/jhoicas/inventario-osv/internal/infrastructure/dataset"
	"github.com/jhoicas/inventario-osv/internal/infrastructure/memory"
	"github.com/jhoicas/inventario-osv/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/inventario-osv/internal/infrastructure/pdf"
	"github.com/jhoicas/inventario-osv/internal/infrastructure/persistence"
	httpRouter "github.com/jhoicas/inventario-osv/internal/interfaces/http"
	"github.com/jhoicas/inventario-osv/pkg/config"
	"github.com/jhoicas/inventario-osv/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("snapshot_driver", cfg.Snapshot.Driver).
		Msg("iniciando aplicación")

	ds, _, err := dataset.LoadFile(cfg.Data.File)
	if err != nil {
		log.Fatal().Err(err).Str("file", cfg.Data.File).Msg("cargar dataset")
	}
	datasetRepo := memory.NewDatasetRepository(ds)

	m := metrics.New()
	counts := make(map[string]int)
	for kind, n := range datasetRepo.Counts() {
		counts[string(kind)] = n
	}
	m.SetDatasetRecords(counts)
	log.Info().Interface("records", counts).Msg("dataset cargado")

	fallback, err := osv.ParseDate("BLOCK_PERIOD", cfg.Data.BlockPeriod)
	if err != nil {
		log.Fatal().Err(err).Msg("fecha de bloqueo inicial")
	}

	ctx := context.Background()
	stores, err := persistence.Open(ctx, cfg, fallback, adminUser(cfg.Admin), log)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir almacén del snapshot")
	}
	defer stores.Close()
	log.Info().Str("location", stores.Location).Msg("almacén del snapshot listo")

	blockPeriodUC := turnover.NewBlockPeriodUseCase(datasetRepo, stores.Settings, stores.Snapshots, m, log)
	blockPeriodUC.Load(ctx)
	reportUC := turnover.NewReportUseCase(datasetRepo, blockPeriodUC, m, log)
	dataUC := data.NewUseCase(datasetRepo, log)
	authUC := auth.NewAuthUseCase(stores.Users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	if !cfg.Admin.Enabled() {
		log.Warn().Msg("ADMIN_EMAIL no definido: la fecha de bloqueo no se puede cambiar por HTTP")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Inventario OSV API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		DataUC:        dataUC,
		ReportUC:      reportUC,
		BlockPeriodUC: blockPeriodUC,
		AuthUC:        authUC,
		PDF:           infrapdf.NewOSVPDFGenerator(cfg.App.Name),
		Metrics:       m,
		MetricsHTTP:   m.Handler(),
		JWTSecret:     cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// adminUser operador configurado por entorno; el id es estable entre reinicios.
func adminUser(c config.AdminConfig) *entity.User {
	if !c.Enabled() {
		return nil
	}
	email := strings.ToLower(strings.TrimSpace(c.Email))
	return &entity.User{
		ID:           uuid.NewSHA1(uuid.NameSpaceURL, []byte("admin:"+email)).String(),
		Email:        email,
		PasswordHash: c.PasswordHash,
		Name:         "Administrador",
		Role:         entity.RoleAdmin,
		Status:       entity.UserStatusActive,
	}
}
