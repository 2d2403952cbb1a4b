package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	apprebalance "github.com/jhoicas/Rateio-api/internal/application/rebalance"
	"github.com/jhoicas/Rateio-api/internal/domain/repository"
	"github.com/jhoicas/Rateio-api/internal/infrastructure/excel"
	infrapdf "github.com/jhoicas/Rateio-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Rateio-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Rateio-api/internal/infrastructure/sheets"
	httpRouter "github.com/jhoicas/Rateio-api/internal/interfaces/http"
	"github.com/jhoicas/Rateio-api/pkg/config"
	"github.com/jhoicas/Rateio-api/pkg/logger"
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
		Str("snapshot_source", cfg.Snapshot.Source).
		Msg("iniciando aplicación")

	ctx := context.Background()

	// Fuente de bases guardadas (opcional): las cargas por JSON/CSV funcionan sin ella.
	var snapshots repository.SnapshotRepository
	switch cfg.Snapshot.Source {
	case config.SnapshotSourcePostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		snapshots = postgres.NewSnapshotRepository(pool)
	case config.SnapshotSourceSheets:
		repo, err := sheets.NewSnapshotRepository(ctx, cfg.Sheets, log)
		if err != nil {
			log.Fatal().Err(err).Msg("cliente Google Sheets")
		}
		snapshots = repo
	}

	reportGenerator := infrapdf.NewMarotoReportGenerator(cfg.Report.Locale, cfg.Report.Currency)
	workbookGenerator := excel.NewExcelizeWorkbookGenerator(cfg.Report.Currency)
	rebalanceUC := apprebalance.NewRebalanceUseCase(cfg.Rebalance, snapshots, reportGenerator, workbookGenerator, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    cfg.HTTP.BodyLimitMB * 1024 * 1024,
		ReadTimeout:  time.Second * 30,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(cfg.App.DocsPath); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.App.DocsPath,
			Path:     "docs",
			Title:    "Rateio API",
		}))
	} else {
		log.Warn().Str("path", cfg.App.DocsPath).Msg("swagger.json no encontrado, /docs deshabilitado")
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	if cfg.JWT.Secret == "" {
		log.Warn().Msg("JWT_SECRET vacío: /api sin autenticación")
	}
	httpRouter.Router(app, httpRouter.RouterDeps{
		Rebalance: rebalanceUC,
		JWTSecret: cfg.JWT.Secret,
		JWTIssuer: cfg.JWT.Issuer,
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
