// kpi calcula los KPIs operativos de la cadena de suministro sobre el dataset
// configurado y persiste los campos derivados para el consumidor BI.
//
// Uso:
//
//	kpi recompute            recalcula y persiste todos los campos derivados (default)
//	kpi report [archivo.pdf] imprime el reporte JSON, o lo escribe como PDF
//	kpi serve                levanta el API HTTP de reportes
//
// La conexión y la tabla del dataset se configuran por env (DATABASE_URL o
// DB_*, DATASET_TABLE).
package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	appkpi "github.com/jhoicas/cadena-kpi/internal/application/kpi"
	infrapdf "github.com/jhoicas/cadena-kpi/internal/infrastructure/pdf"
	"github.com/jhoicas/cadena-kpi/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/cadena-kpi/internal/interfaces/http"
	"github.com/jhoicas/cadena-kpi/pkg/config"
	"github.com/jhoicas/cadena-kpi/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})

	command := "recompute"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	reader := postgres.NewSupplyRecordRepository(pool, cfg.Dataset.Table)
	migrator := postgres.NewSchemaMigrator(pool, cfg.Dataset.Table)
	txRunner := postgres.NewTxRunner(pool, cfg.Dataset.Table)

	recomputeUC := appkpi.NewRecomputeUseCase(reader, migrator, txRunner)
	reportUC := appkpi.NewReportUseCase(reader)
	pdfUC := appkpi.NewExportPDFUseCase(reportUC, infrapdf.NewMarotoReportGenerator())

	switch command {
	case "recompute":
		runRecompute(ctx, log, cfg, recomputeUC)
	case "report":
		runReport(ctx, log, cfg, reportUC, pdfUC)
	case "serve":
		runServe(log, cfg, reportUC, pdfUC, recomputeUC)
	default:
		log.Fatal().Str("command", command).Msg("comando desconocido (recompute | report | serve)")
	}
}

// runRecompute ejecuta la corrida única de recálculo persistido.
func runRecompute(ctx context.Context, log *logger.Logger, cfg *config.Config, uc *appkpi.RecomputeUseCase) {
	log.Info().
		Str("table", cfg.Dataset.Table).
		Msg("iniciando recálculo de KPIs")

	result, err := uc.Recompute(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("recálculo fallido, sin cambios persistidos")
	}

	log.Info().
		Str("run_id", result.RunID).
		Int("records", result.Records).
		Dur("duration", result.Duration).
		Msg("recálculo completado")
}

// runReport imprime el reporte como JSON por stdout, o lo escribe como PDF si
// se pasa una ruta de archivo.
func runReport(ctx context.Context, log *logger.Logger, cfg *config.Config, reportUC *appkpi.ReportUseCase, pdfUC *appkpi.ExportPDFUseCase) {
	if len(os.Args) > 2 {
		outPath := os.Args[2]
		pdfBytes, err := pdfUC.Export(ctx, cfg.Dataset.TopN)
		if err != nil {
			log.Fatal().Err(err).Msg("generar reporte PDF")
		}
		if err := os.WriteFile(outPath, pdfBytes, 0o644); err != nil {
			log.Fatal().Err(err).Str("path", outPath).Msg("escribir reporte PDF")
		}
		log.Info().Str("path", outPath).Msg("reporte PDF generado")
		return
	}

	report, err := reportUC.BuildReport(ctx, cfg.Dataset.TopN)
	if err != nil {
		log.Fatal().Err(err).Msg("generar reporte")
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		log.Fatal().Err(err).Msg("serializar reporte")
	}
}

// runServe levanta el API HTTP de reportes con apagado ordenado.
func runServe(log *logger.Logger, cfg *config.Config, reportUC *appkpi.ReportUseCase, pdfUC *appkpi.ExportPDFUseCase, recomputeUC *appkpi.RecomputeUseCase) {
	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es obligatorio para el modo serve")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ReportUC:    reportUC,
		PDFUC:       pdfUC,
		RecomputeUC: recomputeUC,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()
	log.Info().Str("addr", cfg.HTTP.Addr()).Msg("API de reportes escuchando")

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
