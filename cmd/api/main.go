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

	"github.com/tu-usuario/vsdc-relay/internal/application/relay"
	infrapdf "github.com/tu-usuario/vsdc-relay/internal/infrastructure/pdf"
	"github.com/tu-usuario/vsdc-relay/internal/infrastructure/postgres"
	"github.com/tu-usuario/vsdc-relay/internal/infrastructure/vsdcapi"
	httpRouter "github.com/tu-usuario/vsdc-relay/internal/interfaces/http"
	"github.com/tu-usuario/vsdc-relay/internal/observability/metrics"
	"github.com/tu-usuario/vsdc-relay/pkg/config"
	"github.com/tu-usuario/vsdc-relay/pkg/logger"
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
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("vsdc_url", cfg.VSDC.APIURL).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	transactionRepo := postgres.NewFiscalTransactionRepository(pool)
	activityRepo := postgres.NewWebhookActivityRepository(pool)

	profile := relay.BusinessProfile{
		TIN:           cfg.Business.TIN,
		BranchID:      cfg.Business.BranchID,
		TradeName:     cfg.Business.TradeName,
		Address:       cfg.Business.Address,
		TopMessage:    cfg.Business.TopMessage,
		BottomMessage: cfg.Business.BottomMessage,
		RegistrarID:   cfg.Business.RegistrarID,
		RegistrarName: cfg.Business.RegistrarName,
		RefundReason:  cfg.Business.RefundReason,
	}

	transformer := relay.NewPayloadTransformer(profile, log)
	submitter := vsdcapi.NewClient(cfg.VSDC.APIURL, cfg.VSDC.Timeout, log)
	renderer := infrapdf.NewMarotoReceiptGenerator(cfg.Output.PDFDir, cfg.VSDC.SDCID, cfg.VSDC.MRC)
	promMetrics := metrics.New()

	orchestrator := relay.NewWebhookOrchestrator(
		transformer, submitter, renderer,
		transactionRepo, activityRepo, promMetrics, log,
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 60, // el VSDC puede tardar; la respuesta espera al envío
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "VSDC Relay API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		Orchestrator: orchestrator,
		Activities:   activityRepo,
		Registry:     promMetrics.Registry(),
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
