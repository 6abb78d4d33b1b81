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

	"github.com/bringout/fiskal-api/internal/application/auth"
	"github.com/bringout/fiskal-api/internal/application/billing"
	infrafiskal "github.com/bringout/fiskal-api/internal/infrastructure/fiskal"
	infrapdf "github.com/bringout/fiskal-api/internal/infrastructure/pdf"
	"github.com/bringout/fiskal-api/internal/infrastructure/postgres"
	httpRouter "github.com/bringout/fiskal-api/internal/interfaces/http"
	"github.com/bringout/fiskal-api/pkg/config"
	"github.com/bringout/fiskal-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("load configuration: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("starting application")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("PostgreSQL connection")
	}
	defer pool.Close()

	companyRepo := postgres.NewCompanyRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	partnerRepo := postgres.NewPartnerRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	attachmentRepo := postgres.NewAttachmentRepository(pool)

	authUC := auth.NewAuthUseCase(userRepo, companyRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	companyUC := billing.NewCompanyUseCase(companyRepo, partnerRepo)
	partnerUC := billing.NewPartnerUseCase(partnerRepo)
	invoiceUC := billing.NewInvoiceUseCase(invoiceRepo, partnerRepo)
	settingsUC := billing.NewSettingsUseCase(companyRepo)

	// Fiscal server client and the fiskalizacija pipeline around it.
	fiscalClient := infrafiskal.NewHTTPFiscalClient(time.Duration(cfg.Fiskal.TimeoutSeconds) * time.Second)
	orchestrator := billing.NewFiskalOrchestrator(
		invoiceRepo, companyRepo, partnerRepo, attachmentRepo,
		fiscalClient, log,
	)

	// PDF: receipt copy of a fiscalized document
	pdfGenerator := infrapdf.NewMarotoPDFGenerator()
	pdfUC := billing.NewPDFUseCase(invoiceRepo, companyRepo, partnerRepo, pdfGenerator)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Fiskal API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:     authUC,
		CompanyUC:  companyUC,
		PartnerUC:  partnerUC,
		InvoiceUC:  invoiceUC,
		Orch:       orchestrator,
		PDFUC:      pdfUC,
		SettingsUC: settingsUC,
		JWTSecret:  cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("HTTP server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutdown signal received, stopping server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}

	log.Info().Msg("application stopped")
}
