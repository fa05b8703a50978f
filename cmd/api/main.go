package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/mkrausse/billable/internal/auth"
	authStore "github.com/mkrausse/billable/internal/auth/store"
	"github.com/mkrausse/billable/internal/client"
	clientStore "github.com/mkrausse/billable/internal/client/store"
	"github.com/mkrausse/billable/internal/config"
	"github.com/mkrausse/billable/internal/database"
	"github.com/mkrausse/billable/internal/generator"
	generatorStore "github.com/mkrausse/billable/internal/generator/store"
	billableHttp "github.com/mkrausse/billable/internal/http"
	authHandler "github.com/mkrausse/billable/internal/http/auth"
	clientHandler "github.com/mkrausse/billable/internal/http/client"
	generatorHandler "github.com/mkrausse/billable/internal/http/generator"
	invoiceHandler "github.com/mkrausse/billable/internal/http/invoice"
	projectHandler "github.com/mkrausse/billable/internal/http/project"
	webhookHandler "github.com/mkrausse/billable/internal/http/webhook"
	"github.com/mkrausse/billable/internal/invoice"
	invoiceStore "github.com/mkrausse/billable/internal/invoice/store"
	"github.com/mkrausse/billable/internal/project"
	projectStore "github.com/mkrausse/billable/internal/project/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(context.Background(), db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	var (
		authService      = auth.NewService(authStore.New(db), cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
		clientService    = client.NewService(clientStore.New(db))
		projectService   = project.NewService(projectStore.New(db))
		invoiceService   = invoice.NewService(invoiceStore.New(db))
		generatorService = generator.NewService(
			generatorStore.New(db, cfg.Invoice.DraftConsumes),
			cfg.Invoice.NumberPrefix,
		)
	)

	var (
		authH      = authHandler.NewHandler(authService)
		clientH    = clientHandler.NewHandler(clientService)
		projectH   = projectHandler.NewHandler(projectService)
		invoiceH   = invoiceHandler.NewHandler(invoiceService)
		generatorH = generatorHandler.NewHandler(generatorService)
		webhookH   = webhookHandler.NewHandler(invoiceService, cfg.Webhook.PaymentSecret)
	)

	router := billableHttp.New(
		authService,
		cfg.Server.AllowOrigin,
		authH,
		clientH,
		projectH,
		invoiceH,
		generatorH,
		webhookH,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "port", port)

	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
