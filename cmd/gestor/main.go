package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/gestor-pos/gestor-pos/internal/app"
	"github.com/gestor-pos/gestor-pos/internal/auth"
	"github.com/gestor-pos/gestor-pos/internal/catalog/clients"
	"github.com/gestor-pos/gestor-pos/internal/catalog/products"
	"github.com/gestor-pos/gestor-pos/internal/observability"
	"github.com/gestor-pos/gestor-pos/internal/platform/cache"
	"github.com/gestor-pos/gestor-pos/internal/platform/db"
	"github.com/gestor-pos/gestor-pos/internal/receivables"
	"github.com/gestor-pos/gestor-pos/internal/sales/cart"
	"github.com/gestor-pos/gestor-pos/internal/sales/checkout"
	"github.com/gestor-pos/gestor-pos/internal/shared"
	"github.com/gestor-pos/gestor-pos/jobs"
	"github.com/gestor-pos/gestor-pos/report"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, "gestor_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)
	auditLogger := shared.NewAuditLogger(pool)

	authRepo := auth.NewRepository(pool)
	authService := auth.NewService(authRepo)
	authHandler := auth.NewHandler(logger, authService, sessionManager, csrfManager)
	authz := auth.Middleware{Service: authService, Logger: logger}

	reportClient := report.NewClient(cfg.GotenbergURL)
	exporter := report.NewExporter(reportClient)

	clientsRepo := clients.NewRepository(pool)
	clientsService := clients.NewService(clientsRepo, auditLogger)
	clientsHandler := clients.NewHandler(logger, clientsService, exporter, authz)

	productsRepo := products.NewRepository(pool)
	productsService := products.NewService(productsRepo, auditLogger)
	productsHandler := products.NewHandler(logger, productsService, exporter, authz)

	cartStore := cart.NewStore(redisClient, cfg.CartTTL)
	cartHandler := cart.NewHandler(logger, cartStore, productsService, authz)

	checkoutRepo := checkout.NewRepository(pool)
	checkoutService := checkout.NewService(checkoutRepo, clientsService, auditLogger)
	checkoutHandler := checkout.NewHandler(logger, checkoutService, cartStore, exporter, authz)

	receivablesRepo := receivables.NewRepository(pool)
	receivablesService := receivables.NewService(receivablesRepo, auditLogger)
	receivablesHandler := receivables.NewHandler(logger, receivablesService, authz)

	metrics := observability.NewMetrics()

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobsClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init jobs client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobsClient.Close(); err != nil {
			logger.Warn("jobs client close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, jobsClient, logger)
	jobHandler.Guard = authz.RequireCapability(shared.CapReceive)

	router := app.NewRouter(app.RouterParams{
		Logger:             logger,
		Config:             cfg,
		SessionManager:     sessionManager,
		CSRFManager:        csrfManager,
		AuthHandler:        authHandler,
		ClientsHandler:     clientsHandler,
		ProductsHandler:    productsHandler,
		CartHandler:        cartHandler,
		CheckoutHandler:    checkoutHandler,
		ReceivablesHandler: receivablesHandler,
		JobHandler:         jobHandler,
		Metrics:            metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
