package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/tillpoint/pos-terminal/api/routes"
	"github.com/tillpoint/pos-terminal/internal/cart"
	"github.com/tillpoint/pos-terminal/internal/catalog"
	"github.com/tillpoint/pos-terminal/internal/checkout"
	"github.com/tillpoint/pos-terminal/internal/display"
	"github.com/tillpoint/pos-terminal/internal/lockdown"
	"github.com/tillpoint/pos-terminal/internal/receipts"
	"github.com/tillpoint/pos-terminal/internal/scanner"
	"github.com/tillpoint/pos-terminal/pkg/config"
	"github.com/tillpoint/pos-terminal/pkg/db"
	"github.com/tillpoint/pos-terminal/pkg/logger"
	"github.com/tillpoint/pos-terminal/pkg/metrics"
	"github.com/tillpoint/pos-terminal/pkg/migrate"
	"github.com/tillpoint/pos-terminal/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "terminal"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "terminal",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap redis", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	terminalMetrics := metrics.NewTerminalMetrics(registry)

	catalogClient, err := catalog.NewClient(cfg.Catalog, logg)
	if err != nil {
		logg.Error(ctx, "failed to create catalog client", err)
		os.Exit(1)
	}
	catalogSvc, err := catalog.NewService(catalogClient, catalog.NewCache())
	if err != nil {
		logg.Error(ctx, "failed to create catalog service", err)
		os.Exit(1)
	}
	warmCatalog(ctx, cfg, logg, catalogSvc)

	synchronizer, err := display.NewSynchronizer(cfg.Display.Channel, redisClient, logg, terminalMetrics)
	if err != nil {
		logg.Error(ctx, "failed to create display synchronizer", err)
		os.Exit(1)
	}
	go synchronizer.Run(ctx)
	go func() {
		if err := display.RunSyncResponder(ctx, redisClient, cfg.Display.SyncChannel, synchronizer, logg); err != nil && !errors.Is(err, context.Canceled) {
			logg.Error(ctx, "sync responder stopped", err)
		}
	}()

	cartStore := cart.NewStore(synchronizer)

	scannerSvc, err := scanner.NewService(
		scanner.NewDecoder(cfg.Scanner.BurstGap),
		catalogSvc,
		cartStore,
		logg,
		terminalMetrics,
	)
	if err != nil {
		logg.Error(ctx, "failed to create scanner service", err)
		os.Exit(1)
	}

	journal, err := receipts.NewJournal(dbClient)
	if err != nil {
		logg.Error(ctx, "failed to create receipt journal", err)
		os.Exit(1)
	}
	printer, err := receipts.NewTextPrinter(os.Stdout, cfg.Terminal.StoreName, cfg.Terminal.ReceiptNote)
	if err != nil {
		logg.Error(ctx, "failed to create printer", err)
		os.Exit(1)
	}
	sequence, err := receipts.NewSequence(redisClient)
	if err != nil {
		logg.Error(ctx, "failed to create receipt sequence", err)
		os.Exit(1)
	}
	receiptSvc, err := receipts.NewService(journal, printer, sequence, logg)
	if err != nil {
		logg.Error(ctx, "failed to create receipt service", err)
		os.Exit(1)
	}

	ledgerClient, err := checkout.NewClient(cfg.Ledger, logg)
	if err != nil {
		logg.Error(ctx, "failed to create ledger client", err)
		os.Exit(1)
	}
	orchestrator, err := checkout.NewOrchestrator(
		cartStore,
		ledgerClient,
		receiptSvc,
		catalogSvc,
		cfg.Terminal.ID,
		cfg.Checkout.PrintDelay,
		logg,
		terminalMetrics,
	)
	if err != nil {
		logg.Error(ctx, "failed to create checkout orchestrator", err)
		os.Exit(1)
	}

	guard, err := lockdown.NewGuard(cfg.Security.UnlockPINHash)
	if err != nil {
		logg.Error(ctx, "failed to create lockdown guard", err)
		os.Exit(1)
	}

	addr := ":" + cfg.App.Port
	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg, logg, dbClient, redisClient,
			catalogSvc, cartStore, scannerSvc, orchestrator, receiptSvc, guard,
			registry,
		),
		ReadHeaderTimeout: 10 * time.Second,
	}

	startCtx := logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"terminal": cfg.Terminal.ID,
	})
	logg.Info(startCtx, "starting terminal server")

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(startCtx, "terminal server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logg.Info(startCtx, "shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err = server.Shutdown(shutdownCtx)
	err = multierr.Append(err, redisClient.Close())
	err = multierr.Append(err, dbClient.Close())
	if err != nil {
		logg.Error(startCtx, "shutdown finished with errors", err)
		os.Exit(1)
	}
	logg.Info(startCtx, "terminal stopped")
}

// warmCatalog loads the product cache on boot; a failure is logged, not
// fatal, since the register can refresh once the back office is reachable.
func warmCatalog(ctx context.Context, cfg *config.Config, logg *logger.Logger, svc *catalog.Service) {
	warmCtx, cancel := context.WithTimeout(ctx, cfg.Catalog.RequestTimeout)
	defer cancel()
	if err := svc.Refresh(warmCtx); err != nil {
		logg.Error(ctx, "initial catalog load failed", err)
	}
}
