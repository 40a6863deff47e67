package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"
	"golang.org/x/sync/errgroup"

	"github.com/api-sage/timelock-savings/src/internal/adapter/http/controller"
	"github.com/api-sage/timelock-savings/src/internal/adapter/http/middleware"
	"github.com/api-sage/timelock-savings/src/internal/adapter/http/router"
	"github.com/api-sage/timelock-savings/src/internal/adapter/repository/implementations"
	"github.com/api-sage/timelock-savings/src/internal/adapter/repository/memory"
	"github.com/api-sage/timelock-savings/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/timelock-savings/src/internal/config"
	"github.com/api-sage/timelock-savings/src/internal/domain"
	"github.com/api-sage/timelock-savings/src/internal/logger"
	"github.com/api-sage/timelock-savings/src/internal/metrics"
	"github.com/api-sage/timelock-savings/src/internal/usecase/services"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Error("load config", err, nil)
		os.Exit(1)
	}
	logger.Configure(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logger.Error("server stopped with error", err, nil)
		os.Exit(1)
	}
	logger.Info("server stopped", nil)
}

func run(ctx context.Context, cfg config.Config) error {
	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	collector := metrics.NewCollector()
	clock := domain.NewChainClock(cfg.GenesisTime, cfg.BlockInterval)

	priceService := services.NewPriceService(store, clock, collector)
	walletService := services.NewWalletService(store, clock, collector)
	depositService := services.NewDepositService(store, clock, collector)
	legacyService := services.NewLegacyService(store, clock, collector)
	groupService := services.NewGroupService(store, clock, collector)

	if err := priceService.Bootstrap(ctx, cfg.PriceAuthority, cfg.InitialPrice); err != nil {
		return err
	}

	mux := router.New(router.Controllers{
		Deposit: controller.NewDepositController(depositService, clock),
		Legacy:  controller.NewLegacyController(legacyService, clock),
		Group:   controller.NewGroupController(groupService, clock),
		Price:   controller.NewPriceController(priceService),
		Wallet:  controller.NewWalletController(walletService),
		System:  controller.NewSystemController(clock, collector),
	}, middleware.BasicAuth(cfg.ChannelID, cfg.ChannelKey, cfg.ChannelKeyHash))

	handler := cors.New(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
	}).Handler(middleware.RequestID(mux))

	apiServer := &http.Server{Addr: cfg.HTTPAddr, Handler: handler, ReadHeaderTimeout: 10 * time.Second}
	metricsServer := &http.Server{Addr: cfg.MetricsAddr, Handler: collector.Handler(), ReadHeaderTimeout: 10 * time.Second}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return serve(apiServer, "api") })
	g.Go(func() error { return serve(metricsServer, "metrics") })
	g.Go(func() error {
		trackBlockHeight(gctx, clock, collector, cfg.BlockInterval)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return errors.Join(apiServer.Shutdown(shutdownCtx), metricsServer.Shutdown(shutdownCtx))
	})

	return g.Wait()
}

// openStore selects the ledger backend. The returned close func is always
// safe to call.
func openStore(ctx context.Context, cfg config.Config) (repo_interfaces.LedgerStore, func(), error) {
	if cfg.StoreDriver == config.StoreDriverMemory {
		logger.Info("using in-memory ledger store", nil)
		return memory.NewLedgerStore(), func() {}, nil
	}

	db, err := implementations.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, func() {}, err
	}
	closeDB := func() { _ = db.Close() }

	if err := implementations.RunMigrations(ctx, db, cfg.MigrationsDir); err != nil {
		closeDB()
		return nil, func() {}, err
	}

	store, err := implementations.NewLedgerStore(db, cfg.CacheSize)
	if err != nil {
		closeDB()
		return nil, func() {}, err
	}
	return store, closeDB, nil
}

func serve(server *http.Server, name string) error {
	logger.Info("http server listening", logger.Fields{"server": name, "addr": server.Addr})
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func trackBlockHeight(ctx context.Context, clock domain.Clock, collector *metrics.Collector, interval time.Duration) {
	collector.SetBlockHeight(clock.BlockHeight())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			collector.SetBlockHeight(clock.BlockHeight())
		}
	}
}
