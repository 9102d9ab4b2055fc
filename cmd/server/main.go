package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stock_terrain/internal/app/di"
	"stock_terrain/internal/app/router"
	candlesadapters "stock_terrain/internal/feature/candles/adapters"
	candleshandler "stock_terrain/internal/feature/candles/transport/handler"
	candlesusecase "stock_terrain/internal/feature/candles/usecase"
	symbollistadapters "stock_terrain/internal/feature/symbollist/adapters"
	symbolentity "stock_terrain/internal/feature/symbollist/domain/entity"
	symbollisthandler "stock_terrain/internal/feature/symbollist/transport/handler"
	symbollistusecase "stock_terrain/internal/feature/symbollist/usecase"
	terrainadapters "stock_terrain/internal/feature/terrain/adapters"
	terrainconfig "stock_terrain/internal/feature/terrain/config"
	terrainhandler "stock_terrain/internal/feature/terrain/transport/handler"
	terrainusecase "stock_terrain/internal/feature/terrain/usecase"
	"stock_terrain/internal/platform/db"
	"stock_terrain/internal/platform/http/handler"
	"stock_terrain/internal/platform/redis"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	terrainCfg, err := terrainconfig.LoadFromEnv()
	if err != nil {
		return err
	}

	// db
	gdb, err := db.OpenDB(db.LoadConfigFromEnv(), os.Getenv("DB_MIGRATE") != "false",
		&candlesadapters.SampleModel{}, &symbolentity.Symbol{})
	if err != nil {
		return err
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	defer func() {
		if err := sqlDB.Close(); err != nil {
			slog.Error("failed to close database", "error", err)
		}
	}()

	// Redis（任意）
	rdb, err := redis.NewRedisClient(ctx, redis.LoadConfig())
	if err != nil {
		slog.Warn("Redis unavailable. Running without cache.", "error", err)
		rdb = nil
	}
	if rdb != nil {
		defer func() {
			if err := rdb.Close(); err != nil {
				slog.Error("failed to close Redis client", "error", err)
			}
		}()
	}

	// Repository
	sampleRepo := di.NewSampleRepository(gdb, rdb)
	symbolRepo := symbollistadapters.NewSymbolRepository(gdb)

	// Usecase
	var market candlesusecase.RangeMarket
	if m := di.NewMarket(); m != nil {
		market = m
	}
	samplesUC := candlesusecase.NewSamplesUsecase(sampleRepo, market, di.NewMarketLimiter())
	symbolUC := symbollistusecase.NewSymbolUsecase(symbolRepo)
	terrainUC := terrainusecase.NewTerrainUsecase(terrainadapters.NewCandleSource(samplesUC), terrainCfg.Options())
	registry := terrainusecase.NewRegistry(terrainUC, terrainCfg.InitialCamera(), terrainCfg.Viewer.MaxViewers)

	// Handler
	checks := map[string]handler.Check{
		"db": sqlDB.PingContext,
	}
	if rdb != nil {
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}
	routerCfg := router.LoadConfig()
	if routerCfg.JWTSecret == "" {
		slog.Warn("JWT_SECRET is not set; /views rejects every request")
	}
	r := router.NewRouter(routerCfg, router.Handlers{
		Candles: candleshandler.NewCandlesHandler(samplesUC),
		Symbols: symbollisthandler.NewSymbolHandler(symbolUC),
		Terrain: terrainhandler.NewTerrainHandler(terrainUC, terrainCfg.Synthetic.Seed),
		Views:   terrainhandler.NewViewsHandler(registry, terrainusecase.NewFrameLoop(terrainCfg.Viewer.FrameInterval), nil),
		Ready:   handler.Readiness(checks),
	})

	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", addr, "market", market != nil, "cache", rdb != nil)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	registry.CloseAll()
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(sctx)
}
