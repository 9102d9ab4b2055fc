package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"strings"
	"time"

	"stock_terrain/internal/app/di"
	candlesadapters "stock_terrain/internal/feature/candles/adapters"
	candlesusecase "stock_terrain/internal/feature/candles/usecase"
	symbollistadapters "stock_terrain/internal/feature/symbollist/adapters"
	symbolentity "stock_terrain/internal/feature/symbollist/domain/entity"
	symbollistusecase "stock_terrain/internal/feature/symbollist/usecase"
	"stock_terrain/internal/platform/db"
	"stock_terrain/internal/platform/redis"
)

func main() {
	seed := flag.String("seed", "", "comma separated symbol codes to register before ingesting (e.g. AAPL,MSFT)")
	timeout := flag.Duration("timeout", 30*time.Minute, "overall ingest timeout")
	flag.Parse()

	if err := run(*seed, *timeout); err != nil {
		slog.Error("ingest failed", "error", err)
		os.Exit(1)
	}
}

func run(seed string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	market := di.NewMarket()
	if market == nil {
		return errors.New("TWELVE_DATA_API_KEY is required for ingest")
	}

	gdb, err := db.OpenDB(db.LoadConfigFromEnv(), true, &candlesadapters.SampleModel{}, &symbolentity.Symbol{})
	if err != nil {
		return err
	}

	// 取り込み後に古いキャッシュを消すため、Redisがあればキャッシュ経由で書き込む
	rdb, err := redis.NewRedisClient(ctx, redis.LoadConfig())
	if err != nil {
		slog.Warn("Redis unavailable. Cached samples will expire at the next refresh.", "error", err)
		rdb = nil
	}
	if rdb != nil {
		defer func() {
			if err := rdb.Close(); err != nil {
				slog.Error("failed to close Redis client", "error", err)
			}
		}()
	}

	symbolUC := symbollistusecase.NewSymbolUsecase(symbollistadapters.NewSymbolRepository(gdb))
	if seed != "" {
		var symbols []symbolentity.Symbol
		for _, code := range strings.Split(seed, ",") {
			symbols = append(symbols, symbolentity.Symbol{Code: code})
		}
		n, err := symbolUC.Seed(ctx, symbols)
		if err != nil {
			return err
		}
		slog.Info("symbols registered", "count", n)
	}

	codes, err := symbolUC.ActiveCodes(ctx)
	if err != nil {
		return err
	}

	uc := candlesusecase.NewIngestUsecase(market, di.NewSampleRepository(gdb, rdb), di.NewMarketLimiter())
	rep, err := uc.IngestAll(ctx, codes)
	if err != nil {
		return err
	}
	slog.Info("ingest ok", "symbols", len(codes), "requests", rep.Requests, "stored", rep.Stored, "failed", rep.Failed)
	return nil
}
