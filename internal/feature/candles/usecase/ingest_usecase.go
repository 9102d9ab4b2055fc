package usecase

import (
	"context"
	"log/slog"

	"stock_terrain/internal/feature/candles/domain/entity"
)

// ingestPlan は時間足ごとの取得件数です。日足は1年分の地形を組めるよう営業日1年超を取得します。
var ingestPlan = []struct {
	interval   string
	outputsize int
}{
	{interval: "1day", outputsize: 400},
	{interval: "1week", outputsize: 200},
	{interval: "1month", outputsize: 120},
}

// MarketRepository は株価データを取得するリポジトリのインターフェイスです。
// 外部 API の実装を抽象化します。
type MarketRepository interface {
	GetTimeSeries(ctx context.Context, symbol, interval string, outputsize int) ([]entity.Sample, error)
}

// SampleWriter はサンプルの書き込みレイヤーを抽象化します。
type SampleWriter interface {
	UpsertBatch(ctx context.Context, samples []entity.Sample) error
}

// IngestReport は取り込み結果の集計です。
type IngestReport struct {
	Requests int // 外部APIへのリクエスト数
	Stored   int // 保存したサンプル数
	Failed   int // 失敗した（銘柄, 時間足）の組み合わせ数
}

// IngestUsecase は外部APIからデータを取得し、データベースに永続化するユースケースを定義します。
type IngestUsecase struct {
	market  MarketRepository
	samples SampleWriter
	limiter Waiter
}

// NewIngestUsecase は新しい IngestUsecase を作成します。
func NewIngestUsecase(market MarketRepository, samples SampleWriter, limiter Waiter) *IngestUsecase {
	return &IngestUsecase{market: market, samples: samples, limiter: limiter}
}

// ingestOne は指定された銘柄と時間足の時系列データを外部リポジトリから取得し、
// 不正なバーを除いてデータベースに一括で挿入（または更新）します。
func (iu *IngestUsecase) ingestOne(ctx context.Context, symbol, interval string, outputsize int) (int, error) {
	ss, err := iu.market.GetTimeSeries(ctx, symbol, interval, outputsize)
	if err != nil {
		return 0, err
	}

	out := ss[:0]
	for _, s := range ss {
		if !s.Valid() {
			continue
		}
		s.Symbol = symbol
		s.Interval = interval
		out = append(out, s)
	}
	if err := iu.samples.UpsertBatch(ctx, out); err != nil {
		return 0, err
	}
	return len(out), nil
}

// IngestAll は指定された全銘柄の時系列データを日足・週足・月足で取得し、永続化します。
// 1つの銘柄で失敗しても処理を続けます。コンテキストが終了した場合のみエラーを返します。
func (iu *IngestUsecase) IngestAll(ctx context.Context, symbols []string) (IngestReport, error) {
	var rep IngestReport
	for _, s := range symbols {
		for _, p := range ingestPlan {
			if err := iu.limiter.Wait(ctx); err != nil {
				return rep, err
			}
			rep.Requests++
			n, err := iu.ingestOne(ctx, s, p.interval, p.outputsize)
			if err != nil {
				rep.Failed++
				slog.Error("failed to ingest data", "symbol", s, "interval", p.interval, "error", err)
				continue
			}
			rep.Stored += n
		}
	}
	return rep, nil
}
