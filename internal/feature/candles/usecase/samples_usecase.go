// Package usecase は株価サンプル（ローソク足）の取得と取り込みのビジネスロジックを実装します。
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"stock_terrain/internal/feature/candles/domain/entity"
)

const (
	// DefaultInterval はローソク足クエリのデフォルト時間間隔です。
	DefaultInterval = "1day"
	// DefaultOutputSize はデフォルトのローソク足返却件数です。
	DefaultOutputSize = 200
	// MaxOutputSize はローソク足の最大返却件数です。
	MaxOutputSize = 5000

	// MinYear と MaxYear は年単位クエリで受け付ける範囲です。
	MinYear = 1970
	MaxYear = 2100
)

// SampleRepository は株価サンプルの永続化レイヤーを抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type SampleRepository interface {
	// Find は新しい順に最大 outputsize 件のサンプルを返します。
	Find(ctx context.Context, symbol, interval string, outputsize int) ([]entity.Sample, error)
	// FindRange は [from, to) に含まれるサンプルを古い順に返します。
	FindRange(ctx context.Context, symbol, interval string, from, to time.Time) ([]entity.Sample, error)
	// UpsertBatch はサンプルを一括で挿入または更新します。
	UpsertBatch(ctx context.Context, samples []entity.Sample) error
}

// RangeMarket は期間指定で日足を取得できる外部APIを抽象化します。
type RangeMarket interface {
	GetTimeSeriesRange(ctx context.Context, symbol, interval string, from, to time.Time) ([]entity.Sample, error)
}

// Waiter はレートリミッターのインターフェースです。
type Waiter interface {
	Wait(ctx context.Context) error
}

// SamplesUsecase は株価サンプルの読み取りユースケースを定義します。
type SamplesUsecase struct {
	repo    SampleRepository
	market  RangeMarket // nil の場合は外部APIへの読み込みを行わない
	limiter Waiter
	now     func() time.Time
}

// NewSamplesUsecase はSamplesUsecaseの新しいインスタンスを生成します。
// market が nil の場合はDBに保存済みのデータのみを返します。
func NewSamplesUsecase(repo SampleRepository, market RangeMarket, limiter Waiter) *SamplesUsecase {
	return &SamplesUsecase{repo: repo, market: market, limiter: limiter, now: time.Now}
}

// GetCandles は指定された銘柄と時間間隔のローソク足データを取得します（2Dチャート用）。
func (u *SamplesUsecase) GetCandles(ctx context.Context, symbol, interval string, outputsize int) ([]entity.Sample, error) {
	if symbol == "" {
		return nil, ErrInvalidSymbol
	}
	if interval == "" {
		interval = DefaultInterval
	}
	if outputsize <= 0 || outputsize > MaxOutputSize {
		outputsize = DefaultOutputSize
	}

	cs, err := u.repo.Find(ctx, symbol, interval, outputsize)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchFailure, err)
	}
	return cs, nil
}

// YearSamples は指定された年の日足サンプルを古い順に返します。
//
// まずDB（キャッシュ経由）を参照し、1件も無く外部APIが設定されていれば
// Twelve Dataから取得してDBへ保存します（保存失敗はログのみ）。
// 対象年外・不正なサンプルは除外します。取得エラーは ErrFetchFailure でラップして返します。
func (u *SamplesUsecase) YearSamples(ctx context.Context, symbol string, year int) ([]entity.Sample, error) {
	if symbol == "" {
		return nil, ErrInvalidSymbol
	}
	if year < MinYear || year > MaxYear {
		return nil, ErrInvalidYear
	}
	from, to := entity.YearBounds(year)

	ss, err := u.repo.FindRange(ctx, symbol, DefaultInterval, from, to)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchFailure, err)
	}

	if len(ss) == 0 && u.market != nil && !from.After(u.now()) {
		ss, err = u.fetchYear(ctx, symbol, from, to)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrFetchFailure, err)
		}
	}

	return normalize(ss, symbol, from, to), nil
}

// fetchYear は外部APIから1年分の日足を取得し、ベストエフォートでDBに保存します。
func (u *SamplesUsecase) fetchYear(ctx context.Context, symbol string, from, to time.Time) ([]entity.Sample, error) {
	if u.limiter != nil {
		if err := u.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}
	// Twelve Data の end_date は当日を含むため1日前を渡す
	ss, err := u.market.GetTimeSeriesRange(ctx, symbol, DefaultInterval, from, to.AddDate(0, 0, -1))
	if err != nil {
		return nil, err
	}
	for i := range ss {
		ss[i].Symbol = symbol
		ss[i].Interval = DefaultInterval
	}
	if err := u.repo.UpsertBatch(ctx, ss); err != nil {
		slog.Warn("failed to store fetched samples", "symbol", symbol, "count", len(ss), "error", err)
	}
	slog.Info("fetched samples from market", "symbol", symbol, "from", from.Format("2006-01-02"), "count", len(ss))
	return ss, nil
}

// normalize は期間外・不正なサンプルを取り除き、古い順に並べ替えます。
func normalize(ss []entity.Sample, symbol string, from, to time.Time) []entity.Sample {
	out := make([]entity.Sample, 0, len(ss))
	dropped := 0
	for _, s := range ss {
		t := s.Time.UTC()
		if t.Before(from) || !t.Before(to) || !s.Valid() {
			dropped++
			continue
		}
		out = append(out, s)
	}
	if dropped > 0 {
		slog.Warn("dropped samples outside the year or malformed", "symbol", symbol, "dropped", dropped)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })
	return out
}
