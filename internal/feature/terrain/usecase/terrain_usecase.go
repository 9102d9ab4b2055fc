// Package usecase は株価グリッドと合成地形からシーンを組み立て、ビューアに配信するロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"stock_terrain/internal/feature/terrain/domain/grid"
	"stock_terrain/internal/feature/terrain/domain/mesh"
	"stock_terrain/internal/feature/terrain/domain/noise"
)

const (
	// MinYear と MaxYear はカレンダー地形で受け付ける年の範囲です。
	MinYear = 1970
	MaxYear = 2100

	defaultBuildTimeout = 20 * time.Second
)

// PriceSource は1年分の日次終値を提供します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type PriceSource interface {
	YearPoints(ctx context.Context, symbol string, year int) ([]grid.Point, error)
}

// SyntheticOptions は合成地形（デモモード）のパラメータです。
type SyntheticOptions struct {
	Size      int
	MaxSize   int
	Octaves   int
	Scale     float64
	BasePrice float64
	Spread    float64
}

// Options はシーン生成の表示パラメータです。
type Options struct {
	Axes         mesh.Axes
	Ramp         mesh.Ramp
	Policy       grid.RangePolicy
	Synthetic    SyntheticOptions
	BuildTimeout time.Duration
}

// DefaultOptions returns the options used when no terrain config is supplied.
func DefaultOptions() Options {
	return Options{
		// 12行×31列を見た目で釣り合わせるため月方向を伸ばす
		Axes:   mesh.Axes{ScaleX: 1, ScaleZ: 2.5, Height: 10},
		Ramp:   mesh.DefaultRamp(),
		Policy: grid.DefaultRangePolicy(),
		Synthetic: SyntheticOptions{
			Size:      64,
			MaxSize:   256,
			Octaves:   noise.DefaultOctaves,
			Scale:     noise.DefaultScale,
			BasePrice: 100,
			Spread:    50,
		},
		BuildTimeout: defaultBuildTimeout,
	}
}

// TerrainUsecase はカレンダー地形と合成地形のシーンを生成します。
type TerrainUsecase struct {
	source PriceSource
	opts   Options
	group  singleflight.Group
}

// NewTerrainUsecase はTerrainUsecaseの新しいインスタンスを生成します。
// source が nil の場合、カレンダー地形は常に取得失敗として扱われます。
func NewTerrainUsecase(source PriceSource, opts Options) *TerrainUsecase {
	if opts.BuildTimeout <= 0 {
		opts.BuildTimeout = defaultBuildTimeout
	}
	return &TerrainUsecase{source: source, opts: opts}
}

// BuildCalendar は銘柄と年から12×31のカレンダー地形を生成します。
//
// 取得失敗は致命的ではなく、0件のサンプルとして平坦なシーンを返し
// AdvisoryFetchFailure を付与します。同じ(銘柄, 年)への同時リクエストは
// 1回のビルドにまとめられ、呼び出し元の ctx がキャンセルされると結果を待たずに戻ります。
func (u *TerrainUsecase) BuildCalendar(ctx context.Context, symbol string, year int) (*Scene, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, ErrInvalidSymbol
	}
	if year < MinYear || year > MaxYear {
		return nil, ErrInvalidYear
	}

	key := fmt.Sprintf("%s|%d", symbol, year)
	ch := u.group.DoChan(key, func() (any, error) {
		// 共有ビルドは先頭の呼び出し元のキャンセルに巻き込まれないよう切り離す
		bctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), u.opts.BuildTimeout)
		defer cancel()
		return u.buildCalendar(bctx, symbol, year)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Scene), nil
	}
}

func (u *TerrainUsecase) buildCalendar(ctx context.Context, symbol string, year int) (*Scene, error) {
	var (
		points    []grid.Point
		fetchErr  error
		startedAt = time.Now()
	)
	if u.source == nil {
		fetchErr = errors.New("no price source configured")
	} else {
		points, fetchErr = u.source.YearPoints(ctx, symbol, year)
	}
	if fetchErr != nil {
		slog.Warn("price fetch failed, building empty terrain", "symbol", symbol, "year", year, "error", fetchErr)
		points = nil
	}

	g, rng, rep := grid.NewBuilder(year, u.opts.Policy).Build(points)
	s, err := u.project(KindCalendar, g, rng, mesh.RangeMapping(rng))
	if err != nil {
		return nil, err
	}
	s.Symbol = symbol
	s.Year = year
	s.Report = rep

	if fetchErr != nil {
		s.advise(AdvisoryFetchFailure, "price data for %s %d could not be fetched", symbol, year)
	}
	if rep.Empty {
		s.advise(AdvisoryEmptyGrid, "no observations for %s in %d", symbol, year)
	}
	if rep.Dropped > 0 {
		s.advise(AdvisoryDroppedSamples, "%d samples outside %d were ignored", rep.Dropped, year)
	}

	slog.Info("built calendar terrain",
		"symbol", symbol,
		"year", year,
		"written", rep.Written,
		"dropped", rep.Dropped,
		"empty", rep.Empty,
		"elapsed", time.Since(startedAt),
	)
	return s, nil
}

// BuildSynthetic は seed から size×size の合成地形を生成します。size が0の場合は既定値を使います。
// 高さ[0,1]は BasePrice + h×Spread の価格に変換され、同じ写像でピック値に戻されます。
func (u *TerrainUsecase) BuildSynthetic(seed int64, size int) (*Scene, error) {
	so := u.opts.Synthetic
	if size == 0 {
		size = so.Size
	}
	if size < 2 || (so.MaxSize > 0 && size > so.MaxSize) {
		return nil, ErrInvalidSize
	}

	heights, _, err := noise.Synthesize(noise.Options{
		Size:    size,
		Seed:    seed,
		Octaves: so.Octaves,
		Scale:   so.Scale,
	})
	if err != nil {
		return nil, err
	}

	mapping := mesh.ValueMapping{Base: so.BasePrice, Spread: so.Spread}
	prices, err := grid.New(heights.Rows(), heights.Cols())
	if err != nil {
		return nil, err
	}
	for r := 0; r < heights.Rows(); r++ {
		for c := 0; c < heights.Cols(); c++ {
			prices.Set(r, c, mapping.Denormalize(heights.At(r, c).Value))
		}
	}

	rng := grid.Range{Min: mapping.Base, Max: mapping.Base + mapping.Spread}
	s, err := u.project(KindSynthetic, prices, rng, mapping)
	if err != nil {
		return nil, err
	}
	s.Seed = seed
	s.Report = grid.Report{Written: size * size}
	return s, nil
}

func (u *TerrainUsecase) project(kind Kind, g *grid.Grid, rng grid.Range, mapping mesh.ValueMapping) (*Scene, error) {
	p, err := mesh.NewProjector(u.opts.Axes.Centered(g.Rows(), g.Cols()), mapping, u.opts.Ramp)
	if err != nil {
		return nil, err
	}
	m, err := p.Project(g)
	if err != nil {
		return nil, err
	}
	return newScene(kind, g, rng, p, m), nil
}
