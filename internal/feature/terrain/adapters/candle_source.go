// Package adapters は terrain ユースケースが利用する外部データソースの実装を提供します。
package adapters

import (
	"context"

	candle "stock_terrain/internal/feature/candles/domain/entity"
	"stock_terrain/internal/feature/terrain/domain/grid"
	"stock_terrain/internal/feature/terrain/usecase"
)

// YearSampler は1年分の日足サンプルを古い順に返します（candles の SamplesUsecase が実装します）。
type YearSampler interface {
	YearSamples(ctx context.Context, symbol string, year int) ([]candle.Sample, error)
}

// CandleSource は日足サンプルの終値を地形グリッドの入力点に変換します。
type CandleSource struct {
	samples YearSampler
}

var _ usecase.PriceSource = (*CandleSource)(nil)

// NewCandleSource はCandleSourceの新しいインスタンスを生成します。
func NewCandleSource(samples YearSampler) *CandleSource {
	return &CandleSource{samples: samples}
}

// YearPoints returns one point per sample, valued at the close price.
func (c *CandleSource) YearPoints(ctx context.Context, symbol string, year int) ([]grid.Point, error) {
	ss, err := c.samples.YearSamples(ctx, symbol, year)
	if err != nil {
		return nil, err
	}
	pts := make([]grid.Point, 0, len(ss))
	for _, s := range ss {
		pts = append(pts, grid.Point{Time: s.Time, Value: s.Close})
	}
	return pts, nil
}
