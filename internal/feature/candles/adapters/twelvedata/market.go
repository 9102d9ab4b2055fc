package twelvedata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"stock_terrain/internal/feature/candles/adapters/twelvedata/dto"
	"stock_terrain/internal/feature/candles/domain/entity"
	"stock_terrain/internal/feature/candles/usecase"
)

// ErrRateLimited はTwelve Dataのクレジット上限（code 429）に達したことを示します。
var ErrRateLimited = errors.New("twelvedata: rate limited")

const dateLayout = "2006-01-02"

// TwelveDataMarket はTwelve Data外部APIから株価データを取得するMarketRepository実装です。
type TwelveDataMarket struct {
	cfg    Config
	client *http.Client
}

// TwelveDataMarketがMarketRepositoryとRangeMarketを実装していることをコンパイル時に検証します。
var (
	_ usecase.MarketRepository = (*TwelveDataMarket)(nil)
	_ usecase.RangeMarket      = (*TwelveDataMarket)(nil)
)

// NewTwelveDataMarket は指定された設定とHTTPクライアントでTwelveDataMarketの新しいインスタンスを生成します。
func NewTwelveDataMarket(cfg Config, client *http.Client) *TwelveDataMarket {
	return &TwelveDataMarket{cfg: cfg, client: client}
}

// GetTimeSeries は直近 outputsize 本の時系列データを取得します。
func (t *TwelveDataMarket) GetTimeSeries(ctx context.Context, symbol, interval string, outputsize int) ([]entity.Sample, error) {
	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("interval", interval)
	q.Set("outputsize", strconv.Itoa(outputsize))
	return t.timeSeries(ctx, q)
}

// GetTimeSeriesRange は start_date から end_date（両端を含む）までの時系列データを取得します。
func (t *TwelveDataMarket) GetTimeSeriesRange(ctx context.Context, symbol, interval string, from, to time.Time) ([]entity.Sample, error) {
	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("interval", interval)
	q.Set("start_date", from.UTC().Format(dateLayout))
	q.Set("end_date", to.UTC().Format(dateLayout))
	// 期間指定でも outputsize の既定値(30)で切られるため上限を指定する
	q.Set("outputsize", strconv.Itoa(usecase.MaxOutputSize))
	return t.timeSeries(ctx, q)
}

func (t *TwelveDataMarket) timeSeries(ctx context.Context, q url.Values) ([]entity.Sample, error) {
	q.Set("apikey", t.cfg.TwelveDataAPIKey)
	u := fmt.Sprintf("%s/time_series?%s", t.cfg.BaseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	res, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode == http.StatusTooManyRequests {
		return nil, ErrRateLimited
	}
	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("twelvedata http %d", res.StatusCode)
	}

	var body dto.TimeSeriesResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, err
	}
	if body.Status == "error" {
		if body.Code == http.StatusTooManyRequests {
			return nil, fmt.Errorf("%w: %s", ErrRateLimited, body.Message)
		}
		return nil, fmt.Errorf("twelvedata: %s", body.Message)
	}

	samples := make([]entity.Sample, 0, len(body.Values))
	for _, v := range body.Values {
		s, err := parseValue(v)
		if err != nil {
			return nil, err
		}
		s.Symbol = body.Meta.Symbol
		s.Interval = body.Meta.Interval
		samples = append(samples, s)
	}
	return samples, nil
}

// parseValue は文字列で返される1本のバーをサンプルに変換します。
// 出来高は指数など一部の銘柄で返されないため、空の場合は0とします。
func parseValue(v dto.Value) (entity.Sample, error) {
	tm, err := time.Parse("2006-01-02 15:04:05", v.Datetime)
	if err != nil {
		tm, err = time.Parse(dateLayout, v.Datetime)
		if err != nil {
			return entity.Sample{}, fmt.Errorf("parse time %q: %w", v.Datetime, err)
		}
	}
	o, err := strconv.ParseFloat(v.Open, 64)
	if err != nil {
		return entity.Sample{}, fmt.Errorf("parse open %q: %w", v.Open, err)
	}
	h, err := strconv.ParseFloat(v.High, 64)
	if err != nil {
		return entity.Sample{}, fmt.Errorf("parse high %q: %w", v.High, err)
	}
	l, err := strconv.ParseFloat(v.Low, 64)
	if err != nil {
		return entity.Sample{}, fmt.Errorf("parse low %q: %w", v.Low, err)
	}
	c, err := strconv.ParseFloat(v.Close, 64)
	if err != nil {
		return entity.Sample{}, fmt.Errorf("parse close %q: %w", v.Close, err)
	}
	var vol int64
	if v.Volume != "" {
		vol, err = strconv.ParseInt(v.Volume, 10, 64)
		if err != nil {
			return entity.Sample{}, fmt.Errorf("parse volume %q: %w", v.Volume, err)
		}
	}

	return entity.Sample{Time: tm, Open: o, High: h, Low: l, Close: c, Volume: vol}, nil
}
