package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"stock_terrain/internal/feature/candles/domain/entity"
)

var ErrMarketAPI = errors.New("market API error")

// mockMarketRepository is a mock implementation of the MarketRepository interface.
type mockMarketRepository struct {
	GetTimeSeriesFunc  func(ctx context.Context, symbol, interval string, outputsize int) ([]entity.Sample, error)
	GetTimeSeriesCalls int
}

func (m *mockMarketRepository) GetTimeSeries(ctx context.Context, symbol, interval string, outputsize int) ([]entity.Sample, error) {
	m.GetTimeSeriesCalls++
	if m.GetTimeSeriesFunc != nil {
		return m.GetTimeSeriesFunc(ctx, symbol, interval, outputsize)
	}
	return nil, errors.New("GetTimeSeriesFunc is not implemented")
}

// mockWriter is a mock implementation of the SampleWriter interface.
type mockWriter struct {
	UpsertBatchFunc func(ctx context.Context, samples []entity.Sample) error
}

func (m *mockWriter) UpsertBatch(ctx context.Context, samples []entity.Sample) error {
	if m.UpsertBatchFunc != nil {
		return m.UpsertBatchFunc(ctx, samples)
	}
	return nil
}

// mockLimiter is a mock implementation of the Waiter interface.
type mockLimiter struct {
	WaitCalls int
	Err       error
}

func (m *mockLimiter) Wait(ctx context.Context) error {
	m.WaitCalls++
	return m.Err
}

func testBars() []entity.Sample {
	testTime := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	return []entity.Sample{
		{Time: testTime, Open: 100, High: 110, Low: 90, Close: 105},
		{Time: testTime.AddDate(0, 0, -1), Open: 95, High: 105, Low: 85, Close: 100},
	}
}

func TestIngestUsecase_ingestOne(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name            string
		market          func(ctx context.Context, symbol, interval string, outputsize int) ([]entity.Sample, error)
		upsert          func(ctx context.Context, samples []entity.Sample) error
		expectedErr     error
		expectedStored  int
		verifyPersisted func(t *testing.T, samples []entity.Sample)
	}{
		{
			name: "success: symbol and interval are stamped on every bar",
			market: func(ctx context.Context, symbol, interval string, outputsize int) ([]entity.Sample, error) {
				return testBars(), nil
			},
			upsert:         func(ctx context.Context, samples []entity.Sample) error { return nil },
			expectedStored: 2,
			verifyPersisted: func(t *testing.T, samples []entity.Sample) {
				for _, s := range samples {
					if s.Symbol != "AAPL" || s.Interval != "1day" {
						t.Errorf("unexpected stamp: %+v", s)
					}
				}
			},
		},
		{
			name: "success: malformed bars are skipped",
			market: func(ctx context.Context, symbol, interval string, outputsize int) ([]entity.Sample, error) {
				bars := testBars()
				bars[1].Close = 0
				return bars, nil
			},
			upsert:         func(ctx context.Context, samples []entity.Sample) error { return nil },
			expectedStored: 1,
		},
		{
			name: "error: market API fails",
			market: func(ctx context.Context, symbol, interval string, outputsize int) ([]entity.Sample, error) {
				return nil, ErrMarketAPI
			},
			expectedErr: ErrMarketAPI,
		},
		{
			name: "error: upsert fails",
			market: func(ctx context.Context, symbol, interval string, outputsize int) ([]entity.Sample, error) {
				return testBars(), nil
			},
			upsert:      func(ctx context.Context, samples []entity.Sample) error { return ErrDB },
			expectedErr: ErrDB,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var persisted []entity.Sample
			writer := &mockWriter{UpsertBatchFunc: func(ctx context.Context, samples []entity.Sample) error {
				persisted = samples
				if tc.upsert == nil {
					t.Error("UpsertBatch should not be called")
					return nil
				}
				return tc.upsert(ctx, samples)
			}}
			uc := NewIngestUsecase(&mockMarketRepository{GetTimeSeriesFunc: tc.market}, writer, &mockLimiter{})

			n, err := uc.ingestOne(ctx, "AAPL", "1day", 400)

			if tc.expectedErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
			} else if !errors.Is(err, tc.expectedErr) {
				t.Fatalf("expected %v, got %v", tc.expectedErr, err)
			}
			if n != tc.expectedStored {
				t.Errorf("stored %d, expected %d", n, tc.expectedStored)
			}
			if tc.verifyPersisted != nil {
				tc.verifyPersisted(t, persisted)
			}
		})
	}
}

func TestIngestUsecase_IngestAll(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name           string
		symbols        []string
		failSymbol     string
		expectedReport IngestReport
	}{
		{
			name:           "success: fetch all symbols and intervals",
			symbols:        []string{"AAPL", "GOOG"},
			expectedReport: IngestReport{Requests: 6, Stored: 12},
		},
		{
			name:           "success: empty symbol list",
			symbols:        []string{},
			expectedReport: IngestReport{},
		},
		{
			name:           "success: continues processing even when some symbols fail",
			symbols:        []string{"AAPL", "INVALID", "GOOG"},
			failSymbol:     "INVALID",
			expectedReport: IngestReport{Requests: 9, Stored: 12, Failed: 3},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			market := &mockMarketRepository{
				GetTimeSeriesFunc: func(ctx context.Context, symbol, interval string, outputsize int) ([]entity.Sample, error) {
					if symbol == tc.failSymbol {
						return nil, ErrMarketAPI
					}
					return testBars(), nil
				},
			}
			limiter := &mockLimiter{}
			uc := NewIngestUsecase(market, &mockWriter{}, limiter)

			rep, err := uc.IngestAll(ctx, tc.symbols)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if rep != tc.expectedReport {
				t.Errorf("report %+v, expected %+v", rep, tc.expectedReport)
			}
			if limiter.WaitCalls != tc.expectedReport.Requests {
				t.Errorf("limiter waited %d times, expected %d", limiter.WaitCalls, tc.expectedReport.Requests)
			}
		})
	}
}

func TestIngestUsecase_IngestAll_Intervals(t *testing.T) {
	var called []string
	var sizes []int
	market := &mockMarketRepository{
		GetTimeSeriesFunc: func(ctx context.Context, symbol, interval string, outputsize int) ([]entity.Sample, error) {
			called = append(called, interval)
			sizes = append(sizes, outputsize)
			return testBars(), nil
		},
	}

	uc := NewIngestUsecase(market, &mockWriter{}, &mockLimiter{})
	if _, err := uc.IngestAll(context.Background(), []string{"AAPL"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := []string{"1day", "1week", "1month"}
	if len(called) != len(expected) {
		t.Fatalf("intervals count mismatch: got %d, want %d", len(called), len(expected))
	}
	for i := range expected {
		if called[i] != expected[i] {
			t.Errorf("interval[%d] mismatch: got %s, want %s", i, called[i], expected[i])
		}
	}
	if sizes[0] < 366 {
		t.Errorf("daily ingest must cover a full year, got outputsize %d", sizes[0])
	}
}

// TestIngestUsecase_IngestAll_ContextCanceled はレートリミッターの待機がキャンセルされた場合に中断することを検証します。
func TestIngestUsecase_IngestAll_ContextCanceled(t *testing.T) {
	market := &mockMarketRepository{}
	uc := NewIngestUsecase(market, &mockWriter{}, &mockLimiter{Err: context.Canceled})

	_, err := uc.IngestAll(context.Background(), []string{"AAPL"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if market.GetTimeSeriesCalls != 0 {
		t.Errorf("market should not be called, got %d calls", market.GetTimeSeriesCalls)
	}
}
