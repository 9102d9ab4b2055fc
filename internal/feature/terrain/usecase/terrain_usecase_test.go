package usecase

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock_terrain/internal/feature/terrain/domain/grid"
)

var ErrUpstream = errors.New("upstream error")

// mockPriceSource is a mock implementation of the PriceSource interface.
type mockPriceSource struct {
	YearPointsFunc func(ctx context.Context, symbol string, year int) ([]grid.Point, error)
	calls          atomic.Int32
}

func (m *mockPriceSource) YearPoints(ctx context.Context, symbol string, year int) ([]grid.Point, error) {
	m.calls.Add(1)
	if m.YearPointsFunc != nil {
		return m.YearPointsFunc(ctx, symbol, year)
	}
	return nil, nil
}

func singlePoint(year int, price float64) []grid.Point {
	return []grid.Point{{Time: time.Date(year, time.June, 15, 0, 0, 0, 0, time.UTC), Value: price}}
}

func TestBuildCalendar_SingleSampleFlatGrid(t *testing.T) {
	t.Parallel()

	src := &mockPriceSource{YearPointsFunc: func(ctx context.Context, symbol string, year int) ([]grid.Point, error) {
		assert.Equal(t, "AAPL", symbol, "symbol should be normalized")
		assert.Equal(t, 2024, year)
		return singlePoint(year, 200), nil
	}}
	u := NewTerrainUsecase(src, DefaultOptions())

	s, err := u.BuildCalendar(context.Background(), " aapl ", 2024)
	require.NoError(t, err)

	assert.Equal(t, KindCalendar, s.Kind)
	assert.Equal(t, "AAPL", s.Symbol)
	assert.Equal(t, "calendar:AAPL:2024", s.Key())
	assert.True(t, s.Grid.Filled())
	for r := 0; r < grid.Months; r++ {
		for c := 0; c < grid.DaysPerMonth; c++ {
			assert.Equal(t, 200.0, s.Grid.At(r, c).Value)
		}
	}
	assert.Equal(t, grid.Range{Min: 195, Max: 205}, s.Range)
	assert.Equal(t, 195.0, s.Mapping().Base)
	assert.Equal(t, 10.0, s.Mapping().Spread)
	assert.Equal(t, 12*31, s.Mesh.VertexCount())
	assert.Equal(t, 2*11*30, s.Mesh.TriangleCount())
	assert.True(t, s.Mesh.Pickable)
	assert.Empty(t, s.Advisories)
	assert.Equal(t, 1, s.Report.Written)
}

func TestBuildCalendar_FetchFailureDegradesToEmptyScene(t *testing.T) {
	t.Parallel()

	src := &mockPriceSource{YearPointsFunc: func(ctx context.Context, symbol string, year int) ([]grid.Point, error) {
		return nil, ErrUpstream
	}}
	u := NewTerrainUsecase(src, DefaultOptions())

	s, err := u.BuildCalendar(context.Background(), "AAPL", 2024)
	require.NoError(t, err, "fetch failures must not fail the build")

	assert.True(t, s.HasAdvisory(AdvisoryFetchFailure))
	assert.True(t, s.HasAdvisory(AdvisoryEmptyGrid))
	assert.True(t, s.Grid.Empty())
	assert.Equal(t, grid.DefaultRange, s.Range)
	assert.False(t, s.Mesh.Pickable, "empty grids render flat and never hit")
	for _, h := range s.Mesh.Heights {
		assert.Zero(t, h)
	}
}

func TestBuildCalendar_NilSourceIsFetchFailure(t *testing.T) {
	t.Parallel()

	u := NewTerrainUsecase(nil, DefaultOptions())
	s, err := u.BuildCalendar(context.Background(), "AAPL", 2024)
	require.NoError(t, err)
	assert.True(t, s.HasAdvisory(AdvisoryFetchFailure))
}

func TestBuildCalendar_DroppedSamplesAdvisory(t *testing.T) {
	t.Parallel()

	src := &mockPriceSource{YearPointsFunc: func(ctx context.Context, symbol string, year int) ([]grid.Point, error) {
		pts := singlePoint(year, 120)
		pts = append(pts, grid.Point{Time: time.Date(year-1, 12, 31, 0, 0, 0, 0, time.UTC), Value: 90})
		return pts, nil
	}}
	u := NewTerrainUsecase(src, DefaultOptions())

	s, err := u.BuildCalendar(context.Background(), "AAPL", 2024)
	require.NoError(t, err)
	assert.True(t, s.HasAdvisory(AdvisoryDroppedSamples))
	assert.False(t, s.HasAdvisory(AdvisoryEmptyGrid))
	assert.Equal(t, 1, s.Report.Dropped)
}

func TestBuildCalendar_InvalidArguments(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		symbol string
		year   int
		want   error
	}{
		{"empty symbol", "  ", 2024, ErrInvalidSymbol},
		{"year too small", "AAPL", MinYear - 1, ErrInvalidYear},
		{"year too large", "AAPL", MaxYear + 1, ErrInvalidYear},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src := &mockPriceSource{}
			u := NewTerrainUsecase(src, DefaultOptions())
			_, err := u.BuildCalendar(context.Background(), tt.symbol, tt.year)
			assert.ErrorIs(t, err, tt.want)
			assert.Zero(t, src.calls.Load(), "source must not be called for invalid input")
		})
	}
}

func TestBuildCalendar_ConcurrentCallsShareOneBuild(t *testing.T) {
	t.Parallel()

	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	src := &mockPriceSource{YearPointsFunc: func(ctx context.Context, symbol string, year int) ([]grid.Point, error) {
		once.Do(func() { close(started) })
		<-release
		return singlePoint(year, 150), nil
	}}
	u := NewTerrainUsecase(src, DefaultOptions())

	const callers = 4
	scenes := make([]*Scene, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s, err := u.BuildCalendar(context.Background(), "MSFT", 2023)
			assert.NoError(t, err)
			scenes[i] = s
		}(i)
	}

	<-started
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), src.calls.Load(), "identical builds should be deduplicated")
	for _, s := range scenes {
		assert.Same(t, scenes[0], s)
	}
}

func TestBuildCalendar_CallerCancelReturnsEarly(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	defer close(release)
	src := &mockPriceSource{YearPointsFunc: func(ctx context.Context, symbol string, year int) ([]grid.Point, error) {
		<-release
		return nil, nil
	}}
	u := NewTerrainUsecase(src, DefaultOptions())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := u.BuildCalendar(ctx, "AAPL", 2024)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestBuildSynthetic(t *testing.T) {
	t.Parallel()

	opts := DefaultOptions()
	u := NewTerrainUsecase(nil, opts)

	a, err := u.BuildSynthetic(42, 32)
	require.NoError(t, err)
	b, err := u.BuildSynthetic(42, 32)
	require.NoError(t, err)
	c, err := u.BuildSynthetic(43, 32)
	require.NoError(t, err)

	assert.True(t, a.Grid.Equal(b.Grid), "same seed must give identical grids")
	assert.False(t, a.Grid.Equal(c.Grid), "different seeds should differ")

	assert.Equal(t, KindSynthetic, a.Kind)
	assert.Equal(t, "synthetic:42:32", a.Key())
	assert.Equal(t, 32*32, a.Mesh.VertexCount())
	assert.True(t, a.Mesh.Pickable)
	assert.Equal(t, opts.Synthetic.BasePrice, a.Mapping().Base)
	assert.Equal(t, opts.Synthetic.Spread, a.Mapping().Spread)

	lo, hi := opts.Synthetic.BasePrice, opts.Synthetic.BasePrice+opts.Synthetic.Spread
	for r := 0; r < a.Grid.Rows(); r++ {
		for col := 0; col < a.Grid.Cols(); col++ {
			v := a.Grid.At(r, col).Value
			assert.GreaterOrEqual(t, v, lo-1e-9)
			assert.LessOrEqual(t, v, hi+1e-9)
		}
	}
	for _, h := range a.Mesh.Heights {
		assert.GreaterOrEqual(t, h, 0.0)
		assert.LessOrEqual(t, h, 1.0)
	}
}

func TestBuildSynthetic_Size(t *testing.T) {
	t.Parallel()

	u := NewTerrainUsecase(nil, DefaultOptions())

	s, err := u.BuildSynthetic(1, 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultOptions().Synthetic.Size, s.Grid.Rows(), "size 0 uses the default")

	for _, size := range []int{1, -3, DefaultOptions().Synthetic.MaxSize + 1} {
		_, err := u.BuildSynthetic(1, size)
		assert.ErrorIs(t, err, ErrInvalidSize, "size %d", size)
	}
}
