package noise

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSynthesize_Deterministic は同じシードと解像度で同一のグリッドが生成されることを検証します。
func TestSynthesize_Deterministic(t *testing.T) {
	t.Parallel()

	a, sa, err := Synthesize(Options{Size: 32, Seed: 42})
	require.NoError(t, err)
	b, sb, err := Synthesize(Options{Size: 32, Seed: 42})
	require.NoError(t, err)

	assert.True(t, a.Equal(b))
	assert.Equal(t, sa, sb)
}

// TestSynthesize_SeedChangesField は異なるシードで異なる地形になることを検証します。
func TestSynthesize_SeedChangesField(t *testing.T) {
	t.Parallel()

	a, _, err := Synthesize(Options{Size: 16, Seed: 1})
	require.NoError(t, err)
	b, _, err := Synthesize(Options{Size: 16, Seed: 2})
	require.NoError(t, err)

	assert.False(t, a.Equal(b))
}

// TestSynthesize_Normalized は全セルが[0,1]に収まり、両端の値が実際に現れることを検証します。
func TestSynthesize_Normalized(t *testing.T) {
	t.Parallel()

	g, st, err := Synthesize(Options{Size: 24, Seed: 9})
	require.NoError(t, err)
	require.True(t, g.Filled())
	require.Less(t, st.RawMin, st.RawMax)

	sawZero, sawOne := false, false
	for r := 0; r < g.Rows(); r++ {
		for c := 0; c < g.Cols(); c++ {
			v := g.At(r, c).Value
			require.GreaterOrEqual(t, v, 0.0)
			require.LessOrEqual(t, v, 1.0)
			sawZero = sawZero || v == 0
			sawOne = sawOne || v == 1
		}
	}
	assert.True(t, sawZero, "minimum cell should normalize to 0")
	assert.True(t, sawOne, "maximum cell should normalize to 1")
}

func TestSynthesize_InvalidSize(t *testing.T) {
	t.Parallel()

	_, _, err := Synthesize(Options{Size: 1})
	assert.ErrorIs(t, err, ErrInvalidSize)
}

// TestFractal_OctaveWeights はオクターブごとに振幅が半分・周波数が倍になることを検証します。
func TestFractal_OctaveWeights(t *testing.T) {
	t.Parallel()

	var freqs []float64
	src := func(x, y float64) float64 {
		freqs = append(freqs, x)
		return 1
	}

	sum := Fractal(src, 1, 1, 4)

	assert.Equal(t, 1+0.5+0.25+0.125, sum)
	assert.Equal(t, []float64{1, 2, 4, 8}, freqs)
}
