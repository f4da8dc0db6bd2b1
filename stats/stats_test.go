package stats

import (
	"math"
	"testing"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/testutil/expect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFisherExact(t *testing.T) {
	table := [2][2]int64{{8, 2}, {1, 5}}
	tests := []struct {
		alt  Alternative
		want float64
	}{
		{TwoSided, 400.0 / 11440},
		{Greater, 280.0 / 11440},
		{Less, 11430.0 / 11440},
	}
	for _, tt := range tests {
		or, p, err := FisherExact(table, tt.alt)
		require.NoError(t, err)
		expect.EQ(t, or, 20.0)
		assert.InDelta(t, tt.want, p, 1e-12, tt.alt.String())
	}
}

func TestFisherExactDegenerate(t *testing.T) {
	or, p, err := FisherExact([2][2]int64{{5, 0}, {0, 5}}, Greater)
	require.NoError(t, err)
	expect.True(t, math.IsInf(or, 1))
	assert.InDelta(t, 1.0/252, p, 1e-12)

	or, p, err = FisherExact([2][2]int64{{0, 0}, {1, 1}}, Greater)
	require.NoError(t, err)
	expect.True(t, math.IsNaN(or))
	expect.EQ(t, p, 1.0)

	or, p, err = FisherExact([2][2]int64{{0, 3}, {4, 0}}, TwoSided)
	require.NoError(t, err)
	expect.EQ(t, or, 0.0)
	assert.InDelta(t, 1.0/35, p, 1e-12)

	_, _, err = FisherExact([2][2]int64{{-1, 3}, {4, 0}}, TwoSided)
	expect.True(t, errors.Is(errors.Invalid, err))
	_, _, err = FisherExact([2][2]int64{{1, 3}, {4, 1}}, Alternative(7))
	expect.True(t, errors.Is(errors.Invalid, err))
}

func TestCorrelate(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	y := []float64{1, 3, 2, 5, 4}

	r, p, err := Correlate(x, y, Pearson)
	require.NoError(t, err)
	assert.InDelta(t, 0.8, r, 1e-12)
	assert.InDelta(t, 0.104088, p, 1e-6)

	rho, p2, err := Correlate(x, y, Spearman)
	require.NoError(t, err)
	assert.InDelta(t, 0.8, rho, 1e-12)
	assert.InDelta(t, p, p2, 1e-12)

	tau, p3, err := Correlate(x, y, Kendall)
	require.NoError(t, err)
	assert.InDelta(t, 0.6, tau, 1e-12)
	expect.True(t, p3 > 0.14 && p3 < 0.143, p3)
}

func TestCorrelateMonotone(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5, 6}
	y := make([]float64, len(x))
	for i, v := range x {
		y[i] = v * v * v
	}
	for _, m := range []Method{Spearman, Kendall} {
		c, p, err := Correlate(x, y, m)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, c, 1e-12, m.String())
		expect.True(t, p < 0.05, m)
	}
	c, p, err := Correlate(x, []float64{2, 4, 6, 8, 10, 12}, Pearson)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, c, 1e-12)
	expect.True(t, p < 1e-6, p)

	c, _, err = Correlate(x, []float64{6, 5, 4, 3, 2, 1}, Kendall)
	require.NoError(t, err)
	assert.InDelta(t, -1.0, c, 1e-12)
}

func TestCorrelateInvalid(t *testing.T) {
	_, _, err := Correlate([]float64{1, 2}, []float64{1, 2}, Pearson)
	expect.True(t, errors.Is(errors.Invalid, err))
	_, _, err = Correlate([]float64{1, 2, 3}, []float64{1, 2}, Spearman)
	expect.True(t, errors.Is(errors.Invalid, err))

	for _, m := range []Method{Pearson, Spearman, Kendall} {
		c, p, err := Correlate([]float64{1, 1, 1}, []float64{1, 2, 3}, m)
		require.NoError(t, err)
		expect.True(t, math.IsNaN(c), m)
		expect.True(t, math.IsNaN(p), m)
	}
}

func TestRank(t *testing.T) {
	expect.EQ(t, Rank([]float64{10, 20, 20, 5}), []float64{2, 3.5, 3.5, 1})
	expect.EQ(t, Rank([]float64{3, 3, 3}), []float64{2, 2, 2})
}

func TestPercentile(t *testing.T) {
	values := []float64{4, 1, 3, 2}
	expect.EQ(t, Percentile(values, 50), 2.5)
	expect.EQ(t, Percentile(values, 0), 1.0)
	expect.EQ(t, Percentile(values, 100), 4.0)
	assert.InDelta(t, 1.075, Percentile(values, 2.5), 1e-12)
	assert.InDelta(t, 3.925, Percentile(values, 97.5), 1e-12)
	// Input order is untouched.
	expect.EQ(t, values, []float64{4, 1, 3, 2})

	expect.EQ(t, Percentile([]float64{7}, 97.5), 7.0)
	expect.True(t, math.IsNaN(Percentile(nil, 50)))
	expect.True(t, math.IsNaN(Percentile(values, 101)))
}

func TestZScores(t *testing.T) {
	z := ZScores([]float64{1, 2, 3})
	want := []float64{-math.Sqrt(1.5), 0, math.Sqrt(1.5)}
	for i := range want {
		assert.InDelta(t, want[i], z[i], 1e-12)
	}
	for _, v := range ZScores([]float64{5, 5}) {
		expect.True(t, math.IsNaN(v))
	}
	expect.EQ(t, len(ZScores(nil)), 0)

	sums := SumColumns([][]float64{{1, 2}, {3, 4}})
	assert.InDelta(t, 4/math.Sqrt2, sums[0], 1e-12)
	assert.InDelta(t, 6/math.Sqrt2, sums[1], 1e-12)
}
