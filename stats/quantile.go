package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Percentile returns the q-th percentile (q in [0, 100]) of values, linearly
// interpolating between the two closest ranks: with the values sorted, the
// result is at fractional position (n-1)*q/100.  This matches numpy's default
// percentile.  It returns NaN for empty input or q out of range.  values is
// not modified.
func Percentile(values []float64, q float64) float64 {
	if len(values) == 0 || q < 0 || q > 100 || math.IsNaN(q) {
		return math.NaN()
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	h := float64(len(sorted)-1) * q / 100
	lo := math.Floor(h)
	i := int(lo)
	if i+1 >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	// Avoids Inf-Inf for infinite values.
	if h == lo || sorted[i] == sorted[i+1] {
		return sorted[i]
	}
	return sorted[i] + (h-lo)*(sorted[i+1]-sorted[i])
}

// ZScores standardizes values using their mean and population standard
// deviation.  A constant input maps to all NaN.
func ZScores(values []float64) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}
	mean, variance := stat.MeanVariance(values, nil)
	n := float64(len(values))
	std := 0.0
	if len(values) > 1 {
		std = math.Sqrt(variance * (n - 1) / n)
	}
	for i, v := range values {
		if std == 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = stat.StdScore(v, mean, std)
	}
	return out
}

// SumColumns returns, for every row, the sum of cols[j][row] over all columns
// scaled by 1/sqrt(len(cols)).
func SumColumns(cols [][]float64) []float64 {
	if len(cols) == 0 {
		return nil
	}
	out := make([]float64, len(cols[0]))
	for _, col := range cols {
		floats.Add(out, col)
	}
	floats.Scale(1/math.Sqrt(float64(len(cols))), out)
	return out
}
