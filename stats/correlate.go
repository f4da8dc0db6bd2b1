package stats

import (
	"fmt"
	"math"
	"sort"

	"github.com/grailbio/base/errors"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Method is a correlation method.
type Method int

const (
	// Pearson is the product-moment correlation.
	Pearson Method = iota
	// Spearman is the rank correlation.
	Spearman
	// Kendall is Kendall's tau-b.
	Kendall
)

func (m Method) String() string {
	switch m {
	case Pearson:
		return "pearson"
	case Spearman:
		return "spearman"
	case Kendall:
		return "kendall"
	}
	return fmt.Sprintf("Method(%d)", int(m))
}

// Correlate computes the correlation coefficient of x and y and its two-sided
// p-value under the null hypothesis of no association.  Pearson and Spearman
// p-values use a t distribution with n-2 degrees of freedom; Kendall uses the
// normal approximation.  x and y must have equal length of at least 3.
// Constant input yields NaN for both values.
func Correlate(x, y []float64, method Method) (coef, p float64, err error) {
	if len(x) != len(y) {
		return math.NaN(), math.NaN(), errors.E(errors.Invalid, fmt.Sprintf("stats.Correlate: length mismatch (%d vs %d)", len(x), len(y)))
	}
	if len(x) < 3 {
		return math.NaN(), math.NaN(), errors.E(errors.Invalid, fmt.Sprintf("stats.Correlate: need at least 3 points, got %d", len(x)))
	}
	switch method {
	case Pearson:
		coef, p = pearson(x, y)
	case Spearman:
		coef, p = pearson(Rank(x), Rank(y))
	case Kendall:
		coef, p = kendall(x, y)
	default:
		return math.NaN(), math.NaN(), errors.E(errors.Invalid, fmt.Sprintf("stats.Correlate: unknown method %v", method))
	}
	return
}

func pearson(x, y []float64) (r, p float64) {
	r = stat.Correlation(x, y, nil)
	if math.IsNaN(r) {
		return math.NaN(), math.NaN()
	}
	// Rounding can push |r| slightly past 1.
	r = math.Max(-1, math.Min(1, r))
	df := float64(len(x) - 2)
	if math.Abs(r) == 1 {
		return r, 0
	}
	t := r * math.Sqrt(df/((1-r)*(1+r)))
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	return r, 2 * dist.Survival(math.Abs(t))
}

// Rank returns the 1-based ranks of x, averaging the ranks of ties.
func Rank(x []float64) []float64 {
	order := make([]int, len(x))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool { return x[order[i]] < x[order[j]] })
	ranks := make([]float64, len(x))
	for i := 0; i < len(order); {
		j := i + 1
		for j < len(order) && x[order[j]] == x[order[i]] {
			j++
		}
		// Positions i..j-1 share the average of ranks i+1..j.
		avg := float64(i+j+1) / 2
		for k := i; k < j; k++ {
			ranks[order[k]] = avg
		}
		i = j
	}
	return ranks
}

func kendall(x, y []float64) (tau, p float64) {
	n := len(x)
	var concordant, discordant, tiesX, tiesY float64
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			dx := x[i] - x[j]
			dy := y[i] - y[j]
			switch {
			case dx == 0 && dy == 0:
				tiesX++
				tiesY++
			case dx == 0:
				tiesX++
			case dy == 0:
				tiesY++
			case (dx > 0) == (dy > 0):
				concordant++
			default:
				discordant++
			}
		}
	}
	n0 := float64(n) * float64(n-1) / 2
	denom := math.Sqrt((n0 - tiesX) * (n0 - tiesY))
	if denom == 0 {
		return math.NaN(), math.NaN()
	}
	s := concordant - discordant
	tau = s / denom
	nf := float64(n)
	z := s / math.Sqrt(nf*(nf-1)*(2*nf+5)/18)
	p = 2 * distuv.UnitNormal.Survival(math.Abs(z))
	return tau, math.Min(p, 1)
}
