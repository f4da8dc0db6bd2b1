package stats

import (
	"fmt"
	"math"

	"github.com/grailbio/base/errors"
	"gonum.org/v1/gonum/stat/combin"
)

// Alternative selects the alternative hypothesis of a test.
type Alternative int

const (
	// TwoSided tests for any departure from the null hypothesis.
	TwoSided Alternative = iota
	// Greater tests whether the odds ratio exceeds 1.
	Greater
	// Less tests whether the odds ratio is below 1.
	Less
)

func (a Alternative) String() string {
	switch a {
	case TwoSided:
		return "two-sided"
	case Greater:
		return "greater"
	case Less:
		return "less"
	}
	return fmt.Sprintf("Alternative(%d)", int(a))
}

// relErr is the relative tolerance used to decide whether a table is as
// extreme as the observed one in the two-sided test.
const relErr = 1 + 1e-7

// hypergeom is the distribution of the top-left cell of a 2x2 table with
// fixed margins.
type hypergeom struct {
	row1, row2, col1 float64
	logTotal         float64
	lo, hi           int64
}

func newHypergeom(row1, row2, col1 int64) hypergeom {
	h := hypergeom{
		row1: float64(row1),
		row2: float64(row2),
		col1: float64(col1),
		lo:   col1 - row2,
		hi:   col1,
	}
	if h.lo < 0 {
		h.lo = 0
	}
	if row1 < h.hi {
		h.hi = row1
	}
	h.logTotal = combin.LogGeneralizedBinomial(h.row1+h.row2, h.col1)
	return h
}

func (h hypergeom) logPMF(k int64) float64 {
	kf := float64(k)
	return combin.LogGeneralizedBinomial(h.row1, kf) + combin.LogGeneralizedBinomial(h.row2, h.col1-kf) - h.logTotal
}

func (h hypergeom) pmf(k int64) float64 {
	if k < h.lo || k > h.hi {
		return 0
	}
	return math.Exp(h.logPMF(k))
}

// sum returns the total probability of [from, to].
func (h hypergeom) sum(from, to int64) float64 {
	if from < h.lo {
		from = h.lo
	}
	if to > h.hi {
		to = h.hi
	}
	var p float64
	for k := from; k <= to; k++ {
		p += h.pmf(k)
	}
	return p
}

// FisherExact performs Fisher's exact test on the 2x2 contingency table
//   [[a, b],
//    [c, d]]
// returning the sample odds ratio a*d/(b*c) and the p-value under the given
// alternative.  The odds ratio is +Inf when b*c is zero but a*d is not, and
// NaN when both are zero.  Negative cells are rejected with errors.Invalid.
func FisherExact(table [2][2]int64, alt Alternative) (oddsRatio, p float64, err error) {
	a, b, c, d := table[0][0], table[0][1], table[1][0], table[1][1]
	if a < 0 || b < 0 || c < 0 || d < 0 {
		return math.NaN(), math.NaN(), errors.E(errors.Invalid, fmt.Sprintf("stats.FisherExact: negative count in table %v", table))
	}
	ad := float64(a) * float64(d)
	bc := float64(b) * float64(c)
	switch {
	case bc != 0:
		oddsRatio = ad / bc
	case ad != 0:
		oddsRatio = math.Inf(1)
	default:
		oddsRatio = math.NaN()
	}
	// A table with an empty margin carries no information.
	if a+b == 0 || c+d == 0 || a+c == 0 || b+d == 0 {
		return oddsRatio, 1, nil
	}
	h := newHypergeom(a+b, c+d, a+c)
	switch alt {
	case Greater:
		p = h.sum(a, h.hi)
	case Less:
		p = h.sum(h.lo, a)
	case TwoSided:
		threshold := h.pmf(a) * relErr
		for k := h.lo; k <= h.hi; k++ {
			if pk := h.pmf(k); pk <= threshold {
				p += pk
			}
		}
	default:
		return math.NaN(), math.NaN(), errors.E(errors.Invalid, fmt.Sprintf("stats.FisherExact: unknown alternative %v", alt))
	}
	return oddsRatio, math.Min(p, 1), nil
}
