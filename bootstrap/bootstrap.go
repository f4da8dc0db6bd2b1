// Package bootstrap estimates an overlap coefficient of two interval sets,
// its expected value under independence, and a confidence interval obtained
// by repeatedly subsampling both sets.
package bootstrap

import (
	"fmt"
	"math"
	"sort"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/cobind/coef"
	"github.com/grailbio/cobind/interval"
	"github.com/grailbio/cobind/stats"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/sampleuv"
)

// Opts configures Estimate.
type Opts struct {
	// Kind is the coefficient to estimate.
	Kind coef.Kind
	// NDraws is the number of subsamples; 0 disables the confidence interval.
	NDraws int
	// Fraction of each set's intervals drawn per subsample, in (0, 1).
	Fraction float64
	// BackgroundSize is the effective genome size, in bases.
	BackgroundSize float64
	// Seed seeds the subsampling.  Estimates with equal inputs and seeds are
	// identical.
	Seed int64
	// Progress, if set, is called after each draw with the 1-based draw number
	// and NDraws.
	Progress func(draw, n int)
}

// DefaultOpts targets the human genome's effective size.
var DefaultOpts = Opts{
	Kind:           coef.Collocation,
	NDraws:         20,
	Fraction:       0.75,
	BackgroundSize: 1.4e9,
	Seed:           1,
}

// Result is the outcome of Estimate.
type Result struct {
	Kind coef.Kind
	// Interval counts.
	ACount, BCount int
	// Genomic sizes, in bases.
	ASize, BSize, UnionSize, Overlap int64

	Observed float64
	Expected float64
	// Ratio is Observed / Expected.
	Ratio float64

	// HasCI is set when at least one draw succeeded.  Low and High bound the
	// 95% confidence interval of the coefficient, and are NaN otherwise.
	HasCI     bool
	Low, High float64
	// Draws holds the coefficient of every successful draw, in draw order.
	Draws []float64
	// Skipped counts draws whose coefficient could not be evaluated.
	Skipped int
}

func (o Opts) validate() error {
	if o.NDraws < 0 {
		return errors.E(errors.Invalid, fmt.Sprintf("bootstrap: negative number of draws %d", o.NDraws))
	}
	if o.NDraws > 0 && !(o.Fraction > 0 && o.Fraction < 1) {
		return errors.E(errors.Invalid, fmt.Sprintf("bootstrap: fraction %v must be > 0 and < 1", o.Fraction))
	}
	if !(o.BackgroundSize > 0) {
		return errors.E(errors.Invalid, fmt.Sprintf("bootstrap: background size must be positive, got %v", o.BackgroundSize))
	}
	return nil
}

// sample draws floor(c.Len()*f) entries of c without replacement, keeping
// their order in c.
func sample(src rand.Source, c interval.Collection, f float64) interval.Collection {
	n := int(float64(c.Len()) * f)
	if n == 0 {
		return interval.Collection{}
	}
	idx := make([]int, n)
	sampleuv.WithoutReplacement(idx, c.Len(), src)
	sort.Ints(idx)
	return c.Subset(idx)
}

// Estimate computes the observed and expected coefficient of a and b and,
// when opts.NDraws > 0, a bootstrap confidence interval.
//
// Each draw subsamples a fraction f of the intervals of both sets, and
// evaluates the coefficient with the subsample overlap scaled by 1/f.  The
// scaled overlap is capped at the smaller subsample size.  Draws for which
// the coefficient is undefined are skipped and counted.
//
// Invalid options, or set sizes that violate the coefficient's preconditions,
// are rejected with errors.Invalid before any draw.
func Estimate(a, b interval.Collection, opts Opts) (Result, error) {
	if err := opts.validate(); err != nil {
		return Result{}, err
	}
	ua, ub := interval.Union(a), interval.Union(b)
	res := Result{
		Kind:      opts.Kind,
		ACount:    a.Len(),
		BCount:    b.Len(),
		ASize:     ua.GenomicSize(),
		BSize:     ub.GenomicSize(),
		UnionSize: interval.UnionOf(a, b).GenomicSize(),
		Overlap:   interval.OverlapSize(ua, ub),
		Low:       math.NaN(),
		High:      math.NaN(),
	}
	g := opts.BackgroundSize
	x, y := float64(res.ASize), float64(res.BSize)
	var err error
	if res.Observed, err = coef.Compute(opts.Kind, x, y, float64(res.Overlap), g); err != nil {
		return Result{}, err
	}
	if res.Expected, err = coef.Expected(opts.Kind, x, y, g); err != nil {
		return Result{}, err
	}
	res.Ratio = res.Observed / res.Expected

	if opts.NDraws == 0 {
		return res, nil
	}
	src := rand.NewSource(uint64(opts.Seed))
	for draw := 0; draw < opts.NDraws; draw++ {
		sa := sample(src, a, opts.Fraction)
		sb := sample(src, b, opts.Fraction)
		xs := float64(interval.GenomicSize(sa))
		ys := float64(interval.GenomicSize(sb))
		xy := math.Min(float64(interval.OverlapSizeOf(sa, sb))/opts.Fraction, math.Min(xs, ys))
		v, err := coef.Compute(opts.Kind, xs, ys, xy, g)
		if err != nil {
			res.Skipped++
		} else {
			res.Draws = append(res.Draws, v)
		}
		if opts.Progress != nil {
			opts.Progress(draw+1, opts.NDraws)
		}
	}
	if len(res.Draws) > 0 {
		res.HasCI = true
		res.Low = stats.Percentile(res.Draws, 2.5)
		res.High = stats.Percentile(res.Draws, 97.5)
	}
	return res, nil
}
