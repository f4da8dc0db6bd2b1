package signal

import (
	"fmt"
	"math"
	"sort"

	grailerrors "github.com/grailbio/base/errors"
	"github.com/grailbio/cobind/interval"
	"github.com/grailbio/cobind/stats"
)

// Opts configures Covary.
type Opts struct {
	Stat  Stat
	Exact bool
	// KeepNA keeps regions where either track has no data in Result.Rows,
	// with NaN for the missing value.  Such regions never enter the
	// correlations.
	KeepNA bool
	// TopX limits the correlations to the regions with the strongest track 1
	// signal: a fraction of them if TopX is in (0, 1], a count if TopX > 1.
	TopX float64
	// MinSignal drops regions where either signal is <= MinSignal from the
	// correlations.
	MinSignal float64
}

// DefaultOpts uses the exact mean signal of every region.
var DefaultOpts = Opts{Stat: Mean, Exact: true, TopX: 1, MinSignal: 0}

// Row holds the signal of both tracks in one region.
type Row struct {
	Region         interval.Entry
	Score1, Score2 float64
}

// ID returns the region as "chrom:start-end".
func (r Row) ID() string {
	return fmt.Sprintf("%s:%d-%d", r.Region.ChrName, r.Region.Start0, r.Region.End)
}

// Correlation is the result of one correlation test.  Err is set, and Coef
// and P are NaN, when too few regions remain.
type Correlation struct {
	Method stats.Method
	Coef   float64
	P      float64
	Err    error
}

// Result is the outcome of Covary.
type Result struct {
	// Rows is sorted by decreasing Score1; NaN scores sort last.
	Rows []Row
	// Used is the number of regions entering the correlations.
	Used int
	// Correlations of the log2 signals, by Pearson, Spearman and Kendall.
	Correlations []Correlation
}

func less(a, b float64) bool {
	if math.IsNaN(b) {
		return !math.IsNaN(a)
	}
	return a > b
}

// Covary summarizes both tracks over every region and correlates the log2
// transformed summaries.
func Covary(regions interval.Collection, t1, t2 Track, opts Opts) (Result, error) {
	if opts.Stat < Mean || opts.Stat > Max {
		return Result{}, grailerrors.E(grailerrors.Invalid, fmt.Sprintf("signal.Covary: unknown statistic %v", opts.Stat))
	}
	var res Result
	for _, region := range regions.Entries() {
		v1, ok1 := t1.Summary(region.ChrName, region.Start0, region.End, opts.Stat, opts.Exact)
		v2, ok2 := t2.Summary(region.ChrName, region.Start0, region.End, opts.Stat, opts.Exact)
		if !ok1 || !ok2 {
			if !opts.KeepNA {
				continue
			}
			if !ok1 {
				v1 = math.NaN()
			}
			if !ok2 {
				v2 = math.NaN()
			}
		}
		res.Rows = append(res.Rows, Row{Region: region, Score1: v1, Score2: v2})
	}
	sort.SliceStable(res.Rows, func(i, j int) bool { return less(res.Rows[i].Score1, res.Rows[j].Score1) })

	var x, y []float64
	for _, row := range res.Rows {
		// NaN comparisons are false, so missing values drop out here.
		if row.Score1 > opts.MinSignal && row.Score2 > opts.MinSignal {
			x = append(x, row.Score1)
			y = append(y, row.Score2)
		}
	}
	n := len(x)
	switch {
	case opts.TopX > 0 && opts.TopX <= 1:
		n = int(float64(n) * opts.TopX)
	case opts.TopX > 1 && int(opts.TopX) < n:
		n = int(opts.TopX)
	}
	x, y = x[:n], y[:n]
	for i := range x {
		x[i] = math.Log2(x[i])
		y[i] = math.Log2(y[i])
	}
	res.Used = n
	for _, m := range []stats.Method{stats.Pearson, stats.Spearman, stats.Kendall} {
		c := Correlation{Method: m}
		c.Coef, c.P, c.Err = stats.Correlate(x, y, m)
		res.Correlations = append(res.Correlations, c)
	}
	return res, nil
}
