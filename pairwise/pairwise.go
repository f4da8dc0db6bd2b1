// Package pairwise classifies background regions by whether they are
// occupied by the first set of intervals, the second, both or neither, and
// tests whether the two sets co-occur more often than expected.
package pairwise

import (
	"fmt"
	"math"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/cobind/interval"
	"github.com/grailbio/cobind/stats"
)

// Label is the four-way classification of a background region.
type Label int

const (
	// Neither means the region is occupied by neither set.
	Neither Label = iota
	// Bed1Only means the region is occupied by the first set only.
	Bed1Only
	// Bed2Only means the region is occupied by the second set only.
	Bed2Only
	// Cooccur means the region is occupied by both sets.
	Cooccur
)

var labelNames = [...]string{"neither", "bed1_only", "bed2_only", "cooccur"}

func (l Label) String() string {
	if l < 0 || int(l) >= len(labelNames) {
		return fmt.Sprintf("Label(%d)", int(l))
	}
	return labelNames[l]
}

// Opts controls when a region counts as occupied.
type Opts struct {
	// NCut is the minimum number of overlapping bases.
	NCut int64
	// PCut is the minimum fraction of the overlapping intervals' total size
	// that must fall inside the region.  Must be in [0, 1].
	PCut float64
	// Observer, if set, is called with every classified row, in background
	// order.
	Observer func(Row)
}

// DefaultOpts flags a region when it shares at least one base with a set.
var DefaultOpts = Opts{NCut: 1, PCut: 0}

// Row is the classification of one background region.
type Row struct {
	Region interval.Entry
	Label  Label
	// Overlap1 and Overlap2 are the bases of the region covered by each set.
	Overlap1, Overlap2 int64
}

// Summary aggregates the classification of all regions.
type Summary struct {
	Regions  int64
	Neither  int64
	Bed1Only int64
	Bed2Only int64
	Cooccur  int64
	// Table is [[neither, max_only], [min_only, cooccur]], where max_only and
	// min_only are the larger and smaller of the single-set counts.
	Table     [2][2]int64
	OddsRatio float64
	PValue    float64
	// TestErr is set when the contingency test could not be run; OddsRatio and
	// PValue are NaN in that case.
	TestErr error
}

// Result holds per-region rows and their summary.
type Result struct {
	Rows    []Row
	Summary Summary
}

// occupancy tests regions against the merged form of one set.
type occupancy struct {
	union *interval.BEDUnion
	index *interval.Index
	opts  Opts
}

func newOccupancy(c interval.Collection, opts Opts) occupancy {
	u := interval.Union(c)
	return occupancy{union: u, index: interval.NewIndex(u.Entries()), opts: opts}
}

// test returns the number of region bases covered by the set, and whether
// that makes the region occupied.
func (o occupancy) test(region interval.Entry) (overlap int64, flagged bool) {
	hits := o.index.FindOverlaps(region.ChrName, region.Start0, region.End)
	if len(hits) == 0 {
		return 0, false
	}
	var hitSize int64
	for _, i := range hits {
		hitSize += o.index.Entry(i).Len()
	}
	overlap = o.union.CoveredBases(region.ChrName, region.Start0, region.End)
	flagged = overlap >= o.opts.NCut && float64(overlap)/float64(hitSize) >= o.opts.PCut
	return
}

// Classify labels every background region according to its occupancy by a
// and b.  If background is nil, the union of a and b is used.
//
// Invalid options are rejected with errors.Invalid before any region is
// processed.  A failure of the contingency test doesn't fail the call; it is
// reported in Summary.TestErr.
func Classify(a, b interval.Collection, background *interval.Collection, opts Opts) (Result, error) {
	if opts.NCut < 0 {
		return Result{}, errors.E(errors.Invalid, fmt.Sprintf("pairwise: negative overlap size cutoff %d", opts.NCut))
	}
	if !(opts.PCut >= 0 && opts.PCut <= 1) {
		return Result{}, errors.E(errors.Invalid, fmt.Sprintf("pairwise: overlap fraction cutoff %v outside [0, 1]", opts.PCut))
	}
	var regions interval.Collection
	if background != nil {
		regions = *background
	} else {
		regions = interval.UnionOf(a, b).Entries()
	}
	occ1 := newOccupancy(a, opts)
	occ2 := newOccupancy(b, opts)

	var res Result
	res.Rows = make([]Row, 0, regions.Len())
	s := &res.Summary
	for _, region := range regions.Entries() {
		row := Row{Region: region}
		var flag1, flag2 bool
		row.Overlap1, flag1 = occ1.test(region)
		row.Overlap2, flag2 = occ2.test(region)
		switch {
		case flag1 && flag2:
			row.Label = Cooccur
			s.Cooccur++
		case flag1:
			row.Label = Bed1Only
			s.Bed1Only++
		case flag2:
			row.Label = Bed2Only
			s.Bed2Only++
		default:
			row.Label = Neither
			s.Neither++
		}
		s.Regions++
		res.Rows = append(res.Rows, row)
		if opts.Observer != nil {
			opts.Observer(row)
		}
	}

	maxOnly, minOnly := s.Bed1Only, s.Bed2Only
	if minOnly > maxOnly {
		maxOnly, minOnly = minOnly, maxOnly
	}
	s.Table = [2][2]int64{{s.Neither, maxOnly}, {minOnly, s.Cooccur}}
	s.OddsRatio, s.PValue, s.TestErr = stats.FisherExact(s.Table, stats.Greater)
	if s.TestErr != nil {
		s.OddsRatio, s.PValue = math.NaN(), math.NaN()
	}
	return res, nil
}
