package pairwise

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/cobind/interval"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
	testifyassert "github.com/stretchr/testify/assert"
)

func collection(coords ...interval.PosType) interval.Collection {
	var c interval.Collection
	for i := 0; i < len(coords); i += 2 {
		if err := c.Add(interval.Entry{ChrName: "chr1", Start0: coords[i], End: coords[i+1]}); err != nil {
			panic(err)
		}
	}
	return c
}

func labels(res Result) []Label {
	var out []Label
	for _, r := range res.Rows {
		out = append(out, r.Label)
	}
	return out
}

func TestClassifySingleRegion(t *testing.T) {
	a := collection(0, 50)
	b := collection(40, 100)
	bg := collection(0, 100)
	res, err := Classify(a, b, &bg, DefaultOpts)
	assert.NoError(t, err)
	expect.EQ(t, labels(res), []Label{Cooccur})
	expect.EQ(t, res.Rows[0].Overlap1, int64(50))
	expect.EQ(t, res.Rows[0].Overlap2, int64(60))
	expect.EQ(t, res.Summary.Cooccur, int64(1))
}

func TestClassifyFourWay(t *testing.T) {
	a := collection(0, 50, 200, 260)
	b := collection(40, 100, 300, 320)
	bg, err := interval.Tile("chr1", 400, 100)
	assert.NoError(t, err)

	var observed []Row
	opts := DefaultOpts
	opts.Observer = func(r Row) { observed = append(observed, r) }
	res, err := Classify(a, b, &bg, opts)
	assert.NoError(t, err)
	expect.EQ(t, labels(res), []Label{Cooccur, Neither, Bed1Only, Bed2Only})
	if diff := cmp.Diff(res.Rows, observed); diff != "" {
		t.Errorf("observer rows mismatch (-want +got):\n%s", diff)
	}

	s := res.Summary
	expect.EQ(t, s.Regions, int64(4))
	expect.EQ(t, s.Table, [2][2]int64{{1, 1}, {1, 1}})
	expect.EQ(t, s.OddsRatio, 1.0)
	testifyassert.InDelta(t, 5.0/6, s.PValue, 1e-12)
	expect.Nil(t, s.TestErr)
}

func TestClassifyTableOrder(t *testing.T) {
	// Two bed2-only regions and one bed1-only region: the larger count goes to
	// the top-right cell.
	a := collection(0, 10)
	b := collection(100, 110, 200, 210)
	bg, err := interval.Tile("chr1", 300, 100)
	assert.NoError(t, err)
	res, err := Classify(a, b, &bg, DefaultOpts)
	assert.NoError(t, err)
	expect.EQ(t, labels(res), []Label{Bed1Only, Bed2Only, Bed2Only})
	expect.EQ(t, res.Summary.Table, [2][2]int64{{0, 2}, {1, 0}})
	expect.EQ(t, res.Summary.OddsRatio, 0.0)
	testifyassert.InDelta(t, 1.0, res.Summary.PValue, 1e-12)
}

func TestClassifyCutoffs(t *testing.T) {
	a := collection(0, 50)
	b := collection(40, 100)
	bg := collection(0, 45)

	res, err := Classify(a, b, &bg, DefaultOpts)
	assert.NoError(t, err)
	expect.EQ(t, labels(res), []Label{Cooccur})

	// b covers 5 of its 60 bases in the region.
	res, err = Classify(a, b, &bg, Opts{NCut: 1, PCut: 0.5})
	assert.NoError(t, err)
	expect.EQ(t, labels(res), []Label{Bed1Only})

	res, err = Classify(a, b, &bg, Opts{NCut: 10})
	assert.NoError(t, err)
	expect.EQ(t, labels(res), []Label{Bed1Only})

	res, err = Classify(a, b, &bg, Opts{NCut: 50})
	assert.NoError(t, err)
	expect.EQ(t, labels(res), []Label{Neither})

	// Overlapping input intervals are merged before sizes are measured, so the
	// region holds 10 of 20 bases rather than 10 of 25.
	a = collection(0, 10, 5, 20)
	bg = collection(0, 10)
	res, err = Classify(a, b, &bg, Opts{PCut: 0.5})
	assert.NoError(t, err)
	expect.EQ(t, labels(res), []Label{Bed1Only})
	res, err = Classify(a, b, &bg, Opts{PCut: 0.6})
	assert.NoError(t, err)
	expect.EQ(t, labels(res), []Label{Neither})
}

func TestClassifyDefaultBackground(t *testing.T) {
	a := collection(0, 50, 200, 260)
	b := collection(40, 100, 300, 320)
	res, err := Classify(a, b, nil, DefaultOpts)
	assert.NoError(t, err)
	expect.EQ(t, labels(res), []Label{Cooccur, Bed1Only, Bed2Only})
	expect.EQ(t, res.Rows[0].Region.End, interval.PosType(100))
}

func TestClassifyEmpty(t *testing.T) {
	res, err := Classify(interval.Collection{}, interval.Collection{}, nil, DefaultOpts)
	assert.NoError(t, err)
	expect.EQ(t, res.Summary.Regions, int64(0))
	expect.True(t, math.IsNaN(res.Summary.OddsRatio))
	expect.EQ(t, res.Summary.PValue, 1.0)
}

func TestClassifyInvalidOpts(t *testing.T) {
	a := collection(0, 50)
	for _, opts := range []Opts{{PCut: 1.5}, {PCut: -0.1}, {PCut: math.NaN()}, {NCut: -1}} {
		_, err := Classify(a, a, nil, opts)
		expect.True(t, errors.Is(errors.Invalid, err), opts)
	}
}

func TestLabelString(t *testing.T) {
	expect.EQ(t, Neither.String(), "neither")
	expect.EQ(t, Bed1Only.String(), "bed1_only")
	expect.EQ(t, Bed2Only.String(), "bed2_only")
	expect.EQ(t, Cooccur.String(), "cooccur")
	expect.EQ(t, Label(9).String(), "Label(9)")
}
