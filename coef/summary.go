package coef

import (
	"fmt"

	"github.com/grailbio/base/errors"
)

// Summary describes the overlap of two sets within a background.  All sizes
// are in bases.
type Summary struct {
	G        float64
	A        float64
	NotA     float64
	B        float64
	NotB     float64
	ANotB    float64
	BNotA    float64
	AAndB    float64
	AAndBExp float64
	AOrB     float64
	Neither  float64

	// Coef holds every coefficient, indexed by Kind.
	Coef [nKinds]float64
	// JaccardDistance is 1 - Jaccard.
	JaccardDistance float64
}

// Summarize computes the set sizes and all coefficients for sets of size x
// and y overlapping by xy within a background of size g.
func Summarize(x, y, xy, g float64) (Summary, error) {
	if x > g || y > g || g <= 0 {
		return Summary{}, errors.E(errors.Invalid, fmt.Sprintf("coef.Summarize: set sizes (%v, %v) must fit in a positive background (%v)", x, y, g))
	}
	s := Summary{
		G:        g,
		A:        x,
		NotA:     g - x,
		B:        y,
		NotB:     g - y,
		ANotB:    x - xy,
		BNotA:    y - xy,
		AAndB:    xy,
		AAndBExp: x * y / g,
		AOrB:     x + y - xy,
		Neither:  g - x - y + xy,
	}
	for _, k := range Kinds() {
		v, err := Compute(k, x, y, xy, g)
		if err != nil {
			return Summary{}, err
		}
		s.Coef[k] = v
	}
	s.JaccardDistance = 1 - s.Coef[Jaccard]
	return s, nil
}

// Cell is one cell of a co-occurrence table: a joint probability and the
// (normalized) pointwise mutual information of its two marginal events.
type Cell struct {
	P    float64
	PMI  float64
	NPMI float64
}

// CooccurTable expresses the overlap of A and B as probabilities over the
// background.
type CooccurTable struct {
	PA, PNotA, PB, PNotB float64
	// Neither is P(not A, not B).
	Neither float64
	// AAndB relates A to B, ANotB relates A to not-B, and BNotA relates B to
	// not-A.
	AAndB, ANotB, BNotA Cell
}

func cell(x, y, xy, g float64) (Cell, error) {
	c := Cell{P: xy / g}
	var err error
	if c.PMI, err = Compute(PMI, x, y, xy, g); err != nil {
		return Cell{}, err
	}
	if c.NPMI, err = Compute(NPMI, x, y, xy, g); err != nil {
		return Cell{}, err
	}
	return c, nil
}

// Cooccurrence computes the co-occurrence table of sets of size x and y
// overlapping by xy within a background of size g.
func Cooccurrence(x, y, xy, g float64) (t CooccurTable, err error) {
	if x > g || y > g || g <= 0 {
		return CooccurTable{}, errors.E(errors.Invalid, fmt.Sprintf("coef.Cooccurrence: set sizes (%v, %v) must fit in a positive background (%v)", x, y, g))
	}
	t.PA = x / g
	t.PNotA = (g - x) / g
	t.PB = y / g
	t.PNotB = (g - y) / g
	t.Neither = (g - x - y + xy) / g
	if t.AAndB, err = cell(x, y, xy, g); err != nil {
		return
	}
	if t.ANotB, err = cell(x, g-y, x-xy, g); err != nil {
		return
	}
	t.BNotA, err = cell(y, g-x, y-xy, g)
	return
}
