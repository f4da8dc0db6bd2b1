// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package coef computes overlap and co-occurrence coefficients from the
// cardinalities of two sets and their background, all measured in bases.
//
// For every coefficient, x = |A|, y = |B|, xy = |A ∩ B| and g = |background|.
package coef

import (
	"fmt"
	"math"
	"strings"

	"github.com/grailbio/base/errors"
)

// Kind identifies a coefficient.
type Kind int

const (
	// Collocation is xy / sqrt(x*y).
	Collocation Kind = iota
	// Jaccard is xy / (x + y - xy).
	Jaccard
	// Simpson is the Szymkiewicz-Simpson overlap coefficient, xy / min(x, y).
	Simpson
	// Dice is the Sorensen-Dice coefficient, 2*xy / (x + y).
	Dice
	// PMI is the pointwise mutual information ln(pxy) - ln(px) - ln(py).
	PMI
	// NPMI is PMI normalized to [-1, 1].
	NPMI
	nKinds
)

type kindInfo struct {
	name string
	// usesBackground is set for the probability-based coefficients, which
	// require 0 < g and x, y <= g.
	usesBackground bool
	fn             func(x, y, xy, g float64) float64
}

var kinds = [nKinds]kindInfo{
	Collocation: {"collocation", false, collocation},
	Jaccard:     {"jaccard", false, jaccard},
	Simpson:     {"simpson", false, simpson},
	Dice:        {"dice", false, dice},
	PMI:         {"pmi", true, pmi},
	NPMI:        {"npmi", true, npmi},
}

var kindAliases = map[string]Kind{
	"collocation": Collocation,
	"coef":        Collocation,
	"jaccard":     Jaccard,
	"simpson":     Simpson,
	"ss":          Simpson,
	"dice":        Dice,
	"sd":          Dice,
	"pmi":         PMI,
	"npmi":        NPMI,
}

// Kinds lists all coefficients in declaration order.
func Kinds() []Kind {
	ks := make([]Kind, nKinds)
	for i := range ks {
		ks[i] = Kind(i)
	}
	return ks
}

func (k Kind) String() string {
	if k < 0 || k >= nKinds {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kinds[k].name
}

// ParseKind converts a coefficient name to a Kind.  Names are case
// insensitive; "coef", "ss" and "sd" are accepted as aliases for collocation,
// simpson and dice respectively.
func ParseKind(name string) (Kind, error) {
	if k, ok := kindAliases[strings.ToLower(name)]; ok {
		return k, nil
	}
	return 0, errors.E(errors.Invalid, fmt.Sprintf("coef: unknown coefficient %q", name))
}

func collocation(x, y, xy, _ float64) float64 {
	if x == 0 || y == 0 || xy == 0 {
		return 0
	}
	return xy / math.Sqrt(x*y)
}

func jaccard(x, y, xy, _ float64) float64 {
	if x == 0 || y == 0 {
		return 0
	}
	return xy / (x + y - xy)
}

func simpson(x, y, xy, _ float64) float64 {
	if x == 0 || y == 0 {
		return 0
	}
	return xy / math.Min(x, y)
}

func dice(x, y, xy, _ float64) float64 {
	if x == 0 || y == 0 {
		return 0
	}
	return 2 * xy / (x + y)
}

func pmi(x, y, xy, g float64) float64 {
	if xy == 0 {
		return math.Inf(-1)
	}
	return math.Log(xy/g) - math.Log(x/g) - math.Log(y/g)
}

func npmi(x, y, xy, g float64) float64 {
	if xy == 0 {
		return -1
	}
	return math.Log((x/g)*(y/g))/math.Log(xy/g) - 1
}

func validate(k Kind, x, y, xy, g float64) error {
	if k < 0 || k >= nKinds {
		return errors.E(errors.Invalid, fmt.Sprintf("coef: unknown coefficient %v", k))
	}
	if x < 0 || y < 0 || xy < 0 {
		return errors.E(errors.Invalid, fmt.Sprintf("coef.%v: negative cardinality (x=%v, y=%v, xy=%v)", k, x, y, xy))
	}
	if xy > x || xy > y {
		return errors.E(errors.Invalid, fmt.Sprintf("coef.%v: overlap %v exceeds min(%v, %v)", k, xy, x, y))
	}
	if kinds[k].usesBackground {
		if g <= 0 {
			return errors.E(errors.Invalid, fmt.Sprintf("coef.%v: background size must be positive, got %v", k, g))
		}
		if x > g || y > g {
			return errors.E(errors.Invalid, fmt.Sprintf("coef.%v: set size exceeds background (x=%v, y=%v, g=%v)", k, x, y, g))
		}
	}
	return nil
}

// Compute evaluates coefficient k.  Arguments violating xy <= min(x, y),
// negative cardinalities, and (for PMI and NPMI) a non-positive background or
// a set larger than it are rejected with an errors.Invalid error.
//
// Degenerate inputs are not errors: the similarity coefficients are 0 when
// either set is empty, PMI is -Inf and NPMI is -1 when the sets don't overlap.
func Compute(k Kind, x, y, xy, g float64) (float64, error) {
	if err := validate(k, x, y, xy, g); err != nil {
		return math.NaN(), err
	}
	return kinds[k].fn(x, y, xy, g), nil
}

// Expected evaluates coefficient k at the overlap expected if A and B were
// placed independently in the background, xy = x*y/g.
func Expected(k Kind, x, y, g float64) (float64, error) {
	if g <= 0 {
		return math.NaN(), errors.E(errors.Invalid, fmt.Sprintf("coef.Expected: background size must be positive, got %v", g))
	}
	return Compute(k, x, y, x*y/g, g)
}
