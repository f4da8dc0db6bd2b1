// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package interval

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Stats summarizes the entry sizes of a Collection.
type Stats struct {
	// Count is the number of entries.
	Count int
	// GenomicSize is the number of distinct covered bases.
	GenomicSize int64
	// TotalSize is the sum of entry lengths.
	TotalSize int64
	Mean      float64
	Median    float64
	Min       float64
	Max       float64
	// SD is the sample standard deviation; NaN for fewer than two entries.
	SD float64
}

// Info computes size statistics for c.  The mean, median, min, max and SD of
// an empty collection are NaN.
func Info(c Collection) Stats {
	s := Stats{
		Count:       c.Len(),
		GenomicSize: GenomicSize(c),
		TotalSize:   c.ActualSize(),
		Mean:        math.NaN(),
		Median:      math.NaN(),
		Min:         math.NaN(),
		Max:         math.NaN(),
		SD:          math.NaN(),
	}
	if s.Count == 0 {
		return s
	}
	sizes := make([]float64, s.Count)
	for i, e := range c.entries {
		sizes[i] = float64(e.Len())
	}
	sort.Float64s(sizes)
	s.Min = floats.Min(sizes)
	s.Max = floats.Max(sizes)
	s.Mean = stat.Mean(sizes, nil)
	if n := len(sizes); n%2 == 1 {
		s.Median = sizes[n/2]
	} else {
		s.Median = (sizes[n/2-1] + sizes[n/2]) / 2
	}
	if s.Count > 1 {
		s.SD = stat.StdDev(sizes, nil)
	}
	return s
}
