// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package interval

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// BEDUnion is currently implemented as a collection of length-2N sequences,
// where N is the number of intervals, the (0-based) start position of the
// interval #k (numbering from zero) is in element [2k] and the end position is
// in element [2k+1], and the intervals are stored in increasing order.
// Adjacent intervals never touch or overlap, and empty intervals are never
// stored.  A BEDUnion is immutable once constructed, so it may be shared
// freely.
type BEDUnion struct {
	// nameMap is a chromosome-keyed map with disjoint-interval-set values.
	// Chromosomes with no covered bases are absent.  Always initialized.
	nameMap map[string]([]PosType)
}

func newBEDUnion() *BEDUnion {
	return &BEDUnion{nameMap: make(map[string]([]PosType))}
}

// Union merges the entries of c, per chromosome, into maximal non-overlapping
// intervals.  Entries that touch (start == previous end) are merged as well.
// Zero-length entries cover no bases and are dropped.
func Union(c Collection) *BEDUnion {
	byChr := make(map[string][]Entry)
	for _, e := range c.entries {
		if e.End == e.Start0 {
			continue
		}
		byChr[e.ChrName] = append(byChr[e.ChrName], e)
	}
	u := newBEDUnion()
	for chrName, entries := range byChr {
		sort.Slice(entries, func(i, j int) bool { return entries[i].Start0 < entries[j].Start0 })
		chrIntervals := make([]PosType, 0, 2*len(entries))
		prevStart := entries[0].Start0
		prevEnd := entries[0].End
		for _, e := range entries[1:] {
			if e.Start0 > prevEnd {
				// New interval doesn't overlap previous one, so we can save the
				// previous one.
				chrIntervals = append(chrIntervals, prevStart, prevEnd)
				prevStart = e.Start0
				prevEnd = e.End
				continue
			}
			// Intervals overlap or touch, merge them.
			if e.End > prevEnd {
				prevEnd = e.End
			}
		}
		u.nameMap[chrName] = append(chrIntervals, prevStart, prevEnd)
	}
	return u
}

// UnionOf returns the union of all entries of the given collections.
func UnionOf(cs ...Collection) *BEDUnion {
	return Union(Concat(cs...))
}

// intersectEndpoints returns the intersection of two sorted endpoint
// sequences.
func intersectEndpoints(x, y []PosType) []PosType {
	var out []PosType
	for i, j := 0, 0; i < len(x) && j < len(y); {
		start, end := x[i], x[i+1]
		if y[j] > start {
			start = y[j]
		}
		if y[j+1] < end {
			end = y[j+1]
		}
		if start < end {
			out = append(out, start, end)
		}
		if x[i+1] < y[j+1] {
			i += 2
		} else {
			j += 2
		}
	}
	return out
}

// subtractEndpoints returns the positions of x not covered by y.
func subtractEndpoints(x, y []PosType) []PosType {
	var out []PosType
	j := 0
	for i := 0; i < len(x); i += 2 {
		start, end := x[i], x[i+1]
		// y intervals ending at or before start can't affect this or any later x
		// interval.
		for j < len(y) && y[j+1] <= start {
			j += 2
		}
		for k := j; k < len(y) && y[k] < end; k += 2 {
			if y[k] > start {
				out = append(out, start, y[k])
			}
			if y[k+1] > start {
				start = y[k+1]
			}
			if start >= end {
				break
			}
		}
		if start < end {
			out = append(out, start, end)
		}
	}
	return out
}

// Intersect returns the positions covered by both a and b.  Chromosomes
// present in only one input contribute nothing.  Both arguments are merged
// sets by construction, which set intersection requires; intersect raw
// collections via Union first.
func Intersect(a, b *BEDUnion) *BEDUnion {
	u := newBEDUnion()
	for chrName, x := range a.nameMap {
		y, ok := b.nameMap[chrName]
		if !ok {
			continue
		}
		if out := intersectEndpoints(x, y); len(out) > 0 {
			u.nameMap[chrName] = out
		}
	}
	return u
}

// Subtract returns the positions of a that are not covered by b.  Chromosomes
// absent from b pass through unchanged.
func Subtract(a, b *BEDUnion) *BEDUnion {
	u := newBEDUnion()
	for chrName, x := range a.nameMap {
		y, ok := b.nameMap[chrName]
		if !ok {
			u.nameMap[chrName] = x
			continue
		}
		if out := subtractEndpoints(x, y); len(out) > 0 {
			u.nameMap[chrName] = out
		}
	}
	return u
}

// GenomicSize returns the number of bases covered by the union.
func (u *BEDUnion) GenomicSize() int64 {
	var total int64
	for _, endpoints := range u.nameMap {
		for i := 0; i < len(endpoints); i += 2 {
			total += int64(endpoints[i+1] - endpoints[i])
		}
	}
	return total
}

// GenomicSize returns the number of distinct bases covered by c.
func GenomicSize(c Collection) int64 {
	return Union(c).GenomicSize()
}

// OverlapSize returns the number of bases covered by both a and b.
//
// When a and b are the same object the result is 0.  This mirrors the
// self-comparison guard of the original cobind tool, whose output some
// downstream tables depend on; two distinct unions with equal contents get
// the true overlap.
func OverlapSize(a, b *BEDUnion) int64 {
	if a == b {
		return 0
	}
	return Intersect(a, b).GenomicSize()
}

// OverlapSizeOf unions a and b, and then returns their overlap size.
func OverlapSizeOf(a, b Collection) int64 {
	return OverlapSize(Union(a), Union(b))
}

// Chroms returns the names of all chromosomes with covered bases, sorted.
func (u *BEDUnion) Chroms() []string {
	names := make([]string, 0, len(u.nameMap))
	for chrName := range u.nameMap {
		names = append(names, chrName)
	}
	sort.Strings(names)
	return names
}

// Endpoints returns the sorted endpoint sequence for the given chromosome,
// or nil.  The returned slice must not be modified.
func (u *BEDUnion) Endpoints(chrName string) []PosType {
	return u.nameMap[chrName]
}

// Entries returns the merged intervals as a Collection, ordered by chromosome
// name and then position.
func (u *BEDUnion) Entries() Collection {
	var c Collection
	var start, end PosType
	for _, chrName := range u.Chroms() {
		us := NewUnionScanner(u.nameMap[chrName])
		for us.Scan(&start, &end) {
			c.entries = append(c.entries, Entry{ChrName: chrName, Start0: start, End: end, Strand: '+'})
		}
	}
	return c
}

// Equal returns whether u and v cover exactly the same positions.
func (u *BEDUnion) Equal(v *BEDUnion) bool {
	if len(u.nameMap) != len(v.nameMap) {
		return false
	}
	for chrName, x := range u.nameMap {
		y, ok := v.nameMap[chrName]
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if x[i] != y[i] {
				return false
			}
		}
	}
	return true
}

// Contains checks whether the (0-based) position pos on the given chromosome
// is covered by the union.
func (u *BEDUnion) Contains(chrName string, pos PosType) bool {
	endpoints := u.nameMap[chrName]
	if endpoints == nil {
		return false
	}
	return NewEndpointIndex(pos, endpoints).Contained()
}

// CoveredBases returns the number of positions in [start, end) on the given
// chromosome that are covered by the union.
func (u *BEDUnion) CoveredBases(chrName string, start, end PosType) int64 {
	endpoints := u.nameMap[chrName]
	if endpoints == nil || start >= end {
		return 0
	}
	var total int64
	for idx := NewEndpointIndex(start, endpoints).Begin(); !idx.Finished(endpoints) && endpoints[idx] < end; idx += 2 {
		s, e := endpoints[idx], endpoints[idx+1]
		if s < start {
			s = start
		}
		if e > end {
			e = end
		}
		total += int64(e - s)
	}
	return total
}

// ParseRegionString parses a region string of one of the forms
//   [contig ID]:[1-based first pos]-[last pos]
//   [contig ID]:[1-based pos]
//   [contig ID]
// returning a contig ID and 0-based interval boundaries.  The interval
// [0, PosTypeMax - 1) is returned if there is no positional restriction.
func ParseRegionString(region string) (result Entry, err error) {
	result.Strand = '+'
	if len(region) == 0 {
		err = fmt.Errorf("interval.ParseRegionString: empty region string")
		return
	}
	colonPos := strings.IndexByte(region, ':')
	if colonPos == -1 {
		result.ChrName = region
		result.Start0 = 0
		result.End = PosTypeMax - 1
		return
	}
	if colonPos == 0 {
		err = fmt.Errorf("interval.ParseRegionString: empty contig ID")
		return
	}
	result.ChrName = region[0:colonPos]
	rangeStr := strings.Replace(region[colonPos+1:], ",", "", -1)
	dashPos := strings.IndexByte(rangeStr, '-')
	if dashPos == -1 {
		var pos1 int64
		if pos1, err = strconv.ParseInt(rangeStr, 10, 32); err != nil {
			return
		}
		if pos1 <= 0 {
			err = fmt.Errorf("interval.ParseRegionString: position %v in region string out of range", rangeStr)
			return
		}
		result.Start0 = PosType(pos1 - 1)
		result.End = PosType(pos1)
		return
	}
	start1Str := rangeStr[:dashPos]
	endStr := rangeStr[dashPos+1:]
	var start1 int
	if start1, err = strconv.Atoi(start1Str); err != nil {
		return
	}
	if start1 <= 0 {
		err = fmt.Errorf("interval.ParseRegionString: position %v in region string out of range", start1Str)
		return
	}
	var end0 int
	if end0, err = strconv.Atoi(endStr); err != nil {
		return
	}
	if end0 < start1 || end0 >= PosTypeMax {
		err = fmt.Errorf("interval.ParseRegionString: invalid range string %v", rangeStr)
		return
	}
	result.Start0 = PosType(start1 - 1)
	result.End = PosType(end0)
	return
}

// Restrict returns the entries of c that overlap region, clipped to it.
func Restrict(c Collection, region Entry) Collection {
	var out Collection
	for _, e := range c.entries {
		if e.ChrName != region.ChrName || e.End <= region.Start0 || e.Start0 >= region.End {
			continue
		}
		if e.Start0 < region.Start0 {
			e.Start0 = region.Start0
		}
		if e.End > region.End {
			e.End = region.End
		}
		out.entries = append(out.entries, e)
	}
	return out
}
