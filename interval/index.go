// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package interval

import (
	"math"
	"sort"

	biv "github.com/biogo/store/interval"
	"github.com/biogo/store/llrb"
)

// treeEntry is the element type stored in the per-chromosome interval tree.
// id is the entry's index in the owning Collection.
type treeEntry struct {
	start, end int
	id         uintptr
}

// Overlap implements biv.IntOverlapper with half-open semantics.
func (e treeEntry) Overlap(b biv.IntRange) bool { return e.end > b.Start && e.start < b.End }
func (e treeEntry) ID() uintptr                 { return e.id }
func (e treeEntry) Range() biv.IntRange         { return biv.IntRange{Start: e.start, End: e.end} }

const maxInt = int(^uint(0) >> 1)

// posKey orders entries by one coordinate (start or end), ties broken by
// entry index.
type posKey struct {
	pos int
	id  int
}

// Compare compares two posKey objects for use in llrb.
func (k posKey) Compare(c2 llrb.Comparable) int {
	k2 := c2.(posKey)
	if k.pos != k2.pos {
		if k.pos < k2.pos {
			return -1
		}
		return 1
	}
	if k.id != k2.id {
		if k.id < k2.id {
			return -1
		}
		return 1
	}
	return 0
}

type chromIndex struct {
	tree    biv.IntTree
	byStart llrb.Tree
	byEnd   llrb.Tree
}

// Index answers overlap and nearest-neighbor queries against the entries of a
// Collection.  Query results are entry indices into that Collection; the
// index never copies interval data.  An Index is read-only after NewIndex
// returns.
type Index struct {
	c      Collection
	chroms map[string]*chromIndex
}

// NewIndex builds an Index over c.  Construction is O(n log n) per chromosome.
func NewIndex(c Collection) *Index {
	idx := &Index{
		c:      c,
		chroms: make(map[string]*chromIndex),
	}
	for i, e := range c.entries {
		ci := idx.chroms[e.ChrName]
		if ci == nil {
			ci = &chromIndex{}
			idx.chroms[e.ChrName] = ci
		}
		ci.byStart.Insert(posKey{pos: int(e.Start0), id: i})
		ci.byEnd.Insert(posKey{pos: int(e.End), id: i})
		if e.End == e.Start0 {
			// Empty entries can't overlap anything.
			continue
		}
		if err := ci.tree.Insert(treeEntry{start: int(e.Start0), end: int(e.End), id: uintptr(i)}, true); err != nil {
			// Entries were validated by Collection.Add.
			panic(err)
		}
	}
	for _, ci := range idx.chroms {
		ci.tree.AdjustRanges()
	}
	return idx
}

// Collection returns the indexed collection.
func (idx *Index) Collection() Collection { return idx.c }

// Len returns the number of indexed entries.
func (idx *Index) Len() int { return idx.c.Len() }

// Entry returns entry i of the indexed collection.
func (idx *Index) Entry(i int) Entry { return idx.c.entries[i] }

// FindOverlaps returns the indices of all entries overlapping [start, end) on
// the given chromosome, ordered by start position.  An unknown chromosome or
// an empty query range yields no hits.
func (idx *Index) FindOverlaps(chrName string, start, end PosType) []int {
	ci := idx.chroms[chrName]
	if ci == nil || start >= end {
		return nil
	}
	var hits []int
	ci.tree.DoMatching(func(e biv.IntInterface) (done bool) {
		hits = append(hits, int(e.ID()))
		return false
	}, treeEntry{start: int(start), end: int(end), id: math.MaxInt32})
	sort.Slice(hits, func(i, j int) bool {
		ei, ej := idx.c.entries[hits[i]], idx.c.entries[hits[j]]
		if ei.Start0 != ej.Start0 {
			return ei.Start0 < ej.Start0
		}
		return hits[i] < hits[j]
	})
	return hits
}

// EmptyAt returns the indices of the zero-length entries located at pos on
// the given chromosome, in index order.  FindOverlaps never reports them.
func (idx *Index) EmptyAt(chrName string, pos PosType) []int {
	ci := idx.chroms[chrName]
	if ci == nil {
		return nil
	}
	var hits []int
	ci.byStart.DoRange(func(c llrb.Comparable) (done bool) {
		k := c.(posKey)
		if e := idx.c.entries[k.id]; e.End == e.Start0 {
			hits = append(hits, k.id)
		}
		return false
	}, posKey{pos: int(pos), id: -1}, posKey{pos: int(pos) + 1, id: -1})
	return hits
}

// before returns the entry with the largest end <= pos.
func (ci *chromIndex) before(pos int) (posKey, bool) {
	c := ci.byEnd.Floor(posKey{pos: pos, id: maxInt})
	if c == nil {
		return posKey{}, false
	}
	// Among entries sharing that end, prefer the lowest index.
	return ci.byEnd.Ceil(posKey{pos: c.(posKey).pos, id: -1}).(posKey), true
}

// after returns the entry with the smallest start >= pos.
func (ci *chromIndex) after(pos int) (posKey, bool) {
	c := ci.byStart.Ceil(posKey{pos: pos, id: -1})
	if c == nil {
		return posKey{}, false
	}
	return c.(posKey), true
}

// NearestUpstream returns the index of the closest entry lying entirely
// upstream of boundary pos, and its distance in bases.  On the '+' strand
// that is an entry with End <= pos, at distance pos - End; on the '-' strand
// it is an entry with Start0 >= pos, at distance Start0 - pos.  Entries
// farther than maxDist are ignored; ok is false when nothing qualifies.
//
// To look upstream of a single base p, pass p on '+' and p+1 on '-'.
func (idx *Index) NearestUpstream(chrName string, pos PosType, strand byte, maxDist int64) (i int, dist int64, ok bool) {
	if strand == '-' {
		return idx.nearestAfter(chrName, pos, maxDist)
	}
	return idx.nearestBefore(chrName, pos, maxDist)
}

// NearestDownstream is the mirror image of NearestUpstream: on the '+' strand
// it finds an entry with Start0 >= pos, on the '-' strand one with
// End <= pos.
func (idx *Index) NearestDownstream(chrName string, pos PosType, strand byte, maxDist int64) (i int, dist int64, ok bool) {
	if strand == '-' {
		return idx.nearestBefore(chrName, pos, maxDist)
	}
	return idx.nearestAfter(chrName, pos, maxDist)
}

func (idx *Index) nearestBefore(chrName string, pos PosType, maxDist int64) (int, int64, bool) {
	ci := idx.chroms[chrName]
	if ci == nil {
		return -1, 0, false
	}
	k, found := ci.before(int(pos))
	if !found {
		return -1, 0, false
	}
	dist := int64(pos) - int64(k.pos)
	if dist > maxDist {
		return -1, 0, false
	}
	return k.id, dist, true
}

func (idx *Index) nearestAfter(chrName string, pos PosType, maxDist int64) (int, int64, bool) {
	ci := idx.chroms[chrName]
	if ci == nil {
		return -1, 0, false
	}
	k, found := ci.after(int(pos))
	if !found {
		return -1, 0, false
	}
	dist := int64(k.pos) - int64(pos)
	if dist > maxDist {
		return -1, 0, false
	}
	return k.id, dist, true
}
