// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package interval

import (
	"math"
	"sort"
)

// A BEDUnion stores each chromosome as a sorted []PosType of endpoints: the
// union [5, 17) U [20, 25) of the intervals [5, 15), [7, 17) and [20, 25) is
// stored as {5, 17, 20, 25}.  Even indices are starts and odd indices are
// ends.

// PosType is the type used to represent interval coordinates.  int32 is wide
// enough for any chromosome of current reference genomes.
type PosType int32

// PosTypeMax is the maximum value that can be represented by a PosType.
const PosTypeMax = math.MaxInt32

// EndpointIndex is the number of endpoints <= pos for some position pos.  It
// is odd exactly when pos lies inside one of the merged intervals.
type EndpointIndex uint32

// NewEndpointIndex locates pos within endpoints.
func NewEndpointIndex(pos PosType, endpoints []PosType) EndpointIndex {
	return EndpointIndex(sort.Search(len(endpoints), func(i int) bool { return endpoints[i] > pos }))
}

// Contained returns whether the position is covered.
func (ei EndpointIndex) Contained() bool {
	return ei&1 != 0
}

// Finished returns whether the position is past the last interval.
func (ei EndpointIndex) Finished(endpoints []PosType) bool {
	return ei >= EndpointIndex(len(endpoints))
}

// Begin returns the start index of the interval containing the position, or
// of the next interval if the position is uncovered.
func (ei EndpointIndex) Begin() EndpointIndex {
	return ei &^ 1
}

// UnionScanner walks the merged intervals of an endpoint slice in order:
//   us := NewUnionScanner(endpoints)
//   var start, end PosType
//   for us.Scan(&start, &end) {
//     ...
//   }
type UnionScanner struct {
	endpoints []PosType
	next      int
}

// NewUnionScanner returns a UnionScanner positioned before the first interval.
func NewUnionScanner(endpoints []PosType) UnionScanner {
	return UnionScanner{endpoints: endpoints}
}

// Scan stores the next interval in *start and *end.  It returns false once
// all intervals have been visited.
func (us *UnionScanner) Scan(start, end *PosType) bool {
	if us.next+1 >= len(us.endpoints) {
		return false
	}
	*start, *end = us.endpoints[us.next], us.endpoints[us.next+1]
	us.next += 2
	return true
}
