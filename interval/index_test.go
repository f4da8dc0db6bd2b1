package interval

import (
	"testing"

	"github.com/grailbio/testutil/expect"
)

func testIndex() *Index {
	return NewIndex(MustCollection(
		Entry{ChrName: "chr1", Start0: 10, End: 20, Name: "a"},
		Entry{ChrName: "chr1", Start0: 15, End: 30, Name: "b"},
		Entry{ChrName: "chr1", Start0: 40, End: 50, Name: "c"},
		Entry{ChrName: "chr1", Start0: 5, End: 12, Name: "d"},
		Entry{ChrName: "chr2", Start0: 0, End: 100, Name: "e"},
		Entry{ChrName: "chr1", Start0: 40, End: 45, Name: "f"},
		Entry{ChrName: "chr1", Start0: 25, End: 30, Name: "g"},
		Entry{ChrName: "chr1", Start0: 60, End: 60, Name: "empty"},
	))
}

func TestFindOverlaps(t *testing.T) {
	idx := testIndex()
	expect.EQ(t, idx.Len(), 8)
	tests := []struct {
		chrName    string
		start, end PosType
		want       []int
	}{
		{"chr1", 11, 16, []int{3, 0, 1}},
		{"chr1", 40, 41, []int{2, 5}},
		{"chr1", 0, 1000, []int{3, 0, 1, 6, 2, 5}},
		// Half-open: touching is not overlapping.
		{"chr1", 30, 40, nil},
		{"chr1", 60, 61, nil},
		{"chr1", 20, 20, nil},
		{"chr2", 99, 200, []int{4}},
		{"chrX", 0, 1000, nil},
	}
	for _, tt := range tests {
		got := idx.FindOverlaps(tt.chrName, tt.start, tt.end)
		expect.EQ(t, got, tt.want, tt)
	}
}

func TestEmptyAt(t *testing.T) {
	idx := testIndex()
	expect.EQ(t, idx.EmptyAt("chr1", 60), []int{7})
	// Only zero-length entries are reported.
	expect.EQ(t, idx.EmptyAt("chr1", 40), []int(nil))
	expect.EQ(t, idx.EmptyAt("chr1", 61), []int(nil))
	expect.EQ(t, idx.EmptyAt("chrX", 60), []int(nil))
}

func TestNearest(t *testing.T) {
	idx := testIndex()
	type query struct {
		upstream bool
		chrName  string
		pos      PosType
		strand   byte
		maxDist  int64
	}
	tests := []struct {
		q      query
		want   int
		dist   int64
		wantOK bool
	}{
		// Ends at 30 are shared by b and g; the lower index wins.
		{query{true, "chr1", 40, '+', 100}, 1, 10, true},
		{query{true, "chr1", 40, '+', 9}, -1, 0, false},
		{query{true, "chr1", 5, '+', 100}, -1, 0, false},
		{query{false, "chr1", 30, '+', 100}, 2, 10, true},
		{query{false, "chr1", 40, '+', 0}, 2, 0, true},
		{query{false, "chr1", 61, '+', 1000}, -1, 0, false},
		// Strand '-' swaps the directions.
		{query{true, "chr1", 30, '-', 100}, 2, 10, true},
		{query{false, "chr1", 40, '-', 100}, 1, 10, true},
		// Empty entries still count as neighbors.
		{query{true, "chr1", 70, '+', 100}, 7, 10, true},
		{query{true, "chrX", 70, '+', 100}, -1, 0, false},
	}
	for _, tt := range tests {
		var (
			got  int
			dist int64
			ok   bool
		)
		if tt.q.upstream {
			got, dist, ok = idx.NearestUpstream(tt.q.chrName, tt.q.pos, tt.q.strand, tt.q.maxDist)
		} else {
			got, dist, ok = idx.NearestDownstream(tt.q.chrName, tt.q.pos, tt.q.strand, tt.q.maxDist)
		}
		expect.EQ(t, ok, tt.wantOK, tt.q)
		if ok {
			expect.EQ(t, got, tt.want, tt.q)
			expect.EQ(t, dist, tt.dist, tt.q)
			expect.EQ(t, idx.Entry(got).Name, idx.Collection().At(tt.want).Name)
		}
	}
}
