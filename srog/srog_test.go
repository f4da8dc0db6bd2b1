package srog

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/cobind/interval"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
)

func iv(chrName string, start, end interval.PosType) interval.Entry {
	return interval.Entry{ChrName: chrName, Start0: start, End: end, Strand: '+'}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		i1, i2 interval.Entry
		want   Code
	}{
		{iv("chr1", 0, 100), iv("chr1", 0, 100), Equal},
		{iv("chr1", 10, 20), iv("chr1", 0, 100), Within},
		{iv("chr1", 0, 20), iv("chr1", 0, 100), Within},
		{iv("chr1", 0, 100), iv("chr1", 10, 20), Contain},
		{iv("chr1", 0, 100), iv("chr1", 80, 100), Contain},
		{iv("chr1", 0, 10), iv("chr1", 10, 20), Touch},
		{iv("chr1", 10, 20), iv("chr1", 0, 10), Touch},
		{iv("chr1", 0, 10), iv("chr1", 5, 20), Overlap},
		{iv("chr1", 0, 10), iv("chr1", 11, 20), Disjoint},
		{iv("chr1", 0, 10), iv("chr2", 0, 10), Disjoint},
		{iv("chr1", 0, 10), iv("chr2", 10, 20), Disjoint},
	}
	for _, tt := range tests {
		expect.EQ(t, Classify(tt.i1, tt.i2), tt.want, tt.i1, tt.i2)
	}
}

func partners() interval.Collection {
	return interval.MustCollection(
		interval.Entry{ChrName: "chr1", Start0: 100, End: 200, Name: "b1"},
		interval.Entry{ChrName: "chr1", Start0: 200, End: 300, Name: "b2"},
		interval.Entry{ChrName: "chr1", Start0: 500, End: 600, Name: "b3"},
		interval.Entry{ChrName: "chr1", Start0: 1000, End: 1100, Name: "b4"},
		interval.Entry{ChrName: "chr2", Start0: 0, End: 10},
	)
}

func TestRelate(t *testing.T) {
	a := interval.MustCollection(
		interval.Entry{ChrName: "chr1", Start0: 150, End: 250, Name: "a1"},
		interval.Entry{ChrName: "chr1", Start0: 300, End: 400, Name: "a2"},
		interval.Entry{ChrName: "chr1", Start0: 700, End: 800, Name: "a3"},
		interval.Entry{ChrName: "chr1", Start0: 700, End: 800, Name: "a4", Strand: '-'},
		interval.Entry{ChrName: "chr1", Start0: 500, End: 600, Name: "a5"},
		interval.Entry{ChrName: "chr1", Start0: 520, End: 530, Name: "a6"},
		interval.Entry{ChrName: "chr3", Start0: 0, End: 10, Name: "a7"},
		interval.Entry{ChrName: "chr1", Start0: 90, End: 210, Name: "a8"},
		interval.Entry{ChrName: "chr2", Start0: 5, End: 8},
	)
	res, err := Relate(a, partners(), Opts{MaxDist: 150})
	assert.NoError(t, err)
	assert.EQ(t, len(res.Rows), 9)

	type summary struct{ Fields, Codes, Neighbors string }
	var got []summary
	for _, row := range res.Rows {
		got = append(got, summary{
			Fields:    row.Fields[0] + ":" + row.Fields[1] + "-" + row.Fields[2],
			Codes:     row.CodeList(),
			Neighbors: row.NeighborList(),
		})
	}
	want := []summary{
		{"chr1:150-250", "overlap,overlap", "b1,b2"},
		{"chr1:300-400", "touch", "b2"},
		{"chr1:700-800", "disjoint", "b3,none"},
		{"chr1:700-800", "disjoint", "none,b3"},
		{"chr1:500-600", "equal", "b3"},
		{"chr1:520-530", "within", "b3"},
		{"chr3:0-10", "disjoint", "none,none"},
		{"chr1:90-210", "contain,overlap", "b1,b2"},
		{"chr2:5-8", "within", "chr2:0-10"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Relate mismatch (-want +got):\n%s", diff)
	}
	expect.EQ(t, res.Rows[0].Fields, []string{"chr1", "150", "250", "a1"})

	expect.EQ(t, res.Tally, map[Code]int64{
		Overlap:  3,
		Touch:    1,
		Disjoint: 3,
		Equal:    1,
		Within:   2,
		Contain:  1,
	})
}

func TestRelateEdges(t *testing.T) {
	// A query reaching the largest coordinate still finds its partners.
	a := interval.MustCollection(interval.Entry{ChrName: "chr1", Start0: 0, End: interval.PosTypeMax - 1})
	b := interval.MustCollection(interval.Entry{ChrName: "chr1", Start0: 5, End: 20, Name: "r"})
	res, err := Relate(a, b, Opts{MaxDist: 100})
	assert.NoError(t, err)
	expect.EQ(t, res.Rows[0].CodeList(), "contain")
	expect.EQ(t, res.Rows[0].NeighborList(), "r")

	// Zero-length partners touch the queries they sit at the ends of.
	a = interval.MustCollection(
		interval.Entry{ChrName: "chr1", Start0: 0, End: 10, Name: "q"},
		interval.Entry{ChrName: "chr1", Start0: 20, End: 30, Name: "q2"},
	)
	b = interval.MustCollection(
		interval.Entry{ChrName: "chr1", Start0: 10, End: 10, Name: "z"},
		interval.Entry{ChrName: "chr1", Start0: 0, End: 0, Name: "y"},
		interval.Entry{ChrName: "chr1", Start0: 25, End: 25, Name: "x"},
	)
	res, err = Relate(a, b, Opts{MaxDist: 100})
	assert.NoError(t, err)
	expect.EQ(t, res.Rows[0].CodeList(), "touch,touch")
	expect.EQ(t, res.Rows[0].NeighborList(), "y,z")
	expect.EQ(t, Classify(a.At(0), b.At(0)), Touch)
	// An empty partner strictly inside the query doesn't touch it.
	expect.EQ(t, res.Rows[1].CodeList(), "disjoint")
	expect.EQ(t, res.Rows[1].NeighborList(), "z,none")
}

func TestRelateMaxDist(t *testing.T) {
	a := interval.MustCollection(interval.Entry{ChrName: "chr1", Start0: 700, End: 800})
	res, err := Relate(a, partners(), Opts{MaxDist: 200})
	assert.NoError(t, err)
	expect.EQ(t, res.Rows[0].Upstream, "b3")
	expect.EQ(t, res.Rows[0].Downstream, "b4")

	res, err = Relate(a, partners(), Opts{MaxDist: 0})
	assert.NoError(t, err)
	expect.EQ(t, res.Rows[0].NeighborList(), "none,none")

	_, err = Relate(a, partners(), Opts{MaxDist: -1})
	expect.True(t, errors.Is(errors.Invalid, err))
}

func TestRelateRecords(t *testing.T) {
	records := [][]string{
		{"chr1", "150", "250", "q1", "0", "+"},
		{"chr1", "x", "10"},
		{"chr1"},
		{"chr1", "300", "200"},
		{"chr1", "600", "650", "q5", "0", "-"},
	}
	res, err := RelateRecords(records, partners(), Opts{MaxDist: 1000})
	assert.NoError(t, err)
	codes := make([]string, len(res.Rows))
	for i, row := range res.Rows {
		codes[i] = row.CodeList()
	}
	expect.EQ(t, codes, []string{"overlap,overlap", "unknown", "unknown", "unknown", "touch"})
	expect.EQ(t, res.Rows[1].Fields, records[1])
	expect.EQ(t, res.Rows[1].NeighborList(), "none,none")
	expect.EQ(t, res.Tally[Unknown], int64(3))
	expect.EQ(t, res.Tally[Overlap], int64(2))
	expect.EQ(t, res.Tally[Touch], int64(1))
}

func TestCodeString(t *testing.T) {
	var names []string
	for _, c := range Codes() {
		names = append(names, c.String())
	}
	expect.EQ(t, names, []string{"disjoint", "touch", "equal", "within", "contain", "overlap", "unknown"})
	expect.EQ(t, Code(-1).String(), "Code(-1)")
}
