// Package srog classifies the spatial relation of genomic intervals (SROG
// codes): whether two intervals are disjoint, touch, are equal, or one lies
// within, contains or partially overlaps the other.
package srog

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/cobind/interval"
)

// Code is the relation of a query interval to a partner.
type Code int

const (
	// Disjoint intervals share no base and don't touch.
	Disjoint Code = iota
	// Touch means the intervals are adjacent.
	Touch
	// Equal intervals have the same endpoints.
	Equal
	// Within means the query lies inside the partner.
	Within
	// Contain means the query contains the partner.
	Contain
	// Overlap is a partial overlap.
	Overlap
	// Unknown marks a query whose coordinates could not be parsed.
	Unknown
)

var codeNames = [...]string{"disjoint", "touch", "equal", "within", "contain", "overlap", "unknown"}

func (c Code) String() string {
	if c < 0 || int(c) >= len(codeNames) {
		return fmt.Sprintf("Code(%d)", int(c))
	}
	return codeNames[c]
}

// Codes lists all codes in declaration order.
func Codes() []Code {
	cs := make([]Code, len(codeNames))
	for i := range cs {
		cs[i] = Code(i)
	}
	return cs
}

// Classify returns the relation of i1 to i2.  Intervals on different
// chromosomes are always Disjoint.
func Classify(i1, i2 interval.Entry) Code {
	if i1.ChrName != i2.ChrName {
		return Disjoint
	}
	s1, e1, s2, e2 := i1.Start0, i1.End, i2.Start0, i2.End
	lo, hi := s1, e1
	if s2 > lo {
		lo = s2
	}
	if e2 < hi {
		hi = e2
	}
	if hi <= lo {
		if s1 == e2 || e1 == s2 {
			return Touch
		}
		return Disjoint
	}
	switch {
	case s1 == s2 && e1 == e2:
		return Equal
	case s1 >= s2 && e1 <= e2:
		return Within
	case s1 <= s2 && e1 >= e2:
		return Contain
	}
	return Overlap
}

// None is reported in place of a missing neighbor.
const None = "none"

// Opts configures Relate.
type Opts struct {
	// MaxDist bounds the distance, in bases, at which the nearest upstream and
	// downstream neighbors of an isolated interval are searched.
	MaxDist int64
}

// Row is the classification of one query interval.
type Row struct {
	// Fields is the query's original record.
	Fields []string
	Entry  interval.Entry
	// Codes holds one code per partner, ordered by partner start.  An
	// isolated query has the single code Disjoint; an unparsable one has
	// Unknown.
	Codes []Code
	// Partners are the labels of the partners that overlap or touch the
	// query.
	Partners []string
	// Upstream and Downstream name the nearest neighbors of an isolated
	// query, relative to its strand, or None.
	Upstream, Downstream string
}

// CodeList returns the row's codes separated by commas.
func (r Row) CodeList() string {
	names := make([]string, len(r.Codes))
	for i, c := range r.Codes {
		names[i] = c.String()
	}
	return strings.Join(names, ",")
}

// NeighborList returns the partner labels separated by commas, or
// "upstream,downstream" for an isolated query.
func (r Row) NeighborList() string {
	if len(r.Partners) > 0 {
		return strings.Join(r.Partners, ",")
	}
	return r.Upstream + "," + r.Downstream
}

// Result holds the rows of a Relate call.
type Result struct {
	Rows []Row
	// Tally counts every reported code.
	Tally map[Code]int64
}

// Relater compares query intervals against a fixed partner collection.
type Relater struct {
	index *interval.Index
	opts  Opts
	tally map[Code]int64
}

// NewRelater indexes partners.  A negative opts.MaxDist is rejected with
// errors.Invalid.
func NewRelater(partners interval.Collection, opts Opts) (*Relater, error) {
	if opts.MaxDist < 0 {
		return nil, errors.E(errors.Invalid, fmt.Sprintf("srog: negative maximum distance %d", opts.MaxDist))
	}
	return &Relater{
		index: interval.NewIndex(partners),
		opts:  opts,
		tally: make(map[Code]int64),
	}, nil
}

// Tally returns the code counts accumulated so far.
func (r *Relater) Tally() map[Code]int64 {
	tally := make(map[Code]int64, len(r.tally))
	for c, n := range r.tally {
		tally[c] = n
	}
	return tally
}

func (r *Relater) neighbor(i int, ok bool) string {
	if !ok {
		return None
	}
	return r.index.Entry(i).Label()
}

// Relate classifies a single query interval.
func (r *Relater) Relate(e interval.Entry, fields []string) Row {
	row := Row{Fields: fields, Entry: e}
	// Widen the query by one base on each side so touching partners are found.
	qStart := e.Start0 - 1
	if qStart < 0 {
		qStart = 0
	}
	qEnd := e.End
	if qEnd < interval.PosTypeMax {
		qEnd++
	}
	hits := r.index.FindOverlaps(e.ChrName, qStart, qEnd)
	// Zero-length partners can only touch the query, at one of its ends.
	empty := r.index.EmptyAt(e.ChrName, e.Start0)
	if e.End != e.Start0 {
		empty = append(empty, r.index.EmptyAt(e.ChrName, e.End)...)
	}
	if len(empty) > 0 {
		hits = append(hits, empty...)
		sort.Slice(hits, func(i, j int) bool {
			ei, ej := r.index.Entry(hits[i]), r.index.Entry(hits[j])
			if ei.Start0 != ej.Start0 {
				return ei.Start0 < ej.Start0
			}
			return hits[i] < hits[j]
		})
	}
	for _, i := range hits {
		partner := r.index.Entry(i)
		code := Classify(e, partner)
		if code == Disjoint {
			continue
		}
		row.Codes = append(row.Codes, code)
		row.Partners = append(row.Partners, partner.Label())
	}
	if len(row.Codes) == 0 {
		row.Codes = []Code{Disjoint}
		strand := e.Strand
		up, down := e.Start0, e.End
		if strand == '-' {
			up, down = e.End, e.Start0
		}
		i, _, ok := r.index.NearestUpstream(e.ChrName, up, strand, r.opts.MaxDist)
		row.Upstream = r.neighbor(i, ok)
		i, _, ok = r.index.NearestDownstream(e.ChrName, down, strand, r.opts.MaxDist)
		row.Downstream = r.neighbor(i, ok)
	}
	for _, c := range row.Codes {
		r.tally[c]++
	}
	return row
}

// RelateFields parses a raw record and classifies it.  A record with
// malformed coordinates yields an Unknown row instead of an error.
func (r *Relater) RelateFields(fields []string) Row {
	e, err := interval.ParseFields(fields, interval.ReadOpts{})
	if err != nil {
		r.tally[Unknown]++
		return Row{Fields: fields, Codes: []Code{Unknown}, Upstream: None, Downstream: None}
	}
	return r.Relate(e, fields)
}

func entryFields(e interval.Entry) []string {
	if len(e.Fields) > 0 {
		return e.Fields
	}
	fields := []string{e.ChrName, strconv.Itoa(int(e.Start0)), strconv.Itoa(int(e.End))}
	if e.Name != "" {
		fields = append(fields, e.Name)
	}
	return fields
}

// Relate classifies every interval of a against the intervals of b.
func Relate(a, b interval.Collection, opts Opts) (Result, error) {
	r, err := NewRelater(b, opts)
	if err != nil {
		return Result{}, err
	}
	res := Result{Rows: make([]Row, 0, a.Len())}
	for _, e := range a.Entries() {
		res.Rows = append(res.Rows, r.Relate(e, entryFields(e)))
	}
	res.Tally = r.Tally()
	return res, nil
}

// RelateRecords is like Relate, but takes the query intervals as raw
// whitespace-split records.  Malformed records classify as Unknown.
func RelateRecords(records [][]string, b interval.Collection, opts Opts) (Result, error) {
	r, err := NewRelater(b, opts)
	if err != nil {
		return Result{}, err
	}
	res := Result{Rows: make([]Row, 0, len(records))}
	for _, fields := range records {
		res.Rows = append(res.Rows, r.RelateFields(fields))
	}
	res.Tally = r.Tally()
	return res, nil
}
