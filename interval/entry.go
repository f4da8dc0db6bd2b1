// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package interval

import (
	"fmt"
	"sort"

	"github.com/grailbio/base/errors"
)

// Entry represents a single interval, with 0-based half-open coordinates.
type Entry struct {
	ChrName string
	Start0  PosType
	End     PosType
	// Name is the optional 4th BED column.
	Name string
	// Strand is '+' or '-'.  The zero value is treated as '+'.
	Strand byte
	// Fields holds the raw whitespace-delimited record this entry was parsed
	// from.  It is only populated when ReadOpts.KeepFields is set.
	Fields []string
}

// Len returns the number of bases covered by the entry.
func (e Entry) Len() int64 {
	return int64(e.End) - int64(e.Start0)
}

// IsReverse returns whether the entry is on the minus strand.
func (e Entry) IsReverse() bool {
	return e.Strand == '-'
}

// Label returns the entry's name, falling back to a "chr:start-end" locus
// string for unnamed entries.
func (e Entry) Label() string {
	if e.Name != "" {
		return e.Name
	}
	return fmt.Sprintf("%s:%d-%d", e.ChrName, e.Start0, e.End)
}

func (e Entry) validate() error {
	if e.ChrName == "" {
		return errors.E(errors.Integrity, "interval: empty chromosome name")
	}
	if e.Start0 < 0 {
		return errors.E(errors.Integrity, fmt.Sprintf("interval: negative start coordinate %d on %s", e.Start0, e.ChrName))
	}
	if e.End < e.Start0 || e.End >= PosTypeMax {
		return errors.E(errors.Integrity, fmt.Sprintf("interval: invalid coordinate pair [%d, %d) on %s", e.Start0, e.End, e.ChrName))
	}
	if e.Strand != 0 && e.Strand != '+' && e.Strand != '-' {
		return errors.E(errors.Integrity, fmt.Sprintf("interval: invalid strand %q on %s", e.Strand, e.ChrName))
	}
	return nil
}

// Collection is an unordered multiset of entries.  Entries may overlap and
// need not be sorted; Union produces the merged form.  Entries are addressed
// by their insertion index, which Index query results refer to.
type Collection struct {
	entries []Entry
}

// NewCollection validates the given entries and returns a Collection holding
// them.
func NewCollection(entries ...Entry) (c Collection, err error) {
	c.entries = make([]Entry, 0, len(entries))
	for _, e := range entries {
		if err = c.Add(e); err != nil {
			return Collection{}, err
		}
	}
	return c, nil
}

// MustCollection is like NewCollection, but panics on invalid entries.
func MustCollection(entries ...Entry) Collection {
	c, err := NewCollection(entries...)
	if err != nil {
		panic(err)
	}
	return c
}

// Add appends an entry.  Entries with end < start, a negative start, or an
// invalid strand are rejected with an errors.Integrity error.
func (c *Collection) Add(e Entry) error {
	if err := e.validate(); err != nil {
		return err
	}
	if e.Strand == 0 {
		e.Strand = '+'
	}
	c.entries = append(c.entries, e)
	return nil
}

// Len returns the number of entries.
func (c Collection) Len() int { return len(c.entries) }

// At returns entry i.
func (c Collection) At(i int) Entry { return c.entries[i] }

// Entries returns the entries in insertion order.  The returned slice must not
// be modified.
func (c Collection) Entries() []Entry { return c.entries }

// Chroms returns the distinct chromosome names in sorted order.
func (c Collection) Chroms() []string {
	seen := make(map[string]struct{})
	var names []string
	for _, e := range c.entries {
		if _, ok := seen[e.ChrName]; !ok {
			seen[e.ChrName] = struct{}{}
			names = append(names, e.ChrName)
		}
	}
	sort.Strings(names)
	return names
}

// ActualSize returns the sum of the raw entry lengths.  Overlapping entries
// are counted repeatedly, so this can exceed GenomicSize.
func (c Collection) ActualSize() int64 {
	var total int64
	for _, e := range c.entries {
		total += e.Len()
	}
	return total
}

// Subset returns a new Collection holding entries idx[0], idx[1], ... in that
// order.
func (c Collection) Subset(idx []int) Collection {
	sub := Collection{entries: make([]Entry, len(idx))}
	for i, j := range idx {
		sub.entries[i] = c.entries[j]
	}
	return sub
}

// Concat returns a Collection holding the entries of all arguments.
func Concat(cs ...Collection) Collection {
	n := 0
	for _, c := range cs {
		n += len(c.entries)
	}
	out := Collection{entries: make([]Entry, 0, n)}
	for _, c := range cs {
		out.entries = append(out.entries, c.entries...)
	}
	return out
}
