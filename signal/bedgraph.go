package signal

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/grailbio/cobind/interval"
	"github.com/pkg/errors"
)

// Stat selects the summary statistic of a track over a region.
type Stat int

const (
	// Mean is the mean signal over the covered bases of the region.
	Mean Stat = iota
	// Min is the smallest signal value in the region.
	Min
	// Max is the largest signal value in the region.
	Max
)

func (s Stat) String() string {
	switch s {
	case Mean:
		return "mean"
	case Min:
		return "min"
	case Max:
		return "max"
	}
	return fmt.Sprintf("Stat(%d)", int(s))
}

// ParseStat converts "mean", "min" or "max" to a Stat.
func ParseStat(name string) (Stat, error) {
	switch strings.ToLower(name) {
	case "mean":
		return Mean, nil
	case "min":
		return Min, nil
	case "max":
		return Max, nil
	}
	return 0, errors.Errorf("signal: unknown statistic %q", name)
}

// Track is a source of per-base signal values.
type Track interface {
	// Name identifies the track in output.
	Name() string
	// Summary returns the requested statistic over [start, end) on the given
	// chromosome.  ok is false when the track has no data there.  exact
	// requests the statistic computed from the full-resolution data rather
	// than a precomputed zoom level, where the track has one.
	Summary(chrName string, start, end interval.PosType, stat Stat, exact bool) (v float64, ok bool)
}

// BEDGraph is a Track backed by bedGraph records ("chrom start end value").
// Records are assumed not to overlap each other.
type BEDGraph struct {
	name   string
	index  *interval.Index
	values []float64
}

// NewBEDGraph builds a track from entries whose fourth field holds the
// signal value.  The entries must have been read with ReadOpts.KeepFields.
func NewBEDGraph(name string, c interval.Collection) (*BEDGraph, error) {
	values := make([]float64, c.Len())
	for i, e := range c.Entries() {
		if len(e.Fields) < 4 {
			return nil, errors.Errorf("signal: %s: record %d (%s) has no value field", name, i+1, e.Label())
		}
		v, err := strconv.ParseFloat(e.Fields[3], 64)
		if err != nil {
			return nil, errors.Wrapf(err, "signal: %s: record %d (%s)", name, i+1, e.Label())
		}
		values[i] = v
	}
	return &BEDGraph{name: name, index: interval.NewIndex(c), values: values}, nil
}

// LoadBEDGraph reads a bedGraph file.
func LoadBEDGraph(ctx context.Context, path string) (*BEDGraph, error) {
	c, err := interval.LoadBED(ctx, path, interval.ReadOpts{KeepFields: true})
	if err != nil {
		return nil, errors.Wrapf(err, "signal: loading %s", path)
	}
	return NewBEDGraph(path, c)
}

// Name implements Track.
func (t *BEDGraph) Name() string { return t.name }

// Summary implements Track.  BEDGraph has no zoom levels, so exact is
// ignored.
func (t *BEDGraph) Summary(chrName string, start, end interval.PosType, stat Stat, exact bool) (float64, bool) {
	hits := t.index.FindOverlaps(chrName, start, end)
	if len(hits) == 0 {
		return 0, false
	}
	var (
		sum, covered float64
		lo, hi       = math.Inf(1), math.Inf(-1)
	)
	for _, i := range hits {
		e := t.index.Entry(i)
		s, en := e.Start0, e.End
		if s < start {
			s = start
		}
		if en > end {
			en = end
		}
		v := t.values[i]
		sum += v * float64(en-s)
		covered += float64(en - s)
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	switch stat {
	case Mean:
		return sum / covered, true
	case Min:
		return lo, true
	case Max:
		return hi, true
	}
	return 0, false
}
