package cmd

import (
	"context"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/tsv"
	"github.com/klauspost/compress/gzip"
)

// output is a TSV destination: a file created through grailbio/base/file, or
// stdout when no path is given.  Paths ending in ".gz" are gzip compressed.
type output struct {
	*tsv.Writer
	f  file.File
	gz *gzip.Writer
}

func createOutput(ctx context.Context, path string) (*output, error) {
	if path == "" {
		return &output{Writer: tsv.NewWriter(os.Stdout)}, nil
	}
	f, err := file.Create(ctx, path)
	if err != nil {
		return nil, err
	}
	if strings.HasSuffix(path, ".gz") {
		gz := gzip.NewWriter(f.Writer(ctx))
		return &output{Writer: tsv.NewWriter(gz), f: f, gz: gz}, nil
	}
	return &output{Writer: tsv.NewWriter(f.Writer(ctx)), f: f}, nil
}

// close flushes the writer and closes the underlying file, if any.
func (o *output) close(ctx context.Context) error {
	err := o.Flush()
	if o.gz != nil {
		if e := o.gz.Close(); e != nil && err == nil {
			err = e
		}
	}
	if o.f != nil {
		if e := o.f.Close(ctx); e != nil && err == nil {
			err = e
		}
	}
	return err
}

// writeFloat writes v in the shortest form that round-trips; NaN is written
// as "NA".
func (o *output) writeFloat(v float64) {
	if math.IsNaN(v) {
		o.WriteString("NA")
		return
	}
	o.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
}

// field is one named value of a summary.
type field struct {
	name string
	v    float64
}

// writeFields writes one "name<TAB>value" line per field.
func (o *output) writeFields(fields []field) error {
	for _, f := range fields {
		o.WriteString(f.name)
		o.writeFloat(f.v)
		if err := o.EndLine(); err != nil {
			return err
		}
	}
	return nil
}

// writeLabels writes one "name<TAB>value" line per pair of strings.
func (o *output) writeLabels(kv ...string) error {
	for i := 0; i+1 < len(kv); i += 2 {
		o.WriteString(kv[i])
		o.WriteString(kv[i+1])
		if err := o.EndLine(); err != nil {
			return err
		}
	}
	return nil
}

// writeHeader writes a single line of column names.
func (o *output) writeHeader(cols ...string) error {
	for _, c := range cols {
		o.WriteString(c)
	}
	return o.EndLine()
}
