package cmd

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/cobind/interval"
	"github.com/grailbio/cobind/stats"
)

// coefColumns are the columns combined by zscore when all are present.
var coefColumns = []string{"C", "J", "SD", "SS", "PMI", "NPMI"}

// coefTable is a TSV table whose first column labels the rows.
type coefTable struct {
	header []string
	rows   [][]string
}

func readCoefTable(ctx context.Context, path string) (t coefTable, err error) {
	in, err := interval.Open(ctx, path)
	if err != nil {
		return
	}
	defer func() {
		if e := in.Close(); e != nil && err == nil {
			err = e
		}
	}()
	r := tsv.NewReader(in)
	r.Comment = '#'
	r.LazyQuotes = true
	for {
		var rec []string
		if rec, err = r.Reader.Read(); err != nil {
			if err == io.EOF {
				err = nil
				break
			}
			err = errors.E(errors.Integrity, err, path)
			return
		}
		// The reader reuses its record buffer.
		rec = append([]string(nil), rec...)
		if t.header == nil {
			t.header = rec
			continue
		}
		t.rows = append(t.rows, rec)
	}
	if len(t.header) == 0 {
		err = errors.E(errors.Integrity, fmt.Sprintf("zscore: %s: missing header", path))
	}
	return
}

// column parses column j as floats; ok is false if any value is not numeric.
func (t coefTable) column(j int) (col []float64, ok bool) {
	col = make([]float64, len(t.rows))
	for i, row := range t.rows {
		v, err := strconv.ParseFloat(row[j], 64)
		if err != nil {
			return nil, false
		}
		col[i] = v
	}
	return col, true
}

// zscoreColumns picks the columns to combine: the coefficient columns if all
// are present, otherwise every numeric column but the first.
func (t coefTable) zscoreColumns() (names []string, cols [][]float64) {
	index := map[string]int{}
	for j, name := range t.header[1:] {
		index[name] = j + 1
	}
	all := true
	for _, name := range coefColumns {
		if _, ok := index[name]; !ok {
			all = false
			break
		}
	}
	if all {
		for _, name := range coefColumns {
			if col, ok := t.column(index[name]); ok {
				names = append(names, name)
				cols = append(cols, col)
			}
		}
		if len(names) == len(coefColumns) {
			return
		}
		log.Printf("zscore: coefficient columns are not all numeric, using every numeric column")
		names, cols = nil, nil
	}
	for j := 1; j < len(t.header); j++ {
		if col, ok := t.column(j); ok {
			names = append(names, t.header[j])
			cols = append(cols, col)
		}
	}
	return
}

func zscore(ctx context.Context, path, outPath string) (err error) {
	t, err := readCoefTable(ctx, path)
	if err != nil {
		return err
	}
	names, cols := t.zscoreColumns()
	if len(cols) == 0 {
		return errors.E(errors.Invalid, fmt.Sprintf("zscore: %s has no numeric columns", path))
	}
	log.Printf("zscore: combining %d rows of columns %v", len(t.rows), names)
	for i := range cols {
		cols[i] = stats.ZScores(cols[i])
	}
	sums := stats.SumColumns(cols)

	out, err := createOutput(ctx, outPath)
	if err != nil {
		return err
	}
	defer func() {
		if e := out.close(ctx); e != nil && err == nil {
			err = e
		}
	}()
	out.WriteString(t.header[0])
	if err = out.writeHeader(append(names, "Zscore")...); err != nil {
		return err
	}
	for i, row := range t.rows {
		out.WriteString(row[0])
		for _, col := range cols {
			out.writeFloat(col[i])
		}
		out.writeFloat(sums[i])
		if err = out.EndLine(); err != nil {
			return err
		}
	}
	return nil
}
