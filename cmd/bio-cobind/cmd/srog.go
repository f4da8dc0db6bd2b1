package cmd

import (
	"context"

	"github.com/grailbio/base/log"
	"github.com/grailbio/cobind/interval"
	"github.com/grailbio/cobind/srog"
)

func runSROG(ctx context.Context, aPath, bPath string, maxDist int64, outPath string) (err error) {
	records, err := interval.LoadRecords(ctx, aPath)
	if err != nil {
		return err
	}
	b, err := interval.LoadBED(ctx, bPath, interval.ReadOpts{})
	if err != nil {
		return err
	}
	log.Printf("srog: %d records from %s, %d intervals from %s", len(records), aPath, b.Len(), bPath)
	res, err := srog.RelateRecords(records, b, srog.Opts{MaxDist: maxDist})
	if err != nil {
		return err
	}

	out, err := createOutput(ctx, outPath)
	if err != nil {
		return err
	}
	defer func() {
		if e := out.close(ctx); e != nil && err == nil {
			err = e
		}
	}()
	for _, row := range res.Rows {
		for _, f := range row.Fields {
			out.WriteString(f)
		}
		out.WriteString(row.CodeList())
		out.WriteString(row.NeighborList())
		if err = out.EndLine(); err != nil {
			return err
		}
	}
	for _, c := range srog.Codes() {
		log.Printf("srog: %s\t%d", c, res.Tally[c])
	}
	return nil
}
