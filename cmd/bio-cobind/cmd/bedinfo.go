package cmd

import (
	"context"

	"github.com/grailbio/cobind/interval"
)

func bedInfo(ctx context.Context, path, outPath string) (err error) {
	c, err := interval.LoadBED(ctx, path, interval.ReadOpts{})
	if err != nil {
		return err
	}
	s := interval.Info(c)
	out, err := createOutput(ctx, outPath)
	if err != nil {
		return err
	}
	defer func() {
		if e := out.close(ctx); e != nil && err == nil {
			err = e
		}
	}()
	return out.writeFields([]field{
		{"count", float64(s.Count)},
		{"genomic_size", float64(s.GenomicSize)},
		{"total_size", float64(s.TotalSize)},
		{"mean_size", s.Mean},
		{"median_size", s.Median},
		{"min_size", s.Min},
		{"max_size", s.Max},
		{"sd_size", s.SD},
	})
}
