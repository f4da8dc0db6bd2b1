package cmd

import (
	"context"
	"fmt"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/cobind/interval"
	"github.com/grailbio/cobind/pairwise"
)

type pairwiseFlags struct {
	bg     string
	genome string
	step   int64
	region string
	ncut   int64
	pcut   float64
	out    string
}

// background builds the regions to classify; nil means the union of both
// sets.
func background(ctx context.Context, a, b interval.Collection, flags pairwiseFlags) (*interval.Collection, error) {
	var (
		bg  interval.Collection
		err error
	)
	switch {
	case flags.bg != "":
		if bg, err = interval.LoadBED(ctx, flags.bg, interval.ReadOpts{}); err != nil {
			return nil, err
		}
	case flags.genome != "":
		sizes, err := interval.LoadChromSizes(ctx, flags.genome)
		if err != nil {
			return nil, err
		}
		if flags.step <= 0 || flags.step >= int64(interval.PosTypeMax) {
			return nil, errors.E(errors.Invalid, fmt.Sprintf("pairwise: window size %d out of range", flags.step))
		}
		if bg, err = interval.TileGenome(sizes, interval.PosType(flags.step)); err != nil {
			return nil, err
		}
	default:
		if flags.region == "" {
			return nil, nil
		}
		bg = interval.UnionOf(a, b).Entries()
	}
	if flags.region != "" {
		region, err := interval.ParseRegionString(flags.region)
		if err != nil {
			return nil, err
		}
		bg = interval.Restrict(bg, region)
	}
	return &bg, nil
}

func runPairwise(ctx context.Context, aPath, bPath string, flags pairwiseFlags) (err error) {
	a, b, err := loadPair(ctx, aPath, bPath)
	if err != nil {
		return err
	}
	bg, err := background(ctx, a, b, flags)
	if err != nil {
		return err
	}
	if bg != nil {
		log.Printf("pairwise: %d background regions", bg.Len())
	}
	opts := pairwise.Opts{NCut: flags.ncut, PCut: flags.pcut}

	var rowsOut *output
	summaryPath := ""
	if flags.out != "" {
		summaryPath = flags.out + ".summary.tsv"
		if rowsOut, err = createOutput(ctx, flags.out+".regions.tsv"); err != nil {
			return err
		}
		defer func() {
			if e := rowsOut.close(ctx); e != nil && err == nil {
				err = e
			}
		}()
		var rowErr error
		opts.Observer = func(row pairwise.Row) {
			if rowErr != nil {
				return
			}
			rowsOut.WriteString(row.Region.ChrName)
			rowsOut.WriteInt64(int64(row.Region.Start0))
			rowsOut.WriteInt64(int64(row.Region.End))
			rowsOut.WriteString(row.Label.String())
			rowErr = rowsOut.EndLine()
		}
		defer func() {
			if rowErr != nil && err == nil {
				err = rowErr
			}
		}()
	}
	res, err := pairwise.Classify(a, b, bg, opts)
	if err != nil {
		return err
	}
	s := res.Summary
	if s.TestErr != nil {
		log.Printf("pairwise: contingency test skipped: %v", s.TestErr)
	}

	out, err := createOutput(ctx, summaryPath)
	if err != nil {
		return err
	}
	defer func() {
		if e := out.close(ctx); e != nil && err == nil {
			err = e
		}
	}()
	return out.writeFields([]field{
		{"regions", float64(s.Regions)},
		{pairwise.Neither.String(), float64(s.Neither)},
		{pairwise.Bed1Only.String(), float64(s.Bed1Only)},
		{pairwise.Bed2Only.String(), float64(s.Bed2Only)},
		{pairwise.Cooccur.String(), float64(s.Cooccur)},
		{"odds_ratio", s.OddsRatio},
		{"pvalue", s.PValue},
	})
}
