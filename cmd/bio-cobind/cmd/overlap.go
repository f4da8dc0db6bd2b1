package cmd

import (
	"context"

	"github.com/grailbio/base/log"
	"github.com/grailbio/cobind/bootstrap"
	"github.com/grailbio/cobind/coef"
	"github.com/grailbio/cobind/interval"
)

type overlapFlags struct {
	draws      int
	fraction   float64
	background float64
	kind       string
	seed       int64
	out        string
}

func loadPair(ctx context.Context, aPath, bPath string) (a, b interval.Collection, err error) {
	if a, err = interval.LoadBED(ctx, aPath, interval.ReadOpts{}); err != nil {
		return
	}
	if b, err = interval.LoadBED(ctx, bPath, interval.ReadOpts{}); err != nil {
		return
	}
	log.Printf("loaded %d intervals from %s, %d intervals from %s", a.Len(), aPath, b.Len(), bPath)
	return
}

func overlap(ctx context.Context, aPath, bPath string, flags overlapFlags) (err error) {
	kind, err := coef.ParseKind(flags.kind)
	if err != nil {
		return err
	}
	a, b, err := loadPair(ctx, aPath, bPath)
	if err != nil {
		return err
	}
	opts := bootstrap.Opts{
		Kind:           kind,
		NDraws:         flags.draws,
		Fraction:       flags.fraction,
		BackgroundSize: flags.background,
		Seed:           flags.seed,
		Progress: func(draw, n int) {
			log.Debug.Printf("overlap: draw %d/%d done", draw, n)
		},
	}
	res, err := bootstrap.Estimate(a, b, opts)
	if err != nil {
		return err
	}
	if res.Skipped > 0 {
		log.Printf("overlap: %d of %d draws skipped, %s undefined on the subsample", res.Skipped, flags.draws, kind)
	}

	out, err := createOutput(ctx, flags.out)
	if err != nil {
		return err
	}
	defer func() {
		if e := out.close(ctx); e != nil && err == nil {
			err = e
		}
	}()
	if err = out.writeLabels("A.name", aPath, "B.name", bPath, "coef", kind.String()); err != nil {
		return err
	}
	return out.writeFields([]field{
		{"A.interval_count", float64(res.ACount)},
		{"B.interval_count", float64(res.BCount)},
		{"A.size", float64(res.ASize)},
		{"B.size", float64(res.BSize)},
		{"A_or_B.size", float64(res.UnionSize)},
		{"A_and_B.size", float64(res.Overlap)},
		{"Coef", res.Observed},
		{"Coef(expected)", res.Expected},
		{"Coef(ratio)", res.Ratio},
		{"Coef(95% CI low)", res.Low},
		{"Coef(95% CI high)", res.High},
		{"draws", float64(len(res.Draws))},
	})
}

func cooccur(ctx context.Context, aPath, bPath string, background float64, outPath string) (err error) {
	a, b, err := loadPair(ctx, aPath, bPath)
	if err != nil {
		return err
	}
	x := float64(interval.GenomicSize(a))
	y := float64(interval.GenomicSize(b))
	xy := float64(interval.OverlapSizeOf(a, b))
	log.Debug.Printf("cooccur: |A|=%v |B|=%v |A&B|=%v background=%v", x, y, xy, background)
	sum, err := coef.Summarize(x, y, xy, background)
	if err != nil {
		return err
	}
	table, err := coef.Cooccurrence(x, y, xy, background)
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
	if err = out.writeLabels("A_name", aPath, "B_name", bPath); err != nil {
		return err
	}
	fields := []field{
		{"A", table.PA},
		{"not_A", table.PNotA},
		{"B", table.PB},
		{"not_B", table.PNotB},
		{"A_not_B", table.ANotB.P},
		{"B_not_A", table.BNotA.P},
		{"A_and_B", table.AAndB.P},
		{"Neither_A_nor_B", table.Neither},
		{"A_and_B.pmi", table.AAndB.PMI},
		{"A_and_B.npmi", table.AAndB.NPMI},
		{"A_not_B.pmi", table.ANotB.PMI},
		{"A_not_B.npmi", table.ANotB.NPMI},
		{"B_not_A.pmi", table.BNotA.PMI},
		{"B_not_A.npmi", table.BNotA.NPMI},
		{"A_and_B.size", sum.AAndB},
		{"A_and_B.exp_size", sum.AAndBExp},
		{"A_or_B.size", sum.AOrB},
	}
	for _, k := range coef.Kinds() {
		fields = append(fields, field{"coef." + k.String(), sum.Coef[k]})
	}
	fields = append(fields, field{"jaccard_distance", sum.JaccardDistance})
	return out.writeFields(fields)
}
