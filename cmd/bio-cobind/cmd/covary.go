package cmd

import (
	"context"

	"github.com/grailbio/base/log"
	"github.com/grailbio/cobind/interval"
	"github.com/grailbio/cobind/signal"
)

type covaryFlags struct {
	stat      string
	keepNA    bool
	topX      float64
	minSignal float64
	scores    string
	out       string
}

func writeScores(ctx context.Context, path string, t1, t2 signal.Track, rows []signal.Row) (err error) {
	out, err := createOutput(ctx, path)
	if err != nil {
		return err
	}
	defer func() {
		if e := out.close(ctx); e != nil && err == nil {
			err = e
		}
	}()
	if err = out.writeHeader("chrom", "start", "end", t1.Name(), t2.Name()); err != nil {
		return err
	}
	for _, row := range rows {
		out.WriteString(row.Region.ChrName)
		out.WriteInt64(int64(row.Region.Start0))
		out.WriteInt64(int64(row.Region.End))
		out.writeFloat(row.Score1)
		out.writeFloat(row.Score2)
		if err = out.EndLine(); err != nil {
			return err
		}
	}
	return nil
}

func covary(ctx context.Context, regionsPath, t1Path, t2Path string, flags covaryFlags) (err error) {
	stat, err := signal.ParseStat(flags.stat)
	if err != nil {
		return err
	}
	regions, err := interval.LoadBED(ctx, regionsPath, interval.ReadOpts{})
	if err != nil {
		return err
	}
	t1, err := signal.LoadBEDGraph(ctx, t1Path)
	if err != nil {
		return err
	}
	t2, err := signal.LoadBEDGraph(ctx, t2Path)
	if err != nil {
		return err
	}
	opts := signal.Opts{
		Stat:      stat,
		Exact:     true,
		KeepNA:    flags.keepNA,
		TopX:      flags.topX,
		MinSignal: flags.minSignal,
	}
	res, err := signal.Covary(regions, t1, t2, opts)
	if err != nil {
		return err
	}
	log.Printf("covary: %d of %d regions have signal, %d correlated", len(res.Rows), regions.Len(), res.Used)
	if flags.scores != "" {
		if err = writeScores(ctx, flags.scores, t1, t2, res.Rows); err != nil {
			return err
		}
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
	if err = out.writeHeader("method", "coef", "pvalue"); err != nil {
		return err
	}
	for _, c := range res.Correlations {
		if c.Err != nil {
			log.Printf("covary: %s: %v", c.Method, c.Err)
		}
		out.WriteString(c.Method.String())
		out.writeFloat(c.Coef)
		out.writeFloat(c.P)
		if err = out.EndLine(); err != nil {
			return err
		}
	}
	return nil
}
