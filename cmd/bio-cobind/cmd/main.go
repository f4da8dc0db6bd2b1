// Copyright 2020 Grail Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cmd

import (
	"fmt"

	"github.com/grailbio/base/cmdutil"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/cobind/bootstrap"
	"github.com/grailbio/cobind/pairwise"
	"github.com/grailbio/cobind/signal"
	"v.io/x/lib/cmdline"
)

const bedHelp = `BED and BED-like inputs (bed3, bed6, bedGraph, narrowPeak, ...) may be plain
text, gzip, bzip2 or xz compressed, or remote (http://, https://).  "-" reads
stdin.`

func newCmdOverlap() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "overlap",
		Short:    "Compute an overlap coefficient of two interval sets, with a bootstrap confidence interval",
		Long:     bedHelp,
		ArgsName: "a.bed b.bed",
	}
	flags := overlapFlags{}
	cmd.Flags.IntVar(&flags.draws, "n", bootstrap.DefaultOpts.NDraws, "Number of resampling draws used to estimate the confidence interval; 0 turns resampling off")
	cmd.Flags.Float64Var(&flags.fraction, "f", bootstrap.DefaultOpts.Fraction, "Fraction of the intervals of each set drawn per resample, in (0, 1)")
	cmd.Flags.Float64Var(&flags.background, "b", bootstrap.DefaultOpts.BackgroundSize, "Effective background genome size, in bases")
	cmd.Flags.StringVar(&flags.kind, "coef", bootstrap.DefaultOpts.Kind.String(), "Coefficient: collocation, jaccard, simpson, dice, pmi or npmi")
	cmd.Flags.Int64Var(&flags.seed, "seed", bootstrap.DefaultOpts.Seed, "Random seed for resampling")
	cmd.Flags.StringVar(&flags.out, "out", "", "Output TSV path; stdout if empty")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 2 {
			return fmt.Errorf("overlap takes two BED paths, but got %v", argv)
		}
		return overlap(vcontext.Background(), argv[0], argv[1], flags)
	})
	return cmd
}

func newCmdCooccur() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "cooccur",
		Short:    "Compute the co-occurrence table (PMI, NPMI) and all coefficients of two interval sets",
		Long:     bedHelp,
		ArgsName: "a.bed b.bed",
	}
	background := cmd.Flags.Float64("b", bootstrap.DefaultOpts.BackgroundSize, "Effective background genome size, in bases")
	out := cmd.Flags.String("out", "", "Output TSV path; stdout if empty")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 2 {
			return fmt.Errorf("cooccur takes two BED paths, but got %v", argv)
		}
		return cooccur(vcontext.Background(), argv[0], argv[1], *background, *out)
	})
	return cmd
}

func newCmdPairwise() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:  "pairwise",
		Short: "Classify background regions by their occupancy by two interval sets",
		Long: `Each background region is labeled neither, bed1_only, bed2_only or cooccur.
The background is, in order of preference, the -bg BED file, the genome of
-genome tiled into -step sized windows, or the union of both sets.

` + bedHelp,
		ArgsName: "a.bed b.bed",
	}
	flags := pairwiseFlags{}
	cmd.Flags.StringVar(&flags.bg, "bg", "", "Background regions BED path")
	cmd.Flags.StringVar(&flags.genome, "genome", "", "Chromosome sizes: a two-column text file, or a SAM/BAM file whose header lists the references")
	cmd.Flags.Int64Var(&flags.step, "step", 1000, "Window size used to tile -genome")
	cmd.Flags.StringVar(&flags.region, "region", "", "Restrict the background to a region, formatted as <chr>, <chr>:<pos> or <chr>:<start>-<end> (1-based, closed)")
	cmd.Flags.Int64Var(&flags.ncut, "ncut", pairwise.DefaultOpts.NCut, "Minimum number of overlapping bases for a region to count as occupied")
	cmd.Flags.Float64Var(&flags.pcut, "pcut", pairwise.DefaultOpts.PCut, "Minimum fraction of the overlapping intervals' size inside a region for it to count as occupied")
	cmd.Flags.StringVar(&flags.out, "out", "", `Output path prefix.  Rows are written to <prefix>.regions.tsv and the
summary to <prefix>.summary.tsv; if empty, only the summary is written, to stdout`)
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 2 {
			return fmt.Errorf("pairwise takes two BED paths, but got %v", argv)
		}
		return runPairwise(vcontext.Background(), argv[0], argv[1], flags)
	})
	return cmd
}

func newCmdSROG() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:  "srog",
		Short: "Classify the spatial relation of each interval of a.bed to the intervals of b.bed",
		Long: `Every record of a.bed is written back with two extra columns: the relation
codes (disjoint, touch, equal, within, contain, overlap, unknown) to each
partner in b.bed, and the partner labels, or for isolated intervals the
nearest upstream and downstream intervals.  Malformed records of a.bed are
reported as unknown.

` + bedHelp,
		ArgsName: "a.bed b.bed",
	}
	maxDist := cmd.Flags.Int64("max-dist", 250000000, "Maximum distance, in bases, to the nearest upstream and downstream intervals")
	out := cmd.Flags.String("out", "", "Output TSV path; stdout if empty")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 2 {
			return fmt.Errorf("srog takes two BED paths, but got %v", argv)
		}
		return runSROG(vcontext.Background(), argv[0], argv[1], *maxDist, *out)
	})
	return cmd
}

func newCmdCovary() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "covary",
		Short:    "Correlate the signal of two bedGraph tracks over a set of regions",
		Long:     bedHelp,
		ArgsName: "regions.bed t1.bedgraph t2.bedgraph",
	}
	flags := covaryFlags{}
	cmd.Flags.StringVar(&flags.stat, "stat", signal.DefaultOpts.Stat.String(), "Summary statistic of a track over a region: mean, min or max")
	cmd.Flags.BoolVar(&flags.keepNA, "keep-na", signal.DefaultOpts.KeepNA, "Report regions without signal in either track, as NA")
	cmd.Flags.Float64Var(&flags.topX, "topx", signal.DefaultOpts.TopX, "Correlate only the regions with the strongest t1 signal: a fraction if <= 1, a count otherwise")
	cmd.Flags.Float64Var(&flags.minSignal, "min-sig", signal.DefaultOpts.MinSignal, "Correlate only regions whose signals both exceed this value")
	cmd.Flags.StringVar(&flags.scores, "scores", "", "Output TSV path for per-region scores; not written if empty")
	cmd.Flags.StringVar(&flags.out, "out", "", "Output TSV path for the correlations; stdout if empty")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 3 {
			return fmt.Errorf("covary takes a BED path and two bedGraph paths, but got %v", argv)
		}
		return covary(vcontext.Background(), argv[0], argv[1], argv[2], flags)
	})
	return cmd
}

func newCmdBEDInfo() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "bedinfo",
		Short:    "Show size statistics of a BED file",
		Long:     bedHelp,
		ArgsName: "in.bed",
	}
	out := cmd.Flags.String("out", "", "Output TSV path; stdout if empty")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 1 {
			return fmt.Errorf("bedinfo takes one BED path, but got %v", argv)
		}
		return bedInfo(vcontext.Background(), argv[0], *out)
	})
	return cmd
}

func newCmdZScore() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:  "zscore",
		Short: "Combine coefficient columns of a table into one z-score per row",
		Long: `The input is a TSV file with a header row.  Each of the columns C, J, SD, SS,
PMI and NPMI is converted to z-scores; if any of them is missing, every numeric
column is used instead.  The z-scores of each row are summed and divided by
the square root of the number of columns, and written as a Zscore column
appended to the input.`,
		ArgsName: "in.tsv",
	}
	out := cmd.Flags.String("out", "", "Output TSV path; stdout if empty")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 1 {
			return fmt.Errorf("zscore takes one TSV path, but got %v", argv)
		}
		return zscore(vcontext.Background(), argv[0], *out)
	})
	return cmd
}

// Run runs the bio-cobind command line.
func Run() {
	log.AddFlags()
	cmdline.HideGlobalFlagsExcept()
	cmdline.Main(
		&cmdline.Command{
			Name:     "bio-cobind",
			Short:    "Measure the co-occurrence of genomic interval sets",
			LookPath: false,
			Children: []*cmdline.Command{
				newCmdOverlap(),
				newCmdCooccur(),
				newCmdPairwise(),
				newCmdSROG(),
				newCmdCovary(),
				newCmdBEDInfo(),
				newCmdZScore(),
			},
		})
}
