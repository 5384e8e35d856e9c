package main

import (
	"fmt"
	"io"
	"slices"
	"text/tabwriter"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/leslie-fei/synptr"
	"github.com/spf13/cobra"
)

var (
	benchCount  int
	benchSeed   int64
	benchSuites []string
	benchModels []string
)

func init() {
	cmd := newBenchCmd()
	cmd.Flags().IntVarP(&benchCount, "count", "n", 1<<20, "Elements per run")
	cmd.Flags().Int64Var(&benchSeed, "seed", 1, "Seed for the generated data")
	cmd.Flags().StringSliceVar(&benchSuites, "suite", []string{"copy", "sort"}, "Suites to run: copy, sort")
	cmd.Flags().StringSliceVar(&benchModels, "model", modelNames, "Addressing models to run")
	rootCmd.AddCommand(cmd)
}

func newBenchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bench",
		Short: "Time native against synthetic copy and sort",
		Long: `The bench command fills two arrays in segment memory with generated
int64 values and times copy and sort through native slices and through
synthetic pointers of each addressing model.

Example:
  synptr bench
  synptr bench -n 100000 --suite sort --model packed,wide
  synptr bench --memory mmap --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := runBench(benchCount, benchSeed, benchSuites, benchModels)
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(cmd.OutOrStdout(), results)
			}
			return printBench(cmd.OutOrStdout(), results)
		},
	}
}

type benchResult struct {
	Model     string        `json:"model"`
	Suite     string        `json:"suite"`
	Count     int           `json:"count"`
	Native    time.Duration `json:"native_ns"`
	Synthetic time.Duration `json:"synthetic_ns"`
	Ratio     float64       `json:"ratio"`
}

type benchFunc func(count int, seed int64, suites []string) ([]benchResult, error)

var benchByModel = map[string]benchFunc{
	"wrapper": benchModel[synptr.WrapperAddr[arenaSpace], *synptr.WrapperAddr[arenaSpace]],
	"offset":  benchModel[synptr.OffsetAddr[arenaSpace], *synptr.OffsetAddr[arenaSpace]],
	"packed":  benchModel[synptr.PackedAddr[arenaSpace], *synptr.PackedAddr[arenaSpace]],
	"segment": benchModel[synptr.SegmentAddr[arenaSpace], *synptr.SegmentAddr[arenaSpace]],
	"wide":    benchModel[synptr.WideAddr[arenaSpace], *synptr.WideAddr[arenaSpace]],
}

var modelNames = []string{"wrapper", "offset", "packed", "segment", "wide"}

func runBench(count int, seed int64, suites, models []string) ([]benchResult, error) {
	if count <= 0 {
		return nil, fmt.Errorf("count must be positive, got %d", count)
	}
	if need := uint64(count) * 8; need > arena.MaxSegmentSize()-64 {
		return nil, fmt.Errorf("%d elements need %d bytes, segments hold %d", count, need, arena.MaxSegmentSize()-64)
	}
	for _, suite := range suites {
		if suite != "copy" && suite != "sort" {
			return nil, fmt.Errorf("unknown suite %q", suite)
		}
	}

	var results []benchResult
	for _, name := range models {
		bench, ok := benchByModel[name]
		if !ok {
			return nil, fmt.Errorf("unknown model %q", name)
		}
		rs, err := bench(count, seed, suites)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		for i := range rs {
			rs[i].Model = name
		}
		results = append(results, rs...)
	}
	return results, nil
}

func benchModel[M any, PM synptr.Model[M]](count int, seed int64, suites []string) ([]benchResult, error) {
	strategy := &synptr.Monotonic[M, PM]{}
	defer strategy.ResetSegments()
	alloc := synptr.AllocatorOf[int64](strategy)

	src, err := alloc.Allocate(count)
	if err != nil {
		return nil, err
	}
	dst, err := alloc.Allocate(count)
	if err != nil {
		return nil, err
	}
	srcEnd := new(synptr.Ptr[int64, M, PM]).Add(src, count)
	nativeSrc := nativeSlice(src, count)
	nativeDst := nativeSlice(dst, count)

	faker := gofakeit.New(seed)
	fill := func() {
		for i := range nativeSrc {
			nativeSrc[i] = faker.Int64()
		}
	}

	var results []benchResult
	for _, suite := range suites {
		r := benchResult{Suite: suite, Count: count}
		switch suite {
		case "copy":
			fill()
			r.Native = timeIt(func() { copy(nativeDst, nativeSrc) })
			clear(nativeDst)
			r.Synthetic = timeIt(func() { synptr.Copy(src.Const(), srcEnd.Const(), dst) })
			if m, _ := synptr.Mismatch(src.Const(), srcEnd.Const(), dst.Const()); !m.Equal(srcEnd.Const()) {
				return nil, fmt.Errorf("copy mismatch at element %d", m.Diff(src.Const()))
			}
		case "sort":
			fill()
			copy(nativeDst, nativeSrc)
			r.Native = timeIt(func() { slices.Sort(nativeDst) })
			r.Synthetic = timeIt(func() { synptr.Sort(src, srcEnd) })
			if m, _ := synptr.Mismatch(src.Const(), srcEnd.Const(), dst.Const()); !m.Equal(srcEnd.Const()) {
				return nil, fmt.Errorf("sort mismatch at element %d", m.Diff(src.Const()))
			}
		}
		if r.Native > 0 {
			r.Ratio = float64(r.Synthetic) / float64(r.Native)
		}
		logger.Debug("bench done", "suite", suite, "native", r.Native, "synthetic", r.Synthetic)
		results = append(results, r)
	}
	return results, nil
}

func timeIt(f func()) time.Duration {
	start := time.Now()
	f()
	return time.Since(start)
}

func printBench(w io.Writer, results []benchResult) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "MODEL\tSUITE\tCOUNT\tNATIVE\tSYNTHETIC\tRATIO")
	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%v\t%v\t%.2f\n", r.Model, r.Suite, r.Count, r.Native, r.Synthetic, r.Ratio)
	}
	return tw.Flush()
}
