package main

import (
	"fmt"
	"io"
	"slices"
	"unsafe"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/leslie-fei/synptr"
	"github.com/leslie-fei/synptr/internal/container"
	"github.com/spf13/cobra"
)

var (
	relocateCount  int
	relocateSeed   int64
	relocateModels []string
)

func init() {
	cmd := newRelocateCmd()
	cmd.Flags().IntVarP(&relocateCount, "count", "n", 1000, "Words per list")
	cmd.Flags().Int64Var(&relocateSeed, "seed", 1, "Seed for the generated words")
	cmd.Flags().StringSliceVar(&relocateModels, "model", relocatableModels, "Addressing models to run")
	rootCmd.AddCommand(cmd)
}

func newRelocateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "relocate",
		Short: "Swap segments under a live list and index and verify them",
		Long: `The relocate command builds a linked list of generated words in segment
memory together with a hash index from word to position, relocates every
segment and checks that the list and the index, reached through the same
handles, still hold the same words and that segment checksums did not
change.

Example:
  synptr relocate
  synptr relocate -n 50000 --model wide --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reports, err := runRelocate(relocateCount, relocateSeed, relocateModels)
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(cmd.OutOrStdout(), reports)
			}
			return printRelocate(cmd.OutOrStdout(), reports)
		},
	}
}

// word is a fixed size string so that it can live in segment memory.
type word [24]byte

func newWord(s string) word {
	var w word
	copy(w[:], s)
	return w
}

func (w word) String() string {
	n := slices.Index(w[:], 0)
	if n < 0 {
		n = len(w)
	}
	return string(w[:n])
}

type relocateReport struct {
	Model    string               `json:"model"`
	Count    int                  `json:"count"`
	Words    int                  `json:"words"`
	Front    string               `json:"front"`
	Back     string               `json:"back"`
	Before   []synptr.SegmentStat `json:"before"`
	After    []synptr.SegmentStat `json:"after"`
	Verified bool                 `json:"verified"`
}

type relocateFunc func(count int, seed int64) (relocateReport, error)

// the wrapper and offset models keep addresses outside the segments and do
// not survive a swap
var relocatableModels = []string{"packed", "segment", "wide"}

var relocateByModel = map[string]relocateFunc{
	"packed":  relocateModel[synptr.PackedAddr[arenaSpace], *synptr.PackedAddr[arenaSpace]],
	"segment": relocateModel[synptr.SegmentAddr[arenaSpace], *synptr.SegmentAddr[arenaSpace]],
	"wide":    relocateModel[synptr.WideAddr[arenaSpace], *synptr.WideAddr[arenaSpace]],
}

func runRelocate(count int, seed int64, models []string) ([]relocateReport, error) {
	if count <= 0 {
		return nil, fmt.Errorf("count must be positive, got %d", count)
	}
	var reports []relocateReport
	for _, name := range models {
		relocate, ok := relocateByModel[name]
		if !ok {
			return nil, fmt.Errorf("model %q cannot be relocated", name)
		}
		report, err := relocate(count, seed)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		report.Model = name
		reports = append(reports, report)
	}
	return reports, nil
}

func relocateModel[M any, PM synptr.Model[M]](count int, seed int64) (relocateReport, error) {
	strategy := &synptr.Monotonic[M, PM]{}
	defer strategy.ResetSegments()

	list, err := container.NewList(synptr.AllocatorOf[word](strategy))
	if err != nil {
		return relocateReport{}, err
	}
	// position of the last occurrence of every word
	index, err := container.NewHashMap(synptr.AllocatorOf[int64](strategy), 0)
	if err != nil {
		return relocateReport{}, err
	}
	faker := gofakeit.New(seed)
	for i := 0; i < count; i++ {
		w := newWord(faker.Word())
		if _, err = list.PushBack(w); err != nil {
			return relocateReport{}, err
		}
		if err = index.Set(w.String(), int64(i)); err != nil {
			return relocateReport{}, err
		}
	}

	want := list.Values()
	report := relocateReport{Count: list.Len(), Words: index.Len(), Before: arena.Stats()}
	front, back := list.Front(), list.Back()
	logger.Debug("list built", "count", count, "front", front.Value().String())

	strategy.SwapSegments()

	report.After = arena.Stats()
	report.Front, report.Back = front.Value().String(), back.Value().String()
	report.Verified = slices.Equal(want, list.Values()) &&
		indexed(index, want) &&
		sameChecksums(report.Before, report.After)
	if !report.Verified {
		logger.Error("relocation changed the list", "count", count)
	}
	return report, nil
}

func indexed[M any, PM synptr.Model[M]](index *container.HashMap[int64, M, PM], words []word) bool {
	for i, w := range words {
		pos, err := index.Get(w.String())
		if err != nil || words[pos] != w || pos < int64(i) {
			return false
		}
	}
	return true
}

func sameChecksums(before, after []synptr.SegmentStat) bool {
	if len(before) != len(after) {
		return false
	}
	for i := range before {
		if before[i].Segment != after[i].Segment || before[i].Checksum != after[i].Checksum {
			return false
		}
	}
	return true
}

func printRelocate(w io.Writer, reports []relocateReport) error {
	for _, r := range reports {
		fmt.Fprintf(w, "%s: %d words (%d distinct), front %q, back %q, verified %v\n", r.Model, r.Count, r.Words, r.Front, r.Back, r.Verified)
		for i := range min(len(r.Before), len(r.After)) {
			fmt.Fprintf(w, "  segment %d: %s -> %s  checksum %016x\n",
				r.After[i].Segment, r.Before[i].Base, r.After[i].Base, r.After[i].Checksum)
		}
	}
	return nil
}

// nativeSlice views n elements at p as a Go slice, valid until the next
// relocation.
func nativeSlice[T any, M any, PM synptr.Model[M]](p *synptr.Ptr[T, M, PM], n int) []T {
	return unsafe.Slice(p.Native(), n)
}
