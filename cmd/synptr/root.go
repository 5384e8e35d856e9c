package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/leslie-fei/synptr"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose     bool
	jsonOut     bool
	memoryType  string
	memoryKey   string
	segments    uint64
	segmentSize uint64
)

var (
	logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	arena  *synptr.Registry
)

// arenaSpace binds the addressing models of every command to arena.
type arenaSpace struct{}

func (arenaSpace) Segments() synptr.SegmentStore { return arena }

var rootCmd = &cobra.Command{
	Use:   "synptr",
	Short: "Exercise synthetic pointers over relocatable segments",
	Long: `synptr runs the same algorithms through native pointers and through
synthetic pointers of every addressing model, and relocates segment
storage under live containers to show that handles follow their data.`,
	Version:           "0.1.0",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if arena == nil {
			return nil
		}
		return arena.ClearSegments()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().StringVar(&memoryType, "memory", "go", "Segment backend: go, shm or mmap")
	rootCmd.PersistentFlags().StringVar(&memoryKey, "key", "", "shm key or mmap file prefix")
	rootCmd.PersistentFlags().Uint64Var(&segments, "segments", 4, "Number of segments")
	rootCmd.PersistentFlags().Uint64Var(&segmentSize, "segment-size", 16, "Segment size in MiB")
}

func setup(cmd *cobra.Command, args []string) error {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	typ, err := synptr.ParseMemoryType(memoryType)
	if err != nil {
		return err
	}
	arena, err = synptr.NewRegistry(&synptr.Config{
		MemoryType:     typ,
		MemoryKey:      memoryKey,
		MaxSegments:    segments,
		MaxSegmentSize: segmentSize * synptr.MB,
		Logger:         logger,
	})
	if err != nil {
		return err
	}
	logger.Debug("registry ready", "memory", typ, "segments", segments, "segment_size", segmentSize*synptr.MB)
	return nil
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// printJSON outputs data as JSON
func printJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
