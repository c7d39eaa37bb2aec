package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/montanaflynn/stats"
	"github.com/spf13/cobra"

	"github.com/joshuapare/heapkit/heap/alloc"
	"github.com/joshuapare/heapkit/heap/dirty"
	"github.com/joshuapare/heapkit/heap/memlib"
	"github.com/joshuapare/heapkit/heap/verify"
	"github.com/joshuapare/heapkit/internal/format"
	"github.com/joshuapare/heapkit/internal/logger"
	"github.com/joshuapare/heapkit/internal/trace"
)

var (
	replayConfig  string
	replayCheck   bool
	replayFile    string
	replayMaxHeap string
	replayPreset  string
)

func init() {
	cmd := newReplayCmd()
	cmd.Flags().StringVar(&replayConfig, "config", "", "YAML trace-set file")
	cmd.Flags().BoolVar(&replayCheck, "check", false, "Verify the whole heap after every operation")
	cmd.Flags().StringVar(&replayFile, "file", "", "Back the heap with this file instead of memory (an existing heap image is replaced)")
	cmd.Flags().StringVar(&replayMaxHeap, "max-heap", "", "Heap size limit, e.g. 20MiB (default 20MiB)")
	cmd.Flags().StringVar(&replayPreset, "preset", alloc.DefaultConfig.Name, "Allocator configuration preset")
	rootCmd.AddCommand(cmd)
}

func newReplayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay [traces...]",
		Short: "Replay traces and report utilization and throughput",
		Long: `The replay command runs each trace against a fresh heap. Every
payload is filled with a pattern that must survive until it is freed, and
every returned block is checked for alignment and overlap.

Presets:
  Standard     - 10 power-of-two classes, page-sized growth
  Coarse       - 6 classes
  Fine         - 16 classes, 64KB growth
  NoSplitSmall - only split off remainders of 64 bytes or more

Example:
  heapctl replay traces/*.rep
  heapctl replay --check --preset Fine short1.rep
  heapctl replay --config traces.yaml --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rc, err := buildRunConfig(cmd, args)
			if err != nil {
				return err
			}
			return runReplay(cmd.Context(), rc)
		},
	}
	return cmd
}

// buildRunConfig merges the trace-set file with flags. Flags that were set
// explicitly win over the file.
func buildRunConfig(cmd *cobra.Command, args []string) (runConfig, error) {
	rc := runConfig{check: replayCheck, file: replayFile}
	preset, maxHeap := replayPreset, replayMaxHeap

	if replayConfig != "" {
		ts, err := readTraceSet(replayConfig)
		if err != nil {
			return rc, err
		}
		rc.traces = ts.Traces
		if ts.Preset != "" && !cmd.Flags().Changed("preset") {
			preset = ts.Preset
		}
		if ts.MaxHeap != "" && !cmd.Flags().Changed("max-heap") {
			maxHeap = ts.MaxHeap
		}
		if !cmd.Flags().Changed("check") {
			rc.check = ts.Check
		}
		if ts.File != "" && !cmd.Flags().Changed("file") {
			rc.file = ts.File
		}
	}
	rc.traces = append(rc.traces, args...)
	if len(rc.traces) == 0 {
		return rc, errors.New("no traces given")
	}

	var err error
	if rc.config, err = alloc.PresetByName(preset); err != nil {
		return rc, err
	}
	if rc.maxHeap, err = parseSize(maxHeap); err != nil {
		return rc, err
	}
	return rc, nil
}

// traceReport is one row of replay output.
type traceReport struct {
	Trace       string  `json:"trace"`
	Ops         int     `json:"ops"`
	PeakPayload int     `json:"peak_payload"`
	HeapSize    int     `json:"heap_size"`
	Utilization float64 `json:"utilization"`
	OpsPerSec   float64 `json:"ops_per_sec"`
	Error       string  `json:"error,omitempty"`
}

type replaySummary struct {
	Config         string        `json:"config"`
	Traces         []traceReport `json:"traces"`
	Failed         int           `json:"failed"`
	MeanUtil       float64       `json:"mean_utilization"`
	MeanOpsPerSec  float64       `json:"mean_ops_per_sec"`
	TotalOps       int           `json:"total_ops"`
	TotalElapsedMs float64       `json:"total_elapsed_ms"`
}

func runReplay(ctx context.Context, rc runConfig) error {
	sum := replaySummary{Config: rc.config.String()}
	var utils, tputs []float64
	var elapsed time.Duration

	for _, path := range rc.traces {
		rep := traceReport{Trace: path}
		res, err := replayOne(ctx, path, rc)
		if err != nil {
			rep.Error = err.Error()
			sum.Failed++
			logger.Warn("trace failed", "trace", path, "error", err)
			if !jsonOut {
				printError("%v\n", err)
			}
		} else {
			rep.Trace = res.Name
			rep.Ops = res.Ops
			rep.PeakPayload = res.PeakPayload
			rep.HeapSize = res.HeapSize
			rep.Utilization = res.Utilization
			rep.OpsPerSec = res.Throughput()
			utils = append(utils, res.Utilization)
			tputs = append(tputs, rep.OpsPerSec)
			sum.TotalOps += res.Ops
			elapsed += res.Elapsed
			logger.Info("trace replayed", "trace", res.Name, "ops", res.Ops,
				"utilization", res.Utilization, "elapsed", res.Elapsed)
			printVerbose("%s: %d grows, %d splits, %d coalesces\n", res.Name,
				res.Stats.GrowCalls, res.Stats.SplitCount, res.Stats.CoalesceLeft+res.Stats.CoalesceRight)
		}
		sum.Traces = append(sum.Traces, rep)
	}
	sum.TotalElapsedMs = float64(elapsed.Microseconds()) / 1000.0

	// stats.Mean only fails on empty input.
	sum.MeanUtil, _ = stats.Mean(utils)
	sum.MeanOpsPerSec, _ = stats.Mean(tputs)

	if jsonOut {
		if err := printJSON(sum); err != nil {
			return err
		}
	} else {
		printTable(sum)
	}

	if sum.Failed > 0 {
		return fmt.Errorf("%d of %d traces failed", sum.Failed, len(rc.traces))
	}
	return nil
}

// replayOne loads and replays a single trace on a fresh provider.
func replayOne(ctx context.Context, path string, rc runConfig) (trace.Result, error) {
	tr, err := trace.Load(path)
	if err != nil {
		return trace.Result{}, err
	}
	printVerbose("Replaying %s (%d ops, %d ids)\n", tr.Name, len(tr.Ops), tr.NumIDs)

	opts := trace.Options{Config: &rc.config, Check: rc.check}
	if rc.file == "" {
		opts.Provider = memlib.NewMem(rc.maxHeap)
		return trace.Replay(ctx, tr, opts)
	}

	// Each trace starts from an empty file.
	if err := resetHeapFile(rc.file); err != nil {
		return trace.Result{}, err
	}
	fp, err := memlib.OpenFile(rc.file, rc.maxHeap)
	if err != nil {
		return trace.Result{}, err
	}
	dt := dirty.NewTracker(fp.PageSize())
	opts.Provider = fp
	opts.Dirty = dt

	res, err := trace.Replay(ctx, tr, opts)
	if err == nil {
		err = dt.Flush(ctx, fp.Bytes())
	}
	return res, errors.Join(err, fp.Close())
}

// resetHeapFile removes path so the next replay starts empty. A non-empty
// file is only removed when it holds a heap image of some class count.
func resetHeapFile(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if len(data) > 0 && !isHeapImage(data) {
		return fmt.Errorf("refusing to overwrite %s: not a heap image", path)
	}
	return os.Remove(path)
}

func isHeapImage(data []byte) bool {
	for n := 1; n <= format.MaxNumClasses; n++ {
		if verify.Heap(data, n) == nil {
			return true
		}
	}
	return false
}

func printTable(sum replaySummary) {
	if quiet {
		return
	}
	tw := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "trace\tops\tpeak\theap\tutil\tops/sec\t\n")
	for _, r := range sum.Traces {
		if r.Error != "" {
			fmt.Fprintf(tw, "%s\t-\t-\t-\tFAILED\t-\t\n", r.Trace)
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.1f%%\t%s\t\n",
			r.Trace,
			humanize.Comma(int64(r.Ops)),
			humanize.IBytes(uint64(r.PeakPayload)),
			humanize.IBytes(uint64(r.HeapSize)),
			r.Utilization*100,
			humanize.Comma(int64(r.OpsPerSec)))
	}
	tw.Flush()

	printInfo("\nConfig: %s\n", sum.Config)
	printInfo("Traces: %d ok, %d failed\n", len(sum.Traces)-sum.Failed, sum.Failed)
	printInfo("Mean utilization: %.1f%%\n", sum.MeanUtil*100)
	printInfo("Mean throughput: %s ops/sec (%s ops in %.1fms)\n",
		humanize.Comma(int64(sum.MeanOpsPerSec)), humanize.Comma(int64(sum.TotalOps)), sum.TotalElapsedMs)
}
