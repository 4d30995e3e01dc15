package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/golang/glog"
	"github.com/katalvlaran/mipmh/mps"
	"github.com/katalvlaran/mipmh/solver"
	"github.com/spf13/cobra"
)

var (
	outputPath   string
	timeMax      float64
	iterationMax int
	seed         int64
	verbosity    int
)

var solveCmd = &cobra.Command{
	Use:   "solve <model.mps>",
	Short: "Solve an MPS file and write the result as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runSolve,
}

func init() {
	solveCmd.Flags().StringVarP(&outputPath, "output", "o", "",
		"result JSON path (default: stdout)")
	solveCmd.Flags().Float64Var(&timeMax, "time-max", 0,
		"wall-clock cap in seconds (overrides config)")
	solveCmd.Flags().IntVar(&iterationMax, "iterations", 0,
		"outer-loop cap (overrides config)")
	solveCmd.Flags().Int64Var(&seed, "seed", 0,
		"RNG seed (overrides config)")
	solveCmd.Flags().IntVar(&verbosity, "verbose", int(solver.VerboseOuter),
		"0=none 1=warning 2=outer 3=full")
}

func runSolve(cmd *cobra.Command, args []string) error {
	path := args[0]
	glog.Infof("reading MPS model from %s", path)

	m, summary, err := mps.ReadFile(path)
	if err != nil {
		return err
	}
	glog.Infof("parsed %s: %d columns, %d rows", summary.Name,
		summary.NumberOfColumns, summary.NumberOfRows)
	if len(summary.ContinuousColumns) > 0 {
		glog.Warningf("%d continuous columns are treated as integer (first: %s)",
			len(summary.ContinuousColumns), summary.ContinuousColumns[0])
	}

	opt := options
	if cmd.Flags().Changed("time-max") {
		opt.TimeMax = timeMax
	}
	if cmd.Flags().Changed("iterations") {
		opt.IterationMax = iterationMax
	}
	if cmd.Flags().Changed("seed") {
		opt.Seed = seed
	}
	opt.Verbose = solver.Verbose(verbosity)

	result, err := solver.Solve(m, opt)
	if err != nil && result == nil {
		return err
	}
	if err != nil {
		// A callback failure still produced a usable incumbent.
		glog.Warningf("solve finished with error: %v", err)
	}

	glog.Infof("run %s: objective %.6f, feasible=%t, %.3fs",
		result.RunID, result.Solution.Objective,
		result.Solution.IsFeasible, result.Status.ElapsedTime)

	payload, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	if outputPath == "" {
		fmt.Println(string(payload))
		return nil
	}
	if err := os.WriteFile(outputPath, payload, 0o644); err != nil {
		return err
	}
	glog.Infof("result written to %s", outputPath)
	return nil
}
