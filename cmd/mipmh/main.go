// Command mipmh solves mixed-integer programs with the tabu-search engine.
//
//	mipmh solve model.mps --output result.json
//	mipmh serve --port 8117
//
// Solver options come from DefaultOptions, overridden by an optional YAML
// config file (--config) and then by command-line flags.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/golang/glog"
	"github.com/katalvlaran/mipmh/solver"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	configPath string
	options    = solver.DefaultOptions()
)

var rootCmd = &cobra.Command{
	Use:           "mipmh",
	Short:         "Metaheuristic MIP solver (tabu search with adaptive penalties)",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	defer glog.Flush()
	if err := rootCmd.Execute(); err != nil {
		glog.Errorf("command failed: %v", err)
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	// glog logs to files by default; a CLI wants stderr.
	_ = flag.Set("logtostderr", "true")
	rootCmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"YAML file with solver option overrides")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if configPath == "" {
			return nil
		}
		raw, err := os.ReadFile(configPath)
		if err != nil {
			return fmt.Errorf("reading config %s: %w", configPath, err)
		}
		if err := yaml.Unmarshal(raw, &options); err != nil {
			return fmt.Errorf("parsing config %s: %w", configPath, err)
		}
		glog.Infof("loaded solver options from %s", configPath)
		return nil
	}

	rootCmd.AddCommand(solveCmd, serveCmd)
}
