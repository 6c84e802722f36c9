package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/leafengine/leafcore/internal/config"
)

var (
	// Global flags
	configPaths []string
	verbose     bool
	quiet       bool
	jsonOut     bool
	noColor     bool
)

var rootCmd = &cobra.Command{
	Use:   "leafctl",
	Short: "Exercise the Leaf core library from the command line",
	Long: `leafctl drives the engine's core library: it renders format templates,
measures hash map probing behavior and runs allocation workloads against the
configured allocator, reporting tracker statistics and leaks.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor {
			color.NoColor = true
		}
	},
}

func init() {
	rootCmd.PersistentFlags().
		StringSliceVarP(&configPaths, "config", "c", []string{"leaf.yaml"}, "Configuration files to try, first existing wins")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		printError("%v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the configuration named by --config plus LEAF_* overrides.
func loadConfig() (config.Config, error) {
	var c config.Config
	if err := config.Load(configPaths, &c); err != nil {
		return c, err
	}
	if verbose && c.OriginalPath != "" {
		printVerbose("Loaded configuration from %s\n", c.OriginalPath)
	}
	return c, nil
}

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...any) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printError prints an error message
func printError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format, args...)
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...any) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
