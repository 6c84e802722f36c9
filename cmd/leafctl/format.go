package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/leafengine/leafcore/core/strs"
)

var (
	formatLegacy bool
	formatRaw    bool
)

func init() {
	cmd := newFormatCmd()
	cmd.Flags().BoolVar(&formatLegacy, "legacy", false, "Use %{ } markers regardless of configuration")
	cmd.Flags().BoolVar(&formatRaw, "raw", false, "Pass every argument as a string")
	rootCmd.AddCommand(cmd)
}

func newFormatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "format <template> [args...]",
		Short: "Render a format template",
		Long: `The format command renders a template with the engine's marker language.
Arguments that parse as integers, floats or booleans are passed as such,
everything else as a string.

Example:
  leafctl format "{} has {,4} entries" textures 7
  leafctl format "{.2}" 3.14159
  leafctl format --legacy "[%{,2}:%{,2}]" 7 5`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFormat(args)
		},
	}
	return cmd
}

type formatResult struct {
	Template string `json:"template"`
	Output   string `json:"output"`
}

func runFormat(args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	settings, err := cfg.Resolve()
	if err != nil {
		return err
	}

	markers := settings.Markers
	if formatLegacy {
		markers = strs.LegacyMarkers
	}

	values := make([]any, 0, len(args)-1)
	for _, a := range args[1:] {
		if formatRaw {
			values = append(values, a)
			continue
		}
		values = append(values, parseArg(a))
	}

	out := markers.Render(args[0], values...)
	if jsonOut {
		return printJSON(formatResult{Template: args[0], Output: out})
	}
	fmt.Println(out)
	return nil
}

// parseArg picks the narrowest type the text parses as.
func parseArg(s string) any {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if u, err := strconv.ParseUint(s, 10, 64); err == nil {
		return u
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	switch s {
	case "true":
		return true
	case "false":
		return false
	}
	return s
}
