package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"sagld/internal/diagfmt"
	"sagld/internal/driver"
	"sagld/internal/layout"
	"sagld/internal/source"
)

var generateCmd = &cobra.Command{
	Use:   "generate [flags] <file.sag>",
	Short: "Generate a GNU LD linker script from a SAG layout",
	Long:  `Generate converts a SAG memory layout description into a GNU LD linker script for the selected memory map`,
	Args:  cobra.ExactArgs(1),
	RunE:  runGenerate,
}

func init() {
	generateCmd.Flags().StringP("output", "o", "", "write the linker script to a file instead of stdout")
	generateCmd.Flags().StringP("layout", "l", "ddr", "memory map preset (ddr|ilm)")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return fmt.Errorf("failed to get output flag: %w", err)
	}
	cfg, err := layoutFromFlags(cmd)
	if err != nil {
		return err
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}

	res, err := driver.ConvertFile(args[0], cfg)
	if err != nil {
		colorOn, colorErr := useColor(cmd, os.Stderr)
		if colorErr != nil {
			return colorErr
		}
		var file *source.File
		if res != nil {
			file = res.File
		}
		diagfmt.Pretty(os.Stderr, file, err, diagfmt.PrettyOpts{Color: colorOn})
		// Suppress cobra usage output, the diagnostic is already printed
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return fmt.Errorf("")
	}

	if showTimings {
		// Timings go to stderr so stdout stays a clean artifact.
		fmt.Fprint(os.Stderr, res.Timing.Summary())
	}

	if outputPath == "" {
		_, err = fmt.Fprint(os.Stdout, res.Script)
		return err
	}
	if err := os.WriteFile(outputPath, []byte(res.Script), 0o644); err != nil {
		return fmt.Errorf("failed to write %q: %w", outputPath, err)
	}
	if !quiet {
		fmt.Fprintf(os.Stdout, "wrote %s\n", outputPath)
	}
	return nil
}

func layoutFromFlags(cmd *cobra.Command) (*layout.Config, error) {
	key, err := cmd.Flags().GetString("layout")
	if err != nil {
		return nil, fmt.Errorf("failed to get layout flag: %w", err)
	}
	cfg, ok := layout.Preset(strings.ToLower(strings.TrimSpace(key)))
	if !ok {
		return nil, fmt.Errorf("unknown layout %q (supported: %s)", key, strings.Join(layout.PresetKeys(), ", "))
	}
	return cfg, nil
}
