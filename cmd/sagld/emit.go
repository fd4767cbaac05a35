package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"sagld/internal/driver"
	"sagld/internal/version"
)

var emitCmd = &cobra.Command{
	Use:   "emit [flags] [path]",
	Short: "Emit the project linker script described by sagld.toml",
	Long: `Emit reads the [memory] section of sagld.toml, converts the configured SAG
layout, and writes the linker script to the configured output path. When the
layout cannot be converted a fallback script is written instead so the link
still has a memory map.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEmit,
}

func init() {
	emitCmd.Flags().Bool("fresh", false, "drop the emit cache before converting")
}

func runEmit(cmd *cobra.Command, args []string) error {
	startDir := "."
	if len(args) > 0 && args[0] != "" {
		startDir = args[0]
	}

	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	fresh, err := cmd.Flags().GetBool("fresh")
	if err != nil {
		return fmt.Errorf("failed to get fresh flag: %w", err)
	}

	manifest, found, err := loadProjectManifest(startDir)
	if err != nil {
		return err
	}
	if !found {
		return errors.New(noSagldTomlMessage)
	}
	sagPath, outputPath, cfg, err := resolveMemoryTarget(manifest)
	if err != nil {
		return err
	}

	cleanup, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	cache, err := driver.OpenEmitCache("sagld")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: emit cache unavailable: %v\n", err)
		cache = nil
	}
	if fresh && cache != nil {
		if err := cache.DropAll(); err != nil {
			return fmt.Errorf("failed to drop emit cache: %w", err)
		}
	}

	res, err := driver.Emit(sagPath, outputPath, cfg, version.Version, cache)
	if err != nil {
		return err
	}

	if res.Fallback {
		// A broken layout degrades the link rather than failing the build.
		fmt.Fprintf(os.Stderr, "Warning: Could not parse SAG file: %v\n", res.ConvertErr)
		fmt.Fprintln(os.Stderr, "Using fallback memory layout")
	}

	if showTimings {
		printStageTimings(os.Stdout, res.Timings)
	}

	display := formatPathForOutput(manifest.Root, res.OutputPath)
	if !quiet {
		if res.Skipped {
			fmt.Fprintf(os.Stdout, "%s up to date\n", display)
		} else {
			fmt.Fprintf(os.Stdout, "wrote %s\n", display)
		}
	}
	return nil
}

func formatPathForOutput(root, path string) string {
	if root == "" || path == "" {
		return path
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	if strings.HasPrefix(rel, "..") {
		return path
	}
	return filepath.ToSlash(rel)
}
