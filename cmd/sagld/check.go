package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"sagld/internal/diagfmt"
	"sagld/internal/driver"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] <file.sag|directory>",
	Short: "Check SAG layouts for parse errors",
	Long:  `Check parses a SAG layout file or every *.sag file under a directory and reports the ones that fail`,
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().Int("jobs", 0, "max parallel workers for directory processing (0=auto)")
	checkCmd.Flags().String("ui", "auto", "progress interface (auto|on|off)")
}

func runCheck(cmd *cobra.Command, args []string) error {
	path := args[0]

	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	colorOn, err := useColor(cmd, os.Stderr)
	if err != nil {
		return err
	}
	prettyOpts := diagfmt.PrettyOpts{Color: colorOn}

	st, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat path: %w", err)
	}

	cleanup, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	var results []driver.CheckResult
	if !st.IsDir() {
		results = []driver.CheckResult{driver.Check(path, nil)}
	} else {
		jobs, jobsErr := cmd.Flags().GetInt("jobs")
		if jobsErr != nil {
			return fmt.Errorf("failed to get jobs flag: %w", jobsErr)
		}
		if jobs <= 0 {
			jobs = runtime.GOMAXPROCS(0)
		}
		uiValue, uiErr := cmd.Flags().GetString("ui")
		if uiErr != nil {
			return fmt.Errorf("failed to get ui flag: %w", uiErr)
		}
		uiModeValue, uiErr := readUIMode(uiValue)
		if uiErr != nil {
			return uiErr
		}

		files, listErr := driver.ListLayoutFiles(path)
		if listErr != nil {
			return fmt.Errorf("failed to list layouts: %w", listErr)
		}
		if len(files) == 0 {
			if !quiet {
				fmt.Fprintf(os.Stdout, "no *.sag files under %s\n", path)
			}
			return nil
		}

		if shouldUseTUI(uiModeValue) {
			results, err = runCheckWithUI(cmd.Context(), "sagld check", files, path, jobs)
		} else {
			results, err = driver.CheckDir(cmd.Context(), path, jobs, nil)
		}
		if err != nil {
			return fmt.Errorf("check failed: %w", err)
		}
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			diagfmt.Pretty(os.Stderr, r.File, r.Err, prettyOpts)
			continue
		}
		if !quiet {
			if showTimings {
				fmt.Fprintf(os.Stdout, "ok %s (%.1f ms)\n", r.Path, toMillis(r.Elapsed))
			} else {
				fmt.Fprintf(os.Stdout, "ok %s\n", r.Path)
			}
		}
	}

	if len(results) > 1 && !quiet {
		fmt.Fprintf(os.Stdout, "checked %d layouts, %d failed\n", len(results), failed)
	}
	if failed > 0 {
		// Suppress cobra usage output, diagnostics are already printed
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return fmt.Errorf("")
	}
	return nil
}
