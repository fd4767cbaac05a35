package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sagld/internal/prof"
)

// setupProfiling inspects the persistent profiling flags and starts the
// matching profilers. The returned cleanup function is safe to call
// multiple times.
func setupProfiling(cmd *cobra.Command) (func(), error) {
	root := cmd.Root()

	cpuProfile, err := root.PersistentFlags().GetString("cpu-profile")
	if err != nil {
		return nil, fmt.Errorf("failed to get cpu-profile flag: %w", err)
	}
	memProfile, err := root.PersistentFlags().GetString("mem-profile")
	if err != nil {
		return nil, fmt.Errorf("failed to get mem-profile flag: %w", err)
	}
	tracePath, err := root.PersistentFlags().GetString("runtime-trace")
	if err != nil {
		return nil, fmt.Errorf("failed to get runtime-trace flag: %w", err)
	}

	session := &prof.Session{}
	if cpuProfile != "" {
		if err := session.StartCPU(cpuProfile); err != nil {
			return nil, fmt.Errorf("failed to start cpu profile: %w", err)
		}
	}
	if tracePath != "" {
		if err := session.StartTrace(tracePath); err != nil {
			_ = session.Stop()
			return nil, fmt.Errorf("failed to start trace: %w", err)
		}
	}
	if memProfile != "" {
		session.CaptureMemOnStop(memProfile)
	}

	cleaned := false
	cleanup := func() {
		if cleaned {
			return
		}
		cleaned = true
		if err := session.Stop(); err != nil {
			fmt.Fprintf(os.Stderr, "failed to stop profilers: %v\n", err)
		}
	}
	return cleanup, nil
}
