package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sagld/internal/driver"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove the sagld emit cache",
	Long:  "Remove the on-disk cache the emit command uses to skip up-to-date linker scripts.",
	Args:  cobra.NoArgs,
	RunE:  runClean,
}

func runClean(_ *cobra.Command, _ []string) error {
	cache, err := driver.OpenEmitCache("sagld")
	if err != nil {
		return fmt.Errorf("failed to open emit cache: %w", err)
	}
	if err := cache.DropAll(); err != nil {
		return fmt.Errorf("failed to remove emit cache: %w", err)
	}
	_, _ = fmt.Fprintf(os.Stdout, "emit cache removed\n")
	return nil
}
