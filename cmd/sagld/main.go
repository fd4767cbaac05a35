package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"sagld/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "sagld",
	Short: "SAG memory layout to GNU LD linker script converter",
	Long:  `sagld turns SAG memory layout descriptions into GNU LD linker scripts for Andes RISC-V targets`,
}

// main registers subcommands and persistent flags, then executes the root
// command. A failed command exits with status code 1.
func main() {
	// Version for the automatic --version flag.
	rootCmd.Version = version.Version

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(astCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(layoutsCmd)
	rootCmd.AddCommand(emitCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(versionCmd)

	// Global flags
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().String("cpu-profile", "", "write a CPU profile to the given path")
	rootCmd.PersistentFlags().String("mem-profile", "", "write a heap profile to the given path on exit")
	rootCmd.PersistentFlags().String("runtime-trace", "", "write a runtime execution trace to the given path")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// useColor resolves the persistent --color flag against the stream the
// output goes to. It also pins the global color state so fatih/color
// renderers agree with the flag.
func useColor(cmd *cobra.Command, f *os.File) (bool, error) {
	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, err
	}
	on := colorFlag == "on" || (colorFlag == "auto" && isTerminal(f))
	color.NoColor = !on
	return on, nil
}
