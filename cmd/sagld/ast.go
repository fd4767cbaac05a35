package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sagld/internal/diagfmt"
	"sagld/internal/parser"
)

var astCmd = &cobra.Command{
	Use:   "ast [flags] <file.sag>",
	Short: "Parse a SAG layout and output its AST",
	Long:  `Ast parses a SAG memory layout description and prints the parsed structure without generating a linker script`,
	Args:  cobra.ExactArgs(1),
	RunE:  runAst,
}

func init() {
	astCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func runAst(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}

	sag, file, err := parser.ParseFile(args[0])
	if err != nil {
		colorOn, colorErr := useColor(cmd, os.Stderr)
		if colorErr != nil {
			return colorErr
		}
		diagfmt.Pretty(os.Stderr, file, err, diagfmt.PrettyOpts{Color: colorOn})
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return fmt.Errorf("")
	}

	switch format {
	case "pretty":
		diagfmt.ASTPretty(os.Stdout, sag, file.Path)
		return nil
	case "json":
		return diagfmt.ASTJSON(os.Stdout, sag, file.Path)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
