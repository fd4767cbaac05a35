package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"sagld/internal/layout"
	"sagld/internal/ldscript"
)

var layoutsCmd = &cobra.Command{
	Use:   "layouts [flags]",
	Short: "List built-in memory maps",
	Long:  `Layouts prints the built-in memory maps linker scripts can be generated against`,
	Args:  cobra.NoArgs,
	RunE:  runLayouts,
}

func init() {
	layoutsCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

type layoutRegionPayload struct {
	Name   string `json:"name"`
	Origin string `json:"origin"`
	Length uint64 `json:"length"`
	Size   string `json:"size"`
	Attrs  string `json:"attrs"`
}

type layoutPayload struct {
	Name    string                `json:"name"`
	Regions []layoutRegionPayload `json:"regions"`
}

func runLayouts(cmd *cobra.Command, _ []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if _, err := useColor(cmd, os.Stdout); err != nil {
		return err
	}

	switch format {
	case "pretty":
		keyStyle := color.New(color.FgYellow, color.Bold)
		titleStyle := color.New(color.FgCyan)
		for i, key := range layout.PresetKeys() {
			cfg, _ := layout.Preset(key)
			if i > 0 {
				fmt.Fprintln(os.Stdout)
			}
			fmt.Fprintf(os.Stdout, "%s  %s\n", keyStyle.Sprint(key), titleStyle.Sprint(cfg.Name))
			for _, name := range cfg.Names() {
				region := cfg.Regions[name]
				fmt.Fprintf(os.Stdout, "  %-8s (%s)  ORIGIN = 0x%08X, LENGTH = %s\n",
					name, region.Attrs, region.Origin, ldscript.FormatSize(region.Length))
			}
		}
		return nil
	case "json":
		output := make(map[string]layoutPayload, len(layout.PresetKeys()))
		for _, key := range layout.PresetKeys() {
			cfg, _ := layout.Preset(key)
			regions := make([]layoutRegionPayload, 0, len(cfg.Regions))
			for _, name := range cfg.Names() {
				region := cfg.Regions[name]
				regions = append(regions, layoutRegionPayload{
					Name:   name,
					Origin: fmt.Sprintf("0x%08X", region.Origin),
					Length: region.Length,
					Size:   ldscript.FormatSize(region.Length),
					Attrs:  region.Attrs,
				})
			}
			output[key] = layoutPayload{Name: cfg.Name, Regions: regions}
		}
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(output)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
