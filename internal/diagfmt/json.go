package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"sagld/internal/ast"
)

// AddressJSON carries an address as both a discriminator and its
// rendered text, so absolute zero and relative zero stay distinct.
type AddressJSON struct {
	Kind string `json:"kind"`
	Text string `json:"text"`
}

// DirectiveJSON represents one region directive.
type DirectiveJSON struct {
	Kind    string `json:"kind"` // addr | loadaddr | section | stack
	Symbol  string `json:"symbol,omitempty"`
	Next    bool   `json:"next,omitempty"`
	Pattern string `json:"pattern,omitempty"`
	Keep    bool   `json:"keep,omitempty"`
	Address string `json:"address,omitempty"`
}

// RegionJSON represents a region and its directives.
type RegionJSON struct {
	Name       string          `json:"name"`
	VMA        AddressJSON     `json:"vma"`
	Directives []DirectiveJSON `json:"directives"`
}

// BlockJSON represents one placement block.
type BlockJSON struct {
	Type      string       `json:"type"`
	LMA       AddressJSON  `json:"lma"`
	Alignment uint64       `json:"alignment,omitempty"`
	Regions   []RegionJSON `json:"regions"`
}

// FileJSON is the root of the ast subcommand's JSON output.
type FileJSON struct {
	Path         string      `json:"path,omitempty"`
	UserSections []string    `json:"user_sections,omitempty"`
	Blocks       []BlockJSON `json:"blocks"`
}

// ASTJSON writes the parsed layout as indented JSON.
func ASTJSON(w io.Writer, file *ast.SagFile, path string) error {
	out := FileJSON{
		Path:         path,
		UserSections: file.UserSections,
		Blocks:       make([]BlockJSON, 0, len(file.Blocks)),
	}

	for i := range file.Blocks {
		block := &file.Blocks[i]
		blockJSON := BlockJSON{
			Type:      string(block.Type),
			LMA:       addressJSON(block.LMA),
			Alignment: block.Alignment,
			Regions:   make([]RegionJSON, 0, len(block.Regions)),
		}
		for j := range block.Regions {
			region := &block.Regions[j]
			regionJSON := RegionJSON{
				Name:       region.Name,
				VMA:        addressJSON(region.VMA),
				Directives: make([]DirectiveJSON, 0, len(region.Directives)),
			}
			for _, directive := range region.Directives {
				regionJSON.Directives = append(regionJSON.Directives, directiveJSON(directive))
			}
			blockJSON.Regions = append(blockJSON.Regions, regionJSON)
		}
		out.Blocks = append(out.Blocks, blockJSON)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

func addressJSON(a ast.Address) AddressJSON {
	return AddressJSON{Kind: a.Kind.String(), Text: a.String()}
}

func directiveJSON(d ast.Directive) DirectiveJSON {
	switch d := d.(type) {
	case *ast.AddrDirective:
		return DirectiveJSON{Kind: "addr", Symbol: d.Symbol, Next: d.Next}
	case *ast.LoadAddrDirective:
		return DirectiveJSON{Kind: "loadaddr", Symbol: d.Symbol, Next: d.Next}
	case *ast.SectionDirective:
		return DirectiveJSON{Kind: "section", Pattern: d.Pattern, Keep: d.Keep}
	case *ast.StackDirective:
		return DirectiveJSON{Kind: "stack", Address: fmt.Sprintf("0x%08X", d.Addr)}
	default:
		return DirectiveJSON{Kind: fmt.Sprintf("%T", d)}
	}
}
