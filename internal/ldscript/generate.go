// Package ldscript renders parsed SAG layouts as GNU LD linker
// scripts.
package ldscript

import (
	"fmt"
	"strings"

	"sagld/internal/ast"
	"sagld/internal/layout"
)

// Generate renders a complete linker script for the parsed layout
// against the given memory map. It never fails: address arithmetic
// wraps and unknown addresses fall back to a RAM region reference.
// Output is deterministic, so generated scripts diff cleanly.
func Generate(file *ast.SagFile, cfg *layout.Config) string {
	var b strings.Builder

	b.WriteString("/* Auto-generated from SAG file */\n")
	fmt.Fprintf(&b, "/* Config: %q */\n", cfg.Name)
	b.WriteByte('\n')
	b.WriteString("OUTPUT_ARCH(riscv)\n")
	b.WriteString("ENTRY(_start)\n")
	b.WriteByte('\n')

	b.WriteString("MEMORY\n{\n")
	for _, name := range cfg.Names() {
		region := cfg.Regions[name]
		fmt.Fprintf(&b, "    %s (%s) : ORIGIN = 0x%08X, LENGTH = %s\n",
			name, region.Attrs, region.Origin, FormatSize(region.Length))
	}
	b.WriteString("}\n")
	b.WriteByte('\n')

	if stack, ok := file.FirstStack(); ok {
		fmt.Fprintf(&b, "__stack_top = 0x%08X;\n", stack)
		b.WriteByte('\n')
	}

	b.WriteString("SECTIONS\n{\n")

	// Load addresses accumulate: a relative block address is an offset
	// from wherever the previous block landed.
	var cursor uint64
	for _, block := range file.Blocks {
		lma := block.LMA.Resolve(cursor)
		if block.Alignment != 0 {
			lma = (lma + block.Alignment - 1) &^ (block.Alignment - 1)
		}
		cursor = lma

		b.WriteByte('\n')
		fmt.Fprintf(&b, "    /* Block: %s @ LMA 0x%08X */\n", block.Type, cursor)

		for i := range block.Regions {
			emitRegion(&b, &block.Regions[i], cursor, cfg)
		}
	}

	b.WriteByte('\n')
	b.WriteString("    PROVIDE(_end = .);\n")
	b.WriteString("    PROVIDE(end = .);\n")
	b.WriteString("}\n")

	return b.String()
}

func emitRegion(b *strings.Builder, region *ast.Region, lma uint64, cfg *layout.Config) {
	// Virtual addresses are always written absolute-from-zero, however
	// they were spelled in the source.
	vma := region.VMA.Resolve(0)

	b.WriteByte('\n')
	fmt.Fprintf(b, "    /* Region: %s VMA=0x%08X LMA=0x%08X */\n", region.Name, vma, lma)

	vmaRegion, vmaFound := cfg.RegionFor(vma)
	lmaRegion, lmaFound := cfg.RegionFor(lma)

	memRegion := vmaRegion
	if !vmaFound {
		memRegion = "RAM"
	}
	// A region runs in place when its virtual and load addresses fall
	// in the same memory region. Two addresses outside every region
	// count as the same place.
	runsInPlace := vmaFound == lmaFound && vmaRegion == lmaRegion

	for _, directive := range region.Directives {
		switch d := directive.(type) {
		case *ast.AddrDirective:
			fmt.Fprintf(b, "    %s = .;\n", d.Symbol)
		case *ast.LoadAddrDirective:
			fmt.Fprintf(b, "    %s = LOADADDR(.%s);\n", d.Symbol, strings.ToLower(region.Name))
		case *ast.SectionDirective:
			for _, section := range expandSectionPattern(d.Pattern) {
				if runsInPlace {
					fmt.Fprintf(b, "    .%s :\n", section)
				} else {
					fmt.Fprintf(b, "    .%s : AT(%d)\n", section, lma)
				}
				b.WriteString("    {\n")
				if d.Keep {
					fmt.Fprintf(b, "        KEEP(*(.%s))\n", section)
					fmt.Fprintf(b, "        KEEP(*(.%s*))\n", section)
				} else {
					fmt.Fprintf(b, "        *(.%s)\n", section)
					fmt.Fprintf(b, "        *(.%s*)\n", section)
				}
				fmt.Fprintf(b, "    } > %s\n", memRegion)
			}
		case *ast.StackDirective:
			fmt.Fprintf(b, "    __stack_top = 0x%08X;\n", d.Addr)
		}
	}
}
