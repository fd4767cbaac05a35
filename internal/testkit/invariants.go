// Package testkit holds structural checks shared by parser and fuzz tests.
package testkit

import (
	"fmt"
	"math/bits"

	"sagld/internal/ast"
)

// CheckLayoutInvariants verifies the structural guarantees the parser
// maintains for every file it accepts:
// 1) block types are one of the recognized keywords
// 2) alignment is absent or a power of two
// 3) region names are uppercase-led and never a directive keyword
// 4) addresses use exactly one of their variant fields
func CheckLayoutInvariants(file *ast.SagFile) error {
	if file == nil {
		return fmt.Errorf("nil file")
	}
	for bi := range file.Blocks {
		block := &file.Blocks[bi]
		if !knownBlockType(block.Type) {
			return fmt.Errorf("block %d: unknown type %q", bi, block.Type)
		}
		if block.Alignment != 0 && bits.OnesCount64(block.Alignment) != 1 {
			return fmt.Errorf("block %d: alignment %d is not a power of two", bi, block.Alignment)
		}
		if err := checkAddress(block.LMA); err != nil {
			return fmt.Errorf("block %d: LMA: %w", bi, err)
		}
		for ri := range block.Regions {
			region := &block.Regions[ri]
			if err := checkRegionName(region.Name); err != nil {
				return fmt.Errorf("block %d region %d: %w", bi, ri, err)
			}
			if err := checkAddress(region.VMA); err != nil {
				return fmt.Errorf("block %d region %q: VMA: %w", bi, region.Name, err)
			}
			for di, directive := range region.Directives {
				if directive == nil {
					return fmt.Errorf("block %d region %q: directive %d is nil", bi, region.Name, di)
				}
			}
		}
	}
	return nil
}

func knownBlockType(t ast.BlockType) bool {
	for _, known := range ast.BlockTypes {
		if t == known {
			return true
		}
	}
	return false
}

func checkRegionName(name string) error {
	if name == "" {
		return fmt.Errorf("empty region name")
	}
	if name[0] < 'A' || name[0] > 'Z' {
		return fmt.Errorf("region name %q does not start with an uppercase letter", name)
	}
	switch name {
	case "ADDR", "LOADADDR", "STACK":
		return fmt.Errorf("region name %q collides with a directive keyword", name)
	}
	return nil
}

func checkAddress(a ast.Address) error {
	switch a.Kind {
	case ast.Absolute:
		if a.Offset != 0 {
			return fmt.Errorf("absolute address carries a relative offset %d", a.Offset)
		}
	case ast.Relative:
		if a.Value != 0 {
			return fmt.Errorf("relative address carries an absolute value %#x", a.Value)
		}
	default:
		return fmt.Errorf("unknown address kind %d", a.Kind)
	}
	return nil
}
