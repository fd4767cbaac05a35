// Package ast defines the parsed representation of SAG memory-layout
// documents: a flat sequence of blocks, each holding regions, each holding
// directives. The tree is built once by the parser and never mutated.
package ast

// BlockType is one of the five block keywords recognized at top level.
type BlockType string

const (
	// BlockHead describes the boot header placement block.
	BlockHead BlockType = "HEAD"
	// BlockMem describes a plain memory block.
	BlockMem BlockType = "MEM"
	// BlockLdSection describes a load-section block.
	BlockLdSection BlockType = "LDSECTION"
	// BlockExec describes an executable code block.
	BlockExec BlockType = "EXEC"
	// BlockData describes a data block.
	BlockData BlockType = "DATA"
)

// BlockTypes lists the block keywords in the order they are prefix-matched
// against a candidate header line.
var BlockTypes = [...]BlockType{BlockHead, BlockMem, BlockLdSection, BlockExec, BlockData}

// Block is one top-level placement group: a load address, an optional
// power-of-two alignment, and the regions laid out at that load address.
type Block struct {
	Type      BlockType
	LMA       Address
	Alignment uint64 // 0 when the header carries no ALIGN clause
	Regions   []Region
}

// Region is a named chunk inside a block with its own virtual address.
// Names start with an ASCII uppercase letter and are never one of the
// directive keywords.
type Region struct {
	Name       string
	VMA        Address
	Directives []Directive
}

// SagFile is the root of a parsed SAG document.
type SagFile struct {
	UserSections []string
	Blocks       []Block
}

// FirstStack returns the address of the first STACK directive in document
// order, scanning blocks, then regions, then directives.
func (f *SagFile) FirstStack() (uint64, bool) {
	for i := range f.Blocks {
		for j := range f.Blocks[i].Regions {
			for _, d := range f.Blocks[i].Regions[j].Directives {
				if s, ok := d.(*StackDirective); ok {
					return s.Addr, true
				}
			}
		}
	}
	return 0, false
}
