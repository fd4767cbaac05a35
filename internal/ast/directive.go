package ast

// Directive is one recognized line inside a region body.
type Directive interface {
	directive()
}

// AddrDirective defines Symbol at the region's current output location.
type AddrDirective struct {
	Symbol string
	Next   bool // NEXT modifier; captured but not used during generation
}

// LoadAddrDirective defines Symbol as the load address of the enclosing
// region's section.
type LoadAddrDirective struct {
	Symbol string
	Next   bool
}

// SectionDirective places input sections matching Pattern into the region.
// Pattern is the raw comma-separated text between the parentheses; macro
// tokens inside it are expanded at generation time.
type SectionDirective struct {
	Pattern string
	Keep    bool // survive linker garbage collection
}

// StackDirective declares the initial stack pointer value.
type StackDirective struct {
	Addr uint64
}

func (*AddrDirective) directive()     {}
func (*LoadAddrDirective) directive() {}
func (*SectionDirective) directive()  {}
func (*StackDirective) directive()    {}
