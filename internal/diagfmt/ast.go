package diagfmt

import (
	"fmt"
	"io"

	"sagld/internal/ast"
)

// ASTPretty writes a tree rendering of a parsed layout.
//
//	layout.sag
//	├─ UserSections: .bootloader
//	└─ Block HEAD lma=0x00000000
//	   └─ Region BOOTLOADER vma=0x80000000
//	      ├─ ADDR __flash_start
//	      └─ Section ".bootloader" KEEP
func ASTPretty(w io.Writer, file *ast.SagFile, header string) {
	fmt.Fprintf(w, "%s\n", header)

	rows := 0
	if len(file.UserSections) > 0 {
		rows++
	}
	rows += len(file.Blocks)
	if rows == 0 {
		fmt.Fprintln(w, "└─ (empty)")
		return
	}

	row := 0
	if len(file.UserSections) > 0 {
		row++
		fmt.Fprintf(w, "%s UserSections:", connector(row, rows))
		for _, s := range file.UserSections {
			fmt.Fprintf(w, " %q", s)
		}
		fmt.Fprintln(w)
	}

	for i := range file.Blocks {
		row++
		writeBlock(w, &file.Blocks[i], connector(row, rows), childIndent(row, rows))
	}
}

func connector(row, rows int) string {
	if row == rows {
		return "└─"
	}
	return "├─"
}

func childIndent(row, rows int) string {
	if row == rows {
		return "   "
	}
	return "│  "
}

func writeBlock(w io.Writer, block *ast.Block, conn, indent string) {
	fmt.Fprintf(w, "%s Block %s lma=%s", conn, block.Type, block.LMA)
	if block.Alignment != 0 {
		fmt.Fprintf(w, " align=%d", block.Alignment)
	}
	fmt.Fprintln(w)

	for i := range block.Regions {
		region := &block.Regions[i]
		rconn := connector(i+1, len(block.Regions))
		rindent := indent + childIndent(i+1, len(block.Regions))
		fmt.Fprintf(w, "%s%s Region %s vma=%s\n", indent, rconn, region.Name, region.VMA)

		for j, directive := range region.Directives {
			dconn := connector(j+1, len(region.Directives))
			fmt.Fprintf(w, "%s%s %s\n", rindent, dconn, describeDirective(directive))
		}
	}
}

func describeDirective(d ast.Directive) string {
	switch d := d.(type) {
	case *ast.AddrDirective:
		if d.Next {
			return fmt.Sprintf("Addr NEXT %s", d.Symbol)
		}
		return fmt.Sprintf("Addr %s", d.Symbol)
	case *ast.LoadAddrDirective:
		if d.Next {
			return fmt.Sprintf("LoadAddr NEXT %s", d.Symbol)
		}
		return fmt.Sprintf("LoadAddr %s", d.Symbol)
	case *ast.SectionDirective:
		if d.Keep {
			return fmt.Sprintf("Section %q KEEP", d.Pattern)
		}
		return fmt.Sprintf("Section %q", d.Pattern)
	case *ast.StackDirective:
		return fmt.Sprintf("Stack 0x%08X", d.Addr)
	default:
		return fmt.Sprintf("%T", d)
	}
}
