package parser

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"sagld/internal/ast"
)

const simpleLayout = `
; Boot image layout
USER_SECTIONS .bootloader

HEAD 0x00000000
{
    BOOTLOADER 0x80000000
    {
        ADDR __flash_start
        * KEEP ( .bootloader )
    }
}
`

func mustParse(t *testing.T, content string) *ast.SagFile {
	t.Helper()
	file, err := Parse(content)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return file
}

func parseError(t *testing.T, content string) *Error {
	t.Helper()
	_, err := Parse(content)
	if err == nil {
		t.Fatal("Parse succeeded, want error")
	}
	var perr *Error
	if !errors.As(err, &perr) {
		t.Fatalf("error type = %T, want *Error", err)
	}
	return perr
}

func TestParseSimpleLayout(t *testing.T) {
	file := mustParse(t, simpleLayout)

	if len(file.UserSections) != 1 || file.UserSections[0] != ".bootloader" {
		t.Errorf("user sections = %q, want [.bootloader]", file.UserSections)
	}
	if len(file.Blocks) != 1 {
		t.Fatalf("blocks = %d, want 1", len(file.Blocks))
	}

	block := file.Blocks[0]
	if block.Type != ast.BlockHead {
		t.Errorf("block type = %q, want HEAD", block.Type)
	}
	if block.LMA.Kind != ast.Absolute || block.LMA.Value != 0 {
		t.Errorf("block LMA = %v, want absolute 0", block.LMA)
	}
	if block.Alignment != 0 {
		t.Errorf("alignment = %d, want none", block.Alignment)
	}
	if len(block.Regions) != 1 {
		t.Fatalf("regions = %d, want 1", len(block.Regions))
	}

	region := block.Regions[0]
	if region.Name != "BOOTLOADER" {
		t.Errorf("region name = %q, want BOOTLOADER", region.Name)
	}
	if region.VMA.Value != 0x80000000 {
		t.Errorf("region VMA = %#x, want 0x80000000", region.VMA.Value)
	}
	if len(region.Directives) != 2 {
		t.Fatalf("directives = %d, want 2", len(region.Directives))
	}

	addr, ok := region.Directives[0].(*ast.AddrDirective)
	if !ok {
		t.Fatalf("directive 0 type = %T, want *ast.AddrDirective", region.Directives[0])
	}
	if addr.Symbol != "__flash_start" || addr.Next {
		t.Errorf("ADDR = %+v, want symbol __flash_start without NEXT", addr)
	}

	section, ok := region.Directives[1].(*ast.SectionDirective)
	if !ok {
		t.Fatalf("directive 1 type = %T, want *ast.SectionDirective", region.Directives[1])
	}
	if section.Pattern != ".bootloader" || !section.Keep {
		t.Errorf("section = %+v, want kept .bootloader", section)
	}
}

func TestParseBlockHeaders(t *testing.T) {
	tests := []struct {
		name      string
		header    string
		blockType ast.BlockType
		kind      ast.AddressKind
		alignment uint64
	}{
		{name: "absolute head", header: "HEAD 0x80000000", blockType: ast.BlockHead, kind: ast.Absolute},
		{name: "relative exec", header: "EXEC +0", blockType: ast.BlockExec, kind: ast.Relative},
		{name: "data with align", header: "DATA +0 ALIGN 4096", blockType: ast.BlockData, kind: ast.Relative, alignment: 4096},
		{name: "align keyword lowercase", header: "MEM 0x100 align 16", blockType: ast.BlockMem, kind: ast.Absolute, alignment: 16},
		{name: "ldsection", header: "LDSECTION 0x0", blockType: ast.BlockLdSection, kind: ast.Absolute},
		{name: "align without value is ignored", header: "EXEC +0 ALIGN", blockType: ast.BlockExec, kind: ast.Relative},
		{name: "trailing junk is ignored", header: "EXEC +0 FOO 7", blockType: ast.BlockExec, kind: ast.Relative},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file := mustParse(t, tt.header+"\n{\n}\n")
			if len(file.Blocks) != 1 {
				t.Fatalf("blocks = %d, want 1", len(file.Blocks))
			}
			block := file.Blocks[0]
			if block.Type != tt.blockType {
				t.Errorf("type = %q, want %q", block.Type, tt.blockType)
			}
			if block.LMA.Kind != tt.kind {
				t.Errorf("LMA kind = %v, want %v", block.LMA.Kind, tt.kind)
			}
			if block.Alignment != tt.alignment {
				t.Errorf("alignment = %d, want %d", block.Alignment, tt.alignment)
			}
		})
	}
}

func TestParseBlockErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		line    int
		message string
	}{
		{
			name:    "missing address",
			content: "HEAD\n{\n}\n",
			line:    1,
			message: "Expected address after block type",
		},
		{
			name:    "missing open brace",
			content: "HEAD 0x0\nEXEC +0\n{\n}\n",
			line:    2,
			message: "Expected '{'",
		},
		{
			name:    "open brace at end of file",
			content: "HEAD 0x0\n",
			line:    2,
			message: "Expected '{'",
		},
		{
			name:    "unterminated block",
			content: "HEAD 0x0\n{\n    REGION 0x0\n    {\n    }\n",
			line:    6,
			message: "Unexpected end of file, expected '}'",
		},
		{
			name:    "bad alignment value",
			content: "HEAD 0x0 ALIGN xyz\n{\n}\n",
			line:    1,
			message: "Invalid alignment value",
		},
		{
			name:    "alignment not a power of two",
			content: "HEAD 0x0 ALIGN 3\n{\n}\n",
			line:    1,
			message: "Alignment must be a power of two",
		},
		{
			name:    "alignment of zero",
			content: "HEAD 0x0 ALIGN 0\n{\n}\n",
			line:    1,
			message: "Alignment must be a power of two",
		},
		{
			name:    "error line counts comments",
			content: "; header comment\n\nHEAD 0x0 ALIGN 3\n{\n}\n",
			line:    3,
			message: "Alignment must be a power of two",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			perr := parseError(t, tt.content)
			if perr.Line != tt.line {
				t.Errorf("line = %d, want %d", perr.Line, tt.line)
			}
			if perr.Message != tt.message {
				t.Errorf("message = %q, want %q", perr.Message, tt.message)
			}
		})
	}
}

func TestParseBlockBadAddress(t *testing.T) {
	// MEMORY matches the MEM keyword by prefix, leaving ORY as the
	// address token.
	_, err := Parse("MEMORY 0x0\n{\n}\n")
	if err == nil {
		t.Fatal("Parse succeeded, want error")
	}
	var invalid *ast.InvalidAddressError
	if !errors.As(err, &invalid) {
		t.Fatalf("error type = %T, want *ast.InvalidAddressError", err)
	}
	if invalid.Text != "ORY" {
		t.Errorf("offending text = %q, want ORY", invalid.Text)
	}
}

func TestParseRegionRecognition(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		regions int
	}{
		{name: "uppercase name with address", body: "    SYSMEM 0x200000\n    {\n    }\n", regions: 1},
		{name: "lowercase name skipped", body: "    sysmem 0x200000\n", regions: 0},
		{name: "single token skipped", body: "    SYSMEM\n", regions: 0},
		{name: "non-address second token skipped", body: "    SYSMEM banana\n", regions: 0},
		{name: "directive keyword skipped", body: "    STACK 0x100\n", regions: 0},
		{name: "relative vma", body: "    NEXTCHUNK +16\n    {\n    }\n", regions: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file := mustParse(t, "HEAD 0x0\n{\n"+tt.body+"}\n")
			if got := len(file.Blocks[0].Regions); got != tt.regions {
				t.Errorf("regions = %d, want %d", got, tt.regions)
			}
		})
	}
}

func TestParseRegionErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		line    int
		message string
	}{
		{
			name:    "missing region brace",
			content: "HEAD 0x0\n{\n    SYSMEM 0x0\n    ADDR x\n    {\n    }\n}\n",
			line:    4,
			message: "Expected '{' after region",
		},
		{
			name:    "unterminated region",
			content: "HEAD 0x0\n{\n    SYSMEM 0x0\n    {\n",
			line:    5,
			message: "Unexpected end of file in region",
		},
		{
			name:    "invalid stack address",
			content: "HEAD 0x0\n{\n    SYSMEM 0x0\n    {\n        STACK = banana\n    }\n}\n",
			line:    5,
			message: "Invalid stack address",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			perr := parseError(t, tt.content)
			if perr.Line != tt.line {
				t.Errorf("line = %d, want %d", perr.Line, tt.line)
			}
			if perr.Message != tt.message {
				t.Errorf("message = %q, want %q", perr.Message, tt.message)
			}
		})
	}
}

func TestParseDirectives(t *testing.T) {
	content := `EXEC +0
{
    CODE 0x80001000
    {
        ADDR __text_start
        ADDR NEXT __after
        LOADADDR __load
        LOADADDR NEXT __load_next
        STACK = 0x9FF00000
        STACK 4096
        * ( +RO )
        * KEEP ( .vectors, .isr )
        this line is ignored
        * ( broken
    }
}
`
	file := mustParse(t, content)
	directives := file.Blocks[0].Regions[0].Directives
	if len(directives) != 8 {
		t.Fatalf("directives = %d, want 8", len(directives))
	}

	checks := []struct {
		name string
		want ast.Directive
	}{
		{"plain addr", &ast.AddrDirective{Symbol: "__text_start"}},
		{"addr next", &ast.AddrDirective{Symbol: "__after", Next: true}},
		{"plain loadaddr", &ast.LoadAddrDirective{Symbol: "__load"}},
		{"loadaddr next", &ast.LoadAddrDirective{Symbol: "__load_next", Next: true}},
		{"stack with equals", &ast.StackDirective{Addr: 0x9FF00000}},
		{"stack decimal no equals", &ast.StackDirective{Addr: 4096}},
		{"section macro", &ast.SectionDirective{Pattern: "+RO"}},
		{"section keep list", &ast.SectionDirective{Pattern: ".vectors, .isr", Keep: true}},
	}

	for i, check := range checks {
		got := directives[i]
		switch want := check.want.(type) {
		case *ast.AddrDirective:
			d, ok := got.(*ast.AddrDirective)
			if !ok || *d != *want {
				t.Errorf("%s: got %#v, want %#v", check.name, got, want)
			}
		case *ast.LoadAddrDirective:
			d, ok := got.(*ast.LoadAddrDirective)
			if !ok || *d != *want {
				t.Errorf("%s: got %#v, want %#v", check.name, got, want)
			}
		case *ast.StackDirective:
			d, ok := got.(*ast.StackDirective)
			if !ok || *d != *want {
				t.Errorf("%s: got %#v, want %#v", check.name, got, want)
			}
		case *ast.SectionDirective:
			d, ok := got.(*ast.SectionDirective)
			if !ok || *d != *want {
				t.Errorf("%s: got %#v, want %#v", check.name, got, want)
			}
		}
	}
}

func TestParseComments(t *testing.T) {
	content := `; full line comment
HEAD 0x0 ; trailing comment
{ ; brace comment
    SYSMEM 0x0 ; region comment
    {
        ADDR __start ; directive comment is stripped
    } ; close region
} ; close block
`
	file := mustParse(t, content)
	if len(file.Blocks) != 1 || len(file.Blocks[0].Regions) != 1 {
		t.Fatalf("unexpected shape: %+v", file)
	}
	addr := file.Blocks[0].Regions[0].Directives[0].(*ast.AddrDirective)
	if addr.Symbol != "__start" {
		t.Errorf("symbol = %q, want __start", addr.Symbol)
	}
}

func TestParseUserSections(t *testing.T) {
	file := mustParse(t, "USER_SECTIONS .first .second\nUSER_SECTIONS\n")
	want := []string{".first .second", ""}
	if len(file.UserSections) != len(want) {
		t.Fatalf("user sections = %q, want %q", file.UserSections, want)
	}
	for i := range want {
		if file.UserSections[i] != want[i] {
			t.Errorf("user section %d = %q, want %q", i, file.UserSections[i], want[i])
		}
	}
}

func TestParseTolerance(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "empty input", content: ""},
		{name: "only comments", content: "; a\n; b\n"},
		{name: "stray close brace", content: "}\n"},
		{name: "unknown top-level line", content: "linker stuff here\n"},
		{name: "unknown line inside block", content: "HEAD 0x0\n{\n    whatever\n}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file := mustParse(t, tt.content)
			if len(file.Blocks) > 1 {
				t.Errorf("unexpected blocks: %+v", file.Blocks)
			}
		})
	}
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "layout.sag")
	if err := os.WriteFile(path, []byte(simpleLayout), 0o644); err != nil {
		t.Fatalf("failed to write layout: %v", err)
	}

	sag, file, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile returned error: %v", err)
	}
	if file == nil || len(sag.Blocks) != 1 {
		t.Fatalf("unexpected result: file=%v blocks=%d", file, len(sag.Blocks))
	}

	if _, _, err := ParseFile(filepath.Join(dir, "missing.sag")); err == nil {
		t.Error("ParseFile on a missing file succeeded")
	}

	badPath := filepath.Join(dir, "bad.sag")
	if err := os.WriteFile(badPath, []byte("HEAD 0x0\n"), 0o644); err != nil {
		t.Fatalf("failed to write layout: %v", err)
	}
	_, file, err = ParseFile(badPath)
	if err == nil {
		t.Fatal("ParseFile on a malformed layout succeeded")
	}
	if file == nil {
		t.Error("ParseFile did not return the loaded file with the parse error")
	}
}
