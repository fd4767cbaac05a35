package parser

import (
	"fmt"
	"strconv"
	"strings"

	"sagld/internal/ast"
	"sagld/internal/source"
)

// Error reports a syntax problem and the 1-based line it occurred on.
type Error struct {
	Line    int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("parse error at line %d: %s", e.Line, e.Message)
}

// Parse parses SAG layout text into its syntax tree.
//
// Parsing is deliberately tolerant: lines that do not introduce a
// block, region, or directive are skipped. Errors are reserved for
// structural problems such as a missing brace or a bad address in a
// block header.
func Parse(content string) (*ast.SagFile, error) {
	p := &parser{lines: splitLines(content)}
	return p.parse()
}

// ParseFile loads a layout file from disk and parses it. The loaded
// file is returned alongside parse errors so callers can render
// source excerpts.
func ParseFile(path string) (*ast.SagFile, *source.File, error) {
	f, err := source.Load(path)
	if err != nil {
		return nil, nil, err
	}
	sag, err := Parse(f.Text())
	if err != nil {
		return nil, f, err
	}
	return sag, f, nil
}

// parser walks the input line by line. Blocks and regions consume
// their own lines; everything else advances by exactly one.
type parser struct {
	lines   []string
	current int
}

// splitLines follows the usual text-file convention: a trailing
// newline does not open a final empty line.
func splitLines(content string) []string {
	if content == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(content, "\n"), "\n")
}

// stripComment drops everything from the first ';' and trims the rest.
func stripComment(line string) string {
	if i := strings.IndexByte(line, ';'); i >= 0 {
		line = line[:i]
	}
	return strings.TrimSpace(line)
}

func (p *parser) currentLine() (string, bool) {
	if p.current >= len(p.lines) {
		return "", false
	}
	return p.lines[p.current], true
}

func (p *parser) advance() {
	p.current++
}

func (p *parser) lineNumber() int {
	return p.current + 1
}

func (p *parser) parseError(message string) *Error {
	return &Error{Line: p.lineNumber(), Message: message}
}

// skipBlank advances past lines that are empty after comment removal.
func (p *parser) skipBlank() {
	for {
		line, ok := p.currentLine()
		if !ok || stripComment(line) != "" {
			return
		}
		p.advance()
	}
}

func (p *parser) parse() (*ast.SagFile, error) {
	file := &ast.SagFile{}

	for {
		p.skipBlank()
		raw, ok := p.currentLine()
		if !ok {
			break
		}
		line := stripComment(raw)

		if rest, ok := strings.CutPrefix(line, "USER_SECTIONS"); ok {
			file.UserSections = append(file.UserSections, strings.TrimSpace(rest))
			p.advance()
			continue
		}

		block, matched, err := p.tryParseBlock(line)
		if err != nil {
			return nil, err
		}
		if matched {
			file.Blocks = append(file.Blocks, *block)
			continue
		}

		p.advance()
	}

	return file, nil
}

// tryParseBlock recognizes a block header such as "EXEC +0 ALIGN 4096"
// and consumes the brace-delimited body that follows. A line that does
// not start with a block keyword is left for the caller.
func (p *parser) tryParseBlock(line string) (*ast.Block, bool, error) {
	var blockType ast.BlockType
	rest := ""
	matched := false
	for _, bt := range ast.BlockTypes {
		if strings.HasPrefix(line, string(bt)) {
			blockType = bt
			rest = strings.TrimSpace(line[len(bt):])
			matched = true
			break
		}
	}
	if !matched {
		return nil, false, nil
	}

	parts := strings.Fields(rest)
	if len(parts) == 0 {
		return nil, false, p.parseError("Expected address after block type")
	}

	lma, err := ast.ParseAddress(parts[0])
	if err != nil {
		return nil, false, err
	}
	parts = parts[1:]

	var alignment uint64
	if len(parts) >= 2 && strings.EqualFold(parts[0], "ALIGN") {
		alignment, err = strconv.ParseUint(parts[1], 10, 64)
		if err != nil {
			return nil, false, p.parseError("Invalid alignment value")
		}
		// Load addresses are rounded up with a bit mask, which is
		// only correct for power-of-two alignments.
		if alignment == 0 || alignment&(alignment-1) != 0 {
			return nil, false, p.parseError("Alignment must be a power of two")
		}
	}

	p.advance()
	p.skipBlank()

	raw, ok := p.currentLine()
	if !ok || !strings.HasPrefix(strings.TrimSpace(raw), "{") {
		return nil, false, p.parseError("Expected '{'")
	}
	p.advance()

	block := &ast.Block{Type: blockType, LMA: lma, Alignment: alignment}
	for {
		p.skipBlank()
		raw, ok := p.currentLine()
		if !ok {
			return nil, false, p.parseError("Unexpected end of file, expected '}'")
		}
		line := stripComment(raw)
		if strings.HasPrefix(line, "}") {
			p.advance()
			break
		}

		region, matched, err := p.tryParseRegion(line)
		if err != nil {
			return nil, false, err
		}
		if matched {
			block.Regions = append(block.Regions, *region)
		} else {
			p.advance()
		}
	}

	return block, true, nil
}

// tryParseRegion recognizes a region header such as "SYSMEM 0x200000".
// The first token must start with an uppercase letter, must not be a
// directive keyword, and the second token must parse as an address;
// anything else is not a region and the line is left alone.
func (p *parser) tryParseRegion(line string) (*ast.Region, bool, error) {
	parts := strings.Fields(line)
	if len(parts) < 2 {
		return nil, false, nil
	}

	name := parts[0]
	if name[0] < 'A' || name[0] > 'Z' {
		return nil, false, nil
	}
	switch name {
	case "ADDR", "LOADADDR", "STACK":
		return nil, false, nil
	}

	vma, err := ast.ParseAddress(parts[1])
	if err != nil {
		return nil, false, nil
	}

	p.advance()
	p.skipBlank()

	raw, ok := p.currentLine()
	if !ok {
		return nil, false, p.parseError("Expected '{'")
	}
	if !strings.HasPrefix(strings.TrimSpace(raw), "{") {
		return nil, false, p.parseError("Expected '{' after region")
	}
	p.advance()

	region := &ast.Region{Name: name, VMA: vma}
	for {
		p.skipBlank()
		raw, ok := p.currentLine()
		if !ok {
			return nil, false, p.parseError("Unexpected end of file in region")
		}
		line := stripComment(raw)
		if strings.HasPrefix(line, "}") {
			p.advance()
			break
		}

		directive, err := p.parseDirective(line)
		if err != nil {
			return nil, false, err
		}
		if directive != nil {
			region.Directives = append(region.Directives, directive)
		}
		p.advance()
	}

	return region, true, nil
}
