package parser

import (
	"strconv"
	"strings"

	"sagld/internal/ast"
)

// parseDirective interprets a single line inside a region body.
// Returns nil for lines that are not directives; they are ignored.
func (p *parser) parseDirective(line string) (ast.Directive, error) {
	if rest, ok := strings.CutPrefix(line, "ADDR"); ok {
		symbol, next := cutNext(strings.TrimSpace(rest))
		return &ast.AddrDirective{Symbol: symbol, Next: next}, nil
	}

	if rest, ok := strings.CutPrefix(line, "LOADADDR"); ok {
		symbol, next := cutNext(strings.TrimSpace(rest))
		return &ast.LoadAddrDirective{Symbol: symbol, Next: next}, nil
	}

	if rest, ok := strings.CutPrefix(line, "STACK"); ok {
		rest = strings.TrimSpace(rest)
		rest = strings.TrimSpace(strings.TrimPrefix(rest, "="))
		addr, err := parseStackAddress(rest)
		if err != nil {
			return nil, p.parseError("Invalid stack address")
		}
		return &ast.StackDirective{Addr: addr}, nil
	}

	// * ( pattern ) or * KEEP ( pattern )
	if rest, ok := strings.CutPrefix(line, "*"); ok {
		rest = strings.TrimSpace(rest)
		keep := strings.HasPrefix(rest, "KEEP")
		if keep {
			rest = strings.TrimSpace(rest[len("KEEP"):])
		}
		open := strings.IndexByte(rest, '(')
		closing := strings.LastIndexByte(rest, ')')
		if open >= 0 && closing > open {
			pattern := strings.TrimSpace(rest[open+1 : closing])
			return &ast.SectionDirective{Pattern: pattern, Keep: keep}, nil
		}
	}

	return nil, nil
}

// cutNext splits an optional NEXT marker off a directive operand.
func cutNext(rest string) (symbol string, next bool) {
	if strings.HasPrefix(rest, "NEXT") {
		return strings.TrimSpace(rest[len("NEXT"):]), true
	}
	return rest, false
}

// parseStackAddress accepts hexadecimal (0x-prefixed) and decimal
// forms. Unlike block and region addresses it has no relative form.
func parseStackAddress(s string) (uint64, error) {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return strconv.ParseUint(s[2:], 16, 64)
	}
	return strconv.ParseUint(s, 10, 64)
}
