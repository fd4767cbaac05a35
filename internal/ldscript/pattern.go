package ldscript

import (
	"fmt"
	"strings"
)

// expandSectionPattern turns a section pattern into output section name
// stems. Comma-separated entries expand independently. The +ISR, +RO,
// +RW, and +ZI macros stand for the conventional embedded section
// groups; a leading dot on an explicit name is dropped.
func expandSectionPattern(pattern string) []string {
	var sections []string
	for _, part := range strings.Split(pattern, ",") {
		part = strings.TrimSpace(part)
		switch part {
		case "+ISR":
			sections = append(sections, "vectors", "isr")
		case "+RO":
			sections = append(sections, "text", "rodata", "srodata")
		case "+RW":
			sections = append(sections, "data", "sdata")
		case "+ZI":
			sections = append(sections, "bss", "sbss")
		default:
			sections = append(sections, strings.TrimPrefix(part, "."))
		}
	}
	return sections
}

// FormatSize renders a byte count using the largest binary unit that
// divides it exactly, e.g. 268435456 becomes "256M" but 1536 stays
// "1536". GNU LD accepts both forms; the short one reads better in
// MEMORY{} lines.
func FormatSize(bytes uint64) string {
	const (
		k = uint64(1) << 10
		m = uint64(1) << 20
		g = uint64(1) << 30
	)
	switch {
	case bytes >= g && bytes%g == 0:
		return fmt.Sprintf("%dG", bytes/g)
	case bytes >= m && bytes%m == 0:
		return fmt.Sprintf("%dM", bytes/m)
	case bytes >= k && bytes%k == 0:
		return fmt.Sprintf("%dK", bytes/k)
	default:
		return fmt.Sprintf("%d", bytes)
	}
}
