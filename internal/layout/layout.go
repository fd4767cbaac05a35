// Package layout describes the physical memory maps linker scripts are
// generated against: named regions with an origin, a length, and GNU LD
// attribute letters.
package layout

import (
	"cmp"
	"slices"
)

// Region is one row of a MEMORY{} block.
type Region struct {
	Origin uint64
	Length uint64
	Attrs  string // GNU LD attribute letters, e.g. "rwx"
}

// Contains reports whether addr falls inside [Origin, Origin+Length).
func (r Region) Contains(addr uint64) bool {
	// Subtraction keeps the check correct when Origin+Length would
	// overflow a uint64.
	return addr >= r.Origin && addr-r.Origin < r.Length
}

// Config is a named memory map.
type Config struct {
	Name    string
	Regions map[string]Region
}

// Names returns the region names sorted by origin address, ties broken
// by name. MEMORY{} output follows this order so generated scripts are
// byte-stable across runs.
func (c *Config) Names() []string {
	names := make([]string, 0, len(c.Regions))
	for name := range c.Regions {
		names = append(names, name)
	}
	slices.SortFunc(names, func(a, b string) int {
		if v := cmp.Compare(c.Regions[a].Origin, c.Regions[b].Origin); v != 0 {
			return v
		}
		return cmp.Compare(a, b)
	})
	return names
}

// RegionFor returns the name of the configured region containing addr.
// When regions overlap, the smallest enclosing region wins; ties break
// by name.
func (c *Config) RegionFor(addr uint64) (string, bool) {
	best := ""
	found := false
	for name, region := range c.Regions {
		if !region.Contains(addr) {
			continue
		}
		if !found {
			best, found = name, true
			continue
		}
		current := c.Regions[best]
		if region.Length < current.Length ||
			(region.Length == current.Length && name < best) {
			best = name
		}
	}
	return best, found
}
