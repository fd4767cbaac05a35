package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// AddressKind discriminates the two Address variants.
type AddressKind uint8

const (
	// Absolute is a fully specified address such as 0x80000000.
	Absolute AddressKind = iota
	// Relative is a signed offset against a base that is only known at
	// generation time, written +N or -N in the source.
	Relative
)

func (k AddressKind) String() string {
	switch k {
	case Absolute:
		return "absolute"
	case Relative:
		return "relative"
	}
	return "unknown"
}

// Address is an absolute address or a relative offset. Immutable once parsed.
type Address struct {
	Kind   AddressKind
	Value  uint64 // valid when Kind == Absolute
	Offset int64  // valid when Kind == Relative
}

// InvalidAddressError reports an address-shaped token that matches none of
// the accepted forms (signed decimal offset, 0x-hex, plain decimal).
type InvalidAddressError struct {
	Text string
}

func (e *InvalidAddressError) Error() string {
	return "invalid address: " + e.Text
}

// ParseAddress parses a trimmed address token. `+N`/`-N` produce Relative
// offsets (decimal only), `0x`/`0X` prefixes produce hexadecimal Absolute
// addresses, anything else must be a plain decimal Absolute address.
func ParseAddress(s string) (Address, error) {
	s = strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(s, "+"):
		v, err := strconv.ParseInt(strings.TrimSpace(s[1:]), 10, 64)
		if err != nil {
			return Address{}, &InvalidAddressError{Text: s}
		}
		return Address{Kind: Relative, Offset: v}, nil
	case strings.HasPrefix(s, "-"):
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return Address{}, &InvalidAddressError{Text: s}
		}
		return Address{Kind: Relative, Offset: v}, nil
	case strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X"):
		v, err := strconv.ParseUint(s[2:], 16, 64)
		if err != nil {
			return Address{}, &InvalidAddressError{Text: s}
		}
		return Address{Kind: Absolute, Value: v}, nil
	default:
		v, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return Address{}, &InvalidAddressError{Text: s}
		}
		return Address{Kind: Absolute, Value: v}, nil
	}
}

// Resolve returns the absolute address this Address denotes. Absolute
// addresses ignore base; Relative offsets are applied to base with wrapping
// two's-complement arithmetic, so overflow is defined, not an error.
func (a Address) Resolve(base uint64) uint64 {
	if a.Kind == Relative {
		return uint64(int64(base) + a.Offset)
	}
	return a.Value
}

func (a Address) String() string {
	if a.Kind == Relative {
		return fmt.Sprintf("%+d", a.Offset)
	}
	return fmt.Sprintf("0x%08X", a.Value)
}
