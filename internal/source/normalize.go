package source

import (
	"slices"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// decodeUTF16 transcodes UTF-16 content to UTF-8 when a UTF-16 byte
// order mark is present. Content without one is returned unchanged.
func decodeUTF16(content []byte) ([]byte, bool) {
	if len(content) < 2 {
		return content, false
	}

	var endian unicode.Endianness
	switch {
	case content[0] == 0xFF && content[1] == 0xFE:
		endian = unicode.LittleEndian
	case content[0] == 0xFE && content[1] == 0xFF:
		endian = unicode.BigEndian
	default:
		return content, false
	}

	dec := unicode.UTF16(endian, unicode.ExpectBOM).NewDecoder()
	decoded, _, err := transform.Bytes(dec, content)
	if err != nil {
		// Malformed UTF-16 is left for the parser to reject as garbage.
		return content, false
	}
	return decoded, true
}

func removeBOM(content []byte) ([]byte, bool) {
	if len(content) < 3 {
		return content, false
	}

	if content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		return content[3:], true
	}

	return content, false
}

// normalizeCRLF rewrites every \r\n as \n, leaving lone \r untouched.
func normalizeCRLF(content []byte) ([]byte, bool) {
	// Fast path: no \r means nothing to do.
	if !slices.Contains(content, '\r') {
		return content, false
	}

	out := make([]byte, 0, len(content))
	changed := false

	i := 0
	for i < len(content) {
		if content[i] == '\r' && i+1 < len(content) && content[i+1] == '\n' {
			out = append(out, '\n')
			i += 2
			changed = true
		} else {
			out = append(out, content[i])
			i++
		}
	}
	return out, changed
}

func buildLineIndex(content []byte) []uint32 {
	out := make([]uint32, 0, len(content))
	for i, b := range content {
		if b == '\n' {
			out = append(out, uint32(i))
		}
	}
	return out
}
