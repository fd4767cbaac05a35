// Package source loads layout files from disk and normalizes their
// encoding so the rest of the pipeline only ever sees UTF-8 text with
// LF line endings.
package source

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"

	"fortio.org/safecast"
)

// FileFlags encodes metadata about how a source file was obtained.
type FileFlags uint8

const (
	// FileVirtual indicates the file was added from memory (test, stdin, etc.).
	FileVirtual FileFlags = 1 << iota
	// FileHadBOM indicates a UTF-8 byte order mark was stripped.
	FileHadBOM
	// FileNormalizedCRLF indicates CRLF line endings were rewritten to LF.
	FileNormalizedCRLF
	// FileDecodedUTF16 indicates the content was transcoded from UTF-16.
	FileDecodedUTF16
)

// File holds the normalized content of a single layout file together
// with a line index for diagnostics and a content hash for caching.
type File struct {
	Path    string
	Content []byte
	LineIdx []uint32 // byte offset of every '\n' in Content
	Hash    [32]byte
	Flags   FileFlags
}

// Load reads a file from disk, transcodes UTF-16 input, strips a UTF-8
// BOM, and normalizes CRLF line endings.
func Load(path string) (*File, error) {
	// #nosec G304 -- path is provided by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	flags := FileFlags(0)
	content, decoded := decodeUTF16(content)
	if decoded {
		flags |= FileDecodedUTF16
	}
	content, hadBOM := removeBOM(content)
	if hadBOM {
		flags |= FileHadBOM
	}
	content, hadCRLF := normalizeCRLF(content)
	if hadCRLF {
		flags |= FileNormalizedCRLF
	}
	return newFile(path, content, flags), nil
}

// New adds a virtual file (stdin, test, or generated) with the
// FileVirtual flag. The content is stored as given.
func New(name string, content []byte) *File {
	return newFile(name, content, FileVirtual)
}

func newFile(path string, content []byte, flags FileFlags) *File {
	return &File{
		Path:    normalizePath(path),
		Content: content,
		LineIdx: buildLineIndex(content),
		Hash:    sha256.Sum256(content),
		Flags:   flags,
	}
}

// Text returns the file content as a string.
func (f *File) Text() string {
	return string(f.Content)
}

// Line returns the line with the given number (1-based) without its
// trailing newline. A line number past the end returns an empty string.
func (f *File) Line(lineNum uint32) string {
	if lineNum == 0 {
		return ""
	}

	var start, end, lenLineIdx, lenContent uint32
	var err error
	lenLineIdx, err = safecast.Conv[uint32](len(f.LineIdx))
	if err != nil {
		panic(fmt.Errorf("line index length overflow: %w", err))
	}
	lenContent, err = safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("content length overflow: %w", err))
	}

	switch {
	case lineNum == 1:
		start = 0
	case (lineNum - 2) < lenLineIdx:
		start = f.LineIdx[lineNum-2] + 1
	default:
		return ""
	}

	if (lineNum - 1) < lenLineIdx {
		end = f.LineIdx[lineNum-1]
	} else {
		end = lenContent
	}

	if start >= lenContent {
		return ""
	}
	if end > lenContent {
		end = lenContent
	}

	return string(f.Content[start:end])
}

func normalizePath(p string) string {
	// Keeps paths stable in cross-platform diffs.
	return filepath.ToSlash(filepath.Clean(p))
}
