package source

import (
	"bytes"
	"crypto/sha256"
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	return path
}

func TestLoadPlainFile(t *testing.T) {
	path := writeTemp(t, "layout.sag", []byte("HEAD 0x80000000\n{\n}\n"))

	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if f.Flags != 0 {
		t.Errorf("flags = %b, want none", f.Flags)
	}
	if got := f.Text(); got != "HEAD 0x80000000\n{\n}\n" {
		t.Errorf("content mismatch: %q", got)
	}
	if f.Hash != sha256.Sum256(f.Content) {
		t.Error("hash does not match content")
	}
}

func TestLoadStripsBOM(t *testing.T) {
	path := writeTemp(t, "bom.sag", []byte("\xEF\xBB\xBFMEM 0x0\n"))

	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if f.Flags&FileHadBOM == 0 {
		t.Error("FileHadBOM flag not set")
	}
	if got := f.Text(); got != "MEM 0x0\n" {
		t.Errorf("BOM not stripped: %q", got)
	}
}

func TestLoadNormalizesCRLF(t *testing.T) {
	path := writeTemp(t, "crlf.sag", []byte("HEAD 0x0\r\n{\r\n}\r\n"))

	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if f.Flags&FileNormalizedCRLF == 0 {
		t.Error("FileNormalizedCRLF flag not set")
	}
	if bytes.Contains(f.Content, []byte{'\r'}) {
		t.Errorf("content still contains \\r: %q", f.Content)
	}
	if len(f.LineIdx) != 3 {
		t.Errorf("line index length = %d, want 3", len(f.LineIdx))
	}
}

func TestLoadDecodesUTF16(t *testing.T) {
	tests := []struct {
		name    string
		content []byte
	}{
		{
			name: "little endian",
			content: []byte{
				0xFF, 0xFE,
				'M', 0, 'E', 0, 'M', 0, ' ', 0, '0', 0, '\n', 0,
			},
		},
		{
			name: "big endian",
			content: []byte{
				0xFE, 0xFF,
				0, 'M', 0, 'E', 0, 'M', 0, ' ', 0, '0', 0, '\n',
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTemp(t, "utf16.sag", tt.content)

			f, err := Load(path)
			if err != nil {
				t.Fatalf("Load returned error: %v", err)
			}
			if f.Flags&FileDecodedUTF16 == 0 {
				t.Error("FileDecodedUTF16 flag not set")
			}
			if got := f.Text(); got != "MEM 0\n" {
				t.Errorf("decoded content = %q, want %q", got, "MEM 0\n")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.sag")); err == nil {
		t.Fatal("Load on a missing file succeeded")
	}
}

func TestNewKeepsContentVerbatim(t *testing.T) {
	f := New("test.sag", []byte("a\r\nb"))

	if f.Flags != FileVirtual {
		t.Errorf("flags = %b, want FileVirtual only", f.Flags)
	}
	if got := f.Text(); got != "a\r\nb" {
		t.Errorf("virtual content was altered: %q", got)
	}
}

func TestLine(t *testing.T) {
	f := New("lines.sag", []byte("first\nsecond\nthird"))

	tests := []struct {
		num  uint32
		want string
	}{
		{0, ""},
		{1, "first"},
		{2, "second"},
		{3, "third"},
		{4, ""},
	}

	for _, tt := range tests {
		if got := f.Line(tt.num); got != tt.want {
			t.Errorf("Line(%d) = %q, want %q", tt.num, got, tt.want)
		}
	}
}

func TestLineTrailingNewline(t *testing.T) {
	f := New("trail.sag", []byte("only\n"))

	if got := f.Line(1); got != "only" {
		t.Errorf("Line(1) = %q, want %q", got, "only")
	}
	if got := f.Line(2); got != "" {
		t.Errorf("Line(2) = %q, want empty", got)
	}
}
