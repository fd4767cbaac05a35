package fuzztests

import (
	"strings"
	"testing"

	"sagld/internal/layout"
	"sagld/internal/ldscript"
	"sagld/internal/parser"
	"sagld/internal/testkit"
)

// maxFuzzInput bounds a single mutated input.
const maxFuzzInput = 256 << 10

// FuzzParseLayout checks that the parser never panics and that every file
// it accepts satisfies the structural invariants.
func FuzzParseLayout(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		file, err := parser.Parse(string(clampFuzzInput(input)))
		if err != nil {
			return
		}
		if invErr := testkit.CheckLayoutInvariants(file); invErr != nil {
			t.Fatalf("accepted file violates invariants: %v", invErr)
		}
	})
}

// FuzzConvertStable checks that script generation is panic-free and
// deterministic for any layout the parser accepts.
func FuzzConvertStable(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		file, err := parser.Parse(string(clampFuzzInput(input)))
		if err != nil {
			return
		}
		cfg := layout.AE350DDR()
		first := ldscript.Generate(file, cfg)
		second := ldscript.Generate(file, cfg)
		if first != second {
			t.Fatal("generation is not deterministic")
		}
		if !strings.HasPrefix(first, "/* Auto-generated from SAG file */") {
			t.Fatal("script missing generated-file header")
		}
	})
}

func clampFuzzInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		return append([]byte(nil), input[:maxFuzzInput]...)
	}
	return append([]byte(nil), input...)
}
