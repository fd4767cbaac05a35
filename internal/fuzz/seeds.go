package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const maxSeedBytes = 64 << 10 // clamp for the seed corpus

func addCorpusSeeds(f *testing.F) {
	addTestdataSeeds(f)
	addLayoutSeeds(f)
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// every *.sag file in the repository testdata tree becomes a seed
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil
		}
		if d.IsDir() || filepath.Ext(path) != ".sag" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
	if err != nil {
		return
	}
}

// addLayoutSeeds covers the grammar corners by hand: every block keyword,
// both address forms, each directive, and inputs the parser must reject
// without panicking.
func addLayoutSeeds(f *testing.F) {
	seeds := []string{
		"",
		"; comment only\n",
		"USER_SECTIONS .metadata\n",
		"USER_SECTIONS\n",
		"HEAD 0x80000000\n{\n}\n",
		"HEAD 0x0\n{\n    BOOT 0x0\n    {\n        ADDR __start\n    }\n}\n",
		"EXEC +0 ALIGN 4096\n{\n    CODE 0x0\n    {\n        * ( +RO )\n        LOADADDR NEXT __text_lma\n    }\n}\n",
		"DATA +256\n{\n    SYSMEM 0x100\n    {\n        * KEEP ( .vectors )\n        STACK = 0x8000\n    }\n}\n",
		"LDSECTION 0x20000000\n{\n    TABLE 0x20000000\n    {\n        * ( .lookup, +ZI )\n    }\n}\n",
		"MEM -16\n{\n}\n",
		"MEMORY 0x0\n{\n}\n",
		"HEAD\n{\n}\n",
		"HEAD 0x0 ALIGN 3\n{\n}\n",
		"HEAD 0x0\n",
		"HEAD 0x0\n{\n    BOOT 0x0\n    {\n",
	}
	for _, seed := range seeds {
		f.Add([]byte(seed))
	}
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}
