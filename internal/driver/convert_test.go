package driver

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"sagld/internal/layout"
	"sagld/internal/parser"
	"sagld/internal/source"
)

const validLayout = `HEAD 0x80000000
{
    BOOTLOADER 0x80000000
    {
        ADDR __boot_start
        * KEEP ( .bootloader )
    }
}
`

func TestConvert(t *testing.T) {
	file := source.New("boot.sag", []byte(validLayout))

	res, err := Convert(file, layout.AE350DDR())
	if err != nil {
		t.Fatalf("Convert returned error: %v", err)
	}
	if !strings.Contains(res.Script, "OUTPUT_ARCH(riscv)") {
		t.Error("script missing OUTPUT_ARCH")
	}
	if res.Sag == nil || len(res.Sag.Blocks) != 1 {
		t.Errorf("unexpected AST: %+v", res.Sag)
	}
	if !res.Timings.Has(StageParse) || !res.Timings.Has(StageGenerate) {
		t.Error("stage timings not recorded")
	}
	if res.Timing == nil || len(res.Timing.Phases) != 2 {
		t.Fatalf("phase report = %+v, want parse and generate phases", res.Timing)
	}
	if res.Timing.Phases[0].Name != "parse" || res.Timing.Phases[1].Name != "generate" {
		t.Errorf("phase names = %q, %q", res.Timing.Phases[0].Name, res.Timing.Phases[1].Name)
	}
	if res.Timing.Phases[1].Note != "1 blocks" {
		t.Errorf("generate phase note = %q", res.Timing.Phases[1].Note)
	}
}

func TestConvertParseError(t *testing.T) {
	file := source.New("broken.sag", []byte("HEAD 0x0\n"))

	res, err := Convert(file, layout.AE350DDR())
	if err == nil {
		t.Fatal("Convert succeeded on a broken layout")
	}
	var perr *parser.Error
	if !errors.As(err, &perr) {
		t.Fatalf("error type = %T, want *parser.Error", err)
	}
	if res.File == nil {
		t.Error("Result.File not set on parse failure")
	}
	if res.Timings.Has(StageGenerate) {
		t.Error("generate stage recorded despite parse failure")
	}
}

func TestConvertFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.sag")
	if err := os.WriteFile(path, []byte(validLayout), 0o644); err != nil {
		t.Fatalf("failed to write layout: %v", err)
	}

	res, err := ConvertFile(path, layout.AE350ILM())
	if err != nil {
		t.Fatalf("ConvertFile returned error: %v", err)
	}
	if !strings.Contains(res.Script, `/* Config: "AE350 ILM" */`) {
		t.Error("script does not name the requested memory map")
	}
}

func TestConvertFileMissing(t *testing.T) {
	_, err := ConvertFile(filepath.Join(t.TempDir(), "absent.sag"), layout.AE350DDR())
	if err == nil {
		t.Fatal("ConvertFile on a missing file succeeded")
	}
}
