package driver

import (
	"fmt"
	"time"

	"sagld/internal/ast"
	"sagld/internal/layout"
	"sagld/internal/ldscript"
	"sagld/internal/observ"
	"sagld/internal/parser"
	"sagld/internal/source"
)

// Result carries everything a single conversion produced.
type Result struct {
	File    *source.File
	Sag     *ast.SagFile
	Script  string
	Timings Timings
	Timing  *observ.Report // per-phase detail behind Timings
}

// Convert parses a loaded layout file and renders its linker script.
// On a parse failure the returned Result still carries File, so
// callers can format a source excerpt.
func Convert(file *source.File, cfg *layout.Config) (*Result, error) {
	res := &Result{File: file}
	timer := observ.NewTimer()

	idx := timer.Begin("parse")
	sag, err := parser.Parse(file.Text())
	if err != nil {
		timer.End(idx, "")
		res.recordTiming(timer)
		return res, err
	}
	timer.End(idx, fmt.Sprintf("%d lines", len(file.LineIdx)))
	res.Sag = sag

	idx = timer.Begin("generate")
	res.Script = ldscript.Generate(sag, cfg)
	timer.End(idx, fmt.Sprintf("%d blocks", len(sag.Blocks)))

	res.recordTiming(timer)
	return res, nil
}

// ConvertFile loads a layout file from disk and converts it.
func ConvertFile(path string, cfg *layout.Config) (*Result, error) {
	file, err := source.Load(path)
	if err != nil {
		return nil, err
	}
	return Convert(file, cfg)
}

// recordTiming snapshots the timer into the result, both as the raw
// phase report and as stage durations.
func (r *Result) recordTiming(timer *observ.Timer) {
	report := timer.Report()
	r.Timing = &report
	for _, phase := range report.Phases {
		switch phase.Name {
		case "parse":
			r.Timings.Set(StageParse, durationFromMillis(phase.DurationMS))
		case "generate":
			r.Timings.Set(StageGenerate, durationFromMillis(phase.DurationMS))
		}
	}
}

func durationFromMillis(ms float64) time.Duration {
	return time.Duration(ms * float64(time.Millisecond))
}
