package main

import (
	"fmt"
	"io"
	"time"

	"sagld/internal/driver"
)

func printStageTimings(out io.Writer, timings driver.Timings) {
	if out == nil {
		return
	}
	if timings.Has(driver.StageParse) {
		fmt.Fprintf(out, "parsed %.1f ms\n", toMillis(timings.Duration(driver.StageParse)))
	}
	if timings.Has(driver.StageGenerate) {
		fmt.Fprintf(out, "generated %.1f ms\n", toMillis(timings.Duration(driver.StageGenerate)))
	}
	if timings.Has(driver.StageWrite) {
		fmt.Fprintf(out, "wrote %.1f ms\n", toMillis(timings.Duration(driver.StageWrite)))
	}
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
