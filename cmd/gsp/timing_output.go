package main

import (
	"fmt"
	"io"
	"time"

	"gsp/internal/driver"
	"gsp/internal/observ"
	"gsp/internal/pipeline"
)

var stageVerbs = map[pipeline.Stage]string{
	pipeline.StageLoad:      "loaded",
	pipeline.StageTokenize:  "tokenized",
	pipeline.StageTranslate: "translated",
	pipeline.StageWrite:     "wrote",
}

// printStageTimings prints the stage durations summed over all results,
// followed by the per-template phases when a timer ran.
func printStageTimings(out io.Writer, results []driver.Result, timer *observ.Timer) {
	if out == nil {
		return
	}
	var total pipeline.Timings
	for i := range results {
		for _, st := range pipeline.Stages {
			if results[i].Timings.Has(st) {
				total.Add(st, results[i].Timings.Duration(st))
			}
		}
	}
	for _, st := range pipeline.Stages {
		if !total.Has(st) {
			continue
		}
		fmt.Fprintf(out, "%s %.1f ms\n", stageVerbs[st], toMillis(total.Duration(st)))
	}
	if timer != nil {
		fmt.Fprint(out, timer.Summary())
	}
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
