package main

import (
	"fmt"
	"sync"

	"github.com/spf13/cobra"

	"gsp/internal/prof"
)

// setupProfiling starts the profilers requested by --cpu-profile and
// --runtime-trace; the heap profile is written by the cleanup. The cleanup
// runs at most once.
func setupProfiling(cmd *cobra.Command) (func(), error) {
	flags := cmd.Root().PersistentFlags()
	cpuProfile, err := flags.GetString("cpu-profile")
	if err != nil {
		return nil, fmt.Errorf("failed to get cpu-profile flag: %w", err)
	}
	memProfile, err := flags.GetString("mem-profile")
	if err != nil {
		return nil, fmt.Errorf("failed to get mem-profile flag: %w", err)
	}
	tracePath, err := flags.GetString("runtime-trace")
	if err != nil {
		return nil, fmt.Errorf("failed to get runtime-trace flag: %w", err)
	}

	var stops []func()
	if cpuProfile != "" {
		if err := prof.StartCPU(cpuProfile); err != nil {
			return nil, fmt.Errorf("failed to start cpu profile: %w", err)
		}
		stops = append(stops, prof.StopCPU)
	}
	if tracePath != "" {
		if err := prof.StartTrace(tracePath); err != nil {
			prof.StopCPU()
			return nil, fmt.Errorf("failed to start runtime trace: %w", err)
		}
		stops = append(stops, prof.StopTrace)
	}
	errOut := cmd.ErrOrStderr()
	if memProfile != "" {
		stops = append(stops, func() {
			if err := prof.WriteMem(memProfile); err != nil {
				fmt.Fprintf(errOut, "failed to write heap profile: %v\n", err)
			}
		})
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			// в обратном порядке запуска
			for i := len(stops) - 1; i >= 0; i-- {
				stops[i]()
			}
		})
	}, nil
}
