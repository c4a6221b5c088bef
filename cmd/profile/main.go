// Package main provides a profiling wrapper for bpsim to identify
// performance bottlenecks in the predictors.
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime/pprof"
	"time"

	"github.com/sarchlab/bpsim/config"
	"github.com/sarchlab/bpsim/driver"
	"github.com/sarchlab/bpsim/trace"
	"github.com/sarchlab/bpsim/workloads"
)

var (
	kind       = flag.String("kind", config.KindTAGE, "Predictor kind to profile")
	configPath = flag.String("config", "", "Path to predictor configuration JSON file (overrides -kind)")
	workload   = flag.String("workload", "correlated_pair", "Built-in workload used when no trace is given")
	repeat     = flag.Int("repeat", 1000, "Number of times to replay the events")
	cpuProfile = flag.String("cpuprofile", "", "write cpu profile to file")
	memProfile = flag.String("memprofile", "", "write memory profile to file")
)

func main() {
	flag.Parse()

	pc, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading predictor config: %v\n", err)
		os.Exit(1)
	}

	events, err := loadEvents()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading events: %v\n", err)
		os.Exit(1)
	}

	bp, err := pc.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building predictor: %v\n", err)
		os.Exit(1)
	}
	d := driver.NewDriver(bp)

	// Start CPU profiling if requested
	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = f.Close() }()

		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "Error starting CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer pprof.StopCPUProfile()
	}

	fmt.Printf("Predictor: %s\n", pc.Name())
	fmt.Printf("Events: %d x %d\n", len(events), *repeat)

	start := time.Now()
	for i := 0; i < *repeat; i++ {
		for _, ev := range events {
			d.StepEvent(ev)
		}
	}
	elapsed := time.Since(start)

	// Write memory profile if requested
	if *memProfile != "" {
		f, err := os.Create(*memProfile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating memory profile: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = f.Close() }()

		if err := pprof.WriteHeapProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing memory profile: %v\n", err)
		}
	}

	stats := d.Stats()
	fmt.Printf("\nProfiling Results:\n")
	fmt.Printf("Branches simulated: %d\n", stats.Total())
	fmt.Printf("Precision: %.2f%%\n", stats.Precision())
	fmt.Printf("Elapsed time: %v\n", elapsed)
	if stats.Total() > 0 {
		fmt.Printf("Branches/second: %.0f\n", float64(stats.Total())/elapsed.Seconds())
	}
}

func loadConfig() (*config.PredictorConfig, error) {
	if *configPath != "" {
		return config.LoadConfig(*configPath)
	}

	pc := config.Default(*kind)
	if pc == nil {
		return nil, fmt.Errorf("unknown predictor kind %q", *kind)
	}

	return pc, nil
}

// loadEvents reads the trace named on the command line, or generates the
// selected built-in workload.
func loadEvents() ([]trace.Event, error) {
	if flag.NArg() > 0 {
		f, err := os.Open(flag.Arg(0))
		if err != nil {
			return nil, err
		}
		defer func() { _ = f.Close() }()

		return trace.NewReader(f).ReadAll()
	}

	w, ok := workloads.Get(*workload)
	if !ok {
		return nil, fmt.Errorf("unknown workload %q", *workload)
	}

	return w.Events(), nil
}
