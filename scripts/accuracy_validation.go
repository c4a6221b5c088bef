// Package main validates predictor behavior on the built-in workloads.
// It checks that runs are reproducible, that the text trace round-trips
// without changing results, and that each predictor clears its accuracy
// floor.
package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/sarchlab/bpsim/config"
	"github.com/sarchlab/bpsim/driver"
	"github.com/sarchlab/bpsim/trace"
	"github.com/sarchlab/bpsim/workloads"
)

var kinds = []string{
	config.KindBimodal,
	config.KindGlobal,
	config.KindTournament,
	config.KindTAGE,
}

func run(kind string, src driver.Source) (driver.Stats, error) {
	bp, err := config.Default(kind).Build()
	if err != nil {
		return driver.Stats{}, err
	}

	d := driver.NewDriver(bp)
	err = d.Run(src)

	return d.Stats(), err
}

// testDeterminism runs every predictor twice over every workload and
// compares the tallies.
func testDeterminism() bool {
	fmt.Println("Testing run reproducibility...")

	for _, kind := range kinds {
		for _, w := range workloads.All() {
			s1, err1 := run(kind, trace.NewSliceSource(w.Events()))
			s2, err2 := run(kind, trace.NewSliceSource(w.Events()))
			if err1 != nil || err2 != nil {
				fmt.Printf("❌ %s on %s: run failed: %v %v\n", kind, w.Name, err1, err2)
				return false
			}

			if s1 != s2 {
				fmt.Printf("❌ %s on %s: tallies differ\n", kind, w.Name)
				fmt.Printf("  first:  %+v\n", s1)
				fmt.Printf("  second: %+v\n", s2)
				return false
			}
		}

		fmt.Printf("✅ %s: reproducible on %d workloads\n", kind, len(workloads.All()))
	}

	return true
}

// testTraceRoundTrip writes each workload as a text trace, reads it back
// and checks the replay gives the same tallies as the in-memory events.
func testTraceRoundTrip() bool {
	fmt.Println("\nTesting trace round trip...")

	for _, w := range workloads.All() {
		events := w.Events()

		var buf bytes.Buffer
		tw := trace.NewWriter(&buf)
		for _, ev := range events {
			if err := tw.Write(ev); err != nil {
				fmt.Printf("❌ %s: write failed: %v\n", w.Name, err)
				return false
			}
		}
		if err := tw.Flush(); err != nil {
			fmt.Printf("❌ %s: flush failed: %v\n", w.Name, err)
			return false
		}

		direct, err := run(config.KindTournament, trace.NewSliceSource(events))
		if err != nil {
			fmt.Printf("❌ %s: direct run failed: %v\n", w.Name, err)
			return false
		}

		replayed, err := run(config.KindTournament, trace.NewReader(&buf))
		if err != nil {
			fmt.Printf("❌ %s: replay failed: %v\n", w.Name, err)
			return false
		}

		if direct != replayed {
			fmt.Printf("❌ %s: replay changed the tallies\n", w.Name)
			return false
		}

		fmt.Printf("✅ %s: %d events replayed identically\n", w.Name, direct.Total())
	}

	return true
}

// testAccuracyFloors checks the precision each predictor must reach.
func testAccuracyFloors() bool {
	fmt.Println("\nTesting accuracy floors...")

	floors := []struct {
		kind     string
		workload string
		min      float64
	}{
		{config.KindBimodal, "always_taken", 99},
		{config.KindBimodal, "never_taken", 99},
		{config.KindBimodal, "loop_9_1", 89},
		{config.KindGlobal, "always_taken", 99},
		{config.KindGlobal, "alternating", 95},
		{config.KindTournament, "always_taken", 99},
		{config.KindTournament, "alternating", 90},
		{config.KindTAGE, "always_taken", 99},
		{config.KindTAGE, "never_taken", 99},
	}

	passed := true
	for _, f := range floors {
		w, ok := workloads.Get(f.workload)
		if !ok {
			fmt.Printf("❌ unknown workload %s\n", f.workload)
			return false
		}

		stats, err := run(f.kind, trace.NewSliceSource(w.Events()))
		if err != nil {
			fmt.Printf("❌ %s on %s: %v\n", f.kind, f.workload, err)
			return false
		}

		if stats.Precision() < f.min {
			fmt.Printf("❌ %s on %s: precision %.2f%% below %.0f%%\n",
				f.kind, f.workload, stats.Precision(), f.min)
			passed = false
			continue
		}

		fmt.Printf("✅ %s on %s: %.2f%%\n", f.kind, f.workload, stats.Precision())
	}

	return passed
}

func main() {
	fmt.Println("bpsim Accuracy Validation")
	fmt.Println("=========================")

	allPassed := true

	if !testDeterminism() {
		allPassed = false
	}

	if !testTraceRoundTrip() {
		allPassed = false
	}

	if !testAccuracyFloors() {
		allPassed = false
	}

	fmt.Println("\n=========================")
	if allPassed {
		fmt.Println("🎉 ALL ACCURACY CHECKS PASSED")
		os.Exit(0)
	} else {
		fmt.Println("❌ ACCURACY CHECKS FAILED")
		os.Exit(1)
	}
}
