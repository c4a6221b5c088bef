// Package main provides the entry point for bpsim.
// bpsim replays a branch trace through a configurable direction predictor
// and reports how often it was right.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/sarchlab/bpsim/config"
	"github.com/sarchlab/bpsim/driver"
	"github.com/sarchlab/bpsim/trace"
)

var (
	configPath = flag.String("config", "", "Path to predictor configuration JSON file")
	kind       = flag.String("kind", config.KindBimodal, "Predictor kind used when -config is not given")
	outPath    = flag.String("o", "brchPredict.txt", "Output file for the report")
	saveConfig = flag.String("save-config", "", "Write the effective predictor configuration to this path")
	useBTB     = flag.Bool("btb", false, "Simulate a branch target buffer")
	verbose    = flag.Bool("v", false, "Verbose output (one line per branch)")
)

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: bpsim [options] <trace.txt | ->\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	pc, err := loadPredictorConfig(*configPath, *kind)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading predictor config: %v\n", err)
		os.Exit(1)
	}

	if *saveConfig != "" {
		if err := pc.SaveConfig(*saveConfig); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving predictor config: %v\n", err)
			os.Exit(1)
		}
	}

	in, err := openTrace(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening trace: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = in.Close() }()

	var opts []driver.Option
	if *useBTB {
		opts = append(opts, driver.WithBTB(driver.DefaultBTBConfig()))
	}
	if *verbose {
		fmt.Printf("Predictor: %s\n", pc.Name())
		opts = append(opts, driver.WithLogger(os.Stdout))
	}

	stats, err := simulate(pc, in, opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error simulating: %v\n", err)
		os.Exit(1)
	}

	writeReport(os.Stdout, stats)

	out, err := os.Create(*outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output file: %v\n", err)
		os.Exit(1)
	}
	writeReport(out, stats)
	if err := out.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing output file: %v\n", err)
		os.Exit(1)
	}
}

// loadPredictorConfig reads path, or falls back to the default config of
// kind when path is empty.
func loadPredictorConfig(path, kind string) (*config.PredictorConfig, error) {
	if path != "" {
		return config.LoadConfig(path)
	}

	pc := config.Default(kind)
	if pc == nil {
		return nil, fmt.Errorf("unknown predictor kind %q", kind)
	}

	return pc, nil
}

func openTrace(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}

	return os.Open(path)
}

// simulate builds the predictor and replays every event of r through it.
func simulate(
	pc *config.PredictorConfig,
	r io.Reader,
	opts ...driver.Option,
) (driver.Stats, error) {
	bp, err := pc.Build()
	if err != nil {
		return driver.Stats{}, err
	}

	d := driver.NewDriver(bp, opts...)
	if err := d.Run(trace.NewReader(r)); err != nil {
		return d.Stats(), err
	}

	return d.Stats(), nil
}

// writeReport prints the four tallies and the precision.
func writeReport(w io.Writer, stats driver.Stats) {
	_, _ = fmt.Fprintf(w, "takenCorrect: %d\n", stats.TakenCorrect)
	_, _ = fmt.Fprintf(w, "takenIncorrect: %d\n", stats.TakenIncorrect)
	_, _ = fmt.Fprintf(w, "notTakenCorrect: %d\n", stats.NotTakenCorrect)
	_, _ = fmt.Fprintf(w, "notTakenIncorrect: %d\n", stats.NotTakenIncorrect)
	_, _ = fmt.Fprintf(w, "Precision: %.6g\n", stats.Precision())

	if stats.BTBHits > 0 || stats.BTBMisses > 0 {
		_, _ = fmt.Fprintf(w, "btbHits: %d\n", stats.BTBHits)
		_, _ = fmt.Fprintf(w, "btbMisses: %d\n", stats.BTBMisses)
	}
}
