// Command benchmark runs every predictor kind over the built-in synthetic
// workloads.
//
// Usage:
//
//	go run ./cmd/benchmark [flags]
//
// Flags:
//
//	-csv       Output results in CSV format (default: human-readable)
//	-json      Output results in JSON format
//	-no-btb    Disable branch target buffer simulation
//	-workload  Run only the named workload
//	-config    Run only the predictor in this JSON file
//
// Example:
//
//	# Compare all predictors with human-readable output
//	go run ./cmd/benchmark
//
//	# Output CSV for spreadsheet comparison
//	go run ./cmd/benchmark -csv > results.csv
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sarchlab/bpsim/config"
	"github.com/sarchlab/bpsim/workloads"
)

func main() {
	csvOutput := flag.Bool("csv", false, "Output results in CSV format")
	jsonOutput := flag.Bool("json", false, "Output results in JSON format")
	noBTB := flag.Bool("no-btb", false, "Disable branch target buffer simulation")
	workloadName := flag.String("workload", "", "Run only the named workload")
	configPath := flag.String("config", "", "Run only the predictor in this JSON file")
	verbose := flag.Bool("v", false, "Print progress")
	flag.Parse()

	cfg := workloads.DefaultConfig()
	cfg.EnableBTB = !*noBTB
	cfg.Verbose = *verbose
	cfg.Output = os.Stdout

	harness := workloads.NewHarness(cfg)

	if *configPath != "" {
		pc, err := config.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading predictor config: %v\n", err)
			os.Exit(1)
		}
		harness.AddPredictor(pc)
	} else {
		for _, kind := range []string{
			config.KindBimodal,
			config.KindGlobal,
			config.KindTournament,
			config.KindTAGE,
		} {
			harness.AddPredictor(config.Default(kind))
		}
	}

	if *workloadName != "" {
		w, ok := workloads.Get(*workloadName)
		if !ok {
			fmt.Fprintf(os.Stderr, "Unknown workload: %s\n", *workloadName)
			os.Exit(1)
		}
		harness.AddWorkload(w)
	} else {
		harness.AddWorkloads(workloads.All())
	}

	if !*csvOutput && !*jsonOutput {
		fmt.Println("Branch Predictor Workload Harness")
		fmt.Println("=================================")
		fmt.Printf("BTB: %v\n", cfg.EnableBTB)
		fmt.Println("")
	}

	results, err := harness.RunAll()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running workloads: %v\n", err)
		os.Exit(1)
	}

	switch {
	case *jsonOutput:
		if err := harness.PrintJSON(results); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing JSON: %v\n", err)
			os.Exit(1)
		}
	case *csvOutput:
		harness.PrintCSV(results)
	default:
		harness.PrintResults(results)
	}
}
