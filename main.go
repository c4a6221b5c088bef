// Package main provides the entry point for bpsim.
// bpsim is a trace-driven branch direction predictor simulator.
//
// For the full CLI, use: go run ./cmd/bpsim
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("bpsim - Branch Predictor Simulator")
	fmt.Println("")
	fmt.Println("Usage: bpsim [options] <trace.txt | ->")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -config    Path to predictor configuration JSON file")
	fmt.Println("  -kind      Predictor kind used when -config is not given")
	fmt.Println("  -o         Output file for the report (default brchPredict.txt)")
	fmt.Println("  -btb       Simulate a branch target buffer")
	fmt.Println("  -v         Verbose output")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/bpsim' for the full CLI.")
	fmt.Println("Run 'go run ./cmd/benchmark' to compare predictors on synthetic workloads.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/bpsim' instead.")
	}
}
