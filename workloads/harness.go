package workloads

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sarchlab/bpsim/config"
	"github.com/sarchlab/bpsim/driver"
	"github.com/sarchlab/bpsim/trace"
)

// Result holds the outcome of one predictor over one workload.
type Result struct {
	// Predictor names the predictor configuration
	Predictor string `json:"predictor"`

	// Workload names the event stream
	Workload string `json:"workload"`

	// Description explains what the workload exercises
	Description string `json:"description"`

	TakenCorrect      uint64 `json:"taken_correct"`
	TakenIncorrect    uint64 `json:"taken_incorrect"`
	NotTakenCorrect   uint64 `json:"not_taken_correct"`
	NotTakenIncorrect uint64 `json:"not_taken_incorrect"`

	// Branches is the number of events simulated
	Branches uint64 `json:"branches"`

	// Precision is the percentage of correct predictions
	Precision float64 `json:"precision"`

	// BTB hits/misses (if BTB enabled)
	BTBHits   uint64 `json:"btb_hits,omitempty"`
	BTBMisses uint64 `json:"btb_misses,omitempty"`

	// WallTime is the actual time taken to run the simulation
	WallTime time.Duration `json:"wall_time_ns"`
}

// Mispredictions returns the number of incorrect predictions.
func (r Result) Mispredictions() uint64 {
	return r.TakenIncorrect + r.NotTakenIncorrect
}

// HarnessConfig configures the workload harness.
type HarnessConfig struct {
	// EnableBTB attaches a default branch target buffer to every run
	EnableBTB bool

	// Output is where to write results (default: os.Stdout)
	Output io.Writer

	// Verbose prints one progress line per run
	Verbose bool
}

// DefaultConfig returns a default harness configuration.
func DefaultConfig() HarnessConfig {
	return HarnessConfig{
		EnableBTB: true,
		Output:    os.Stdout,
	}
}

// Harness runs every predictor configuration over every workload.
type Harness struct {
	config     HarnessConfig
	predictors []*config.PredictorConfig
	workloads  []Workload
}

// NewHarness creates a new workload harness.
func NewHarness(cfg HarnessConfig) *Harness {
	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}
	return &Harness{config: cfg}
}

// AddPredictor adds a predictor configuration to the harness.
func (h *Harness) AddPredictor(c *config.PredictorConfig) {
	h.predictors = append(h.predictors, c)
}

// AddWorkload adds a workload to the harness.
func (h *Harness) AddWorkload(w Workload) {
	h.workloads = append(h.workloads, w)
}

// AddWorkloads adds multiple workloads to the harness.
func (h *Harness) AddWorkloads(workloads []Workload) {
	h.workloads = append(h.workloads, workloads...)
}

// RunAll runs each (predictor, workload) pair on a fresh predictor and
// returns the results in predictor-major order.
func (h *Harness) RunAll() ([]Result, error) {
	results := make([]Result, 0, len(h.predictors)*len(h.workloads))

	for _, pc := range h.predictors {
		for _, w := range h.workloads {
			r, err := h.run(pc, w)
			if err != nil {
				return results, fmt.Errorf("%s on %s: %w", pc.Name(), w.Name, err)
			}
			results = append(results, r)
		}
	}

	return results, nil
}

func (h *Harness) run(pc *config.PredictorConfig, w Workload) (Result, error) {
	bp, err := pc.Build()
	if err != nil {
		return Result{}, err
	}

	var opts []driver.Option
	if h.config.EnableBTB {
		opts = append(opts, driver.WithBTB(driver.DefaultBTBConfig()))
	}
	d := driver.NewDriver(bp, opts...)

	start := time.Now()
	if err := d.Run(trace.NewSliceSource(w.Events())); err != nil {
		return Result{}, err
	}
	wallTime := time.Since(start)

	stats := d.Stats()
	result := Result{
		Predictor:         pc.Name(),
		Workload:          w.Name,
		Description:       w.Description,
		TakenCorrect:      stats.TakenCorrect,
		TakenIncorrect:    stats.TakenIncorrect,
		NotTakenCorrect:   stats.NotTakenCorrect,
		NotTakenIncorrect: stats.NotTakenIncorrect,
		Branches:          stats.Total(),
		Precision:         stats.Precision(),
		BTBHits:           stats.BTBHits,
		BTBMisses:         stats.BTBMisses,
		WallTime:          wallTime,
	}

	if h.config.Verbose {
		_, _ = fmt.Fprintf(h.config.Output, "ran %s on %s: %.2f%%\n",
			result.Predictor, result.Workload, result.Precision)
	}

	return result, nil
}

// PrintResults outputs results in a human-readable format.
func (h *Harness) PrintResults(results []Result) {
	_, _ = fmt.Fprintln(h.config.Output, "=== Branch Predictor Workload Results ===")
	_, _ = fmt.Fprintln(h.config.Output, "")

	for _, r := range results {
		_, _ = fmt.Fprintf(h.config.Output, "Predictor: %s\n", r.Predictor)
		_, _ = fmt.Fprintf(h.config.Output, "  Workload: %s (%s)\n", r.Workload, r.Description)
		_, _ = fmt.Fprintf(h.config.Output, "  Branches:            %d\n", r.Branches)
		_, _ = fmt.Fprintf(h.config.Output, "  Taken Correct:       %d\n", r.TakenCorrect)
		_, _ = fmt.Fprintf(h.config.Output, "  Taken Incorrect:     %d\n", r.TakenIncorrect)
		_, _ = fmt.Fprintf(h.config.Output, "  Not Taken Correct:   %d\n", r.NotTakenCorrect)
		_, _ = fmt.Fprintf(h.config.Output, "  Not Taken Incorrect: %d\n", r.NotTakenIncorrect)
		_, _ = fmt.Fprintf(h.config.Output, "  Precision:           %.2f%%\n", r.Precision)

		if r.BTBHits > 0 || r.BTBMisses > 0 {
			_, _ = fmt.Fprintln(h.config.Output, "  --- BTB ---")
			_, _ = fmt.Fprintf(h.config.Output, "  Hits:   %d\n", r.BTBHits)
			_, _ = fmt.Fprintf(h.config.Output, "  Misses: %d\n", r.BTBMisses)
		}

		_, _ = fmt.Fprintf(h.config.Output, "  Wall Time: %v\n", r.WallTime)
		_, _ = fmt.Fprintln(h.config.Output, "")
	}
}

// PrintCSV outputs results in CSV format for easy comparison.
func (h *Harness) PrintCSV(results []Result) {
	_, _ = fmt.Fprintln(h.config.Output,
		"predictor,workload,branches,taken_correct,taken_incorrect,not_taken_correct,not_taken_incorrect,precision,btb_hits,btb_misses")

	for _, r := range results {
		_, _ = fmt.Fprintf(h.config.Output, "%s,%s,%d,%d,%d,%d,%d,%.2f,%d,%d\n",
			r.Predictor,
			r.Workload,
			r.Branches,
			r.TakenCorrect,
			r.TakenIncorrect,
			r.NotTakenCorrect,
			r.NotTakenIncorrect,
			r.Precision,
			r.BTBHits,
			r.BTBMisses,
		)
	}
}

// Report is the JSON document written by PrintJSON.
type Report struct {
	Metadata ReportMetadata `json:"metadata"`
	Results  []Result       `json:"results"`
	Summary  ReportSummary  `json:"summary"`
}

// ReportMetadata describes the run.
type ReportMetadata struct {
	Timestamp  string                    `json:"timestamp"`
	BTBEnabled bool                      `json:"btb_enabled"`
	Predictors []*config.PredictorConfig `json:"predictors"`
}

// ReportSummary aggregates all results.
type ReportSummary struct {
	TotalRuns     int           `json:"total_runs"`
	TotalBranches uint64        `json:"total_branches"`
	TotalCorrect  uint64        `json:"total_correct"`
	Precision     float64       `json:"precision"`
	TotalWallTime time.Duration `json:"total_wall_time_ns"`
}

// PrintJSON outputs results in JSON format for automated comparison.
func (h *Harness) PrintJSON(results []Result) error {
	var summary ReportSummary
	summary.TotalRuns = len(results)
	for _, r := range results {
		summary.TotalBranches += r.Branches
		summary.TotalCorrect += r.TakenCorrect + r.NotTakenCorrect
		summary.TotalWallTime += r.WallTime
	}
	if summary.TotalBranches > 0 {
		summary.Precision = 100 * float64(summary.TotalCorrect) /
			float64(summary.TotalBranches)
	}

	report := Report{
		Metadata: ReportMetadata{
			Timestamp:  time.Now().UTC().Format(time.RFC3339),
			BTBEnabled: h.config.EnableBTB,
			Predictors: h.predictors,
		},
		Results: results,
		Summary: summary,
	}

	encoder := json.NewEncoder(h.config.Output)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}
