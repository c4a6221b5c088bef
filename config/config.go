// Package config describes predictor configurations as JSON documents and
// builds predictors from them.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sarchlab/bpsim/predictor"
)

// Predictor kinds.
const (
	KindBimodal    = "bimodal"
	KindGlobal     = "global"
	KindTournament = "tournament"
	KindTAGE       = "tage"
)

// Hash function names.
const (
	HashXOR         = "xor"
	HashInvertedXOR = "xor1"
	HashXNOR        = "xnor"
)

var hashes = map[string]predictor.HashFunc{
	HashXOR:         predictor.HashXOR,
	HashInvertedXOR: predictor.HashInvertedXOR,
	HashXNOR:        predictor.HashXNOR,
}

// PredictorConfig selects and sizes a predictor.
type PredictorConfig struct {
	// Kind is one of bimodal, global, tournament or tage.
	Kind string `json:"kind"`

	// Log2Entries is log2 of the counter table size (bimodal, global).
	Log2Entries uint `json:"log2_entries,omitempty"`

	// CounterWidth is the saturating counter width (bimodal, global).
	// Default: 2 bits.
	CounterWidth uint `json:"counter_width,omitempty"`

	// HistoryWidth is the global history length (global).
	HistoryWidth uint `json:"history_width,omitempty"`

	// Hash combines address and history (global): xor, xor1 or xnor.
	Hash string `json:"hash,omitempty"`

	// SelectorWidth is the tournament selector width. Default: 2 bits.
	SelectorWidth uint `json:"selector_width,omitempty"`

	// Sub0 and Sub1 are the tournament arms. A taken selector picks Sub1.
	Sub0 *PredictorConfig `json:"sub0,omitempty"`
	Sub1 *PredictorConfig `json:"sub1,omitempty"`

	// TAGE holds the TAGE geometry (tage).
	TAGE *TAGEConfig `json:"tage,omitempty"`
}

// TAGEConfig is the JSON form of predictor.TAGEConfig.
type TAGEConfig struct {
	NumTables         int     `json:"num_tables"`
	BaseLog2Entries   uint    `json:"base_log2_entries"`
	BaseHistoryWidth  uint    `json:"base_history_width"`
	Alpha             float64 `json:"alpha"`
	TaggedLog2Entries uint    `json:"tagged_log2_entries"`
	CounterWidth      uint    `json:"counter_width"`
	ResetPeriod       uint64  `json:"reset_period"`
	IndexHash         string  `json:"index_hash"`
	TagHash           string  `json:"tag_hash"`
	AllocateTags      bool    `json:"allocate_tags,omitempty"`
}

// DefaultBimodalConfig returns a 2^17-entry table of 2-bit counters.
func DefaultBimodalConfig() *PredictorConfig {
	return &PredictorConfig{
		Kind:         KindBimodal,
		Log2Entries:  17,
		CounterWidth: 2,
	}
}

// DefaultGlobalConfig returns an 8-bit history over a 2^17-entry XOR-indexed
// table.
func DefaultGlobalConfig() *PredictorConfig {
	return &PredictorConfig{
		Kind:         KindGlobal,
		Log2Entries:  17,
		CounterWidth: 2,
		HistoryWidth: 8,
		Hash:         HashXOR,
	}
}

// DefaultTournamentConfig returns the default bimodal and global predictors
// under a 2-bit selector.
func DefaultTournamentConfig() *PredictorConfig {
	return &PredictorConfig{
		Kind:          KindTournament,
		SelectorWidth: 2,
		Sub0:          DefaultBimodalConfig(),
		Sub1:          DefaultGlobalConfig(),
	}
}

// DefaultTAGEConfig returns a 3-table TAGE with XOR indexing and
// inverted-XOR tags.
func DefaultTAGEConfig() *PredictorConfig {
	return &PredictorConfig{
		Kind: KindTAGE,
		TAGE: &TAGEConfig{
			NumTables:         3,
			BaseLog2Entries:   13,
			BaseHistoryWidth:  8,
			Alpha:             1.5,
			TaggedLog2Entries: 13,
			CounterWidth:      3,
			ResetPeriod:       256 * 1024,
			IndexHash:         HashXOR,
			TagHash:           HashInvertedXOR,
		},
	}
}

// DefaultConfig returns the configuration used when none is given.
func DefaultConfig() *PredictorConfig {
	return DefaultBimodalConfig()
}

// Default returns the default configuration of kind, or nil for an unknown
// kind.
func Default(kind string) *PredictorConfig {
	switch kind {
	case KindBimodal:
		return DefaultBimodalConfig()
	case KindGlobal:
		return DefaultGlobalConfig()
	case KindTournament:
		return DefaultTournamentConfig()
	case KindTAGE:
		return DefaultTAGEConfig()
	}

	return nil
}

// LoadConfig loads a PredictorConfig from a JSON file. Fields the file
// leaves out keep the defaults of its kind.
func LoadConfig(path string) (*PredictorConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read predictor config file: %w", err)
	}

	return Parse(data)
}

// Parse decodes a JSON predictor configuration, overlaying it on the
// defaults of its kind. Tournament arms are overlaid on the defaults of
// their own kinds.
func Parse(data []byte) (*PredictorConfig, error) {
	var probe struct {
		Kind string          `json:"kind"`
		Sub0 json.RawMessage `json:"sub0"`
		Sub1 json.RawMessage `json:"sub1"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("failed to parse predictor config: %w", err)
	}

	config := Default(probe.Kind)
	if config == nil {
		return nil, fmt.Errorf("unknown predictor kind %q", probe.Kind)
	}

	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse predictor config: %w", err)
	}

	if probe.Kind != KindTournament {
		return config, nil
	}

	var err error
	if config.Sub0, err = parseArm(probe.Sub0, config.Sub0); err != nil {
		return nil, fmt.Errorf("sub0: %w", err)
	}
	if config.Sub1, err = parseArm(probe.Sub1, config.Sub1); err != nil {
		return nil, fmt.Errorf("sub1: %w", err)
	}

	return config, nil
}

// parseArm re-parses a tournament arm so it starts from its own kind's
// defaults. An absent arm keeps current; an explicit null clears it.
func parseArm(raw json.RawMessage, current *PredictorConfig) (*PredictorConfig, error) {
	switch string(raw) {
	case "":
		return current, nil
	case "null":
		return nil, nil
	}

	return Parse(raw)
}

// SaveConfig writes a PredictorConfig to a JSON file.
func (c *PredictorConfig) SaveConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize predictor config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write predictor config file: %w", err)
	}

	return nil
}

// Validate checks the structure of the configuration. Table and counter
// widths are not range-checked; they must fit the 128-bit history and the
// 8-bit counters.
func (c *PredictorConfig) Validate() error {
	switch c.Kind {
	case KindBimodal:
		return nil
	case KindGlobal:
		if _, ok := hashes[c.Hash]; !ok {
			return fmt.Errorf("unknown hash %q", c.Hash)
		}
		return nil
	case KindTournament:
		if c.Sub0 == nil || c.Sub1 == nil {
			return fmt.Errorf("tournament needs both sub0 and sub1")
		}
		if err := c.Sub0.Validate(); err != nil {
			return fmt.Errorf("sub0: %w", err)
		}
		if err := c.Sub1.Validate(); err != nil {
			return fmt.Errorf("sub1: %w", err)
		}
		return nil
	case KindTAGE:
		if c.TAGE == nil {
			return fmt.Errorf("tage config missing")
		}
		return c.TAGE.Validate()
	}

	return fmt.Errorf("unknown predictor kind %q", c.Kind)
}

// Validate checks the TAGE geometry.
func (t *TAGEConfig) Validate() error {
	if t.NumTables < 1 {
		return fmt.Errorf("num_tables must be >= 1")
	}
	if t.NumTables > 2 && t.Alpha <= 1 {
		return fmt.Errorf("alpha must be > 1")
	}
	if t.ResetPeriod == 0 {
		return fmt.Errorf("reset_period must be > 0")
	}
	if _, ok := hashes[t.IndexHash]; !ok {
		return fmt.Errorf("unknown index_hash %q", t.IndexHash)
	}
	if _, ok := hashes[t.TagHash]; !ok {
		return fmt.Errorf("unknown tag_hash %q", t.TagHash)
	}
	return nil
}

// Clone returns a deep copy of the PredictorConfig.
func (c *PredictorConfig) Clone() *PredictorConfig {
	clone := *c
	if c.Sub0 != nil {
		clone.Sub0 = c.Sub0.Clone()
	}
	if c.Sub1 != nil {
		clone.Sub1 = c.Sub1.Clone()
	}
	if c.TAGE != nil {
		tage := *c.TAGE
		clone.TAGE = &tage
	}

	return &clone
}

// Build validates the configuration and constructs the predictor.
func (c *PredictorConfig) Build() (predictor.Predictor, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid predictor config: %w", err)
	}

	return c.build(), nil
}

func (c *PredictorConfig) build() predictor.Predictor {
	switch c.Kind {
	case KindGlobal:
		return predictor.NewGlobalHistory(
			c.HistoryWidth, c.Log2Entries, c.counterWidth(), hashes[c.Hash])
	case KindTournament:
		width := c.SelectorWidth
		if width == 0 {
			width = 2
		}
		return predictor.NewTournament(c.Sub0.build(), c.Sub1.build(), width)
	case KindTAGE:
		return predictor.NewTAGE(c.TAGE.toPredictor())
	default:
		return predictor.NewBimodal(c.Log2Entries, c.counterWidth())
	}
}

func (c *PredictorConfig) counterWidth() uint {
	if c.CounterWidth == 0 {
		return 2
	}

	return c.CounterWidth
}

func (t *TAGEConfig) toPredictor() predictor.TAGEConfig {
	return predictor.TAGEConfig{
		NumTables:         t.NumTables,
		BaseLog2Entries:   t.BaseLog2Entries,
		BaseHistoryWidth:  t.BaseHistoryWidth,
		Alpha:             t.Alpha,
		TaggedLog2Entries: t.TaggedLog2Entries,
		CounterWidth:      t.CounterWidth,
		ResetPeriod:       t.ResetPeriod,
		IndexHash:         hashes[t.IndexHash],
		TagHash:           hashes[t.TagHash],
		AllocateTags:      t.AllocateTags,
	}
}

// Name returns a short description such as "tournament(bimodal,global)".
func (c *PredictorConfig) Name() string {
	switch c.Kind {
	case KindTournament:
		sub0, sub1 := "?", "?"
		if c.Sub0 != nil {
			sub0 = c.Sub0.Name()
		}
		if c.Sub1 != nil {
			sub1 = c.Sub1.Name()
		}
		return fmt.Sprintf("tournament(%s,%s)", sub0, sub1)
	case KindTAGE:
		if c.TAGE != nil {
			return fmt.Sprintf("tage<%s,%s>(%d)",
				c.TAGE.IndexHash, c.TAGE.TagHash, c.TAGE.NumTables)
		}
	}

	return c.Kind
}
