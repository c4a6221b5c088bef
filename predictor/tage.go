package predictor

import (
	"lukechampine.com/uint128"
)

// usefulMax is the saturation value of the 2-bit usefulness counters.
const usefulMax = 3

// TAGEConfig holds the geometry of a TAGE predictor.
type TAGEConfig struct {
	// NumTables is the number of component tables including the bimodal
	// base table T0.
	NumTables int

	// BaseLog2Entries is log2 of the T0 bimodal table size.
	BaseLog2Entries uint

	// BaseHistoryWidth is the history length of T1.
	BaseHistoryWidth uint

	// Alpha is the geometric ratio between the history lengths of
	// consecutive tagged tables. Expected to be > 1.
	Alpha float64

	// TaggedLog2Entries is log2 of the size of every tagged table.
	TaggedLog2Entries uint

	// CounterWidth is the prediction counter width of the tagged tables.
	// T0 always uses 2-bit counters.
	CounterWidth uint

	// ResetPeriod is the number of updates between two global usefulness
	// resets.
	ResetPeriod uint64

	// IndexHash selects the table entry; TagHash produces the tag compared
	// against it.
	IndexHash HashFunc
	TagHash   HashFunc

	// AllocateTags makes entry reallocation also store the allocating
	// context's tag. When false only the counter is reset and the tag array
	// keeps its previous contents.
	AllocateTags bool
}

// DefaultTAGEConfig returns the 3-table geometry (T0 2^13, T1 8-bit history,
// alpha 1.5, tagged tables 2^13) with 3-bit counters and a 256K reset period.
func DefaultTAGEConfig() TAGEConfig {
	return TAGEConfig{
		NumTables:         3,
		BaseLog2Entries:   13,
		BaseHistoryWidth:  8,
		Alpha:             1.5,
		TaggedLog2Entries: 13,
		CounterWidth:      3,
		ResetPeriod:       256 * 1024,
		IndexHash:         HashXOR,
		TagHash:           HashInvertedXOR,
	}
}

// TAGE is a tagged geometric-history-length predictor.
//
// T0 is an untagged bimodal table. T1..Tn-1 are global-history tables whose
// history lengths grow by Alpha. Each tagged table has a parallel tag array
// and a parallel array of 2-bit usefulness counters. The longest-history
// table whose stored tag matches provides the prediction.
//
// Each component table owns its history register, and only the provider's
// register advances on Update.
type TAGE struct {
	config TAGEConfig

	base   *Bimodal
	tables []*GlobalHistory // index 0 unused

	tags   [][]uint128.Uint128
	useful [][]uint8

	provider  int
	alternate int

	resetCount uint64
}

// NewTAGE builds a TAGE predictor. Zero CounterWidth, ResetPeriod or hash
// functions fall back to the DefaultTAGEConfig values.
func NewTAGE(config TAGEConfig) *TAGE {
	defaults := DefaultTAGEConfig()
	if config.CounterWidth == 0 {
		config.CounterWidth = defaults.CounterWidth
	}
	if config.ResetPeriod == 0 {
		config.ResetPeriod = defaults.ResetPeriod
	}
	if config.IndexHash == nil {
		config.IndexHash = defaults.IndexHash
	}
	if config.TagHash == nil {
		config.TagHash = defaults.TagHash
	}

	t := &TAGE{
		config: config,
		base:   NewBimodal(config.BaseLog2Entries, 2),
		tables: make([]*GlobalHistory, config.NumTables),
		tags:   make([][]uint128.Uint128, config.NumTables),
		useful: make([][]uint8, config.NumTables),
	}

	entries := 1 << config.TaggedLog2Entries
	width := config.BaseHistoryWidth
	for i := 1; i < config.NumTables; i++ {
		t.tables[i] = NewGlobalHistory(
			width, config.TaggedLog2Entries, config.CounterWidth,
			config.IndexHash)
		t.tags[i] = make([]uint128.Uint128, entries)
		t.useful[i] = make([]uint8, entries)

		width = uint(float64(width) * config.Alpha)
	}

	return t
}

// component returns table i as a Predictor.
func (t *TAGE) component(i int) Predictor {
	if i == 0 {
		return t.base
	}

	return t.tables[i]
}

// hashes computes the index and tag hashes of table i for addr.
func (t *TAGE) hashes(i int, addr uint64) (index uint64, tag uint128.Uint128) {
	a := uint128.From64(addr)
	h := t.tables[i].History()

	index = tableIndex(t.config.IndexHash(a, h), t.config.TaggedLog2Entries)
	tag = t.config.TagHash(a, h)

	return index, tag
}

// Predict selects the provider, the longest-history table whose tag
// matches, and returns its prediction. The previous match becomes the
// alternate provider. Without any match both are T0.
func (t *TAGE) Predict(addr uint64) bool {
	t.provider = 0
	t.alternate = 0

	for i := 1; i < t.config.NumTables; i++ {
		index, tag := t.hashes(i, addr)
		if t.tags[i][index].Equals(tag) {
			t.alternate = t.provider
			t.provider = i
		}
	}

	return t.component(t.provider).Predict(addr)
}

// Update trains the provider chosen by the preceding Predict, adjusts its
// usefulness, ages usefulness periodically and, on a misprediction,
// recycles or demotes entries in the longer-history tables.
func (t *TAGE) Update(taken, predicted bool, addr uint64) {
	if t.provider == 0 {
		t.base.Update(taken, predicted, addr)
	} else {
		// The usefulness entry is the one the provider predicted from, so
		// its index is taken before the provider's history shifts.
		index, _ := t.hashes(t.provider, addr)

		t.tables[t.provider].Update(taken, predicted, addr)

		if t.component(t.alternate).Predict(addr) != predicted {
			u := &t.useful[t.provider][index]
			if predicted == taken {
				if *u < usefulMax {
					*u++
				}
			} else if *u > 0 {
				*u--
			}
		}
	}

	t.resetCount++
	if t.resetCount == t.config.ResetPeriod {
		t.resetUsefulness()
		t.resetCount = 0
	}

	if taken != predicted {
		t.reallocate(addr)
	}
}

// reallocate walks the tables with longer history than the provider. An
// entry with zero usefulness is reclaimed for the current context; any other
// entry loses one usefulness point.
func (t *TAGE) reallocate(addr uint64) {
	for i := t.provider + 1; i < t.config.NumTables; i++ {
		index, tag := t.hashes(i, addr)

		u := &t.useful[i][index]
		if *u > 0 {
			*u--
			continue
		}

		t.tables[i].ResetCounter(addr)
		if t.config.AllocateTags {
			t.tags[i][index] = tag
		}
	}
}

func (t *TAGE) resetUsefulness() {
	for i := 1; i < t.config.NumTables; i++ {
		clear(t.useful[i])
	}
}

// Provider returns the table index chosen by the last Predict.
func (t *TAGE) Provider() int {
	return t.provider
}

// Alternate returns the alternate provider chosen by the last Predict.
func (t *TAGE) Alternate() int {
	return t.alternate
}

// NumTables returns the number of component tables including T0.
func (t *TAGE) NumTables() int {
	return t.config.NumTables
}

// HistoryWidths returns the history length of every table. T0 reports 0.
func (t *TAGE) HistoryWidths() []uint {
	widths := make([]uint, t.config.NumTables)
	for i := 1; i < t.config.NumTables; i++ {
		widths[i] = t.tables[i].HistoryWidth()
	}

	return widths
}

// Usefulness returns the usefulness counter at index of tagged table i.
func (t *TAGE) Usefulness(i int, index uint64) uint8 {
	return t.useful[i][index]
}

// Table returns tagged table i (1 <= i < NumTables).
func (t *TAGE) Table(i int) *GlobalHistory {
	return t.tables[i]
}

// Base returns the bimodal base table T0.
func (t *TAGE) Base() *Bimodal {
	return t.base
}

// StoredTag returns the tag held at index of tagged table i.
func (t *TAGE) StoredTag(i int, index uint64) uint128.Uint128 {
	return t.tags[i][index]
}
