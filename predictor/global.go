package predictor

import (
	"lukechampine.com/uint128"
)

// GlobalHistory is a gshare-style predictor: a global history register and a
// pattern history table indexed by hash(address, history).
//
// Besides standing alone it serves as a tagged component table of TAGE,
// which is why it exposes its history and per-entry reset.
type GlobalHistory struct {
	ghr         *ShiftRegister
	pht         []SaturatingCounter
	log2Entries uint
	hash        HashFunc
}

// NewGlobalHistory creates a predictor with a historyWidth-bit history
// register and 2^log2Entries counters of the given width.
func NewGlobalHistory(
	historyWidth, log2Entries, counterWidth uint,
	hash HashFunc,
) *GlobalHistory {
	return &GlobalHistory{
		ghr:         NewShiftRegister(historyWidth),
		pht:         newCounterTable(log2Entries, counterWidth),
		log2Entries: log2Entries,
		hash:        hash,
	}
}

func (g *GlobalHistory) hashAddr(addr uint64) uint128.Uint128 {
	return g.hash(uint128.From64(addr), g.ghr.Value())
}

// Index returns the table entry the address maps to under the current
// history.
func (g *GlobalHistory) Index(addr uint64) uint64 {
	return tableIndex(g.hashAddr(addr), g.log2Entries)
}

// Tag returns the index hash truncated to the table width. It equals Index;
// TAGE callers use it as the comparison key for this table.
func (g *GlobalHistory) Tag(addr uint64) uint128.Uint128 {
	return truncate(g.hashAddr(addr), g.log2Entries)
}

// History returns the current global history bits.
func (g *GlobalHistory) History() uint128.Uint128 {
	return g.ghr.Value()
}

// HistoryWidth returns the width of the history register.
func (g *GlobalHistory) HistoryWidth() uint {
	return g.ghr.Width()
}

// ResetCounter puts the entry the address maps to back into the weakly-taken
// state.
func (g *GlobalHistory) ResetCounter(addr uint64) {
	g.pht[g.Index(addr)].Reset()
}

// Counter returns a copy of the counter the address maps to.
func (g *GlobalHistory) Counter(addr uint64) SaturatingCounter {
	return g.pht[g.Index(addr)]
}

// Predict returns the direction of the indexed counter.
func (g *GlobalHistory) Predict(addr uint64) bool {
	return g.pht[g.Index(addr)].IsTaken()
}

// Update trains the counter selected by the pre-update history, then shifts
// the outcome into the history register.
func (g *GlobalHistory) Update(taken, _ bool, addr uint64) {
	g.pht[g.Index(addr)].Train(taken)
	g.ghr.ShiftIn(taken)
}
