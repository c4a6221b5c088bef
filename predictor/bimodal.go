package predictor

import (
	"lukechampine.com/uint128"
)

// Bimodal is a branch history table of saturating counters indexed by the
// low bits of the branch address. Addresses that share those bits share a
// counter.
type Bimodal struct {
	// Branch History Table (BHT)
	bht         []SaturatingCounter
	log2Entries uint
}

// NewBimodal creates a bimodal predictor with 2^log2Entries counters of the
// given width.
func NewBimodal(log2Entries, counterWidth uint) *Bimodal {
	return &Bimodal{
		bht:         newCounterTable(log2Entries, counterWidth),
		log2Entries: log2Entries,
	}
}

// bhtIndex computes the BHT index for a given address.
func (b *Bimodal) bhtIndex(addr uint64) uint64 {
	return tableIndex(uint128.From64(addr), b.log2Entries)
}

// Predict returns the direction of the counter the address maps to.
func (b *Bimodal) Predict(addr uint64) bool {
	return b.bht[b.bhtIndex(addr)].IsTaken()
}

// Update moves the counter toward the actual outcome. The prediction is not
// consulted.
func (b *Bimodal) Update(taken, _ bool, addr uint64) {
	b.bht[b.bhtIndex(addr)].Train(taken)
}

// Counter returns a copy of the counter the address maps to.
func (b *Bimodal) Counter(addr uint64) SaturatingCounter {
	return b.bht[b.bhtIndex(addr)]
}

// Entries returns the number of table entries.
func (b *Bimodal) Entries() int {
	return len(b.bht)
}
