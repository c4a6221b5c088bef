// Package predictor implements branch direction predictors: saturating
// counters, history shift registers, hash-indexed tables, and the bimodal,
// global-history, tournament and TAGE predictor variants built from them.
//
// All predictors are single-threaded state machines. The caller must issue
// Predict and Update for one branch event as an uninterrupted pair, in
// program order.
package predictor

// SaturatingCounter is an n-bit up/down counter that clamps at both ends.
//
// The counter starts at 2^(n-1), the weakest taken state. Width must satisfy
// 1 <= width < 8; wider counters do not fit the uint8 storage and are not
// checked.
type SaturatingCounter struct {
	width     uint
	value     uint8
	initValue uint8
}

// NewSaturatingCounter creates a counter of the given bit width at its
// weakly-taken initial value.
func NewSaturatingCounter(width uint) SaturatingCounter {
	initial := uint8(1<<width) / 2

	return SaturatingCounter{
		width:     width,
		value:     initial,
		initValue: initial,
	}
}

func newCounterTable(log2Entries, width uint) []SaturatingCounter {
	table := make([]SaturatingCounter, 1<<log2Entries)
	for i := range table {
		table[i] = NewSaturatingCounter(width)
	}

	return table
}

func (c SaturatingCounter) max() uint8 {
	return uint8(1<<c.width - 1)
}

// Increase adds one unless the counter is saturated.
func (c *SaturatingCounter) Increase() {
	if c.value < c.max() {
		c.value++
	}
}

// Decrease subtracts one unless the counter is zero.
func (c *SaturatingCounter) Decrease() {
	if c.value > 0 {
		c.value--
	}
}

// Train moves the counter one step toward the given outcome.
func (c *SaturatingCounter) Train(taken bool) {
	if taken {
		c.Increase()
	} else {
		c.Decrease()
	}
}

// Reset restores the weakly-taken initial value.
func (c *SaturatingCounter) Reset() {
	c.value = c.initValue
}

// IsTaken reports whether the counter sits in the upper half of its range.
func (c SaturatingCounter) IsTaken() bool {
	return c.value > uint8(1<<c.width)/2-1
}

// Value returns the raw counter state.
func (c SaturatingCounter) Value() uint8 {
	return c.value
}

// Width returns the counter width in bits.
func (c SaturatingCounter) Width() uint {
	return c.width
}
