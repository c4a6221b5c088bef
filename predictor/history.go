package predictor

import (
	"lukechampine.com/uint128"
)

// ShiftRegister records the most recent branch outcomes, newest in bit 0.
//
// Width must be below 128; the register is backed by a 128-bit integer.
type ShiftRegister struct {
	width uint
	value uint128.Uint128
}

// NewShiftRegister creates an all-zero register of the given width.
func NewShiftRegister(width uint) *ShiftRegister {
	return &ShiftRegister{width: width}
}

// ShiftIn pushes one outcome into the low end of the register and returns
// the bit that fell off the top.
func (r *ShiftRegister) ShiftIn(bit bool) bool {
	if r.width == 0 {
		return bit
	}

	evicted := r.value.Rsh(r.width-1).Lo&1 == 1

	r.value = r.value.Lsh(1)
	if bit {
		r.value.Lo |= 1
	}
	r.value = truncate(r.value, r.width)

	return evicted
}

// Value returns the current history bits.
func (r *ShiftRegister) Value() uint128.Uint128 {
	return r.value
}

// Width returns the number of outcomes the register holds.
func (r *ShiftRegister) Width() uint {
	return r.width
}
