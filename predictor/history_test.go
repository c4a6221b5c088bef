package predictor_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"lukechampine.com/uint128"

	"github.com/sarchlab/bpsim/predictor"
)

var _ = Describe("ShiftRegister", func() {
	It("should start empty", func() {
		r := predictor.NewShiftRegister(8)
		Expect(r.Value().IsZero()).To(BeTrue())
		Expect(r.Width()).To(Equal(uint(8)))
	})

	It("should hold the last W bits with the newest in bit 0", func() {
		r := predictor.NewShiftRegister(4)
		// Older bits fall out of the window
		for _, b := range []bool{true, true, false, true, true, false} {
			r.ShiftIn(b)
		}
		// Window holds 0,1,1,0 (oldest first) -> 0b0110
		Expect(r.Value()).To(Equal(uint128.From64(0b0110)))
	})

	It("should return the evicted top bit", func() {
		r := predictor.NewShiftRegister(3)
		Expect(r.ShiftIn(true)).To(BeFalse())  // 001
		Expect(r.ShiftIn(false)).To(BeFalse()) // 010
		Expect(r.ShiftIn(false)).To(BeFalse()) // 100
		Expect(r.ShiftIn(false)).To(BeTrue())  // 000, top 1 evicted
		Expect(r.Value().IsZero()).To(BeTrue())
	})

	It("should span both words for wide histories", func() {
		r := predictor.NewShiftRegister(100)
		for i := 0; i < 100; i++ {
			r.ShiftIn(true)
		}
		Expect(r.Value().Lo).To(Equal(^uint64(0)))
		Expect(r.Value().Hi).To(Equal(uint64(1)<<36 - 1))

		// The oldest bit leaves at position 99
		Expect(r.ShiftIn(false)).To(BeTrue())
		Expect(r.Value().Lo).To(Equal(^uint64(0) - 1))
		Expect(r.Value().Hi).To(Equal(uint64(1)<<36 - 1))
	})

	It("should equal the integer formed by any W fed bits", func() {
		const width = 10
		r := predictor.NewShiftRegister(width)
		bits := []bool{true, false, false, true, true, true, false, true, false, true}

		var want uint64
		for _, b := range bits {
			r.ShiftIn(b)
			want <<= 1
			if b {
				want |= 1
			}
		}
		Expect(r.Value()).To(Equal(uint128.From64(want)))
	})
})
