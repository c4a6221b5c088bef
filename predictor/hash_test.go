package predictor_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"lukechampine.com/uint128"

	"github.com/sarchlab/bpsim/predictor"
)

var _ = Describe("Hash functions", func() {
	a := uint128.From64(0x400123)
	h := uint128.New(0xF0F0, 0x1)

	It("should XOR address and history", func() {
		Expect(predictor.HashXOR(a, h)).To(Equal(uint128.New(0x400123^0xF0F0, 0x1)))
	})

	It("should give the XOR value for inverted operands", func() {
		Expect(predictor.HashInvertedXOR(a, h)).To(Equal(predictor.HashXOR(a, h)))
	})

	It("should complement the XOR for XNOR", func() {
		x := predictor.HashXOR(a, h)
		n := predictor.HashXNOR(a, h)
		Expect(n.Lo).To(Equal(^x.Lo))
		Expect(n.Hi).To(Equal(^x.Hi))
	})

	It("should be deterministic", func() {
		for _, f := range []predictor.HashFunc{
			predictor.HashXOR, predictor.HashInvertedXOR, predictor.HashXNOR,
		} {
			Expect(f(a, h)).To(Equal(f(a, h)))
		}
	})
})
