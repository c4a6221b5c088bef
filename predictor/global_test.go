package predictor_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"lukechampine.com/uint128"

	"github.com/sarchlab/bpsim/predictor"
)

var _ = Describe("GlobalHistory", func() {
	var gh *predictor.GlobalHistory

	BeforeEach(func() {
		gh = predictor.NewGlobalHistory(4, 4, 2, predictor.HashXOR)
	})

	It("should initially predict taken", func() {
		Expect(gh.Predict(0x1000)).To(BeTrue())
		Expect(gh.History().IsZero()).To(BeTrue())
		Expect(gh.HistoryWidth()).To(Equal(uint(4)))
	})

	It("should shift the actual outcome into the history", func() {
		pc := uint64(0x1000)

		gh.Update(true, true, pc)   // history: 0001
		gh.Update(false, true, pc)  // history: 0010
		gh.Update(true, false, pc)  // history: 0101
		gh.Update(false, false, pc) // history: 1010

		Expect(gh.History()).To(Equal(uint128.From64(0b1010)))
	})

	It("should train the entry selected by the pre-update history", func() {
		pc := uint64(0x3)

		// History stays 0 while the outcome is not-taken: entry 3 goes to 0
		gh.Update(false, true, pc)
		gh.Update(false, false, pc)
		Expect(gh.Index(pc)).To(Equal(uint64(3)))
		Expect(gh.Counter(pc).Value()).To(Equal(uint8(0)))

		// Entry 3 is trained with history 0, then the history becomes 1
		gh.Update(true, false, pc)
		Expect(gh.Index(pc)).To(Equal(uint64(2)))
		Expect(gh.Counter(pc).Value()).To(Equal(uint8(2)))

		// 0x2 ^ 1 reaches entry 3 under the new history
		Expect(gh.Counter(0x2).Value()).To(Equal(uint8(1)))
	})

	It("should index by hash(address, history) truncated to the table size", func() {
		gh.Update(true, true, 0) // history 1
		gh.Update(true, true, 0) // history 3
		Expect(gh.Index(0xF0)).To(Equal(uint64(0x3)))
		Expect(gh.Index(0x15)).To(Equal(uint64(0x6)))
		Expect(gh.Tag(0x15)).To(Equal(uint128.From64(0x6)))
	})

	It("should learn an alternating pattern that a bimodal table cannot", func() {
		pc := uint64(0x40)
		correct := 0

		for i := 0; i < 200; i++ {
			taken := i%2 == 0
			pred := gh.Predict(pc)
			if i >= 100 && pred == taken {
				correct++
			}
			gh.Update(taken, pred, pc)
		}

		Expect(correct).To(Equal(100))
	})

	It("should reset a counter to the weakly-taken value", func() {
		pc := uint64(0x9)
		gh.Update(false, true, pc)
		gh.Update(false, true, pc) // history 00, entry 9 at 0

		Expect(gh.Counter(pc).Value()).To(Equal(uint8(0)))
		gh.ResetCounter(pc)
		Expect(gh.Counter(pc).Value()).To(Equal(uint8(2)))
	})
})
