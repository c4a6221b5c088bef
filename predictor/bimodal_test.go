package predictor_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/bpsim/predictor"
)

var _ = Describe("Bimodal", func() {
	var bp *predictor.Bimodal

	BeforeEach(func() {
		bp = predictor.NewBimodal(4, 2)
	})

	It("should have 2^log2Entries counters", func() {
		Expect(bp.Entries()).To(Equal(16))
	})

	It("should initially predict taken (biased)", func() {
		Expect(bp.Predict(0x1000)).To(BeTrue())
	})

	It("should require 2 mispredictions to change direction", func() {
		pc := uint64(0x1000)

		// Saturate up
		bp.Update(true, true, pc)
		bp.Update(true, true, pc)
		bp.Update(true, true, pc)
		Expect(bp.Counter(pc).Value()).To(Equal(uint8(3)))

		// One not-taken -> still predicts taken (at 2)
		bp.Update(false, true, pc)
		Expect(bp.Predict(pc)).To(BeTrue())

		// Another not-taken -> now predicts not taken (at 1)
		bp.Update(false, true, pc)
		Expect(bp.Predict(pc)).To(BeFalse())
	})

	It("should train on the outcome regardless of the prediction", func() {
		pc := uint64(0x20)
		bp.Update(false, false, pc)
		bp.Update(false, true, pc)
		Expect(bp.Counter(pc).Value()).To(Equal(uint8(0)))
	})

	It("should alias addresses that share the low index bits", func() {
		pc1 := uint64(0x13)
		pc2 := uint64(0x7F3) // same low 4 bits

		bp.Update(false, true, pc1)
		bp.Update(false, true, pc1)
		Expect(bp.Predict(pc2)).To(BeFalse())

		bp.Update(true, false, pc2)
		bp.Update(true, false, pc2)
		Expect(bp.Predict(pc1)).To(BeTrue())
		Expect(bp.Counter(pc1)).To(Equal(bp.Counter(pc2)))
	})

	It("should keep addresses with different index bits apart", func() {
		bp.Update(false, true, 0x10)
		bp.Update(false, true, 0x10)
		Expect(bp.Predict(0x10)).To(BeFalse())
		Expect(bp.Predict(0x11)).To(BeTrue())
	})

	It("should follow the counter trajectory of a 9-taken-1-not-taken loop", func() {
		pc := uint64(0x10)
		var takenCorrect, takenIncorrect int

		for i := 0; i < 20; i++ {
			taken := i%10 != 9
			pred := bp.Predict(pc)
			Expect(pred).To(BeTrue())
			if taken {
				takenCorrect++
			} else {
				takenIncorrect++
			}
			bp.Update(taken, pred, pc)
		}

		Expect(takenCorrect).To(Equal(18))
		Expect(takenIncorrect).To(Equal(2))
		Expect(bp.Counter(pc).Value()).To(Equal(uint8(2)))
	})
})
