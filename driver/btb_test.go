package driver_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/bpsim/driver"
	"github.com/sarchlab/bpsim/predictor"
	"github.com/sarchlab/bpsim/trace"
)

var _ = Describe("BTB", func() {
	var btb *driver.BTB

	BeforeEach(func() {
		btb = driver.NewBTB(driver.BTBConfig{Sets: 1, Associativity: 2})
	})

	It("should fill zero config fields with defaults", func() {
		b := driver.NewBTB(driver.BTBConfig{})
		Expect(b.Entries()).To(Equal(512))
	})

	It("should miss when empty", func() {
		_, hit := btb.Lookup(0x1000)
		Expect(hit).To(BeFalse())
	})

	It("should return the inserted target", func() {
		btb.Insert(0x1000, 0x2000)

		target, hit := btb.Lookup(0x1000)
		Expect(hit).To(BeTrue())
		Expect(target).To(Equal(uint64(0x2000)))
	})

	It("should overwrite the target of a resident branch", func() {
		btb.Insert(0x1000, 0x2000)
		btb.Insert(0x1000, 0x3000)

		target, hit := btb.Lookup(0x1000)
		Expect(hit).To(BeTrue())
		Expect(target).To(Equal(uint64(0x3000)))
	})

	It("should evict the least recently used entry of a full set", func() {
		btb.Insert(0x1000, 0xa)
		btb.Insert(0x2000, 0xb)

		// Touch 0x1000 so 0x2000 becomes the LRU way.
		_, hit := btb.Lookup(0x1000)
		Expect(hit).To(BeTrue())

		btb.Insert(0x3000, 0xc)

		_, hit = btb.Lookup(0x2000)
		Expect(hit).To(BeFalse())
		target, hit := btb.Lookup(0x1000)
		Expect(hit).To(BeTrue())
		Expect(target).To(Equal(uint64(0xa)))
		target, hit = btb.Lookup(0x3000)
		Expect(hit).To(BeTrue())
		Expect(target).To(Equal(uint64(0xc)))
	})

	It("should forget everything on reset", func() {
		btb.Insert(0x1000, 0x2000)
		btb.Reset()

		_, hit := btb.Lookup(0x1000)
		Expect(hit).To(BeFalse())
	})

	Describe("in the driver", func() {
		It("should count hits and misses of taken branches with targets", func() {
			d := driver.NewDriver(predictor.NewBimodal(4, 2),
				driver.WithBTB(driver.BTBConfig{Sets: 4, Associativity: 2}))
			events := []trace.Event{
				{PC: 0x10, Taken: true, Target: 0x40, HasTarget: true},
				{PC: 0x10, Taken: true, Target: 0x40, HasTarget: true},
				{PC: 0x10, Taken: false, Target: 0x40, HasTarget: true},
				{PC: 0x10, Taken: true},
				{PC: 0x10, Taken: true, Target: 0x80, HasTarget: true},
				{PC: 0x10, Taken: true, Target: 0x80, HasTarget: true},
			}

			Expect(d.Run(trace.NewSliceSource(events))).To(Succeed())

			stats := d.Stats()
			Expect(stats.BTBHits).To(Equal(uint64(2)))
			Expect(stats.BTBMisses).To(Equal(uint64(2)))
			Expect(stats.BTBHitRate()).To(BeNumerically("~", 50.0, 1e-9))
			Expect(d.BTB()).NotTo(BeNil())
		})

		It("should leave BTB counters at zero without a BTB", func() {
			d := driver.NewDriver(predictor.NewBimodal(4, 2))
			d.StepEvent(trace.Event{PC: 0x10, Taken: true, Target: 0x40, HasTarget: true})

			Expect(d.Stats().BTBHits + d.Stats().BTBMisses).To(BeZero())
			Expect(d.BTB()).To(BeNil())
		})
	})
})
