package driver_test

import (
	"bytes"
	"errors"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/bpsim/driver"
	"github.com/sarchlab/bpsim/predictor"
	"github.com/sarchlab/bpsim/trace"
)

// failingSource yields its events and then a fixed error.
type failingSource struct {
	events []trace.Event
	err    error
}

func (s *failingSource) Next() (trace.Event, error) {
	if len(s.events) == 0 {
		return trace.Event{}, s.err
	}
	ev := s.events[0]
	s.events = s.events[1:]
	return ev, nil
}

// loopEvents returns n events at pc following a 9-taken, 1-not-taken loop.
func loopEvents(pc uint64, n int) []trace.Event {
	events := make([]trace.Event, n)
	for i := range events {
		events[i] = trace.Event{PC: pc, Taken: i%10 != 9}
	}
	return events
}

var _ = Describe("Driver", func() {
	var d *driver.Driver

	BeforeEach(func() {
		d = driver.NewDriver(predictor.NewBimodal(4, 2))
	})

	Describe("Tallies", func() {
		It("should start empty", func() {
			stats := d.Stats()
			Expect(stats.Total()).To(BeZero())
			Expect(stats.Precision()).To(BeZero())
		})

		It("should classify each of the four outcomes", func() {
			// Counter at 2: predicts taken
			d.Step(0x1, true)  // taken correct, counter 3
			d.Step(0x1, false) // taken incorrect, counter 2
			d.Step(0x1, false) // taken incorrect, counter 1
			d.Step(0x1, false) // not-taken correct, counter 0
			d.Step(0x1, true)  // not-taken incorrect, counter 1

			stats := d.Stats()
			Expect(stats.TakenCorrect).To(Equal(uint64(1)))
			Expect(stats.TakenIncorrect).To(Equal(uint64(2)))
			Expect(stats.NotTakenCorrect).To(Equal(uint64(1)))
			Expect(stats.NotTakenIncorrect).To(Equal(uint64(1)))
			Expect(stats.Total()).To(Equal(uint64(5)))
			Expect(stats.Correct()).To(Equal(uint64(2)))
			Expect(stats.Mispredictions()).To(Equal(uint64(3)))
			Expect(stats.Precision()).To(BeNumerically("~", 40.0, 0.001))
		})

		It("should reproduce the exact tally of a 9-taken-1-not-taken loop", func() {
			// Counter trajectory: 2,3,3,...,3 (N) 2,3,...,3 (N) 2
			Expect(d.Run(trace.NewSliceSource(loopEvents(0x10, 20)))).To(Succeed())

			stats := d.Stats()
			Expect(stats.TakenCorrect).To(Equal(uint64(18)))
			Expect(stats.TakenIncorrect).To(Equal(uint64(2)))
			Expect(stats.NotTakenCorrect).To(BeZero())
			Expect(stats.NotTakenIncorrect).To(BeZero())
			Expect(stats.Precision()).To(BeNumerically("~", 90.0, 0.001))
		})

		It("should clear tallies but keep the learned state", func() {
			d.Step(0x1, false)
			d.Step(0x1, false)
			d.ResetStats()
			Expect(d.Stats().Total()).To(BeZero())

			// Counter stays at 0: predicts not taken
			Expect(d.Step(0x1, false)).To(BeFalse())
		})
	})

	Describe("Run", func() {
		It("should process events in order until io.EOF", func() {
			events := []trace.Event{
				{PC: 0x1, Taken: false},
				{PC: 0x1, Taken: false},
				{PC: 0x1, Taken: false},
			}
			Expect(d.Run(trace.NewSliceSource(events))).To(Succeed())
			Expect(d.Stats().TakenIncorrect).To(Equal(uint64(1)))
			Expect(d.Stats().NotTakenCorrect).To(Equal(uint64(2)))
		})

		It("should abort on a source error", func() {
			boom := errors.New("instrumentation failed")
			src := &failingSource{
				events: []trace.Event{{PC: 0x1, Taken: true}},
				err:    boom,
			}

			err := d.Run(src)
			Expect(err).To(MatchError(boom))
			Expect(err.Error()).To(ContainSubstring("event 2"))
			Expect(d.Stats().Total()).To(Equal(uint64(1)))
		})

		It("should stop at a malformed trace line", func() {
			r := trace.NewReader(strings.NewReader("0x1 T\nbogus\n0x1 T\n"))
			err := d.Run(r)
			Expect(errors.Is(err, trace.ErrSyntax)).To(BeTrue())
			Expect(d.Stats().Total()).To(Equal(uint64(1)))
		})
	})

	Describe("Tournament convergence", func() {
		It("should approach 100% on an always-taken branch", func() {
			tp := predictor.NewTournament(
				predictor.NewBimodal(4, 2),
				predictor.NewGlobalHistory(1, 1, 2, predictor.HashXOR),
				2)
			d = driver.NewDriver(tp)

			for i := 0; i < 1000; i++ {
				d.Step(0x100, true)
			}

			Expect(d.Stats().Precision()).To(BeNumerically(">", 99.0))
		})
	})

	Describe("Logger", func() {
		It("should write one line per event", func() {
			var buf bytes.Buffer
			d = driver.NewDriver(predictor.NewBimodal(4, 2), driver.WithLogger(&buf))
			d.Step(0x10, true)
			d.Step(0x10, false)

			lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
			Expect(lines).To(HaveLen(2))
			Expect(lines[0]).To(Equal("pc=0x10 taken=true predicted=true"))
		})
	})
})
