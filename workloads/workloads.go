// Package workloads provides synthetic branch workloads and a harness that
// runs predictor configurations over them.
package workloads

import (
	"math/rand/v2"

	"github.com/sarchlab/bpsim/trace"
)

// Workload is a named, reproducible branch event stream.
type Workload struct {
	// Name identifies the workload
	Name string

	// Description explains which predictor behavior it exercises
	Description string

	// Events generates the stream. Every call returns the same events.
	Events func() []trace.Event
}

// All returns every built-in workload.
func All() []Workload {
	return []Workload{
		alwaysTaken(),
		neverTaken(),
		loop91(),
		alternating(),
		correlatedPair(),
		aliasingPair(),
		nestedLoops(),
	}
}

// Get returns the built-in workload with the given name.
func Get(name string) (Workload, bool) {
	for _, w := range All() {
		if w.Name == name {
			return w, true
		}
	}

	return Workload{}, false
}

const base = 0x400000

func taken(pc, target uint64) trace.Event {
	return trace.Event{PC: pc, Taken: true, Target: target, HasTarget: true}
}

func notTaken(pc, target uint64) trace.Event {
	return trace.Event{PC: pc, Taken: false, Target: target, HasTarget: true}
}

func branch(pc, target uint64, t bool) trace.Event {
	if t {
		return taken(pc, target)
	}
	return notTaken(pc, target)
}

func alwaysTaken() Workload {
	return Workload{
		Name:        "always_taken",
		Description: "1000 executions of one taken branch - warm-up cost",
		Events: func() []trace.Event {
			events := make([]trace.Event, 1000)
			for i := range events {
				events[i] = taken(base, base+0x100)
			}
			return events
		},
	}
}

func neverTaken() Workload {
	return Workload{
		Name:        "never_taken",
		Description: "1000 executions of one not-taken branch - initial bias",
		Events: func() []trace.Event {
			events := make([]trace.Event, 1000)
			for i := range events {
				events[i] = notTaken(base+0x10, base+0x200)
			}
			return events
		},
	}
}

func loop91() Workload {
	return Workload{
		Name:        "loop_9_1",
		Description: "100 trips of a 10-iteration loop back-edge - hysteresis",
		Events: func() []trace.Event {
			events := make([]trace.Event, 0, 1000)
			for trip := 0; trip < 100; trip++ {
				for i := 0; i < 10; i++ {
					events = append(events, branch(base+0x20, base+0x4, i != 9))
				}
			}
			return events
		},
	}
}

func alternating() Workload {
	return Workload{
		Name:        "alternating",
		Description: "one branch alternating T/N - needs one bit of history",
		Events: func() []trace.Event {
			events := make([]trace.Event, 1000)
			for i := range events {
				events[i] = branch(base+0x30, base+0x300, i%2 == 0)
			}
			return events
		},
	}
}

func correlatedPair() Workload {
	return Workload{
		Name:        "correlated_pair",
		Description: "a random branch followed by one repeating its outcome - global correlation",
		Events: func() []trace.Event {
			rng := rand.New(rand.NewPCG(1, 2))
			events := make([]trace.Event, 0, 1000)
			for i := 0; i < 500; i++ {
				t := rng.IntN(2) == 1
				events = append(events,
					branch(base+0x40, base+0x400, t),
					branch(base+0x44, base+0x440, t))
			}
			return events
		},
	}
}

func aliasingPair() Workload {
	// 1<<17 apart: the same entry of a 2^17-entry table.
	const stride = 1 << 17

	return Workload{
		Name:        "aliasing_pair",
		Description: "two opposite branches sharing a bimodal entry - destructive aliasing",
		Events: func() []trace.Event {
			events := make([]trace.Event, 0, 1000)
			for i := 0; i < 500; i++ {
				events = append(events,
					taken(base+0x50, base+0x500),
					notTaken(base+0x50+stride, base+0x600))
			}
			return events
		},
	}
}

func nestedLoops() Workload {
	return Workload{
		Name:        "nested_loops",
		Description: "4-trip inner loop inside a 10-trip outer loop, repeated 20 times",
		Events: func() []trace.Event {
			var events []trace.Event
			for rep := 0; rep < 20; rep++ {
				for outer := 0; outer < 10; outer++ {
					for inner := 0; inner < 4; inner++ {
						events = append(events, branch(base+0x60, base+0x58, inner != 3))
					}
					events = append(events, branch(base+0x68, base+0x54, outer != 9))
				}
			}
			return events
		},
	}
}
