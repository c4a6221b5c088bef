// Package driver runs branch events through a predictor and tallies the
// outcomes.
//
// The driver is the single owner of the predictor and its statistics. Events
// are processed strictly one at a time in the order they are delivered; each
// is an uninterrupted predict-then-update pair.
package driver

import (
	"errors"
	"fmt"
	"io"

	"github.com/sarchlab/bpsim/predictor"
	"github.com/sarchlab/bpsim/trace"
)

// Source delivers branch events in program order. Next returns io.EOF when
// no events remain.
type Source interface {
	Next() (trace.Event, error)
}

// Option is a functional option for configuring the Driver.
type Option func(*Driver)

// WithBTB attaches a branch target buffer. Taken events that carry a target
// are looked up in and then recorded into it.
func WithBTB(config BTBConfig) Option {
	return func(d *Driver) {
		d.btb = NewBTB(config)
	}
}

// WithLogger writes one line per simulated event to w.
func WithLogger(w io.Writer) Option {
	return func(d *Driver) {
		d.log = w
	}
}

// Driver feeds events to a predictor.
type Driver struct {
	bp    predictor.Predictor
	btb   *BTB
	log   io.Writer
	stats Stats
}

// NewDriver creates a driver that owns bp.
func NewDriver(bp predictor.Predictor, opts ...Option) *Driver {
	d := &Driver{bp: bp}
	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Step simulates one branch: predict, train with the actual outcome, and
// tally. It returns the prediction.
func (d *Driver) Step(pc uint64, taken bool) bool {
	predicted := d.bp.Predict(pc)
	d.bp.Update(taken, predicted, pc)
	d.stats.record(predicted, taken)

	if d.log != nil {
		_, _ = fmt.Fprintf(d.log, "pc=0x%x taken=%t predicted=%t\n",
			pc, taken, predicted)
	}

	return predicted
}

// StepEvent simulates one event, including the BTB when one is attached.
func (d *Driver) StepEvent(ev trace.Event) bool {
	predicted := d.Step(ev.PC, ev.Taken)

	if d.btb != nil && ev.Taken && ev.HasTarget {
		target, hit := d.btb.Lookup(ev.PC)
		if hit && target == ev.Target {
			d.stats.BTBHits++
		} else {
			d.stats.BTBMisses++
		}
		d.btb.Insert(ev.PC, ev.Target)
	}

	return predicted
}

// Run drains src. It stops at io.EOF and returns nil, or at the first
// source error, which it returns.
func (d *Driver) Run(src Source) error {
	for {
		ev, err := src.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("event %d: %w", d.stats.Total()+1, err)
		}

		d.StepEvent(ev)
	}
}

// Stats returns the tallies so far.
func (d *Driver) Stats() Stats {
	return d.stats
}

// ResetStats clears the tallies. Predictor and BTB state are kept.
func (d *Driver) ResetStats() {
	d.stats = Stats{}
}

// Predictor returns the simulated predictor.
func (d *Driver) Predictor() predictor.Predictor {
	return d.bp
}

// BTB returns the attached branch target buffer, or nil.
func (d *Driver) BTB() *BTB {
	return d.btb
}
