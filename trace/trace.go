// Package trace defines branch events and a line-oriented text format for
// recording and replaying them.
//
// Each non-empty line holds one event:
//
//	<pc> <outcome> [target]
//
// pc and target are decimal or 0x-prefixed hexadecimal. outcome is T, N, 1
// or 0 (case-insensitive). Text after '#' is a comment.
package trace

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Event is one retired conditional branch.
type Event struct {
	// PC is the address of the branch instruction.
	PC uint64
	// Taken is the actual outcome.
	Taken bool
	// Target is the taken-path address; valid only when HasTarget is set.
	Target    uint64
	HasTarget bool
}

// ErrSyntax is wrapped by every ParseError caused by malformed text.
var ErrSyntax = errors.New("invalid trace syntax")

// ParseError reports a malformed trace line.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("trace line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Reader reads events from a text trace.
type Reader struct {
	scanner *bufio.Scanner
	line    int
}

// NewReader creates a Reader on r.
func NewReader(r io.Reader) *Reader {
	return &Reader{scanner: bufio.NewScanner(r)}
}

// Next returns the next event, or io.EOF once the input is exhausted.
func (r *Reader) Next() (Event, error) {
	for r.scanner.Scan() {
		r.line++

		text := r.scanner.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}

		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}

		ev, err := parseFields(fields)
		if err != nil {
			return Event{}, &ParseError{Line: r.line, Err: err}
		}

		return ev, nil
	}

	if err := r.scanner.Err(); err != nil {
		return Event{}, fmt.Errorf("failed to read trace: %w", err)
	}

	return Event{}, io.EOF
}

// ReadAll reads every remaining event.
func (r *Reader) ReadAll() ([]Event, error) {
	var events []Event
	for {
		ev, err := r.Next()
		if errors.Is(err, io.EOF) {
			return events, nil
		}
		if err != nil {
			return events, err
		}
		events = append(events, ev)
	}
}

func parseFields(fields []string) (Event, error) {
	if len(fields) < 2 || len(fields) > 3 {
		return Event{}, fmt.Errorf("%w: want 2 or 3 fields, got %d",
			ErrSyntax, len(fields))
	}

	var ev Event
	var err error

	ev.PC, err = parseAddr(fields[0])
	if err != nil {
		return Event{}, err
	}

	switch strings.ToUpper(fields[1]) {
	case "T", "1":
		ev.Taken = true
	case "N", "0":
		ev.Taken = false
	default:
		return Event{}, fmt.Errorf("%w: unknown outcome %q", ErrSyntax, fields[1])
	}

	if len(fields) == 3 {
		ev.Target, err = parseAddr(fields[2])
		if err != nil {
			return Event{}, err
		}
		ev.HasTarget = true
	}

	return ev, nil
}

func parseAddr(s string) (uint64, error) {
	// Base 0 accepts 0x, 0o and 0b prefixes as well as plain decimal.
	v, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad address %q", ErrSyntax, s)
	}

	return v, nil
}

// Writer writes events in the text trace format.
type Writer struct {
	w *bufio.Writer
}

// NewWriter creates a Writer on w. Call Flush when done.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// Write appends one event.
func (w *Writer) Write(ev Event) error {
	outcome := "N"
	if ev.Taken {
		outcome = "T"
	}

	var err error
	if ev.HasTarget {
		_, err = fmt.Fprintf(w.w, "0x%x %s 0x%x\n", ev.PC, outcome, ev.Target)
	} else {
		_, err = fmt.Fprintf(w.w, "0x%x %s\n", ev.PC, outcome)
	}
	if err != nil {
		return fmt.Errorf("failed to write trace event: %w", err)
	}

	return nil
}

// Flush writes any buffered events to the underlying writer.
func (w *Writer) Flush() error {
	if err := w.w.Flush(); err != nil {
		return fmt.Errorf("failed to flush trace: %w", err)
	}

	return nil
}

// SliceSource replays a fixed list of events.
type SliceSource struct {
	events []Event
	pos    int
}

// NewSliceSource creates a source over events.
func NewSliceSource(events []Event) *SliceSource {
	return &SliceSource{events: events}
}

// Next returns the next event or io.EOF.
func (s *SliceSource) Next() (Event, error) {
	if s.pos >= len(s.events) {
		return Event{}, io.EOF
	}

	ev := s.events[s.pos]
	s.pos++

	return ev, nil
}
