package reveal

import (
	"errors"
	"fmt"
	"sync"
)

// ErrInvalidCount is matched by a ConfigurationError for a count below one.
var ErrInvalidCount = errors.New("invalid item count")

// ErrInvalidParameter is matched by a ConfigurationError for a non-finite
// offset or scale.
var ErrInvalidParameter = errors.New("invalid sequencer parameter")

// A ConfigurationError reports a Timeline that cannot be built.
type ConfigurationError struct {
	Field string
	Value float64
	err   error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("reveal: %s: %s = %v", e.err, e.Field, e.Value)
}

func (e *ConfigurationError) Unwrap() error {
	return e.err
}

// An Option adjusts the Sequencer a Timeline is built with.
type Option func(*Sequencer)

// WithSequencer replaces the whole Sequencer.
func WithSequencer(s Sequencer) Option {
	return func(dst *Sequencer) { *dst = s }
}

func WithOffsetMax(offset float64) Option {
	return func(s *Sequencer) { s.OffsetMax = offset }
}

func WithScaleMin(scale float64) Option {
	return func(s *Sequencer) { s.ScaleMin = scale }
}

func WithEasing(e Easing) Option {
	return func(s *Sequencer) { s.Ease = e }
}

// Tick is the result of one progress update.
type Tick struct {
	Progress float64
	States   []AnimationState
	// Changed lists the indices whose state differs from the previous tick,
	// in ascending order. Every index is listed on the first tick and on the
	// first tick after Reconfigure.
	Changed []int
}

// A Timeline owns a fixed number of cards and the last states emitted for
// them. It is safe for concurrent use.
type Timeline struct {
	mu        sync.Mutex
	seq       Sequencer
	n         int
	last      []AnimationState
	primed    bool
	destroyed bool
}

// Configure builds a Timeline for n cards. An n below one, or a non-finite
// offset or scale, returns a *ConfigurationError.
func Configure(n int, opts ...Option) (*Timeline, error) {
	seq := DefaultSequencer()
	for _, opt := range opts {
		opt(&seq)
	}
	if err := checkCount(n); err != nil {
		return nil, err
	}
	if !finite(seq.OffsetMax) {
		return nil, &ConfigurationError{Field: "offset max", Value: seq.OffsetMax, err: ErrInvalidParameter}
	}
	if !finite(seq.ScaleMin) {
		return nil, &ConfigurationError{Field: "scale min", Value: seq.ScaleMin, err: ErrInvalidParameter}
	}
	if seq.Ease == nil {
		seq.Ease = Linear
	}

	return &Timeline{
		seq:  seq,
		n:    n,
		last: make([]AnimationState, n),
	}, nil
}

func checkCount(n int) error {
	if n < 1 {
		return &ConfigurationError{Field: "count", Value: float64(n), err: ErrInvalidCount}
	}
	return nil
}

// Len returns the number of cards.
func (t *Timeline) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.n
}

// SegmentDuration returns the progress width of one card's reveal.
func (t *Timeline) SegmentDuration() float64 {
	return SegmentDuration(t.Len())
}

// Sequencer returns the Sequencer the timeline computes states with.
func (t *Timeline) Sequencer() Sequencer {
	return t.seq
}

// State computes the state of one card without touching the change cache.
func (t *Timeline) State(progress float64, index int) AnimationState {
	return t.seq.State(progress, index, t.Len())
}

// States computes every card's state without touching the change cache.
func (t *Timeline) States(progress float64) []AnimationState {
	return t.seq.States(progress, t.Len())
}

// Tick computes every card's state at progress and records it as the last
// emitted value. ok is false once the timeline has been destroyed, in which
// case nothing is computed.
func (t *Timeline) Tick(progress float64) (tick Tick, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.destroyed {
		return Tick{}, false
	}

	tick.Progress = Clamp01(progress)
	tick.States = t.seq.States(tick.Progress, t.n)
	tick.Changed = make([]int, 0, t.n)
	for i, s := range tick.States {
		if !t.primed || s != t.last[i] {
			tick.Changed = append(tick.Changed, i)
		}
		t.last[i] = s
	}
	t.primed = true

	return tick, true
}

// Reconfigure changes the number of cards. The cached states are dropped,
// so the next Tick reports every card as changed.
func (t *Timeline) Reconfigure(n int) error {
	if err := checkCount(n); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.n = n
	t.last = make([]AnimationState, n)
	t.primed = false
	return nil
}

// Destroy releases the cached states. Later calls to Tick return ok=false.
func (t *Timeline) Destroy() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.destroyed = true
	t.last = nil
}

// Destroyed reports whether Destroy has been called.
func (t *Timeline) Destroyed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.destroyed
}
