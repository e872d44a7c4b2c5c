package stream

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/matt-g-everett/cardtx/config"
	"github.com/matt-g-everett/cardtx/reveal"
)

// ErrDestroyed is returned when pushing progress to a closed sequence.
var ErrDestroyed = errors.New("sequence destroyed")

const tickBuffer = 64

// A Sequence drives one pinned stack of cards: progress pushed in is
// applied in order on a single goroutine and the resulting frames are
// handed to its renderers.
type Sequence struct {
	name      string
	cfg       config.Sequence
	log       *slog.Logger
	timeline  *reveal.Timeline
	renderers []Renderer

	mu      sync.Mutex
	palette *Palette
	seq     uint64
	last    *Frame

	ticks     chan float64
	done      chan struct{}
	stopped   chan struct{}
	startOnce sync.Once
	closeOnce sync.Once
	started   bool
}

// NewSequence builds a sequence from its configuration. It does not start
// processing ticks until Start is called.
func NewSequence(cfg config.Sequence, log *slog.Logger, renderers ...Renderer) (*Sequence, error) {
	if log == nil {
		log = slog.Default()
	}

	var ease reveal.Easing
	var err error
	if cfg.LutSize > 0 {
		ease, err = reveal.SampledEasing(cfg.Easing, cfg.LutSize)
	} else {
		ease, err = reveal.EasingByName(cfg.Easing)
	}
	if err != nil {
		return nil, fmt.Errorf("sequence %q: %w", cfg.Name, err)
	}

	timeline, err := reveal.Configure(cfg.Cards,
		reveal.WithOffsetMax(cfg.OffsetMax),
		reveal.WithScaleMin(cfg.ScaleMin),
		reveal.WithEasing(ease))
	if err != nil {
		return nil, fmt.Errorf("sequence %q: %w", cfg.Name, err)
	}

	palette, err := NewPalette(cfg.Palette, cfg.Background, cfg.Cards)
	if err != nil {
		return nil, fmt.Errorf("sequence %q: %w", cfg.Name, err)
	}

	return &Sequence{
		name:      cfg.Name,
		cfg:       cfg,
		log:       log.With("sequence", cfg.Name),
		timeline:  timeline,
		renderers: renderers,
		palette:   palette,
		ticks:     make(chan float64, tickBuffer),
		done:      make(chan struct{}),
		stopped:   make(chan struct{}),
	}, nil
}

// Name returns the sequence name.
func (s *Sequence) Name() string {
	return s.name
}

// Len returns the current number of cards.
func (s *Sequence) Len() int {
	return s.timeline.Len()
}

// Start launches the tick goroutine. Calling it more than once has no
// further effect.
func (s *Sequence) Start() {
	s.startOnce.Do(func() {
		s.mu.Lock()
		s.started = true
		s.mu.Unlock()
		go s.run()
	})
}

func (s *Sequence) run() {
	defer close(s.stopped)
	for {
		select {
		case <-s.done:
			return
		case p := <-s.ticks:
			s.apply(p)
		}
	}
}

// Push queues a progress value. Values are applied in the order they are
// pushed; Push blocks while the queue is full.
func (s *Sequence) Push(ctx context.Context, progress float64) error {
	select {
	case <-s.done:
		return ErrDestroyed
	default:
	}

	select {
	case s.ticks <- progress:
		return nil
	case <-s.done:
		return ErrDestroyed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Sequence) apply(progress float64) {
	s.mu.Lock()
	tick, ok := s.timeline.Tick(progress)
	if !ok {
		s.mu.Unlock()
		return
	}
	if len(tick.Changed) == 0 && !s.cfg.PublishUnchanged {
		s.mu.Unlock()
		return
	}
	s.seq++
	f := NewFrame(s.name, s.seq, tick, s.palette)
	s.last = f
	s.mu.Unlock()

	s.log.Debug("frame", "seq", f.Seq, "progress", f.Progress, "changed", len(f.Changed))
	for _, r := range s.renderers {
		if err := r.Render(f); err != nil {
			s.log.Warn("render failed", "seq", f.Seq, "error", err)
		}
	}
}

// Frame computes the frame for progress without recording it or calling
// the renderers.
func (s *Sequence) Frame(progress float64) *Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	tick := reveal.Tick{
		Progress: reveal.Clamp01(progress),
		States:   s.timeline.States(progress),
	}
	return NewFrame(s.name, s.seq, tick, s.palette)
}

// Last returns the most recently rendered frame, or nil before the first.
func (s *Sequence) Last() *Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// Resize changes the number of cards. The next frame reports every card as
// changed.
func (s *Sequence) Resize(n int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.timeline.Reconfigure(n); err != nil {
		return fmt.Errorf("sequence %q: %w", s.name, err)
	}
	s.palette.Resize(n)
	s.cfg.Cards = n
	s.log.Info("resized", "cards", n)
	return nil
}

// Close destroys the timeline and stops the tick goroutine. No renderer is
// called for this sequence once Close returns.
func (s *Sequence) Close() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.timeline.Destroy()
		started := s.started
		s.mu.Unlock()

		close(s.done)
		if started {
			<-s.stopped
		}
	})
}
