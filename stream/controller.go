package stream

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/matt-g-everett/cardtx/config"
)

var (
	// ErrUnknownSequence is returned for names or handles with no live
	// sequence.
	ErrUnknownSequence = errors.New("unknown sequence")
	// ErrDuplicateSequence is returned when creating a second sequence with
	// a name already in use.
	ErrDuplicateSequence = errors.New("duplicate sequence")
)

// Controller owns the live sequences. Each one is created with a handle and
// lives until that handle is destroyed.
type Controller struct {
	log       *slog.Logger
	renderers []Renderer

	mu       sync.RWMutex
	byHandle map[uuid.UUID]*Sequence
	byName   map[string]uuid.UUID
}

// NewController creates an instance of a Controller. Every sequence it
// creates renders to the given renderers.
func NewController(log *slog.Logger, renderers ...Renderer) *Controller {
	if log == nil {
		log = slog.Default()
	}
	return &Controller{
		log:       log,
		renderers: renderers,
		byHandle:  make(map[uuid.UUID]*Sequence),
		byName:    make(map[string]uuid.UUID),
	}
}

// Create builds and starts a sequence, returning its handle.
func (c *Controller) Create(cfg config.Sequence, extra ...Renderer) (uuid.UUID, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.byName[cfg.Name]; ok {
		return uuid.Nil, fmt.Errorf("%w: %q", ErrDuplicateSequence, cfg.Name)
	}

	renderers := append(append([]Renderer(nil), c.renderers...), extra...)
	s, err := NewSequence(cfg, c.log, renderers...)
	if err != nil {
		return uuid.Nil, err
	}

	h := uuid.New()
	c.byHandle[h] = s
	c.byName[cfg.Name] = h
	s.Start()
	c.log.Info("sequence created", "sequence", cfg.Name, "handle", h, "cards", cfg.Cards)
	return h, nil
}

// CreateAll creates a sequence for every entry, destroying the ones
// already created if any fails.
func (c *Controller) CreateAll(cfgs []config.Sequence) ([]uuid.UUID, error) {
	handles := make([]uuid.UUID, 0, len(cfgs))
	for _, cfg := range cfgs {
		h, err := c.Create(cfg)
		if err != nil {
			for _, created := range handles {
				_ = c.Destroy(created)
			}
			return nil, err
		}
		handles = append(handles, h)
	}
	return handles, nil
}

// Destroy tears down the sequence behind h. Once it returns, no further
// frames are rendered for that sequence.
func (c *Controller) Destroy(h uuid.UUID) error {
	c.mu.Lock()
	s, ok := c.byHandle[h]
	if ok {
		delete(c.byHandle, h)
		delete(c.byName, s.Name())
	}
	c.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: handle %s", ErrUnknownSequence, h)
	}
	s.Close()
	c.log.Info("sequence destroyed", "sequence", s.Name(), "handle", h)
	return nil
}

// Lookup finds a live sequence by name.
func (c *Controller) Lookup(name string) (*Sequence, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	h, ok := c.byName[name]
	if !ok {
		return nil, false
	}
	return c.byHandle[h], true
}

// Handle returns the handle of a live sequence.
func (c *Controller) Handle(name string) (uuid.UUID, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	h, ok := c.byName[name]
	return h, ok
}

// Names lists the live sequences in sorted order.
func (c *Controller) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.byName))
	for name := range c.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Push queues progress for the named sequence.
func (c *Controller) Push(ctx context.Context, name string, progress float64) error {
	s, ok := c.Lookup(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSequence, name)
	}
	return s.Push(ctx, progress)
}

// Close destroys every live sequence.
func (c *Controller) Close() {
	c.mu.RLock()
	handles := make([]uuid.UUID, 0, len(c.byHandle))
	for h := range c.byHandle {
		handles = append(handles, h)
	}
	c.mu.RUnlock()

	for _, h := range handles {
		_ = c.Destroy(h)
	}
}
