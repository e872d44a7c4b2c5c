package stream

import (
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/matt-g-everett/cardtx/config"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testSequenceConfig(name string, cards int) config.Sequence {
	cfg := config.Default().Sequences[0]
	cfg.Name = name
	cfg.Cards = cards
	return cfg
}

// recorder collects rendered frames.
type recorder struct {
	mu     sync.Mutex
	frames []*Frame
	notify chan struct{}
}

func newRecorder() *recorder {
	return &recorder{notify: make(chan struct{}, 1024)}
}

func (r *recorder) Render(f *Frame) error {
	r.mu.Lock()
	r.frames = append(r.frames, f)
	r.mu.Unlock()
	r.notify <- struct{}{}
	return nil
}

func (r *recorder) Frames() []*Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*Frame(nil), r.frames...)
}

// waitFrames blocks until n frames have been rendered.
func (r *recorder) waitFrames(t *testing.T, n int) []*Frame {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		if frames := r.Frames(); len(frames) >= n {
			return frames
		}
		select {
		case <-r.notify:
		case <-deadline:
			t.Fatalf("timed out waiting for %d frames, got %d", n, len(r.Frames()))
		}
	}
}
