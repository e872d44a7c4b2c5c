package preview

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/matt-g-everett/cardtx/reveal"
	"github.com/matt-g-everett/cardtx/stream"
)

func newTestScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("Failed to init screen: %v", err)
	}
	screen.SetSize(w, h)
	t.Cleanup(screen.Fini)
	return screen
}

func rowText(screen tcell.Screen, y, w int) string {
	var b strings.Builder
	for x := 0; x < w; x++ {
		mainc, _, _, _ := screen.GetContent(x, y)
		if mainc == 0 {
			mainc = ' '
		}
		b.WriteRune(mainc)
	}
	return b.String()
}

func testFrame(t *testing.T, progress float64) *stream.Frame {
	t.Helper()
	tl, err := reveal.Configure(4)
	if err != nil {
		t.Fatalf("Configure: %v", err)
	}
	tick, _ := tl.Tick(progress)
	palette, err := stream.NewPalette([]string{"#915EFF", "#7c3aed"}, "#050816", 4)
	if err != nil {
		t.Fatalf("NewPalette: %v", err)
	}
	return stream.NewFrame("services", 7, tick, palette)
}

func TestKeysMoveProgress(t *testing.T) {
	p := New(newTestScreen(t, 80, 24), "services")

	tests := []struct {
		name string
		key  tcell.Key
		r    rune
		want float64
		act  action
	}{
		{"up at start is a no-op", tcell.KeyUp, 0, 0, actionNone},
		{"down", tcell.KeyDown, 0, 0.02, actionMove},
		{"j", tcell.KeyRune, 'j', 0.04, actionMove},
		{"page down", tcell.KeyPgDn, 0, 0.24, actionMove},
		{"k", tcell.KeyRune, 'k', 0.22, actionMove},
		{"end", tcell.KeyEnd, 0, 1, actionMove},
		{"down at end is a no-op", tcell.KeyDown, 0, 1, actionNone},
		{"page up", tcell.KeyPgUp, 0, 0.8, actionMove},
		{"home", tcell.KeyHome, 0, 0, actionMove},
		{"G", tcell.KeyRune, 'G', 1, actionMove},
		{"unbound", tcell.KeyRune, 'x', 1, actionNone},
		{"quit", tcell.KeyRune, 'q', 1, actionQuit},
		{"escape", tcell.KeyEscape, 0, 1, actionQuit},
	}
	for _, tt := range tests {
		got := p.key(tt.key, tt.r)
		if got != tt.act {
			t.Errorf("%s: expected action %d, got %d", tt.name, tt.act, got)
		}
		if diff := p.Progress() - tt.want; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("%s: expected progress %v, got %v", tt.name, tt.want, p.Progress())
		}
	}
}

func TestWheelMovesProgress(t *testing.T) {
	p := New(newTestScreen(t, 80, 24), "services")

	if a := p.wheel(tcell.WheelDown); a != actionMove || p.Progress() != 0.02 {
		t.Errorf("wheel down: action %d progress %v", a, p.Progress())
	}
	if a := p.wheel(tcell.WheelUp); a != actionMove || p.Progress() != 0 {
		t.Errorf("wheel up: action %d progress %v", a, p.Progress())
	}
	if a := p.wheel(tcell.Button1); a != actionNone {
		t.Errorf("click should not move, got %d", a)
	}
}

func TestRenderDrawsCardsAndStatus(t *testing.T) {
	screen := newTestScreen(t, 60, 20)
	p := New(screen, "services")

	// 4 cards: at 0.5 card 2 is halfway in, card 3 is pending.
	if err := p.Render(testFrame(t, 0.5)); err != nil {
		t.Fatalf("Render: %v", err)
	}

	status := rowText(screen, 19, 60)
	if !strings.Contains(status, "progress 0.50") || !strings.Contains(status, "frame 7") {
		t.Errorf("unexpected status line %q", status)
	}

	var all strings.Builder
	for y := 0; y < 19; y++ {
		all.WriteString(rowText(screen, y, 60))
		all.WriteByte('\n')
	}
	screenText := all.String()
	if !strings.Contains(screenText, "card 3  revealing") {
		t.Errorf("expected the revealing card label on screen:\n%s", screenText)
	}
	if strings.Contains(screenText, "card 4") {
		t.Errorf("pending card should not be drawn:\n%s", screenText)
	}
}

type fakeSource struct {
	mu     sync.Mutex
	pushed []float64
}

func (s *fakeSource) Push(_ context.Context, progress float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pushed = append(s.pushed, progress)
	return nil
}

func TestRunPushesInitialProgressAndStopsOnCancel(t *testing.T) {
	p := New(newTestScreen(t, 80, 24), "services")
	src := &fakeSource{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := p.Run(ctx, src); err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(src.pushed) != 1 || src.pushed[0] != 0 {
		t.Errorf("expected the initial progress to be pushed, got %v", src.pushed)
	}
}

func TestForwardEventsStopsWhenDone(t *testing.T) {
	poll := func() tcell.Event {
		return tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModNone)
	}
	events := make(chan tcell.Event, 1)
	done := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		forwardEvents(poll, events, done)
		close(stopped)
	}()

	// Nobody reads events, so the forwarder blocks once the buffer is full.
	close(done)
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("forwarder did not stop after done was closed")
	}
}

func TestForwardEventsClosesOnNilEvent(t *testing.T) {
	events := make(chan tcell.Event, 1)
	forwardEvents(func() tcell.Event { return nil }, events, make(chan struct{}))
	if _, ok := <-events; ok {
		t.Error("expected events to be closed")
	}
}
