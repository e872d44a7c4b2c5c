// Package preview draws a card sequence in the terminal and drives it from
// the keyboard and mouse wheel.
package preview

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/matt-g-everett/cardtx/reveal"
	"github.com/matt-g-everett/cardtx/stream"
)

const (
	// DefaultStep is the progress moved by one arrow key or wheel notch.
	DefaultStep = 0.02
	// DefaultUnitsPerRow converts card offsets into terminal rows.
	DefaultUnitsPerRow = 20.0

	pageSteps  = 10
	cardHeight = 5
	statusRows = 1
)

// A Source receives progress produced by input.
type Source interface {
	Push(ctx context.Context, progress float64) error
}

// Preview renders frames to a tcell screen and turns key and wheel input
// into progress.
type Preview struct {
	screen      tcell.Screen
	title       string
	step        float64
	unitsPerRow float64

	mu       sync.Mutex
	progress float64
	last     *stream.Frame
}

// New creates a Preview on an initialised screen.
func New(screen tcell.Screen, title string) *Preview {
	return &Preview{
		screen:      screen,
		title:       title,
		step:        DefaultStep,
		unitsPerRow: DefaultUnitsPerRow,
	}
}

// Progress returns the current input position.
func (p *Preview) Progress() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.progress
}

type action int

const (
	actionNone action = iota
	actionMove
	actionQuit
)

// key maps a key press to a progress change.
func (p *Preview) key(k tcell.Key, r rune) action {
	switch k {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return actionQuit
	case tcell.KeyUp:
		return p.move(-p.step)
	case tcell.KeyDown:
		return p.move(p.step)
	case tcell.KeyPgUp:
		return p.move(-p.step * pageSteps)
	case tcell.KeyPgDn:
		return p.move(p.step * pageSteps)
	case tcell.KeyHome:
		return p.set(0)
	case tcell.KeyEnd:
		return p.set(1)
	case tcell.KeyRune:
		switch r {
		case 'q':
			return actionQuit
		case 'k':
			return p.move(-p.step)
		case 'j':
			return p.move(p.step)
		case 'g':
			return p.set(0)
		case 'G':
			return p.set(1)
		}
	}
	return actionNone
}

// wheel maps mouse wheel buttons to a progress change.
func (p *Preview) wheel(buttons tcell.ButtonMask) action {
	switch {
	case buttons&tcell.WheelUp != 0:
		return p.move(-p.step)
	case buttons&tcell.WheelDown != 0:
		return p.move(p.step)
	}
	return actionNone
}

func (p *Preview) move(delta float64) action {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.setLocked(p.progress + delta)
}

func (p *Preview) set(v float64) action {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.setLocked(v)
}

func (p *Preview) setLocked(v float64) action {
	v = reveal.Clamp01(v)
	// Snap away float drift so the ends are reachable by stepping.
	v = math.Round(v*1e9) / 1e9
	if v == p.progress {
		return actionNone
	}
	p.progress = v
	return actionMove
}

// Run pushes input-driven progress to src until the user quits or ctx is
// cancelled. The initial position is pushed first.
func (p *Preview) Run(ctx context.Context, src Source) error {
	p.screen.EnableMouse()
	if err := src.Push(ctx, p.Progress()); err != nil {
		return err
	}

	events := make(chan tcell.Event, 100)
	done := make(chan struct{})
	defer close(done)
	go forwardEvents(p.screen.PollEvent, events, done)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			a := actionNone
			switch ev := ev.(type) {
			case *tcell.EventKey:
				a = p.key(ev.Key(), ev.Rune())
			case *tcell.EventMouse:
				a = p.wheel(ev.Buttons())
			case *tcell.EventResize:
				p.screen.Sync()
				p.redraw()
			}

			switch a {
			case actionQuit:
				return nil
			case actionMove:
				if err := src.Push(ctx, p.Progress()); err != nil {
					return err
				}
			}
		}
	}
}

// forwardEvents feeds polled events to events until poll returns nil or
// done is closed.
func forwardEvents(poll func() tcell.Event, events chan<- tcell.Event, done <-chan struct{}) {
	for {
		ev := poll()
		if ev == nil {
			close(events)
			return
		}
		select {
		case events <- ev:
		case <-done:
			return
		}
	}
}

func (p *Preview) redraw() {
	p.mu.Lock()
	f := p.last
	p.mu.Unlock()
	if f != nil {
		_ = p.Render(f)
	}
}

// Render draws the frame: cards bottom to top, then a status line.
func (p *Preview) Render(f *stream.Frame) error {
	p.mu.Lock()
	p.last = f
	p.mu.Unlock()

	s := p.screen
	w, h := s.Size()
	s.Clear()

	area := h - statusRows
	for _, i := range f.PaintOrder() {
		c := f.Cards[i]
		if c.Opacity <= 0 {
			continue
		}
		p.drawCard(c, w, area)
	}

	status := fmt.Sprintf(" %s  progress %.2f  frame %d  ↑/↓ PgUp/PgDn Home/End  q quit", p.title, f.Progress, f.Seq)
	p.drawText(0, h-1, w, status, tcell.StyleDefault.Reverse(true))

	s.Show()
	return nil
}

func (p *Preview) drawCard(c stream.Card, w, area int) {
	width := int(math.Round(float64(w-4) * c.Scale))
	if width < 4 {
		width = 4
	}
	x0 := (w - width) / 2
	y0 := (area-cardHeight)/2 + int(math.Round(c.Offset/p.unitsPerRow))

	bg := toTcell(c.Colour)
	style := tcell.StyleDefault.Background(bg).Foreground(tcell.ColorWhite)
	for y := y0; y < y0+cardHeight; y++ {
		if y < 0 || y >= area {
			continue
		}
		for x := x0; x < x0+width && x < w; x++ {
			p.screen.SetContent(x, y, ' ', nil, style)
		}
	}

	label := fmt.Sprintf("card %d  %s  z%d", c.Index+1, c.Phase, c.StackOrder)
	if y := y0 + cardHeight/2; y >= 0 && y < area {
		p.drawText(x0+2, y, x0+width, label, style.Bold(true))
	}
}

func (p *Preview) drawText(x, y, maxX int, text string, style tcell.Style) {
	for _, r := range text {
		if x >= maxX {
			return
		}
		p.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

func toTcell(c colorful.Color) tcell.Color {
	r, g, b := c.Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}
