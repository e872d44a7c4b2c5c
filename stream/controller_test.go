package stream

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/matt-g-everett/cardtx/config"
)

func TestControllerCreateAndPush(t *testing.T) {
	rec := newRecorder()
	c := NewController(quietLogger(), rec)
	defer c.Close()

	h, err := c.Create(testSequenceConfig("services", 6))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if h == uuid.Nil {
		t.Fatal("expected a non-nil handle")
	}
	if got, ok := c.Handle("services"); !ok || got != h {
		t.Errorf("Handle lookup mismatch: %v %v", got, ok)
	}

	if err := c.Push(context.Background(), "services", 0.3); err != nil {
		t.Fatalf("Push: %v", err)
	}
	frames := rec.waitFrames(t, 1)
	if frames[0].Sequence != "services" {
		t.Errorf("unexpected sequence %q", frames[0].Sequence)
	}
}

func TestControllerRejectsDuplicateNames(t *testing.T) {
	c := NewController(quietLogger())
	defer c.Close()

	if _, err := c.Create(testSequenceConfig("services", 3)); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := c.Create(testSequenceConfig("services", 4)); !errors.Is(err, ErrDuplicateSequence) {
		t.Errorf("expected ErrDuplicateSequence, got %v", err)
	}
}

func TestControllerDestroy(t *testing.T) {
	rec := newRecorder()
	c := NewController(quietLogger(), rec)
	defer c.Close()

	h, _ := c.Create(testSequenceConfig("services", 3))
	if err := c.Destroy(h); err != nil {
		t.Fatalf("Destroy: %v", err)
	}
	if err := c.Destroy(h); !errors.Is(err, ErrUnknownSequence) {
		t.Errorf("second destroy: expected ErrUnknownSequence, got %v", err)
	}
	if err := c.Push(context.Background(), "services", 0.5); !errors.Is(err, ErrUnknownSequence) {
		t.Errorf("push after destroy: expected ErrUnknownSequence, got %v", err)
	}
	if len(c.Names()) != 0 {
		t.Errorf("expected no live sequences, got %v", c.Names())
	}

	// The name is free again once destroyed.
	if _, err := c.Create(testSequenceConfig("services", 3)); err != nil {
		t.Errorf("recreate: %v", err)
	}
}

func TestControllerCreateAllRollsBack(t *testing.T) {
	c := NewController(quietLogger())
	defer c.Close()

	bad := testSequenceConfig("broken", 2)
	bad.Background = "not a colour"
	_, err := c.CreateAll([]config.Sequence{
		testSequenceConfig("a", 2),
		testSequenceConfig("b", 2),
		bad,
	})
	if err == nil {
		t.Fatal("expected CreateAll to fail")
	}
	if names := c.Names(); len(names) != 0 {
		t.Errorf("expected created sequences to be destroyed, got %v", names)
	}
}

func TestControllerNamesSorted(t *testing.T) {
	c := NewController(quietLogger())
	defer c.Close()

	if _, err := c.CreateAll([]config.Sequence{
		testSequenceConfig("team", 2),
		testSequenceConfig("about", 2),
		testSequenceConfig("services", 2),
	}); err != nil {
		t.Fatalf("CreateAll: %v", err)
	}
	names := c.Names()
	want := []string{"about", "services", "team"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, names)
		}
	}
}

func TestControllerExtraRenderers(t *testing.T) {
	shared := newRecorder()
	own := newRecorder()
	c := NewController(quietLogger(), shared)
	defer c.Close()

	if _, err := c.Create(testSequenceConfig("services", 3), own); err != nil {
		t.Fatalf("Create: %v", err)
	}
	_ = c.Push(context.Background(), "services", 0.5)
	shared.waitFrames(t, 1)
	own.waitFrames(t, 1)
}
