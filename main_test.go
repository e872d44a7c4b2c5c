package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matt-g-everett/cardtx/reveal"
	"github.com/matt-g-everett/cardtx/stream"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestStatesCommandCSV(t *testing.T) {
	out, err := runCLI(t, "states", "--progress", "0.3")
	if err != nil {
		t.Fatalf("states: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 7 {
		t.Fatalf("expected header and 6 rows, got %d:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "Progress,Card,Phase") {
		t.Errorf("unexpected header %q", lines[0])
	}
	if !strings.HasPrefix(lines[3], "0.300,2,revealing,150.0,0.500,0.950,8,") {
		t.Errorf("unexpected revealing row %q", lines[3])
	}
	if !strings.HasPrefix(lines[5], "0.300,4,pending,300.0,0.000,0.900,2,") {
		t.Errorf("unexpected pending row %q", lines[5])
	}
}

func TestStatesCommandJSON(t *testing.T) {
	out, err := runCLI(t, "states", "-n", "3", "-p", "0,0.5,1", "--json")
	if err != nil {
		t.Fatalf("states: %v", err)
	}
	var frames []stream.Frame
	if err := json.Unmarshal([]byte(out), &frames); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if len(frames) != 3 || len(frames[0].Cards) != 3 {
		t.Fatalf("unexpected frames %+v", frames)
	}
	if !frames[2].Cards[2].Revealed() {
		t.Errorf("last card should be revealed at progress 1, got %+v", frames[2].Cards[2])
	}
}

func TestStatesCommandNegativeCards(t *testing.T) {
	_, err := runCLI(t, "states", "--cards", "-1")
	if !errors.Is(err, reveal.ErrInvalidCount) {
		t.Errorf("expected ErrInvalidCount, got %v", err)
	}
}

func TestStatesCommandUnknownSequence(t *testing.T) {
	_, err := runCLI(t, "states", "--sequence", "nope")
	if !errors.Is(err, stream.ErrUnknownSequence) {
		t.Errorf("expected ErrUnknownSequence, got %v", err)
	}
}

func TestConfigShowUsesConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cardtx.yaml")
	content := "sequences:\n  - name: team\n    cards: 3\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	out, err := runCLI(t, "--config", path, "config", "show", "--format", "toml")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(out, "name = 'team'") && !strings.Contains(out, `name = "team"`) {
		t.Errorf("expected the team sequence in output:\n%s", out)
	}
}

func TestBadConfigFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cardtx.ini")
	if err := os.WriteFile(path, []byte("x=1"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := runCLI(t, "--config", path, "states"); err == nil {
		t.Error("expected unsupported config format to fail")
	}
}
