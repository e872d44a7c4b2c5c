package stream

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/matt-g-everett/cardtx/reveal"
)

// ErrInvalidProgress is returned for progress payloads that are not a
// finite number.
var ErrInvalidProgress = errors.New("invalid progress")

type progressMessage struct {
	Progress *float64 `json:"progress"`
}

// ParseProgress decodes a progress payload. Accepted forms are a plain
// number ("0.35"), a percentage ("35%") and JSON ({"progress":0.35}).
// The value is not clamped.
func ParseProgress(payload []byte) (float64, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 {
		return 0, fmt.Errorf("%w: empty payload", ErrInvalidProgress)
	}

	var v float64
	if trimmed[0] == '{' {
		var msg progressMessage
		if err := json.Unmarshal(trimmed, &msg); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrInvalidProgress, err)
		}
		if msg.Progress == nil {
			return 0, fmt.Errorf("%w: missing progress field", ErrInvalidProgress)
		}
		v = *msg.Progress
	} else {
		s := string(trimmed)
		percent := strings.HasSuffix(s, "%")
		s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
		var err error
		if v, err = strconv.ParseFloat(s, 64); err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidProgress, trimmed)
		}
		if percent {
			v /= 100
		}
	}

	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %v", ErrInvalidProgress, v)
	}
	return v, nil
}

// ScrollProgress converts a scroll position inside a pinned region into
// progress. The region is pinned for one viewport height per card, so
// scrolled/(cards*viewport) is clamped to [0,1].
func ScrollProgress(scrolled, viewport float64, cards int) float64 {
	if cards <= 0 || !(viewport > 0) {
		return 0
	}
	return reveal.Clamp01(scrolled / (viewport * float64(cards)))
}
