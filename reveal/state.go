package reveal

import "fmt"

// Phase identifies which part of its segment a card is in.
type Phase uint8

const (
	PhasePending Phase = iota
	PhaseRevealing
	PhaseSettled
)

func (p Phase) String() string {
	switch p {
	case PhasePending:
		return "pending"
	case PhaseRevealing:
		return "revealing"
	case PhaseSettled:
		return "settled"
	}
	return fmt.Sprintf("Phase(%d)", uint8(p))
}

// AnimationState is the visual state of one card for one progress value.
// Offset is the downward displacement, StackOrder the paint priority
// (higher paints on top).
type AnimationState struct {
	Offset     float64 `json:"offset"`
	Opacity    float64 `json:"opacity"`
	Scale      float64 `json:"scale"`
	StackOrder int     `json:"stackOrder"`
	Phase      Phase   `json:"phase"`
}

// Revealed reports whether the card is fully visible and in place.
func (s AnimationState) Revealed() bool {
	return s.Offset == 0 && s.Opacity == 1 && s.Scale == 1
}

// MarshalText encodes the phase by name.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText decodes a phase name.
func (p *Phase) UnmarshalText(text []byte) error {
	switch string(text) {
	case "pending":
		*p = PhasePending
	case "revealing":
		*p = PhaseRevealing
	case "settled":
		*p = PhaseSettled
	default:
		return fmt.Errorf("unknown phase %q", text)
	}
	return nil
}
