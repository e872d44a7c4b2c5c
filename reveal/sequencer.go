package reveal

const (
	// DefaultOffsetMax is the displacement of a card that has not started
	// revealing.
	DefaultOffsetMax = 300.0
	// DefaultScaleMin is the scale of a card that has not started revealing.
	DefaultScaleMin = 0.9
)

// A Sequencer computes card states from progress. It holds no state of its
// own, so one value may be shared freely.
type Sequencer struct {
	OffsetMax float64
	ScaleMin  float64
	// Ease shapes each card's reveal. Nil means Linear.
	Ease Easing
}

// DefaultSequencer returns a Sequencer with linear easing and the default
// offset and scale.
func DefaultSequencer() Sequencer {
	return Sequencer{
		OffsetMax: DefaultOffsetMax,
		ScaleMin:  DefaultScaleMin,
		Ease:      Linear,
	}
}

// ComputeState is Sequencer.State on the default Sequencer.
func ComputeState(progress float64, index, n int) AnimationState {
	return DefaultSequencer().State(progress, index, n)
}

// SegmentDuration is the width of the progress interval each card after
// the first spends revealing. It is 0 when there are fewer than two cards.
func SegmentDuration(n int) float64 {
	if n < 2 {
		return 0
	}
	return 1 / float64(n-1)
}

// State returns the state of card index out of n at progress.
//
// Card i >= 1 reveals over [(i-1)*d, i*d) where d is SegmentDuration(n);
// the lower bound is
// inclusive and the upper bound belongs to the settled state. Card 0 is
// shown from the start and never animates. Progress outside [0,1] is
// clamped, as is index outside [0,n).
func (s Sequencer) State(progress float64, index, n int) AnimationState {
	if n <= 1 {
		return AnimationState{Opacity: 1, Scale: 1, Phase: PhaseSettled}
	}

	progress = Clamp01(progress)
	if index < 0 {
		index = 0
	} else if index >= n {
		index = n - 1
	}

	if index == 0 {
		return AnimationState{Opacity: 1, Scale: 1, StackOrder: n, Phase: PhaseSettled}
	}

	d := SegmentDuration(n)
	start := float64(index-1) * d
	end := float64(index) * d

	switch {
	case progress < start:
		return AnimationState{
			Offset:     s.OffsetMax,
			Opacity:    0,
			Scale:      s.ScaleMin,
			StackOrder: n - index,
			Phase:      PhasePending,
		}
	case progress < end:
		t := s.ease(Clamp01((progress - start) / d))
		return AnimationState{
			Offset:     Lerp(s.OffsetMax, 0, t),
			Opacity:    t,
			Scale:      Lerp(s.ScaleMin, 1, t),
			StackOrder: n + index,
			Phase:      PhaseRevealing,
		}
	default:
		return AnimationState{Opacity: 1, Scale: 1, StackOrder: n + index, Phase: PhaseSettled}
	}
}

// States returns the state of every card out of n at progress.
func (s Sequencer) States(progress float64, n int) []AnimationState {
	if n <= 0 {
		return nil
	}
	states := make([]AnimationState, n)
	for i := range states {
		states[i] = s.State(progress, i, n)
	}
	return states
}

func (s Sequencer) ease(t float64) float64 {
	if s.Ease == nil {
		return t
	}
	return Clamp01(s.Ease(t))
}
