package reveal

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/fogleman/ease"
	"github.com/matt-g-everett/cardtx/util"
)

// Easing reshapes a linear parameter in [0,1]. Implementations must be
// monotonic with Easing(0) == 0 and Easing(1) == 1.
type Easing func(t float64) float64

// Linear is the identity easing.
func Linear(t float64) float64 { return t }

// Lerp interpolates between a and b.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Clamp01 limits v to [0,1]. NaN clamps to 0.
func Clamp01(v float64) float64 {
	if !(v > 0) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Overshooting curves (back, elastic, bounce) leave [0,1] and are not listed.
var easings = map[string]Easing{
	"linear":     Linear,
	"inquad":     ease.InQuad,
	"outquad":    ease.OutQuad,
	"inoutquad":  ease.InOutQuad,
	"incubic":    ease.InCubic,
	"outcubic":   ease.OutCubic,
	"inoutcubic": ease.InOutCubic,
	"inquart":    ease.InQuart,
	"outquart":   ease.OutQuart,
	"inoutquart": ease.InOutQuart,
	"inquint":    ease.InQuint,
	"outquint":   ease.OutQuint,
	"inoutquint": ease.InOutQuint,
	"insine":     ease.InSine,
	"outsine":    ease.OutSine,
	"inoutsine":  ease.InOutSine,
	"incirc":     ease.InCirc,
	"outcirc":    ease.OutCirc,
	"inoutcirc":  ease.InOutCirc,
}

// EasingNames lists the names accepted by EasingByName.
func EasingNames() []string {
	names := make([]string, 0, len(easings))
	for name := range easings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// EasingByName resolves a curve name such as "outCubic" or "in-out-quad".
// An empty name is linear.
func EasingByName(name string) (Easing, error) {
	_, e, err := lookupEasing(name)
	return e, err
}

func lookupEasing(name string) (string, Easing, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.NewReplacer("-", "", "_", "", ".", "").Replace(key)
	if key == "" {
		key = "linear"
	}
	if e, ok := easings[key]; ok {
		return key, e, nil
	}
	return "", nil, fmt.Errorf("unknown easing %q", name)
}

var luts util.Memoizer

// SampledEasing returns the named curve read through a shared look-up
// table of size entries. Names are resolved as by EasingByName, so
// "outCubic" and "out-cubic" share one table. The endpoints are forced to
// exactly 0 and 1.
func SampledEasing(name string, size int) (Easing, error) {
	key, fn, err := lookupEasing(name)
	if err != nil {
		return nil, err
	}
	lut := luts.Lut(key, size, func(t float64) float64 {
		switch t {
		case 0:
			return 0
		case 1:
			return 1
		}
		return Clamp01(fn(t))
	})
	return func(t float64) float64 {
		return util.SampleLut(lut, t)
	}, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
