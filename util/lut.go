package util

import (
	"sync"
)

const minLutLength = 2

// GenerateLut samples fn at length evenly spaced points across [0,1]. The
// first and last entries are always fn(0) and fn(1).
func GenerateLut(length int, fn func(float64) float64) []float64 {
	if length < minLutLength {
		length = minLutLength
	}

	increment := 1.0 / float64(length-1)
	lut := make([]float64, length)
	for i := 0; i < length-1; i++ {
		lut[i] = fn(float64(i) * increment)
	}
	lut[length-1] = fn(1.0)

	return lut
}

// SampleLut reads the table at t, interpolating linearly between the two
// nearest entries. t is clamped to [0,1].
func SampleLut(lut []float64, t float64) float64 {
	n := len(lut)
	switch {
	case n == 0:
		return t
	case n == 1:
		return lut[0]
	}

	if !(t > 0) {
		return lut[0]
	}
	if t >= 1 {
		return lut[n-1]
	}

	pos := t * float64(n-1)
	i := int(pos)
	frac := pos - float64(i)
	return lut[i] + (lut[i+1]-lut[i])*frac
}

type lutKey struct {
	name   string
	length int
}

// Memoizer shares generated tables between callers asking for the same
// named curve at the same resolution. The zero value is ready to use.
type Memoizer struct {
	mu   sync.Mutex
	luts map[lutKey][]float64
}

// Lut returns the cached table for name and length, generating it from fn
// on first use. Callers must not modify the returned slice.
func (m *Memoizer) Lut(name string, length int, fn func(float64) float64) []float64 {
	if length < minLutLength {
		length = minLutLength
	}
	key := lutKey{name, length}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.luts == nil {
		m.luts = make(map[lutKey][]float64)
	}
	if lut, ok := m.luts[key]; ok {
		return lut
	}

	lut := GenerateLut(length, fn)
	m.luts[key] = lut
	return lut
}

// Len reports how many tables are cached.
func (m *Memoizer) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.luts)
}
