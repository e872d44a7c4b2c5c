package stream

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/matt-g-everett/cardtx/reveal"
)

const (
	frameHeaderSize = 2 + 8 + 4
	cardSize        = 4 + 4 + 4 + 4 + 1 + 3
)

// ErrShortFrame is returned when binary frame data is truncated.
var ErrShortFrame = errors.New("short frame")

// Card is one card's state within a Frame, with the colour it should be
// painted.
type Card struct {
	Index int `json:"index"`
	reveal.AnimationState
	Colour colorful.Color `json:"-"`
	Hex    string         `json:"colour"`
}

// Frame represents the state of every card in a sequence for one tick.
type Frame struct {
	Sequence string  `json:"sequence"`
	Seq      uint64  `json:"seq"`
	Progress float64 `json:"progress"`
	Cards    []Card  `json:"cards"`
	// Changed lists the cards whose state differs from the previous frame.
	Changed []int `json:"changed"`
}

// NewFrame creates a Frame from a timeline tick, colouring each card from
// the palette.
func NewFrame(sequence string, seq uint64, tick reveal.Tick, palette *Palette) *Frame {
	f := &Frame{
		Sequence: sequence,
		Seq:      seq,
		Progress: tick.Progress,
		Cards:    make([]Card, len(tick.States)),
		Changed:  tick.Changed,
	}
	for i, s := range tick.States {
		c := palette.Tint(i, s.Opacity)
		f.Cards[i] = Card{Index: i, AnimationState: s, Colour: c, Hex: c.Hex()}
	}
	return f
}

// PaintOrder returns card indices from the bottom of the stack to the top.
func (f *Frame) PaintOrder() []int {
	order := make([]int, len(f.Cards))
	for i := range order {
		order[i] = i
	}
	// Insertion sort, stable for equal stack orders; stacks are small.
	for i := 1; i < len(order); i++ {
		for j := i; j > 0 && f.Cards[order[j-1]].StackOrder > f.Cards[order[j]].StackOrder; j-- {
			order[j-1], order[j] = order[j], order[j-1]
		}
	}
	return order
}

// MarshalBinary converts a Frame into little endian binary data. The
// sequence name is not included; it travels in the topic.
func (f *Frame) MarshalBinary() (data []byte, err error) {
	if len(f.Cards) > math.MaxUint16 {
		return nil, fmt.Errorf("frame has %d cards, limit %d", len(f.Cards), math.MaxUint16)
	}

	size := frameHeaderSize + len(f.Cards)*cardSize + 2 + 2*len(f.Changed)
	data = make([]byte, 0, size)
	data = binary.LittleEndian.AppendUint16(data, uint16(len(f.Cards)))
	data = binary.LittleEndian.AppendUint64(data, f.Seq)
	data = binary.LittleEndian.AppendUint32(data, math.Float32bits(float32(f.Progress)))
	for _, c := range f.Cards {
		data = binary.LittleEndian.AppendUint32(data, math.Float32bits(float32(c.Offset)))
		data = binary.LittleEndian.AppendUint32(data, math.Float32bits(float32(c.Opacity)))
		data = binary.LittleEndian.AppendUint32(data, math.Float32bits(float32(c.Scale)))
		data = binary.LittleEndian.AppendUint32(data, uint32(int32(c.StackOrder)))
		r, g, b := c.Colour.Clamped().RGB255()
		data = append(data, byte(c.Phase), r, g, b)
	}
	data = binary.LittleEndian.AppendUint16(data, uint16(len(f.Changed)))
	for _, i := range f.Changed {
		data = binary.LittleEndian.AppendUint16(data, uint16(i))
	}

	return data, nil
}

// UnmarshalBinary decodes data produced by MarshalBinary. Values come back
// at float32 precision.
func (f *Frame) UnmarshalBinary(data []byte) error {
	if len(data) < frameHeaderSize {
		return ErrShortFrame
	}
	count := int(binary.LittleEndian.Uint16(data))
	f.Seq = binary.LittleEndian.Uint64(data[2:])
	f.Progress = float64(math.Float32frombits(binary.LittleEndian.Uint32(data[10:])))
	data = data[frameHeaderSize:]

	if len(data) < count*cardSize+2 {
		return ErrShortFrame
	}
	f.Cards = make([]Card, count)
	for i := range f.Cards {
		c := &f.Cards[i]
		c.Index = i
		c.Offset = float64(math.Float32frombits(binary.LittleEndian.Uint32(data)))
		c.Opacity = float64(math.Float32frombits(binary.LittleEndian.Uint32(data[4:])))
		c.Scale = float64(math.Float32frombits(binary.LittleEndian.Uint32(data[8:])))
		c.StackOrder = int(int32(binary.LittleEndian.Uint32(data[12:])))
		c.Phase = reveal.Phase(data[16])
		c.Colour = colorful.Color{
			R: float64(data[17]) / 255.0,
			G: float64(data[18]) / 255.0,
			B: float64(data[19]) / 255.0,
		}
		c.Hex = c.Colour.Hex()
		data = data[cardSize:]
	}

	changed := int(binary.LittleEndian.Uint16(data))
	data = data[2:]
	if len(data) < 2*changed {
		return ErrShortFrame
	}
	f.Changed = make([]int, changed)
	for i := range f.Changed {
		f.Changed[i] = int(binary.LittleEndian.Uint16(data[2*i:]))
	}

	return nil
}
