package stream

// A Renderer applies frames to some output. Render is called from a
// sequence's tick goroutine, one frame at a time, in tick order.
type Renderer interface {
	Render(f *Frame) error
}

// RendererFunc adapts a function to a Renderer.
type RendererFunc func(f *Frame) error

// Render calls fn(f).
func (fn RendererFunc) Render(f *Frame) error {
	return fn(f)
}
