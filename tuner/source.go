package tuner

// Source supplies fixed-size analysis windows.
//
// Buffer returns the most recent window. The loop does not retain or modify
// it after the tick. Returning io.EOF ends the loop without error.
type Source interface {
	SampleRate() float64
	Buffer() ([]float64, error)
}

// Renderer presents one reading per tick.
type Renderer interface {
	Render(Reading) error
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(Reading) error

// Render calls f(r).
func (f RendererFunc) Render(r Reading) error {
	return f(r)
}
