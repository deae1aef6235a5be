package engine

// Pass is one stage of the pipeline. It reads the previous pass's frame and
// writes a new one. The base pass ignores its input.
type Pass interface {
	Name() string
	Render(in, out *Frame) error

	// RenderToScreen reports whether this pass's output goes to the target
	RenderToScreen() bool
	SetRenderToScreen(enabled bool)

	// SetSize is called when the output size changes
	SetSize(width, height int)

	// Dispose releases per-pass buffers
	Dispose()
}

// Effect is an image transformation that can be bound into an EffectPass
type Effect interface {
	Name() string
	// Apply reads src and writes every pixel of dst. src and dst differ.
	Apply(src, dst *Frame)
}

// frameUpdater is implemented by effects that must advance state exactly
// once per frame, right before they are applied
type frameUpdater interface {
	BeforeRender()
}

// passBase carries the bookkeeping shared by every pass
type passBase struct {
	name           string
	renderToScreen bool
}

func (p *passBase) Name() string                   { return p.name }
func (p *passBase) RenderToScreen() bool           { return p.renderToScreen }
func (p *passBase) SetRenderToScreen(enabled bool) { p.renderToScreen = enabled }

// EffectPass applies one or more effects in order. Merging effects into one
// pass keeps their order, so the output equals running them as separate passes.
type EffectPass struct {
	passBase
	effects []Effect
	scratch *Frame
}

// NewEffectPass creates a full-screen pass running effects in the given order
func NewEffectPass(name string, effects ...Effect) *EffectPass {
	return &EffectPass{
		passBase: passBase{name: name},
		effects:  effects,
	}
}

// Effects returns the bound effects in application order
func (p *EffectPass) Effects() []Effect {
	return p.effects
}

// BeforeRender lets stateful effects advance once for the coming frame
func (p *EffectPass) BeforeRender() {
	for _, e := range p.effects {
		if u, ok := e.(frameUpdater); ok {
			u.BeforeRender()
		}
	}
}

// Render implements Pass
func (p *EffectPass) Render(in, out *Frame) error {
	if len(p.effects) == 0 {
		out.CopyFrom(in)
		return nil
	}

	p.effects[0].Apply(in, out)
	for _, e := range p.effects[1:] {
		if p.scratch == nil || p.scratch.Width() != out.Width() || p.scratch.Height() != out.Height() {
			p.scratch = NewFrame(out.Width(), out.Height())
		}
		p.scratch.CopyFrom(out)
		e.Apply(p.scratch, out)
	}
	return nil
}

// SetSize implements Pass
func (p *EffectPass) SetSize(width, height int) {
	p.scratch = nil
}

// Dispose implements Pass
func (p *EffectPass) Dispose() {
	p.scratch = nil
}
