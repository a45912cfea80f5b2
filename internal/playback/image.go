package playback

import (
	"fmt"
	"image"

	xdraw "golang.org/x/image/draw"

	"frameweave/internal/sequencer"
	"frameweave/internal/source"
)

// ImageEngine is a concrete playback backend that mixes clip frames as
// pixels: every active input's frame is scaled to the canvas and accumulated
// by blend weight. It drives offline exports and doubles as the reference
// implementation of the Graph contract.
type ImageEngine struct {
	Width  int
	Height int

	last *imageGraph
}

func (e *ImageEngine) NewGraph(inputs int) (sequencer.Graph, error) {
	if e.Width <= 0 || e.Height <= 0 {
		return nil, fmt.Errorf("invalid canvas size %dx%d", e.Width, e.Height)
	}
	bounds := image.Rect(0, 0, e.Width, e.Height)
	g := &imageGraph{
		canvas:  image.NewRGBA(bounds),
		scratch: image.NewRGBA(bounds),
		inputs:  make([]graphInput, inputs),
		valid:   true,
	}
	e.last = g
	return g, nil
}

// Frame returns the canvas of the most recently created graph, nil before
// the first NewGraph. Exports read composited frames through this.
func (e *ImageEngine) Frame() *image.RGBA {
	if e.last == nil {
		return nil
	}
	return e.last.Frame()
}

type graphInput struct {
	clip    source.Clip
	weight  float64
	seconds float64
}

type imageGraph struct {
	canvas  *image.RGBA
	scratch *image.RGBA
	inputs  []graphInput
	valid   bool
}

func (g *imageGraph) Connect(input int, clip source.Clip) error {
	if input < 0 || input >= len(g.inputs) {
		return fmt.Errorf("input %d out of range (graph has %d)", input, len(g.inputs))
	}
	g.inputs[input].clip = clip
	return nil
}

func (g *imageGraph) SetWeight(input int, weight float64) {
	if input < 0 || input >= len(g.inputs) {
		return
	}
	g.inputs[input].weight = weight
}

func (g *imageGraph) SetTime(input int, seconds float64) {
	if input < 0 || input >= len(g.inputs) {
		return
	}
	g.inputs[input].seconds = seconds
}

// Evaluate composites all weighted inputs into the canvas. Inputs whose clip
// cannot produce a frame simply contribute nothing, matching the silence
// behavior of unresolved bindings.
func (g *imageGraph) Evaluate() {
	if !g.valid {
		return
	}

	pix := g.canvas.Pix
	for i := range pix {
		pix[i] = 0
	}

	for i := range g.inputs {
		in := &g.inputs[i]
		if in.clip == nil || in.weight <= 0 {
			continue
		}
		frame, err := in.clip.FrameAt(in.seconds)
		if err != nil || frame == nil {
			continue
		}
		xdraw.ApproxBiLinear.Scale(g.scratch, g.scratch.Bounds(), frame, frame.Bounds(), xdraw.Src, nil)
		accumulate(pix, g.scratch.Pix, in.weight)
	}

	// Opaque output regardless of accumulated alpha
	for i := 3; i < len(pix); i += 4 {
		pix[i] = 0xff
	}
}

func (g *imageGraph) Valid() bool { return g.valid }

// Destroy invalidates the graph. A pixel canvas has no prior animation
// configuration to restore, so release is the whole job.
func (g *imageGraph) Destroy() {
	g.valid = false
}

// Frame returns the last evaluated canvas. The buffer is reused between
// evaluations; callers keeping a frame must copy it.
func (g *imageGraph) Frame() *image.RGBA { return g.canvas }

func accumulate(dst, src []uint8, weight float64) {
	for i := range dst {
		v := uint16(dst[i]) + uint16(weight*float64(src[i])+0.5)
		if v > 0xff {
			v = 0xff
		}
		dst[i] = uint8(v)
	}
}
