package sequencer

import "frameweave/internal/source"

// Graph is the playback backend's mixing graph: one input per timeline
// binding, a weight and a local time per input, and a single synchronous
// Evaluate that samples the mix into the backend's output target.
//
// Destroy must restore whatever animation configuration the output target
// had before the graph was bound to it, and must tolerate being called on an
// already-destroyed graph.
type Graph interface {
	// Connect attaches a playable for the clip to the given input.
	Connect(input int, clip source.Clip) error

	// SetWeight sets an input's blend contribution, 0..1.
	SetWeight(input int, weight float64)

	// SetTime sets an input's local playback time in seconds.
	SetTime(input int, seconds float64)

	// Evaluate samples the graph once. No time advances implicitly; this is
	// a scrub tick, not playback.
	Evaluate()

	Valid() bool
	Destroy()
}

// Engine creates mixing graphs. Implemented by any concrete
// animation-sampling backend; the sequencer never inspects graph internals.
type Engine interface {
	NewGraph(inputs int) (Graph, error)
}
