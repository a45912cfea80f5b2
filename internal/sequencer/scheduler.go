package sequencer

import (
	"math"

	"frameweave/internal/timeline"
)

// pinEpsilon keeps a crossfade neighbor's local time just short of its clip
// end, so backends sampling half-open clip ranges still return the final pose.
const pinEpsilon = 0.01

// scheduler maps a global frame to per-binding local times and blend weights
// and pushes them to the graph. At most two bindings carry non-zero weight
// and those weights sum to 1.
type scheduler struct {
	bindings    []*timeline.Binding
	graph       Graph
	fps         int
	blendFrames int
	total       int
	weights     []float64
}

func newScheduler(bindings []*timeline.Binding, graph Graph, fps, blendFrames, total int) *scheduler {
	return &scheduler{
		bindings:    bindings,
		graph:       graph,
		fps:         fps,
		blendFrames: blendFrames,
		total:       total,
		weights:     make([]float64, len(bindings)),
	}
}

func (s *scheduler) applyFrame(frame int) {
	if s.total == 0 {
		return
	}
	if frame < 0 {
		frame = 0
	}
	if frame > s.total-1 {
		frame = s.total - 1
	}

	// Pass 1: clear every weight so nothing stale survives from the
	// previous frame.
	for i := range s.weights {
		s.weights[i] = 0
	}

	owner := -1
	for i, b := range s.bindings {
		if b.Contains(frame) {
			owner = i
			break
		}
	}

	if owner >= 0 {
		b := s.bindings[owner]
		localFrame := frame - b.StartFrame

		localTime := float64(localFrame) / float64(s.fps)
		if dur := b.Duration(); localTime > dur {
			localTime = dur
		}
		s.pushTime(owner, localTime)

		// Blend-start takes priority over blend-end for clips shorter than
		// two crossfade widths.
		switch {
		case owner > 0 && localFrame < s.blendFrames:
			ratio := float64(localFrame) / float64(s.blendFrames)
			s.weights[owner] = ratio
			s.weights[owner-1] = 1 - ratio
			// Hold the outgoing clip on its final pose
			s.pushTime(owner-1, math.Max(s.bindings[owner-1].Duration()-pinEpsilon, 0))
		case owner < len(s.bindings)-1 && localFrame > b.FrameCount-s.blendFrames:
			framesFromEnd := b.FrameCount - localFrame
			ratio := float64(framesFromEnd) / float64(s.blendFrames)
			s.weights[owner] = ratio
			s.weights[owner+1] = 1 - ratio
			// Park the incoming clip on its first pose
			s.pushTime(owner+1, 0)
		default:
			s.weights[owner] = 1
		}
	}

	// Pass 2: push all weights, then sample once. Unresolved bindings are
	// skipped; they contribute silence regardless of assigned weight.
	for i, b := range s.bindings {
		if b.Clip == nil {
			continue
		}
		s.graph.SetWeight(i, s.weights[i])
	}
	s.graph.Evaluate()
}

func (s *scheduler) pushTime(input int, seconds float64) {
	if s.bindings[input].Clip == nil {
		return
	}
	s.graph.SetTime(input, seconds)
}
