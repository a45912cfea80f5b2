package scenario

import "frameweave/internal/timeline"

// GenerateCamera builds a starter camera path for a resolved timeline: a
// keyframe at every clip boundary dollying sideways, aimed at the origin,
// plus a closing keyframe on the final frame. Hosts are expected to edit the
// generated file rather than author keyframes from scratch.
func GenerateCamera(bindings []timeline.Binding, total int) []PoseKey {
	if total == 0 || len(bindings) == 0 {
		return nil
	}

	const (
		dollyStep = 2.0
		height    = 1.5
		distance  = 6.0
	)

	var keys []PoseKey
	origin := [3]float64{0, 0, 0}
	for i, b := range bindings {
		x := (float64(i) - float64(len(bindings)-1)/2.0) * dollyStep
		keys = append(keys, PoseKey{
			Frame:    b.StartFrame,
			Position: [3]float64{x, height, distance},
			LookAt:   &origin,
		})
	}

	// Close the path on the last frame so scrubbing to the end never falls
	// into hold-past-last territory.
	last := bindings[len(bindings)-1]
	x := float64(len(bindings)-1) / 2.0 * dollyStep
	keys = append(keys, PoseKey{
		Frame:    last.EndFrame,
		Position: [3]float64{x + dollyStep, height, distance},
		LookAt:   &origin,
	})

	return keys
}
