package camera

import (
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

// Target supplies a world-space point at evaluation time. Look-at targets
// may move between calls, so the position is read on every apply.
type Target interface {
	Position() mgl64.Vec3
}

// FixedTarget is a Target that never moves.
type FixedTarget mgl64.Vec3

func (t FixedTarget) Position() mgl64.Vec3 { return mgl64.Vec3(t) }

// Keyframe anchors a camera pose to a global frame. When LookAt is set it
// overrides the stored rotation.
type Keyframe struct {
	Frame    int
	Position mgl64.Vec3
	Rotation mgl64.Quat
	LookAt   Target
}

// PoseSink receives the evaluated camera pose.
type PoseSink interface {
	SetPosition(p mgl64.Vec3)
	SetRotation(q mgl64.Quat)
	LookAt(point mgl64.Vec3)
}

// Track is a sorted camera keyframe store. Keyframes are sorted once at
// construction and read-only afterwards. Keyframes sharing a frame keep
// their original configuration order (stable sort); an exact-frame apply
// picks the last of them.
type Track struct {
	keyframes []Keyframe
	smooth    bool
	sink      PoseSink
}

// NewTrack copies and sorts the keyframes ascending by frame. smooth enables
// interpolation between keyframes; without it the track is a step function.
func NewTrack(keyframes []Keyframe, smooth bool, sink PoseSink) *Track {
	sorted := make([]Keyframe, len(keyframes))
	copy(sorted, keyframes)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Frame < sorted[j].Frame
	})
	return &Track{keyframes: sorted, smooth: smooth, sink: sink}
}

// Keyframes returns the sorted keyframe list for read-only consumers such as
// path visualizers.
func (t *Track) Keyframes() []Keyframe {
	out := make([]Keyframe, len(t.keyframes))
	copy(out, t.keyframes)
	return out
}

// ApplyFrame evaluates the track at a global frame and pushes the resulting
// pose to the sink. Frames before the first keyframe leave the sink
// untouched: the camera holds whatever pose it last had.
func (t *Track) ApplyFrame(frame int) {
	var prev, next *Keyframe
	for i := range t.keyframes {
		kf := &t.keyframes[i]
		if kf.Frame <= frame {
			prev = kf
		}
		if next == nil && kf.Frame >= frame {
			next = kf
		}
	}

	switch {
	case prev != nil && prev.Frame == frame:
		t.applyExact(prev)
	case t.smooth && prev != nil && next != nil && prev != next:
		t.applyBlend(prev, next, frame)
	case prev != nil:
		// Smoothing off, or past the last keyframe: hold the previous pose
		t.applyExact(prev)
	}
}

func (t *Track) applyExact(kf *Keyframe) {
	t.sink.SetPosition(kf.Position)
	if kf.LookAt != nil {
		t.sink.LookAt(kf.LookAt.Position())
		return
	}
	t.sink.SetRotation(kf.Rotation)
}

func (t *Track) applyBlend(prev, next *Keyframe, frame int) {
	amount := float64(frame-prev.Frame) / float64(next.Frame-prev.Frame)

	t.sink.SetPosition(lerp(prev.Position, next.Position, amount))

	if prev.LookAt != nil && next.LookAt != nil {
		// Blend the two target points and aim at the blended point
		t.sink.LookAt(lerp(prev.LookAt.Position(), next.LookAt.Position(), amount))
		return
	}
	t.sink.SetRotation(mgl64.QuatSlerp(prev.Rotation, next.Rotation, amount))
}

func lerp(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}
