package scenario

import (
	"github.com/go-gl/mathgl/mgl64"

	"frameweave/internal/camera"
	"frameweave/internal/sequencer"
	"frameweave/internal/timeline"
)

// Scenario is the on-disk timeline configuration: the clip list, the camera
// keyframes and the scheduling parameters.
type Scenario struct {
	Version      string    `yaml:"version"`
	FPS          int       `yaml:"fps"`
	BlendFrames  int       `yaml:"blend_frames"`
	SmoothCamera bool      `yaml:"smooth_camera"`
	Clips        []ClipRef `yaml:"clips"`
	Camera       []PoseKey `yaml:"camera"`
}

// ClipRef names a clip in the pool. FrameCount zero means "derive from the
// clip's duration".
type ClipRef struct {
	Name       string `yaml:"name"`
	FrameCount int    `yaml:"frame_count,omitempty"`
}

// PoseKey is a serialized camera keyframe. Rotation is a w,x,y,z quaternion;
// a zero rotation deserializes as identity. LookAt, when present, overrides
// the rotation with a point to aim at.
type PoseKey struct {
	Frame    int         `yaml:"frame"`
	Position [3]float64  `yaml:"position"`
	Rotation [4]float64  `yaml:"rotation,omitempty"`
	LookAt   *[3]float64 `yaml:"look_at,omitempty"`
}

// Options converts the scenario into sequencer options.
func (s *Scenario) Options() sequencer.Options {
	opts := sequencer.Options{
		FPS:          s.FPS,
		BlendFrames:  s.BlendFrames,
		SmoothCamera: s.SmoothCamera,
	}
	for _, c := range s.Clips {
		opts.Clips = append(opts.Clips, timeline.Descriptor{
			Name:       c.Name,
			FrameCount: c.FrameCount,
		})
	}
	for _, k := range s.Camera {
		opts.Keyframes = append(opts.Keyframes, k.Keyframe())
	}
	return opts
}

// Keyframe converts a serialized pose key into a camera keyframe.
func (k PoseKey) Keyframe() camera.Keyframe {
	kf := camera.Keyframe{
		Frame:    k.Frame,
		Position: mgl64.Vec3{k.Position[0], k.Position[1], k.Position[2]},
		Rotation: quatOrIdent(k.Rotation),
	}
	if k.LookAt != nil {
		kf.LookAt = camera.FixedTarget{k.LookAt[0], k.LookAt[1], k.LookAt[2]}
	}
	return kf
}

func quatOrIdent(r [4]float64) mgl64.Quat {
	if r == ([4]float64{}) {
		return mgl64.QuatIdent()
	}
	q := mgl64.Quat{W: r[0], V: mgl64.Vec3{r[1], r[2], r[3]}}
	return q.Normalize()
}
