package camera

import "github.com/go-gl/mathgl/mgl64"

// State is a PoseSink that stores the most recent pose. It backs offline
// exports and tests; interactive hosts plug in their own scene camera
// instead.
type State struct {
	Pos mgl64.Vec3
	Rot mgl64.Quat
}

// NewState returns a State at the origin with identity orientation.
func NewState() *State {
	return &State{Rot: mgl64.QuatIdent()}
}

func (s *State) SetPosition(p mgl64.Vec3) { s.Pos = p }
func (s *State) SetRotation(q mgl64.Quat) { s.Rot = q }

func (s *State) LookAt(point mgl64.Vec3) {
	s.Rot = LookAtOrientation(s.Pos, point)
}

// LookAtOrientation computes the orientation of a camera at eye aimed at
// center, with world +Y up.
func LookAtOrientation(eye, center mgl64.Vec3) mgl64.Quat {
	return mgl64.QuatLookAtV(eye, center, mgl64.Vec3{0, 1, 0})
}
