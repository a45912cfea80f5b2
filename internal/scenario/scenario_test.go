package scenario

import (
	"math"
	"path/filepath"
	"testing"

	"frameweave/internal/timeline"
)

func TestScenarioWriteRead(t *testing.T) {
	lookAt := [3]float64{0, 0, 0}
	s := &Scenario{
		Version:      "1.0",
		FPS:          30,
		BlendFrames:  10,
		SmoothCamera: true,
		Clips: []ClipRef{
			{Name: "walk", FrameCount: 120},
			{Name: "run"},
		},
		Camera: []PoseKey{
			{Frame: 0, Position: [3]float64{0, 1, 5}},
			{Frame: 60, Position: [3]float64{2, 1, 5}, LookAt: &lookAt},
		},
	}

	path := filepath.Join(t.TempDir(), "scenario.yaml")
	if err := WriteScenario(s, path); err != nil {
		t.Fatalf("WriteScenario failed: %v", err)
	}

	read, err := ReadScenario(path)
	if err != nil {
		t.Fatalf("ReadScenario failed: %v", err)
	}

	if read.FPS != 30 || read.BlendFrames != 10 || !read.SmoothCamera {
		t.Errorf("Scheduling parameters lost in round trip: %+v", read)
	}
	if len(read.Clips) != 2 || read.Clips[0].FrameCount != 120 || read.Clips[1].FrameCount != 0 {
		t.Errorf("Clip list mismatch: %+v", read.Clips)
	}
	if len(read.Camera) != 2 {
		t.Fatalf("Expected 2 camera keys, got %d", len(read.Camera))
	}
	if read.Camera[0].LookAt != nil {
		t.Error("Keyframe without look-at gained one")
	}
	if read.Camera[1].LookAt == nil {
		t.Error("Look-at target lost in round trip")
	}
}

func TestOptionsConversion(t *testing.T) {
	s := &Scenario{
		FPS:         24,
		BlendFrames: 5,
		Clips:       []ClipRef{{Name: "walk", FrameCount: 48}},
		Camera: []PoseKey{
			{Frame: 0, Position: [3]float64{1, 2, 3}},
		},
	}

	opts := s.Options()
	if opts.FPS != 24 || opts.BlendFrames != 5 {
		t.Errorf("Scheduling parameters not converted: %+v", opts)
	}
	if len(opts.Clips) != 1 || opts.Clips[0].Name != "walk" {
		t.Errorf("Clips not converted: %+v", opts.Clips)
	}

	kf := opts.Keyframes[0]
	if kf.Position.X() != 1 || kf.Position.Y() != 2 || kf.Position.Z() != 3 {
		t.Errorf("Position not converted: %v", kf.Position)
	}
	// Zero serialized rotation must come back as identity, not a degenerate
	// quaternion
	if math.Abs(kf.Rotation.W-1) > 1e-9 || kf.Rotation.V.Len() > 1e-9 {
		t.Errorf("Expected identity rotation, got %v", kf.Rotation)
	}
}

func TestGenerateCamera(t *testing.T) {
	bindings := []timeline.Binding{
		{Name: "a", FrameCount: 30, StartFrame: 0, EndFrame: 29},
		{Name: "b", FrameCount: 30, StartFrame: 30, EndFrame: 59},
	}

	keys := GenerateCamera(bindings, 60)
	if len(keys) != 3 {
		t.Fatalf("Expected one key per clip plus a closing key, got %d", len(keys))
	}
	if keys[0].Frame != 0 || keys[1].Frame != 30 || keys[2].Frame != 59 {
		t.Errorf("Keyframe frames misplaced: %d %d %d", keys[0].Frame, keys[1].Frame, keys[2].Frame)
	}
	for i, k := range keys {
		if k.LookAt == nil {
			t.Errorf("Key %d missing look-at target", i)
		}
	}

	if keys := GenerateCamera(nil, 0); keys != nil {
		t.Errorf("Expected no keys for an empty timeline, got %v", keys)
	}
}
