package timeline

import (
	"errors"
	"image"
	"strings"
	"testing"

	"frameweave/internal/logging"
	"frameweave/internal/source"
)

type fakeClip struct {
	name     string
	duration float64
}

func (c fakeClip) Name() string      { return c.name }
func (c fakeClip) Duration() float64 { return c.duration }

func (c fakeClip) FrameAt(seconds float64) (image.Image, error) {
	return image.NewRGBA(image.Rect(0, 0, 1, 1)), nil
}

type fakePool struct {
	clips []source.Clip
}

func (p fakePool) Clips() []source.Clip { return p.clips }
func (p fakePool) Close() error         { return nil }

func TestResolveMatching(t *testing.T) {
	pool := fakePool{clips: []source.Clip{
		fakeClip{name: "Walk_Forward", duration: 2.0},
		fakeClip{name: "Run", duration: 1.0},
		fakeClip{name: "Idle_Loop_v2", duration: 4.0},
	}}

	tests := []struct {
		desc     string
		wantClip string
	}{
		{"walk", "Walk_Forward"},           // descriptor contained in pool name
		{"run_fast_cycle", "Run"},          // pool name contained in descriptor
		{"IDLE_LOOP", "Idle_Loop_v2"},      // case-insensitive
		{"r", "Walk_Forward"},              // first match in pool order, not best
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			bindings, err := Resolve([]Descriptor{{Name: tt.desc}}, pool, 30, logging.Discard())
			if err != nil {
				t.Fatalf("Resolve failed: %v", err)
			}
			if bindings[0].Clip == nil {
				t.Fatalf("Expected %q to resolve", tt.desc)
			}
			if got := bindings[0].Clip.Name(); got != tt.wantClip {
				t.Errorf("Expected clip %q, got %q", tt.wantClip, got)
			}
		})
	}
}

func TestResolveDerivesFrameCount(t *testing.T) {
	pool := fakePool{clips: []source.Clip{fakeClip{name: "walk", duration: 1.05}}}

	bindings, err := Resolve([]Descriptor{{Name: "walk"}}, pool, 30, logging.Discard())
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	// ceil(1.05 * 30) = 32
	if bindings[0].FrameCount != 32 {
		t.Errorf("Expected 32 derived frames, got %d", bindings[0].FrameCount)
	}

	// Explicit frame count must not be overwritten by the clip duration
	bindings, _ = Resolve([]Descriptor{{Name: "walk", FrameCount: 10}}, pool, 30, logging.Discard())
	if bindings[0].FrameCount != 10 {
		t.Errorf("Expected configured 10 frames, got %d", bindings[0].FrameCount)
	}
}

func TestResolveUnmatchedKeepsTimelineSpace(t *testing.T) {
	pool := fakePool{clips: []source.Clip{fakeClip{name: "walk", duration: 1.0}}}

	var warnings []string
	logf := logging.Func(func(sev logging.Severity, msg string) {
		if sev == logging.Warn {
			warnings = append(warnings, msg)
		}
	})

	bindings, err := Resolve([]Descriptor{
		{Name: "walk"},
		{Name: "missing", FrameCount: 25},
	}, pool, 30, logf)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if len(warnings) != 1 || !strings.Contains(warnings[0], "missing") {
		t.Errorf("Expected one warning naming the clip, got %v", warnings)
	}

	// The unresolved binding still occupies its configured frames
	b := bindings[1]
	if b.Clip != nil {
		t.Error("Unmatched descriptor should have no clip handle")
	}
	if b.FrameCount != 25 {
		t.Errorf("Expected 25 frames kept, got %d", b.FrameCount)
	}
}

func TestResolveNilPool(t *testing.T) {
	_, err := Resolve([]Descriptor{{Name: "walk"}}, nil, 30, logging.Discard())
	if !errors.Is(err, ErrPoolUnavailable) {
		t.Errorf("Expected ErrPoolUnavailable, got %v", err)
	}
}

func TestLayout(t *testing.T) {
	bindings := []*Binding{
		{Name: "a", FrameCount: 10},
		{Name: "b", FrameCount: 1},
		{Name: "c", FrameCount: 25},
	}

	total := Layout(bindings)
	if total != 36 {
		t.Fatalf("Expected total 36, got %d", total)
	}

	if bindings[0].StartFrame != 0 {
		t.Errorf("First binding must start at 0, got %d", bindings[0].StartFrame)
	}
	if bindings[len(bindings)-1].EndFrame != total-1 {
		t.Errorf("Last binding must end at %d, got %d", total-1, bindings[len(bindings)-1].EndFrame)
	}
	for i := 1; i < len(bindings); i++ {
		if bindings[i].StartFrame != bindings[i-1].EndFrame+1 {
			t.Errorf("Binding %d not contiguous: start %d after end %d",
				i, bindings[i].StartFrame, bindings[i-1].EndFrame)
		}
	}

	// Every frame belongs to exactly one binding
	for f := 0; f < total; f++ {
		owners := 0
		for _, b := range bindings {
			if b.Contains(f) {
				owners++
			}
		}
		if owners != 1 {
			t.Fatalf("Frame %d owned by %d bindings", f, owners)
		}
	}
}

func TestLayoutEmpty(t *testing.T) {
	if total := Layout(nil); total != 0 {
		t.Errorf("Expected 0 for empty timeline, got %d", total)
	}

	bindings := []*Binding{{Name: "empty"}}
	if total := Layout(bindings); total != 0 {
		t.Errorf("Expected 0 for zero-length clip, got %d", total)
	}
	if bindings[0].Contains(0) {
		t.Error("Zero-length binding must not own any frame")
	}
}
