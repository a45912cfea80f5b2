package timeline

import (
	"errors"
	"math"
	"strings"

	"frameweave/internal/logging"
	"frameweave/internal/source"
)

// ErrPoolUnavailable is returned when no clip pool was supplied. A missing
// pool is the only fatal resolution failure; individual unmatched clips are
// reported and kept.
var ErrPoolUnavailable = errors.New("clip pool unavailable")

// Descriptor is a configured clip reference. FrameCount of zero means
// "derive from the matched clip's duration".
type Descriptor struct {
	Name       string
	FrameCount int
}

// Binding is a resolved clip occupying a contiguous range of the global
// frame axis. Clip is nil when the descriptor matched nothing in the pool;
// such a binding still consumes its configured frames but produces no
// visual output while active.
type Binding struct {
	Name       string
	FrameCount int
	StartFrame int
	EndFrame   int
	Clip       source.Clip
}

// Duration returns the matched clip's length in seconds, or zero for an
// unresolved binding.
func (b *Binding) Duration() float64 {
	if b.Clip == nil {
		return 0
	}
	return b.Clip.Duration()
}

// Contains reports whether the global frame falls inside this binding's range.
func (b *Binding) Contains(frame int) bool {
	return b.FrameCount > 0 && frame >= b.StartFrame && frame <= b.EndFrame
}

// Resolve matches descriptors against the pool. A pool clip matches when its
// name case-insensitively contains the descriptor name or vice versa; the
// first match in pool order wins. Unmatched descriptors are logged and kept
// with their configured frame count.
func Resolve(descriptors []Descriptor, pool source.Pool, fps int, logf logging.Func) ([]*Binding, error) {
	if pool == nil {
		return nil, ErrPoolUnavailable
	}

	clips := pool.Clips()
	bindings := make([]*Binding, 0, len(descriptors))
	for _, desc := range descriptors {
		b := &Binding{Name: desc.Name, FrameCount: desc.FrameCount}
		for _, clip := range clips {
			if nameMatches(desc.Name, clip.Name()) {
				b.Clip = clip
				break
			}
		}

		if b.Clip == nil {
			logf.Warnf("clip %q matched nothing in the pool, %d frames stay empty", desc.Name, b.FrameCount)
		} else if b.FrameCount == 0 {
			b.FrameCount = int(math.Ceil(b.Clip.Duration() * float64(fps)))
		}

		bindings = append(bindings, b)
	}

	return bindings, nil
}

func nameMatches(want, have string) bool {
	w := strings.ToLower(want)
	h := strings.ToLower(have)
	return strings.Contains(h, w) || strings.Contains(w, h)
}

// Layout assigns contiguous inclusive frame ranges to the ordered bindings
// and returns the total frame count. A zero total is a valid degenerate
// timeline.
func Layout(bindings []*Binding) int {
	next := 0
	for _, b := range bindings {
		b.StartFrame = next
		b.EndFrame = next + b.FrameCount - 1
		next += b.FrameCount
	}
	return next
}
