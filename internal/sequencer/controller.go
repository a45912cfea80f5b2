package sequencer

import (
	"fmt"

	"frameweave/internal/camera"
	"frameweave/internal/logging"
	"frameweave/internal/source"
	"frameweave/internal/timeline"
)

// ConfigError is a fatal initialization failure: the sequencer cannot be
// built from the supplied configuration.
type ConfigError struct {
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("sequencer config: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("sequencer config: %s", e.Reason)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// Options enumerates everything a Controller needs, in place of implicit
// host lifecycle hooks.
type Options struct {
	Clips        []timeline.Descriptor
	Keyframes    []camera.Keyframe
	FPS          int
	BlendFrames  int
	SmoothCamera bool
}

// Controller owns the current-frame state and drives the scheduler and the
// camera track on every scrub. The playback graph and the pose sink belong
// exclusively to the Controller between New and Teardown.
type Controller struct {
	bindings []*timeline.Binding
	sched    *scheduler
	track    *camera.Track
	graph    Graph
	fps      int
	total    int
	current  int
	logf     logging.Func
}

// New resolves the configured clips against the pool, lays out the timeline,
// builds the playback graph and sorts the camera track. On error the
// returned Controller is nil and no backend resources are left behind.
func New(engine Engine, pool source.Pool, sink camera.PoseSink, opts Options, logf logging.Func) (*Controller, error) {
	if opts.FPS <= 0 {
		return nil, &ConfigError{Reason: fmt.Sprintf("fps must be positive, got %d", opts.FPS)}
	}
	if opts.BlendFrames < 0 {
		return nil, &ConfigError{Reason: fmt.Sprintf("blend frames must be >= 0, got %d", opts.BlendFrames)}
	}

	bindings, err := timeline.Resolve(opts.Clips, pool, opts.FPS, logf)
	if err != nil {
		return nil, &ConfigError{Reason: "resolving clips", Err: err}
	}
	total := timeline.Layout(bindings)
	if total == 0 {
		logf.Warnf("timeline is empty, scrubbing will have no effect")
	}

	graph, err := engine.NewGraph(len(bindings))
	if err != nil {
		return nil, &ConfigError{Reason: "creating playback graph", Err: err}
	}
	for i, b := range bindings {
		if b.Clip == nil {
			continue
		}
		if err := graph.Connect(i, b.Clip); err != nil {
			graph.Destroy()
			return nil, &ConfigError{Reason: fmt.Sprintf("connecting clip %q", b.Name), Err: err}
		}
	}

	c := &Controller{
		bindings: bindings,
		sched:    newScheduler(bindings, graph, opts.FPS, opts.BlendFrames, total),
		track:    camera.NewTrack(opts.Keyframes, opts.SmoothCamera, sink),
		graph:    graph,
		fps:      opts.FPS,
		total:    total,
		logf:     logf,
	}

	logf.Infof("timeline ready: %d clips, %d frames (%.2fs at %d fps)",
		len(bindings), total, float64(total)/float64(opts.FPS), opts.FPS)
	return c, nil
}

// SetFrame scrubs the timeline to a global frame. Out-of-range frames are
// clamped silently; on a degenerate (empty) timeline the call is a no-op.
// Animation weights and times are fully applied before the camera track runs.
func (c *Controller) SetFrame(frame int) {
	if c.total == 0 || c.graph == nil {
		return
	}
	if frame < 0 {
		frame = 0
	}
	if frame > c.total-1 {
		frame = c.total - 1
	}

	c.sched.applyFrame(frame)
	c.track.ApplyFrame(frame)
	c.current = frame
}

// TotalFrames returns the timeline length in frames.
func (c *Controller) TotalFrames() int { return c.total }

// CurrentFrame returns the last applied frame.
func (c *Controller) CurrentFrame() int { return c.current }

// CurrentTime returns the last applied frame as seconds on the global axis.
func (c *Controller) CurrentTime() float64 {
	return float64(c.current) / float64(c.fps)
}

// Bindings returns the resolved timeline layout for read-only consumers.
func (c *Controller) Bindings() []timeline.Binding {
	out := make([]timeline.Binding, len(c.bindings))
	for i, b := range c.bindings {
		out[i] = *b
	}
	return out
}

// Track exposes the sorted camera keyframes for debug visualization.
func (c *Controller) Track() *camera.Track { return c.track }

// Teardown releases the playback graph and restores the output target's
// prior configuration. Safe to call repeatedly and after a failed or partial
// initialization.
func (c *Controller) Teardown() {
	if c == nil || c.graph == nil {
		return
	}
	if c.graph.Valid() {
		c.graph.Destroy()
	}
	c.graph = nil
}
