package export

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"frameweave/internal/config"
	"frameweave/internal/logging"
	"frameweave/internal/sequencer"
	"frameweave/internal/system"
)

// Grabber yields the playback backend's last evaluated frame. The image
// backend satisfies it; scrub-only hosts never need one.
type Grabber interface {
	Frame() *image.RGBA
}

// Exporter scrubs every timeline frame through the controller and writes the
// composited frames out, either as one encoded video or as a PNG sequence.
type Exporter struct {
	Controller *sequencer.Controller
	Frames     Grabber
	Overlays   []Overlay
	Logf       logging.Func
}

// ExportVideo streams raw RGBA frames into a single ffmpeg process. Frames
// are produced strictly in order; SetFrame recomputes the full mix per frame
// so the encode sees no partial state.
func (e *Exporter) ExportVideo(ctx context.Context, params config.ExportParams, output string) error {
	total := e.Controller.TotalFrames()
	if total == 0 {
		return fmt.Errorf("timeline is empty, nothing to export")
	}

	start := time.Now()
	bounds := e.Frames.Frame().Bounds()
	session, err := startFFmpeg(ctx, bounds.Dx(), bounds.Dy(), params, output)
	if err != nil {
		return err
	}

	buf := system.GetImage(bounds)
	defer system.PutImage(buf)

	for f := 0; f < total; f++ {
		if err := ctx.Err(); err != nil {
			session.Close()
			return err
		}
		e.Controller.SetFrame(f)
		copy(buf.Pix, e.Frames.Frame().Pix)
		for _, ov := range e.Overlays {
			ov.Apply(buf, f, total)
		}
		if err := session.WriteFrame(buf); err != nil {
			session.Close()
			return fmt.Errorf("write frame %d: %w", f, err)
		}
	}

	if err := session.Close(); err != nil {
		return err
	}

	e.report("video", total, time.Since(start), params)
	return nil
}

// ExportPNG writes one PNG per frame into dir. Scrubbing stays sequential
// (the backend is single-threaded by contract) while encoding fans out over
// a bounded worker group.
func (e *Exporter) ExportPNG(ctx context.Context, params config.ExportParams, dir string) error {
	total := e.Controller.TotalFrames()
	if total == 0 {
		return fmt.Errorf("timeline is empty, nothing to export")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	start := time.Now()
	workers := params.Workers
	if workers <= 0 {
		workers = 1
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	bounds := e.Frames.Frame().Bounds()
	for f := 0; f < total; f++ {
		if err := ctx.Err(); err != nil {
			break
		}
		e.Controller.SetFrame(f)

		clone := system.GetImage(bounds)
		copy(clone.Pix, e.Frames.Frame().Pix)
		for _, ov := range e.Overlays {
			ov.Apply(clone, f, total)
		}

		frame := f
		g.Go(func() error {
			defer system.PutImage(clone)
			path := filepath.Join(dir, fmt.Sprintf("frame_%05d.png", frame))
			out, err := os.Create(path)
			if err != nil {
				return err
			}
			defer out.Close()
			return png.Encode(out, clone)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	e.report("png", total, time.Since(start), params)
	return nil
}

func (e *Exporter) report(kind string, frames int, elapsed time.Duration, params config.ExportParams) {
	fps := float64(frames) / elapsed.Seconds()
	snap := system.TakeSnapshot()
	e.Logf.Infof("export (%s): %d frames in %.2fs (%.1f fps), %s", kind, frames, elapsed.Seconds(), fps, snap)

	if !params.Debug {
		return
	}
	entry := fmt.Sprintf("[%s] kind: %s | frames: %d | elapsed: %.2fs | fps: %.1f | %s\n",
		time.Now().Format("2006-01-02 15:04:05"), kind, frames, elapsed.Seconds(), fps, snap)
	f, err := os.OpenFile("benchmark.log", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err == nil {
		f.WriteString(entry)
		f.Close()
	} else {
		e.Logf.Warnf("could not write benchmark.log: %v", err)
	}
}
