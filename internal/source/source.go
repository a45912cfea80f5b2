package source

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
)

// Clip is a named animation clip in a pool. FrameAt samples the clip at a
// local time in seconds; out-of-range times return the nearest frame.
type Clip interface {
	Name() string
	Duration() float64
	FrameAt(seconds float64) (image.Image, error)
}

// Pool is an ordered collection of named clips. Order matters: the binding
// resolver takes the first match in pool order, not the best match.
type Pool interface {
	Clips() []Clip
	Close() error
}

// ImagePool loads clips from a directory: every subdirectory becomes an
// image-sequence clip (frames sorted by filename), every loose image file
// becomes a still clip held for stillDuration seconds.
type ImagePool struct {
	clips []Clip
}

// NewImagePool scans root and builds the clip list. fps is the native frame
// rate of image sequences, stillDuration the hold time for single images.
func NewImagePool(root string, fps int, stillDuration float64) (*ImagePool, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read clips dir: %w", err)
	}

	p := &ImagePool{}
	for _, entry := range entries {
		full := filepath.Join(root, entry.Name())
		if entry.IsDir() {
			frames, err := listImages(full)
			if err != nil {
				return nil, err
			}
			if len(frames) == 0 {
				continue
			}
			p.clips = append(p.clips, &sequenceClip{
				name:   entry.Name(),
				frames: frames,
				fps:    fps,
			})
			continue
		}
		if isImageFile(entry.Name()) {
			name := entry.Name()
			ext := filepath.Ext(name)
			p.clips = append(p.clips, &stillClip{
				name:     name[:len(name)-len(ext)],
				path:     full,
				duration: stillDuration,
			})
		}
	}

	return p, nil
}

func (p *ImagePool) Clips() []Clip { return p.clips }

func (p *ImagePool) Close() error { return nil }

// sequenceClip plays a sorted list of image files at a fixed frame rate.
type sequenceClip struct {
	name   string
	frames []string
	fps    int
}

func (c *sequenceClip) Name() string { return c.name }

func (c *sequenceClip) Duration() float64 {
	return float64(len(c.frames)) / float64(c.fps)
}

func (c *sequenceClip) FrameAt(seconds float64) (image.Image, error) {
	idx := int(seconds * float64(c.fps))
	if idx < 0 {
		idx = 0
	}
	if idx >= len(c.frames) {
		idx = len(c.frames) - 1
	}
	return loadImage(c.frames[idx])
}

// stillClip holds one image for a fixed duration.
type stillClip struct {
	name     string
	path     string
	duration float64
}

func (c *stillClip) Name() string      { return c.name }
func (c *stillClip) Duration() float64 { return c.duration }

func (c *stillClip) FrameAt(seconds float64) (image.Image, error) {
	return loadImage(c.path)
}

func listImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, entry := range entries {
		if !entry.IsDir() && isImageFile(entry.Name()) {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

func isImageFile(name string) bool {
	switch filepath.Ext(name) {
	case ".jpg", ".jpeg", ".png":
		return true
	}
	return false
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}
