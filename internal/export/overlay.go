package export

import (
	"image"
	"image/color"
	"image/draw"

	qrcode "github.com/skip2/go-qrcode"
)

// Overlay post-processes an exported frame. Overlays run outside the
// sequencer core, after the backend has composited the frame.
type Overlay interface {
	Apply(frame *image.RGBA, index, total int)
}

// QROverlay stamps a QR code into the bottom-right corner of the last
// frames of an export, typically linking to the project or channel.
type QROverlay struct {
	img    image.Image
	frames int
	margin int
}

// NewQROverlay encodes link into a QR code of the given pixel size, shown
// during the final frames of the export.
func NewQROverlay(link string, size, frames int) (*QROverlay, error) {
	q, err := qrcode.New(link, qrcode.Medium)
	if err != nil {
		return nil, err
	}
	return &QROverlay{img: q.Image(size), frames: frames, margin: 16}, nil
}

func (o *QROverlay) Apply(frame *image.RGBA, index, total int) {
	if total-index > o.frames {
		return
	}
	qb := o.img.Bounds()
	fb := frame.Bounds()
	target := image.Rect(
		fb.Max.X-qb.Dx()-o.margin,
		fb.Max.Y-qb.Dy()-o.margin,
		fb.Max.X-o.margin,
		fb.Max.Y-o.margin,
	)
	draw.Draw(frame, target, o.img, qb.Min, draw.Over)
}

// ProgressOverlay draws a scrub-position bar along the bottom edge. Debug
// exports use it to eyeball timeline coverage.
type ProgressOverlay struct {
	Height int
}

func (o *ProgressOverlay) Apply(frame *image.RGBA, index, total int) {
	if total <= 0 {
		return
	}
	h := o.Height
	if h <= 0 {
		h = 4
	}
	fb := frame.Bounds()
	width := fb.Dx() * (index + 1) / total
	bar := image.Rect(fb.Min.X, fb.Max.Y-h, fb.Min.X+width, fb.Max.Y)
	draw.Draw(frame, bar, &image.Uniform{color.RGBA{255, 220, 0, 255}}, image.Point{}, draw.Src)
}
