package source

import (
	"fmt"
	"image"

	"github.com/gen2brain/go-fitz"
)

// PDFPool exposes every page of a PDF document as a named still clip
// ("page_001", "page_002", ...). Pages are rendered on demand at the
// configured DPI.
type PDFPool struct {
	doc   *fitz.Document
	path  string
	clips []Clip
}

// NewPDFPool opens a PDF and builds one clip per page, each held for
// stillDuration seconds.
func NewPDFPool(path string, dpi int, stillDuration float64) (*PDFPool, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	p := &PDFPool{doc: doc, path: path}
	for i := 0; i < doc.NumPage(); i++ {
		p.clips = append(p.clips, &pdfPageClip{
			pool:     p,
			page:     i,
			name:     fmt.Sprintf("page_%03d", i+1),
			dpi:      dpi,
			duration: stillDuration,
		})
	}
	return p, nil
}

func (p *PDFPool) Clips() []Clip { return p.clips }

func (p *PDFPool) Close() error { return p.doc.Close() }

type pdfPageClip struct {
	pool     *PDFPool
	page     int
	name     string
	dpi      int
	duration float64
}

func (c *pdfPageClip) Name() string      { return c.name }
func (c *pdfPageClip) Duration() float64 { return c.duration }

// FrameAt renders the page. fitz documents are not safe for concurrent use,
// so each render opens its own handle, same as the render workers do for
// parallel exports.
func (c *pdfPageClip) FrameAt(seconds float64) (image.Image, error) {
	doc, err := fitz.New(c.pool.path)
	if err != nil {
		return nil, err
	}
	defer doc.Close()
	return doc.ImageDPI(c.page, float64(c.dpi))
}
