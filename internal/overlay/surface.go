package overlay

import (
	"image"
	"image/color"
	"image/draw"
	"sync"

	"liqheat/internal/heatmap"
)

// Surface is the drawable backing of the overlay. The renderer clears
// and repaints it in full on every tick, so nothing persists between
// frames and resizing never stretches stale content.
type Surface interface {
	Size() (width, height int)
	// Resize reallocates the backing buffer. Zero or negative
	// dimensions produce an empty surface that absorbs paints.
	Resize(width, height int)
	Clear()
	FillRect(r heatmap.Rect, c color.NRGBA)
}

// ImageSurface is an in-memory RGBA surface used by the demo binary
// and tests. A real host would back this with its platform canvas.
type ImageSurface struct {
	mu  sync.Mutex
	img *image.RGBA
}

func NewImageSurface(width, height int) *ImageSurface {
	s := &ImageSurface{}
	s.Resize(width, height)
	return s
}

func (s *ImageSurface) Size() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.img == nil {
		return 0, 0
	}
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

func (s *ImageSurface) Resize(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if width <= 0 || height <= 0 {
		s.img = nil
		return
	}
	s.img = image.NewRGBA(image.Rect(0, 0, width, height))
}

func (s *ImageSurface) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.img == nil {
		return
	}
	draw.Draw(s.img, s.img.Bounds(), image.Transparent, image.Point{}, draw.Src)
}

func (s *ImageSurface) FillRect(r heatmap.Rect, c color.NRGBA) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.img == nil {
		return
	}
	rect := image.Rect(int(r.X), int(r.Y), int(r.X+r.Width), int(r.Y+r.Height))
	draw.Draw(s.img, rect.Intersect(s.img.Bounds()), image.NewUniform(c), image.Point{}, draw.Over)
}

// At returns the blended pixel at (x, y). Out-of-bounds reads are
// transparent. Used by tests to assert painted regions.
func (s *ImageSurface) At(x, y int) color.RGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.img == nil {
		return color.RGBA{}
	}
	return s.img.RGBAAt(x, y)
}
