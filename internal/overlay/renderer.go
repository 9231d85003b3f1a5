package overlay

import (
	"context"
	"time"

	"liqheat/internal/heatmap"

	"go.uber.org/zap"
)

// Renderer repaints the overlay surface on every host tick, re-projecting
// the latest published frame against the chart's live viewport. It never
// waits on the refresh path: data and painting are decoupled through the
// store's atomic frame swap.
type Renderer struct {
	store     *SnapshotStore
	view      heatmap.ChartView
	surface   Surface
	projector *heatmap.Projector
	logger    *zap.Logger
}

func NewRenderer(store *SnapshotStore, view heatmap.ChartView, surface Surface, logger *zap.Logger) *Renderer {
	return &Renderer{
		store:     store,
		view:      view,
		surface:   surface,
		projector: heatmap.NewProjector(view),
		logger:    logger,
	}
}

// Run consumes host-supplied ticks until the context is cancelled or
// the tick channel closes. The host owns the cadence (typically one
// tick per display frame).
func (r *Renderer) Run(ctx context.Context, ticks <-chan time.Time) {
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-ticks:
			if !ok {
				return
			}
			r.RenderOnce()
		}
	}
}

// RenderOnce performs one full repaint: track the chart's size, clear,
// then project and fill every visible cell. An empty frame clears the
// surface and paints nothing; a zero-sized chart paints nothing at all.
func (r *Renderer) RenderOnce() {
	w, h := r.view.Size()
	if w <= 0 || h <= 0 {
		return
	}

	// Keep the backing buffer the same size as the chart's drawable
	// area. Reallocation happens before painting, so a resize never
	// shows stretched content from a previous tick.
	if sw, sh := r.surface.Size(); sw != w || sh != h {
		r.surface.Resize(w, h)
	}

	r.surface.Clear()

	frame := r.store.Frame()
	if frame.Empty() {
		return
	}

	painted := 0
	for _, cell := range frame.Cells {
		rect, ok := r.projector.CellRect(frame, cell)
		if !ok {
			continue // off-domain or off-surface, expected during pan/zoom
		}
		t := heatmap.Intensity(cell.Volume, frame.MaxVolume)
		r.surface.FillRect(rect, heatmap.MapColor(t))
		painted++
	}

	if painted > 0 {
		r.logger.Debug("overlay painted",
			zap.Int("cells", len(frame.Cells)),
			zap.Int("visible", painted))
	}
}

// Legend summarizes the current frame for the side legend, e.g.
// "max 2.4M". A stale frame is marked so the UI can flag old data.
func (r *Renderer) Legend() string {
	s := "max " + heatmap.FormatVolume(r.store.Frame().MaxVolume)
	if r.store.Stale() {
		s += " (stale)"
	}
	return s
}
