package heatmap

import "math"

// ChartView is the capability surface exposed by the host charting
// widget. The widget owns the viewport: coordinate lookups return
// ok=false whenever the value falls outside its current visible domain,
// which is routine during pan/zoom, not an error.
type ChartView interface {
	// TimeToX maps a series time to a horizontal pixel coordinate.
	TimeToX(t TimeKey) (x float64, ok bool)
	// PriceToY maps a price to a vertical pixel coordinate.
	PriceToY(price float64) (y float64, ok bool)
	// Size is the chart's drawable area in pixels.
	Size() (width, height int)
}

// Rect is a cell's screen-space rectangle.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Bins never collapse below this height when zoomed far out.
const minCellHeightPx = 2.0

// Projector converts grid cells to screen rectangles against the host
// chart's live viewport.
type Projector struct {
	view ChartView
}

func NewProjector(view ChartView) *Projector {
	return &Projector{view: view}
}

// CellRect projects one cell. ok=false means skip this cell for the
// current tick: a coordinate is outside the chart's domain or the
// rectangle lies fully off-surface.
func (p *Projector) CellRect(frame *HeatmapFrame, cell TimePriceCell) (Rect, bool) {
	x, ok := p.view.TimeToX(cell.Time)
	if !ok {
		return Rect{}, false
	}

	// Cell width follows the visual spacing of adjacent candles so the
	// overlay matches the candle cadence at any zoom level. When the
	// next candle slot is off-domain, mirror from the previous one.
	width, ok := p.columnWidth(frame, cell.Time, x)
	if !ok {
		return Rect{}, false
	}

	half := frame.BinSize / 2
	yTop, ok := p.view.PriceToY(cell.Price + half)
	if !ok {
		return Rect{}, false
	}
	yBottom, ok := p.view.PriceToY(cell.Price - half)
	if !ok {
		return Rect{}, false
	}

	height := math.Abs(yBottom - yTop)
	if height < minCellHeightPx {
		height = minCellHeightPx
	}

	r := Rect{
		X:      x - width/2,
		Y:      math.Min(yTop, yBottom),
		Width:  width,
		Height: height,
	}

	w, h := p.view.Size()
	if !visible(r, float64(w), float64(h)) {
		return Rect{}, false
	}
	return r, true
}

func (p *Projector) columnWidth(frame *HeatmapFrame, t TimeKey, x float64) (float64, bool) {
	if next, ok := p.view.TimeToX(t + frame.Interval); ok {
		return math.Abs(next - x), true
	}
	if prev, ok := p.view.TimeToX(t - frame.Interval); ok {
		return math.Abs(x - prev), true
	}
	return 0, false
}

// visible allows a one-cell margin so partially visible cells at the
// surface edges still paint.
func visible(r Rect, w, h float64) bool {
	mx, my := r.Width, r.Height
	if r.X+r.Width < -mx || r.X > w+mx {
		return false
	}
	if r.Y+r.Height < -my || r.Y > h+my {
		return false
	}
	return true
}
