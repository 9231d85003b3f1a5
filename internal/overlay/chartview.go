package overlay

import (
	"sync"

	"liqheat/internal/heatmap"
)

// LinearChartView is a minimal pan/zoomable viewport implementing the
// heatmap.ChartView capability. The demo binary and tests use it in
// place of a real charting widget, which stays external.
type LinearChartView struct {
	mu sync.Mutex

	width, height int

	timeStart  heatmap.TimeKey // time at x=0
	secPerPx   float64
	priceTop   float64 // price at y=0
	pricePerPx float64
}

func NewLinearChartView(width, height int) *LinearChartView {
	return &LinearChartView{
		width:      width,
		height:     height,
		secPerPx:   60,
		pricePerPx: 1,
	}
}

// SetViewport positions the visible time/price window.
func (v *LinearChartView) SetViewport(timeStart heatmap.TimeKey, secPerPx, priceTop, pricePerPx float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.timeStart = timeStart
	v.secPerPx = secPerPx
	v.priceTop = priceTop
	v.pricePerPx = pricePerPx
}

// FitSeries frames the candle series with a little headroom, the way a
// chart widget's auto-scale would.
func (v *LinearChartView) FitSeries(candles []heatmap.Candle) {
	if len(candles) == 0 {
		return
	}
	lo, hi := candles[0].Low, candles[0].High
	for _, c := range candles {
		if c.Low < lo {
			lo = c.Low
		}
		if c.High > hi {
			hi = c.High
		}
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	span := int64(candles[len(candles)-1].Time - candles[0].Time)
	if span <= 0 {
		span = 3600
	}
	pad := (hi - lo) * 0.05
	v.timeStart = candles[0].Time
	v.secPerPx = float64(span) / float64(max(v.width, 1))
	v.priceTop = hi + pad
	v.pricePerPx = (hi - lo + 2*pad) / float64(max(v.height, 1))
}

// Pan shifts the visible window by pixel deltas.
func (v *LinearChartView) Pan(dxPx, dyPx float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.timeStart += heatmap.TimeKey(dxPx * v.secPerPx)
	v.priceTop += dyPx * v.pricePerPx
}

// Resize changes the drawable area, like a container resize observer
// firing on the real widget.
func (v *LinearChartView) Resize(width, height int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.width = width
	v.height = height
}

func (v *LinearChartView) TimeToX(t heatmap.TimeKey) (float64, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.secPerPx <= 0 {
		return 0, false
	}
	x := float64(t-v.timeStart) / v.secPerPx
	// Off-domain lookups fail the same way the real widget's
	// time-to-coordinate API returns null outside its visible range,
	// with slack for the margin handling in the projector.
	if x < -float64(v.width) || x > 2*float64(v.width) {
		return 0, false
	}
	return x, true
}

func (v *LinearChartView) PriceToY(price float64) (float64, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.pricePerPx <= 0 {
		return 0, false
	}
	y := (v.priceTop - price) / v.pricePerPx
	if y < -float64(v.height) || y > 2*float64(v.height) {
		return 0, false
	}
	return y, true
}

func (v *LinearChartView) Size() (int, int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.width, v.height
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
