package heatmap

import "testing"

// stubView is a fixed linear viewport: 10px per candle column starting
// at time origin, 2px per price unit from priceTop downward.
type stubView struct {
	width, height int
	timeOrigin    TimeKey
	priceTop      float64
	timeMin       TimeKey // lookups outside [timeMin, +inf) fail
	priceMin      float64 // lookups below this fail
}

func (v *stubView) TimeToX(t TimeKey) (float64, bool) {
	if t < v.timeMin {
		return 0, false
	}
	return float64(t-v.timeOrigin) / 3600 * 10, true
}

func (v *stubView) PriceToY(price float64) (float64, bool) {
	if price < v.priceMin {
		return 0, false
	}
	return (v.priceTop - price) * 2, true
}

func (v *stubView) Size() (int, int) { return v.width, v.height }

func testFrame() *HeatmapFrame {
	return &HeatmapFrame{
		Cells:    map[CellKey]TimePriceCell{},
		BinSize:  4,
		PriceMin: 80,
		PriceMax: 120,
		Interval: 3600,
	}
}

// go test -v --run TestCellRectProjection
func TestCellRectProjection(t *testing.T) {
	view := &stubView{width: 400, height: 300, timeOrigin: 1000, priceTop: 120, timeMin: 0, priceMin: -1e9}
	p := NewProjector(view)
	frame := testFrame()

	cell := TimePriceCell{Time: 1000 + 3600*3, Price: 100, Volume: 50}
	rect, ok := p.CellRect(frame, cell)
	if !ok {
		t.Fatal("expected cell to be visible")
	}

	// Column width comes from adjacent candle spacing: 10px.
	if rect.Width != 10 {
		t.Errorf("expected width 10 from candle spacing, got %v", rect.Width)
	}
	// Centered on the candle x: x=30, so left edge 25.
	if rect.X != 25 {
		t.Errorf("expected x 25, got %v", rect.X)
	}
	// Bin edges 98..102 project to y 44..36; height 8, top 36.
	if rect.Y != 36 || rect.Height != 8 {
		t.Errorf("expected y=36 height=8, got y=%v height=%v", rect.Y, rect.Height)
	}
}

// go test -v --run TestCellRectSkipsOutOfDomain
func TestCellRectSkipsOutOfDomain(t *testing.T) {
	view := &stubView{width: 400, height: 300, timeOrigin: 1000, priceTop: 120, timeMin: 1000, priceMin: 90}
	p := NewProjector(view)
	frame := testFrame()

	// Time below the widget's visible domain: skipped, not an error.
	if _, ok := p.CellRect(frame, TimePriceCell{Time: 500, Price: 100}); ok {
		t.Error("expected cell with off-domain time to be skipped")
	}

	// A price edge below the domain floor: skipped.
	if _, ok := p.CellRect(frame, TimePriceCell{Time: 1000 + 3600, Price: 91}); ok {
		t.Error("expected cell with off-domain price edge to be skipped")
	}
}

// go test -v --run TestCellRectSkipsOffSurface
func TestCellRectSkipsOffSurface(t *testing.T) {
	view := &stubView{width: 100, height: 100, timeOrigin: 1000, priceTop: 120, timeMin: 0, priceMin: -1e9}
	p := NewProjector(view)
	frame := testFrame()

	// Far to the right of the 100px surface (x = 1000).
	cell := TimePriceCell{Time: 1000 + 3600*100, Price: 100}
	if _, ok := p.CellRect(frame, cell); ok {
		t.Error("expected far off-surface cell to be skipped")
	}

	// Just past the right edge but within the one-cell margin: painted.
	cell = TimePriceCell{Time: 1000 + 3600*10, Price: 100} // x = 100
	if _, ok := p.CellRect(frame, cell); !ok {
		t.Error("expected partially visible cell inside the margin to paint")
	}
}

// go test -v --run TestCellRectMinHeight
func TestCellRectMinHeight(t *testing.T) {
	// 0.1px per price unit: a 4-wide bin would be 0.4px tall.
	view := &stubView{width: 400, height: 300, timeOrigin: 1000, priceTop: 120, timeMin: 0, priceMin: -1e9}
	p := NewProjector(view)

	frame := testFrame()
	frame.BinSize = 0.5 // 1px at 2px-per-unit, below the floor

	rect, ok := p.CellRect(frame, TimePriceCell{Time: 1000 + 3600, Price: 100})
	if !ok {
		t.Fatal("expected cell to be visible")
	}
	if rect.Height < minCellHeightPx {
		t.Errorf("expected height floor %v, got %v", minCellHeightPx, rect.Height)
	}
}
