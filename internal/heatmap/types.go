package heatmap

// Side indicates which side of a leveraged position was force-closed.
type Side string

const (
	SideBuy  Side = "buy"  // short positions liquidated by a buy
	SideSell Side = "sell" // long positions liquidated by a sell
)

// LiquidationEvent is a single forced liquidation as delivered by the
// backend or the live stream. Events carry no identity; duplicates are
// valid and simply add volume.
type LiquidationEvent struct {
	Price       float64 `json:"price"`
	AmountUSD   float64 `json:"amount_usd"`
	Side        Side    `json:"side"`
	TimestampMs int64   `json:"timestamp_ms"`
}

// TimeKey is the chart widget's time domain: seconds since epoch,
// bucketed to the candle series interval. Totally ordered.
type TimeKey int64

// Candle is one OHLC bar of the active instrument's series.
// Series are ordered ascending by Time and contiguous at a fixed interval.
type Candle struct {
	Time  TimeKey `json:"time"`
	Open  float64 `json:"open"`
	High  float64 `json:"high"`
	Low   float64 `json:"low"`
	Close float64 `json:"close"`
}

// PriceRange is the vertical extent of the binning grid.
type PriceRange struct {
	Min float64
	Max float64
}

// Valid reports whether the range can be partitioned into bins.
func (r PriceRange) Valid() bool {
	return r.Max > r.Min
}

// CellKey uniquely identifies a cell in the sparse grid.
type CellKey struct {
	Time       TimeKey
	PriceIndex int
}

// TimePriceCell accumulates liquidation volume for one (time, price bin)
// rectangle. Price is the bin's center, fixed at creation.
type TimePriceCell struct {
	Time       TimeKey
	PriceIndex int
	Price      float64
	Volume     float64
}

// HeatmapFrame is the complete aggregation of one (events, candles)
// refresh. Frames are immutable once built: a new refresh produces a
// new frame, never an in-place update.
type HeatmapFrame struct {
	Cells     map[CellKey]TimePriceCell
	MaxVolume float64
	BinSize   float64
	PriceMin  float64
	PriceMax  float64

	// Interval is the candle series spacing in seconds, used by the
	// projector to derive cell width from adjacent candle positions.
	Interval TimeKey
}

// EmptyFrame returns a frame with zero cells. Rendering it paints nothing.
func EmptyFrame() *HeatmapFrame {
	return &HeatmapFrame{Cells: map[CellKey]TimePriceCell{}}
}

// Empty reports whether the frame holds no cells.
func (f *HeatmapFrame) Empty() bool {
	return f == nil || len(f.Cells) == 0
}
