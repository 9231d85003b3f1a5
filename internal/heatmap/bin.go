package heatmap

import (
	"math"
	"sort"
	"time"
)

// DefaultBinCount partitions the price range into equal-width bins.
const DefaultBinCount = 120

// Price range padding: liquidation prices get a tight pad, the candle
// high/low envelope (fallback when no events exist) a generous one.
const (
	eventRangePad  = 0.01
	candleRangePad = 0.10
)

// BinConfig controls the binning pass.
type BinConfig struct {
	// BinCount is the number of equal-width price bins (N).
	// Non-positive values fall back to DefaultBinCount.
	BinCount int

	// MaxCandleDistance drops events whose timestamp is further than
	// this from the nearest candle. Zero disables the cutoff and every
	// event matches its nearest candle regardless of distance.
	MaxCandleDistance time.Duration

	// FixedRange pins the grid's price range instead of deriving it
	// from the data. Hosts use this to lock the overlay to the chart's
	// own price scale.
	FixedRange *PriceRange
}

// BuildFrame aggregates liquidation events against a candle series into
// a sparse time×price grid. Degenerate inputs (no candles, no usable
// price range) produce an empty frame, never an error.
func BuildFrame(candles []Candle, events []LiquidationEvent, cfg BinConfig) *HeatmapFrame {
	n := cfg.BinCount
	if n <= 0 {
		n = DefaultBinCount
	}

	if len(candles) == 0 {
		return EmptyFrame()
	}

	rng := derivePriceRange(candles, events)
	if cfg.FixedRange != nil {
		rng = *cfg.FixedRange
	}
	if !rng.Valid() {
		return EmptyFrame()
	}

	binSize := (rng.Max - rng.Min) / float64(n)
	frame := &HeatmapFrame{
		Cells:    make(map[CellKey]TimePriceCell),
		BinSize:  binSize,
		PriceMin: rng.Min,
		PriceMax: rng.Max,
		Interval: candleInterval(candles),
	}

	maxDistMs := cfg.MaxCandleDistance.Milliseconds()

	for _, ev := range events {
		// Out-of-range events are dropped, not clipped into edge bins.
		if ev.Price < rng.Min || ev.Price > rng.Max {
			continue
		}

		idx := int(math.Floor((ev.Price - rng.Min) / binSize))
		if idx < 0 {
			idx = 0
		}
		if idx > n-1 {
			idx = n - 1 // price exactly at Max lands in the top bin
		}

		t, distMs := nearestCandleTime(candles, ev.TimestampMs)
		if maxDistMs > 0 && distMs > maxDistMs {
			continue
		}

		key := CellKey{Time: t, PriceIndex: idx}
		cell, ok := frame.Cells[key]
		if !ok {
			cell = TimePriceCell{
				Time:       t,
				PriceIndex: idx,
				Price:      rng.Min + (float64(idx)+0.5)*binSize,
			}
		}
		cell.Volume += ev.AmountUSD
		frame.Cells[key] = cell

		if cell.Volume > frame.MaxVolume {
			frame.MaxVolume = cell.Volume
		}
	}

	return frame
}

// derivePriceRange prefers the observed liquidation price envelope
// (padded ±1%); with no events it falls back to the candle high/low
// envelope padded ±10%.
func derivePriceRange(candles []Candle, events []LiquidationEvent) PriceRange {
	if len(events) > 0 {
		lo, hi := math.Inf(1), math.Inf(-1)
		for _, ev := range events {
			lo = math.Min(lo, ev.Price)
			hi = math.Max(hi, ev.Price)
		}
		return PriceRange{Min: lo * (1 - eventRangePad), Max: hi * (1 + eventRangePad)}
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, c := range candles {
		lo = math.Min(lo, c.Low)
		hi = math.Max(hi, c.High)
	}
	return PriceRange{Min: lo * (1 - candleRangePad), Max: hi * (1 + candleRangePad)}
}

// nearestCandleTime finds the candle whose time is closest to the event
// timestamp via binary search over the ascending series. Ties break
// toward the earlier candle. Returns the candle time and the absolute
// distance in milliseconds.
func nearestCandleTime(candles []Candle, tsMs int64) (TimeKey, int64) {
	i := sort.Search(len(candles), func(i int) bool {
		return int64(candles[i].Time)*1000 >= tsMs
	})

	switch i {
	case 0:
		return candles[0].Time, absMs(tsMs, candles[0].Time)
	case len(candles):
		last := candles[len(candles)-1]
		return last.Time, absMs(tsMs, last.Time)
	}

	before, after := candles[i-1], candles[i]
	db, da := absMs(tsMs, before.Time), absMs(tsMs, after.Time)
	if db <= da {
		return before.Time, db
	}
	return after.Time, da
}

func absMs(tsMs int64, t TimeKey) int64 {
	d := tsMs - int64(t)*1000
	if d < 0 {
		return -d
	}
	return d
}

// candleInterval derives the series spacing from the first two candles.
// A single-candle series reports a one-hour default.
func candleInterval(candles []Candle) TimeKey {
	if len(candles) < 2 {
		return 3600
	}
	return candles[1].Time - candles[0].Time
}
