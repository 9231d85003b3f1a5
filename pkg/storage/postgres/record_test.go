package postgres

import (
	"testing"
	"time"

	"liqheat/internal/heatmap"
)

// go test -v --run TestToCandleRecord
func TestToCandleRecord(t *testing.T) {
	c := heatmap.Candle{Time: 1_700_000_000, Open: 100, High: 110, Low: 90, Close: 105}

	rec := ToCandleRecord("BTCUSDT", "60", c)
	if rec.Symbol != "BTCUSDT" || rec.Interval != "60" {
		t.Errorf("unexpected key fields: %+v", rec)
	}
	if !rec.Start.Equal(time.Unix(1_700_000_000, 0)) {
		t.Errorf("unexpected start time %v", rec.Start)
	}
	if rec.Open != 100 || rec.High != 110 || rec.Low != 90 || rec.Close != 105 {
		t.Errorf("unexpected OHLC: %+v", rec)
	}
}

// go test -v --run TestToLiquidationRecord
func TestToLiquidationRecord(t *testing.T) {
	ev := heatmap.LiquidationEvent{
		Price:       99.5,
		AmountUSD:   4500,
		Side:        heatmap.SideSell,
		TimestampMs: 1_700_000_000_500,
	}

	rec := ToLiquidationRecord("ETHUSDT", ev)
	if rec.Symbol != "ETHUSDT" || rec.Side != "sell" {
		t.Errorf("unexpected key fields: %+v", rec)
	}
	if rec.Price != 99.5 || rec.AmountUSD != 4500 {
		t.Errorf("unexpected amounts: %+v", rec)
	}
	if !rec.Timestamp.Equal(time.UnixMilli(1_700_000_000_500)) {
		t.Errorf("unexpected timestamp %v", rec.Timestamp)
	}
}
