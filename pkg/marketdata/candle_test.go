package marketdata

import "testing"

// go test -v --run TestParseCandleRows
func TestParseCandleRows(t *testing.T) {
	rows := [][]string{
		{"1700003600000", "101", "111", "91", "106", "10", "1000"},
		{"1700000000000", "100", "110", "90", "105", "12", "1200"},
		{"not-a-number", "1", "2", "3", "4"}, // skipped
		{"1700007200000", "bad"},             // incomplete, skipped
	}

	candles := ParseCandleRows(rows)
	if len(candles) != 2 {
		t.Fatalf("expected 2 valid candles, got %d", len(candles))
	}
	if candles[0].Time != 1_700_000_000 {
		t.Errorf("expected ascending order starting 1700000000, got %v", candles[0].Time)
	}
	if candles[1].Close != 106 {
		t.Errorf("unexpected close %v", candles[1].Close)
	}
}

// go test -v --run TestParseLiquidationRows
func TestParseLiquidationRows(t *testing.T) {
	rows := []LiquidationRow{
		{Timestamp: 1700000000500, Symbol: "BTCUSDT", Side: "Buy", Size: "2", Price: "100"},
		{Timestamp: 1700000000600, Symbol: "BTCUSDT", Side: "Sell", Size: "oops", Price: "100"}, // skipped
		{Timestamp: 1700000000700, Symbol: "BTCUSDT", Side: "Sell", Size: "1", Price: "99.5"},
	}

	events := ParseLiquidationRows(rows)
	if len(events) != 2 {
		t.Fatalf("expected 2 valid events, got %d", len(events))
	}
	if events[0].AmountUSD != 200 {
		t.Errorf("expected notional 200, got %v", events[0].AmountUSD)
	}
	if events[1].Price != 99.5 {
		t.Errorf("unexpected price %v", events[1].Price)
	}
}

// go test -v --run TestParseCandleInterval
func TestParseCandleInterval(t *testing.T) {
	meta, err := ParseCandleInterval("60")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if meta.Seconds != 3600 {
		t.Errorf("expected 3600s for interval 60, got %d", meta.Seconds)
	}

	if _, err := ParseCandleInterval("7"); err == nil {
		t.Error("expected error for invalid interval")
	}
	if !Interval60Min.IsValid() {
		t.Error("expected 60 to be valid")
	}
}
