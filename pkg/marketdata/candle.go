package marketdata

import (
	"sort"
	"strconv"

	"liqheat/internal/heatmap"
)

// ParseCandleRows converts REST candle rows to an ascending candle
// series. Invalid rows are skipped. The API returns rows newest first;
// the binning and projection code expects ascending time.
func ParseCandleRows(raw [][]string) []heatmap.Candle {
	out := make([]heatmap.Candle, 0, len(raw))

	for _, row := range raw {
		if len(row) < 5 {
			continue // skip incomplete row
		}

		startMs, err := strconv.ParseInt(row[0], 10, 64)
		if err != nil {
			continue
		}
		open, err := strconv.ParseFloat(row[1], 64)
		if err != nil {
			continue
		}
		high, err := strconv.ParseFloat(row[2], 64)
		if err != nil {
			continue
		}
		low, err := strconv.ParseFloat(row[3], 64)
		if err != nil {
			continue
		}
		closeVal, err := strconv.ParseFloat(row[4], 64)
		if err != nil {
			continue
		}

		out = append(out, heatmap.Candle{
			// Chart time domain is seconds bucketed to the interval.
			Time:  heatmap.TimeKey(startMs / 1000),
			Open:  open,
			High:  high,
			Low:   low,
			Close: closeVal,
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Time < out[j].Time })
	return out
}

// ParseLiquidationRows converts history rows to events. Notional is
// price * size. Malformed rows are skipped.
func ParseLiquidationRows(rows []LiquidationRow) []heatmap.LiquidationEvent {
	out := make([]heatmap.LiquidationEvent, 0, len(rows))

	for _, row := range rows {
		price, err := strconv.ParseFloat(row.Price, 64)
		if err != nil {
			continue
		}
		size, err := strconv.ParseFloat(row.Size, 64)
		if err != nil {
			continue
		}

		side := heatmap.SideSell
		if row.Side == "Buy" || row.Side == "buy" {
			side = heatmap.SideBuy
		}

		out = append(out, heatmap.LiquidationEvent{
			Price:       price,
			AmountUSD:   price * size,
			Side:        side,
			TimestampMs: row.Timestamp,
		})
	}
	return out
}
