package stream

import (
	"encoding/json"
	"strconv"
	"strings"

	"liqheat/internal/heatmap"
	"liqheat/internal/overlay"

	"go.uber.org/zap"
)

// Rebuilder rebins the store's inputs into a fresh frame. Satisfied by
// *overlay.Refresher.
type Rebuilder interface {
	Rebuild()
}

// MakeMessageHandler returns a WebSocket message handler that filters
// liquidation topics, converts entries to events, appends them to the
// store, and triggers a frame rebuild. Non-liquidation messages
// (subscription acks, other topics) are ignored.
func MakeMessageHandler(logger *zap.Logger, store *overlay.SnapshotStore, rebuilder Rebuilder) func(msg []byte) {
	return func(msg []byte) {
		var meta struct {
			Topic string `json:"topic"`
		}
		if err := json.Unmarshal(msg, &meta); err != nil {
			logger.Warn("failed to extract topic", zap.Error(err))
			return
		}
		if !isLiquidationTopic(meta.Topic) {
			return
		}

		var parsed LiquidationMessage
		if err := json.Unmarshal(msg, &parsed); err != nil {
			logger.Warn("failed to parse liquidation payload", zap.Error(err))
			return
		}
		symbol := extractSymbolFromTopic(parsed.Topic)

		events := make([]heatmap.LiquidationEvent, 0, len(parsed.Data))
		for _, entry := range parsed.Data {
			ev, err := toEvent(entry)
			if err != nil {
				logger.Warn("skipping malformed liquidation entry",
					zap.String("symbol", symbol), zap.Error(err))
				continue
			}
			events = append(events, ev)
		}
		if len(events) == 0 {
			return
		}

		// Events for an instrument the user already switched away from
		// are dropped at the store boundary.
		if !store.AppendLive(symbol, events...) {
			return
		}
		rebuilder.Rebuild()
	}
}

// toEvent converts a stream entry. Notional value is price * size,
// matching how the history endpoint reports amount_usd.
func toEvent(entry LiquidationEntry) (heatmap.LiquidationEvent, error) {
	price, err := strconv.ParseFloat(entry.Price, 64)
	if err != nil {
		return heatmap.LiquidationEvent{}, err
	}
	size, err := strconv.ParseFloat(entry.Size, 64)
	if err != nil {
		return heatmap.LiquidationEvent{}, err
	}

	side := heatmap.SideSell
	if strings.EqualFold(entry.Side, "Buy") {
		side = heatmap.SideBuy
	}

	return heatmap.LiquidationEvent{
		Price:       price,
		AmountUSD:   price * size,
		Side:        side,
		TimestampMs: entry.Timestamp,
	}, nil
}

// isLiquidationTopic returns true if the topic string indicates a
// liquidation stream.
func isLiquidationTopic(topic string) bool {
	return strings.HasPrefix(topic, "liquidation.")
}

// extractSymbolFromTopic parses the symbol from a topic like
// "liquidation.BTCUSDT".
func extractSymbolFromTopic(topic string) string {
	parts := strings.Split(topic, ".")
	if len(parts) == 2 {
		return parts[1]
	}
	return ""
}
