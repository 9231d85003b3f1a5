package stream

// LiquidationMessage is a WebSocket push on a "liquidation.<SYMBOL>"
// topic. Numeric fields arrive as strings, exchange style.
type LiquidationMessage struct {
	Topic string             `json:"topic"` // e.g. "liquidation.BTCUSDT"
	Type  string             `json:"type"`  // "snapshot" or "delta"
	Ts    int64              `json:"ts"`    // message timestamp (ms)
	Data  []LiquidationEntry `json:"data"`
}

// LiquidationEntry is one forced liquidation in the stream payload.
type LiquidationEntry struct {
	Timestamp int64  `json:"T"` // execution time (ms)
	Symbol    string `json:"s"`
	Side      string `json:"S"` // "Buy" or "Sell"
	Size      string `json:"v"` // contracts, decimal string
	Price     string `json:"p"` // decimal string
}
