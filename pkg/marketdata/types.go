package marketdata

import "encoding/json"

// APIResponse is the standard envelope the data backend wraps around
// every REST payload.
type APIResponse struct {
	RetCode    int                    `json:"retCode"`    // 0 means success
	RetMsg     string                 `json:"retMsg"`     // human-readable result or error
	Result     json.RawMessage        `json:"result"`     // payload, decoded per endpoint
	RetExtInfo map[string]interface{} `json:"retExtInfo"` // optional extra info
	Time       int64                  `json:"time"`       // server timestamp (ms)
}

// InstrumentListResponse is the tradable-symbol universe.
type InstrumentListResponse struct {
	Category       string `json:"category"`
	NextPageCursor string `json:"nextPageCursor"`
	List           []struct {
		Symbol    string `json:"symbol"`    // e.g. "BTCUSDT"
		BaseCoin  string `json:"baseCoin"`  // e.g. "BTC"
		QuoteCoin string `json:"quoteCoin"` // e.g. "USDT"
	} `json:"list"`
}

// CandlesResponse is the candle history payload: rows of
// [startMs, open, high, low, close, volume, turnover] as strings,
// newest first.
type CandlesResponse struct {
	Category       string     `json:"category"`
	NextPageCursor string     `json:"nextPageCursor"`
	List           [][]string `json:"list"`
}

// LiquidationsResponse is the liquidation history payload.
type LiquidationsResponse struct {
	Category string           `json:"category"`
	List     []LiquidationRow `json:"list"`
}

// LiquidationRow is one historical liquidation. Numeric fields are
// decimal strings, matching the stream payload encoding.
type LiquidationRow struct {
	Timestamp int64  `json:"updatedTime"` // execution time (ms)
	Symbol    string `json:"symbol"`
	Side      string `json:"side"` // "Buy" or "Sell"
	Size      string `json:"size"` // contracts
	Price     string `json:"price"`
}
