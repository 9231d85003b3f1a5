package marketdata

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func envelope(t *testing.T, result interface{}) []byte {
	t.Helper()
	raw, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}
	body, err := json.Marshal(map[string]interface{}{
		"retCode": 0,
		"retMsg":  "OK",
		"result":  json.RawMessage(raw),
		"time":    time.Now().UnixMilli(),
	})
	if err != nil {
		t.Fatalf("marshal envelope: %v", err)
	}
	return body
}

// go test -v --run TestGetCandles
func TestGetCandles(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/v5/market/kline") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("symbol"); got != "BTCUSDT" {
			t.Errorf("unexpected symbol %q", got)
		}
		// Rows newest first, as the backend serves them.
		w.Write(envelope(t, map[string]interface{}{
			"category": "linear",
			"list": [][]string{
				{"1700003600000", "101", "111", "91", "106", "10", "1000"},
				{"1700000000000", "100", "110", "90", "105", "12", "1200"},
			},
		}))
	}))
	defer srv.Close()

	client := NewRESTClient(srv.URL, 5*time.Second)
	candles, err := client.GetCandles(context.Background(), "BTCUSDT", "60", 2)
	if err != nil {
		t.Fatalf("GetCandles returned error: %v", err)
	}

	if len(candles) != 2 {
		t.Fatalf("expected 2 candles, got %d", len(candles))
	}
	// Ascending by time regardless of wire order.
	if candles[0].Time != 1_700_000_000 || candles[1].Time != 1_700_003_600 {
		t.Errorf("candles not ascending: %v, %v", candles[0].Time, candles[1].Time)
	}
	if candles[0].Open != 100 || candles[0].High != 110 || candles[0].Low != 90 || candles[0].Close != 105 {
		t.Errorf("unexpected OHLC: %+v", candles[0])
	}
}

// go test -v --run TestGetLiquidations
func TestGetLiquidations(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/v5/market/liquidations") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write(envelope(t, map[string]interface{}{
			"category": "linear",
			"list": []map[string]interface{}{
				{"updatedTime": 1700000000500, "symbol": "BTCUSDT", "side": "Buy", "size": "2", "price": "100"},
				{"updatedTime": 1700000000900, "symbol": "BTCUSDT", "side": "Sell", "size": "0.5", "price": "99"},
			},
		}))
	}))
	defer srv.Close()

	client := NewRESTClient(srv.URL, 5*time.Second)
	events, err := client.GetLiquidations(context.Background(), "BTCUSDT", 24*time.Hour)
	if err != nil {
		t.Fatalf("GetLiquidations returned error: %v", err)
	}

	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].AmountUSD != 200 {
		t.Errorf("expected notional 200 (price*size), got %v", events[0].AmountUSD)
	}
	if events[1].AmountUSD != 49.5 {
		t.Errorf("expected notional 49.5, got %v", events[1].AmountUSD)
	}
	if events[0].TimestampMs != 1700000000500 {
		t.Errorf("unexpected timestamp %d", events[0].TimestampMs)
	}
}

// go test -v --run TestGetInstruments
func TestGetInstruments(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(envelope(t, map[string]interface{}{
			"category": "linear",
			"list": []map[string]string{
				{"symbol": "BTCUSDT", "baseCoin": "BTC", "quoteCoin": "USDT"},
				{"symbol": "BTCUSDC", "baseCoin": "BTC", "quoteCoin": "USDC"},
				{"symbol": "BTCPERP", "baseCoin": "BTC", "quoteCoin": "USDT"}, // duplicate base coin
				{"symbol": "ETHUSDT", "baseCoin": "ETH", "quoteCoin": "USDT"},
			},
		}))
	}))
	defer srv.Close()

	client := NewRESTClient(srv.URL, 5*time.Second)
	symbols, err := client.GetInstruments(context.Background())
	if err != nil {
		t.Fatalf("GetInstruments returned error: %v", err)
	}

	if len(symbols) != 2 {
		t.Fatalf("expected 2 symbols (USDT, deduped by base), got %v", symbols)
	}
	if symbols[0] != "BTCUSDT" || symbols[1] != "ETHUSDT" {
		t.Errorf("unexpected symbols %v", symbols)
	}
}

// go test -v --run TestRESTClientErrorEnvelope
func TestRESTClientErrorEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"retCode": 10001, "retMsg": "invalid symbol", "result": {}}`))
	}))
	defer srv.Close()

	client := NewRESTClient(srv.URL, 5*time.Second)
	if _, err := client.GetCandles(context.Background(), "NOPEUSDT", "60", 10); err == nil {
		t.Fatal("expected error for non-zero retCode")
	}
}
