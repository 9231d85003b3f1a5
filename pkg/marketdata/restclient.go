package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"liqheat/internal/heatmap"
)

type RESTClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewRESTClient(baseURL string, timeout time.Duration) *RESTClient {
	return &RESTClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *RESTClient) HTTPClient() *http.Client {
	return c.httpClient
}

// GetInstruments fetches the linear USDT instrument universe, one
// symbol per base coin.
func (c *RESTClient) GetInstruments(ctx context.Context) ([]string, error) {
	endpoint := c.baseURL + "/v5/market/instruments-info?category=linear&limit=1000"

	raw, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var result InstrumentListResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("decode result: %w", err)
	}

	seen := map[string]bool{}
	var symbols []string
	for _, inst := range result.List {
		if inst.QuoteCoin == "USDT" && !seen[inst.BaseCoin] {
			symbols = append(symbols, inst.Symbol)
			seen[inst.BaseCoin] = true
		}
	}
	return symbols, nil
}

// GetCandles fetches the most recent candle window for an instrument,
// returned ascending by time.
func (c *RESTClient) GetCandles(ctx context.Context, symbol, interval string, limit int) ([]heatmap.Candle, error) {
	meta, err := ParseCandleInterval(interval)
	if err != nil {
		return nil, err
	}

	end := time.Now()
	start := end.Add(-time.Duration(int64(limit)*meta.Seconds) * time.Second)

	endpoint := fmt.Sprintf(
		"%s/v5/market/kline?category=linear&symbol=%s&interval=%s&start=%d&end=%d&limit=%d",
		c.baseURL, symbol, meta.APIValue, start.UnixMilli(), end.UnixMilli(), limit,
	)

	raw, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var result CandlesResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("decode result: %w", err)
	}

	return ParseCandleRows(result.List), nil
}

// GetLiquidations fetches liquidation history for an instrument within
// the rolling window ending now.
func (c *RESTClient) GetLiquidations(ctx context.Context, symbol string, window time.Duration) ([]heatmap.LiquidationEvent, error) {
	end := time.Now()
	start := end.Add(-window)

	endpoint := fmt.Sprintf(
		"%s/v5/market/liquidations?category=linear&symbol=%s&start=%d&end=%d",
		c.baseURL, symbol, start.UnixMilli(), end.UnixMilli(),
	)

	raw, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var result LiquidationsResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("decode result: %w", err)
	}

	return ParseLiquidationRows(result.List), nil
}

// get performs a GET against an envelope endpoint and returns the raw
// result payload.
func (c *RESTClient) get(ctx context.Context, endpoint string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("backend error: %s", body)
	}

	var rawResp APIResponse
	if err := json.NewDecoder(resp.Body).Decode(&rawResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if rawResp.RetCode != 0 {
		return nil, fmt.Errorf("backend retCode %d: %s", rawResp.RetCode, rawResp.RetMsg)
	}

	return rawResp.Result, nil
}
