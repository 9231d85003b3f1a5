package app

import (
	"context"
	"testing"
	"time"

	"liqheat/internal/heatmap"
	"liqheat/internal/overlay"

	"go.uber.org/zap"
)

// stubFetcher serves one candle and one event per instrument, with the
// event notional taken from the data map.
type stubFetcher struct {
	data map[string]float64
}

func (f *stubFetcher) GetCandles(ctx context.Context, instrument, interval string, limit int) ([]heatmap.Candle, error) {
	return []heatmap.Candle{
		{Time: 1_700_000_000, Open: 100, High: 110, Low: 90, Close: 100},
	}, nil
}

func (f *stubFetcher) GetLiquidations(ctx context.Context, instrument string, window time.Duration) ([]heatmap.LiquidationEvent, error) {
	return []heatmap.LiquidationEvent{
		{Price: 100, AmountUSD: f.data[instrument], Side: heatmap.SideSell, TimestampMs: 1_700_000_000_000},
	}, nil
}

type stubSubscriber struct {
	topics [][]string
}

func (s *stubSubscriber) Resubscribe(topics []string) error {
	s.topics = append(s.topics, topics)
	return nil
}

// go test -v --run TestSwitchInstrument
func TestSwitchInstrument(t *testing.T) {
	fetcher := &stubFetcher{data: map[string]float64{"BTCUSDT": 1000, "ETHUSDT": 2500}}
	store := overlay.NewSnapshotStore("BTCUSDT")
	refresher := overlay.NewRefresher(store, fetcher, nil, overlay.RefresherConfig{BinCount: 50}, zap.NewNop())
	sub := &stubSubscriber{}
	a := &App{store: store, refresher: refresher, stream: sub, logger: zap.NewNop()}

	if err := refresher.Refresh(context.Background(), "BTCUSDT"); err != nil {
		t.Fatalf("initial refresh failed: %v", err)
	}
	if got := store.Frame().MaxVolume; got != 1000 {
		t.Fatalf("expected the first instrument's frame, got maxVolume %v", got)
	}

	if err := a.SwitchInstrument(context.Background(), "ETHUSDT"); err != nil {
		t.Fatalf("switch failed: %v", err)
	}

	if got := store.Instrument(); got != "ETHUSDT" {
		t.Errorf("store must track the new instrument, got %s", got)
	}
	if got := store.Frame().MaxVolume; got != 2500 {
		t.Errorf("expected the new instrument's frame, got maxVolume %v", got)
	}
	if len(sub.topics) != 1 || len(sub.topics[0]) != 1 || sub.topics[0][0] != "liquidation.ETHUSDT" {
		t.Errorf("expected a resubscription to liquidation.ETHUSDT, got %v", sub.topics)
	}
}
