package app

import (
	"context"
	"fmt"
	"time"

	"liqheat/config"
	"liqheat/internal/overlay"
	"liqheat/internal/stream"
	"liqheat/pkg/marketdata"
	"liqheat/pkg/storage/postgres"

	"go.uber.org/zap"
)

// streamSubscriber is the slice of the WebSocket client the app needs
// for instrument switches.
type streamSubscriber interface {
	Resubscribe(topics []string) error
}

// App holds the running pipeline and exposes instrument switching.
type App struct {
	store     *overlay.SnapshotStore
	refresher *overlay.Refresher
	stream    streamSubscriber
	logger    *zap.Logger
}

// SwitchInstrument retargets the pipeline at a new instrument: the
// store drops the old inputs and shows an empty frame, the stream
// moves to the new liquidation topic, and a fresh refresh repopulates
// the overlay. Responses still in flight for the old instrument are
// rejected at the store.
func (a *App) SwitchInstrument(ctx context.Context, symbol string) error {
	a.store.SwitchInstrument(symbol)
	if err := a.stream.Resubscribe([]string{marketdata.LiquidationTopic(symbol)}); err != nil {
		a.logger.Warn("stream resubscribe failed, reconnect will recover",
			zap.String("instrument", symbol), zap.Error(err))
	}
	return a.refresher.Refresh(ctx, symbol)
}

// Start wires the overlay pipeline for the configured instrument:
// REST history refresh, live liquidation stream, and the render loop
// painting against the demo chart view.
func Start(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	// Optional raw-input archive.
	var archive overlay.Archiver
	if cfg.Heatmap.ArchiveInputs {
		client, err := postgres.InitializeAndMigrate(cfg.Postgres, cfg.Log.Environment, true)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to DB: %w", err)
		}
		archive = client
	}

	restClient := marketdata.NewRESTClient(cfg.MarketData.REST.BaseURL, cfg.MarketData.REST.Timeout)

	// Validate the configured instrument against the tradable universe.
	instrument := cfg.Heatmap.Instrument
	{
		instCtx, cancel := context.WithTimeout(ctx, cfg.MarketData.REST.Timeout)
		symbols, err := restClient.GetInstruments(instCtx)
		cancel()
		if err != nil {
			logger.Warn("failed to load instrument list, trusting config", zap.Error(err))
		} else if !contains(symbols, instrument) {
			return nil, fmt.Errorf("unknown instrument %q", instrument)
		}
	}

	store := overlay.NewSnapshotStore(instrument)
	refresher := overlay.NewRefresher(store, restClient, archive, overlay.RefresherConfig{
		Interval:          cfg.Heatmap.Interval,
		CandleWindow:      cfg.Heatmap.CandleWindow,
		LiquidationWindow: cfg.Heatmap.LiquidationWindow,
		FetchTimeout:      cfg.MarketData.REST.Timeout,
		BinCount:          cfg.Heatmap.BinCount,
		MaxCandleDistance: cfg.Heatmap.MaxCandleDistance,
	}, logger)

	// First refresh up front so the view can frame the series.
	if err := refresher.Refresh(ctx, instrument); err != nil {
		logger.Warn("initial refresh failed, starting with empty frame", zap.Error(err))
	}

	view := overlay.NewLinearChartView(1280, 720)
	if _, candles, _ := store.Inputs(); len(candles) > 0 {
		view.FitSeries(candles)
	}

	surface := overlay.NewImageSurface(1280, 720)
	renderer := overlay.NewRenderer(store, view, surface, logger)

	// Live liquidation stream feeding the store between refreshes.
	wsClient := marketdata.NewWSClient(cfg.MarketData.WS.URL, logger)
	wsClient.SetMessageHandler(stream.MakeMessageHandler(logger, store, refresher))
	if err := wsClient.Connect([]string{marketdata.LiquidationTopic(instrument)}); err != nil {
		return nil, err
	}
	go wsClient.Listen(ctx)

	// Periodic history re-fetch.
	go refresher.Run(ctx, cfg.Heatmap.RefreshInterval)

	// Render loop on the configured frame cadence.
	frameRate := cfg.Heatmap.FrameRate
	if frameRate <= 0 {
		frameRate = 60
	}
	ticker := time.NewTicker(time.Second / time.Duration(frameRate))
	go func() {
		defer ticker.Stop()
		renderer.Run(ctx, ticker.C)
	}()

	// Periodically log the legend for visibility.
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-time.After(5 * time.Second):
				logger.Info("overlay state",
					zap.String("instrument", store.Instrument()),
					zap.Int("cells", len(store.Frame().Cells)),
					zap.String("legend", renderer.Legend()))
			}
		}
	}()

	return &App{
		store:     store,
		refresher: refresher,
		stream:    wsClient,
		logger:    logger,
	}, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
