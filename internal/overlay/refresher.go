package overlay

import (
	"context"
	"sync"
	"time"

	"liqheat/internal/heatmap"

	"go.uber.org/zap"
)

// Fetcher pulls candle and liquidation history from the backend.
type Fetcher interface {
	GetCandles(ctx context.Context, instrument, interval string, limit int) ([]heatmap.Candle, error)
	GetLiquidations(ctx context.Context, instrument string, window time.Duration) ([]heatmap.LiquidationEvent, error)
}

// Archiver persists raw inputs after a successful refresh. Optional.
type Archiver interface {
	ArchiveCandles(ctx context.Context, instrument, interval string, candles []heatmap.Candle) error
	ArchiveLiquidations(ctx context.Context, instrument string, events []heatmap.LiquidationEvent) error
}

// RefresherConfig carries the refresh-path knobs.
type RefresherConfig struct {
	Interval          string        // candle interval, e.g. "60"
	CandleWindow      int           // number of candles per fetch (e.g. 168 hourly)
	LiquidationWindow time.Duration // rolling event history window
	FetchTimeout      time.Duration
	BinCount          int
	MaxCandleDistance time.Duration
}

// Refresher drives the fetch -> bin -> publish path. It never touches
// the render loop: a slow or failed fetch leaves the previous frame in
// place and the loop keeps painting it.
type Refresher struct {
	store   *SnapshotStore
	fetcher Fetcher
	archive Archiver // may be nil
	cfg     RefresherConfig
	logger  *zap.Logger

	// Last archived event timestamp per instrument. Successive fetch
	// windows overlap almost entirely, so the archive only receives
	// events past this mark.
	archiveMu    sync.Mutex
	archivedUpTo map[string]int64
}

func NewRefresher(store *SnapshotStore, fetcher Fetcher, archive Archiver,
	cfg RefresherConfig, logger *zap.Logger) *Refresher {
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 10 * time.Second
	}
	return &Refresher{
		store:        store,
		fetcher:      fetcher,
		archive:      archive,
		cfg:          cfg,
		logger:       logger,
		archivedUpTo: map[string]int64{},
	}
}

// Refresh fetches both inputs for the given instrument, bins them, and
// publishes the resulting frame. If the instrument was switched while
// the fetch was in flight the response is discarded.
func (r *Refresher) Refresh(ctx context.Context, instrument string) error {
	fetchCtx, cancel := context.WithTimeout(ctx, r.cfg.FetchTimeout)
	defer cancel()

	candles, err := r.fetcher.GetCandles(fetchCtx, instrument, r.cfg.Interval, r.cfg.CandleWindow)
	if err != nil {
		r.store.MarkStale(instrument)
		r.logger.Warn("candle fetch failed, keeping last frame",
			zap.String("instrument", instrument), zap.Error(err))
		return err
	}

	events, err := r.fetcher.GetLiquidations(fetchCtx, instrument, r.cfg.LiquidationWindow)
	if err != nil {
		r.store.MarkStale(instrument)
		r.logger.Warn("liquidation fetch failed, keeping last frame",
			zap.String("instrument", instrument), zap.Error(err))
		return err
	}

	snap := &Snapshot{
		Instrument: instrument,
		Candles:    candles,
		Events:     events,
		FetchedAt:  time.Now(),
	}
	frame := heatmap.BuildFrame(candles, events, r.binConfig())

	if !r.store.Replace(snap, frame) {
		r.logger.Info("discarding stale refresh for switched instrument",
			zap.String("instrument", instrument),
			zap.String("active", r.store.Instrument()))
		return nil
	}

	r.logger.Info("frame refreshed",
		zap.String("instrument", instrument),
		zap.Int("candles", len(candles)),
		zap.Int("events", len(events)),
		zap.Int("cells", len(frame.Cells)),
		zap.String("max_volume", heatmap.FormatVolume(frame.MaxVolume)))

	if r.archive != nil {
		r.archiveInputs(ctx, instrument, candles, events)
	}
	return nil
}

// Rebuild rebins the store's current inputs (snapshot plus live tail)
// and publishes the new frame. Used after streamed events arrive.
func (r *Refresher) Rebuild() {
	instrument, candles, events := r.store.Inputs()
	frame := heatmap.BuildFrame(candles, events, r.binConfig())
	r.store.PublishFrame(instrument, frame)
}

// Run refreshes immediately and then on every interval tick until the
// context is cancelled. Refresh failures are logged and retried on the
// next tick; the renderer keeps showing the last good frame meanwhile.
func (r *Refresher) Run(ctx context.Context, every time.Duration) {
	if every <= 0 {
		every = time.Minute
	}

	if err := r.Refresh(ctx, r.store.Instrument()); err != nil {
		r.logger.Warn("initial refresh failed", zap.Error(err))
	}

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := r.Refresh(ctx, r.store.Instrument()); err != nil {
				r.logger.Warn("scheduled refresh failed", zap.Error(err))
			}
		}
	}
}

func (r *Refresher) binConfig() heatmap.BinConfig {
	return heatmap.BinConfig{
		BinCount:          r.cfg.BinCount,
		MaxCandleDistance: r.cfg.MaxCandleDistance,
	}
}

func (r *Refresher) archiveInputs(ctx context.Context, instrument string,
	candles []heatmap.Candle, events []heatmap.LiquidationEvent) {

	dbCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := r.archive.ArchiveCandles(dbCtx, instrument, r.cfg.Interval, candles); err != nil {
		r.logger.Warn("failed to archive candles", zap.String("instrument", instrument), zap.Error(err))
	}

	fresh, mark := r.unarchivedEvents(instrument, events)
	if len(fresh) == 0 {
		return
	}
	if err := r.archive.ArchiveLiquidations(dbCtx, instrument, fresh); err != nil {
		r.logger.Warn("failed to archive liquidations", zap.String("instrument", instrument), zap.Error(err))
		return
	}
	r.advanceArchiveMark(instrument, mark)
}

// unarchivedEvents drops events at or before the instrument's archive
// mark and returns the survivors with the new candidate mark.
func (r *Refresher) unarchivedEvents(instrument string, events []heatmap.LiquidationEvent) ([]heatmap.LiquidationEvent, int64) {
	r.archiveMu.Lock()
	last := r.archivedUpTo[instrument]
	r.archiveMu.Unlock()

	fresh := make([]heatmap.LiquidationEvent, 0, len(events))
	mark := last
	for _, ev := range events {
		if ev.TimestampMs <= last {
			continue
		}
		fresh = append(fresh, ev)
		if ev.TimestampMs > mark {
			mark = ev.TimestampMs
		}
	}
	return fresh, mark
}

func (r *Refresher) advanceArchiveMark(instrument string, mark int64) {
	r.archiveMu.Lock()
	if mark > r.archivedUpTo[instrument] {
		r.archivedUpTo[instrument] = mark
	}
	r.archiveMu.Unlock()
}
