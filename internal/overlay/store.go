package overlay

import (
	"sync"
	"sync/atomic"
	"time"

	"liqheat/internal/heatmap"
)

// Snapshot is one refresh worth of raw inputs for a single instrument.
// Replaced wholesale; never mutated in place.
type Snapshot struct {
	Instrument string
	Candles    []heatmap.Candle
	Events     []heatmap.LiquidationEvent
	FetchedAt  time.Time
}

// SnapshotStore holds the latest inputs and the published frame for the
// active instrument. The frame reference is swapped atomically so the
// render loop always reads a complete, consistent frame while refreshes
// run concurrently. Responses for an instrument that is no longer
// active are rejected at the store boundary.
type SnapshotStore struct {
	mu         sync.RWMutex
	instrument string
	snapshot   *Snapshot
	live       []heatmap.LiquidationEvent // streamed since the last refresh
	stale      bool                       // last refresh failed; frame is old data

	frame atomic.Pointer[heatmap.HeatmapFrame]
}

func NewSnapshotStore(instrument string) *SnapshotStore {
	s := &SnapshotStore{instrument: instrument}
	s.frame.Store(heatmap.EmptyFrame())
	return s
}

// Instrument returns the currently active instrument.
func (s *SnapshotStore) Instrument() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.instrument
}

// SwitchInstrument makes a different instrument active. Inputs from the
// previous instrument are dropped and an empty frame is published until
// the next refresh lands; any in-flight refresh for the old instrument
// will be rejected by Replace.
func (s *SnapshotStore) SwitchInstrument(instrument string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if instrument == s.instrument {
		return
	}
	s.instrument = instrument
	s.snapshot = nil
	s.live = nil
	s.stale = false
	s.frame.Store(heatmap.EmptyFrame())
}

// Replace installs a completed refresh. Returns false when the snapshot
// belongs to an instrument that is no longer active; the caller must
// discard the response (last write wins keyed by instrument, not by
// request order).
func (s *SnapshotStore) Replace(snap *Snapshot, frame *heatmap.HeatmapFrame) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if snap.Instrument != s.instrument {
		return false
	}
	s.snapshot = snap
	s.live = nil
	s.stale = false
	s.frame.Store(frame)
	return true
}

// AppendLive adds streamed events on top of the current snapshot.
// Events for an inactive instrument are ignored.
func (s *SnapshotStore) AppendLive(instrument string, events ...heatmap.LiquidationEvent) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if instrument != s.instrument {
		return false
	}
	s.live = append(s.live, events...)
	return true
}

// Inputs returns the active instrument with copies of its candle series
// and full event list (snapshot plus live tail) for rebinning.
func (s *SnapshotStore) Inputs() (string, []heatmap.Candle, []heatmap.LiquidationEvent) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.snapshot == nil {
		return s.instrument, nil, append([]heatmap.LiquidationEvent(nil), s.live...)
	}

	candles := append([]heatmap.Candle(nil), s.snapshot.Candles...)
	events := make([]heatmap.LiquidationEvent, 0, len(s.snapshot.Events)+len(s.live))
	events = append(events, s.snapshot.Events...)
	events = append(events, s.live...)
	return s.instrument, candles, events
}

// PublishFrame swaps in a frame rebuilt from current inputs. Rejected
// when the instrument changed since the inputs were read.
func (s *SnapshotStore) PublishFrame(instrument string, frame *heatmap.HeatmapFrame) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if instrument != s.instrument {
		return false
	}
	s.frame.Store(frame)
	return true
}

// Frame returns the published frame. Never nil; lock-free for the
// render path.
func (s *SnapshotStore) Frame() *heatmap.HeatmapFrame {
	return s.frame.Load()
}

// MarkStale flags that the latest refresh attempt failed and the
// published frame is old data. The frame itself stays in place.
func (s *SnapshotStore) MarkStale(instrument string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if instrument != s.instrument {
		return
	}
	s.stale = true
}

// Stale reports whether the published frame outlived a failed refresh.
func (s *SnapshotStore) Stale() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stale
}
