// Package reconcile folds two unreliable reading sources, a fixed-interval
// poll and an at-least-once push feed, into one monotonically advancing
// "latest unconsumed reading" signal.
package reconcile

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/light-bringer/deli-pos-service/internal/app/sales/contracts"
	"github.com/light-bringer/deli-pos-service/internal/app/sales/domain"
)

const (
	// DefaultPollInterval matches the counter UI refresh cadence.
	DefaultPollInterval = 3 * time.Second

	// ReadyCap bounds the "ready to add" list.
	ReadyCap = 50

	pollLimit = 50
)

// Reconciler tracks the newest unconsumed reading. Poll results and feed
// events race freely; the admission watermark is the sole arbiter, so stale
// or replayed rows are discarded rather than serialized.
type Reconciler struct {
	readings contracts.ReadingRepository
	feed     contracts.ReadingFeed
	log      *logrus.Logger
	interval time.Duration

	mu      sync.Mutex
	lastTS  time.Time
	lastID  string
	pending *domain.Reading
	ready   []domain.Reading
	paused  bool
}

func New(readings contracts.ReadingRepository, feed contracts.ReadingFeed, log *logrus.Logger) *Reconciler {
	return &Reconciler{
		readings: readings,
		feed:     feed,
		log:      log,
		interval: DefaultPollInterval,
	}
}

// WithInterval overrides the poll cadence.
func (r *Reconciler) WithInterval(d time.Duration) *Reconciler {
	r.interval = d
	return r
}

// Run polls on a ticker and consumes feed events until ctx is cancelled.
// Feed subscription failure is not fatal: polling alone is the source of
// truth of last resort.
func (r *Reconciler) Run(ctx context.Context) error {
	var events <-chan contracts.ReadingEvent
	if r.feed != nil {
		ch, err := r.feed.Subscribe(ctx)
		if err != nil {
			r.log.WithError(err).Warn("reading feed unavailable, polling only")
		} else {
			events = ch
		}
	}

	r.Poll(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			r.Poll(ctx)
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			r.Apply(ev.Reading)
		}
	}
}

// Poll reads the recent snapshot and reconciles it. Store errors retain the
// previous state.
func (r *Reconciler) Poll(ctx context.Context) {
	r.mu.Lock()
	paused := r.paused
	r.mu.Unlock()
	if paused {
		return
	}

	rows, err := r.readings.ListRecent(ctx, pollLimit)
	if err != nil {
		r.log.WithError(err).Warn("reading poll failed, keeping previous state")
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// The ready list is derived state, rebuilt from the snapshot. rows come
	// newest first from the store.
	ready := make([]domain.Reading, 0, ReadyCap)
	for _, row := range rows {
		if row.Bound() && row.Unconsumed() && len(ready) < ReadyCap {
			ready = append(ready, row)
		}
	}
	r.ready = ready

	// Replay the snapshot oldest first so the watermark advances in event
	// order.
	for i := len(rows) - 1; i >= 0; i-- {
		r.applyLocked(rows[i])
	}
}

// Apply runs one reading through the admission rule and updates the pending
// target. Safe to call from the feed path and from tests directly.
func (r *Reconciler) Apply(reading domain.Reading) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.applyLocked(reading)
}

func (r *Reconciler) applyLocked(reading domain.Reading) bool {
	if !r.admits(reading.Timestamp, reading.ID) {
		return false
	}
	r.lastTS = reading.Timestamp
	r.lastID = reading.ID

	switch {
	case reading.Unconsumed() && !reading.Bound():
		copied := reading
		r.pending = &copied
	case reading.Unconsumed() && reading.Bound():
		if r.pending != nil && r.pending.ID == reading.ID {
			r.pending = nil
		}
		r.addReadyLocked(reading)
	default: // consumed
		if r.pending != nil && r.pending.ID == reading.ID {
			r.pending = nil
		}
		r.removeReadyLocked(reading.ID)
	}
	return true
}

// admits implements the is-newer rule: strictly later timestamp, or the same
// timestamp with an id that sorts after the last applied one. Ids compare
// shorter-first, then bytewise, so decimal ids order numerically.
func (r *Reconciler) admits(ts time.Time, id string) bool {
	if ts.After(r.lastTS) {
		return true
	}
	return ts.Equal(r.lastTS) && idAfter(id, r.lastID)
}

func idAfter(a, b string) bool {
	if len(a) != len(b) {
		return len(a) > len(b)
	}
	return a > b
}

func (r *Reconciler) addReadyLocked(reading domain.Reading) {
	for i := range r.ready {
		if r.ready[i].ID == reading.ID {
			r.ready[i] = reading
			return
		}
	}
	r.ready = append([]domain.Reading{reading}, r.ready...)
	if len(r.ready) > ReadyCap {
		r.ready = r.ready[:ReadyCap]
	}
}

func (r *Reconciler) removeReadyLocked(id string) {
	for i := range r.ready {
		if r.ready[i].ID == id {
			r.ready = append(r.ready[:i], r.ready[i+1:]...)
			return
		}
	}
}

// Pending returns the association target, the newest unbound unconsumed
// reading admitted so far.
func (r *Reconciler) Pending() (domain.Reading, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pending == nil {
		return domain.Reading{}, false
	}
	return *r.pending, true
}

// Ready returns bound, unconsumed readings, newest first.
func (r *Reconciler) Ready() []domain.Reading {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Reading, len(r.ready))
	copy(out, r.ready)
	return out
}

// Drop forgets a reading locally, used when it has been folded into the
// cart. The store row is untouched.
func (r *Reconciler) Drop(readingID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pending != nil && r.pending.ID == readingID {
		r.pending = nil
	}
	r.removeReadyLocked(readingID)
}

// Pause suspends polling while the terminal is hidden. A resource control,
// not a correctness mechanism: the watermark still rejects stale rows after
// Resume.
func (r *Reconciler) Pause() {
	r.mu.Lock()
	r.paused = true
	r.mu.Unlock()
}

func (r *Reconciler) Resume() {
	r.mu.Lock()
	r.paused = false
	r.mu.Unlock()
}

// Rearm clears the local signal for the next sale. The watermark is kept so
// already-seen rows stay rejected.
func (r *Reconciler) Rearm() {
	r.mu.Lock()
	r.pending = nil
	r.ready = nil
	r.mu.Unlock()
}
