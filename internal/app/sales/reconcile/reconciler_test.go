package reconcile

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/deli-pos-service/internal/app/sales/domain"
	"github.com/light-bringer/deli-pos-service/internal/pkg/logging"
	"github.com/light-bringer/deli-pos-service/internal/testkit"
)

var t0 = time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)

func newReconciler(readings *testkit.FakeReadings) *Reconciler {
	return New(readings, testkit.NewFakeFeed(), logging.NewNop())
}

func TestAdmissionRule(t *testing.T) {
	r := newReconciler(testkit.NewFakeReadings())

	t.Run("later timestamp admitted", func(t *testing.T) {
		require.True(t, r.Apply(domain.Reading{ID: "a", Timestamp: t0, Weight: 0.3}))
		require.True(t, r.Apply(domain.Reading{ID: "b", Timestamp: t0.Add(time.Second), Weight: 0.4}))
		got, ok := r.Pending()
		require.True(t, ok)
		assert.Equal(t, "b", got.ID)
	})

	t.Run("replay rejected", func(t *testing.T) {
		assert.False(t, r.Apply(domain.Reading{ID: "b", Timestamp: t0.Add(time.Second), Weight: 0.4}))
		assert.False(t, r.Apply(domain.Reading{ID: "a", Timestamp: t0, Weight: 0.3}))
	})
}

func TestSameInstantTieBreak(t *testing.T) {
	// Push and poll deliver two distinct readings carrying the same
	// timestamp. Ids order shorter-first then bytewise, so "12" sorts after
	// "5" and the outcome is the same regardless of arrival order.
	t.Run("ascending arrival", func(t *testing.T) {
		r := newReconciler(testkit.NewFakeReadings())
		require.True(t, r.Apply(domain.Reading{ID: "5", Timestamp: t0, Weight: 0.3}))
		require.True(t, r.Apply(domain.Reading{ID: "12", Timestamp: t0, Weight: 0.7}))
		got, _ := r.Pending()
		assert.Equal(t, "12", got.ID)
	})

	t.Run("descending arrival", func(t *testing.T) {
		r := newReconciler(testkit.NewFakeReadings())
		require.True(t, r.Apply(domain.Reading{ID: "12", Timestamp: t0, Weight: 0.7}))
		assert.False(t, r.Apply(domain.Reading{ID: "5", Timestamp: t0, Weight: 0.3}))
		got, _ := r.Pending()
		assert.Equal(t, "12", got.ID)
	})
}

func TestPollBuildsPendingAndReady(t *testing.T) {
	readings := testkit.NewFakeReadings(
		domain.Reading{ID: "r1", Timestamp: t0, Weight: 0.2},
		domain.Reading{ID: "r2", Timestamp: t0.Add(time.Second), Weight: 0.5, ProductID: "p1"},
		domain.Reading{ID: "r3", Timestamp: t0.Add(2 * time.Second), Weight: 0.8},
		domain.Reading{ID: "r4", Timestamp: t0.Add(3 * time.Second), Weight: 0.1, Consumed: true, SaleID: "s9"},
	)
	r := newReconciler(readings)
	r.Poll(context.Background())

	got, ok := r.Pending()
	require.True(t, ok)
	assert.Equal(t, "r3", got.ID, "newest unbound unconsumed reading is the target")

	ready := r.Ready()
	require.Len(t, ready, 1)
	assert.Equal(t, "r2", ready[0].ID)
}

func TestPollErrorRetainsState(t *testing.T) {
	readings := testkit.NewFakeReadings(
		domain.Reading{ID: "r1", Timestamp: t0, Weight: 0.2},
	)
	r := newReconciler(readings)
	r.Poll(context.Background())
	_, ok := r.Pending()
	require.True(t, ok)

	readings.ListErr = errors.New("store down")
	r.Poll(context.Background())
	got, ok := r.Pending()
	require.True(t, ok, "failed poll must not wipe state")
	assert.Equal(t, "r1", got.ID)
}

func TestReadyListCapped(t *testing.T) {
	r := newReconciler(testkit.NewFakeReadings())
	for i := 0; i < ReadyCap+10; i++ {
		r.Apply(domain.Reading{
			ID:        fmt.Sprintf("r%03d", i),
			Timestamp: t0.Add(time.Duration(i) * time.Second),
			Weight:    0.5,
			ProductID: "p1",
		})
	}
	ready := r.Ready()
	require.Len(t, ready, ReadyCap)
	assert.Equal(t, fmt.Sprintf("r%03d", ReadyCap+9), ready[0].ID, "newest first")
}

func TestConsumedEventClearsState(t *testing.T) {
	r := newReconciler(testkit.NewFakeReadings())
	r.Apply(domain.Reading{ID: "r1", Timestamp: t0, Weight: 0.5, ProductID: "p1"})
	require.Len(t, r.Ready(), 1)

	r.Apply(domain.Reading{ID: "r1", Timestamp: t0.Add(time.Second), Weight: 0.5, ProductID: "p1", Consumed: true, SaleID: "s1"})
	assert.Empty(t, r.Ready())
	_, ok := r.Pending()
	assert.False(t, ok)
}

func TestPauseSkipsPolling(t *testing.T) {
	readings := testkit.NewFakeReadings(
		domain.Reading{ID: "r1", Timestamp: t0, Weight: 0.2},
	)
	r := newReconciler(readings)

	r.Pause()
	r.Poll(context.Background())
	_, ok := r.Pending()
	assert.False(t, ok, "no polling while paused")

	r.Resume()
	r.Poll(context.Background())
	_, ok = r.Pending()
	assert.True(t, ok)
}

func TestRearmKeepsWatermark(t *testing.T) {
	r := newReconciler(testkit.NewFakeReadings())
	r.Apply(domain.Reading{ID: "r1", Timestamp: t0, Weight: 0.2})
	r.Rearm()

	_, ok := r.Pending()
	assert.False(t, ok)
	assert.False(t, r.Apply(domain.Reading{ID: "r1", Timestamp: t0, Weight: 0.2}), "rearm must not readmit old rows")
}

func TestRunConsumesFeed(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	feed := testkit.NewFakeFeed()
	r := New(testkit.NewFakeReadings(), feed, logging.NewNop()).WithInterval(time.Hour)

	done := make(chan struct{})
	go func() {
		_ = r.Run(ctx)
		close(done)
	}()

	feed.Emit("INSERT", domain.Reading{ID: "r1", Timestamp: t0, Weight: 0.4})
	require.Eventually(t, func() bool {
		got, ok := r.Pending()
		return ok && got.ID == "r1"
	}, time.Second, 10*time.Millisecond)

	cancel()
	<-done
}
