package match

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backrank/colosseum/pkg/internal/clock"
)

func newTestStore(t *testing.T, fake *clock.FakeClock) *Store {
	t.Helper()

	store := NewStore(StoreConfig{Clock: fake})
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStoreCreateAndGet(t *testing.T) {
	fake := clock.Fake(time.Unix(1000, 0))
	store := newTestStore(t, fake)

	created, err := store.Create(Record{ID: "m1", White: "alpha", Black: "beta", Moves: []string{"e2e4"}})
	require.NoError(t, err)

	assert.Equal(t, StatusInitializing, created.Status)
	assert.Equal(t, time.Unix(1000, 0), created.CreatedAt)
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)

	// Mutating a returned copy must not reach the stored record.
	got, err := store.Get("m1")
	require.NoError(t, err)
	got.Moves[0] = "mangled"

	again, err := store.Get("m1")
	require.NoError(t, err)
	assert.Equal(t, []string{"e2e4"}, again.Moves)
	assert.Equal(t, "alpha", again.White)
}

func TestStoreCreateDuplicate(t *testing.T) {
	store := newTestStore(t, clock.Fake(time.Unix(0, 0)))

	_, err := store.Create(Record{ID: "m1"})
	require.NoError(t, err)

	_, err = store.Create(Record{ID: "m1"})
	assert.ErrorIs(t, err, ErrExists)
}

func TestStoreGetMissing(t *testing.T) {
	store := newTestStore(t, clock.Fake(time.Unix(0, 0)))

	_, err := store.Get("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreUpdate(t *testing.T) {
	fake := clock.Fake(time.Unix(0, 0))
	store := newTestStore(t, fake)

	_, err := store.Create(Record{ID: "m1"})
	require.NoError(t, err)

	fake.Advance(time.Minute)

	updated, err := store.Update("m1", func(record *Record) {
		record.Status = StatusRunning
		record.Moves = append(record.Moves, "g1f3")
	})
	require.NoError(t, err)

	assert.Equal(t, StatusRunning, updated.Status)
	assert.Equal(t, time.Unix(0, 0), updated.CreatedAt)
	assert.Equal(t, time.Unix(60, 0), updated.UpdatedAt)

	got, err := store.Get("m1")
	require.NoError(t, err)
	assert.Equal(t, []string{"g1f3"}, got.Moves)
}

func TestStoreUpdateMissing(t *testing.T) {
	store := newTestStore(t, clock.Fake(time.Unix(0, 0)))

	_, err := store.Update("nope", func(*Record) {})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreDelete(t *testing.T) {
	store := newTestStore(t, clock.Fake(time.Unix(0, 0)))

	_, err := store.Create(Record{ID: "m1"})
	require.NoError(t, err)

	require.NoError(t, store.Delete("m1"))

	_, err = store.Get("m1")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, store.Delete("m1"), ErrNotFound)
}

func TestStoreListOrdered(t *testing.T) {
	fake := clock.Fake(time.Unix(0, 0))
	store := newTestStore(t, fake)

	_, err := store.Create(Record{ID: "zulu"})
	require.NoError(t, err)
	_, err = store.Create(Record{ID: "alpha"})
	require.NoError(t, err)

	fake.Advance(time.Minute)
	_, err = store.Create(Record{ID: "mike"})
	require.NoError(t, err)

	var ids []string
	for _, record := range store.List() {
		ids = append(ids, record.ID)
	}

	assert.Equal(t, []string{"alpha", "zulu", "mike"}, ids)
}

func TestStoreSweepEvictsStaleTerminalRecords(t *testing.T) {
	fake := clock.Fake(time.Unix(0, 0))
	store := newTestStore(t, fake)

	for _, record := range []Record{
		{ID: "done", Status: StatusCompleted},
		{ID: "failed", Status: StatusError},
		{ID: "live", Status: StatusRunning},
	} {
		_, err := store.Create(record)
		require.NoError(t, err)
	}

	// Let the sweeper arm its ticker, then jump past the retention
	// window.
	fake.WaitForWaiters(1)
	fake.Advance(DefaultRetention + DefaultSweepPeriod)

	require.Eventually(t, func() bool {
		_, err := store.Get("done")
		return errors.Is(err, ErrNotFound)
	}, time.Second, time.Millisecond)

	_, err := store.Get("failed")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.Get("live")
	assert.NoError(t, err, "live matches are never collected")
}

func TestStoreSweepKeepsFreshTerminalRecords(t *testing.T) {
	fake := clock.Fake(time.Unix(0, 0))
	store := newTestStore(t, fake)

	fake.WaitForWaiters(1)
	fake.Advance(DefaultRetention)

	_, err := store.Create(Record{ID: "fresh", Status: StatusCompleted})
	require.NoError(t, err)

	fake.Advance(DefaultSweepPeriod)

	_, err = store.Get("fresh")
	assert.NoError(t, err)
}

func TestStoreCloseIdempotent(t *testing.T) {
	store := NewStore(StoreConfig{Clock: clock.Fake(time.Unix(0, 0))})

	assert.NoError(t, store.Close())
	assert.NoError(t, store.Close())
}
