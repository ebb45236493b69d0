// Copyright © 2026 The Colosseum Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package match

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/backrank/colosseum/pkg/internal/clock"
)

const (
	// DefaultRetention is how long a terminal record survives before
	// the sweeper may collect it.
	DefaultRetention = 2 * time.Hour

	// DefaultSweepPeriod is the interval between sweeps.
	DefaultSweepPeriod = 5 * time.Minute
)

var (
	ErrExists   = errors.New("match: record already exists")
	ErrNotFound = errors.New("match: record not found")
)

// StoreConfig tunes a Store. The zero value gives real time, the
// default retention window and the default sweep period.
type StoreConfig struct {
	Clock       clock.Clock
	Retention   time.Duration
	SweepPeriod time.Duration
}

// Store keeps match records in memory, keyed by their externally
// generated identifiers. A background goroutine evicts terminal
// records older than the retention window. Call Close to stop it.
type Store struct {
	mu      sync.Mutex
	records map[string]*Record

	clock     clock.Clock
	retention time.Duration
	period    time.Duration

	stopOnce sync.Once
	done     chan struct{}
}

// NewStore creates a Store and starts its sweeper.
func NewStore(config StoreConfig) *Store {
	store := &Store{
		records:   make(map[string]*Record),
		clock:     config.Clock,
		retention: config.Retention,
		period:    config.SweepPeriod,
		done:      make(chan struct{}),
	}

	if store.clock == nil {
		store.clock = clock.Real()
	}
	if store.retention <= 0 {
		store.retention = DefaultRetention
	}
	if store.period <= 0 {
		store.period = DefaultSweepPeriod
	}

	go store.sweep()
	return store
}

// Create inserts a new record under record.ID, stamping its
// timestamps and defaulting its status to INITIALIZING.
func (store *Store) Create(record Record) (Record, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	if _, ok := store.records[record.ID]; ok {
		return Record{}, ErrExists
	}

	now := store.clock.Now()
	record.CreatedAt = now
	record.UpdatedAt = now
	if record.Status == "" {
		record.Status = StatusInitializing
	}

	stored := record.clone()
	store.records[record.ID] = &stored
	return record.clone(), nil
}

// Get returns a copy of the record with the given identifier.
func (store *Store) Get(id string) (Record, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	record, ok := store.records[id]
	if !ok {
		return Record{}, ErrNotFound
	}

	return record.clone(), nil
}

// Update applies mutate to the stored record under its lock, stamps
// the update time and returns a copy of the result.
func (store *Store) Update(id string, mutate func(*Record)) (Record, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	record, ok := store.records[id]
	if !ok {
		return Record{}, ErrNotFound
	}

	mutate(record)
	record.UpdatedAt = store.clock.Now()
	return record.clone(), nil
}

// Delete removes the record with the given identifier.
func (store *Store) Delete(id string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	if _, ok := store.records[id]; !ok {
		return ErrNotFound
	}

	delete(store.records, id)
	return nil
}

// List returns copies of every record, oldest first.
func (store *Store) List() []Record {
	store.mu.Lock()
	defer store.mu.Unlock()

	list := make([]Record, 0, len(store.records))
	for _, record := range store.records {
		list = append(list, record.clone())
	}

	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.Before(list[j].CreatedAt)
		}
		return list[i].ID < list[j].ID
	})

	return list
}

// Close stops the sweeper. Safe to call multiple times.
func (store *Store) Close() error {
	store.stopOnce.Do(func() { close(store.done) })
	return nil
}

// sweep periodically evicts terminal records past their retention.
func (store *Store) sweep() {
	ticker := store.clock.NewTicker(store.period)
	defer ticker.Stop()

	for {
		select {
		case <-store.done:
			return
		case <-ticker.C:
			store.evictStale()
		}
	}
}

// evictStale drops terminal records whose last update is older than
// the retention window. Live matches are never collected.
func (store *Store) evictStale() {
	store.mu.Lock()
	defer store.mu.Unlock()

	cutoff := store.clock.Now().Add(-store.retention)
	for id, record := range store.records {
		if record.Terminal() && record.UpdatedAt.Before(cutoff) {
			delete(store.records, id)
		}
	}
}
