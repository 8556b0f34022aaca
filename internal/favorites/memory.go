package favorites

import (
	"context"
	"slices"
	"sync"
)

// MemoryStore is an in-memory Store. Failures can be injected per
// operation, and calls are counted, for tests.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string][]string

	getErr    error
	addErr    error
	removeErr error
	hold      chan struct{}
	getHold   chan struct{}

	gets    int
	adds    []string
	removes []string
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string][]string)}
}

func (m *MemoryStore) Get(ctx context.Context, userID string) (Record, error) {
	// The snapshot is taken when the call arrives, as a server reading its
	// rows before a slow response would.
	m.mu.Lock()
	m.gets++
	fail := m.getErr
	hold := m.getHold
	ids, ok := m.records[userID]
	ids = slices.Clone(ids)
	m.mu.Unlock()
	if err := wait(ctx, hold); err != nil {
		return Record{}, err
	}
	if fail != nil {
		return Record{}, fail
	}
	if !ok {
		return Record{}, ErrNotFound
	}
	return Record{UserID: userID, StationIDs: ids}, nil
}

func (m *MemoryStore) Add(ctx context.Context, userID, stationID string) (Record, error) {
	if stationID == "" {
		return Record{}, ErrInvalidStationID
	}
	m.mu.Lock()
	m.adds = append(m.adds, stationID)
	fail := m.addErr
	hold := m.hold
	m.mu.Unlock()
	if err := wait(ctx, hold); err != nil {
		return Record{}, err
	}
	if fail != nil {
		return Record{}, fail
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	ids := m.records[userID]
	if !slices.Contains(ids, stationID) {
		ids = append(ids, stationID)
	}
	m.records[userID] = ids
	return Record{UserID: userID, StationIDs: slices.Clone(ids)}, nil
}

func (m *MemoryStore) Remove(ctx context.Context, userID, stationID string) (Record, error) {
	if stationID == "" {
		return Record{}, ErrInvalidStationID
	}
	m.mu.Lock()
	m.removes = append(m.removes, stationID)
	fail := m.removeErr
	hold := m.hold
	m.mu.Unlock()
	if err := wait(ctx, hold); err != nil {
		return Record{}, err
	}
	if fail != nil {
		return Record{}, fail
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	ids, ok := m.records[userID]
	if !ok {
		return Record{}, ErrNotFound
	}
	ids = slices.DeleteFunc(ids, func(id string) bool { return id == stationID })
	m.records[userID] = ids
	return Record{UserID: userID, StationIDs: slices.Clone(ids)}, nil
}

// wait blocks until hold is closed, if set.
func wait(ctx context.Context, hold chan struct{}) error {
	if hold == nil {
		return nil
	}
	select {
	case <-hold:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Test helpers

// Seed sets the record of userID.
func (m *MemoryStore) Seed(userID string, ids ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[userID] = slices.Clone(ids)
}

// Hold makes Add and Remove block until Release.
func (m *MemoryStore) Hold() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hold = make(chan struct{})
}

// Release unblocks calls held by Hold.
func (m *MemoryStore) Release() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.hold != nil {
		close(m.hold)
		m.hold = nil
	}
}

// HoldGet makes Get block until ReleaseGet. The returned record is the
// one stored when Get was called.
func (m *MemoryStore) HoldGet() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getHold = make(chan struct{})
}

// ReleaseGet unblocks calls held by HoldGet.
func (m *MemoryStore) ReleaseGet() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getHold != nil {
		close(m.getHold)
		m.getHold = nil
	}
}

func (m *MemoryStore) SetGetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getErr = err
}

func (m *MemoryStore) SetAddError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.addErr = err
}

func (m *MemoryStore) SetRemoveError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removeErr = err
}

func (m *MemoryStore) Gets() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gets
}

func (m *MemoryStore) Adds() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.adds)
}

func (m *MemoryStore) Removes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.removes)
}

// Record returns the stored ids of userID and whether a record exists.
func (m *MemoryStore) Record(userID string) ([]string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids, ok := m.records[userID]
	return slices.Clone(ids), ok
}

// Verify MemoryStore implements Store at compile time.
var _ Store = (*MemoryStore)(nil)
