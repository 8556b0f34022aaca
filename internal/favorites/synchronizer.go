package favorites

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/llehouerou/airwaves/internal/errmsg"
)

const defaultTimeout = 10 * time.Second

// List is a snapshot of the favorites.
type List struct {
	UserID      string
	StationIDs  []string
	Initialized bool
	// Reconciled is false while the list may diverge from the remote
	// store, e.g. after a failed fetch. An empty unreconciled list does not
	// mean the user has no favorites.
	Reconciled bool
}

// mutation is a remote call not yet settled.
type mutation struct {
	seq uint64
	add bool
}

// Synchronizer owns the local favorites list. Mutations apply locally at
// once and are persisted asynchronously; a failed remote call reverts its
// local change unless a newer command for the same station superseded it.
type Synchronizer struct {
	mu     sync.Mutex
	initMu sync.Mutex

	remote  Store
	ids     IdentityStore
	log     zerolog.Logger
	timeout time.Duration

	userID      string
	stations    []string
	initialized bool
	reconciled  bool

	seq     map[string]uint64
	pending map[string]mutation
	// dirty holds stations mutated since the current fetch started; the
	// fetched snapshot is not authoritative for them.
	dirty map[string]struct{}
	wg      sync.WaitGroup

	subs   []*Subscription
	subsMu sync.RWMutex
	closed bool
}

// Option configures a Synchronizer.
type Option func(*Synchronizer)

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Synchronizer) { s.log = l }
}

// WithTimeout bounds each remote call.
func WithTimeout(d time.Duration) Option {
	return func(s *Synchronizer) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// New creates a synchronizer. Nothing is loaded until Initialize.
func New(remote Store, ids IdentityStore, opts ...Option) *Synchronizer {
	s := &Synchronizer{
		remote:  remote,
		ids:     ids,
		log:     zerolog.Nop(),
		timeout: defaultTimeout,
		seq:     make(map[string]uint64),
		pending: make(map[string]mutation),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Initialize resolves the device identifier and fetches the remote list.
// A missing remote record yields an empty reconciled list. Other failures
// leave the list unreconciled and are returned; calling Initialize again
// retries the fetch. Once reconciled, Initialize does nothing.
func (s *Synchronizer) Initialize(ctx context.Context) error {
	s.initMu.Lock()
	defer s.initMu.Unlock()

	s.mu.Lock()
	if s.reconciled || s.closed {
		s.mu.Unlock()
		return nil
	}
	userID := s.userID
	s.mu.Unlock()

	if userID == "" {
		id, err := s.resolveUserID()
		if err != nil {
			s.log.Error().Err(err).Msg(errmsg.Format(errmsg.OpInitialize, err))
			return err
		}
		userID = id
		s.mu.Lock()
		s.userID = id
		s.initialized = true
		s.mu.Unlock()
	}

	s.mu.Lock()
	s.dirty = make(map[string]struct{}, len(s.pending))
	for id := range s.pending {
		s.dirty[id] = struct{}{}
	}
	s.mu.Unlock()

	fetchCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	rec, err := s.remote.Get(fetchCtx, userID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		s.mu.Lock()
		s.dirty = nil
		s.mu.Unlock()
		s.log.Warn().Err(err).Str("user", userID).Msg(errmsg.Format(errmsg.OpFavoritesLoad, err))
		return fmt.Errorf("fetch favorites: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.stations = s.overlayLocked(rec.StationIDs)
	s.dirty = nil
	s.reconciled = true
	s.log.Info().Str("user", userID).Int("count", len(s.stations)).Bool("new_user", err != nil).Msg("favorites loaded")
	s.broadcastLocked(Change{Reason: ReasonLoaded})
	return nil
}

// resolveUserID reads the stored identifier, generating and saving one on
// first use.
func (s *Synchronizer) resolveUserID() (string, error) {
	id, err := s.ids.UserID()
	if err != nil {
		return "", fmt.Errorf("read user id: %w", err)
	}
	if id != "" {
		return id, nil
	}
	id, err = s.ids.SaveUserID(uuid.NewString())
	if err != nil {
		return "", fmt.Errorf("save user id: %w", err)
	}
	s.log.Info().Str("user", id).Msg("generated user id")
	return id, nil
}

// overlayLocked merges a fetched list with the local one. Stations mutated
// since the fetch started, settled or not, keep their local membership.
func (s *Synchronizer) overlayLocked(fetched []string) []string {
	out := make([]string, 0, len(fetched)+len(s.dirty))
	for _, id := range fetched {
		if id == "" || slices.Contains(out, id) {
			continue
		}
		if _, ok := s.dirty[id]; ok && !slices.Contains(s.stations, id) {
			continue
		}
		out = append(out, id)
	}
	for _, id := range s.stations {
		if _, ok := s.dirty[id]; ok && !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}

// Add marks stationID as favorite. It is a no-op before Initialize or when
// already present.
func (s *Synchronizer) Add(stationID string) error {
	return s.mutate(stationID, true)
}

// Remove unmarks stationID. It is a no-op before Initialize or when absent.
func (s *Synchronizer) Remove(stationID string) error {
	return s.mutate(stationID, false)
}

// Toggle adds stationID when absent and removes it otherwise. It reports
// whether the station is a favorite afterwards.
func (s *Synchronizer) Toggle(stationID string) (bool, error) {
	if stationID == "" {
		return false, ErrInvalidStationID
	}
	s.mu.Lock()
	add := !slices.Contains(s.stations, stationID)
	s.mu.Unlock()
	if err := s.mutate(stationID, add); err != nil {
		return !add, err
	}
	return s.Contains(stationID), nil
}

func (s *Synchronizer) mutate(stationID string, add bool) error {
	if stationID == "" {
		return ErrInvalidStationID
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized || s.closed {
		return nil
	}
	if slices.Contains(s.stations, stationID) == add {
		return nil
	}

	reason := ReasonRemoved
	if add {
		s.stations = append(s.stations, stationID)
		reason = ReasonAdded
	} else {
		s.stations = slices.DeleteFunc(s.stations, func(id string) bool { return id == stationID })
	}

	s.seq[stationID]++
	m := mutation{seq: s.seq[stationID], add: add}
	s.pending[stationID] = m
	if s.dirty != nil {
		s.dirty[stationID] = struct{}{}
	}
	s.broadcastLocked(Change{Reason: reason, StationID: stationID})

	s.wg.Add(1)
	go s.persist(s.userID, stationID, m)
	return nil
}

// persist performs the remote call for m and settles it.
func (s *Synchronizer) persist(userID, stationID string, m mutation) {
	defer s.wg.Done()

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	var err error
	if m.add {
		_, err = s.remote.Add(ctx, userID, stationID)
	} else {
		_, err = s.remote.Remove(ctx, userID, stationID)
		// Removing from a record that never existed leaves the remote
		// state as intended.
		if errors.Is(err, ErrNotFound) {
			err = nil
		}
	}
	s.settle(stationID, m, err)
}

// settle applies the outcome of a remote call. A failure reverts the local
// change only if m is still the latest command for stationID and the list
// still reflects it.
func (s *Synchronizer) settle(stationID string, m mutation, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p, ok := s.pending[stationID]; ok && p.seq == m.seq {
		delete(s.pending, stationID)
	}
	if err == nil {
		return
	}

	op := errmsg.OpFavoriteRemove
	if m.add {
		op = errmsg.OpFavoriteAdd
	}

	if s.seq[stationID] != m.seq || slices.Contains(s.stations, stationID) != m.add {
		s.log.Debug().Err(err).Str("station", stationID).Msg("superseded favorites call failed")
		return
	}

	if m.add {
		s.stations = slices.DeleteFunc(s.stations, func(id string) bool { return id == stationID })
	} else {
		s.stations = append(s.stations, stationID)
	}
	s.log.Warn().Err(err).Str("station", stationID).Msg(errmsg.FormatWith(op, stationID, err) + "; reverted")
	s.broadcastLocked(Change{Reason: ReasonRolledBack, StationID: stationID, Err: err})
}

// Contains reports whether stationID is a favorite.
func (s *Synchronizer) Contains(stationID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Contains(s.stations, stationID)
}

// IDs returns the favorite station identifiers in insertion order.
func (s *Synchronizer) IDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.stations)
}

// List returns a snapshot of the favorites.
func (s *Synchronizer) List() List {
	s.mu.Lock()
	defer s.mu.Unlock()
	return List{
		UserID:      s.userID,
		StationIDs:  slices.Clone(s.stations),
		Initialized: s.initialized,
		Reconciled:  s.reconciled,
	}
}

// Subscribe creates a new event subscription.
func (s *Synchronizer) Subscribe() *Subscription {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	sub := newSubscription()
	s.subs = append(s.subs, sub)
	return sub
}

func (s *Synchronizer) broadcastLocked(c Change) {
	c.IDs = slices.Clone(s.stations)
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for _, sub := range s.subs {
		sub.send(c)
	}
}

// Wait blocks until every remote mutation issued so far has settled.
func (s *Synchronizer) Wait() {
	s.wg.Wait()
}

// Close waits for pending mutations and closes subscriptions. Later
// commands are ignored.
func (s *Synchronizer) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	s.wg.Wait()

	s.subsMu.Lock()
	for _, sub := range s.subs {
		sub.close()
	}
	s.subs = nil
	s.subsMu.Unlock()
	return nil
}
