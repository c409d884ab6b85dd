package store

import (
	"context"
	"fmt"
	"maps"
	"sort"
	"strings"
	"sync"
	"time"

	scrapeerrors "travelscraper/offerworker/pkg/errors"
)

type destinationKey struct {
	name, country string
}

type offerKey struct {
	hotel         string
	destinationID int64
	agencyID      int64
	departure     string
	ret           string
	city          string
}

func keyOf(o StoredOffer) offerKey {
	return offerKey{
		hotel:         o.HotelName,
		destinationID: o.DestinationID,
		agencyID:      o.AgencyID,
		departure:     o.DepartureDate.Format(time.DateOnly),
		ret:           o.ReturnDate.Format(time.DateOnly),
		city:          o.DepartureCity,
	}
}

type memoryState struct {
	agencies     map[string]int64
	websites     map[int64]string
	destinations map[destinationKey]int64
	offers       map[offerKey]StoredOffer
	nextID       int64
}

func newMemoryState() *memoryState {
	return &memoryState{
		agencies:     map[string]int64{},
		websites:     map[int64]string{},
		destinations: map[destinationKey]int64{},
		offers:       map[offerKey]StoredOffer{},
	}
}

func (s *memoryState) clone() *memoryState {
	return &memoryState{
		agencies:     maps.Clone(s.agencies),
		websites:     maps.Clone(s.websites),
		destinations: maps.Clone(s.destinations),
		offers:       maps.Clone(s.offers),
		nextID:       s.nextID,
	}
}

// MemoryStore is an in-process catalog with the same semantics as the
// PostgreSQL store. Transactions work on a copy that replaces the
// committed state on Commit.
type MemoryStore struct {
	mu    sync.Mutex
	state *memoryState
	runs  []Run
}

// NewMemory creates an empty in-memory store
func NewMemory() *MemoryStore {
	return &MemoryStore{state: newMemoryState()}
}

func (s *MemoryStore) EnsureSchema(ctx context.Context) error {
	return nil
}

func (s *MemoryStore) Begin(ctx context.Context) (Tx, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &memoryTx{store: s, state: s.state.clone()}, nil
}

func (s *MemoryStore) RecordRun(ctx context.Context, run Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs = append(s.runs, run)
	return nil
}

func (s *MemoryStore) DeleteRunsBefore(ctx context.Context, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.runs[:0]
	var deleted int64
	for _, r := range s.runs {
		if r.StartedAt.Before(before) {
			deleted++
			continue
		}
		kept = append(kept, r)
	}
	s.runs = kept
	return deleted, nil
}

func (s *MemoryStore) CountOffers(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.state.offers), nil
}

func (s *MemoryStore) Close() error {
	return nil
}

// Offers returns the committed offers ordered by id
func (s *MemoryStore) Offers() []StoredOffer {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]StoredOffer, 0, len(s.state.offers))
	for _, o := range s.state.offers {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Runs returns the recorded run history
func (s *MemoryStore) Runs() []Run {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Run(nil), s.runs...)
}

type memoryTx struct {
	store *MemoryStore
	state *memoryState
	done  bool
}

func (t *memoryTx) GetOrCreateAgency(ctx context.Context, name, website string) (int64, error) {
	if strings.TrimSpace(name) == "" {
		return 0, constraintError("agency name is empty")
	}
	if id, ok := t.state.agencies[name]; ok {
		return id, nil
	}
	t.state.nextID++
	t.state.agencies[name] = t.state.nextID
	t.state.websites[t.state.nextID] = website
	return t.state.nextID, nil
}

func (t *memoryTx) GetOrCreateDestination(ctx context.Context, name, country string) (int64, error) {
	key := destinationKey{name, country}
	if id, ok := t.state.destinations[key]; ok {
		return id, nil
	}
	t.state.nextID++
	t.state.destinations[key] = t.state.nextID
	return t.state.nextID, nil
}

func (t *memoryTx) UpsertOffer(ctx context.Context, o StoredOffer) (bool, error) {
	if o.HotelName == "" {
		return false, constraintError("offers hotel_name is empty")
	}
	if !o.ReturnDate.After(o.DepartureDate) {
		return false, constraintError("offers_dates_check")
	}

	key := keyOf(o)
	if existing, ok := t.state.offers[key]; ok {
		o.ID = existing.ID
		t.state.offers[key] = o
		return false, nil
	}

	t.state.nextID++
	o.ID = t.state.nextID
	t.state.offers[key] = o
	return true, nil
}

func (t *memoryTx) Guard(ctx context.Context, fn func() error) error {
	snapshot := t.state.clone()
	if err := fn(); err != nil {
		t.state = snapshot
		return err
	}
	return nil
}

func (t *memoryTx) Commit() error {
	if t.done {
		return scrapeerrors.NewPersistence("", "commit", fmt.Errorf("transaction already finished"))
	}
	t.done = true

	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	t.store.state = t.state
	return nil
}

func (t *memoryTx) Rollback() error {
	t.done = true
	return nil
}

func constraintError(msg string) error {
	return scrapeerrors.NewPersistence("", msg, ErrConstraint)
}
