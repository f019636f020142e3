package session

import (
	"sync"

	"github.com/shopspring/decimal"
)

// Opening balances for a freshly created session.
var openingBalances = map[Account]decimal.Decimal{
	Checking: decimal.RequireFromString("2450.12"),
	Savings:  decimal.RequireFromString("8900.00"),
}

// Store owns all session state. Sessions are created lazily on first
// reference and live for the process lifetime.
//
// Every read-modify-write on one session runs under that session's own lock,
// so unrelated sessions never contend and a double-tapped confirm cannot
// interleave with another request on the same session.
type Store struct {
	mu      sync.Mutex
	entries map[string]*entry
}

type entry struct {
	mu      sync.Mutex
	session *Session
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{entries: make(map[string]*entry)}
}

func (s *Store) getOrCreate(id string) *entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[id]; ok {
		return e
	}
	balances := make(map[Account]decimal.Decimal, len(openingBalances))
	for account, amount := range openingBalances {
		balances[account] = amount
	}
	e := &entry{session: &Session{ID: id, Balances: balances}}
	s.entries[id] = e
	return e
}

// Update runs fn with exclusive access to the session's state, creating the
// session on first reference. State changes made by fn are kept even when fn
// returns an error; fn is expected to leave the session consistent on every
// path.
func (s *Store) Update(id string, fn func(*Session) error) error {
	e := s.getOrCreate(id)
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.session)
}

// View runs fn with exclusive read access to the session's state.
func (s *Store) View(id string, fn func(*Session)) {
	e := s.getOrCreate(id)
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(e.session)
}

// Snapshot returns a read-only copy of the session's provider-visible state.
func (s *Store) Snapshot(id string) Snapshot {
	var snap Snapshot
	s.View(id, func(sess *Session) {
		snap = sess.Snapshot()
	})
	return snap
}
