// Package store owns the canonical order collection.
//
// Orders are kept by ID in insertion order. Every accessor returns deep
// copies, so nothing outside this package can reach the stored values.
// Multi-order changes (a whole matching pass) go through Apply, which holds
// the write lock for the entire callback.
package store

import (
	"sync"

	"github.com/uhyunpark/orderdesk/pkg/app/core"
)

type Store struct {
	mu     sync.RWMutex
	orders map[string]*core.Order
	ids    []string // insertion order
}

func New() *Store {
	return &Store{
		orders: make(map[string]*core.Order),
	}
}

// Insert adds a new order. Fails with DuplicateIDError if the ID is taken.
func (s *Store) Insert(o core.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tx().Insert(o)
}

// Get returns a snapshot of the order or false.
func (s *Store) Get(id string) (core.Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tx().Get(id)
}

// Update replaces the stored order with fn applied to a copy of it. The
// stored value is left untouched when fn fails.
func (s *Store) Update(id string, fn func(*core.Order) error) (core.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tx().Update(id, fn)
}

// List returns snapshots of all orders in insertion order.
func (s *Store) List() []core.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]core.Order, 0, len(s.ids))
	s.tx().Scan(func(o core.Order) bool {
		out = append(out, o)
		return true
	})
	return out
}

// Scan calls fn with a snapshot of each order in insertion order until fn
// returns false. fn runs under the read lock and must not call back into s.
func (s *Store) Scan(fn func(core.Order) bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	s.tx().Scan(fn)
}

// Len returns the number of stored orders.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ids)
}

// Apply runs fn with exclusive access. Readers never observe the state
// between two mutations made inside fn.
//
// Mutations already made by fn are kept when it returns an error; callers
// validate before mutating.
func (s *Store) Apply(fn func(tx *Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.tx())
}

func (s *Store) tx() *Tx { return &Tx{s: s} }

// Tx is the lock-free view handed to Apply callbacks. It must not escape
// the callback.
type Tx struct {
	s *Store
}

func (tx *Tx) Insert(o core.Order) error {
	if _, exists := tx.s.orders[o.ID]; exists {
		return &core.DuplicateIDError{ID: o.ID}
	}
	cp := o.Clone()
	tx.s.orders[o.ID] = &cp
	tx.s.ids = append(tx.s.ids, o.ID)
	return nil
}

func (tx *Tx) Get(id string) (core.Order, bool) {
	o, ok := tx.s.orders[id]
	if !ok {
		return core.Order{}, false
	}
	return o.Clone(), true
}

// Exists reports whether id is taken without copying the order.
func (tx *Tx) Exists(id string) bool {
	_, ok := tx.s.orders[id]
	return ok
}

func (tx *Tx) Update(id string, fn func(*core.Order) error) (core.Order, error) {
	cur, ok := tx.s.orders[id]
	if !ok {
		return core.Order{}, &core.NotFoundError{ID: id}
	}
	next := cur.Clone()
	if err := fn(&next); err != nil {
		return core.Order{}, err
	}
	next.ID = id // the key is not mutable
	tx.s.orders[id] = &next
	return next.Clone(), nil
}

// Scan calls fn with a snapshot of each order in insertion order until fn
// returns false.
func (tx *Tx) Scan(fn func(core.Order) bool) {
	for _, id := range tx.s.ids {
		if !fn(tx.s.orders[id].Clone()) {
			return
		}
	}
}

// Len returns the number of stored orders.
func (tx *Tx) Len() int { return len(tx.s.ids) }
