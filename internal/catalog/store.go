// store.go holds the authoritative in-memory product collection. The store
// is the sole owner of product state; every view derives from snapshots and
// never mutates the backing sequence.
package catalog

import (
	"fmt"
	"sync"
)

// Store is the mutex-guarded, insertion-ordered product collection.
// Order is significant: the default (unsorted) display shows products in
// the order they were added, and sorting is stable with respect to it.
type Store struct {
	mu       sync.RWMutex
	products []Product
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{}
}

// Add appends a product to the collection. It fails with ErrDuplicateID,
// leaving the collection unchanged, when the id is already present.
// Uniqueness is enforced here for manual adds only; bulk imports merge
// through BulkMerge, which deliberately does not check.
func (s *Store) Add(p Product) error {
	if err := ValidateProduct(p); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.products {
		if existing.ID == p.ID {
			return fmt.Errorf("product %q: %w", p.ID, ErrDuplicateID)
		}
	}
	s.products = append(s.products, p)
	return nil
}

// Update replaces the entry matching id in place, preserving its sequence
// position. An unknown id is a silent no-op; the return value reports
// whether a replacement happened.
func (s *Store) Update(id string, p Product) (bool, error) {
	if err := ValidateProduct(p); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.products {
		if existing.ID == id {
			s.products[i] = p
			return true, nil
		}
	}
	return false, nil
}

// Delete removes the first entry with the given id and reports whether one
// was found.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.products {
		if existing.ID == id {
			s.products = append(s.products[:i], s.products[i+1:]...)
			return true
		}
	}
	return false
}

// Get returns the first product with the given id.
func (s *Store) Get(id string) (Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

// BulkMerge appends the incoming ordered sequence to the end of the
// collection unconditionally. Id uniqueness is not checked: bulk import
// accepts duplicate ids. Returns the resulting collection size.
func (s *Store) BulkMerge(ps []Product) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.products = append(s.products, ps...)
	return len(s.products)
}

// Snapshot returns a copy of the collection in insertion order for
// projection and export. Mutating the returned slice does not affect the
// store.
func (s *Store) Snapshot() []Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := make([]Product, len(s.products))
	copy(snapshot, s.products)
	return snapshot
}

// Len returns the current collection size.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.products)
}

// Stats derives the dashboard statistics over the entire unfiltered
// collection: total count, count per availability value, and the price sum.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := Stats{Total: len(s.products)}
	for _, p := range s.products {
		switch p.Availability {
		case InStock:
			stats.InStock++
		case LowStock:
			stats.LowStock++
		case OutOfStock:
			stats.OutOfStock++
		}
		stats.TotalValue += p.Price
	}
	return stats
}

// Seed replaces the collection contents. Intended for startup demo data
// only; invalid entries are rejected as a whole.
func (s *Store) Seed(ps []Product) error {
	for _, p := range ps {
		if err := ValidateProduct(p); err != nil {
			return fmt.Errorf("seed product %q: %w", p.ID, err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.products = make([]Product, len(ps))
	copy(s.products, ps)
	return nil
}
