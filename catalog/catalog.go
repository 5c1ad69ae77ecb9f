package catalog

import (
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Enclair743/Kasir123/ledger"
	"github.com/Enclair743/Kasir123/models"
	"github.com/Enclair743/Kasir123/storage"
)

// Store owns every product record. Lookups go through a map keyed by
// (name, category), so uniqueness is enforced by the data structure
// itself. Every mutation persists through the backing ProductStore and
// is reverted in memory when the write fails, so the catalog on disk
// and the catalog in memory never diverge.
type Store struct {
	mu       sync.RWMutex
	products map[models.ProductKey]*models.Product
	store    storage.ProductStore
	removals *ledger.RemovalLedger
}

// NewStore loads the catalog from the backing store. Stock removals
// are recorded on the given removal ledger.
func NewStore(store storage.ProductStore, removals *ledger.RemovalLedger) (*Store, error) {
	loaded, err := store.Load()
	if err != nil {
		return nil, err
	}
	products := make(map[models.ProductKey]*models.Product, len(loaded))
	for i := range loaded {
		p := loaded[i]
		products[p.Key()] = &p
	}
	return &Store{products: products, store: store, removals: removals}, nil
}

// AddProduct creates a new product. Name and category must be
// non-empty, unit price positive, cost price and stock non-negative,
// and the (name, category) pair unused.
func (s *Store) AddProduct(name, category string, stock int, unitPrice, costPrice float64) (models.Product, error) {
	name = strings.TrimSpace(name)
	category = strings.TrimSpace(category)
	if name == "" || category == "" || unitPrice <= 0 || costPrice < 0 || stock < 0 {
		return models.Product{}, models.ErrValidation
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := models.ProductKey{Name: name, Category: category}
	if _, exists := s.products[key]; exists {
		return models.Product{}, fmt.Errorf("%w: %s (%s)", models.ErrDuplicate, name, category)
	}

	product := &models.Product{
		Name:      name,
		Category:  category,
		Stock:     stock,
		UnitPrice: unitPrice,
		CostPrice: costPrice,
	}
	s.products[key] = product
	if err := s.persistLocked(); err != nil {
		delete(s.products, key)
		return models.Product{}, err
	}
	return *product, nil
}

// AdjustStock applies a manual stock correction, positive or negative.
// The resulting stock may not go below zero.
func (s *Store) AdjustStock(key models.ProductKey, delta int) (models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, ok := s.products[key]
	if !ok {
		return models.Product{}, fmt.Errorf("%w: %s (%s)", models.ErrNotFound, key.Name, key.Category)
	}
	if product.Stock+delta < 0 {
		return models.Product{}, models.ErrInvalidQuantity
	}

	product.Stock += delta
	if err := s.persistLocked(); err != nil {
		product.Stock -= delta
		return models.Product{}, err
	}
	return *product, nil
}

// RemoveStock takes quantity units out of the catalog with an audited
// reason. Removing the full remaining stock deletes the product
// entirely; either way exactly one removal record is appended.
func (s *Store) RemoveStock(key models.ProductKey, quantity int, reason, actorID string) (models.RemovalRecord, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return models.RemovalRecord{}, fmt.Errorf("%w: reason is required", models.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	product, ok := s.products[key]
	if !ok {
		return models.RemovalRecord{}, fmt.Errorf("%w: %s (%s)", models.ErrNotFound, key.Name, key.Category)
	}
	if quantity < 1 || quantity > product.Stock {
		return models.RemovalRecord{}, models.ErrInvalidQuantity
	}

	record := models.RemovalRecord{
		ID:              uuid.NewString(),
		Name:            product.Name,
		Category:        product.Category,
		Stock:           product.Stock,
		UnitPrice:       product.UnitPrice,
		CostPrice:       product.CostPrice,
		QuantityRemoved: quantity,
		Reason:          reason,
		RemovedAt:       time.Now(),
		RemovedBy:       actorID,
	}

	before := *product
	if quantity == product.Stock {
		delete(s.products, key)
	} else {
		product.Stock -= quantity
	}

	if err := s.persistLocked(); err != nil {
		restored := before
		s.products[key] = &restored
		return models.RemovalRecord{}, err
	}
	if err := s.removals.Append(record); err != nil {
		// Put the stock back so catalog and ledger stay consistent.
		restored := before
		s.products[key] = &restored
		if perr := s.persistLocked(); perr != nil {
			log.Printf("catalog: failed to restore stock after ledger error: %v", perr)
		}
		return models.RemovalRecord{}, err
	}
	return record, nil
}

// Find returns the product for key.
func (s *Store) Find(key models.ProductKey) (models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	product, ok := s.products[key]
	if !ok {
		return models.Product{}, fmt.Errorf("%w: %s (%s)", models.ErrNotFound, key.Name, key.Category)
	}
	return *product, nil
}

// ListByCategory returns the products in one category, sorted by name.
func (s *Store) ListByCategory(category string) []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Product
	for _, p := range s.products {
		if p.Category == category {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Categories returns the distinct category names, sorted.
func (s *Store) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool)
	for _, p := range s.products {
		seen[p.Category] = true
	}
	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// All returns every product, sorted by category then name.
func (s *Store) All() []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// CommitSale re-validates every cart line against current stock and,
// only if all of them pass, decrements the stock and persists. Holding
// the lock across both phases is what stops two cashiers from selling
// the same last unit.
func (s *Store) CommitSale(lines []models.CartLine) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, line := range lines {
		product, ok := s.products[line.Key()]
		if !ok {
			return fmt.Errorf("%w: %s (%s)", models.ErrNotFound, line.Name, line.Category)
		}
		if product.Stock < line.Quantity {
			return fmt.Errorf("%w for %s", models.ErrInsufficientStock, line.Name)
		}
	}

	for _, line := range lines {
		s.products[line.Key()].Stock -= line.Quantity
	}
	if err := s.persistLocked(); err != nil {
		for _, line := range lines {
			s.products[line.Key()].Stock += line.Quantity
		}
		return err
	}
	return nil
}

// ReleaseSale puts the quantities of a failed commit back. Only the
// checkout engine calls this, when the transaction append fails after
// stock was already decremented.
func (s *Store) ReleaseSale(lines []models.CartLine) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, line := range lines {
		if product, ok := s.products[line.Key()]; ok {
			product.Stock += line.Quantity
			continue
		}
		// The product was fully removed in the meantime; rebuild it
		// from the line snapshot so the units are not lost.
		product := &models.Product{
			Name:      line.Name,
			Category:  line.Category,
			Stock:     line.Quantity,
			UnitPrice: line.UnitPrice,
			CostPrice: line.CostPrice,
		}
		s.products[product.Key()] = product
	}
	return s.persistLocked()
}

func (s *Store) persistLocked() error {
	return s.store.Replace(s.snapshotLocked())
}

func (s *Store) snapshotLocked() []models.Product {
	products := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		products = append(products, *p)
	}
	sort.Slice(products, func(i, j int) bool {
		if products[i].Category != products[j].Category {
			return products[i].Category < products[j].Category
		}
		return products[i].Name < products[j].Name
	})
	return products
}
