package catalog

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemStore is a mutex-guarded in-memory Store. It backs tests and local
// runs without Postgres; behavior matches the Postgres store.
type MemStore struct {
	mu       sync.RWMutex
	products map[string]*Product
}

func NewMemStore() *MemStore {
	return &MemStore{products: make(map[string]*Product)}
}

func (s *MemStore) List(_ context.Context, opts ListOptions) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Product, 0, len(s.products))
	for _, p := range s.products {
		if !p.IsActive {
			continue
		}
		if opts.Category != "" && p.Category != opts.Category {
			continue
		}
		if opts.InStock && !p.InStock {
			continue
		}
		out = append(out, *p)
	}

	switch opts.SortBy {
	case SortPriceLow:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case SortPriceHigh:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	case SortRating:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Rating > out[j].Rating })
	case SortNewest:
		sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	default:
		sort.SliceStable(out, func(i, j int) bool {
			return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
		})
	}

	limit := opts.Limit
	if limit == 0 {
		limit = DefaultListLimit
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemStore) Get(_ context.Context, id string) (*Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeLocked(id)
}

func (s *MemStore) Create(_ context.Context, p *Product) error {
	if err := p.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	p.IsActive = true
	p.InStock = p.Stock > 0

	cp := *p
	s.products[p.ID] = &cp
	return nil
}

func (s *MemStore) Update(_ context.Context, id string, upd Update) (*Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.activeLocked(id)
	if err != nil {
		return nil, err
	}

	next := *p
	if upd.Name != nil {
		next.Name = *upd.Name
	}
	if upd.Description != nil {
		next.Description = *upd.Description
	}
	if upd.Size != nil {
		next.Size = *upd.Size
	}
	if upd.Price != nil {
		next.Price = *upd.Price
	}
	if upd.OriginalPrice != nil {
		next.OriginalPrice = *upd.OriginalPrice
	}
	if upd.Image != nil {
		next.Image = *upd.Image
	}
	if upd.Category != nil {
		next.Category = *upd.Category
	}
	if upd.Rating != nil {
		next.Rating = *upd.Rating
	}
	if upd.Reviews != nil {
		next.Reviews = *upd.Reviews
	}
	if upd.Badge != nil {
		next.Badge = *upd.Badge
	}
	if err := next.Validate(); err != nil {
		return nil, err
	}
	next.UpdatedAt = time.Now().UTC()

	s.products[id] = &next
	cp := next
	return &cp, nil
}

func (s *MemStore) Deactivate(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.activeLocked(id)
	if err != nil {
		return err
	}
	p.IsActive = false
	p.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *MemStore) SetStock(_ context.Context, id string, stock int) (*Product, error) {
	if stock < 0 {
		return nil, errors.New("stock must not be negative")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.activeLocked(id)
	if err != nil {
		return nil, err
	}
	p.Stock = stock
	p.InStock = p.Stock > 0
	p.UpdatedAt = time.Now().UTC()
	cp := *p
	return &cp, nil
}

func (s *MemStore) AddStock(_ context.Context, id string, qty int) (*Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.activeLocked(id)
	if err != nil {
		return nil, err
	}
	if p.Stock+qty < 0 {
		return nil, ErrInsufficientStock
	}
	p.Stock += qty
	p.InStock = p.Stock > 0
	p.UpdatedAt = time.Now().UTC()
	cp := *p
	return &cp, nil
}

func (s *MemStore) RemoveStock(_ context.Context, id string, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.activeLocked(id)
	if err != nil {
		return err
	}
	if p.Stock < qty {
		return ErrInsufficientStock
	}
	p.Stock -= qty
	p.InStock = p.Stock > 0
	p.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *MemStore) LowStock(_ context.Context, threshold int) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Product
	for _, p := range s.products {
		if p.IsActive && p.Stock <= threshold {
			out = append(out, *p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Stock < out[j].Stock })
	return out, nil
}

func (s *MemStore) CountActive(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, p := range s.products {
		if p.IsActive {
			n++
		}
	}
	return n, nil
}

func (s *MemStore) CountLowStock(_ context.Context, threshold int) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, p := range s.products {
		if p.IsActive && p.Stock <= threshold {
			n++
		}
	}
	return n, nil
}

// activeLocked resolves an id to an active product. Callers hold s.mu.
func (s *MemStore) activeLocked(id string) (*Product, error) {
	p, ok := s.products[id]
	if !ok || !p.IsActive {
		return nil, ErrNotFound
	}
	return p, nil
}
