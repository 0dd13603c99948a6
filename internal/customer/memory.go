package customer

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemStore is a mutex-guarded in-memory Store used by tests and local
// runs without Postgres.
type MemStore struct {
	mu      sync.RWMutex
	byID    map[string]*Customer
	byEmail map[string]string // email -> id
}

func NewMemStore() *MemStore {
	return &MemStore{
		byID:    make(map[string]*Customer),
		byEmail: make(map[string]string),
	}
}

func (s *MemStore) List(_ context.Context, opts ListOptions) ([]Customer, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(opts.Search)
	var matched []Customer
	for _, c := range s.byID {
		if needle != "" &&
			!strings.Contains(strings.ToLower(c.Name), needle) &&
			!strings.Contains(strings.ToLower(c.Email), needle) &&
			!strings.Contains(c.Phone, opts.Search) {
			continue
		}
		matched = append(matched, *c)
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	limit, page := opts.Limit, opts.Page
	if limit <= 0 {
		limit = 50
	}
	if page <= 0 {
		page = 1
	}
	start := (page - 1) * limit
	if start >= total {
		return []Customer{}, total, nil
	}
	end := start + limit
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (s *MemStore) Get(_ context.Context, id string) (*Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := clone(c)
	return &cp, nil
}

func (s *MemStore) GetByEmail(_ context.Context, email string) (*Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[NormalizeEmail(email)]
	if !ok {
		return nil, ErrNotFound
	}
	cp := clone(s.byID[id])
	return &cp, nil
}

func (s *MemStore) Update(_ context.Context, id string, upd Update) (*Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	if upd.Name != nil {
		c.Name = *upd.Name
	}
	if upd.Phone != nil {
		c.Phone = *upd.Phone
	}
	if upd.Status != nil {
		c.Status = *upd.Status
	}
	if upd.LoyaltyPoints != nil {
		c.LoyaltyPoints = *upd.LoyaltyPoints
	}
	c.UpdatedAt = time.Now().UTC()
	cp := clone(c)
	return &cp, nil
}

func (s *MemStore) AddAddress(_ context.Context, id string, addr Address) (*Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	if addr.Type == "" {
		addr.Type = AddressHome
	}
	c.Addresses = append(c.Addresses, addr)
	c.UpdatedAt = time.Now().UTC()
	cp := clone(c)
	return &cp, nil
}

func (s *MemStore) RecordOrder(_ context.Context, contact Contact, orderID string, total float64) (*Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := NormalizeEmail(contact.Email)
	now := time.Now().UTC()

	if id, ok := s.byEmail[email]; ok {
		c := s.byID[id]
		c.TotalOrders++
		c.TotalSpent += total
		c.Orders = append(c.Orders, orderID)
		c.UpdatedAt = now
		cp := clone(c)
		return &cp, nil
	}

	c := &Customer{
		ID:    uuid.NewString(),
		Name:  contact.Name,
		Email: email,
		Phone: contact.Phone,
		Addresses: []Address{{
			Type:      AddressHome,
			Address:   contact.Address,
			IsDefault: true,
		}},
		Orders:      []string{orderID},
		TotalOrders: 1,
		TotalSpent:  total,
		Status:      StatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.byID[c.ID] = c
	s.byEmail[email] = c.ID
	cp := clone(c)
	return &cp, nil
}

func (s *MemStore) RevertOrder(_ context.Context, email, orderID string, total float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byEmail[NormalizeEmail(email)]
	if !ok {
		return ErrNotFound
	}
	c := s.byID[id]
	c.TotalOrders--
	c.TotalSpent -= total
	for i, ref := range c.Orders {
		if ref == orderID {
			c.Orders = append(c.Orders[:i], c.Orders[i+1:]...)
			break
		}
	}
	c.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *MemStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID), nil
}

func (s *MemStore) CountActive(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, c := range s.byID {
		if c.Status == StatusActive {
			n++
		}
	}
	return n, nil
}

func (s *MemStore) CountCreatedSince(_ context.Context, since time.Time) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, c := range s.byID {
		if !c.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func (s *MemStore) TopBySpend(_ context.Context, n int) ([]TopCustomer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]*Customer, 0, len(s.byID))
	for _, c := range s.byID {
		all = append(all, c)
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].TotalSpent > all[j].TotalSpent })
	if len(all) > n {
		all = all[:n]
	}

	out := make([]TopCustomer, 0, len(all))
	for _, c := range all {
		out = append(out, TopCustomer{
			Name: c.Name, Email: c.Email,
			TotalSpent: c.TotalSpent, TotalOrders: c.TotalOrders,
		})
	}
	return out, nil
}

func clone(c *Customer) Customer {
	cp := *c
	cp.Addresses = append([]Address(nil), c.Addresses...)
	cp.Orders = append([]string(nil), c.Orders...)
	return cp
}
