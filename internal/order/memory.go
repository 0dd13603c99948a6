package order

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemStore is a mutex-guarded in-memory Store. Order numbers come from a
// guarded counter, so they stay unique under concurrent creates.
type MemStore struct {
	mu     sync.RWMutex
	orders map[string]*Order
	seq    int64
}

func NewMemStore() *MemStore {
	return &MemStore{orders: make(map[string]*Order)}
}

func (s *MemStore) Create(_ context.Context, o *Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	s.seq++
	o.OrderNumber = FormatNumber(s.seq)

	now := time.Now().UTC()
	if o.CreatedAt.IsZero() {
		o.CreatedAt = now
	}
	o.UpdatedAt = now
	if o.Status == "" {
		o.Status = StatusPending
	}
	if o.PaymentStatus == "" {
		o.PaymentStatus = PaymentPending
	}
	if o.PaymentMethod == "" {
		o.PaymentMethod = PaymentUPI
	}
	o.RecomputeTotals()

	cp := cloneOrder(o)
	s.orders[o.ID] = &cp
	return nil
}

func (s *MemStore) Get(_ context.Context, id string) (*Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := cloneOrder(o)
	return &cp, nil
}

func (s *MemStore) List(_ context.Context, opts ListOptions) ([]Order, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []Order
	for _, o := range s.orders {
		if opts.Status != "" && o.Status != opts.Status {
			continue
		}
		matched = append(matched, cloneOrder(o))
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
		return []Order{}, total, nil
	}
	end := start + limit
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (s *MemStore) ListByEmail(_ context.Context, email string) ([]Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(email)
	var out []Order
	for _, o := range s.orders {
		if strings.ToLower(o.Customer.Email) == needle {
			out = append(out, cloneOrder(o))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *MemStore) UpdateStatus(_ context.Context, id string, status Status, trackingNumber string) (*Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	o.Status = status
	if trackingNumber != "" {
		o.TrackingNumber = trackingNumber
	}
	now := time.Now().UTC()
	if status == StatusDelivered {
		o.DeliveredAt = &now
	}
	o.UpdatedAt = now
	cp := cloneOrder(o)
	return &cp, nil
}

func (s *MemStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.orders[id]; !ok {
		return ErrNotFound
	}
	delete(s.orders, id)
	return nil
}

func (s *MemStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.orders), nil
}

func (s *MemStore) CountBetween(_ context.Context, from, to time.Time) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, o := range s.orders {
		if o.CreatedAt.Before(from) {
			continue
		}
		if !to.IsZero() && !o.CreatedAt.Before(to) {
			continue
		}
		n++
	}
	return n, nil
}

func (s *MemStore) Revenue(_ context.Context, since time.Time) (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sum := 0.0
	for _, o := range s.orders {
		if o.Status == StatusCancelled || o.CreatedAt.Before(since) {
			continue
		}
		sum += o.Total
	}
	return sum, nil
}

func (s *MemStore) TopProducts(_ context.Context, n int) ([]ProductSales, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byProduct := make(map[string]*ProductSales)
	for _, o := range s.orders {
		for _, it := range o.Items {
			ps, ok := byProduct[it.ProductID]
			if !ok {
				ps = &ProductSales{ProductID: it.ProductID, Name: it.Name}
				byProduct[it.ProductID] = ps
			}
			ps.UnitsSold += it.Quantity
			ps.Revenue += it.Total
		}
	}

	out := make([]ProductSales, 0, len(byProduct))
	for _, ps := range byProduct {
		out = append(out, *ps)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].UnitsSold > out[j].UnitsSold })
	if len(out) > n {
		out = out[:n]
	}
	return out, nil
}

func (s *MemStore) Recent(_ context.Context, n int) ([]Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Order, 0, len(s.orders))
	for _, o := range s.orders {
		out = append(out, cloneOrder(o))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > n {
		out = out[:n]
	}
	return out, nil
}

func (s *MemStore) SalesByDay(_ context.Context, since time.Time) ([]DailySales, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byDay := make(map[string]*DailySales)
	for _, o := range s.orders {
		if o.Status == StatusCancelled || o.CreatedAt.Before(since) {
			continue
		}
		day := o.CreatedAt.UTC().Format("2006-01-02")
		ds, ok := byDay[day]
		if !ok {
			ds = &DailySales{Date: day}
			byDay[day] = ds
		}
		ds.Orders++
		ds.Revenue += o.Total
	}

	out := make([]DailySales, 0, len(byDay))
	for _, ds := range byDay {
		out = append(out, *ds)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func cloneOrder(o *Order) Order {
	cp := *o
	cp.Items = append([]Item(nil), o.Items...)
	if o.DeliveredAt != nil {
		t := *o.DeliveredAt
		cp.DeliveredAt = &t
	}
	return cp
}
