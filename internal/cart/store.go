package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/srrfarms/storefront/internal/pkg/cache"
)

// Storage keys are fixed: one cart and one session profile per scope.
const (
	KeyCart    = "cart"
	KeyProfile = "userProfile"
)

// Profile is the locally persisted session identity, prefilled into
// the checkout form. It is a convenience record, not a credential.
type Profile struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address,omitempty"`
}

// Storage persists raw JSON under a key. An empty value with a nil
// error means the key has never been written.
type Storage interface {
	Put(ctx context.Context, key string, value []byte) error
	Load(ctx context.Context, key string) ([]byte, error)
}

// Store wraps a cart state with persistence: every mutation is applied
// through the pure transition and written back before it is visible.
// Safe for concurrent use, though cart sessions are single-writer in
// practice.
type Store struct {
	mu      sync.Mutex
	state   State
	storage Storage
	scope   string
}

// NewStore loads any persisted cart for scope and returns a store over
// it. A missing or unreadable snapshot starts empty; the cart is a
// convenience, not a system of record.
func NewStore(ctx context.Context, storage Storage, scope string) (*Store, error) {
	s := &Store{storage: storage, scope: scope}
	raw, err := storage.Load(ctx, s.key(KeyCart))
	if err != nil {
		return nil, fmt.Errorf("cart: load: %w", err)
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &s.state); err != nil {
			s.state = State{}
		}
	}
	return s, nil
}

// Dispatch applies one action and persists the result.
func (s *Store) Dispatch(ctx context.Context, a Action) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := Apply(s.state, a)
	raw, err := json.Marshal(next)
	if err != nil {
		return s.state, fmt.Errorf("cart: encode: %w", err)
	}
	if err := s.storage.Put(ctx, s.key(KeyCart), raw); err != nil {
		return s.state, fmt.Errorf("cart: persist: %w", err)
	}
	s.state = next
	return next, nil
}

// State returns the current cart contents.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SaveProfile persists the session profile for checkout prefill.
func (s *Store) SaveProfile(ctx context.Context, p Profile) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("cart: encode profile: %w", err)
	}
	if err := s.storage.Put(ctx, s.key(KeyProfile), raw); err != nil {
		return fmt.Errorf("cart: persist profile: %w", err)
	}
	return nil
}

// LoadProfile returns the stored profile, or ok=false when none was
// ever saved.
func (s *Store) LoadProfile(ctx context.Context) (Profile, bool, error) {
	raw, err := s.storage.Load(ctx, s.key(KeyProfile))
	if err != nil {
		return Profile{}, false, fmt.Errorf("cart: load profile: %w", err)
	}
	if len(raw) == 0 {
		return Profile{}, false, nil
	}
	var p Profile
	if err := json.Unmarshal(raw, &p); err != nil {
		return Profile{}, false, fmt.Errorf("cart: decode profile: %w", err)
	}
	return p, true, nil
}

func (s *Store) key(name string) string {
	if s.scope == "" {
		return name
	}
	return s.scope + ":" + name
}

// MemStorage keeps values in process memory, for tests and ephemeral
// sessions.
type MemStorage struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemStorage() *MemStorage {
	return &MemStorage{data: make(map[string][]byte)}
}

func (m *MemStorage) Put(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *MemStorage) Load(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]byte(nil), m.data[key]...), nil
}

// CacheStorage persists cart state through the shared redis cache, one
// key per session scope, no expiry concerns beyond the cache's own.
type CacheStorage struct {
	Cache cache.Cache
}

func (c *CacheStorage) Put(ctx context.Context, key string, value []byte) error {
	return c.Cache.Set(ctx, c.Cache.GenerateKey("cart", key), string(value), 0)
}

func (c *CacheStorage) Load(ctx context.Context, key string) ([]byte, error) {
	v, err := c.Cache.Get(ctx, c.Cache.GenerateKey("cart", key))
	if err != nil {
		return nil, err
	}
	return []byte(v), nil
}
