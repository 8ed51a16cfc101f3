package wishlist

import (
	"context"
	"slices"
	"strconv"
	"sync"
	"time"

	pkgerrors "github.com/pgkim42/book-bean-frontend-sub000/pkg/errors"
)

// GuestStore keeps wishlisted book IDs for shoppers who are not logged in,
// in the order they were added.
type GuestStore interface {
	IDs(ctx context.Context, guestID string) ([]int64, error)
	Add(ctx context.Context, guestID string, bookID int64) error
	Remove(ctx context.Context, guestID string, bookID int64) error
	Clear(ctx context.Context, guestID string) error
}

type orderedStore interface {
	AddOrdered(ctx context.Context, key, member string, ttl time.Duration) error
	Ordered(ctx context.Context, key string) ([]string, error)
	RemoveOrdered(ctx context.Context, key, member string) error
	Del(ctx context.Context, keys ...string) error
	GuestWishlistKey(guestID string) string
}

// RedisGuestStore keeps each guest's wishlist in a Redis sorted set that
// expires after ttl of inactivity.
type RedisGuestStore struct {
	store orderedStore
	ttl   time.Duration
}

func NewRedisGuestStore(store orderedStore, ttl time.Duration) (*RedisGuestStore, error) {
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "redis store is required")
	}
	return &RedisGuestStore{store: store, ttl: ttl}, nil
}

func (r *RedisGuestStore) IDs(ctx context.Context, guestID string) ([]int64, error) {
	members, err := r.store.Ordered(ctx, r.store.GuestWishlistKey(guestID))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load guest wishlist")
	}
	ids := make([]int64, 0, len(members))
	for _, member := range members {
		id, err := strconv.ParseInt(member, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (r *RedisGuestStore) Add(ctx context.Context, guestID string, bookID int64) error {
	if err := r.store.AddOrdered(ctx, r.store.GuestWishlistKey(guestID), strconv.FormatInt(bookID, 10), r.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save guest wishlist")
	}
	return nil
}

func (r *RedisGuestStore) Remove(ctx context.Context, guestID string, bookID int64) error {
	if err := r.store.RemoveOrdered(ctx, r.store.GuestWishlistKey(guestID), strconv.FormatInt(bookID, 10)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update guest wishlist")
	}
	return nil
}

func (r *RedisGuestStore) Clear(ctx context.Context, guestID string) error {
	if err := r.store.Del(ctx, r.store.GuestWishlistKey(guestID)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear guest wishlist")
	}
	return nil
}

// MemoryGuestStore is a process-local GuestStore.
type MemoryGuestStore struct {
	mu     sync.Mutex
	guests map[string][]int64
}

func NewMemoryGuestStore() *MemoryGuestStore {
	return &MemoryGuestStore{guests: map[string][]int64{}}
}

func (m *MemoryGuestStore) IDs(ctx context.Context, guestID string) ([]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.guests[guestID]), nil
}

func (m *MemoryGuestStore) Add(ctx context.Context, guestID string, bookID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !slices.Contains(m.guests[guestID], bookID) {
		m.guests[guestID] = append(m.guests[guestID], bookID)
	}
	return nil
}

func (m *MemoryGuestStore) Remove(ctx context.Context, guestID string, bookID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.guests[guestID] = slices.DeleteFunc(m.guests[guestID], func(id int64) bool { return id == bookID })
	return nil
}

func (m *MemoryGuestStore) Clear(ctx context.Context, guestID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.guests, guestID)
	return nil
}
