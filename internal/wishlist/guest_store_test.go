package wishlist

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	pkgerrors "github.com/pgkim42/book-bean-frontend-sub000/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOrdered struct {
	sets map[string][]string
	ttls map[string]time.Duration
	err  error
}

func newFakeOrdered() *fakeOrdered {
	return &fakeOrdered{sets: map[string][]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeOrdered) AddOrdered(ctx context.Context, key, member string, ttl time.Duration) error {
	if f.err != nil {
		return f.err
	}
	if !slices.Contains(f.sets[key], member) {
		f.sets[key] = append(f.sets[key], member)
	}
	f.ttls[key] = ttl
	return nil
}

func (f *fakeOrdered) Ordered(ctx context.Context, key string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return slices.Clone(f.sets[key]), nil
}

func (f *fakeOrdered) RemoveOrdered(ctx context.Context, key, member string) error {
	f.sets[key] = slices.DeleteFunc(f.sets[key], func(m string) bool { return m == member })
	return nil
}

func (f *fakeOrdered) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.sets, key)
	}
	return nil
}

func (f *fakeOrdered) GuestWishlistKey(guestID string) string {
	return "bb:guest:" + guestID + ":wishlist"
}

func TestRedisGuestStoreRoundTrip(t *testing.T) {
	backing := newFakeOrdered()
	store, err := NewRedisGuestStore(backing, time.Hour)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, "g1", 9))
	require.NoError(t, store.Add(ctx, "g1", 2))
	require.NoError(t, store.Add(ctx, "g2", 5))
	backing.sets["bb:guest:g1:wishlist"] = append(backing.sets["bb:guest:g1:wishlist"], "not-a-number")

	ids, err := store.IDs(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, []int64{9, 2}, ids)
	assert.Equal(t, time.Hour, backing.ttls["bb:guest:g1:wishlist"])

	require.NoError(t, store.Remove(ctx, "g1", 9))
	ids, err = store.IDs(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, ids)

	require.NoError(t, store.Clear(ctx, "g1"))
	ids, err = store.IDs(ctx, "g1")
	require.NoError(t, err)
	assert.Empty(t, ids)

	ids, err = store.IDs(ctx, "g2")
	require.NoError(t, err)
	assert.Equal(t, []int64{5}, ids)
}

func TestRedisGuestStoreWrapsFailures(t *testing.T) {
	backing := newFakeOrdered()
	backing.err = errors.New("connection reset")
	store, err := NewRedisGuestStore(backing, time.Hour)
	require.NoError(t, err)

	_, err = store.IDs(context.Background(), "g1")
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeDependency))
	err = store.Add(context.Background(), "g1", 1)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeDependency))
}

func TestNewRedisGuestStoreRequiresStore(t *testing.T) {
	_, err := NewRedisGuestStore(nil, time.Hour)
	require.Error(t, err)
}
