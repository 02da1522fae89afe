package tip

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tipjar-labs/tipjar/internal/profile"
)

func TestMergeTakesMaximumPerField(t *testing.T) {
	a := profile.WalletStats{Earnings: 3, Balance: 1, Donations: 7}
	b := profile.WalletStats{Earnings: 2, Balance: 4, Donations: 9}

	want := profile.WalletStats{Earnings: 3, Balance: 4, Donations: 9}
	assert.Equal(t, want, Merge(a, b))
	assert.Equal(t, Merge(a, b), Merge(b, a))
	assert.Equal(t, Merge(a, b), Merge(Merge(a, b), b))
	assert.Equal(t, a, Merge(a, a))
}

func newRedisLocalStore(t *testing.T) (*RedisLocalStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisLocalStore(client), mr
}

func TestReconcilerRecordsAndPersists(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisLocalStore(t)
	r := NewReconciler(store, "Amiy")

	_, err := r.RecordLocalTip(ctx, 0.5)
	require.NoError(t, err)
	stats, err := r.RecordLocalTip(ctx, 0.25)
	require.NoError(t, err)
	assert.Equal(t, profile.WalletStats{Earnings: 0.75, Balance: 0.75, Donations: 2}, stats)
	assert.True(t, mr.Exists("tipper:walletStats_amiy"))

	// A fresh reconciler over the same store sees the persisted values.
	reloaded, err := NewReconciler(store, "amiy").Local(ctx)
	require.NoError(t, err)
	assert.Equal(t, stats, reloaded)

	combined, err := r.Combined(ctx, profile.WalletStats{Earnings: 10, Balance: 0.1, Donations: 1})
	require.NoError(t, err)
	assert.Equal(t, profile.WalletStats{Earnings: 10, Balance: 0.75, Donations: 2}, combined)

	require.NoError(t, r.Reset(ctx))
	cleared, err := r.Local(ctx)
	require.NoError(t, err)
	assert.Equal(t, profile.WalletStats{}, cleared)
}

func TestRedisLocalStoreAddress(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisLocalStore(t)

	addr, err := store.Address(ctx, "amiy")
	require.NoError(t, err)
	assert.Empty(t, addr)

	require.NoError(t, store.SetAddress(ctx, "AMIY", remoteAddr))
	addr, err = store.Address(ctx, "amiy")
	require.NoError(t, err)
	assert.Equal(t, remoteAddr, addr)

	mr.SetError("READONLY")
	_, err = store.Address(ctx, "amiy")
	assert.Error(t, err)
}
