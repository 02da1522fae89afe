package tip

import (
	"context"
	"fmt"
	"math"

	"github.com/tipjar-labs/tipjar/internal/profile"
)

// Merge combines locally and remotely tracked stats by taking the larger value of each
// field. The two sides are updated independently, so neither is allowed to shrink the other.
func Merge(local, remote profile.WalletStats) profile.WalletStats {
	return profile.WalletStats{
		Earnings:  math.Max(local.Earnings, remote.Earnings),
		Balance:   math.Max(local.Balance, remote.Balance),
		Donations: max(local.Donations, remote.Donations),
	}
}

// Reconciler tracks the donor's tips locally for one handle.
type Reconciler struct {
	store  LocalStore
	handle string
}

// NewReconciler binds a Reconciler to the active user's handle.
func NewReconciler(store LocalStore, handle string) *Reconciler {
	return &Reconciler{store: store, handle: handle}
}

// Local returns the persisted local stats.
func (r *Reconciler) Local(ctx context.Context) (profile.WalletStats, error) {
	return r.store.Stats(ctx, r.handle)
}

// RecordLocalTip adds amount to local earnings and balance, counts one donation and
// persists the result.
func (r *Reconciler) RecordLocalTip(ctx context.Context, amount float64) (profile.WalletStats, error) {
	stats, err := r.store.Stats(ctx, r.handle)
	if err != nil {
		return profile.WalletStats{}, err
	}
	stats.Earnings += amount
	stats.Balance += amount
	stats.Donations++
	if err := r.store.SaveStats(ctx, r.handle, stats); err != nil {
		return profile.WalletStats{}, fmt.Errorf("record local tip: %w", err)
	}
	return stats, nil
}

// Reset clears the local stats.
func (r *Reconciler) Reset(ctx context.Context) error {
	return r.store.SaveStats(ctx, r.handle, profile.WalletStats{})
}

// Combined merges the local stats with remote.
func (r *Reconciler) Combined(ctx context.Context, remote profile.WalletStats) (profile.WalletStats, error) {
	local, err := r.store.Stats(ctx, r.handle)
	if err != nil {
		return profile.WalletStats{}, err
	}
	return Merge(local, remote), nil
}
