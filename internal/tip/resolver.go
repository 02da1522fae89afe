package tip

import (
	"context"
	"log/slog"
	"strings"

	"github.com/tipjar-labs/tipjar/internal/profile"
)

// RemoteStore is the profile service as seen by the tip flow.
type RemoteStore interface {
	Fetch(ctx context.Context, handle string) (profile.ProfileResponse, error)
	UpdateWallet(ctx context.Context, handle, address string) (profile.ProfileResponse, error)
	RecordDonation(ctx context.Context, handle string, amount float64, fromAddress, idempotencyKey string) (profile.ProfileResponse, error)
}

// Resolver picks the recipient address for a handle. The remote profile wins over the
// local cache, which wins over an address supplied by the caller. A remote hit is
// written through to the cache; a cached address the remote lacks is forwarded to the
// remote so other devices converge on it. Supplied addresses are never stored.
type Resolver struct {
	remote RemoteStore
	local  LocalStore
	logger *slog.Logger
}

// NewResolver builds a Resolver.
func NewResolver(remote RemoteStore, local LocalStore, logger *slog.Logger) *Resolver {
	return &Resolver{remote: remote, local: local, logger: logger}
}

// Resolve returns the recipient address for handle, or "" when no source has one.
// Store failures are logged and treated as the source being unavailable.
func (r *Resolver) Resolve(ctx context.Context, handle, supplied string) string {
	handle = strings.TrimSpace(handle)
	log := r.logger.With(slog.String("handle", handle))

	remoteReachable := false
	p, err := r.remote.Fetch(ctx, handle)
	if err != nil {
		log.Warn("remote profile unavailable", slog.Any("error", err))
	} else {
		remoteReachable = true
		if p.WalletAddress != "" {
			if err := r.local.SetAddress(ctx, handle, p.WalletAddress); err != nil {
				log.Warn("cache recipient address", slog.Any("error", err))
			}
			log.Debug("recipient resolved", slog.String("source", "remote"))
			return p.WalletAddress
		}
	}

	cached, err := r.local.Address(ctx, handle)
	if err != nil {
		log.Warn("local address cache unavailable", slog.Any("error", err))
	}
	if cached != "" {
		if remoteReachable {
			if _, err := r.remote.UpdateWallet(ctx, handle, cached); err != nil {
				log.Warn("forward cached address to profile", slog.Any("error", err))
			}
		}
		log.Debug("recipient resolved", slog.String("source", "local"))
		return cached
	}

	// A caller-supplied address is used for this resolution only. Caching it would let
	// the next resolution forward it to the profile as the streamer's payout address.
	supplied = strings.TrimSpace(supplied)
	if supplied == "" {
		log.Info("no recipient address for handle")
		return ""
	}
	log.Debug("recipient resolved", slog.String("source", "caller"))
	return supplied
}
