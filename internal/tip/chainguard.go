package tip

import (
	"context"
	"errors"
	"log/slog"

	"github.com/tipjar-labs/tipjar/internal/wallet"
)

// ChainGuard makes sure the wallet is on the network a tip must be sent on.
type ChainGuard struct {
	provider wallet.Provider
	logger   *slog.Logger
}

// NewChainGuard builds a ChainGuard for provider.
func NewChainGuard(provider wallet.Provider, logger *slog.Logger) *ChainGuard {
	return &ChainGuard{provider: provider, logger: logger}
}

// EnsureNetwork switches the wallet to network when it is on another chain. A wallet
// that does not know the chain is asked to register it and the switch is retried once.
func (g *ChainGuard) EnsureNetwork(ctx context.Context, network wallet.Network) error {
	current, err := g.provider.ChainID(ctx)
	if err != nil {
		return &ChainSwitchError{ChainID: network.ChainID, Step: "read", Err: err}
	}
	if current == network.ChainID {
		return nil
	}

	log := g.logger.With(slog.Uint64("from_chain", current), slog.Uint64("to_chain", network.ChainID))
	log.Info("switching wallet network")

	err = g.provider.SwitchChain(ctx, network.ChainID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, wallet.ErrUnrecognizedChain) {
		return &ChainSwitchError{ChainID: network.ChainID, Step: "switch", Err: err}
	}

	log.Info("registering network with wallet", slog.String("network", network.Name))
	if err := g.provider.AddChain(ctx, network); err != nil {
		return &ChainSwitchError{ChainID: network.ChainID, Step: "add", Err: err}
	}
	if err := g.provider.SwitchChain(ctx, network.ChainID); err != nil {
		return &ChainSwitchError{ChainID: network.ChainID, Step: "switch", Err: err}
	}
	return nil
}
