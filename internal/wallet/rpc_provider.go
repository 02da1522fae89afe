package wallet

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
)

// RPCProvider talks to a wallet that exposes the EIP-1193 methods over JSON-RPC,
// such as a desktop wallet's local endpoint.
type RPCProvider struct {
	client *rpc.Client
}

// Dial connects to the wallet endpoint at url (http, ws or ipc).
func Dial(ctx context.Context, url string) (*RPCProvider, error) {
	client, err := rpc.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("dial wallet %s: %w", url, err)
	}
	return NewRPCProvider(client), nil
}

// NewRPCProvider wraps an existing RPC client.
func NewRPCProvider(client *rpc.Client) *RPCProvider {
	return &RPCProvider{client: client}
}

// Close releases the underlying connection.
func (p *RPCProvider) Close() {
	p.client.Close()
}

// RequestAccounts asks the wallet for the accounts the user has exposed.
func (p *RPCProvider) RequestAccounts(ctx context.Context) ([]common.Address, error) {
	var accounts []common.Address
	if err := p.call(ctx, &accounts, "eth_requestAccounts"); err != nil {
		return nil, err
	}
	return accounts, nil
}

// ChainID returns the wallet's active chain.
func (p *RPCProvider) ChainID(ctx context.Context) (uint64, error) {
	var id hexutil.Uint64
	if err := p.call(ctx, &id, "eth_chainId"); err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// SwitchChain asks the wallet to make chainID active.
func (p *RPCProvider) SwitchChain(ctx context.Context, chainID uint64) error {
	return p.call(ctx, nil, "wallet_switchEthereumChain", SwitchChainParams{ChainID: hexutil.Uint64(chainID)})
}

// AddChain registers network with the wallet.
func (p *RPCProvider) AddChain(ctx context.Context, network Network) error {
	return p.call(ctx, nil, "wallet_addEthereumChain", network.AddChainParams())
}

// SendTransaction submits tx for signing and broadcast. It returns once the wallet
// reports a transaction hash, which may wait on the user approving the request.
func (p *RPCProvider) SendTransaction(ctx context.Context, tx TransactionRequest) (common.Hash, error) {
	var hash common.Hash
	if err := p.call(ctx, &hash, "eth_sendTransaction", tx); err != nil {
		return common.Hash{}, err
	}
	return hash, nil
}

func (p *RPCProvider) call(ctx context.Context, result any, method string, args ...any) error {
	if err := p.client.CallContext(ctx, result, method, args...); err != nil {
		var rpcErr rpc.Error
		if errors.As(err, &rpcErr) {
			return &ProviderError{Method: method, Code: rpcErr.ErrorCode(), Message: rpcErr.Error()}
		}
		return fmt.Errorf("%s: %w", method, err)
	}
	return nil
}
