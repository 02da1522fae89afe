package wallet

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

const (
	// CodeUserRejected is the EIP-1193 code for a request the user declined.
	CodeUserRejected = 4001
	// CodeUnrecognizedChain is returned by wallet_switchEthereumChain when the wallet
	// does not know the requested chain.
	CodeUnrecognizedChain = 4902
)

var (
	// ErrUnrecognizedChain matches provider errors carrying CodeUnrecognizedChain.
	ErrUnrecognizedChain = errors.New("chain not registered in wallet")
	// ErrUserRejected matches provider errors carrying CodeUserRejected.
	ErrUserRejected = errors.New("request rejected in wallet")
	// ErrNoAccounts is returned when the wallet exposes no account to send from.
	ErrNoAccounts = errors.New("wallet returned no accounts")
)

// Provider is the subset of the EIP-1193 wallet API the tip flow drives.
type Provider interface {
	RequestAccounts(ctx context.Context) ([]common.Address, error)
	ChainID(ctx context.Context) (uint64, error)
	SwitchChain(ctx context.Context, chainID uint64) error
	AddChain(ctx context.Context, network Network) error
	SendTransaction(ctx context.Context, tx TransactionRequest) (common.Hash, error)
}

// TransactionRequest is an eth_sendTransaction payload for a native value transfer.
type TransactionRequest struct {
	From    common.Address `json:"from"`
	To      common.Address `json:"to"`
	Value   *hexutil.Big   `json:"value"`
	ChainID hexutil.Uint64 `json:"chainId"`
}

// SwitchChainParams is the wallet_switchEthereumChain payload.
type SwitchChainParams struct {
	ChainID hexutil.Uint64 `json:"chainId"`
}

// AddChainParams is the wallet_addEthereumChain payload.
type AddChainParams struct {
	ChainID           hexutil.Uint64 `json:"chainId"`
	ChainName         string         `json:"chainName"`
	NativeCurrency    NativeCurrency `json:"nativeCurrency"`
	RPCURLs           []string       `json:"rpcUrls"`
	BlockExplorerURLs []string       `json:"blockExplorerUrls"`
}

// NativeCurrency describes a chain's gas asset.
type NativeCurrency struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals uint8  `json:"decimals"`
}

// ProviderError is a JSON-RPC error reported by the wallet.
type ProviderError struct {
	Method  string
	Code    int
	Message string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s failed (code %d): %s", e.Method, e.Code, e.Message)
}

// Is lets errors.Is match the sentinel errors for well-known codes.
func (e *ProviderError) Is(target error) bool {
	switch target {
	case ErrUnrecognizedChain:
		return e.Code == CodeUnrecognizedChain
	case ErrUserRejected:
		return e.Code == CodeUserRejected
	}
	return false
}
