package wallet

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Network describes an EVM chain tips can be sent on, with everything a wallet needs
// to register it.
type Network struct {
	Name           string
	DisplayName    string
	ChainID        uint64
	NativeName     string
	NativeSymbol   string
	NativeDecimals uint8
	RPCURLs        []string
	ExplorerURLs   []string
}

var (
	// BaseSepolia is the default network tips are sent on.
	BaseSepolia = Network{
		Name:           "base-sepolia",
		DisplayName:    "Base Sepolia Testnet",
		ChainID:        84532,
		NativeName:     "ETH",
		NativeSymbol:   "ETH",
		NativeDecimals: 18,
		RPCURLs:        []string{"https://sepolia.base.org"},
		ExplorerURLs:   []string{"https://sepolia.basescan.org"},
	}

	BaseMainnet = Network{
		Name:           "base",
		DisplayName:    "Base",
		ChainID:        8453,
		NativeName:     "Ether",
		NativeSymbol:   "ETH",
		NativeDecimals: 18,
		RPCURLs:        []string{"https://mainnet.base.org"},
		ExplorerURLs:   []string{"https://basescan.org"},
	}

	supportedNetworks = []Network{BaseSepolia, BaseMainnet}
)

// NetworkByName looks up a supported network by name, case-insensitively.
func NetworkByName(name string) (Network, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, n := range supportedNetworks {
		if n.Name == name {
			return n, nil
		}
	}
	return Network{}, fmt.Errorf("unsupported network %q", name)
}

// ChainIDHex renders the chain id the way wallets expect it, e.g. 0x14a34.
func (n Network) ChainIDHex() string {
	return hexutil.EncodeUint64(n.ChainID)
}

// AddChainParams builds the wallet_addEthereumChain payload for n.
func (n Network) AddChainParams() AddChainParams {
	return AddChainParams{
		ChainID:   hexutil.Uint64(n.ChainID),
		ChainName: n.DisplayName,
		NativeCurrency: NativeCurrency{
			Name:     n.NativeName,
			Symbol:   n.NativeSymbol,
			Decimals: n.NativeDecimals,
		},
		RPCURLs:           n.RPCURLs,
		BlockExplorerURLs: n.ExplorerURLs,
	}
}
