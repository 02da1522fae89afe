package tip

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/tipjar-labs/tipjar/internal/logging"
	"github.com/tipjar-labs/tipjar/internal/profile"
	"github.com/tipjar-labs/tipjar/internal/wallet"
)

var testLogger = logging.Discard()

const (
	remoteAddr = "0x8cCbC1f6382100205B8EAF9D0E393EaE500bc669"
	localAddr  = "0x00000000000000000000000000000000000000b2"
	donorAddr  = "0x00000000000000000000000000000000000000aa"
)

// fakeProvider records every wallet call.
type fakeProvider struct {
	mu         sync.Mutex
	chainID    uint64
	known      map[uint64]bool
	accounts   []common.Address
	switchErr  error
	addErr     error
	sendErr    error
	calls      []string
	sent       []wallet.TransactionRequest
	addedChain []wallet.Network
}

func newFakeProvider(chainID uint64) *fakeProvider {
	return &fakeProvider{
		chainID:  chainID,
		known:    map[uint64]bool{chainID: true},
		accounts: []common.Address{common.HexToAddress(donorAddr)},
	}
}

func (p *fakeProvider) record(method string) {
	p.calls = append(p.calls, method)
}

func (p *fakeProvider) count(method string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, c := range p.calls {
		if c == method {
			n++
		}
	}
	return n
}

func (p *fakeProvider) RequestAccounts(context.Context) ([]common.Address, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.record("eth_requestAccounts")
	return p.accounts, nil
}

func (p *fakeProvider) ChainID(context.Context) (uint64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.record("eth_chainId")
	return p.chainID, nil
}

func (p *fakeProvider) SwitchChain(_ context.Context, chainID uint64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.record("wallet_switchEthereumChain")
	if p.switchErr != nil {
		return p.switchErr
	}
	if !p.known[chainID] {
		return &wallet.ProviderError{Method: "wallet_switchEthereumChain", Code: wallet.CodeUnrecognizedChain, Message: "Unrecognized chain ID"}
	}
	p.chainID = chainID
	return nil
}

func (p *fakeProvider) AddChain(_ context.Context, network wallet.Network) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.record("wallet_addEthereumChain")
	if p.addErr != nil {
		return p.addErr
	}
	p.addedChain = append(p.addedChain, network)
	p.known[network.ChainID] = true
	return nil
}

func (p *fakeProvider) SendTransaction(_ context.Context, tx wallet.TransactionRequest) (common.Hash, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.record("eth_sendTransaction")
	if p.sendErr != nil {
		return common.Hash{}, p.sendErr
	}
	p.sent = append(p.sent, tx)
	return common.HexToHash("0xfeed"), nil
}

type donationCall struct {
	handle, from, key string
	amount            float64
}

// fakeRemote stands in for the profile service.
type fakeRemote struct {
	mu        sync.Mutex
	addresses map[string]string
	stats     map[string]profile.WalletStats
	down      bool
	updates   []string
	donations []donationCall
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{addresses: map[string]string{}, stats: map[string]profile.WalletStats{}}
}

var errRemoteDown = errors.New("connection refused")

func (r *fakeRemote) response(handle string) profile.ProfileResponse {
	stats := r.stats[handle]
	return profile.ProfileResponse{
		Handle:        handle,
		WalletAddress: r.addresses[handle],
		WalletStats:   &profile.StatsResponse{Earnings: stats.Earnings, Balance: stats.Balance, Donations: stats.Donations},
	}
}

func (r *fakeRemote) Fetch(_ context.Context, handle string) (profile.ProfileResponse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.down {
		return profile.ProfileResponse{}, errRemoteDown
	}
	return r.response(strings.ToLower(handle)), nil
}

func (r *fakeRemote) UpdateWallet(_ context.Context, handle, address string) (profile.ProfileResponse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.down {
		return profile.ProfileResponse{}, errRemoteDown
	}
	handle = strings.ToLower(handle)
	r.updates = append(r.updates, address)
	r.addresses[handle] = address
	return r.response(handle), nil
}

func (r *fakeRemote) RecordDonation(_ context.Context, handle string, amount float64, from, key string) (profile.ProfileResponse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.down {
		return profile.ProfileResponse{}, errRemoteDown
	}
	handle = strings.ToLower(handle)
	r.donations = append(r.donations, donationCall{handle: handle, from: from, key: key, amount: amount})
	s := r.stats[handle]
	s.Earnings += amount
	s.Balance += amount
	s.Donations++
	r.stats[handle] = s
	return r.response(handle), nil
}
