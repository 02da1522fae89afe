package wallet

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
)

type codedError struct {
	code int
	msg  string
}

func (e *codedError) Error() string  { return e.msg }
func (e *codedError) ErrorCode() int { return e.code }

// fakeWallet serves the eth_ and wallet_ namespaces the way a browser wallet does.
type fakeWallet struct {
	mu       sync.Mutex
	chainID  uint64
	known    map[uint64]bool
	accounts []common.Address
	added    []AddChainParams
	sent     []TransactionRequest
	reject   bool
}

type ethAPI struct{ w *fakeWallet }

func (a *ethAPI) RequestAccounts() ([]common.Address, error) {
	a.w.mu.Lock()
	defer a.w.mu.Unlock()
	return a.w.accounts, nil
}

func (a *ethAPI) ChainId() hexutil.Uint64 {
	a.w.mu.Lock()
	defer a.w.mu.Unlock()
	return hexutil.Uint64(a.w.chainID)
}

func (a *ethAPI) SendTransaction(tx TransactionRequest) (common.Hash, error) {
	a.w.mu.Lock()
	defer a.w.mu.Unlock()
	if a.w.reject {
		return common.Hash{}, &codedError{code: CodeUserRejected, msg: "User rejected the request."}
	}
	a.w.sent = append(a.w.sent, tx)
	return common.HexToHash("0xabc123"), nil
}

type walletAPI struct{ w *fakeWallet }

func (a *walletAPI) SwitchEthereumChain(p SwitchChainParams) error {
	a.w.mu.Lock()
	defer a.w.mu.Unlock()
	if !a.w.known[uint64(p.ChainID)] {
		return &codedError{code: CodeUnrecognizedChain, msg: "Unrecognized chain ID"}
	}
	a.w.chainID = uint64(p.ChainID)
	return nil
}

func (a *walletAPI) AddEthereumChain(p AddChainParams) error {
	a.w.mu.Lock()
	defer a.w.mu.Unlock()
	a.w.added = append(a.w.added, p)
	a.w.known[uint64(p.ChainID)] = true
	return nil
}

func newTestProvider(t *testing.T, w *fakeWallet) *RPCProvider {
	t.Helper()
	srv := rpc.NewServer()
	if err := srv.RegisterName("eth", &ethAPI{w: w}); err != nil {
		t.Fatalf("register eth: %v", err)
	}
	if err := srv.RegisterName("wallet", &walletAPI{w: w}); err != nil {
		t.Fatalf("register wallet: %v", err)
	}
	p := NewRPCProvider(rpc.DialInProc(srv))
	t.Cleanup(func() {
		p.Close()
		srv.Stop()
	})
	return p
}

func TestRPCProviderChainAndAccounts(t *testing.T) {
	from := common.HexToAddress("0x00000000000000000000000000000000000000aa")
	w := &fakeWallet{chainID: 1, known: map[uint64]bool{1: true}, accounts: []common.Address{from}}
	p := newTestProvider(t, w)
	ctx := context.Background()

	id, err := p.ChainID(ctx)
	if err != nil {
		t.Fatalf("chain id: %v", err)
	}
	if id != 1 {
		t.Fatalf("expected chain 1, got %d", id)
	}

	accounts, err := p.RequestAccounts(ctx)
	if err != nil {
		t.Fatalf("accounts: %v", err)
	}
	if len(accounts) != 1 || accounts[0] != from {
		t.Fatalf("unexpected accounts: %v", accounts)
	}
}

func TestRPCProviderUnrecognizedChain(t *testing.T) {
	w := &fakeWallet{chainID: 1, known: map[uint64]bool{1: true}}
	p := newTestProvider(t, w)
	ctx := context.Background()

	err := p.SwitchChain(ctx, BaseSepolia.ChainID)
	if !errors.Is(err, ErrUnrecognizedChain) {
		t.Fatalf("expected unrecognized chain, got %v", err)
	}
	var pe *ProviderError
	if !errors.As(err, &pe) || pe.Method != "wallet_switchEthereumChain" {
		t.Fatalf("expected provider error for switch, got %#v", err)
	}

	if err := p.AddChain(ctx, BaseSepolia); err != nil {
		t.Fatalf("add chain: %v", err)
	}
	if len(w.added) != 1 {
		t.Fatalf("expected one add call, got %d", len(w.added))
	}
	added := w.added[0]
	if uint64(added.ChainID) != 84532 || added.NativeCurrency.Decimals != 18 || added.RPCURLs[0] != "https://sepolia.base.org" {
		t.Fatalf("unexpected add payload: %+v", added)
	}

	if err := p.SwitchChain(ctx, BaseSepolia.ChainID); err != nil {
		t.Fatalf("switch after add: %v", err)
	}
	if w.chainID != BaseSepolia.ChainID {
		t.Fatalf("expected active chain %d, got %d", BaseSepolia.ChainID, w.chainID)
	}
}

func TestRPCProviderSendTransaction(t *testing.T) {
	w := &fakeWallet{chainID: 84532, known: map[uint64]bool{84532: true}}
	p := newTestProvider(t, w)
	ctx := context.Background()

	tx := TransactionRequest{
		From:    common.HexToAddress("0x00000000000000000000000000000000000000aa"),
		To:      common.HexToAddress("0x8cCbC1f6382100205B8EAF9D0E393EaE500bc669"),
		Value:   (*hexutil.Big)(big.NewInt(200_000_000_000_000_000)),
		ChainID: hexutil.Uint64(84532),
	}
	hash, err := p.SendTransaction(ctx, tx)
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if hash != common.HexToHash("0xabc123") {
		t.Fatalf("unexpected hash %s", hash.Hex())
	}
	if len(w.sent) != 1 || w.sent[0].Value.ToInt().Cmp(big.NewInt(200_000_000_000_000_000)) != 0 {
		t.Fatalf("unexpected sent payload: %+v", w.sent)
	}

	w.reject = true
	if _, err := p.SendTransaction(ctx, tx); !errors.Is(err, ErrUserRejected) {
		t.Fatalf("expected user rejection, got %v", err)
	}
}

func TestNetworkByName(t *testing.T) {
	n, err := NetworkByName(" Base-Sepolia ")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if n.ChainIDHex() != "0x14a34" {
		t.Fatalf("unexpected chain id hex %s", n.ChainIDHex())
	}
	if _, err := NetworkByName("dogechain"); err == nil {
		t.Fatal("expected unsupported network error")
	}
}
