package tip

import (
	"context"
	"log/slog"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/tipjar-labs/tipjar/internal/wallet"
)

const (
	addressPrefix = "0x"
	addressLength = 42
)

// Reason shown to the donor for any provider-side failure.
const reasonTransactionFailed = "Transaction failed"

// TipIntent is what the donor chose before pressing send. It is consumed by one submission.
type TipIntent struct {
	Handle    string
	Amount    float64
	Message   string
	DonorName string
}

// TxHandle identifies a submitted transfer.
type TxHandle struct {
	Hash    common.Hash
	From    common.Address
	To      common.Address
	Value   *hexutil.Big
	ChainID uint64
}

// Submitter sends native-asset tips through a wallet provider.
type Submitter struct {
	provider wallet.Provider
	network  wallet.Network
	guard    *ChainGuard
	logger   *slog.Logger
}

// NewSubmitter builds a Submitter. provider may be nil when no wallet is connected;
// every submission then fails with ErrWalletNotConnected.
func NewSubmitter(provider wallet.Provider, network wallet.Network, logger *slog.Logger) *Submitter {
	s := &Submitter{provider: provider, network: network, logger: logger}
	if provider != nil {
		s.guard = NewChainGuard(provider, logger)
	}
	return s
}

// Submit checks the preconditions, puts the wallet on the tip network and asks it to
// transfer intent.Amount to address. Nothing is sent to the provider unless every
// precondition holds, and failed transfers are never retried. A wallet cannot tip itself.
func (s *Submitter) Submit(ctx context.Context, intent TipIntent, address string) (TxHandle, error) {
	if err := validateRecipient(address); err != nil {
		return TxHandle{}, &SubmissionError{Stage: "recipient", Reason: err.Error(), Err: err}
	}
	if s.provider == nil {
		return TxHandle{}, &SubmissionError{Stage: "wallet", Reason: "Please connect your wallet first", Err: ErrWalletNotConnected}
	}
	value, err := ToBaseUnits(intent.Amount, s.network.NativeDecimals)
	if err != nil {
		return TxHandle{}, &SubmissionError{Stage: "amount", Reason: "Please enter a valid amount", Err: err}
	}

	accounts, err := s.provider.RequestAccounts(ctx)
	if err != nil {
		return TxHandle{}, s.failed("accounts", err)
	}
	if len(accounts) == 0 {
		return TxHandle{}, s.failed("accounts", wallet.ErrNoAccounts)
	}
	to := common.HexToAddress(address)
	if accounts[0] == to {
		return TxHandle{}, &SubmissionError{Stage: "recipient", Reason: "Please connect a different wallet for donation", Err: ErrSelfTip}
	}

	if err := s.guard.EnsureNetwork(ctx, s.network); err != nil {
		return TxHandle{}, s.failed("network", err)
	}

	tx := wallet.TransactionRequest{
		From:    accounts[0],
		To:      to,
		Value:   (*hexutil.Big)(value),
		ChainID: hexutil.Uint64(s.network.ChainID),
	}
	s.logger.Info("submitting tip",
		slog.String("handle", intent.Handle),
		slog.String("to", tx.To.Hex()),
		slog.String("value", value.String()),
		slog.Uint64("chain_id", s.network.ChainID),
	)
	hash, err := s.provider.SendTransaction(ctx, tx)
	if err != nil {
		return TxHandle{}, s.failed("send", err)
	}
	return TxHandle{Hash: hash, From: tx.From, To: tx.To, Value: tx.Value, ChainID: s.network.ChainID}, nil
}

func (s *Submitter) failed(stage string, err error) *SubmissionError {
	s.logger.Warn("tip submission failed", slog.String("stage", stage), slog.Any("error", err))
	return &SubmissionError{Stage: stage, Reason: reasonTransactionFailed, Err: err}
}

func validateRecipient(address string) error {
	if address == "" {
		return ErrNoRecipient
	}
	if !strings.HasPrefix(address, addressPrefix) || len(address) != addressLength || !common.IsHexAddress(address) {
		return ErrInvalidRecipient
	}
	return nil
}
