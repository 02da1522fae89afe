package tip

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/tipjar-labs/tipjar/internal/notification"
)

// Sender runs the whole "send tip" action: resolve the recipient, submit through the
// wallet and feed the outcome to a status bridge. It allows one submission at a time.
type Sender struct {
	resolver   *Resolver
	submitter  *Submitter
	reconciler *Reconciler
	remote     RemoteStore
	notifier   notification.Notifier
	logger     *slog.Logger

	busy atomic.Bool
}

// NewSender wires a Sender.
func NewSender(resolver *Resolver, submitter *Submitter, reconciler *Reconciler, remote RemoteStore, notifier notification.Notifier, logger *slog.Logger) *Sender {
	return &Sender{
		resolver:   resolver,
		submitter:  submitter,
		reconciler: reconciler,
		remote:     remote,
		notifier:   notifier,
		logger:     logger,
	}
}

// Result is the outcome of a successful Send.
type Result struct {
	Tx      TxHandle
	Address string
	History []Transition
}

// Send submits intent. supplied is the recipient address the caller already knows, used
// only when neither the profile service nor the local cache has one. A second call made
// while one is running fails with ErrSubmissionInFlight.
func (s *Sender) Send(ctx context.Context, intent TipIntent, supplied string) (Result, error) {
	if !s.busy.CompareAndSwap(false, true) {
		return Result{}, ErrSubmissionInFlight
	}
	defer s.busy.Store(false)

	var tx TxHandle
	bridge := NewBridge(intent, s.notifier, s.logger, func(ctx context.Context, intent TipIntent, hash string) error {
		return s.recordTip(ctx, intent, tx.From.Hex(), hash)
	})

	// Resolved again on every send so a recently changed address is never missed.
	address := s.resolver.Resolve(ctx, intent.Handle, supplied)

	tx, err := s.submitter.Submit(ctx, intent, address)
	if err != nil {
		reason := reasonTransactionFailed
		var se *SubmissionError
		if errors.As(err, &se) {
			reason = se.Reason
		}
		_ = bridge.Handle(ctx, ParseStatus(providerStatusError, reason))
		return Result{Address: address, History: bridge.History()}, err
	}

	hash := tx.Hash.Hex()
	_ = bridge.Handle(ctx, ParseStatus(providerStatusPending, hash))
	if err := bridge.Handle(ctx, ParseStatus(providerStatusSuccess, hash)); err != nil {
		// The transfer went through; only bookkeeping failed.
		s.logger.Warn("tip sent but stats not fully recorded", slog.String("tx", hash), slog.Any("error", err))
	}
	return Result{Tx: tx, Address: address, History: bridge.History()}, nil
}

// recordTip credits the donor's local stats and the recipient's profile. The transaction
// hash doubles as the idempotency key so a repeated call cannot count the tip twice.
func (s *Sender) recordTip(ctx context.Context, intent TipIntent, from, hash string) error {
	if _, err := s.reconciler.RecordLocalTip(ctx, intent.Amount); err != nil {
		return err
	}
	if _, err := s.remote.RecordDonation(ctx, intent.Handle, intent.Amount, from, hash); err != nil {
		return fmt.Errorf("record donation for %s: %w", intent.Handle, err)
	}
	return nil
}
