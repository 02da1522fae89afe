package tip

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/tipjar-labs/tipjar/internal/notification"
)

// StatusKind is the application view of a wallet transaction lifecycle.
type StatusKind int

const (
	StatusUnknown StatusKind = iota
	StatusIdle
	StatusPending
	StatusSuccess
	StatusFailed
)

func (k StatusKind) String() string {
	switch k {
	case StatusIdle:
		return "idle"
	case StatusPending:
		return "pending"
	case StatusSuccess:
		return "success"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Status is one lifecycle event. Hash is set on Pending and Success, Reason on Failed,
// Name keeps the provider's own status name.
type Status struct {
	Kind   StatusKind
	Name   string
	Hash   string
	Reason string
}

// Provider lifecycle names as emitted by wallet transaction components.
const (
	providerStatusInit           = "init"
	providerStatusIdle           = "transactionIdle"
	providerStatusBuilding       = "buildingTransaction"
	providerStatusPending        = "transactionPending"
	providerStatusLegacyExecuted = "transactionLegacyExecuted"
	providerStatusSuccess        = "success"
	providerStatusError          = "error"
)

// ParseStatus maps a provider status name onto a Status. Names outside the known
// vocabulary produce StatusUnknown.
func ParseStatus(name, detail string) Status {
	s := Status{Name: name}
	switch name {
	case providerStatusInit, providerStatusIdle, providerStatusBuilding:
		s.Kind = StatusIdle
	case providerStatusPending, providerStatusLegacyExecuted:
		s.Kind = StatusPending
		s.Hash = detail
	case providerStatusSuccess:
		s.Kind = StatusSuccess
		s.Hash = detail
	case providerStatusError:
		s.Kind = StatusFailed
		s.Reason = detail
	default:
		s.Kind = StatusUnknown
	}
	return s
}

// Transition is a recorded state change.
type Transition struct {
	From StatusKind
	To   StatusKind
}

// SuccessHook runs once when a tip is confirmed.
type SuccessHook func(ctx context.Context, intent TipIntent, hash string) error

// Bridge turns provider lifecycle events for one TipIntent into state transitions,
// notifications and the success hook.
type Bridge struct {
	intent    TipIntent
	notifier  notification.Notifier
	logger    *slog.Logger
	onSuccess SuccessHook

	mu      sync.Mutex
	state   StatusKind
	history []Transition
}

// NewBridge starts a Bridge in Idle. notifier and onSuccess may be nil.
func NewBridge(intent TipIntent, notifier notification.Notifier, logger *slog.Logger, onSuccess SuccessHook) *Bridge {
	return &Bridge{intent: intent, notifier: notifier, logger: logger, onSuccess: onSuccess, state: StatusIdle}
}

// State returns the current state.
func (b *Bridge) State() StatusKind {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// History returns the transitions taken so far.
func (b *Bridge) History() []Transition {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Transition, len(b.history))
	copy(out, b.history)
	return out
}

// Handle applies status. It returns the error of the success hook, if any; every other
// outcome is reported through the notifier.
func (b *Bridge) Handle(ctx context.Context, status Status) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	log := b.logger.With(slog.String("handle", b.intent.Handle), slog.String("status", status.Name))
	if b.state == StatusSuccess {
		log.Debug("status after success ignored")
		return nil
	}

	switch status.Kind {
	case StatusIdle:
		// Building and idle events carry nothing to act on.
		return nil
	case StatusPending:
		if b.state != StatusPending {
			b.move(StatusPending)
		}
		return nil
	case StatusSuccess:
		b.move(StatusSuccess)
		b.notify(ctx, notification.KindTipSent, fmt.Sprintf("Tip of %g sent to %s", b.intent.Amount, b.intent.Handle))
		if b.onSuccess == nil {
			return nil
		}
		if err := b.onSuccess(ctx, b.intent, status.Hash); err != nil {
			log.Warn("tip success hook failed", slog.Any("error", err))
			return err
		}
		return nil
	case StatusFailed:
		b.move(StatusFailed)
		reason := status.Reason
		if reason == "" {
			reason = reasonTransactionFailed
		}
		b.notify(ctx, notification.KindTipFailed, reason)
		b.move(StatusIdle)
		return nil
	default:
		log.Warn("unknown wallet status ignored")
		return nil
	}
}

func (b *Bridge) move(to StatusKind) {
	b.history = append(b.history, Transition{From: b.state, To: to})
	b.state = to
}

func (b *Bridge) notify(ctx context.Context, kind, body string) {
	if b.notifier == nil {
		return
	}
	if err := b.notifier.Send(ctx, notification.Message{Kind: kind, Destination: b.intent.Handle, Body: body}); err != nil {
		b.logger.Warn("notify", slog.String("kind", kind), slog.Any("error", err))
	}
}
