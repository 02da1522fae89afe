package profile

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"

	"github.com/tipjar-labs/tipjar/internal/metrics"
	"github.com/tipjar-labs/tipjar/internal/notification"
)

var (
	// ErrNotFound is returned when no profile exists for a handle.
	ErrNotFound = errors.New("profile not found")
	// ErrInvalidHandle rejects handles that cannot appear in a tip link.
	ErrInvalidHandle = errors.New("invalid handle")
	// ErrInvalidAddress rejects wallet addresses that are not 0x-prefixed 20-byte hex.
	ErrInvalidAddress = errors.New("invalid wallet address format")
	// ErrInvalidAmount rejects donation amounts that are not positive finite numbers.
	ErrInvalidAmount = errors.New("invalid amount format")
)

var handlePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// Service manages streamer profiles and the donations recorded against them.
type Service struct {
	repo        Repository
	notifier    notification.Notifier
	bannerColor string
	now         func() time.Time
}

// Option customises a Service.
type Option func(*Service)

// WithBannerColor sets the banner color given to newly created profiles.
func WithBannerColor(color string) Option {
	return func(s *Service) {
		if color != "" {
			s.bannerColor = color
		}
	}
}

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a profile service. notifier may be nil.
func NewService(repo Repository, notifier notification.Notifier, opts ...Option) *Service {
	s := &Service{repo: repo, notifier: notifier, bannerColor: DefaultBannerColor, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Resolve returns the profile for handle, creating an empty one on first access.
func (s *Service) Resolve(ctx context.Context, handle string) (Profile, error) {
	key, err := NormalizeHandle(handle)
	if err != nil {
		return Profile{}, err
	}
	p, err := s.repo.Get(ctx, key)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Profile{}, fmt.Errorf("load profile %s: %w", key, err)
	}

	now := s.now().UTC()
	created, err := s.repo.Create(ctx, Profile{
		Handle:          key,
		DisplayName:     strings.TrimSpace(handle),
		BannerColor:     s.bannerColor,
		RecentDonations: []Donation{},
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	if err != nil {
		return Profile{}, fmt.Errorf("create profile %s: %w", key, err)
	}
	metrics.ProfilesCreated.Inc()
	return created, nil
}

// UpdateWallet sets the recipient address for handle. Invalid addresses are rejected
// before anything is persisted.
func (s *Service) UpdateWallet(ctx context.Context, handle, address string) (Profile, error) {
	address = strings.TrimSpace(address)
	if err := ValidateAddress(address); err != nil {
		metrics.WalletUpdates.WithLabelValues("invalid").Inc()
		return Profile{}, err
	}
	p, err := s.update(ctx, handle, func(p *Profile) error {
		p.WalletAddress = address
		return nil
	})
	if err != nil {
		metrics.WalletUpdates.WithLabelValues("error").Inc()
		return Profile{}, err
	}
	metrics.WalletUpdates.WithLabelValues("ok").Inc()
	return p, nil
}

// RecordDonation credits amount to handle's stats and prepends it to the donation
// history, which is capped at MaxRecentDonations entries.
func (s *Service) RecordDonation(ctx context.Context, handle string, amount float64, fromAddress string) (Profile, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return Profile{}, ErrInvalidAmount
	}
	fromAddress = strings.TrimSpace(fromAddress)
	if fromAddress == "" {
		fromAddress = AnonymousAddress
	}

	donation := Donation{
		ID:          uuid.NewString(),
		FromAddress: fromAddress,
		Amount:      amount,
		Timestamp:   s.now().UnixMilli(),
	}
	p, err := s.update(ctx, handle, func(p *Profile) error {
		p.WalletStats.Earnings += amount
		p.WalletStats.Balance += amount
		p.WalletStats.Donations++
		p.prependDonation(donation)
		return nil
	})
	if err != nil {
		return Profile{}, err
	}
	metrics.DonationsRecorded.Inc()

	if s.notifier != nil {
		_ = s.notifier.Send(ctx, notification.Message{
			Kind:        notification.KindTipReceived,
			Destination: p.Handle,
			Body:        fmt.Sprintf("You received %g from %s", amount, fromAddress),
		})
	}
	return p, nil
}

func (s *Service) update(ctx context.Context, handle string, mutate func(*Profile) error) (Profile, error) {
	// Writes create the profile on demand like reads do.
	current, err := s.Resolve(ctx, handle)
	if err != nil {
		return Profile{}, err
	}
	return s.repo.Update(ctx, current.Handle, func(p *Profile) error {
		if err := mutate(p); err != nil {
			return err
		}
		p.UpdatedAt = s.now().UTC()
		return nil
	})
}

// NormalizeHandle validates handle and returns its case-insensitive storage key.
func NormalizeHandle(handle string) (string, error) {
	handle = strings.TrimSpace(handle)
	if !handlePattern.MatchString(handle) {
		return "", fmt.Errorf("%w: %q", ErrInvalidHandle, handle)
	}
	return strings.ToLower(handle), nil
}

// ValidateAddress accepts 0x-prefixed 20-byte hex addresses.
func ValidateAddress(address string) error {
	if !strings.HasPrefix(address, "0x") || !common.IsHexAddress(address) {
		return ErrInvalidAddress
	}
	return nil
}

// Seed returns the demo profiles loaded into development stores.
func Seed(now time.Time) []Profile {
	return []Profile{{
		Handle:          "amiy",
		DisplayName:     "Amiy",
		BannerColor:     DefaultBannerColor,
		WalletAddress:   "0x8cCbC1f6382100205B8EAF9D0E393EaE500bc669",
		RecentDonations: []Donation{},
		CreatedAt:       now.UTC(),
		UpdatedAt:       now.UTC(),
	}}
}
