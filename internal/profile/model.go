package profile

import "time"

const (
	// MaxRecentDonations bounds the donation history kept per profile; older entries are evicted.
	MaxRecentDonations = 10
	// AnonymousAddress is recorded when a donation arrives without a sender address.
	AnonymousAddress = "0x0000...anonymous"
	// DefaultBannerColor is used for profiles created on first resolution.
	DefaultBannerColor = "#1e3a8a"
)

// Profile is a streamer's public tip page record, keyed by lowercased handle.
type Profile struct {
	Handle          string
	DisplayName     string
	ProfileImage    *string
	BannerColor     string
	WalletAddress   string
	WalletStats     WalletStats
	RecentDonations []Donation
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// WalletStats aggregates tips received by a profile.
type WalletStats struct {
	Earnings  float64
	Balance   float64
	Donations int
}

// Donation is a single received tip. Timestamp is in unix milliseconds.
type Donation struct {
	ID          string
	FromAddress string
	Amount      float64
	Timestamp   int64
}

func (p Profile) clone() Profile {
	out := p
	if p.ProfileImage != nil {
		img := *p.ProfileImage
		out.ProfileImage = &img
	}
	out.RecentDonations = append([]Donation(nil), p.RecentDonations...)
	return out
}

// prependDonation adds d as the most recent donation and evicts beyond MaxRecentDonations.
func (p *Profile) prependDonation(d Donation) {
	donations := make([]Donation, 0, len(p.RecentDonations)+1)
	donations = append(donations, d)
	donations = append(donations, p.RecentDonations...)
	if len(donations) > MaxRecentDonations {
		donations = donations[:MaxRecentDonations]
	}
	p.RecentDonations = donations
}
