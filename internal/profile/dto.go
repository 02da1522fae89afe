package profile

// ProfileResponse is the public JSON shape of a profile.
type ProfileResponse struct {
	Handle          string             `json:"handle"`
	DisplayName     string             `json:"displayName"`
	ProfileImage    *string            `json:"profileImage"`
	BannerColor     string             `json:"bannerColor"`
	WalletAddress   string             `json:"walletAddress"`
	WalletStats     *StatsResponse     `json:"walletStats,omitempty"`
	RecentDonations []DonationResponse `json:"recentDonations"`
}

// StatsResponse mirrors WalletStats on the wire.
type StatsResponse struct {
	Earnings  float64 `json:"earnings"`
	Balance   float64 `json:"balance"`
	Donations int     `json:"donations"`
}

// DonationResponse mirrors Donation on the wire.
type DonationResponse struct {
	FromAddress string  `json:"fromAddress"`
	Amount      float64 `json:"amount"`
	Timestamp   int64   `json:"timestamp"`
}

// WalletUpdateRequest is the body of POST /api/users/:handle/walletUpdate.
type WalletUpdateRequest struct {
	WalletAddress string `json:"walletAddress"`
}

// UpdateStatsRequest is the body of POST /api/users/:handle/updateStats. Amount is a
// pointer so a missing value can be told apart from zero.
type UpdateStatsRequest struct {
	Amount      *float64 `json:"amount"`
	FromAddress string   `json:"fromAddress"`
}

// MutationResponse wraps the updated profile returned by write endpoints.
type MutationResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	User    ProfileResponse `json:"user"`
}

// ErrorResponse is returned for rejected requests.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ToResponse renders p in its wire shape.
func ToResponse(p Profile) ProfileResponse {
	donations := make([]DonationResponse, 0, len(p.RecentDonations))
	for _, d := range p.RecentDonations {
		donations = append(donations, DonationResponse{FromAddress: d.FromAddress, Amount: d.Amount, Timestamp: d.Timestamp})
	}
	return ProfileResponse{
		Handle:        p.Handle,
		DisplayName:   p.DisplayName,
		ProfileImage:  p.ProfileImage,
		BannerColor:   p.BannerColor,
		WalletAddress: p.WalletAddress,
		WalletStats: &StatsResponse{
			Earnings:  p.WalletStats.Earnings,
			Balance:   p.WalletStats.Balance,
			Donations: p.WalletStats.Donations,
		},
		RecentDonations: donations,
	}
}

// Stats converts the wire stats back into the domain type; absent stats are zero.
func (r ProfileResponse) Stats() WalletStats {
	if r.WalletStats == nil {
		return WalletStats{}
	}
	return WalletStats{Earnings: r.WalletStats.Earnings, Balance: r.WalletStats.Balance, Donations: r.WalletStats.Donations}
}
