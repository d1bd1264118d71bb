package domain

// Dashboard is the per-user balance sheet, stored one-to-one with the user.
//
// WalletBalance holds spendable funds: increased by ROI sweeps, incoming
// transfers and nothing else, decreased by accepted withdrawals and outgoing
// transfers. It never goes below zero.
// LevelIncome accumulates purchase-time referral bonuses (5/3/1%).
// ROIWallet accumulates sweep-time referral bonuses (10%, level 1 only).
// ROI is the running unswept accumulator shown to the user; it resets to zero
// on every sweep.
type Dashboard struct {
	UserID        string  `json:"userId"`
	WalletBalance float64 `json:"walletBalance"`
	LevelIncome   float64 `json:"levelIncome"`
	ROI           float64 `json:"roi"`
	ROIWallet     float64 `json:"roiWallet"`
	DirectMembers int     `json:"directMembers"`
	TotalDownline int     `json:"totalDownline"`
}
