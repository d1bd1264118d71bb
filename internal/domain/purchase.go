package domain

import "time"

type PurchaseStatus string

const (
	PurchaseStatusPending   PurchaseStatus = "pending"
	PurchaseStatusActive    PurchaseStatus = "active"
	PurchaseStatusCompleted PurchaseStatus = "completed"
)

// MaxAccrualDays caps the number of eligible days a purchase accrues ROI for.
// A purchase is completed exactly when ROIUpdatedDays reaches this value.
const MaxAccrualDays = 500

// SweepInterval is the accrued-day boundary at which unswept ROI moves into
// the owner's wallet balance.
const SweepInterval = 30

// Purchase is a fixed-term package bought by a user. The terms (Amount,
// DailyIncome, Duration, TotalRevenue) are frozen at purchase time; only the
// accrual state advances afterwards.
type Purchase struct {
	ID           string         `json:"id"`
	UserID       string         `json:"userId"`
	PackageName  string         `json:"packageName"`
	Amount       float64        `json:"amount"`
	DailyIncome  float64        `json:"dailyIncome"`
	Duration     int            `json:"duration"`
	TotalRevenue float64        `json:"totalRevenue"`
	Status       PurchaseStatus `json:"status"`
	CreatedAt    time.Time      `json:"createdAt"`
	StartDate    *time.Time     `json:"startDate,omitempty"`

	// Accrual state, advanced only by the daily tick.
	ROIAccumulated float64 `json:"roiAccumulated"`
	ROIUpdatedDays int     `json:"roiUpdatedDays"`
	// LastAccruedDay (YYYY-MM-DD) guards against a second tick on the same day.
	LastAccruedDay string `json:"lastAccruedDay,omitempty"`
	// LastSweepDays records the ROIUpdatedDays value of the most recent sweep,
	// so a replayed boundary never credits the wallet twice.
	LastSweepDays int  `json:"lastSweepDays"`
	WalletUpdated bool `json:"walletUpdated"`
}
