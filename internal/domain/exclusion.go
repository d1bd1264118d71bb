package domain

// MonthExclusions holds the randomized non-accrual weekdays for one calendar
// month, keyed by "YYYY-MM". Computed once and persisted so that every
// scheduler instance sees the same exclusion set for the rest of the month.
type MonthExclusions struct {
	Month string `json:"month"`
	Days  []int  `json:"days"`
}
