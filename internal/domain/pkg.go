package domain

import "time"

// Package is a catalog entry describing purchasable investment terms.
type Package struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Amount       float64   `json:"amount"`
	DailyIncome  float64   `json:"dailyIncome"`
	Duration     int       `json:"duration"`
	TotalRevenue float64   `json:"totalRevenue"`
	CreatedAt    time.Time `json:"createdAt"`
}
