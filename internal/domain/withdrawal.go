package domain

import "time"

type WithdrawalStatus string

const (
	WithdrawalStatusPending  WithdrawalStatus = "pending"
	WithdrawalStatusAccepted WithdrawalStatus = "accepted"
	WithdrawalStatusRemoved  WithdrawalStatus = "removed"
)

// Withdrawal is a user's request to cash out wallet balance. The service
// charge (10%) and net amount are computed at request time; the wallet debit
// happens atomically when an admin accepts the request.
type Withdrawal struct {
	ID            string           `json:"id"`
	UserID        string           `json:"userId"`
	Amount        float64          `json:"amount"`
	ServiceCharge float64          `json:"serviceCharge"`
	NetAmount     float64          `json:"netAmount"`
	Status        WithdrawalStatus `json:"status"`
	CreatedAt     time.Time        `json:"createdAt"`
}
