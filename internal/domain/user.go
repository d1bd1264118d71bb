package domain

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User is the core identity document. AsTraderID is the public referral code,
// unique and immutable once issued. ReferredBy holds the sponsor's AsTraderID
// and may be empty for root users.
type User struct {
	UserID       string    `json:"userId"`
	AsTraderID   string    `json:"asTraderId"`
	ReferredBy   string    `json:"referredBy,omitempty"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         Role      `json:"role"`
	PasswordHash string    `json:"passwordHash,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}
