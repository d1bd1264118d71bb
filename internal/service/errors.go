package service

import "errors"

var (
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInvalidTerms      = errors.New("invalid package terms")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrUserNotFound      = errors.New("user not found")
	ErrInvalidStatus     = errors.New("invalid status transition")
	ErrEmailTaken        = errors.New("email already registered")
	ErrInvalidLogin      = errors.New("invalid email or password")

	// ErrUnknownSponsor means the sponsor code supplied at signup matches no
	// user.
	ErrUnknownSponsor = errors.New("sponsor code does not match any user")
	// ErrAmbiguousReferral means a trader code matched more than one user,
	// which indicates corrupted referral data in the store.
	ErrAmbiguousReferral = errors.New("referral code matches more than one user")
	// ErrReferralCycle means the sponsor chain loops back on itself.
	ErrReferralCycle = errors.New("referral chain cycles")
)
