package handlers

import (
	"errors"
	"net/http"

	"astrader_backend/internal/ledger"
	"astrader_backend/internal/repository"
	"astrader_backend/internal/service"
)

type Handler struct {
	Store ledger.Store

	Users        *repository.UserRepository
	Dashboards   *repository.DashboardRepository
	Purchases    *repository.PurchaseRepository
	Withdrawals  *repository.WithdrawalRepository
	Packages     *repository.PackageRepository
	Tickets      *repository.TicketRepository
	Transactions *repository.TransactionRepository

	UserService       *service.UserService
	PurchaseService   *service.PurchaseService
	WithdrawalService *service.WithdrawalService
	WalletService     *service.WalletService
	Referral          *service.ReferralService
	Engine            *service.AccrualEngine

	ReferralBaseURL string
}

func NewHandler(store ledger.Store, engine *service.AccrualEngine, referralBaseURL string) *Handler {
	users := repository.NewUserRepository(store)
	referral := service.NewReferralService(users)
	bonus := service.NewBonusDistributor(store, referral)

	return &Handler{
		Store:             store,
		Users:             users,
		Dashboards:        repository.NewDashboardRepository(store),
		Purchases:         repository.NewPurchaseRepository(store),
		Withdrawals:       repository.NewWithdrawalRepository(store),
		Packages:          repository.NewPackageRepository(store),
		Tickets:           repository.NewTicketRepository(store),
		Transactions:      repository.NewTransactionRepository(store),
		UserService:       service.NewUserService(store),
		PurchaseService:   service.NewPurchaseService(store, bonus),
		WithdrawalService: service.NewWithdrawalService(store),
		WalletService:     service.NewWalletService(store),
		Referral:          referral,
		Engine:            engine,
		ReferralBaseURL:   referralBaseURL,
	}
}

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrInvalidTerms),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrUnknownSponsor):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidLogin):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrUserNotFound), errors.Is(err, ledger.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrInsufficientFunds),
		errors.Is(err, ledger.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
