package service

import (
	"context"
	"time"

	"astrader_backend/internal/domain"
	"astrader_backend/internal/ledger"
	"astrader_backend/internal/repository"

	"github.com/google/uuid"
)

// serviceChargeRate is deducted from every withdrawal request.
const serviceChargeRate = 0.10

// WithdrawalService creates withdrawal requests and applies admin decisions.
// Accepting a request debits the wallet in the same transaction that flips
// the status, so a concurrent ROI sweep can never be half-applied against it.
type WithdrawalService struct {
	store        ledger.Store
	withdrawals  *repository.WithdrawalRepository
	dashboards   *repository.DashboardRepository
	transactions *repository.TransactionRepository
}

func NewWithdrawalService(store ledger.Store) *WithdrawalService {
	return &WithdrawalService{
		store:        store,
		withdrawals:  repository.NewWithdrawalRepository(store),
		dashboards:   repository.NewDashboardRepository(store),
		transactions: repository.NewTransactionRepository(store),
	}
}

// Request creates a pending withdrawal with the 10% service charge computed
// up front. The balance check happens at acceptance, not here.
func (s *WithdrawalService) Request(ctx context.Context, userID string, amount float64) (*domain.Withdrawal, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	charge := round2(amount * serviceChargeRate)
	w := &domain.Withdrawal{
		ID:            uuid.NewString(),
		UserID:        userID,
		Amount:        amount,
		ServiceCharge: charge,
		NetAmount:     round2(amount - charge),
		Status:        domain.WithdrawalStatusPending,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.withdrawals.Create(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

// Accept debits the requested amount from the owner's wallet and marks the
// withdrawal accepted, atomically. ErrInsufficientFunds if the wallet cannot
// cover the amount; the balance never goes negative.
func (s *WithdrawalService) Accept(ctx context.Context, withdrawalID string) error {
	return s.store.RunTransaction(ctx, func(tx ledger.Tx) error {
		w, err := s.withdrawals.GetWithTx(ctx, tx, withdrawalID)
		if err != nil {
			return err
		}
		if w.Status != domain.WithdrawalStatusPending {
			return ErrInvalidStatus
		}

		d, err := s.dashboards.GetWithTx(ctx, tx, w.UserID)
		if err != nil {
			return err
		}
		if d.WalletBalance < w.Amount {
			return ErrInsufficientFunds
		}
		d.WalletBalance = round2(d.WalletBalance - w.Amount)
		w.Status = domain.WithdrawalStatusAccepted

		if err := s.dashboards.SaveWithTx(ctx, tx, d); err != nil {
			return err
		}
		if err := s.withdrawals.SaveWithTx(ctx, tx, w); err != nil {
			return err
		}
		record := &domain.Transaction{
			UserID: w.UserID,
			Type:   domain.TxTypeWithdrawal,
			Amount: -w.Amount,
			Meta: map[string]any{
				"withdrawalId":  w.ID,
				"serviceCharge": w.ServiceCharge,
				"netAmount":     w.NetAmount,
			},
		}
		return s.transactions.CreateWithTx(ctx, tx, record)
	})
}

// Remove rejects a pending withdrawal without touching the wallet.
func (s *WithdrawalService) Remove(ctx context.Context, withdrawalID string) error {
	return s.store.RunTransaction(ctx, func(tx ledger.Tx) error {
		w, err := s.withdrawals.GetWithTx(ctx, tx, withdrawalID)
		if err != nil {
			return err
		}
		if w.Status != domain.WithdrawalStatusPending {
			return ErrInvalidStatus
		}
		w.Status = domain.WithdrawalStatusRemoved
		return s.withdrawals.SaveWithTx(ctx, tx, w)
	})
}

// UpdateStatus dispatches an admin decision.
func (s *WithdrawalService) UpdateStatus(ctx context.Context, withdrawalID string, status domain.WithdrawalStatus) error {
	switch status {
	case domain.WithdrawalStatusAccepted:
		return s.Accept(ctx, withdrawalID)
	case domain.WithdrawalStatusRemoved:
		return s.Remove(ctx, withdrawalID)
	default:
		return ErrInvalidStatus
	}
}
