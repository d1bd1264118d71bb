package service

import (
	"context"

	"astrader_backend/internal/domain"
	"astrader_backend/internal/ledger"
	"astrader_backend/internal/repository"
)

// WalletService moves spendable balance between users.
type WalletService struct {
	store        ledger.Store
	users        *repository.UserRepository
	dashboards   *repository.DashboardRepository
	transactions *repository.TransactionRepository
}

func NewWalletService(store ledger.Store) *WalletService {
	return &WalletService{
		store:        store,
		users:        repository.NewUserRepository(store),
		dashboards:   repository.NewDashboardRepository(store),
		transactions: repository.NewTransactionRepository(store),
	}
}

// Transfer moves amount from the sender's wallet to the user owning the
// target trader code. Both dashboards and both audit records commit in one
// transaction.
func (s *WalletService) Transfer(ctx context.Context, fromUserID, toTraderID string, amount float64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	matches, err := s.users.FindByTraderID(ctx, toTraderID)
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		return ErrUserNotFound
	}
	if len(matches) > 1 {
		return ErrAmbiguousReferral
	}
	toUserID := matches[0].UserID
	if toUserID == fromUserID {
		return ErrInvalidAmount
	}

	return s.store.RunTransaction(ctx, func(tx ledger.Tx) error {
		from, err := s.dashboards.GetWithTx(ctx, tx, fromUserID)
		if err != nil {
			return err
		}
		if from.WalletBalance < amount {
			return ErrInsufficientFunds
		}
		to, err := s.dashboards.GetWithTx(ctx, tx, toUserID)
		if err != nil {
			return err
		}

		from.WalletBalance = round2(from.WalletBalance - amount)
		to.WalletBalance = round2(to.WalletBalance + amount)

		if err := s.dashboards.SaveWithTx(ctx, tx, from); err != nil {
			return err
		}
		if err := s.dashboards.SaveWithTx(ctx, tx, to); err != nil {
			return err
		}

		out := &domain.Transaction{
			UserID: fromUserID,
			Type:   domain.TxTypeTransferOut,
			Amount: -amount,
			Meta:   map[string]any{"toUserId": toUserID},
		}
		if err := s.transactions.CreateWithTx(ctx, tx, out); err != nil {
			return err
		}
		in := &domain.Transaction{
			UserID: toUserID,
			Type:   domain.TxTypeTransferIn,
			Amount: amount,
			Meta:   map[string]any{"fromUserId": fromUserID},
		}
		return s.transactions.CreateWithTx(ctx, tx, in)
	})
}
