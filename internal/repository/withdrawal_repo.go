package repository

import (
	"context"
	"encoding/json"
	"errors"

	"astrader_backend/internal/domain"
	"astrader_backend/internal/ledger"
)

type WithdrawalRepository struct {
	store ledger.Store
}

func NewWithdrawalRepository(store ledger.Store) *WithdrawalRepository {
	return &WithdrawalRepository{store: store}
}

// GetByID retrieves a withdrawal by ID. Returns nil if it does not exist.
func (r *WithdrawalRepository) GetByID(ctx context.Context, id string) (*domain.Withdrawal, error) {
	data, err := r.store.Get(ctx, ledger.CollectionWithdrawals, id)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return decodeWithdrawal(data)
}

// GetByUserID retrieves all withdrawals for a user.
func (r *WithdrawalRepository) GetByUserID(ctx context.Context, userID string) ([]domain.Withdrawal, error) {
	docs, err := r.store.QueryEquals(ctx, ledger.CollectionWithdrawals, "userId", userID)
	if err != nil {
		return nil, err
	}
	return decodeWithdrawals(docs)
}

// GetPending retrieves all withdrawals awaiting admin review.
func (r *WithdrawalRepository) GetPending(ctx context.Context) ([]domain.Withdrawal, error) {
	docs, err := r.store.QueryEquals(ctx, ledger.CollectionWithdrawals, "status", string(domain.WithdrawalStatusPending))
	if err != nil {
		return nil, err
	}
	return decodeWithdrawals(docs)
}

// GetWithTx reads a withdrawal inside a transaction.
func (r *WithdrawalRepository) GetWithTx(ctx context.Context, tx ledger.Tx, id string) (*domain.Withdrawal, error) {
	data, err := tx.Get(ctx, ledger.CollectionWithdrawals, id)
	if err != nil {
		return nil, err
	}
	return decodeWithdrawal(data)
}

// Create stores a new withdrawal document.
func (r *WithdrawalRepository) Create(ctx context.Context, w *domain.Withdrawal) error {
	data, err := json.Marshal(w)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, ledger.CollectionWithdrawals, w.ID, data)
}

// SaveWithTx replaces the withdrawal document inside a transaction.
func (r *WithdrawalRepository) SaveWithTx(ctx context.Context, tx ledger.Tx, w *domain.Withdrawal) error {
	data, err := json.Marshal(w)
	if err != nil {
		return err
	}
	return tx.Set(ctx, ledger.CollectionWithdrawals, w.ID, data)
}

func decodeWithdrawal(data []byte) (*domain.Withdrawal, error) {
	var w domain.Withdrawal
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

func decodeWithdrawals(docs []ledger.Document) ([]domain.Withdrawal, error) {
	withdrawals := make([]domain.Withdrawal, 0, len(docs))
	for _, d := range docs {
		w, err := decodeWithdrawal(d.Data)
		if err != nil {
			return nil, err
		}
		withdrawals = append(withdrawals, *w)
	}
	return withdrawals, nil
}
