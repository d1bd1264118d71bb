package repository

import (
	"context"
	"encoding/json"
	"time"

	"astrader_backend/internal/domain"
	"astrader_backend/internal/ledger"

	"github.com/google/uuid"
)

type TransactionRepository struct {
	store ledger.Store
}

func NewTransactionRepository(store ledger.Store) *TransactionRepository {
	return &TransactionRepository{store: store}
}

// Create records a ledger transaction entry.
func (r *TransactionRepository) Create(ctx context.Context, t *domain.Transaction) error {
	fill(t)
	data, err := json.Marshal(t)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, ledger.CollectionTransactions, t.ID, data)
}

// CreateWithTx records a ledger transaction entry inside an existing
// transaction, so audit rows commit together with the balance change they
// describe.
func (r *TransactionRepository) CreateWithTx(ctx context.Context, tx ledger.Tx, t *domain.Transaction) error {
	fill(t)
	data, err := json.Marshal(t)
	if err != nil {
		return err
	}
	return tx.Set(ctx, ledger.CollectionTransactions, t.ID, data)
}

// GetByUserID returns a user's transaction history.
func (r *TransactionRepository) GetByUserID(ctx context.Context, userID string) ([]domain.Transaction, error) {
	docs, err := r.store.QueryEquals(ctx, ledger.CollectionTransactions, "userId", userID)
	if err != nil {
		return nil, err
	}
	txs := make([]domain.Transaction, 0, len(docs))
	for _, d := range docs {
		var t domain.Transaction
		if err := json.Unmarshal(d.Data, &t); err != nil {
			return nil, err
		}
		txs = append(txs, t)
	}
	return txs, nil
}

func fill(t *domain.Transaction) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
}
