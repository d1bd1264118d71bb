package repository

import (
	"context"
	"encoding/json"
	"errors"

	"astrader_backend/internal/domain"
	"astrader_backend/internal/ledger"
)

type PurchaseRepository struct {
	store ledger.Store
}

func NewPurchaseRepository(store ledger.Store) *PurchaseRepository {
	return &PurchaseRepository{store: store}
}

// GetByID retrieves a purchase by ID. Returns nil if it does not exist.
func (r *PurchaseRepository) GetByID(ctx context.Context, id string) (*domain.Purchase, error) {
	data, err := r.store.Get(ctx, ledger.CollectionPurchases, id)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return decodePurchase(data)
}

// GetByUserID retrieves all purchases owned by a user.
func (r *PurchaseRepository) GetByUserID(ctx context.Context, userID string) ([]domain.Purchase, error) {
	docs, err := r.store.QueryEquals(ctx, ledger.CollectionPurchases, "userId", userID)
	if err != nil {
		return nil, err
	}
	return decodePurchases(docs)
}

// GetByStatus retrieves all purchases in the given state.
func (r *PurchaseRepository) GetByStatus(ctx context.Context, status domain.PurchaseStatus) ([]domain.Purchase, error) {
	docs, err := r.store.QueryEquals(ctx, ledger.CollectionPurchases, "status", string(status))
	if err != nil {
		return nil, err
	}
	return decodePurchases(docs)
}

// GetActive retrieves all purchases currently accruing ROI.
func (r *PurchaseRepository) GetActive(ctx context.Context) ([]domain.Purchase, error) {
	return r.GetByStatus(ctx, domain.PurchaseStatusActive)
}

// GetWithTx reads a purchase inside a transaction; a missing purchase aborts
// the transaction with ledger.ErrNotFound.
func (r *PurchaseRepository) GetWithTx(ctx context.Context, tx ledger.Tx, id string) (*domain.Purchase, error) {
	data, err := tx.Get(ctx, ledger.CollectionPurchases, id)
	if err != nil {
		return nil, err
	}
	return decodePurchase(data)
}

// Create stores a new purchase document.
func (r *PurchaseRepository) Create(ctx context.Context, p *domain.Purchase) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, ledger.CollectionPurchases, p.ID, data)
}

// Save replaces the purchase document.
func (r *PurchaseRepository) Save(ctx context.Context, p *domain.Purchase) error {
	return r.Create(ctx, p)
}

// SaveWithTx replaces the purchase document inside a transaction.
func (r *PurchaseRepository) SaveWithTx(ctx context.Context, tx ledger.Tx, p *domain.Purchase) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return tx.Set(ctx, ledger.CollectionPurchases, p.ID, data)
}

func decodePurchase(data []byte) (*domain.Purchase, error) {
	var p domain.Purchase
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func decodePurchases(docs []ledger.Document) ([]domain.Purchase, error) {
	purchases := make([]domain.Purchase, 0, len(docs))
	for _, d := range docs {
		p, err := decodePurchase(d.Data)
		if err != nil {
			return nil, err
		}
		purchases = append(purchases, *p)
	}
	return purchases, nil
}
