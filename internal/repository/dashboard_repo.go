package repository

import (
	"context"
	"encoding/json"
	"errors"

	"astrader_backend/internal/domain"
	"astrader_backend/internal/ledger"
)

type DashboardRepository struct {
	store ledger.Store
}

func NewDashboardRepository(store ledger.Store) *DashboardRepository {
	return &DashboardRepository{store: store}
}

// Get retrieves a user's dashboard. Returns nil if it does not exist.
func (r *DashboardRepository) Get(ctx context.Context, userID string) (*domain.Dashboard, error) {
	data, err := r.store.Get(ctx, ledger.CollectionDashboard, userID)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	var d domain.Dashboard
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// GetWithTx reads a dashboard inside a transaction. A missing dashboard is a
// hard error (ledger.ErrNotFound) that aborts the transaction.
func (r *DashboardRepository) GetWithTx(ctx context.Context, tx ledger.Tx, userID string) (*domain.Dashboard, error) {
	data, err := tx.Get(ctx, ledger.CollectionDashboard, userID)
	if err != nil {
		return nil, err
	}
	var d domain.Dashboard
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// Save writes the full dashboard document.
func (r *DashboardRepository) Save(ctx context.Context, d *domain.Dashboard) error {
	data, err := json.Marshal(d)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, ledger.CollectionDashboard, d.UserID, data)
}

// SaveWithTx writes the full dashboard document inside a transaction.
func (r *DashboardRepository) SaveWithTx(ctx context.Context, tx ledger.Tx, d *domain.Dashboard) error {
	data, err := json.Marshal(d)
	if err != nil {
		return err
	}
	return tx.Set(ctx, ledger.CollectionDashboard, d.UserID, data)
}
