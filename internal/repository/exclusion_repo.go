package repository

import (
	"context"
	"encoding/json"

	"astrader_backend/internal/domain"
	"astrader_backend/internal/ledger"
)

type ExclusionRepository struct {
	store ledger.Store
}

func NewExclusionRepository(store ledger.Store) *ExclusionRepository {
	return &ExclusionRepository{store: store}
}

// GetWithTx reads the exclusion record for a month ("YYYY-MM") inside a
// transaction; ledger.ErrNotFound means it has not been computed yet.
func (r *ExclusionRepository) GetWithTx(ctx context.Context, tx ledger.Tx, month string) (*domain.MonthExclusions, error) {
	data, err := tx.Get(ctx, ledger.CollectionExclusions, month)
	if err != nil {
		return nil, err
	}
	var m domain.MonthExclusions
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// SaveWithTx persists the exclusion record for a month.
func (r *ExclusionRepository) SaveWithTx(ctx context.Context, tx ledger.Tx, m *domain.MonthExclusions) error {
	data, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return tx.Set(ctx, ledger.CollectionExclusions, m.Month, data)
}
