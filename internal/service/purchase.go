package service

import (
	"context"
	"fmt"
	"time"

	"astrader_backend/internal/domain"
	"astrader_backend/internal/ledger"
	"astrader_backend/internal/repository"

	"github.com/google/uuid"
)

// PurchaseService creates purchase requests and applies admin activation.
type PurchaseService struct {
	store     ledger.Store
	purchases *repository.PurchaseRepository
	bonus     *BonusDistributor
}

func NewPurchaseService(store ledger.Store, bonus *BonusDistributor) *PurchaseService {
	return &PurchaseService{
		store:     store,
		purchases: repository.NewPurchaseRepository(store),
		bonus:     bonus,
	}
}

// PurchaseTerms are the fixed terms of a package purchase request.
type PurchaseTerms struct {
	PackageName  string
	Amount       float64
	DailyIncome  float64
	Duration     int
	TotalRevenue float64
}

// Buy validates the terms, creates a pending purchase and distributes the
// purchase-time referral bonuses. Invalid terms are rejected before anything
// is written, which keeps the accrual engine total over stored purchases.
func (s *PurchaseService) Buy(ctx context.Context, userID string, terms PurchaseTerms) (*domain.Purchase, error) {
	if terms.Amount <= 0 || terms.DailyIncome <= 0 || terms.Duration <= 0 || terms.TotalRevenue <= 0 {
		return nil, ErrInvalidTerms
	}

	p := &domain.Purchase{
		ID:           uuid.NewString(),
		UserID:       userID,
		PackageName:  terms.PackageName,
		Amount:       terms.Amount,
		DailyIncome:  terms.DailyIncome,
		Duration:     terms.Duration,
		TotalRevenue: terms.TotalRevenue,
		Status:       domain.PurchaseStatusPending,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.purchases.Create(ctx, p); err != nil {
		return nil, err
	}

	if err := s.bonus.DistributeBonus(ctx, userID, terms.Amount); err != nil {
		return p, fmt.Errorf("purchase %s bonus distribution: %w", p.ID, err)
	}
	return p, nil
}

// Activate transitions a pending purchase to active and stamps its start
// date. Any other starting state is ErrInvalidStatus.
func (s *PurchaseService) Activate(ctx context.Context, purchaseID string, now time.Time) error {
	return s.store.RunTransaction(ctx, func(tx ledger.Tx) error {
		p, err := s.purchases.GetWithTx(ctx, tx, purchaseID)
		if err != nil {
			return err
		}
		if p.Status != domain.PurchaseStatusPending {
			return ErrInvalidStatus
		}
		start := now.UTC()
		p.Status = domain.PurchaseStatusActive
		p.StartDate = &start
		return s.purchases.SaveWithTx(ctx, tx, p)
	})
}
