package service

import (
	"context"
	"fmt"

	"astrader_backend/internal/domain"
	"astrader_backend/internal/ledger"
	"astrader_backend/internal/repository"
)

// purchaseBonusRates are the purchase-time referral rates per sponsor level.
var purchaseBonusRates = []float64{0.05, 0.03, 0.01}

// sweepBonusRate is paid to the level-1 sponsor on every ROI sweep.
const sweepBonusRate = 0.10

// BonusDistributor credits referral bonuses to sponsor dashboards.
// Purchase-time bonuses (5/3/1%) go to levelIncome; sweep-time bonuses
// (10%, level 1 only) go to roiWallet.
type BonusDistributor struct {
	store        ledger.Store
	referral     *ReferralService
	dashboards   *repository.DashboardRepository
	transactions *repository.TransactionRepository
}

func NewBonusDistributor(store ledger.Store, referral *ReferralService) *BonusDistributor {
	return &BonusDistributor{
		store:        store,
		referral:     referral,
		dashboards:   repository.NewDashboardRepository(store),
		transactions: repository.NewTransactionRepository(store),
	}
}

// DistributeBonus applies the purchase-time bonuses for a purchase of
// baseAmount made by userID. All credited levels commit in one transaction;
// if any resolved sponsor's dashboard is missing the whole distribution is
// rolled back. A chain shorter than three levels simply earns fewer bonuses.
func (b *BonusDistributor) DistributeBonus(ctx context.Context, userID string, baseAmount float64) error {
	if baseAmount <= 0 {
		return ErrInvalidAmount
	}

	chain, err := b.referral.ResolveSponsorChain(ctx, userID, SponsorChainDepth)
	if err != nil {
		return err
	}
	if len(chain) == 0 {
		return nil
	}

	err = b.store.RunTransaction(ctx, func(tx ledger.Tx) error {
		for level, sponsor := range chain {
			bonus := round2(baseAmount * purchaseBonusRates[level])
			d, err := b.dashboards.GetWithTx(ctx, tx, sponsor.UserID)
			if err != nil {
				return fmt.Errorf("level %d sponsor %s dashboard: %w", level+1, sponsor.UserID, err)
			}
			d.LevelIncome = round2(d.LevelIncome + bonus)
			if err := b.dashboards.SaveWithTx(ctx, tx, d); err != nil {
				return err
			}
			record := &domain.Transaction{
				UserID: sponsor.UserID,
				Type:   domain.TxTypePurchaseBonus,
				Amount: bonus,
				Meta: map[string]any{
					"fromUserId": userID,
					"level":      level + 1,
					"baseAmount": baseAmount,
				},
			}
			if err := b.transactions.CreateWithTx(ctx, tx, record); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	BonusDistributions.Inc()
	return nil
}

// ResolveSweepSponsor finds the level-1 sponsor for a sweep-time bonus.
// Returns nil when the owner has no resolvable sponsor.
func (b *BonusDistributor) ResolveSweepSponsor(ctx context.Context, ownerID string) (*domain.User, error) {
	chain, err := b.referral.ResolveSponsorChain(ctx, ownerID, 1)
	if err != nil {
		return nil, err
	}
	if len(chain) == 0 {
		return nil, nil
	}
	return &chain[0], nil
}

// ApplySweepBonus credits 10% of the swept amount to the sponsor's roiWallet
// inside the caller's transaction, so it commits together with the sweep.
func (b *BonusDistributor) ApplySweepBonus(ctx context.Context, tx ledger.Tx, sponsor *domain.User, ownerID string, swept float64) error {
	bonus := round2(swept * sweepBonusRate)
	d, err := b.dashboards.GetWithTx(ctx, tx, sponsor.UserID)
	if err != nil {
		return fmt.Errorf("sweep sponsor %s dashboard: %w", sponsor.UserID, err)
	}
	d.ROIWallet = round2(d.ROIWallet + bonus)
	if err := b.dashboards.SaveWithTx(ctx, tx, d); err != nil {
		return err
	}
	record := &domain.Transaction{
		UserID: sponsor.UserID,
		Type:   domain.TxTypeSweepBonus,
		Amount: bonus,
		Meta: map[string]any{
			"fromUserId":  ownerID,
			"sweptAmount": swept,
		},
	}
	return b.transactions.CreateWithTx(ctx, tx, record)
}
