package service

import (
	"context"
	"errors"
	"time"

	"astrader_backend/internal/domain"
	"astrader_backend/internal/ledger"
	"astrader_backend/internal/logger"
	"astrader_backend/internal/repository"
)

// AccrualEngine advances the per-purchase ROI state machine. One tick per
// eligible day per active purchase: accumulate the daily income, sweep the
// accumulator into the owner's wallet every 30 accrued days, pay the
// sweep-time sponsor bonus, and complete the purchase at the 500-day cap.
type AccrualEngine struct {
	store        ledger.Store
	purchases    *repository.PurchaseRepository
	dashboards   *repository.DashboardRepository
	transactions *repository.TransactionRepository
	bonus        *BonusDistributor
	exclusions   *ExclusionService
}

func NewAccrualEngine(store ledger.Store, bonus *BonusDistributor, exclusions *ExclusionService) *AccrualEngine {
	return &AccrualEngine{
		store:        store,
		purchases:    repository.NewPurchaseRepository(store),
		dashboards:   repository.NewDashboardRepository(store),
		transactions: repository.NewTransactionRepository(store),
		bonus:        bonus,
		exclusions:   exclusions,
	}
}

// TickReport summarizes one run of the daily job.
type TickReport struct {
	Eligible  bool
	Processed int
	Skipped   int
	Swept     int
	Completed int
	Failed    int
}

// TickAllActivePurchases runs one accrual day. The date is injected so the
// scheduler can pass the wall clock and tests can pass fixed days. Each
// purchase's tick is its own transaction; one failing purchase never blocks
// the rest of the batch.
func (e *AccrualEngine) TickAllActivePurchases(ctx context.Context, today time.Time) (TickReport, error) {
	log := logger.With("job", "roi_accrual", "day", today.Format("2006-01-02"))

	excluded, err := e.exclusions.IsExcluded(ctx, today)
	if err != nil {
		return TickReport{}, err
	}
	if excluded {
		log.Info("non-accrual day, skipping run")
		return TickReport{}, nil
	}

	active, err := e.purchases.GetActive(ctx)
	if err != nil {
		return TickReport{}, err
	}

	report := TickReport{Eligible: true}
	day := today.Format("2006-01-02")
	for _, p := range active {
		out, err := e.tickPurchase(ctx, p.ID, day)
		if err != nil {
			report.Failed++
			AccrualFailures.WithLabelValues(failureReason(err)).Inc()
			log.Error("purchase tick failed", "purchase", p.ID, "user", p.UserID, "error", err)
			continue
		}
		if !out.ticked {
			report.Skipped++
			continue
		}
		report.Processed++
		AccrualTicks.Inc()
		if out.swept {
			report.Swept++
			AccrualSweeps.Inc()
		}
		if out.completed {
			report.Completed++
		}
	}

	log.Info("accrual run finished",
		"processed", report.Processed,
		"skipped", report.Skipped,
		"swept", report.Swept,
		"completed", report.Completed,
		"failed", report.Failed,
	)
	return report, nil
}

type tickOutcome struct {
	ticked    bool
	swept     bool
	completed bool
}

// tickPurchase advances one purchase by one day. Purchase state, wallet
// credit, sponsor bonus and audit records all commit in a single transaction,
// so a failed read leaves no partial write behind.
func (e *AccrualEngine) tickPurchase(ctx context.Context, purchaseID, day string) (tickOutcome, error) {
	// The sponsor lookup is a denormalized scan, resolved outside the
	// transaction body on purpose; only the credits happen inside.
	pre, err := e.purchases.GetByID(ctx, purchaseID)
	if err != nil {
		return tickOutcome{}, err
	}
	if pre == nil {
		return tickOutcome{}, ledger.ErrNotFound
	}
	var sponsor *domain.User
	if (pre.ROIUpdatedDays+1)%domain.SweepInterval == 0 {
		sponsor, err = e.bonus.ResolveSweepSponsor(ctx, pre.UserID)
		if err != nil {
			return tickOutcome{}, err
		}
	}

	var out tickOutcome
	err = e.store.RunTransaction(ctx, func(tx ledger.Tx) error {
		out = tickOutcome{}

		p, err := e.purchases.GetWithTx(ctx, tx, purchaseID)
		if err != nil {
			return err
		}
		if p.Status != domain.PurchaseStatusActive || p.ROIUpdatedDays >= domain.MaxAccrualDays {
			return nil
		}
		if p.LastAccruedDay == day {
			// Already ticked today; a re-run of the job is a no-op.
			return nil
		}

		p.ROIAccumulated = round2(p.ROIAccumulated + p.DailyIncome)
		p.ROIUpdatedDays++
		p.LastAccruedDay = day
		out.ticked = true

		d, err := e.dashboards.GetWithTx(ctx, tx, p.UserID)
		if err != nil {
			return err
		}
		d.ROI = round2(d.ROI + p.DailyIncome)

		if p.ROIUpdatedDays%domain.SweepInterval == 0 && p.LastSweepDays < p.ROIUpdatedDays {
			swept := p.ROIAccumulated
			d.WalletBalance = round2(d.WalletBalance + swept)
			d.ROI = 0
			p.ROIAccumulated = 0
			p.LastSweepDays = p.ROIUpdatedDays
			p.WalletUpdated = true
			out.swept = true

			record := &domain.Transaction{
				UserID: p.UserID,
				Type:   domain.TxTypeROISweep,
				Amount: swept,
				Meta:   map[string]any{"purchaseId": p.ID, "roiUpdatedDays": p.ROIUpdatedDays},
			}
			if err := e.transactions.CreateWithTx(ctx, tx, record); err != nil {
				return err
			}
			if sponsor != nil {
				if err := e.bonus.ApplySweepBonus(ctx, tx, sponsor, p.UserID, swept); err != nil {
					return err
				}
			}
		}

		if p.ROIUpdatedDays == domain.MaxAccrualDays {
			p.Status = domain.PurchaseStatusCompleted
			out.completed = true
		}

		if err := e.purchases.SaveWithTx(ctx, tx, p); err != nil {
			return err
		}
		return e.dashboards.SaveWithTx(ctx, tx, d)
	})
	if err != nil {
		return tickOutcome{}, err
	}
	return out, nil
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		return "not_found"
	case errors.Is(err, ledger.ErrConflict):
		return "conflict"
	case errors.Is(err, ErrAmbiguousReferral), errors.Is(err, ErrReferralCycle):
		return "consistency"
	default:
		return "error"
	}
}
