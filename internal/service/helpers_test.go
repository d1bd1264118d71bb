package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"astrader_backend/internal/domain"
	"astrader_backend/internal/ledger"
	"astrader_backend/internal/repository"
)

func newTestEngine(store ledger.Store) *AccrualEngine {
	referral := NewReferralService(repository.NewUserRepository(store))
	bonus := NewBonusDistributor(store, referral)
	return NewAccrualEngine(store, bonus, NewExclusionService(store))
}

func seedUser(t *testing.T, store ledger.Store, userID, traderID, referredBy string) {
	t.Helper()
	u := domain.User{
		UserID:     userID,
		AsTraderID: traderID,
		ReferredBy: referredBy,
		Name:       userID,
		Email:      userID + "@example.com",
		Role:       domain.RoleUser,
		CreatedAt:  time.Now().UTC(),
	}
	data, err := json.Marshal(u)
	if err != nil {
		t.Fatalf("marshal user: %v", err)
	}
	if err := store.Set(context.Background(), ledger.CollectionUsers, userID, data); err != nil {
		t.Fatalf("seed user %s: %v", userID, err)
	}
}

func seedDashboard(t *testing.T, store ledger.Store, userID string, walletBalance float64) {
	t.Helper()
	d := domain.Dashboard{UserID: userID, WalletBalance: walletBalance}
	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal dashboard: %v", err)
	}
	if err := store.Set(context.Background(), ledger.CollectionDashboard, userID, data); err != nil {
		t.Fatalf("seed dashboard %s: %v", userID, err)
	}
}

func seedPurchase(t *testing.T, store ledger.Store, p domain.Purchase) {
	t.Helper()
	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal purchase: %v", err)
	}
	if err := store.Set(context.Background(), ledger.CollectionPurchases, p.ID, data); err != nil {
		t.Fatalf("seed purchase %s: %v", p.ID, err)
	}
}

// seedNoExclusions pins the given months to an empty weekday exclusion set so
// accrual runs are deterministic.
func seedNoExclusions(t *testing.T, store ledger.Store, months ...string) {
	t.Helper()
	for _, month := range months {
		data, err := json.Marshal(domain.MonthExclusions{Month: month, Days: []int{}})
		if err != nil {
			t.Fatalf("marshal exclusions: %v", err)
		}
		if err := store.Set(context.Background(), ledger.CollectionExclusions, month, data); err != nil {
			t.Fatalf("seed exclusions %s: %v", month, err)
		}
	}
}

func getDashboard(t *testing.T, store ledger.Store, userID string) *domain.Dashboard {
	t.Helper()
	d, err := repository.NewDashboardRepository(store).Get(context.Background(), userID)
	if err != nil {
		t.Fatalf("get dashboard %s: %v", userID, err)
	}
	if d == nil {
		t.Fatalf("dashboard %s not found", userID)
	}
	return d
}

func getPurchase(t *testing.T, store ledger.Store, id string) *domain.Purchase {
	t.Helper()
	p, err := repository.NewPurchaseRepository(store).GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("get purchase %s: %v", id, err)
	}
	if p == nil {
		t.Fatalf("purchase %s not found", id)
	}
	return p
}

func getTransactions(t *testing.T, store ledger.Store, userID string) []domain.Transaction {
	t.Helper()
	txs, err := repository.NewTransactionRepository(store).GetByUserID(context.Background(), userID)
	if err != nil {
		t.Fatalf("get transactions %s: %v", userID, err)
	}
	return txs
}

// runWeekdayTicks advances the engine over n weekday dates starting at start,
// skipping weekends the same way the live scheduler encounters them.
func runWeekdayTicks(t *testing.T, engine *AccrualEngine, start time.Time, n int) {
	t.Helper()
	day := start
	done := 0
	for done < n {
		if wd := day.Weekday(); wd != time.Saturday && wd != time.Sunday {
			if _, err := engine.TickAllActivePurchases(context.Background(), day); err != nil {
				t.Fatalf("tick on %s: %v", day.Format("2006-01-02"), err)
			}
			done++
		}
		day = day.AddDate(0, 0, 1)
	}
}
