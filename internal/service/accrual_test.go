package service

import (
	"context"
	"testing"
	"time"

	"astrader_backend/internal/domain"
	"astrader_backend/internal/ledger"
)

func activePurchase(id, userID string, dailyIncome float64) domain.Purchase {
	return domain.Purchase{
		ID:           id,
		UserID:       userID,
		PackageName:  "starter",
		Amount:       300,
		DailyIncome:  dailyIncome,
		Duration:     500,
		TotalRevenue: 5000,
		Status:       domain.PurchaseStatusActive,
		CreatedAt:    time.Now().UTC(),
	}
}

func TestAccrualSweepAtThirtyDays(t *testing.T) {
	store := ledger.NewMemoryStore()
	seedNoExclusions(t, store, "2025-01", "2025-02")

	seedUser(t, store, "alice", "alice01", "")
	seedUser(t, store, "bob", "bob01", "alice01")
	seedDashboard(t, store, "alice", 0)
	seedDashboard(t, store, "bob", 0)
	seedPurchase(t, store, activePurchase("p1", "bob", 10))

	engine := newTestEngine(store)
	// Mon 2025-01-06; 30 weekday ticks land on Fri 2025-02-14.
	runWeekdayTicks(t, engine, time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC), 30)

	p := getPurchase(t, store, "p1")
	if p.ROIUpdatedDays != 30 {
		t.Fatalf("ROIUpdatedDays = %d, want 30", p.ROIUpdatedDays)
	}
	if p.ROIAccumulated != 0 {
		t.Fatalf("ROIAccumulated = %v, want 0 after sweep", p.ROIAccumulated)
	}
	if p.LastSweepDays != 30 {
		t.Fatalf("LastSweepDays = %d, want 30", p.LastSweepDays)
	}
	if !p.WalletUpdated {
		t.Fatal("WalletUpdated not set after sweep")
	}
	if p.Status != domain.PurchaseStatusActive {
		t.Fatalf("status = %s, want active", p.Status)
	}

	bob := getDashboard(t, store, "bob")
	if bob.WalletBalance != 300 {
		t.Fatalf("bob wallet = %v, want 300", bob.WalletBalance)
	}
	if bob.ROI != 0 {
		t.Fatalf("bob roi = %v, want 0 after sweep", bob.ROI)
	}

	alice := getDashboard(t, store, "alice")
	if alice.ROIWallet != 30 {
		t.Fatalf("alice roiWallet = %v, want 30 (10%% of sweep)", alice.ROIWallet)
	}
	if alice.WalletBalance != 0 || alice.LevelIncome != 0 {
		t.Fatalf("sweep bonus leaked into other alice balances: %+v", alice)
	}

	var sweeps, bonuses int
	for _, tx := range getTransactions(t, store, "bob") {
		if tx.Type == domain.TxTypeROISweep {
			sweeps++
			if tx.Amount != 300 {
				t.Fatalf("sweep record amount = %v, want 300", tx.Amount)
			}
		}
	}
	for _, tx := range getTransactions(t, store, "alice") {
		if tx.Type == domain.TxTypeSweepBonus {
			bonuses++
			if tx.Amount != 30 {
				t.Fatalf("sweep bonus record amount = %v, want 30", tx.Amount)
			}
		}
	}
	if sweeps != 1 || bonuses != 1 {
		t.Fatalf("sweeps = %d, bonuses = %d, want 1 and 1", sweeps, bonuses)
	}
}

func TestAccrualSameDayRunIsIdempotent(t *testing.T) {
	store := ledger.NewMemoryStore()
	seedNoExclusions(t, store, "2025-01")
	seedUser(t, store, "bob", "bob01", "")
	seedDashboard(t, store, "bob", 0)
	seedPurchase(t, store, activePurchase("p1", "bob", 10))

	engine := newTestEngine(store)
	day := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC) // Monday

	first, err := engine.TickAllActivePurchases(context.Background(), day)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if first.Processed != 1 {
		t.Fatalf("first run processed = %d, want 1", first.Processed)
	}

	second, err := engine.TickAllActivePurchases(context.Background(), day)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if second.Processed != 0 || second.Skipped != 1 {
		t.Fatalf("second run = %+v, want 0 processed / 1 skipped", second)
	}

	p := getPurchase(t, store, "p1")
	if p.ROIUpdatedDays != 1 || p.ROIAccumulated != 10 {
		t.Fatalf("double accrual: days = %d, accumulated = %v", p.ROIUpdatedDays, p.ROIAccumulated)
	}
	if d := getDashboard(t, store, "bob"); d.ROI != 10 {
		t.Fatalf("dashboard roi = %v, want 10", d.ROI)
	}
}

func TestAccrualSkipsWeekends(t *testing.T) {
	store := ledger.NewMemoryStore()
	seedUser(t, store, "bob", "bob01", "")
	seedDashboard(t, store, "bob", 0)
	seedPurchase(t, store, activePurchase("p1", "bob", 10))

	engine := newTestEngine(store)
	saturday := time.Date(2025, 1, 4, 0, 0, 0, 0, time.UTC)

	report, err := engine.TickAllActivePurchases(context.Background(), saturday)
	if err != nil {
		t.Fatalf("weekend run: %v", err)
	}
	if report.Eligible {
		t.Fatal("saturday reported as an accrual day")
	}
	if p := getPurchase(t, store, "p1"); p.ROIUpdatedDays != 0 {
		t.Fatalf("weekend accrued: days = %d", p.ROIUpdatedDays)
	}
}

func TestAccrualSkipsExcludedWeekdays(t *testing.T) {
	store := ledger.NewMemoryStore()
	data := []byte(`{"month":"2025-01","days":[6]}`)
	if err := store.Set(context.Background(), ledger.CollectionExclusions, "2025-01", data); err != nil {
		t.Fatalf("seed exclusions: %v", err)
	}
	seedUser(t, store, "bob", "bob01", "")
	seedDashboard(t, store, "bob", 0)
	seedPurchase(t, store, activePurchase("p1", "bob", 10))

	engine := newTestEngine(store)
	monday := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)

	report, err := engine.TickAllActivePurchases(context.Background(), monday)
	if err != nil {
		t.Fatalf("excluded-day run: %v", err)
	}
	if report.Eligible {
		t.Fatal("excluded weekday reported as an accrual day")
	}
	if p := getPurchase(t, store, "p1"); p.ROIUpdatedDays != 0 {
		t.Fatalf("excluded day accrued: days = %d", p.ROIUpdatedDays)
	}
}

func TestAccrualCompletesAtCap(t *testing.T) {
	store := ledger.NewMemoryStore()
	seedNoExclusions(t, store, "2025-01")
	seedUser(t, store, "bob", "bob01", "")
	seedDashboard(t, store, "bob", 0)

	p := activePurchase("p1", "bob", 10)
	p.ROIUpdatedDays = domain.MaxAccrualDays - 1
	p.ROIAccumulated = 190
	p.LastSweepDays = 480
	seedPurchase(t, store, p)

	engine := newTestEngine(store)
	monday := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)

	report, err := engine.TickAllActivePurchases(context.Background(), monday)
	if err != nil {
		t.Fatalf("capping run: %v", err)
	}
	if report.Processed != 1 || report.Completed != 1 {
		t.Fatalf("report = %+v, want 1 processed / 1 completed", report)
	}

	got := getPurchase(t, store, "p1")
	if got.Status != domain.PurchaseStatusCompleted {
		t.Fatalf("status = %s, want completed", got.Status)
	}
	if got.ROIUpdatedDays != domain.MaxAccrualDays {
		t.Fatalf("days = %d, want %d", got.ROIUpdatedDays, domain.MaxAccrualDays)
	}
	if got.ROIAccumulated != 200 {
		t.Fatalf("accumulated = %v, want 200", got.ROIAccumulated)
	}

	// A completed purchase never accrues again.
	tuesday := monday.AddDate(0, 0, 1)
	report, err = engine.TickAllActivePurchases(context.Background(), tuesday)
	if err != nil {
		t.Fatalf("post-completion run: %v", err)
	}
	if report.Processed != 0 {
		t.Fatalf("completed purchase processed again: %+v", report)
	}
	after := getPurchase(t, store, "p1")
	if after.ROIUpdatedDays != domain.MaxAccrualDays || after.ROIAccumulated != 200 {
		t.Fatalf("completed purchase mutated: %+v", after)
	}
}

func TestAccrualMissingDashboardLeavesNoPartialWrite(t *testing.T) {
	store := ledger.NewMemoryStore()
	seedNoExclusions(t, store, "2025-01")
	seedUser(t, store, "bob", "bob01", "")
	// No dashboard for bob.
	seedPurchase(t, store, activePurchase("p1", "bob", 10))

	engine := newTestEngine(store)
	monday := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)

	report, err := engine.TickAllActivePurchases(context.Background(), monday)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.Failed != 1 || report.Processed != 0 {
		t.Fatalf("report = %+v, want 1 failed / 0 processed", report)
	}

	p := getPurchase(t, store, "p1")
	if p.ROIUpdatedDays != 0 || p.ROIAccumulated != 0 || p.LastAccruedDay != "" {
		t.Fatalf("failed tick left partial purchase state: %+v", p)
	}
}

func TestAccrualOneFailureDoesNotBlockTheBatch(t *testing.T) {
	store := ledger.NewMemoryStore()
	seedNoExclusions(t, store, "2025-01")
	seedUser(t, store, "bob", "bob01", "")
	seedUser(t, store, "carol", "carol01", "")
	seedDashboard(t, store, "carol", 0)
	// bob has no dashboard, so his tick fails.
	seedPurchase(t, store, activePurchase("p1", "bob", 10))
	seedPurchase(t, store, activePurchase("p2", "carol", 7))

	engine := newTestEngine(store)
	monday := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)

	report, err := engine.TickAllActivePurchases(context.Background(), monday)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.Failed != 1 || report.Processed != 1 {
		t.Fatalf("report = %+v, want 1 failed / 1 processed", report)
	}
	if p := getPurchase(t, store, "p2"); p.ROIUpdatedDays != 1 || p.ROIAccumulated != 7 {
		t.Fatalf("healthy purchase not advanced: %+v", p)
	}
}
