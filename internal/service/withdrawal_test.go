package service

import (
	"context"
	"errors"
	"testing"

	"astrader_backend/internal/domain"
	"astrader_backend/internal/ledger"
	"astrader_backend/internal/repository"
)

func TestWithdrawalRequestComputesCharge(t *testing.T) {
	store := ledger.NewMemoryStore()
	s := NewWithdrawalService(store)

	w, err := s.Request(context.Background(), "bob", 1000)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if w.ServiceCharge != 100 || w.NetAmount != 900 {
		t.Fatalf("charge = %v, net = %v, want 100 and 900", w.ServiceCharge, w.NetAmount)
	}
	if w.Status != domain.WithdrawalStatusPending {
		t.Fatalf("status = %s, want pending", w.Status)
	}
}

func TestWithdrawalRequestRejectsNonPositive(t *testing.T) {
	s := NewWithdrawalService(ledger.NewMemoryStore())
	for _, amount := range []float64{0, -5} {
		if _, err := s.Request(context.Background(), "bob", amount); !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("Request(%v) err = %v, want ErrInvalidAmount", amount, err)
		}
	}
}

func TestWithdrawalAcceptDebitsWallet(t *testing.T) {
	store := ledger.NewMemoryStore()
	seedDashboard(t, store, "bob", 1000)
	s := NewWithdrawalService(store)

	w, err := s.Request(context.Background(), "bob", 1000)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if err := s.UpdateStatus(context.Background(), w.ID, domain.WithdrawalStatusAccepted); err != nil {
		t.Fatalf("accept: %v", err)
	}

	if d := getDashboard(t, store, "bob"); d.WalletBalance != 0 {
		t.Fatalf("wallet = %v, want 0", d.WalletBalance)
	}
	got, err := repository.NewWithdrawalRepository(store).GetByID(context.Background(), w.ID)
	if err != nil || got == nil {
		t.Fatalf("reload withdrawal: %v", err)
	}
	if got.Status != domain.WithdrawalStatusAccepted {
		t.Fatalf("status = %s, want accepted", got.Status)
	}

	txs := getTransactions(t, store, "bob")
	if len(txs) != 1 || txs[0].Type != domain.TxTypeWithdrawal || txs[0].Amount != -1000 {
		t.Fatalf("records = %+v, want one withdrawal of -1000", txs)
	}
}

func TestWithdrawalAcceptInsufficientFunds(t *testing.T) {
	store := ledger.NewMemoryStore()
	seedDashboard(t, store, "bob", 500)
	s := NewWithdrawalService(store)

	w, err := s.Request(context.Background(), "bob", 1000)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if err := s.Accept(context.Background(), w.ID); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("err = %v, want ErrInsufficientFunds", err)
	}

	// Nothing moved.
	if d := getDashboard(t, store, "bob"); d.WalletBalance != 500 {
		t.Fatalf("wallet = %v, want 500", d.WalletBalance)
	}
	got, err := repository.NewWithdrawalRepository(store).GetByID(context.Background(), w.ID)
	if err != nil || got == nil {
		t.Fatalf("reload withdrawal: %v", err)
	}
	if got.Status != domain.WithdrawalStatusPending {
		t.Fatalf("status = %s, want still pending", got.Status)
	}
}

func TestWithdrawalDecisionsAreFinal(t *testing.T) {
	store := ledger.NewMemoryStore()
	seedDashboard(t, store, "bob", 2000)
	s := NewWithdrawalService(store)

	w, err := s.Request(context.Background(), "bob", 1000)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if err := s.Accept(context.Background(), w.ID); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if err := s.Accept(context.Background(), w.ID); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("second accept err = %v, want ErrInvalidStatus", err)
	}
	if err := s.Remove(context.Background(), w.ID); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("remove after accept err = %v, want ErrInvalidStatus", err)
	}
	// The double accept must not double-debit.
	if d := getDashboard(t, store, "bob"); d.WalletBalance != 1000 {
		t.Fatalf("wallet = %v, want 1000", d.WalletBalance)
	}
}

func TestWithdrawalRemoveLeavesWalletUntouched(t *testing.T) {
	store := ledger.NewMemoryStore()
	seedDashboard(t, store, "bob", 800)
	s := NewWithdrawalService(store)

	w, err := s.Request(context.Background(), "bob", 300)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if err := s.UpdateStatus(context.Background(), w.ID, domain.WithdrawalStatusRemoved); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if d := getDashboard(t, store, "bob"); d.WalletBalance != 800 {
		t.Fatalf("wallet = %v, want 800", d.WalletBalance)
	}
}

func TestWithdrawalUpdateStatusRejectsUnknown(t *testing.T) {
	s := NewWithdrawalService(ledger.NewMemoryStore())
	if err := s.UpdateStatus(context.Background(), "w1", domain.WithdrawalStatus("bogus")); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("err = %v, want ErrInvalidStatus", err)
	}
}
