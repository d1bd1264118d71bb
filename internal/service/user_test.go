package service

import (
	"context"
	"errors"
	"testing"

	"astrader_backend/internal/domain"
	"astrader_backend/internal/ledger"
)

func TestSignupCreatesUserAndDashboard(t *testing.T) {
	store := ledger.NewMemoryStore()
	s := NewUserService(store)

	u, err := s.Signup(context.Background(), "Alice", "alice@example.com", "")
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if u.UserID == "" || u.AsTraderID == "" {
		t.Fatalf("missing identifiers: %+v", u)
	}
	if len(u.AsTraderID) != 12 {
		t.Fatalf("trader id %q, want 12 hex chars", u.AsTraderID)
	}
	if u.Role != domain.RoleUser {
		t.Fatalf("role = %s, want user", u.Role)
	}

	d := getDashboard(t, store, u.UserID)
	if d.WalletBalance != 0 || d.LevelIncome != 0 || d.ROI != 0 || d.ROIWallet != 0 {
		t.Fatalf("fresh dashboard not zeroed: %+v", d)
	}
}

func TestSignupWithSponsor(t *testing.T) {
	store := ledger.NewMemoryStore()
	seedUser(t, store, "alice", "alice01", "")
	s := NewUserService(store)

	u, err := s.Signup(context.Background(), "Bob", "bob@example.com", "alice01")
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if u.ReferredBy != "alice01" {
		t.Fatalf("referredBy = %q, want alice01", u.ReferredBy)
	}
}

func TestSignupRejectsUnknownSponsor(t *testing.T) {
	s := NewUserService(ledger.NewMemoryStore())
	_, err := s.Signup(context.Background(), "Bob", "bob@example.com", "nosuch")
	if !errors.Is(err, ErrUnknownSponsor) {
		t.Fatalf("err = %v, want ErrUnknownSponsor", err)
	}
}

func TestSignupRejectsDuplicateEmail(t *testing.T) {
	store := ledger.NewMemoryStore()
	s := NewUserService(store)

	if _, err := s.Signup(context.Background(), "Alice", "alice@example.com", ""); err != nil {
		t.Fatalf("first signup: %v", err)
	}
	_, err := s.Signup(context.Background(), "Alice II", "alice@example.com", "")
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("err = %v, want ErrEmailTaken", err)
	}
}

func TestAdminLoginRoundTrip(t *testing.T) {
	store := ledger.NewMemoryStore()
	s := NewUserService(store)

	created, err := s.AdminSignup(context.Background(), "Root", "root@example.com", "hunter2hunter2")
	if err != nil {
		t.Fatalf("admin signup: %v", err)
	}
	if created.Role != domain.RoleAdmin {
		t.Fatalf("role = %s, want admin", created.Role)
	}

	u, err := s.AdminLogin(context.Background(), "root@example.com", "hunter2hunter2")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if u.UserID != created.UserID {
		t.Fatalf("logged in as %s, want %s", u.UserID, created.UserID)
	}

	if _, err := s.AdminLogin(context.Background(), "root@example.com", "wrong"); !errors.Is(err, ErrInvalidLogin) {
		t.Fatalf("wrong password err = %v, want ErrInvalidLogin", err)
	}
	if _, err := s.AdminLogin(context.Background(), "nobody@example.com", "hunter2hunter2"); !errors.Is(err, ErrInvalidLogin) {
		t.Fatalf("unknown email err = %v, want ErrInvalidLogin", err)
	}
}

func TestAdminLoginRejectsRegularUsers(t *testing.T) {
	store := ledger.NewMemoryStore()
	s := NewUserService(store)

	if _, err := s.Signup(context.Background(), "Alice", "alice@example.com", ""); err != nil {
		t.Fatalf("signup: %v", err)
	}
	if _, err := s.AdminLogin(context.Background(), "alice@example.com", ""); !errors.Is(err, ErrInvalidLogin) {
		t.Fatalf("err = %v, want ErrInvalidLogin", err)
	}
}
