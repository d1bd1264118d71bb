package service

import (
	"context"
	"errors"
	"testing"

	"astrader_backend/internal/ledger"
	"astrader_backend/internal/repository"
)

func newTestReferral(store ledger.Store) *ReferralService {
	return NewReferralService(repository.NewUserRepository(store))
}

func TestResolveSponsorChain(t *testing.T) {
	store := ledger.NewMemoryStore()
	seedUser(t, store, "a", "a01", "")
	seedUser(t, store, "b", "b01", "a01")
	seedUser(t, store, "c", "c01", "b01")
	seedUser(t, store, "d", "d01", "c01")

	chain, err := newTestReferral(store).ResolveSponsorChain(context.Background(), "d", SponsorChainDepth)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(chain) != 3 {
		t.Fatalf("chain length = %d, want 3", len(chain))
	}
	for i, want := range []string{"c", "b", "a"} {
		if chain[i].UserID != want {
			t.Fatalf("chain[%d] = %s, want %s", i, chain[i].UserID, want)
		}
	}
}

func TestResolveSponsorChainStopsAtRoot(t *testing.T) {
	store := ledger.NewMemoryStore()
	seedUser(t, store, "a", "a01", "")
	seedUser(t, store, "b", "b01", "a01")

	chain, err := newTestReferral(store).ResolveSponsorChain(context.Background(), "b", SponsorChainDepth)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(chain) != 1 || chain[0].UserID != "a" {
		t.Fatalf("chain = %+v, want just a", chain)
	}
}

func TestResolveSponsorChainDanglingCode(t *testing.T) {
	store := ledger.NewMemoryStore()
	seedUser(t, store, "b", "b01", "gone01")

	chain, err := newTestReferral(store).ResolveSponsorChain(context.Background(), "b", SponsorChainDepth)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(chain) != 0 {
		t.Fatalf("chain = %+v, want empty for dangling code", chain)
	}
}

func TestResolveSponsorChainUnknownUser(t *testing.T) {
	store := ledger.NewMemoryStore()
	_, err := newTestReferral(store).ResolveSponsorChain(context.Background(), "ghost", SponsorChainDepth)
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("err = %v, want ErrUserNotFound", err)
	}
}

func TestResolveSponsorChainDetectsCycle(t *testing.T) {
	store := ledger.NewMemoryStore()
	seedUser(t, store, "a", "a01", "b01")
	seedUser(t, store, "b", "b01", "a01")

	_, err := newTestReferral(store).ResolveSponsorChain(context.Background(), "a", SponsorChainDepth)
	if !errors.Is(err, ErrReferralCycle) {
		t.Fatalf("err = %v, want ErrReferralCycle", err)
	}
}

func TestDownlineCounts(t *testing.T) {
	store := ledger.NewMemoryStore()
	seedUser(t, store, "a", "a01", "")
	seedUser(t, store, "b", "b01", "a01")
	seedUser(t, store, "c", "c01", "a01")
	seedUser(t, store, "d", "d01", "b01")

	direct, total, err := newTestReferral(store).Downline(context.Background(), "a01")
	if err != nil {
		t.Fatalf("downline: %v", err)
	}
	if direct != 2 || total != 3 {
		t.Fatalf("direct = %d, total = %d, want 2 and 3", direct, total)
	}
}

func TestDownlineSurvivesCyclicData(t *testing.T) {
	store := ledger.NewMemoryStore()
	seedUser(t, store, "a", "a01", "b01")
	seedUser(t, store, "b", "b01", "a01")

	direct, total, err := newTestReferral(store).Downline(context.Background(), "a01")
	if err != nil {
		t.Fatalf("downline: %v", err)
	}
	if direct != 1 || total != 1 {
		t.Fatalf("direct = %d, total = %d, want 1 and 1", direct, total)
	}
}
