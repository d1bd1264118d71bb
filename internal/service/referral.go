package service

import (
	"context"

	"astrader_backend/internal/domain"
	"astrader_backend/internal/repository"
)

// SponsorChainDepth is how many referrer levels earn purchase-time bonuses.
const SponsorChainDepth = 3

// ReferralService resolves the sponsor ancestry of a user and recomputes
// downline counts. It only ever reads; credits are applied elsewhere.
type ReferralService struct {
	users *repository.UserRepository
}

func NewReferralService(users *repository.UserRepository) *ReferralService {
	return &ReferralService{users: users}
}

// ResolveSponsorChain walks referredBy links upward from userID, at most
// depth hops. The chain ends without error when a link is absent or points
// at nobody; a link matching more than one user is ErrAmbiguousReferral and
// a chain revisiting a trader code is ErrReferralCycle.
func (s *ReferralService) ResolveSponsorChain(ctx context.Context, userID string, depth int) ([]domain.User, error) {
	current, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, ErrUserNotFound
	}

	seen := map[string]bool{current.AsTraderID: true}
	chain := make([]domain.User, 0, depth)

	for len(chain) < depth {
		code := current.ReferredBy
		if code == "" {
			break
		}
		matches, err := s.users.FindByTraderID(ctx, code)
		if err != nil {
			return nil, err
		}
		if len(matches) == 0 {
			break
		}
		if len(matches) > 1 {
			return nil, ErrAmbiguousReferral
		}
		sponsor := matches[0]
		if seen[sponsor.AsTraderID] {
			return nil, ErrReferralCycle
		}
		seen[sponsor.AsTraderID] = true
		chain = append(chain, sponsor)
		current = &sponsor
	}
	return chain, nil
}

// Downline recomputes a user's direct and total referral counts by walking
// the referral tree breadth-first with an explicit frontier, guarding against
// cycles in the stored data.
func (s *ReferralService) Downline(ctx context.Context, traderID string) (direct int, total int, err error) {
	visited := map[string]bool{traderID: true}
	frontier := []string{traderID}
	level := 0

	for len(frontier) > 0 {
		var next []string
		for _, code := range frontier {
			members, err := s.users.FindByReferredBy(ctx, code)
			if err != nil {
				return 0, 0, err
			}
			for _, m := range members {
				if visited[m.AsTraderID] {
					continue
				}
				visited[m.AsTraderID] = true
				total++
				if level == 0 {
					direct++
				}
				next = append(next, m.AsTraderID)
			}
		}
		frontier = next
		level++
	}
	return direct, total, nil
}
