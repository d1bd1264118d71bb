package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"astrader_backend/internal/domain"
	"astrader_backend/internal/ledger"
	"astrader_backend/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// UserService handles signup and admin account management. Referral codes
// are permanent: the code minted at signup becomes the user's immutable
// asTraderId and is never consumed or rotated.
type UserService struct {
	store      ledger.Store
	users      *repository.UserRepository
	dashboards *repository.DashboardRepository
}

func NewUserService(store ledger.Store) *UserService {
	return &UserService{
		store:      store,
		users:      repository.NewUserRepository(store),
		dashboards: repository.NewDashboardRepository(store),
	}
}

// Signup creates a user and their empty dashboard in one transaction. A
// sponsor code, when supplied, must resolve to exactly one existing user.
func (s *UserService) Signup(ctx context.Context, name, email, sponsorCode string) (*domain.User, error) {
	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, ErrEmailTaken
	}

	if sponsorCode != "" {
		matches, err := s.users.FindByTraderID(ctx, sponsorCode)
		if err != nil {
			return nil, err
		}
		if len(matches) == 0 {
			return nil, ErrUnknownSponsor
		}
		if len(matches) > 1 {
			return nil, ErrAmbiguousReferral
		}
	}

	traderID, err := s.mintTraderID(ctx)
	if err != nil {
		return nil, err
	}

	u := &domain.User{
		UserID:     uuid.NewString(),
		AsTraderID: traderID,
		ReferredBy: sponsorCode,
		Name:       name,
		Email:      email,
		Role:       domain.RoleUser,
		CreatedAt:  time.Now().UTC(),
	}
	err = s.store.RunTransaction(ctx, func(tx ledger.Tx) error {
		if err := s.users.CreateWithTx(ctx, tx, u); err != nil {
			return err
		}
		return s.dashboards.SaveWithTx(ctx, tx, &domain.Dashboard{UserID: u.UserID})
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

// mintTraderID generates a unique referral code, retrying on the rare
// collision.
func (s *UserService) mintTraderID(ctx context.Context) (string, error) {
	for i := 0; i < 5; i++ {
		buf := make([]byte, 6)
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		code := hex.EncodeToString(buf)
		matches, err := s.users.FindByTraderID(ctx, code)
		if err != nil {
			return "", err
		}
		if len(matches) == 0 {
			return code, nil
		}
	}
	return "", errors.New("could not mint a unique trader id")
}

// AdminSignup creates an admin account with a bcrypt-hashed password.
func (s *UserService) AdminSignup(ctx context.Context, name, email, password string) (*domain.User, error) {
	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	traderID, err := s.mintTraderID(ctx)
	if err != nil {
		return nil, err
	}
	u := &domain.User{
		UserID:       uuid.NewString(),
		AsTraderID:   traderID,
		Name:         name,
		Email:        email,
		Role:         domain.RoleAdmin,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// AdminLogin verifies an admin's credentials.
func (s *UserService) AdminLogin(ctx context.Context, email, password string) (*domain.User, error) {
	matches, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if len(matches) != 1 || matches[0].Role != domain.RoleAdmin {
		return nil, ErrInvalidLogin
	}
	u := matches[0]
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidLogin
	}
	return &u, nil
}
