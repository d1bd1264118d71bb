package repository

import (
	"context"
	"encoding/json"
	"errors"

	"astrader_backend/internal/domain"
	"astrader_backend/internal/ledger"
)

type UserRepository struct {
	store ledger.Store
}

func NewUserRepository(store ledger.Store) *UserRepository {
	return &UserRepository{store: store}
}

// GetByID retrieves a user by ID. Returns nil if the user does not exist.
func (r *UserRepository) GetByID(ctx context.Context, userID string) (*domain.User, error) {
	data, err := r.store.Get(ctx, ledger.CollectionUsers, userID)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	var u domain.User
	if err := json.Unmarshal(data, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// FindByTraderID returns every user whose asTraderId equals code. The sponsor
// lookup is denormalized, so callers must treat more than one match as a
// consistency violation.
func (r *UserRepository) FindByTraderID(ctx context.Context, code string) ([]domain.User, error) {
	return r.query(ctx, "asTraderId", code)
}

// FindByReferredBy returns the direct referrals of the given trader code.
func (r *UserRepository) FindByReferredBy(ctx context.Context, code string) ([]domain.User, error) {
	return r.query(ctx, "referredBy", code)
}

// FindByEmail returns users matching an email, used by admin search and login.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) ([]domain.User, error) {
	return r.query(ctx, "email", email)
}

// ListByRole returns all users with the given role.
func (r *UserRepository) ListByRole(ctx context.Context, role domain.Role) ([]domain.User, error) {
	return r.query(ctx, "role", string(role))
}

func (r *UserRepository) query(ctx context.Context, field string, value any) ([]domain.User, error) {
	docs, err := r.store.QueryEquals(ctx, ledger.CollectionUsers, field, value)
	if err != nil {
		return nil, err
	}
	users := make([]domain.User, 0, len(docs))
	for _, d := range docs {
		var u domain.User
		if err := json.Unmarshal(d.Data, &u); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, nil
}

// Create stores a new user document.
func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	data, err := json.Marshal(u)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, ledger.CollectionUsers, u.UserID, data)
}

// CreateWithTx stores a new user document inside an existing transaction.
func (r *UserRepository) CreateWithTx(ctx context.Context, tx ledger.Tx, u *domain.User) error {
	data, err := json.Marshal(u)
	if err != nil {
		return err
	}
	return tx.Set(ctx, ledger.CollectionUsers, u.UserID, data)
}
