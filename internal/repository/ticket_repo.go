package repository

import (
	"context"
	"encoding/json"

	"astrader_backend/internal/domain"
	"astrader_backend/internal/ledger"
)

type TicketRepository struct {
	store ledger.Store
}

func NewTicketRepository(store ledger.Store) *TicketRepository {
	return &TicketRepository{store: store}
}

// Create stores a new support ticket.
func (r *TicketRepository) Create(ctx context.Context, t *domain.Ticket) error {
	data, err := json.Marshal(t)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, ledger.CollectionTickets, t.ID, data)
}

// GetByUserID returns all tickets opened by a user.
func (r *TicketRepository) GetByUserID(ctx context.Context, userID string) ([]domain.Ticket, error) {
	docs, err := r.store.QueryEquals(ctx, ledger.CollectionTickets, "userId", userID)
	if err != nil {
		return nil, err
	}
	return decodeTickets(docs)
}

// List returns all tickets, for the admin overview.
func (r *TicketRepository) List(ctx context.Context) ([]domain.Ticket, error) {
	docs, err := r.store.List(ctx, ledger.CollectionTickets)
	if err != nil {
		return nil, err
	}
	return decodeTickets(docs)
}

// UpdateStatus transitions a ticket's status; ledger.ErrNotFound if the
// ticket does not exist.
func (r *TicketRepository) UpdateStatus(ctx context.Context, id string, status domain.TicketStatus) error {
	return r.store.Update(ctx, ledger.CollectionTickets, id, map[string]any{"status": string(status)})
}

func decodeTickets(docs []ledger.Document) ([]domain.Ticket, error) {
	tickets := make([]domain.Ticket, 0, len(docs))
	for _, d := range docs {
		var t domain.Ticket
		if err := json.Unmarshal(d.Data, &t); err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}
	return tickets, nil
}
