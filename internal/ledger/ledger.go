package ledger

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when a document does not exist.
	ErrNotFound = errors.New("document not found")
	// ErrConflict is returned when a transaction keeps losing write conflicts
	// after all retries are exhausted.
	ErrConflict = errors.New("transaction conflict")
)

// Document is a raw JSON document together with its ID.
type Document struct {
	ID   string
	Data []byte
}

// Reader is the read surface shared by the store and its transactions.
type Reader interface {
	// Get returns the raw document, or ErrNotFound.
	Get(ctx context.Context, collection, id string) ([]byte, error)
	// QueryEquals returns all documents in collection whose top-level field
	// equals value, ordered by ID.
	QueryEquals(ctx context.Context, collection, field string, value any) ([]Document, error)
	// List returns every document in collection, ordered by ID.
	List(ctx context.Context, collection string) ([]Document, error)
}

// Writer is the write surface shared by the store and its transactions.
type Writer interface {
	// Set creates or fully replaces a document.
	Set(ctx context.Context, collection, id string, data []byte) error
	// Update shallow-merges fields into an existing document, or ErrNotFound.
	Update(ctx context.Context, collection, id string, fields map[string]any) error
	Delete(ctx context.Context, collection, id string) error
}

// Tx is the handle passed to a transaction body. Reads observe writes made
// earlier in the same transaction.
type Tx interface {
	Reader
	Writer
}

// Store is the document database the platform persists through. All
// multi-document invariants (accrual ticks, bonus distributions, withdrawal
// debits) go through RunTransaction; everything else is single-document.
type Store interface {
	Reader
	Writer
	// RunTransaction executes fn and commits its writes atomically. If fn
	// returns an error nothing is written. Write conflicts are retried a
	// bounded number of times before surfacing as ErrConflict.
	RunTransaction(ctx context.Context, fn func(tx Tx) error) error
}

// Collection names used across the platform.
const (
	CollectionUsers        = "users"
	CollectionDashboard    = "dashboard"
	CollectionPurchases    = "purchases"
	CollectionWithdrawals  = "withdrawals"
	CollectionPackages     = "packages"
	CollectionTickets      = "tickets"
	CollectionTransactions = "transactions"
	CollectionExclusions   = "exclusions"
)
