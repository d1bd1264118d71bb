package ledger

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// maxTxRetries bounds how often a serialization failure is retried before the
// transaction surfaces ErrConflict.
const maxTxRetries = 3

// PostgresStore keeps every collection in a single JSONB documents table and
// maps RunTransaction onto serializable SQL transactions.
type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate creates the documents table and its containment index.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS documents (
			collection text NOT NULL,
			id         text NOT NULL,
			doc        jsonb NOT NULL,
			PRIMARY KEY (collection, id)
		)
	`)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(ctx, `
		CREATE INDEX IF NOT EXISTS documents_doc_idx ON documents USING gin (doc jsonb_path_ops)
	`)
	return err
}

type pgQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func pgGet(ctx context.Context, q pgQuerier, collection, id string) ([]byte, error) {
	var doc []byte
	err := q.QueryRow(ctx,
		`SELECT doc FROM documents WHERE collection = $1 AND id = $2`,
		collection, id,
	).Scan(&doc)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return doc, nil
}

func pgQueryEquals(ctx context.Context, q pgQuerier, collection, field string, value any) ([]Document, error) {
	filter, err := json.Marshal(map[string]any{field: value})
	if err != nil {
		return nil, err
	}

	rows, err := q.Query(ctx,
		`SELECT id, doc FROM documents WHERE collection = $1 AND doc @> $2::jsonb ORDER BY id`,
		collection, string(filter),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var d Document
		if err := rows.Scan(&d.ID, &d.Data); err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

func pgList(ctx context.Context, q pgQuerier, collection string) ([]Document, error) {
	rows, err := q.Query(ctx,
		`SELECT id, doc FROM documents WHERE collection = $1 ORDER BY id`,
		collection,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var d Document
		if err := rows.Scan(&d.ID, &d.Data); err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

func pgSet(ctx context.Context, q pgQuerier, collection, id string, data []byte) error {
	_, err := q.Exec(ctx, `
		INSERT INTO documents (collection, id, doc)
		VALUES ($1, $2, $3)
		ON CONFLICT (collection, id) DO UPDATE SET doc = EXCLUDED.doc
	`, collection, id, data)
	return err
}

func pgUpdate(ctx context.Context, q pgQuerier, collection, id string, fields map[string]any) error {
	patch, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	tag, err := q.Exec(ctx,
		`UPDATE documents SET doc = doc || $3::jsonb WHERE collection = $1 AND id = $2`,
		collection, id, patch,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func pgDelete(ctx context.Context, q pgQuerier, collection, id string) error {
	_, err := q.Exec(ctx,
		`DELETE FROM documents WHERE collection = $1 AND id = $2`,
		collection, id,
	)
	return err
}

func (s *PostgresStore) Get(ctx context.Context, collection, id string) ([]byte, error) {
	return pgGet(ctx, s.db, collection, id)
}

func (s *PostgresStore) QueryEquals(ctx context.Context, collection, field string, value any) ([]Document, error) {
	return pgQueryEquals(ctx, s.db, collection, field, value)
}

func (s *PostgresStore) List(ctx context.Context, collection string) ([]Document, error) {
	return pgList(ctx, s.db, collection)
}

func (s *PostgresStore) Set(ctx context.Context, collection, id string, data []byte) error {
	return pgSet(ctx, s.db, collection, id, data)
}

func (s *PostgresStore) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	return pgUpdate(ctx, s.db, collection, id, fields)
}

func (s *PostgresStore) Delete(ctx context.Context, collection, id string) error {
	return pgDelete(ctx, s.db, collection, id)
}

// RunTransaction runs fn inside a serializable transaction, retrying
// serialization failures up to maxTxRetries before returning ErrConflict.
func (s *PostgresStore) RunTransaction(ctx context.Context, fn func(tx Tx) error) error {
	for attempt := 0; attempt < maxTxRetries; attempt++ {
		err := s.runOnce(ctx, fn)
		if err == nil {
			return nil
		}
		if !isSerializationFailure(err) {
			return err
		}
	}
	return ErrConflict
}

func (s *PostgresStore) runOnce(ctx context.Context, fn func(tx Tx) error) error {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(&pgTx{tx: tx}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// serialization_failure, deadlock_detected
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}

type pgTx struct {
	tx pgx.Tx
}

func (t *pgTx) Get(ctx context.Context, collection, id string) ([]byte, error) {
	return pgGet(ctx, t.tx, collection, id)
}

func (t *pgTx) QueryEquals(ctx context.Context, collection, field string, value any) ([]Document, error) {
	return pgQueryEquals(ctx, t.tx, collection, field, value)
}

func (t *pgTx) List(ctx context.Context, collection string) ([]Document, error) {
	return pgList(ctx, t.tx, collection)
}

func (t *pgTx) Set(ctx context.Context, collection, id string, data []byte) error {
	return pgSet(ctx, t.tx, collection, id, data)
}

func (t *pgTx) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	return pgUpdate(ctx, t.tx, collection, id, fields)
}

func (t *pgTx) Delete(ctx context.Context, collection, id string) error {
	return pgDelete(ctx, t.tx, collection, id)
}
