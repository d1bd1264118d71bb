package ledger

import (
	"context"
	"encoding/json"
	"reflect"
	"sort"
	"sync"
)

// MemoryStore is an in-process Store used by tests and -store=memory runs.
// A single mutex serializes transactions, so RunTransaction never conflicts;
// writes are staged and only applied when the body succeeds.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string]map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]map[string][]byte)}
}

func (s *MemoryStore) Get(ctx context.Context, collection, id string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return getFrom(s.data, collection, id)
}

func (s *MemoryStore) QueryEquals(ctx context.Context, collection, field string, value any) ([]Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return queryFrom(s.data, collection, field, value)
}

func (s *MemoryStore) List(ctx context.Context, collection string) ([]Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return listFrom(s.data, collection)
}

func (s *MemoryStore) Set(ctx context.Context, collection, id string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	setIn(s.data, collection, id, data)
	return nil
}

func (s *MemoryStore) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return updateIn(s.data, collection, id, fields)
}

func (s *MemoryStore) Delete(ctx context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if col, ok := s.data[collection]; ok {
		delete(col, id)
	}
	return nil
}

func (s *MemoryStore) RunTransaction(ctx context.Context, fn func(tx Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Stage writes on a copy of the current state so a failing body leaves
	// the store untouched.
	staged := make(map[string]map[string][]byte, len(s.data))
	for col, docs := range s.data {
		cp := make(map[string][]byte, len(docs))
		for id, doc := range docs {
			cp[id] = doc
		}
		staged[col] = cp
	}

	if err := fn(&memTx{data: staged}); err != nil {
		return err
	}

	s.data = staged
	return nil
}

type memTx struct {
	data map[string]map[string][]byte
}

func (t *memTx) Get(ctx context.Context, collection, id string) ([]byte, error) {
	return getFrom(t.data, collection, id)
}

func (t *memTx) QueryEquals(ctx context.Context, collection, field string, value any) ([]Document, error) {
	return queryFrom(t.data, collection, field, value)
}

func (t *memTx) List(ctx context.Context, collection string) ([]Document, error) {
	return listFrom(t.data, collection)
}

func (t *memTx) Set(ctx context.Context, collection, id string, data []byte) error {
	setIn(t.data, collection, id, data)
	return nil
}

func (t *memTx) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	return updateIn(t.data, collection, id, fields)
}

func (t *memTx) Delete(ctx context.Context, collection, id string) error {
	if col, ok := t.data[collection]; ok {
		delete(col, id)
	}
	return nil
}

func getFrom(data map[string]map[string][]byte, collection, id string) ([]byte, error) {
	doc, ok := data[collection][id]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(doc))
	copy(out, doc)
	return out, nil
}

func setIn(data map[string]map[string][]byte, collection, id string, doc []byte) {
	col, ok := data[collection]
	if !ok {
		col = make(map[string][]byte)
		data[collection] = col
	}
	cp := make([]byte, len(doc))
	copy(cp, doc)
	col[id] = cp
}

func updateIn(data map[string]map[string][]byte, collection, id string, fields map[string]any) error {
	doc, ok := data[collection][id]
	if !ok {
		return ErrNotFound
	}
	var m map[string]any
	if err := json.Unmarshal(doc, &m); err != nil {
		return err
	}
	for k, v := range fields {
		m[k] = v
	}
	merged, err := json.Marshal(m)
	if err != nil {
		return err
	}
	data[collection][id] = merged
	return nil
}

func listFrom(data map[string]map[string][]byte, collection string) ([]Document, error) {
	var docs []Document
	for id, doc := range data[collection] {
		out := make([]byte, len(doc))
		copy(out, doc)
		docs = append(docs, Document{ID: id, Data: out})
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs, nil
}

func queryFrom(data map[string]map[string][]byte, collection, field string, value any) ([]Document, error) {
	// Normalize the wanted value through JSON so numbers compare the same
	// way they are stored (float64).
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	var want any
	if err := json.Unmarshal(raw, &want); err != nil {
		return nil, err
	}

	var docs []Document
	for id, doc := range data[collection] {
		var m map[string]any
		if err := json.Unmarshal(doc, &m); err != nil {
			return nil, err
		}
		if got, ok := m[field]; ok && reflect.DeepEqual(got, want) {
			out := make([]byte, len(doc))
			copy(out, doc)
			docs = append(docs, Document{ID: id, Data: out})
		}
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs, nil
}
