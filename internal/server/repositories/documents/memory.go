package documents

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"sync"

	"github.com/dmitrijs2005/socialnet/internal/common"
	"github.com/google/uuid"
)

// MemoryRepository is a process-local Repository with the same filter and
// uniqueness semantics as PostgresRepository.
type MemoryRepository struct {
	mu          sync.Mutex
	collections map[string][]Document
	unique      map[string]string
}

var _ Repository = (*MemoryRepository)(nil)

// NewMemoryRepository builds an empty store. unique maps a collection name to
// a field that must be unique within it, mirroring the unique index created
// by the migrations.
func NewMemoryRepository(unique map[string]string) *MemoryRepository {
	return &MemoryRepository{
		collections: make(map[string][]Document),
		unique:      unique,
	}
}

func (m *MemoryRepository) Clear(ctx context.Context, collection string) error {
	if err := ctx.Err(); err != nil {
		return common.ErrNoConnection
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.collections, collection)
	return nil
}

func (m *MemoryRepository) Get(ctx context.Context, collection string, filter Filter) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, common.ErrNoConnection
	}
	eq, err := normalize(filter.Eq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrQuery, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	docs := make([]Document, 0)
	for _, doc := range m.collections[collection] {
		if matches(doc, eq, filter.Ne) {
			docs = append(docs, copyDocument(doc))
		}
	}
	return docs, nil
}

func (m *MemoryRepository) GetAsync(ctx context.Context, collection string, filter Filter) <-chan Result {
	ch := make(chan Result, 1)
	go func() {
		defer close(ch)
		docs, err := m.Get(ctx, collection, filter)
		ch <- Result{Documents: docs, Err: err}
	}()
	return ch
}

func (m *MemoryRepository) Insert(ctx context.Context, collection string, doc Document) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", common.ErrNoConnection
	}
	stored, err := normalize(doc)
	if err != nil {
		return "", fmt.Errorf("%w: encode document: %v", common.ErrQuery, err)
	}
	delete(stored, IDField)

	m.mu.Lock()
	defer m.mu.Unlock()

	if field, ok := m.unique[collection]; ok {
		if v, present := stored[field]; present {
			for _, existing := range m.collections[collection] {
				if reflect.DeepEqual(existing[field], v) {
					return "", fmt.Errorf("%w: %s=%v", common.ErrDuplicate, field, v)
				}
			}
		}
	}

	id := uuid.NewString()
	stored[IDField] = id
	m.collections[collection] = append(m.collections[collection], Document(stored))
	return id, nil
}

// Count reports how many documents the collection holds.
func (m *MemoryRepository) Count(collection string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.collections[collection])
}

// normalize round-trips v through JSON so stored documents and filters share
// the representation the PostgreSQL JSONB column would give them.
func normalize(v any) (map[string]any, error) {
	out := map[string]any{}
	if v == nil {
		return out, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func matches(doc Document, eq map[string]any, ne map[string]string) bool {
	for k, want := range eq {
		got, ok := doc[k]
		if !ok || !reflect.DeepEqual(got, want) {
			return false
		}
	}
	for k, unwanted := range ne {
		got, ok := doc[k]
		if !ok || got == nil {
			continue
		}
		if s, isString := got.(string); isString && s == unwanted {
			return false
		}
	}
	return true
}

func copyDocument(doc Document) Document {
	out := make(Document, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	return out
}
