// Package documents implements the generic collection store: schemaless JSON
// documents grouped into named collections, read and written through a
// connection-per-operation gateway.
package documents

import (
	"context"

	"github.com/dmitrijs2005/socialnet/internal/dbx"
)

// IDField is the reserved document key carrying the store-assigned id.
const IDField = "_id"

// Document is a single stored record.
type Document map[string]any

// ID returns the store-assigned id or "" for a document that was never stored.
func (d Document) ID() string {
	id, _ := d[IDField].(string)
	return id
}

// Filter selects documents by field constraints. An empty Filter matches
// every document of the collection.
type Filter struct {
	// Eq requires each field to equal the given value. Values must be
	// scalars (string, number, bool): PostgreSQL matches arrays and objects
	// by containment, MemoryRepository by equality.
	Eq map[string]any
	// Ne requires each field to differ from the given value. A document
	// without the field satisfies the constraint.
	Ne map[string]string
}

// Result is the outcome of an asynchronous read. Err is nil for a successful
// read, in which case Documents may be empty.
type Result struct {
	Documents []Document
	Err       error
}

// Connector runs one operation on a freshly acquired connection.
type Connector interface {
	WithConnection(ctx context.Context, op dbx.Operation) error
}

type Repository interface {
	Clear(ctx context.Context, collection string) error
	Get(ctx context.Context, collection string, filter Filter) ([]Document, error)
	GetAsync(ctx context.Context, collection string, filter Filter) <-chan Result
	Insert(ctx context.Context, collection string, doc Document) (string, error)
}
