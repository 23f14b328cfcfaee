package documents

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/dmitrijs2005/socialnet/internal/common"
	"github.com/dmitrijs2005/socialnet/internal/dbx"
	"github.com/dmitrijs2005/socialnet/internal/logging"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

// PostgresRepository stores documents as JSONB rows of the documents table.
type PostgresRepository struct {
	conn   Connector
	logger logging.Logger
	newID  func() string
}

var _ Repository = (*PostgresRepository)(nil)

func NewPostgresRepository(conn Connector, l logging.Logger) *PostgresRepository {
	return &PostgresRepository{
		conn:   conn,
		logger: l.With("module", "documents"),
		newID:  func() string { return uuid.NewString() },
	}
}

// Clear deletes every document of the collection. Clearing an empty
// collection is not an error.
func (r *PostgresRepository) Clear(ctx context.Context, collection string) error {
	err := r.conn.WithConnection(ctx, func(ctx context.Context, db dbx.DBTX) error {
		if _, err := db.ExecContext(ctx, `DELETE FROM documents WHERE collection = $1`, collection); err != nil {
			return queryError(err)
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, common.ErrNoConnection) {
			r.logger.Error(ctx, "Unable to clear the collection", "collection", collection, "error", err)
		}
		return err
	}

	r.logger.Info(ctx, "The collection has been cleared", "collection", collection)
	return nil
}

// Get returns the documents matching filter in insertion order. A read that
// matched nothing returns an empty slice and a nil error; a failed read
// returns common.ErrNoConnection or an error wrapping common.ErrQuery.
func (r *PostgresRepository) Get(ctx context.Context, collection string, filter Filter) ([]Document, error) {
	query, args, err := buildSelect(collection, filter)
	if err != nil {
		r.logger.Error(ctx, "Invalid filter", "collection", collection, "error", err)
		return nil, fmt.Errorf("%w: %v", common.ErrQuery, err)
	}

	var docs []Document
	err = r.conn.WithConnection(ctx, func(ctx context.Context, db dbx.DBTX) error {
		rows, err := db.QueryContext(ctx, query, args...)
		if err != nil {
			return queryError(err)
		}
		defer rows.Close()

		docs = make([]Document, 0)
		for rows.Next() {
			var (
				id   string
				body []byte
			)
			if err := rows.Scan(&id, &body); err != nil {
				return queryError(err)
			}
			doc := Document{}
			if err := json.Unmarshal(body, &doc); err != nil {
				return queryError(err)
			}
			doc[IDField] = id
			docs = append(docs, doc)
		}
		if err := rows.Err(); err != nil {
			return queryError(err)
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, common.ErrNoConnection) {
			r.logger.Error(ctx, "Unable to read the collection", "collection", collection, "error", err)
		}
		return nil, err
	}

	return docs, nil
}

// GetAsync runs Get in its own goroutine. The returned channel receives
// exactly one Result and is then closed.
func (r *PostgresRepository) GetAsync(ctx context.Context, collection string, filter Filter) <-chan Result {
	ch := make(chan Result, 1)
	go func() {
		defer close(ch)
		docs, err := r.Get(ctx, collection, filter)
		ch <- Result{Documents: docs, Err: err}
	}()
	return ch
}

// Insert stores doc under a new id and returns that id. A unique index
// violation is reported as common.ErrDuplicate.
func (r *PostgresRepository) Insert(ctx context.Context, collection string, doc Document) (string, error) {
	body := make(map[string]any, len(doc))
	for k, v := range doc {
		if k != IDField {
			body[k] = v
		}
	}
	b, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("%w: encode document: %v", common.ErrQuery, err)
	}

	id := r.newID()
	err = r.conn.WithConnection(ctx, func(ctx context.Context, db dbx.DBTX) error {
		_, err := db.ExecContext(ctx,
			`INSERT INTO documents (id, collection, body) VALUES ($1, $2, $3::jsonb)`,
			id, collection, string(b))
		if err != nil {
			return insertError(err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	return id, nil
}

func buildSelect(collection string, filter Filter) (string, []any, error) {
	var sb strings.Builder
	args := []any{collection}

	sb.WriteString(`SELECT id, body FROM documents WHERE collection = $1`)

	if len(filter.Eq) > 0 {
		b, err := json.Marshal(filter.Eq)
		if err != nil {
			return "", nil, fmt.Errorf("encode filter: %w", err)
		}
		args = append(args, string(b))
		fmt.Fprintf(&sb, ` AND body @> $%d::jsonb`, len(args))
	}

	keys := make([]string, 0, len(filter.Ne))
	for k := range filter.Ne {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		args = append(args, k, filter.Ne[k])
		fmt.Fprintf(&sb, ` AND (body ->> $%d::text) IS DISTINCT FROM $%d::text`, len(args)-1, len(args))
	}

	sb.WriteString(` ORDER BY created_at, id`)
	return sb.String(), args, nil
}

func queryError(err error) error {
	return fmt.Errorf("%w: %v", common.ErrQuery, err)
}

func insertError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", common.ErrDuplicate, pgErr.Detail)
	}
	return queryError(err)
}
