// Package docstore is a small document-store abstraction: collections of
// JSON-like documents addressed by slash paths, with server-assigned ids and
// timestamps, equality queries and newest-first ordering.
//
// Child collections are scoped by their parent document id
// ("users/<id>/goals"), so a document is only reachable through the path of
// the parent it was created under.
package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/fitplan/internal/common"
)

// ErrAlreadyExists is returned by CreateUnique when the unique field is taken.
var ErrAlreadyExists = errors.New("document already exists")

// Document is a stored record. Data is an opaque JSON-compatible tree.
type Document struct {
	ID        string
	CreatedAt time.Time
	Data      map[string]any
}

// Filter matches documents whose top-level string field equals Value.
type Filter struct {
	Field string
	Value string
}

// Query narrows Find. Zero Limit means no limit.
type Query struct {
	Filters []Filter
	Limit   int
}

// Where is a shorthand for a single-filter query.
func Where(field, value string) Query {
	return Query{Filters: []Filter{{Field: field, Value: value}}}
}

// Store is implemented by every backend. All methods are safe for
// concurrent use.
type Store interface {
	// Create appends a document and returns it with its id and timestamp.
	Create(ctx context.Context, collection string, data map[string]any) (*Document, error)

	// CreateUnique is an atomic insert-if-absent keyed on the string value of
	// data[field] within collection. It returns ErrAlreadyExists when another
	// document already holds that value.
	CreateUnique(ctx context.Context, collection, field string, data map[string]any) (*Document, error)

	// Get returns common.ErrNotFound if collection holds no document with id.
	Get(ctx context.Context, collection, id string) (*Document, error)

	// Find returns matching documents ordered newest first; documents with
	// equal timestamps come back in reverse insertion order.
	Find(ctx context.Context, collection string, q Query) ([]*Document, error)

	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// Sub returns the path of the child collection named child under the
// document parentID of collection parent.
func Sub(parent, parentID, child string) string {
	return parent + "/" + parentID + "/" + child
}

func validatePath(collection string) error {
	if collection == "" {
		return fmt.Errorf("%w: empty collection path", common.ErrValidation)
	}
	for _, seg := range strings.Split(collection, "/") {
		if seg == "" {
			return fmt.Errorf("%w: malformed collection path %q", common.ErrValidation, collection)
		}
	}
	return nil
}

func uniqueValue(field string, data map[string]any) (string, error) {
	v, ok := data[field].(string)
	if !ok || v == "" {
		return "", fmt.Errorf("%w: unique field %q must be a non-empty string", common.ErrValidation, field)
	}
	return v, nil
}

// normalize deep-copies data through JSON so every backend stores and
// returns the same value types (float64 numbers, []any arrays).
func normalize(data map[string]any) (map[string]any, error) {
	if data == nil {
		return map[string]any{}, nil
	}
	b, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: document is not JSON serialisable: %v", common.ErrValidation, err)
	}
	return decode(b)
}

func decode(b []byte) (map[string]any, error) {
	out := map[string]any{}
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return out, nil
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", common.ErrStoreUnavailable, op, err)
}

var errClosed = errors.New("store is closed")

// Marshal converts a tagged struct into document data.
func Marshal(v any) (map[string]any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: encode document: %v", common.ErrValidation, err)
	}
	return decode(b)
}

// Unmarshal fills the tagged struct v from document data.
func Unmarshal(data map[string]any, v any) error {
	b, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("decode document: %w", err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("decode document: %w", err)
	}
	return nil
}
