package docstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/fitplan/internal/common"
	"github.com/google/uuid"
)

type memoryDoc struct {
	seq       int64
	id        string
	createdAt time.Time
	data      map[string]any
}

// Memory is an in-process Store used by tests and memory:// development runs.
type Memory struct {
	mu     sync.RWMutex
	seq    int64
	docs   map[string][]*memoryDoc
	closed bool
	now    func() time.Time
}

func NewMemory() *Memory {
	return &Memory{docs: make(map[string][]*memoryDoc), now: time.Now}
}

func (m *Memory) Create(ctx context.Context, collection string, data map[string]any) (*Document, error) {
	if err := validatePath(collection); err != nil {
		return nil, err
	}
	norm, err := normalize(data)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	return m.insertLocked(collection, norm)
}

func (m *Memory) CreateUnique(ctx context.Context, collection, field string, data map[string]any) (*Document, error) {
	if err := validatePath(collection); err != nil {
		return nil, err
	}
	value, err := uniqueValue(field, data)
	if err != nil {
		return nil, err
	}
	norm, err := normalize(data)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, d := range m.docs[collection] {
		if v, ok := d.data[field].(string); ok && v == value {
			return nil, ErrAlreadyExists
		}
	}
	return m.insertLocked(collection, norm)
}

func (m *Memory) insertLocked(collection string, data map[string]any) (*Document, error) {
	if m.closed {
		return nil, unavailable("insert", errClosed)
	}

	m.seq++
	d := &memoryDoc{
		seq:       m.seq,
		id:        uuid.NewString(),
		createdAt: m.now().UTC(),
		data:      data,
	}
	m.docs[collection] = append(m.docs[collection], d)

	return d.export()
}

func (m *Memory) Get(ctx context.Context, collection, id string) (*Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, unavailable("get", errClosed)
	}
	for _, d := range m.docs[collection] {
		if d.id == id {
			return d.export()
		}
	}
	return nil, common.ErrNotFound
}

func (m *Memory) Find(ctx context.Context, collection string, q Query) ([]*Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, unavailable("find", errClosed)
	}

	matched := make([]*memoryDoc, 0)
	for _, d := range m.docs[collection] {
		if d.matches(q.Filters) {
			matched = append(matched, d)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if !matched[i].createdAt.Equal(matched[j].createdAt) {
			return matched[i].createdAt.After(matched[j].createdAt)
		}
		return matched[i].seq > matched[j].seq
	})

	if q.Limit > 0 && len(matched) > q.Limit {
		matched = matched[:q.Limit]
	}

	out := make([]*Document, 0, len(matched))
	for _, d := range matched {
		doc, err := d.export()
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, nil
}

func (m *Memory) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return unavailable("ping", errClosed)
	}
	return nil
}

func (m *Memory) Close(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (d *memoryDoc) matches(filters []Filter) bool {
	for _, f := range filters {
		v, ok := d.data[f.Field].(string)
		if !ok || v != f.Value {
			return false
		}
	}
	return true
}

func (d *memoryDoc) export() (*Document, error) {
	data, err := normalize(d.data)
	if err != nil {
		return nil, err
	}
	return &Document{ID: d.id, CreatedAt: d.createdAt, Data: data}, nil
}
