// Package repotest provides an in-memory store with the same contract as
// repository.Repository, for service and handler tests.
package repotest

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/deppfellow/inventario/internal/model"
	"github.com/deppfellow/inventario/internal/validation"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/spf13/cast"
)

// MemoryStore keeps rows as column maps and decodes them into T through
// their json tags, which match the column names.
type MemoryStore[T any] struct {
	mu       sync.Mutex
	resource model.Resource
	rows     map[string]map[string]any
	order    []string
	nextID   int

	// Err, when set, is returned by every operation.
	Err error

	// Calls counts invocations per operation name.
	Calls map[string]int
}

func NewMemoryStore[T any](resource model.Resource) *MemoryStore[T] {
	return &MemoryStore[T]{
		resource: resource,
		rows:     make(map[string]map[string]any),
		Calls:    make(map[string]int),
	}
}

func (m *MemoryStore[T]) enter(op string) error {
	m.Calls[op]++
	return m.Err
}

// key maps a path identifier to the stored key. Generated identifiers
// match the way an int4 column does: "01" is row 1, "abc" is no row.
func (m *MemoryStore[T]) key(id string) string {
	if m.resource.ClientID {
		return id
	}
	n, err := strconv.ParseInt(id, 10, 32)
	if err != nil {
		return ""
	}
	return strconv.FormatInt(n, 10)
}

func (m *MemoryStore[T]) decode(row map[string]any) (T, error) {
	var record T
	raw, err := json.Marshal(row)
	if err != nil {
		return record, err
	}
	err = json.Unmarshal(raw, &record)
	return record, err
}

func (m *MemoryStore[T]) List(ctx context.Context) ([]T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("List"); err != nil {
		return nil, err
	}

	ids := append([]string(nil), m.order...)
	sort.Strings(ids)

	records := []T{}
	for _, id := range ids {
		record, err := m.decode(m.rows[id])
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

func (m *MemoryStore[T]) Get(ctx context.Context, id string) (T, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var zero T
	if err := m.enter("Get"); err != nil {
		return zero, false, err
	}

	row, ok := m.rows[m.key(id)]
	if !ok {
		return zero, false, nil
	}
	record, err := m.decode(row)
	return record, err == nil, err
}

func (m *MemoryStore[T]) Exists(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("Exists"); err != nil {
		return false, err
	}

	_, ok := m.rows[m.key(id)]
	return ok, nil
}

func (m *MemoryStore[T]) Insert(ctx context.Context, payload validation.Payload) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("Insert"); err != nil {
		return nil, err
	}

	row := make(map[string]any)
	for _, column := range m.resource.InsertColumns() {
		row[column] = payload[column]
	}

	var id any
	if m.resource.ClientID {
		id = cast.ToString(payload[m.resource.IDColumn])
		row[m.resource.IDColumn] = id
	} else {
		m.nextID++
		id = m.nextID
		row[m.resource.IDColumn] = m.nextID
	}

	key := fmt.Sprint(id)
	if _, taken := m.rows[key]; taken {
		return nil, &pgconn.PgError{
			Code:           "23505",
			Severity:       "ERROR",
			TableName:      m.resource.Table,
			ConstraintName: m.resource.Table + "_pkey",
		}
	}

	m.rows[key] = row
	m.order = append(m.order, key)
	return id, nil
}

func (m *MemoryStore[T]) Update(ctx context.Context, id string, columns []string, payload validation.Payload) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("Update"); err != nil {
		return 0, err
	}

	row, ok := m.rows[m.key(id)]
	if !ok {
		return 0, nil
	}
	for _, column := range columns {
		row[column] = payload[column]
	}
	// Postgres counts matched rows, so an update that changes nothing is 1.
	return 1, nil
}

func (m *MemoryStore[T]) Delete(ctx context.Context, id string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("Delete"); err != nil {
		return 0, err
	}

	id = m.key(id)
	if _, ok := m.rows[id]; !ok {
		return 0, nil
	}
	delete(m.rows, id)
	for i, key := range m.order {
		if key == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return 1, nil
}

// Len returns the number of stored rows.
func (m *MemoryStore[T]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}
