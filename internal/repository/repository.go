// Package repository handles all interactions with the database.
//
// It contains raw SQL queries and methods to fetch, persist,
// or update data, abstracting SQL logic away from the service layer.
// Statements are generated once per resource from its model.Resource
// definition; column names never come from request input.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/deppfellow/inventario/internal/model"
	"github.com/deppfellow/inventario/internal/validation"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/spf13/cast"
)

// DBTX is the subset of *pgxpool.Pool the repositories use.
type DBTX interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// queries holds the statements for one resource.
type queries struct {
	list   string
	get    string
	exists string
	insert string
	delete string
}

// Repository is the pgx implementation of the CRUD store for one resource.
type Repository[T any] struct {
	db       DBTX
	resource model.Resource
	q        queries
}

// NewRepository builds the statements for resource and binds them to db.
func NewRepository[T any](db DBTX, resource model.Resource) *Repository[T] {
	return &Repository[T]{
		db:       db,
		resource: resource,
		q:        buildQueries(resource),
	}
}

func buildQueries(r model.Resource) queries {
	selectList := strings.Join(r.SelectColumns(), ", ")
	insertColumns := r.InsertColumns()

	return queries{
		list:   fmt.Sprintf("SELECT %s FROM %s ORDER BY %s", selectList, r.Table, r.IDColumn),
		get:    fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1", selectList, r.Table, r.IDColumn),
		exists: fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1)", r.Table, r.IDColumn),
		insert: fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
			r.Table, strings.Join(insertColumns, ", "), placeholders(1, len(insertColumns)), r.IDColumn),
		delete: fmt.Sprintf("DELETE FROM %s WHERE %s = $1", r.Table, r.IDColumn),
	}
}

// updateQuery builds an UPDATE for columns, with the identifier bound last.
func updateQuery(r model.Resource, columns []string) string {
	assignments := make([]string, len(columns))
	for i, column := range columns {
		assignments[i] = fmt.Sprintf("%s = $%d", column, i+1)
	}
	return fmt.Sprintf("UPDATE %s SET %s WHERE %s = $%d",
		r.Table, strings.Join(assignments, ", "), r.IDColumn, len(columns)+1)
}

func placeholders(from, n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("$%d", from+i)
	}
	return strings.Join(parts, ", ")
}

// args extracts the values for columns from payload, in order.
//
// Values are sent as text so Postgres parses them into the column type,
// the way the form and JSON inputs arrive. Optional columns send NULL for
// an absent or empty value.
func (r *Repository[T]) args(columns []string, payload validation.Payload) ([]any, error) {
	values := make([]any, 0, len(columns))
	for _, column := range columns {
		value := payload[column]
		if value == nil {
			values = append(values, nil)
			continue
		}

		text, err := cast.ToStringE(value)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", column, err)
		}
		if text == "" && r.resource.IsOptional(column) {
			values = append(values, nil)
			continue
		}
		values = append(values, text)
	}
	return values, nil
}

// key converts a path identifier to the identifier column's type.
// Generated identifiers are int4, so text that is not one cannot match a
// row and is reported as absent without a query.
func (r *Repository[T]) key(id string) (any, bool) {
	if r.resource.ClientID {
		return id, true
	}
	n, err := strconv.ParseInt(id, 10, 32)
	if err != nil {
		return nil, false
	}
	return int32(n), true
}

func (r *Repository[T]) List(ctx context.Context) ([]T, error) {
	rows, err := r.db.Query(ctx, r.q.list)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", r.resource.Table, err)
	}

	records, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		return nil, fmt.Errorf("failed to collect %s rows: %w", r.resource.Table, err)
	}
	if records == nil {
		records = []T{}
	}
	return records, nil
}

// Get returns the record with the given identifier. A missing record is
// reported through found, not as an error.
func (r *Repository[T]) Get(ctx context.Context, id string) (T, bool, error) {
	var zero T

	key, ok := r.key(id)
	if !ok {
		return zero, false, nil
	}

	rows, err := r.db.Query(ctx, r.q.get, key)
	if err != nil {
		return zero, false, fmt.Errorf("failed to get %s %s: %w", r.resource.Table, id, err)
	}

	record, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[T])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return zero, false, nil
		}
		return zero, false, fmt.Errorf("failed to scan %s %s: %w", r.resource.Table, id, err)
	}
	return record, true, nil
}

func (r *Repository[T]) Exists(ctx context.Context, id string) (bool, error) {
	key, ok := r.key(id)
	if !ok {
		return false, nil
	}

	var exists bool
	if err := r.db.QueryRow(ctx, r.q.exists, key).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check %s %s: %w", r.resource.Table, id, err)
	}
	return exists, nil
}

// Insert writes a new row and returns its identifier.
func (r *Repository[T]) Insert(ctx context.Context, payload validation.Payload) (any, error) {
	values, err := r.args(r.resource.InsertColumns(), payload)
	if err != nil {
		return nil, err
	}

	var id any
	if err := r.db.QueryRow(ctx, r.q.insert, values...).Scan(&id); err != nil {
		return nil, fmt.Errorf("failed to insert into %s: %w", r.resource.Table, err)
	}
	return id, nil
}

// Update writes columns for the row with the given identifier and returns
// the number of rows matched.
func (r *Repository[T]) Update(ctx context.Context, id string, columns []string, payload validation.Payload) (int64, error) {
	key, ok := r.key(id)
	if !ok {
		return 0, nil
	}

	values, err := r.args(columns, payload)
	if err != nil {
		return 0, err
	}
	values = append(values, key)

	tag, err := r.db.Exec(ctx, updateQuery(r.resource, columns), values...)
	if err != nil {
		return 0, fmt.Errorf("failed to update %s %s: %w", r.resource.Table, id, err)
	}
	return tag.RowsAffected(), nil
}

func (r *Repository[T]) Delete(ctx context.Context, id string) (int64, error) {
	key, ok := r.key(id)
	if !ok {
		return 0, nil
	}

	tag, err := r.db.Exec(ctx, r.q.delete, key)
	if err != nil {
		return 0, fmt.Errorf("failed to delete %s %s: %w", r.resource.Table, id, err)
	}
	return tag.RowsAffected(), nil
}
