package repository

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

type column struct {
	name string
	oid  uint32
}

// fakeRows serves text-format values and decodes them through a pgtype.Map,
// the same path pgx takes for rows read off the wire.
type fakeRows struct {
	fields  []pgconn.FieldDescription
	data    [][][]byte
	typeMap *pgtype.Map
	current int
	closed  bool
}

func newFakeRows(columns []column, data ...[][]byte) *fakeRows {
	fields := make([]pgconn.FieldDescription, len(columns))
	for i, c := range columns {
		fields[i] = pgconn.FieldDescription{Name: c.name, DataTypeOID: c.oid, Format: pgtype.TextFormatCode}
	}
	return &fakeRows{fields: fields, data: data, typeMap: pgtype.NewMap()}
}

func (r *fakeRows) Close()                                       { r.closed = true }
func (r *fakeRows) Err() error                                   { return nil }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.NewCommandTag("SELECT") }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return r.fields }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }
func (r *fakeRows) RawValues() [][]byte                          { return r.data[r.current-1] }

func (r *fakeRows) Values() ([]any, error) {
	return nil, errors.New("values not supported")
}

func (r *fakeRows) Next() bool {
	if r.closed || r.current >= len(r.data) {
		return false
	}
	r.current++
	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	row := r.data[r.current-1]
	if len(dest) != len(row) {
		return fmt.Errorf("scan: %d destinations for %d columns", len(dest), len(row))
	}
	for i, d := range dest {
		if err := r.typeMap.Scan(r.fields[i].DataTypeOID, pgtype.TextFormatCode, row[i], d); err != nil {
			return fmt.Errorf("scan %s: %w", r.fields[i].Name, err)
		}
	}
	return nil
}

// fakeRow is a single-row result that assigns value to the first destination.
type fakeRow struct {
	value any
	err   error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	reflect.ValueOf(dest[0]).Elem().Set(reflect.ValueOf(r.value))
	return nil
}

type statement struct {
	sql  string
	args []any
}

// fakeDB records every statement and answers with the configured results.
type fakeDB struct {
	rows pgx.Rows
	row  fakeRow
	tag  pgconn.CommandTag
	err  error

	statements []statement
}

func (f *fakeDB) record(sql string, args []any) {
	f.statements = append(f.statements, statement{sql: sql, args: args})
}

func (f *fakeDB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	f.record(sql, args)
	if f.err != nil {
		return nil, f.err
	}
	return f.rows, nil
}

func (f *fakeDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	f.record(sql, args)
	return f.row
}

func (f *fakeDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.record(sql, args)
	return f.tag, f.err
}

func text(values ...string) [][]byte {
	row := make([][]byte, len(values))
	for i, v := range values {
		if v != null {
			row[i] = []byte(v)
		}
	}
	return row
}

// null marks a NULL column in text().
const null = "\x00"
