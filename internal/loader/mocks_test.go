package loader

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vvka-141/pgsink/pkg/pgsink"
)

type mockResolver struct {
	mapping *pgsink.Mapping
	err     error
	calls   int
}

func (m *mockResolver) Resolve(_ context.Context, _, _ string) (*pgsink.Mapping, error) {
	m.calls++
	return m.mapping, m.err
}

// mockConn records the session lifecycle: rows copied, hook statements
// executed, and release count.
type mockConn struct {
	copyErr     error
	execErr     error
	copiedRows  [][]any
	copyColumns []string
	copyTable   pgx.Identifier
	execSQL     []string
	released    int
}

func (m *mockConn) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	if m.released > 0 {
		return pgconn.CommandTag{}, errors.New("exec on released connection")
	}
	m.execSQL = append(m.execSQL, sql)
	return pgconn.CommandTag{}, m.execErr
}

func (m *mockConn) CopyFrom(_ context.Context, table pgx.Identifier, columns []string, src pgx.CopyFromSource) (int64, error) {
	m.copyTable = table
	m.copyColumns = columns

	// Consume the source the way pgx does: single forward pass.
	for src.Next() {
		values, err := src.Values()
		if err != nil {
			return int64(len(m.copiedRows)), err
		}
		m.copiedRows = append(m.copiedRows, values)
	}
	if err := src.Err(); err != nil {
		return int64(len(m.copiedRows)), err
	}
	if m.copyErr != nil {
		return 0, m.copyErr
	}
	return int64(len(m.copiedRows)), nil
}

func (m *mockConn) Release() {
	m.released++
}

type mockConnSource struct {
	conn *mockConn
	err  error
}

func (m *mockConnSource) Acquire(_ context.Context) (pgsink.BulkConn, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.conn, nil
}

// identityMapping maps n record fields straight through to columns c0..cn-1.
func identityMapping(columns ...string) *pgsink.Mapping {
	m := &pgsink.Mapping{
		Access: func(rec pgsink.Record, ordinal int) (any, error) {
			fields, ok := rec.([]any)
			if !ok {
				return nil, errors.New("not a []any record")
			}
			if ordinal >= len(fields) {
				return nil, errors.New("ordinal out of range")
			}
			return fields[ordinal], nil
		},
	}
	for i, c := range columns {
		m.Columns = append(m.Columns, pgsink.ColumnMapping{SourceOrdinal: i, Column: c})
	}
	return m
}
