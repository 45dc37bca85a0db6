package mapping

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// fakeQuerier serves canned column lists and counts queries, standing in
// for a live destination connection.
type fakeQuerier struct {
	columns map[string][]string // "schema.table" -> column names
	queries int
	err     error
}

func (f *fakeQuerier) Query(_ context.Context, _ string, args ...any) (pgx.Rows, error) {
	f.queries++
	if f.err != nil {
		return nil, f.err
	}
	key := fmt.Sprintf("%v.%v", args[0], args[1])
	return &fakeRows{columns: f.columns[key], idx: -1}, nil
}

// fakeRows implements pgx.Rows over a column-name list.
type fakeRows struct {
	columns []string
	idx     int
	closed  bool
}

func (r *fakeRows) Close()                                       { r.closed = true }
func (r *fakeRows) Err() error                                   { return nil }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

func (r *fakeRows) Next() bool {
	r.idx++
	return r.idx < len(r.columns)
}

func (r *fakeRows) Scan(dest ...any) error {
	if len(dest) != 1 {
		return fmt.Errorf("expected 1 destination, got %d", len(dest))
	}
	p, ok := dest[0].(*string)
	if !ok {
		return fmt.Errorf("expected *string destination, got %T", dest[0])
	}
	*p = r.columns[r.idx]
	return nil
}

func (r *fakeRows) Values() ([]any, error) {
	return []any{r.columns[r.idx]}, nil
}
