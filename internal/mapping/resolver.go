package mapping

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/vvka-141/pgsink/pkg/pgsink"
)

// columnQuery lists a table's columns in their declared order. Ordinal
// positions are 1-based in information_schema; source ordinals are the
// zero-based positions in that same order.
const columnQuery = `
SELECT column_name
FROM information_schema.columns
WHERE table_schema = $1 AND table_name = $2
ORDER BY ordinal_position`

// Resolver resolves and caches column mappings against a live destination
// connection. Resolution is idempotent and treated as expensive: the first
// call per (label, table) key queries the destination, every later call is
// served from the cache.
//
// Thread-Safety: safe for concurrent use. Cached mappings are immutable.
type Resolver struct {
	db       pgsink.Querier
	accessor pgsink.FieldAccessor

	mu    sync.RWMutex
	cache map[string]*pgsink.Mapping
}

// NewResolver creates a Resolver reading column metadata through db.
// If accessor is nil, DefaultAccessor is used.
//
// Panics if db is nil.
func NewResolver(db pgsink.Querier, accessor pgsink.FieldAccessor) *Resolver {
	if db == nil {
		panic("db cannot be nil")
	}
	if accessor == nil {
		accessor = DefaultAccessor
	}
	return &Resolver{
		db:       db,
		accessor: accessor,
		cache:    make(map[string]*pgsink.Mapping),
	}
}

// Resolve returns the column mapping for the given destination label and
// table. The table name may be schema-qualified; unqualified names resolve
// against the public schema.
func (r *Resolver) Resolve(ctx context.Context, label, table string) (*pgsink.Mapping, error) {
	key := label + "\x00" + table

	r.mu.RLock()
	m, ok := r.cache[key]
	r.mu.RUnlock()
	if ok {
		return m, nil
	}

	schema, name := splitTable(table)
	columns, err := r.fetchColumns(ctx, schema, name)
	if err != nil {
		return nil, fmt.Errorf("fetch columns of %s.%s: %w", schema, name, err)
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("table %s.%s has no columns or does not exist", schema, name)
	}

	m = &pgsink.Mapping{Access: r.accessor}
	for i, col := range columns {
		m.Columns = append(m.Columns, pgsink.ColumnMapping{SourceOrdinal: i, Column: col})
	}

	r.mu.Lock()
	// Another goroutine may have resolved the same key meanwhile; keep
	// the first stored mapping so every session shares one instance.
	if existing, ok := r.cache[key]; ok {
		m = existing
	} else {
		r.cache[key] = m
	}
	r.mu.Unlock()

	return m, nil
}

func (r *Resolver) fetchColumns(ctx context.Context, schema, name string) ([]string, error) {
	rows, err := r.db.Query(ctx, columnQuery, schema, name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var col string
		if err := rows.Scan(&col); err != nil {
			return nil, err
		}
		columns = append(columns, col)
	}
	return columns, rows.Err()
}

// splitTable separates an optionally schema-qualified table name.
func splitTable(table string) (schema, name string) {
	if i := strings.IndexByte(table, '.'); i >= 0 {
		return table[:i], table[i+1:]
	}
	return "public", table
}
