package pgsink

import "context"

// ColumnMapping pairs a source field ordinal with a destination column.
// Mappings are read-only metadata once resolved.
type ColumnMapping struct {
	// SourceOrdinal is the zero-based field position in the record.
	SourceOrdinal int

	// Column is the destination column name.
	Column string
}

// Mapping binds a destination table's columns to a way of reading the
// corresponding record fields. Immutable after resolution, so concurrent
// use by multiple bulk-transfer sessions is safe without locking.
type Mapping struct {
	Columns []ColumnMapping
	Access  FieldAccessor
}

// ColumnNames returns the destination column names in mapping order.
func (m *Mapping) ColumnNames() []string {
	names := make([]string, len(m.Columns))
	for i, c := range m.Columns {
		names[i] = c.Column
	}
	return names
}

// MappingResolver resolves column mappings for a (label, table) pair.
// Resolution is treated as potentially expensive and idempotent;
// implementations are expected to cache by key and must be safe for
// concurrent reads after first resolution.
type MappingResolver interface {
	Resolve(ctx context.Context, label, table string) (*Mapping, error)
}
