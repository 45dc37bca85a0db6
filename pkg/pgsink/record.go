package pgsink

// Record is an opaque, immutable unit of input data with a fixed schema.
// The stage makes no assumption about its shape beyond what the mapping's
// FieldAccessor can read from it. A record belongs to at most one batch.
type Record any

// FieldReader is implemented by record types that expose their own
// field-by-ordinal access. The default accessor recognizes it alongside
// []any and []string records.
type FieldReader interface {
	// Field returns the value of the field at the given source ordinal.
	Field(ordinal int) (any, error)
}

// FieldAccessor reads one field of a record by source ordinal. Resolved
// once per destination and reused for every record; implementations must
// be safe for concurrent use when the stage concurrency exceeds 1.
type FieldAccessor func(rec Record, ordinal int) (any, error)
