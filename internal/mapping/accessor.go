package mapping

import (
	"fmt"

	"github.com/vvka-141/pgsink/pkg/pgsink"
)

// DefaultAccessor reads record fields by source ordinal for the common
// record shapes: []any, []string, and types implementing
// pgsink.FieldReader. Stateless, so safe for concurrent use.
func DefaultAccessor(rec pgsink.Record, ordinal int) (any, error) {
	switch v := rec.(type) {
	case pgsink.FieldReader:
		return v.Field(ordinal)
	case []any:
		if ordinal < 0 || ordinal >= len(v) {
			return nil, fmt.Errorf("field ordinal %d out of range (record has %d fields)", ordinal, len(v))
		}
		return v[ordinal], nil
	case []string:
		if ordinal < 0 || ordinal >= len(v) {
			return nil, fmt.Errorf("field ordinal %d out of range (record has %d fields)", ordinal, len(v))
		}
		return v[ordinal], nil
	default:
		return nil, fmt.Errorf("unsupported record type %T", rec)
	}
}
