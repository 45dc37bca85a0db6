package loader

import (
	"fmt"

	"github.com/vvka-141/pgsink/pkg/pgsink"
)

// rowSource adapts a sealed batch to pgx.CopyFromSource: a lazy,
// forward-only, non-restartable sequence of mapped row tuples. Each record
// is read field-by-field through the mapping's accessor at the moment the
// COPY protocol asks for it; the batch is never buffered a second time.
// Once exhausted or failed the source stays exhausted.
type rowSource struct {
	batch   []pgsink.Record
	mapping *pgsink.Mapping
	idx     int
	err     error
}

func newRowSource(batch []pgsink.Record, mapping *pgsink.Mapping) *rowSource {
	return &rowSource{
		batch:   batch,
		mapping: mapping,
		idx:     -1,
	}
}

// Next advances to the next row. It returns false once the batch is
// exhausted or a field read has failed.
func (s *rowSource) Next() bool {
	if s.err != nil {
		return false
	}
	s.idx++
	return s.idx < len(s.batch)
}

// Values reads the current record's mapped fields in column order.
func (s *rowSource) Values() ([]any, error) {
	rec := s.batch[s.idx]
	values := make([]any, len(s.mapping.Columns))
	for i, cm := range s.mapping.Columns {
		v, err := s.mapping.Access(rec, cm.SourceOrdinal)
		if err != nil {
			s.err = fmt.Errorf("record %d, column %q: %w", s.idx, cm.Column, err)
			return nil, s.err
		}
		values[i] = v
	}
	return values, nil
}

// Err returns the first field-read failure, if any.
func (s *rowSource) Err() error {
	return s.err
}
