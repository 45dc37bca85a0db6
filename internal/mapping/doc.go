// Package mapping resolves destination column mappings for bulk loads.
// The resolver reads column metadata from information_schema once per
// (label, table) key and caches the result; a resolved mapping is
// read-only, so concurrent bulk-transfer sessions share it without
// locking.
package mapping
