// Package batcher groups an ordered stream of records into fixed-size
// batches. A batch is emitted the moment it reaches capacity; a partial
// batch is flushed only on the upstream completion signal. Emission is a
// pure grouping operation: no errors originate here and concatenating the
// emitted batches reproduces the input sequence exactly.
package batcher
