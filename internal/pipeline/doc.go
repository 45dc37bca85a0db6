// Package pipeline composes the batcher and the bulk loader into one
// stage: records pushed in, batches bulk-written out, with backpressure
// through the bounded batch queue and a configurable number of transfers
// in flight. Data flows record -> batch -> bulk write -> hook; occupancy
// flows the other way as BufferStatus.
package pipeline
