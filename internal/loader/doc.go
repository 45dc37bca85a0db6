// Package loader streams sealed batches into a destination table with the
// PostgreSQL COPY protocol. Each Load call is one bulk-transfer session:
// resolve column mappings, acquire a dedicated connection, stream the
// batch through a single-pass row source, run the post-load hook on the
// still-open connection, and release everything on every exit path.
package loader
