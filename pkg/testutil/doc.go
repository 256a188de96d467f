// Package testutil provides test doubles for stor, chiefly MemoryFS,
// an in-memory types.FS with real symlink semantics and per-path error
// injection.
package testutil
