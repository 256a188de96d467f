// Package stow implements the tree-merge engine at the heart of stor.
//
// A Stower walks a module directory depth-first and, for every entry,
// decides what to do with the corresponding path in the target tree:
// link it, copy it, skip it, replace it, or descend and merge. The
// three operations — Stow, Unstow, and Restow — share the same
// traversal and the same per-entry decision table, parameterized by an
// immutable Policy.
//
// Directories that already exist in the target are merged entry by
// entry, never replaced, so content placed there by other modules
// survives. Unstow prunes directories its removals leave empty, but
// never the target root itself.
package stow
