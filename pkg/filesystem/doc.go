// Package filesystem provides filesystem implementations for stor.
//
// This package contains implementations of the types.FS interface.
// The in-memory implementation used by tests lives in pkg/testutil.
package filesystem
