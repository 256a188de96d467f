// Package types defines the shared interfaces used across stor.
//
// The central type is FS, the filesystem seam every component reads
// and writes through.
package types
