package stow

// Policy is the immutable flag set governing one run. It is fixed for
// the whole invocation and never varies per entry.
type Policy struct {
	// Copy copies file contents instead of creating symlinks.
	Copy bool

	// Overwrite permits deleting conflicting content that already
	// exists in the target before creating the intended link or copy.
	Overwrite bool

	// Simulate runs the full decision logic and reports every action
	// without performing any filesystem mutation.
	Simulate bool
}
