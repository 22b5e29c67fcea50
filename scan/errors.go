package scan

import (
	"fmt"
	"strings"
)

// ArchiveError reports an archive, or a class entry inside it, that could
// not be read or parsed. It aborts the scan.
type ArchiveError struct {
	Archive string
	// Entry is the jar entry, empty for single class file archives and for
	// failures reading the container itself.
	Entry string
	Err   error
}

func (e *ArchiveError) Error() string {
	if e.Entry == "" {
		return fmt.Sprintf("archive %s: %v", e.Archive, e.Err)
	}
	return fmt.Sprintf("archive %s, entry %s: %v", e.Archive, e.Entry, e.Err)
}

func (e *ArchiveError) Unwrap() error { return e.Err }

// ClosureError lists the types that public API members refer to but that
// neither the scanned archives nor the runtime library provide.
type ClosureError struct {
	// Missing holds type descriptors in sorted order.
	Missing []string
	// Archives are the names of the primary archives.
	Archives []string
}

func (e *ClosureError) Error() string {
	return fmt.Sprintf("the following classes that contribute to the public API of [%s] could not be located: [%s]",
		strings.Join(e.Archives, ", "), strings.Join(e.Missing, ", "))
}
