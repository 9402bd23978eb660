package iff

import (
	"io"

	"github.com/jonchammer/iff/chunk"
	"github.com/jonchammer/iff/path"
	"github.com/jonchammer/iff/quality"
	"github.com/jonchammer/iff/registry"
)

// Check walks c, validating it against the structural grammar (legal form
// types, PROP-before-FORM ordering inside LIST groups, allowed children
// per group kind) and delegating to reg for every application-defined
// leaf. Every finding, fatal or not, is reported to sink; the combined
// level is also returned directly.
func Check(c *chunk.Chunk, reg *registry.Registry, sink quality.Sink) quality.Level {
	return chunk.Check(c, reg, sink, path.Path{})
}

// Print writes a human-readable, indented dump of c to w. It offers no
// round-trip guarantee; it exists purely for diagnostics.
func Print(w io.Writer, c *chunk.Chunk, reg *registry.Registry) error {
	return chunk.Print(w, c, 0, reg)
}

// Compare reports deep structural equality between a and b, delegating to
// reg for application-defined leaves.
func Compare(a, b *chunk.Chunk, reg *registry.Registry) bool {
	return chunk.Compare(a, b, reg)
}

// Free releases c and every descendant, invoking reg's ClearContents hook
// on each application-defined leaf first.
func Free(c *chunk.Chunk, reg *registry.Registry) {
	chunk.Free(c, reg)
}

// PropertyFor returns the PROP chunk (if any) inside list that supplies
// defaults for form, implementing property inheritance: the nearest
// preceding PROP sibling whose contents type matches form's.
func PropertyFor(list, form *chunk.Chunk) *chunk.Chunk {
	return chunk.PropertyFor(list, form)
}
