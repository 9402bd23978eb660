// Package path implements the attribute-path breadcrumb trail used to
// identify a location inside an IFF chunk hierarchy for diagnostic
// purposes. A Path is threaded through every read/write so that errors
// can report exactly where in the tree they occurred, e.g.
//
//	FORM.ILBM / BODY[12].chunkData
package path

import (
	"strconv"
	"strings"
)

// A Segment is one element of a Path: either the frame introduced by
// descending into a chunk, a named field within the current chunk, or an
// index into an array-valued field.
type Segment struct {
	kind     segmentKind
	formType [4]byte
	chunkID  [4]byte
	name     string
	index    int
}

type segmentKind int

const (
	segmentFrame segmentKind = iota
	segmentField
	segmentIndex
)

// Frame returns a Segment representing descent into a chunk with the given
// chunk ID. formType is that chunk's own contents type for a group chunk,
// and the zero value (not rendered) for a leaf chunk.
func Frame(formType, chunkID [4]byte) Segment {
	return Segment{kind: segmentFrame, formType: formType, chunkID: chunkID}
}

// Field returns a Segment naming a field of the current chunk.
func Field(name string) Segment {
	return Segment{kind: segmentField, name: name}
}

// Index returns a Segment naming an array index of the current field.
func Index(i int) Segment {
	return Segment{kind: segmentIndex, index: i}
}

// A Path is an immutable, ordered sequence of Segments. The zero value is
// the empty path (the root of the tree).
type Path struct {
	segments []Segment
}

// Push returns a new Path with seg appended. The receiver is left
// unmodified, so callers may retain a Path across a push/pop without
// aliasing bugs (the same Path value may be safely reused by multiple
// callers, e.g. attached to a returned error after the parser has already
// popped back out of the frame).
func (p Path) Push(seg Segment) Path {
	next := make([]Segment, len(p.segments)+1)
	copy(next, p.segments)
	next[len(p.segments)] = seg
	return Path{segments: next}
}

// Len returns the number of segments in the path.
func (p Path) Len() int {
	return len(p.segments)
}

// String renders the path in the conventional slash/dot/bracket notation,
// e.g. "FORM.ILBM / BODY[12].chunkData".
func (p Path) String() string {
	if len(p.segments) == 0 {
		return "<root>"
	}

	var b strings.Builder
	for i, seg := range p.segments {
		switch seg.kind {
		case segmentFrame:
			if i > 0 {
				b.WriteString(" / ")
			}
			b.WriteString(idString(seg.chunkID))
			if seg.formType != ([4]byte{}) {
				b.WriteByte('.')
				b.WriteString(idString(seg.formType))
			}
		case segmentField:
			b.WriteByte('.')
			b.WriteString(seg.name)
		case segmentIndex:
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(seg.index))
			b.WriteByte(']')
		}
	}
	return b.String()
}

func idString(id [4]byte) string {
	return string(id[:])
}
