// Package chunk defines the tagged chunk model shared by every operation
// in the iff module: parser, serializer, validator, printer, and
// comparator all walk the same Chunk tree. The three variants (Group,
// Raw, App) replace an out-of-band switch over chunk.ID with a tagged
// union, so the registry indirection can dispatch on Kind directly
// instead of re-deriving it from the chunk's body.
package chunk

import (
	"github.com/jonchammer/iff/iffio"
)

// ID is a raw 4-byte IFF identifier. It is an alias of iffio.ID so chunk
// trees and the byte-level primitives that build them share one type with
// no conversions at the boundary.
type ID = iffio.ID

// The four structural chunk IDs. CAT_ ends in an underscore because
// "CAT " (trailing space) is not expressible as a bare Go identifier.
var (
	FORM = ID{'F', 'O', 'R', 'M'}
	LIST = ID{'L', 'I', 'S', 'T'}
	CAT_ = ID{'C', 'A', 'T', ' '}
	PROP = ID{'P', 'R', 'O', 'P'}

	// Wildcard is the LIST/CAT contents-type placeholder meaning "no
	// single common form type".
	Wildcard = ID{' ', ' ', ' ', ' '}
)

// IsGroupID reports whether id is one of the four structural chunk IDs
// that the core library handles directly and that a registry can never
// override.
func IsGroupID(id ID) bool {
	return id == FORM || id == LIST || id == CAT_ || id == PROP
}

// Kind discriminates the three chunk variants.
type Kind int

const (
	// KindRaw chunks carry an uninterpreted byte buffer: the fallback
	// used whenever the registry has no handler for a chunk ID.
	KindRaw Kind = iota
	// KindGroup chunks are FORM, LIST, CAT, or PROP: they carry a
	// contents type and an ordered list of children instead of a body.
	KindGroup
	// KindApp chunks carry an application-defined payload, interpreted
	// and owned by whatever registry.Capabilities handled them.
	KindApp
)

func (k Kind) String() string {
	switch k {
	case KindRaw:
		return "Raw"
	case KindGroup:
		return "Group"
	case KindApp:
		return "App"
	default:
		return "Unknown"
	}
}

// A Chunk is the single node type used for every element of an IFF tree.
// Exactly one of the Kind-specific field groups below is populated,
// selected by Kind.
type Chunk struct {
	ChunkID   ID
	ChunkSize int32 // body length in bytes, excluding the 8-byte header
	Kind      Kind

	// Parent is a non-owning back-reference. The registry reads
	// Parent.ContentsType as the form context when it resolves the handler
	// of an already attached leaf (Attach, CompareLeaf, CheckLeaf,
	// ClearLeaf, PrintLeaf). The parser never reads it to pick the handler
	// that reads a chunk's body -- that form context is threaded
	// explicitly instead.
	Parent *Chunk

	// Populated when Kind == KindGroup.
	ContentsType ID
	Children     []*Chunk

	// Populated when Kind == KindRaw.
	Raw []byte

	// Populated when Kind == KindApp. The concrete type is owned by
	// whichever registry.Capabilities constructed this chunk.
	App any
}

// NewRaw constructs a KindRaw chunk with the given ID and body. ChunkSize
// is derived from len(body).
func NewRaw(id ID, body []byte) *Chunk {
	return &Chunk{
		ChunkID:   id,
		ChunkSize: int32(len(body)),
		Kind:      KindRaw,
		Raw:       body,
	}
}

// NewGroup constructs a KindGroup chunk (FORM, LIST, CAT, or PROP). The
// caller is responsible for appending children with AddChild and calling
// RecomputeSize afterward, or for calling NewGroup once children are
// already known.
func NewGroup(id ID, contentsType ID, children ...*Chunk) *Chunk {
	g := &Chunk{
		ChunkID:      id,
		Kind:         KindGroup,
		ContentsType: contentsType,
	}
	for _, c := range children {
		g.AddChild(c)
	}
	g.RecomputeSize()
	return g
}

// AddChild appends child to g's children and sets child.Parent. It does
// not recompute g.ChunkSize; call RecomputeSize once all children have
// been added.
func (g *Chunk) AddChild(child *Chunk) {
	child.Parent = g
	g.Children = append(g.Children, child)
}

// RecomputeSize sets g.ChunkSize to 4 (the contents-type field) plus the
// encoded size of every child. It panics if called on a non-group chunk,
// since ChunkSize means something
// different (and is caller-supplied) for Raw/App chunks.
func (g *Chunk) RecomputeSize() {
	if g.Kind != KindGroup {
		panic("chunk: RecomputeSize called on a non-group chunk")
	}
	total := int64(4)
	for _, c := range g.Children {
		total += iffio.EncodedSize(c.ChunkSize)
	}
	g.ChunkSize = int32(total)
}

// EncodedSize returns the total on-wire size of c, including its 8-byte
// header and any trailing pad byte.
func (c *Chunk) EncodedSize() int64 {
	return iffio.EncodedSize(c.ChunkSize)
}
