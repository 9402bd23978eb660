// Package iff is the top-level entry point of the module: Parse and Write
// translate between an on-wire IFF stream and a chunk.Chunk tree, and
// Check, Print, Compare, Free re-export the tree-walking operations from
// the chunk package so that a caller never needs to import chunk directly
// for ordinary use.
//
// The parser and serializer use a peek-header / read-body / skip-padding
// loop, applied recursively (every group chunk, not just the root,
// contains sub chunks) and dispatching through a registry.Registry
// instead of a hardcoded switch over chunk IDs.
package iff

import (
	"io"

	"github.com/jonchammer/iff/chunk"
	"github.com/jonchammer/iff/ifferr"
	"github.com/jonchammer/iff/iffio"
	"github.com/jonchammer/iff/path"
	"github.com/jonchammer/iff/registry"
)

// Parse reads a single top-level chunk (ordinarily a FORM, LIST, or CAT)
// from r, resolving leaf chunk types through reg. Unknown chunk IDs fall
// back to raw storage; they are never an error. A top-level PROP is a
// structural error: PROP only has meaning as a child of a LIST, supplying
// defaults for the FORMs that follow it.
func Parse(r io.Reader, reg *registry.Registry) (*chunk.Chunk, error) {
	p := path.Path{}
	id, size, err := readChunkHeader(r, p)
	if err != nil {
		return nil, err
	}
	if id == chunk.PROP {
		return nil, ifferr.NewStructuralError(p.Push(path.Frame(chunk.ID{}, id)), "PROP chunk not allowed at top level")
	}
	return dispatchChunk(r, reg, p, chunk.Wildcard, id, size)
}

// readChunkHeader reads one chunk's 8-byte header (ID and signed
// big-endian size), rejecting a negative size outright.
func readChunkHeader(r io.Reader, p path.Path) (chunk.ID, int32, error) {
	id, err := iffio.ReadID(r, p, "chunkID", chunk.ID{})
	if err != nil {
		return chunk.ID{}, 0, err
	}

	size, err := iffio.ReadLong(r, p, "chunkSize", id)
	if err != nil {
		return chunk.ID{}, 0, err
	}
	if size < 0 {
		return chunk.ID{}, 0, ifferr.NewStructuralError(p.Push(path.Frame(chunk.ID{}, id)), "negative chunk size")
	}
	return id, size, nil
}

// dispatchChunk parses the body of a chunk whose header (id, size) has
// already been read, recursing through parseGroup for the four
// structural IDs and parseLeaf otherwise.
func dispatchChunk(r io.Reader, reg *registry.Registry, p path.Path, formContext, id chunk.ID, size int32) (*chunk.Chunk, error) {
	if chunk.IsGroupID(id) {
		return parseGroup(r, reg, p, id, size)
	}

	here := p.Push(path.Frame(chunk.ID{}, id))
	return parseLeaf(r, reg, here, formContext, id, size)
}

func parseLeaf(r io.Reader, reg *registry.Registry, here path.Path, formContext, id chunk.ID, size int32) (*chunk.Chunk, error) {
	handler := reg.Lookup(formContext, id)
	c := handler.Create(id, size)
	c.ChunkID = id
	c.ChunkSize = size

	n, err := handler.ReadContents(r, c, reg, here)
	if err != nil {
		return nil, err
	}
	if _, err := iffio.SkipUnknownBytes(r, here, id, size, int32(n)); err != nil {
		return nil, err
	}
	if err := iffio.ReadPaddingByte(r, here, id, size); err != nil {
		return nil, err
	}
	return c, nil
}

// parseGroup reads the 4-byte contents type that every group chunk begins
// with, then repeatedly parses children until size bytes have been
// consumed. FORM and PROP push their own contents type down to their
// children as the new form context; LIST and CAT children are parsed with
// a wildcard form context since a LIST/CAT body is heterogeneous (its own
// FORM children establish their own context upon recursion).
//
// Each child's ID is checked against chunk.ChildAllowed before it is
// parsed, and its declared size is checked against the bytes remaining in
// the parent's body before its body is read: both are structural errors
// at parse time, not quality degradations left for a later Check call.
func parseGroup(r io.Reader, reg *registry.Registry, p path.Path, id chunk.ID, size int32) (*chunk.Chunk, error) {
	provisional := p.Push(path.Frame(chunk.ID{}, id))
	contentsType, err := iffio.ReadID(r, provisional, "contentsType", id)
	if err != nil {
		return nil, err
	}

	here := p.Push(path.Frame(contentsType, id))

	childFormContext := chunk.Wildcard
	if id == chunk.FORM || id == chunk.PROP {
		childFormContext = contentsType
	}

	g := &chunk.Chunk{ChunkID: id, Kind: chunk.KindGroup, ContentsType: contentsType, ChunkSize: size}

	var consumed int32 = 4
	for consumed < size {
		childID, childSize, err := readChunkHeader(r, here)
		if err != nil {
			return nil, err
		}

		childHere := here.Push(path.Frame(chunk.ID{}, childID))

		if !chunk.ChildAllowed(id, childID) {
			return nil, ifferr.NewStructuralError(childHere, "child chunk ID not allowed in this group")
		}
		if int64(8)+int64(childSize) > int64(size)-int64(consumed) {
			return nil, ifferr.NewStructuralError(childHere, "child chunk size exceeds parent's remaining body")
		}

		child, err := dispatchChunk(r, reg, here, childFormContext, childID, childSize)
		if err != nil {
			return nil, err
		}
		reg.Attach(g, child)
		consumed += int32(child.EncodedSize())
	}

	return g, nil
}
