package iff

import (
	"bytes"
	"io"
	"math"

	"github.com/jonchammer/iff/chunk"
	"github.com/jonchammer/iff/ifferr"
	"github.com/jonchammer/iff/iffio"
	"github.com/jonchammer/iff/path"
	"github.com/jonchammer/iff/registry"
)

// WriteToBytes serializes c into an in-memory buffer and returns its
// contents, for callers that want the encoded bytes directly rather than
// an io.Writer target.
func WriteToBytes(c *chunk.Chunk, reg *registry.Registry) ([]byte, error) {
	var w bytes.Buffer
	if err := Write(&w, c, reg); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// Write serializes c to w recursively, dispatching leaf encoding through
// reg. It first recomputes the ChunkSize of every group in c (see
// RecomputeSize), with the computed group size explicitly checked for
// overflow before being narrowed into the wire int32 field.
func Write(w io.Writer, c *chunk.Chunk, reg *registry.Registry) error {
	if err := RecomputeSize(c); err != nil {
		return err
	}
	return writeChunk(w, c, reg, path.Path{}, chunk.Wildcard)
}

func writeChunk(w io.Writer, c *chunk.Chunk, reg *registry.Registry, p path.Path, formContext chunk.ID) error {
	if err := iffio.WriteID(w, p, "chunkID", c.ChunkID, c.ChunkID); err != nil {
		return err
	}
	if err := iffio.WriteLong(w, p, "chunkSize", c.ChunkID, c.ChunkSize); err != nil {
		return err
	}

	pathFormType := chunk.ID{}
	if c.Kind == chunk.KindGroup {
		pathFormType = c.ContentsType
	}
	here := p.Push(path.Frame(pathFormType, c.ChunkID))

	switch c.Kind {
	case chunk.KindGroup:
		return writeGroup(w, c, reg, here)
	case chunk.KindRaw:
		if _, err := w.Write(c.Raw); err != nil {
			return ifferr.NewIOError(here, "chunkData", len(c.Raw), err)
		}
	case chunk.KindApp:
		handler := reg.Lookup(formContext, c.ChunkID)
		n, err := handler.WriteContents(w, c, reg, here)
		if err != nil {
			return err
		}
		if err := iffio.WriteZeroFillerBytes(w, here, c.ChunkID, c.ChunkSize-int32(n)); err != nil {
			return err
		}
	}

	return iffio.WritePaddingByte(w, here, c.ChunkID, c.ChunkSize)
}

func writeGroup(w io.Writer, g *chunk.Chunk, reg *registry.Registry, here path.Path) error {
	if err := iffio.WriteID(w, here, "contentsType", g.ChunkID, g.ContentsType); err != nil {
		return err
	}

	childFormContext := chunk.Wildcard
	if g.ChunkID == chunk.FORM || g.ChunkID == chunk.PROP {
		childFormContext = g.ContentsType
	}

	for _, child := range g.Children {
		if err := writeChunk(w, child, reg, here, childFormContext); err != nil {
			return err
		}
	}
	return nil
}

// RecomputeSize recursively recalculates c.ChunkSize for c and every
// descendant group, the write-side mirror of the parser trusting the
// on-wire size field. It fails explicitly on overflow rather than
// silently truncating into the int32 wire field.
func RecomputeSize(c *chunk.Chunk) error {
	return recomputeSize(c, path.Path{})
}

func recomputeSize(c *chunk.Chunk, p path.Path) error {
	if c.Kind != chunk.KindGroup {
		return nil
	}

	here := p.Push(path.Frame(c.ContentsType, c.ChunkID))

	var total int64 = 4
	for _, child := range c.Children {
		if err := recomputeSize(child, here); err != nil {
			return err
		}
		total += iffio.EncodedSize(child.ChunkSize)
		if total > math.MaxInt32 {
			return ifferr.NewStructuralError(here, "group size overflow")
		}
	}
	c.ChunkSize = int32(total)
	return nil
}
