package registry

import (
	"io"

	"github.com/jonchammer/iff/chunk"
	"github.com/jonchammer/iff/iffio"
	"github.com/jonchammer/iff/path"
	"github.com/jonchammer/iff/quality"
)

// rawCapabilities is the built-in handler used for any chunk ID that has
// no registered Capabilities: an unrecognized chunk ID is not an error,
// its body is simply kept as an uninterpreted byte slice. It is never
// installed via Register -- Registry.resolveByContext falls back to it
// directly.
type rawCapabilities struct{}

func (rawCapabilities) Create(id chunk.ID, size int32) *chunk.Chunk {
	return chunk.NewRaw(id, make([]byte, 0, size))
}

func (rawCapabilities) ReadContents(r io.Reader, c *chunk.Chunk, reg *Registry, p path.Path) (int, error) {
	buf := make([]byte, c.ChunkSize)
	n, err := io.ReadFull(r, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return n, err
	}
	c.Raw = buf[:n]
	return n, nil
}

func (rawCapabilities) WriteContents(w io.Writer, c *chunk.Chunk, reg *Registry, p path.Path) (int, error) {
	return w.Write(c.Raw)
}

func (rawCapabilities) CheckContents(c *chunk.Chunk, reg *Registry, p path.Path, sink quality.Sink) quality.Level {
	return quality.Perfect
}

func (rawCapabilities) ClearContents(c *chunk.Chunk, reg *Registry) {
	c.Raw = nil
}

func (rawCapabilities) PrintContents(w io.Writer, c *chunk.Chunk, indent int, reg *Registry) error {
	_, err := io.WriteString(w, c.ChunkID.String())
	return err
}

func (rawCapabilities) CompareContents(a, b *chunk.Chunk, reg *Registry) bool {
	return iffio.EncodedSize(a.ChunkSize) == iffio.EncodedSize(b.ChunkSize) && string(a.Raw) == string(b.Raw)
}
