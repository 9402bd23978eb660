// Package iffio implements the big-endian byte-level primitives shared by
// every chunk reader and writer in the iff module: fixed-width unsigned
// and signed integers, four-character identifiers, and the padding rules
// that keep every chunk an even number of bytes on the wire.
//
// Every primitive accepts the attribute path and chunk ID that the
// read/write is being performed on behalf of, so that a short read or
// short write can be reported as an *ifferr.IOError carrying the path and
// attribute name without the caller re-deriving them. The chunk ID is not
// recorded in the error.
package iffio

import (
	"encoding/binary"
	"io"

	"github.com/jonchammer/iff/ifferr"
	"github.com/jonchammer/iff/path"
)

// ID is a 4-byte IFF identifier. Space-padding is significant:
// ID{'C','A','T',' '} != ID{'C','A','T',0}.
type ID [4]byte

func (id ID) String() string {
	return string(id[:])
}

// ReadUByte reads a single unsigned byte.
func ReadUByte(r io.Reader, p path.Path, attr string, chunkID ID) (byte, error) {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, ifferr.NewIOError(p, attr, 1, err)
	}
	return buf[0], nil
}

// WriteUByte writes a single unsigned byte.
func WriteUByte(w io.Writer, p path.Path, attr string, chunkID ID, v byte) error {
	if _, err := w.Write([]byte{v}); err != nil {
		return ifferr.NewIOError(p, attr, 1, err)
	}
	return nil
}

// ReadUWord reads an unsigned 16-bit big-endian integer.
func ReadUWord(r io.Reader, p path.Path, attr string, chunkID ID) (uint16, error) {
	var buf [2]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, ifferr.NewIOError(p, attr, 2, err)
	}
	return binary.BigEndian.Uint16(buf[:]), nil
}

// WriteUWord writes an unsigned 16-bit big-endian integer.
func WriteUWord(w io.Writer, p path.Path, attr string, chunkID ID, v uint16) error {
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], v)
	if _, err := w.Write(buf[:]); err != nil {
		return ifferr.NewIOError(p, attr, 2, err)
	}
	return nil
}

// ReadWord reads a signed 16-bit big-endian integer.
func ReadWord(r io.Reader, p path.Path, attr string, chunkID ID) (int16, error) {
	v, err := ReadUWord(r, p, attr, chunkID)
	return int16(v), err
}

// WriteWord writes a signed 16-bit big-endian integer.
func WriteWord(w io.Writer, p path.Path, attr string, chunkID ID, v int16) error {
	return WriteUWord(w, p, attr, chunkID, uint16(v))
}

// ReadULong reads an unsigned 32-bit big-endian integer.
func ReadULong(r io.Reader, p path.Path, attr string, chunkID ID) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, ifferr.NewIOError(p, attr, 4, err)
	}
	return binary.BigEndian.Uint32(buf[:]), nil
}

// WriteULong writes an unsigned 32-bit big-endian integer.
func WriteULong(w io.Writer, p path.Path, attr string, chunkID ID, v uint32) error {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], v)
	if _, err := w.Write(buf[:]); err != nil {
		return ifferr.NewIOError(p, attr, 4, err)
	}
	return nil
}

// ReadLong reads a signed 32-bit big-endian integer.
func ReadLong(r io.Reader, p path.Path, attr string, chunkID ID) (int32, error) {
	v, err := ReadULong(r, p, attr, chunkID)
	return int32(v), err
}

// WriteLong writes a signed 32-bit big-endian integer.
func WriteLong(w io.Writer, p path.Path, attr string, chunkID ID, v int32) error {
	return WriteULong(w, p, attr, chunkID, uint32(v))
}

// ReadID reads a raw 4-byte identifier.
func ReadID(r io.Reader, p path.Path, attr string, chunkID ID) (ID, error) {
	var buf ID
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return ID{}, ifferr.NewIOError(p, attr, 4, err)
	}
	return buf, nil
}

// WriteID writes a raw 4-byte identifier.
func WriteID(w io.Writer, p path.Path, attr string, chunkID ID, id ID) error {
	if _, err := w.Write(id[:]); err != nil {
		return ifferr.NewIOError(p, attr, 4, err)
	}
	return nil
}

// SkipUnknownBytes consumes chunkSize-bytesProcessed bytes from r,
// discarding them, and returns the updated bytesProcessed count. It is
// used after a registry leaf handler has read fewer bytes than the chunk
// declared: leftover bytes are treated as a benign tail, not an error.
func SkipUnknownBytes(r io.Reader, p path.Path, chunkID ID, chunkSize int32, bytesProcessed int32) (int32, error) {
	remaining := int64(chunkSize) - int64(bytesProcessed)
	if remaining <= 0 {
		return bytesProcessed, nil
	}
	if _, err := io.CopyN(io.Discard, r, remaining); err != nil {
		return bytesProcessed, ifferr.NewIOError(p, "<skip>", int(remaining), err)
	}
	return chunkSize, nil
}

// WriteZeroFillerBytes writes n zero bytes, the serializer-side mirror of
// SkipUnknownBytes, used when a leaf handler intentionally emits fewer
// bytes than the chunk's declared size (e.g. while resizing a
// header-only placeholder chunk).
func WriteZeroFillerBytes(w io.Writer, p path.Path, chunkID ID, n int32) error {
	if n <= 0 {
		return nil
	}
	zeros := make([]byte, n)
	if _, err := w.Write(zeros); err != nil {
		return ifferr.NewIOError(p, "<filler>", int(n), err)
	}
	return nil
}

// ReadPaddingByte consumes the single zero pad byte that follows an
// odd-length chunk body. It is a no-op when chunkSize is even.
func ReadPaddingByte(r io.Reader, p path.Path, chunkID ID, chunkSize int32) error {
	if chunkSize&1 == 0 {
		return nil
	}
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return ifferr.NewIOError(p, "<pad>", 1, err)
	}
	return nil
}

// WritePaddingByte emits the single zero pad byte required after an
// odd-length chunk body. It is a no-op when chunkSize is even.
func WritePaddingByte(w io.Writer, p path.Path, chunkID ID, chunkSize int32) error {
	if chunkSize&1 == 0 {
		return nil
	}
	if _, err := w.Write([]byte{0}); err != nil {
		return ifferr.NewIOError(p, "<pad>", 1, err)
	}
	return nil
}

// EncodedSize returns the total on-wire byte count for a chunk with the
// given declared body size: the 8-byte header, the body itself, and one
// pad byte if the body length is odd.
func EncodedSize(chunkSize int32) int64 {
	return 8 + int64(chunkSize) + int64(chunkSize&1)
}
