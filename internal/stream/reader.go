// Package stream implements the endian-aware, encoding-aware cursor I/O
// that every LMS section codec is built on.
package stream

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/scigolib/lms/internal/lmserrors"
)

// Whence selects the reference point for Seek, mirroring io.Seeker.
type Whence int

const (
	SeekStart Whence = iota
	SeekCurrent
	SeekEnd
)

// Reader is a cursor over an in-memory byte buffer with the endianness and
// string encoding declared by a file's FileInfo header.
type Reader struct {
	data      []byte
	pos       int64
	bigEndian bool
	encoding  Encoding
}

// NewReader wraps data for cursor-based reading. The caller sets
// endianness/encoding once the file header has been parsed.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

func (r *Reader) SetBigEndian(big bool) { r.bigEndian = big }
func (r *Reader) BigEndian() bool       { return r.bigEndian }
func (r *Reader) SetEncoding(e Encoding) { r.encoding = e }
func (r *Reader) Encoding() Encoding     { return r.encoding }

// Tell returns the current cursor position.
func (r *Reader) Tell() int64 { return r.pos }

// Len returns the total number of bytes in the buffer.
func (r *Reader) Len() int64 { return int64(len(r.data)) }

func (r *Reader) byteOrder() binary.ByteOrder { return byteOrder(r.bigEndian) }

// Seek repositions the cursor relative to whence.
func (r *Reader) Seek(offset int64, whence Whence) error {
	var base int64
	switch whence {
	case SeekStart:
		base = 0
	case SeekCurrent:
		base = r.pos
	case SeekEnd:
		base = int64(len(r.data))
	default:
		return lmserrors.New(lmserrors.TruncatedStream, "invalid seek whence")
	}
	target := base + offset
	if target < 0 || target > int64(len(r.data)) {
		return lmserrors.New(lmserrors.TruncatedStream, "seek out of bounds").At(target)
	}
	r.pos = target
	return nil
}

// Skip advances the cursor by n bytes.
func (r *Reader) Skip(n int64) error {
	return r.Seek(n, SeekCurrent)
}

// Align advances the cursor by (-pos) mod boundary.
func (r *Reader) Align(boundary int64) error {
	pad := ((-r.pos)%boundary + boundary) % boundary
	return r.Skip(pad)
}

func (r *Reader) ensure(n int) error {
	if n < 0 || r.pos+int64(n) > int64(len(r.data)) {
		return lmserrors.New(lmserrors.TruncatedStream, "read past end of stream").At(r.pos)
	}
	return nil
}

// ReadBytes reads n raw bytes, advancing the cursor.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if err := r.ensure(n); err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, r.data[r.pos:r.pos+int64(n)])
	r.pos += int64(n)
	return out, nil
}

// PeekBytes reads n raw bytes without advancing the cursor.
func (r *Reader) PeekBytes(n int) ([]byte, error) {
	if err := r.ensure(n); err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, r.data[r.pos:r.pos+int64(n)])
	return out, nil
}

func (r *Reader) ReadUint8() (uint8, error) {
	b, err := r.ReadBytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *Reader) ReadInt8() (int8, error) {
	v, err := r.ReadUint8()
	return int8(v), err
}

func (r *Reader) ReadUint16() (uint16, error) {
	b, err := r.ReadBytes(2)
	if err != nil {
		return 0, err
	}
	return r.byteOrder().Uint16(b), nil
}

func (r *Reader) ReadInt16() (int16, error) {
	v, err := r.ReadUint16()
	return int16(v), err
}

func (r *Reader) ReadUint32() (uint32, error) {
	b, err := r.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return r.byteOrder().Uint32(b), nil
}

func (r *Reader) ReadInt32() (int32, error) {
	v, err := r.ReadUint32()
	return int32(v), err
}

func (r *Reader) ReadFloat32() (float32, error) {
	v, err := r.ReadUint32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

// ReadUint16Array reads n consecutive uint16 values.
func (r *Reader) ReadUint16Array(n int) ([]uint16, error) {
	out := make([]uint16, n)
	for i := range out {
		v, err := r.ReadUint16()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// ReadOffsetArray reads n consecutive uint32 values and returns them as
// absolute offsets relative to the base just before the array (the
// position of the u32 field immediately preceding the array). The cursor
// ends up positioned after the array.
func (r *Reader) ReadOffsetArray(n int) ([]int64, error) {
	base := r.pos - 4
	out := make([]int64, n)
	for i := range out {
		v, err := r.ReadUint32()
		if err != nil {
			return nil, err
		}
		out[i] = base + int64(v)
	}
	return out, nil
}

// ReadStringLen reads length raw bytes and decodes them as ASCII/UTF-8,
// used for magics and hash-table label bytes which are always single-byte
// encoded regardless of the file's declared Encoding.
func (r *Reader) ReadStringLen(length int) (string, error) {
	b, err := r.ReadBytes(length)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ReadEncodedString reads code units in the current Encoding until the
// terminator is found, decoding the accumulated bytes.
func (r *Reader) ReadEncodedString() (string, error) {
	width := r.encoding.Width()
	term := r.encoding.Terminator()
	var raw []byte
	for {
		unit, err := r.ReadBytes(width)
		if err != nil {
			return "", err
		}
		if bytes.Equal(unit, term) {
			break
		}
		raw = append(raw, unit...)
	}
	return r.encoding.decodeBytes(raw, r.bigEndian)
}

// DecodeRaw decodes raw on-disk bytes (already read from the stream) using
// the reader's current Encoding/endianness. Used by callers that accumulate
// bytes themselves while scanning for control-tag indicators.
func (r *Reader) DecodeRaw(b []byte) (string, error) {
	return r.encoding.decodeBytes(b, r.bigEndian)
}

// ReadLenEncodedString reads a uint16 byte-length prefix, then that many
// bytes decoded as a non-terminated string.
func (r *Reader) ReadLenEncodedString() (string, error) {
	length, err := r.ReadUint16()
	if err != nil {
		return "", err
	}
	raw, err := r.ReadBytes(int(length))
	if err != nil {
		return "", err
	}
	return r.encoding.decodeBytes(raw, r.bigEndian)
}
