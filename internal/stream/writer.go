package stream

import (
	"encoding/binary"
	"math"

	"github.com/scigolib/lms/internal/lmserrors"
)

// Writer is a cursor over a growable byte buffer supporting out-of-order
// writes (back-patching a size field after the fact), mirroring the
// original implementation's BytesIO-backed FileWriter.
type Writer struct {
	data      []byte
	pos       int64
	bigEndian bool
	encoding  Encoding
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer {
	return &Writer{}
}

func (w *Writer) SetBigEndian(big bool)  { w.bigEndian = big }
func (w *Writer) BigEndian() bool        { return w.bigEndian }
func (w *Writer) SetEncoding(e Encoding) { w.encoding = e }
func (w *Writer) Encoding() Encoding     { return w.encoding }

func (w *Writer) byteOrder() binary.ByteOrder { return byteOrder(w.bigEndian) }

// Tell returns the current cursor position.
func (w *Writer) Tell() int64 { return w.pos }

// Len returns the total number of bytes written so far (the high-water
// mark, not the cursor position).
func (w *Writer) Len() int64 { return int64(len(w.data)) }

// Bytes returns the full underlying buffer.
func (w *Writer) Bytes() []byte { return w.data }

// Seek repositions the cursor relative to whence. Seeking past the current
// end of the buffer is allowed; it leaves a gap that later writes fill.
func (w *Writer) Seek(offset int64, whence Whence) error {
	var base int64
	switch whence {
	case SeekStart:
		base = 0
	case SeekCurrent:
		base = w.pos
	case SeekEnd:
		base = int64(len(w.data))
	default:
		return lmserrors.New(lmserrors.TruncatedStream, "invalid seek whence")
	}
	target := base + offset
	if target < 0 {
		return lmserrors.New(lmserrors.TruncatedStream, "seek out of bounds").At(target)
	}
	w.pos = target
	return nil
}

// Skip advances the cursor by n bytes without writing data (matches the
// original's skip-as-seek behavior on the write side).
func (w *Writer) Skip(n int64) error {
	return w.Seek(n, SeekCurrent)
}

func (w *Writer) growTo(n int64) {
	if n > int64(len(w.data)) {
		grown := make([]byte, n)
		copy(grown, w.data)
		w.data = grown
	}
}

// WriteBytes writes raw bytes at the cursor, overwriting existing content or
// extending the buffer as needed, and advances the cursor.
func (w *Writer) WriteBytes(b []byte) (int, error) {
	end := w.pos + int64(len(b))
	w.growTo(end)
	copy(w.data[w.pos:end], b)
	w.pos = end
	return len(b), nil
}

func (w *Writer) WriteUint8(v uint8) error {
	_, err := w.WriteBytes([]byte{v})
	return err
}

func (w *Writer) WriteInt8(v int8) error {
	return w.WriteUint8(uint8(v))
}

func (w *Writer) WriteUint16(v uint16) error {
	b := make([]byte, 2)
	w.byteOrder().PutUint16(b, v)
	_, err := w.WriteBytes(b)
	return err
}

func (w *Writer) WriteInt16(v int16) error {
	return w.WriteUint16(uint16(v))
}

func (w *Writer) WriteUint32(v uint32) error {
	b := make([]byte, 4)
	w.byteOrder().PutUint32(b, v)
	_, err := w.WriteBytes(b)
	return err
}

func (w *Writer) WriteInt32(v int32) error {
	return w.WriteUint32(uint32(v))
}

func (w *Writer) WriteFloat32(v float32) error {
	return w.WriteUint32(math.Float32bits(v))
}

// WriteUint16Array writes each value in order.
func (w *Writer) WriteUint16Array(values []uint16) error {
	for _, v := range values {
		if err := w.WriteUint16(v); err != nil {
			return err
		}
	}
	return nil
}

// WriteStringLen writes s as raw ASCII/UTF-8 bytes with no terminator, used
// for magics and hash-table labels.
func (w *Writer) WriteStringLen(s string) error {
	_, err := w.WriteBytes([]byte(s))
	return err
}

// WriteEncodedString writes s in the current Encoding, optionally followed
// by the encoding's terminator.
func (w *Writer) WriteEncodedString(s string, terminate bool) error {
	raw, err := w.encoding.encodeString(s, w.bigEndian)
	if err != nil {
		return err
	}
	if _, err := w.WriteBytes(raw); err != nil {
		return err
	}
	if terminate {
		_, err = w.WriteBytes(w.encoding.Terminator())
	}
	return err
}

// WriteLenEncodedString writes a uint16 byte-length prefix followed by the
// encoded (non-terminated) bytes.
func (w *Writer) WriteLenEncodedString(s string) error {
	raw, err := w.encoding.encodeString(s, w.bigEndian)
	if err != nil {
		return err
	}
	if err := w.WriteUint16(uint16(len(raw))); err != nil {
		return err
	}
	_, err = w.WriteBytes(raw)
	return err
}

// EncodedStringLen returns the number of bytes s occupies once encoded in
// w's current encoding/endianness, without writing anything — callers that
// must precompute a size field (a tag's parameter_size, an attribute's
// string-pool offset) call this rather than approximating from len(s) or
// the rune count, since neither equals the real encoded byte count (UTF-8
// multi-byte runes, UTF-16 surrogate pairs).
func (w *Writer) EncodedStringLen(s string) (int, error) {
	raw, err := w.encoding.encodeString(s, w.bigEndian)
	if err != nil {
		return 0, err
	}
	return len(raw), nil
}

// Align writes (-pos) mod boundary copies of pad at the cursor (used for
// 0xAB section padding).
func (w *Writer) Align(boundary int64, pad byte) error {
	count := ((-w.pos)%boundary + boundary) % boundary
	if count == 0 {
		return nil
	}
	buf := make([]byte, count)
	for i := range buf {
		buf[i] = pad
	}
	_, err := w.WriteBytes(buf)
	return err
}
