// Package section implements the 32-byte LMS file header and the
// section-framing conventions (magic/size/reserved prefix, 16-byte 0xAB
// padding) that both MSBT and MSBP build every section on top of.
package section

import (
	"bytes"

	"github.com/scigolib/lms/internal/lmserrors"
	"github.com/scigolib/lms/internal/stream"
)

// DataStart is the byte offset the first section frame begins at.
const DataStart = 0x20

// fileSizeOffset is where the backpatched total file size lives in the
// 32-byte header.
const fileSizeOffset = 0x12

var (
	bigEndianBOM    = []byte{0xFE, 0xFF}
	littleEndianBOM = []byte{0xFF, 0xFE}
)

// Header is the parsed fixed 32-byte file header shared by MSBT and MSBP.
type Header struct {
	BigEndian    bool
	Encoding     stream.Encoding
	Version      uint8
	SectionCount uint16
}

// ReadHeader validates the 8-byte magic, derives endianness and encoding,
// and asserts the declared file_size matches the stream's actual length.
// On return the reader is positioned at DataStart.
func ReadHeader(r *stream.Reader, expectedMagic string) (*Header, error) {
	magic, err := r.ReadStringLen(8)
	if err != nil {
		return nil, err
	}
	if magic != expectedMagic {
		return nil, lmserrors.New(lmserrors.UnexpectedMagic,
			"expected magic '"+expectedMagic+"', got '"+magic+"'").At(0)
	}

	bom, err := r.ReadBytes(2)
	if err != nil {
		return nil, err
	}
	var bigEndian bool
	switch {
	case bytes.Equal(bom, bigEndianBOM):
		bigEndian = true
	case bytes.Equal(bom, littleEndianBOM):
		bigEndian = false
	default:
		return nil, lmserrors.New(lmserrors.UnexpectedMagic, "unrecognized byte-order mark").At(8)
	}
	r.SetBigEndian(bigEndian)

	if err := r.Skip(2); err != nil {
		return nil, err
	}

	encByte, err := r.ReadUint8()
	if err != nil {
		return nil, err
	}
	if encByte > uint8(stream.UTF32) {
		return nil, lmserrors.New(lmserrors.UnknownDataType, "unknown file encoding byte").At(12)
	}
	enc := stream.Encoding(encByte)
	r.SetEncoding(enc)

	version, err := r.ReadUint8()
	if err != nil {
		return nil, err
	}
	sectionCount, err := r.ReadUint16()
	if err != nil {
		return nil, err
	}

	if err := r.Skip(2); err != nil {
		return nil, err
	}
	fileSize, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}

	if err := r.Seek(0, stream.SeekEnd); err != nil {
		return nil, err
	}
	if int64(fileSize) != r.Tell() {
		return nil, lmserrors.New(lmserrors.MisalignedSize, "declared file_size does not match stream length").At(fileSizeOffset)
	}

	if err := r.Seek(DataStart, stream.SeekStart); err != nil {
		return nil, err
	}

	return &Header{
		BigEndian:    bigEndian,
		Encoding:     enc,
		Version:      version,
		SectionCount: sectionCount,
	}, nil
}

// WriteHeader emits the 32-byte header with a zero file_size placeholder at
// fileSizeOffset, sets the writer's endianness/encoding from h, and leaves
// the cursor at DataStart. Call PatchFileSize once every section has been
// written.
func WriteHeader(w *stream.Writer, magic string, h Header) error {
	w.SetBigEndian(h.BigEndian)
	w.SetEncoding(h.Encoding)

	if err := w.WriteStringLen(magic); err != nil {
		return err
	}
	bom := littleEndianBOM
	if h.BigEndian {
		bom = bigEndianBOM
	}
	if _, err := w.WriteBytes(bom); err != nil {
		return err
	}
	if _, err := w.WriteBytes([]byte{0, 0}); err != nil {
		return err
	}
	if err := w.WriteUint8(uint8(h.Encoding)); err != nil {
		return err
	}
	if err := w.WriteUint8(h.Version); err != nil {
		return err
	}
	if err := w.WriteUint16(h.SectionCount); err != nil {
		return err
	}
	if _, err := w.WriteBytes([]byte{0, 0}); err != nil {
		return err
	}
	if _, err := w.WriteBytes(make([]byte, 4)); err != nil { // file_size placeholder
		return err
	}
	if _, err := w.WriteBytes(make([]byte, 10)); err != nil {
		return err
	}
	return w.Seek(DataStart, stream.SeekStart)
}

// PatchFileSize backpatches the file_size field with the writer's current
// high-water mark, then restores the cursor to the end of the buffer.
func PatchFileSize(w *stream.Writer) error {
	end := w.Len()
	if err := w.Seek(fileSizeOffset, stream.SeekStart); err != nil {
		return err
	}
	if err := w.WriteUint32(uint32(end)); err != nil {
		return err
	}
	return w.Seek(end, stream.SeekStart)
}
