package stream

import (
	"encoding/binary"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"

	"github.com/scigolib/lms/internal/lmserrors"
)

// Encoding identifies the code-unit width and charset a FileInfo header
// declares for every encoded string in the file.
type Encoding uint8

const (
	UTF8 Encoding = iota
	UTF16
	UTF32
)

// Width returns the code-unit width of the encoding in bytes.
func (e Encoding) Width() int {
	switch e {
	case UTF8:
		return 1
	case UTF16:
		return 2
	case UTF32:
		return 4
	default:
		return 0
	}
}

// Terminator returns the NUL terminator for the encoding (Width zero bytes).
func (e Encoding) Terminator() []byte {
	return make([]byte, e.Width())
}

func (e Encoding) String() string {
	switch e {
	case UTF8:
		return "UTF8"
	case UTF16:
		return "UTF16"
	case UTF32:
		return "UTF32"
	default:
		return "Unknown"
	}
}

func byteOrder(bigEndian bool) binary.ByteOrder {
	if bigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// utf16Codec returns the x/text UTF-16 encoding for the given endianness.
// UTF-8 needs no codec (it is the wire format of Go strings); UTF-32 has no
// codec in x/text and is handled separately below.
func utf16Codec(bigEndian bool) encoding.Encoding {
	if bigEndian {
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
	}
	return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)
}

// encodeString converts s into this encoding's on-disk byte representation.
func (e Encoding) encodeString(s string, bigEndian bool) ([]byte, error) {
	switch e {
	case UTF8:
		return []byte(s), nil
	case UTF16:
		out, err := utf16Codec(bigEndian).NewEncoder().String(s)
		if err != nil {
			return nil, lmserrors.Wrap(lmserrors.DecodeError, "encoding string as UTF-16", err)
		}
		return []byte(out), nil
	case UTF32:
		return encodeUTF32(s, bigEndian), nil
	default:
		return nil, lmserrors.New(lmserrors.DecodeError, "unknown encoding")
	}
}

// decodeBytes converts raw on-disk bytes back into a Go string.
func (e Encoding) decodeBytes(b []byte, bigEndian bool) (string, error) {
	switch e {
	case UTF8:
		if !utf8.Valid(b) {
			return "", lmserrors.New(lmserrors.DecodeError, "invalid UTF-8 sequence")
		}
		return string(b), nil
	case UTF16:
		out, err := utf16Codec(bigEndian).NewDecoder().Bytes(b)
		if err != nil {
			return "", lmserrors.Wrap(lmserrors.DecodeError, "decoding UTF-16 string", err)
		}
		return string(out), nil
	case UTF32:
		return decodeUTF32(b, bigEndian)
	default:
		return "", lmserrors.New(lmserrors.DecodeError, "unknown encoding")
	}
}

// encodeUTF32 and decodeUTF32 are hand-rolled because x/text does not ship a
// UTF-32 transform.
func encodeUTF32(s string, bigEndian bool) []byte {
	order := byteOrder(bigEndian)
	buf := make([]byte, 0, len(s)*4)
	unit := make([]byte, 4)
	for _, r := range s {
		order.PutUint32(unit, uint32(r))
		buf = append(buf, unit...)
	}
	return buf
}

func decodeUTF32(b []byte, bigEndian bool) (string, error) {
	if len(b)%4 != 0 {
		return "", lmserrors.New(lmserrors.DecodeError, "UTF-32 byte length not a multiple of 4")
	}
	order := byteOrder(bigEndian)
	var sb strings.Builder
	for i := 0; i < len(b); i += 4 {
		r := rune(order.Uint32(b[i : i+4]))
		if !utf8.ValidRune(r) {
			return "", lmserrors.New(lmserrors.DecodeError, "invalid UTF-32 code point")
		}
		sb.WriteRune(r)
	}
	return sb.String(), nil
}
