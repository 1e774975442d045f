package tagcodec

import (
	"encoding/binary"

	"github.com/scigolib/lms/internal/datatype"
	"github.com/scigolib/lms/internal/field"
	"github.com/scigolib/lms/internal/lmserrors"
	"github.com/scigolib/lms/internal/stream"
	"github.com/scigolib/lms/internal/titleconfig"
)

// OpenIndicator and CloseIndicator are the control-code-unit values TXT2
// scanning looks for to recognize the start of a tag.
const (
	OpenIndicator  = 0x0E
	CloseIndicator = 0x0F
)

// Indicator renders an indicator code unit in a given width/endianness, the
// same representation get_tag_indicator produces for the write path.
func Indicator(code int, width int, bigEndian bool) []byte {
	b := make([]byte, width)
	v := uint32(code)
	switch width {
	case 1:
		b[0] = byte(v)
	case 2:
		order := binary.LittleEndian
		if bigEndian {
			order = binary.BigEndian
		}
		order.PutUint16(b, uint16(v))
	case 4:
		order := binary.LittleEndian
		if bigEndian {
			order = binary.BigEndian
		}
		order.PutUint32(b, v)
	}
	return b
}

// ReadTag decodes one control tag. The reader must be positioned right
// after the opening/closing indicator code unit. config may be nil (every
// tag reads as encoded); suppressTagErrors controls whether a decoding
// failure against a matched definition falls back to an encoded read
// instead of propagating.
func ReadTag(r *stream.Reader, config *titleconfig.TagConfig, isClosing bool, suppressTagErrors bool) (ControlTag, error) {
	groupID, err := r.ReadUint16()
	if err != nil {
		return nil, err
	}
	tagIndex, err := r.ReadUint16()
	if err != nil {
		return nil, err
	}
	start := r.Tell()

	if config == nil {
		return readEncodedTag(r, int(groupID), int(tagIndex), isClosing, false)
	}

	definition := config.ByIndexes(int(groupID), int(tagIndex))
	if definition == nil {
		return readEncodedTag(r, int(groupID), int(tagIndex), isClosing, false)
	}

	if isClosing {
		return readDecodedTag(r, definition, true)
	}

	tag, err := readDecodedTag(r, definition, false)
	if err == nil {
		return tag, nil
	}
	if !lmserrors.Is(err, lmserrors.TagReadingError) || !suppressTagErrors {
		return nil, err
	}
	if seekErr := r.Seek(start, stream.SeekStart); seekErr != nil {
		return nil, seekErr
	}
	return readEncodedTag(r, int(groupID), int(tagIndex), isClosing, true)
}

func readEncodedTag(r *stream.Reader, groupID, tagIndex int, isClosing, isFallback bool) (*EncodedTag, error) {
	if isClosing {
		return NewEncodedTag(groupID, tagIndex, nil, false, true), nil
	}
	size, err := r.ReadUint16()
	if err != nil {
		return nil, err
	}
	if size == 0 {
		return NewEncodedTag(groupID, tagIndex, nil, false, false), nil
	}
	raw, err := r.ReadBytes(int(size))
	if err != nil {
		return nil, err
	}
	params := make([]string, len(raw))
	for i, b := range raw {
		params[i] = hexByte(b)
	}
	return NewEncodedTag(groupID, tagIndex, params, isFallback, false), nil
}

func hexByte(b byte) string {
	const digits = "0123456789ABCDEF"
	return string([]byte{digits[b>>4], digits[b&0x0F]})
}

func readDecodedTag(r *stream.Reader, definition *titleconfig.TagDefinition, isClosing bool) (*DecodedTag, error) {
	if isClosing {
		return NewDecodedTag(definition, nil, true), nil
	}

	size, err := r.ReadUint16()
	if err != nil {
		return nil, err
	}
	end := r.Tell() + int64(size)

	if size == 0 {
		return NewDecodedTag(definition, nil, false), nil
	}

	fm, err := readDecodedParameters(r, definition)
	if err != nil {
		return nil, lmserrors.Wrap(lmserrors.TagReadingError,
			"reading tag '["+definition.GroupName+":"+definition.TagName+"]'", err).
			WithTag(definition.GroupName, definition.TagName, "")
	}
	if seekErr := r.Seek(end, stream.SeekStart); seekErr != nil {
		return nil, seekErr
	}
	return NewDecodedTag(definition, fm, false), nil
}

func readDecodedParameters(r *stream.Reader, definition *titleconfig.TagDefinition) (*field.FieldMap, error) {
	fields := make([]*field.Field, 0, len(definition.Parameters))
	for _, def := range definition.Parameters {
		var value field.Value
		var err error
		if def.Datatype == datatype.String {
			value, err = r.ReadLenEncodedString()
		} else {
			var f *field.Field
			f, err = field.ReadField(r, def)
			if err == nil {
				value = f.Value()
			}
		}
		if err != nil {
			return nil, err
		}
		f, err := field.NewField(value, def)
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	return field.NewFieldMap(fields...), nil
}

// WriteTag encodes one control tag, including its opening/closing
// indicator, in the given encoding/endianness.
func WriteTag(w *stream.Writer, tag ControlTag, enc stream.Encoding, bigEndian bool) error {
	code := OpenIndicator
	if tag.IsClosing() {
		code = CloseIndicator
	}
	if _, err := w.WriteBytes(Indicator(code, enc.Width(), bigEndian)); err != nil {
		return err
	}
	if err := w.WriteUint16(uint16(tag.GroupID())); err != nil {
		return err
	}
	if err := w.WriteUint16(uint16(tag.TagIndex())); err != nil {
		return err
	}
	if tag.IsClosing() {
		return nil
	}

	switch t := tag.(type) {
	case *EncodedTag:
		return writeEncodedParameters(w, t.Parameters())
	case *DecodedTag:
		if t.Parameters() == nil {
			return w.WriteUint16(0)
		}
		return writeDecodedParameters(w, t.Parameters(), t.GroupName(), t.TagName())
	default:
		return lmserrors.New(lmserrors.TagWritingError, "unknown ControlTag implementation")
	}
}

func writeEncodedParameters(w *stream.Writer, parameters []string) error {
	if parameters == nil {
		return w.WriteUint16(0)
	}
	if err := w.WriteUint16(uint16(len(parameters))); err != nil {
		return err
	}
	for _, p := range parameters {
		b, err := parseHexPair(p)
		if err != nil {
			return err
		}
		if _, err := w.WriteBytes([]byte{b}); err != nil {
			return err
		}
	}
	return nil
}

func parseHexPair(s string) (byte, error) {
	if len(s) != 2 {
		return 0, lmserrors.New(lmserrors.TagWritingError, "malformed encoded tag parameter '"+s+"'")
	}
	hi, err := hexDigit(s[0])
	if err != nil {
		return 0, err
	}
	lo, err := hexDigit(s[1])
	if err != nil {
		return 0, err
	}
	return hi<<4 | lo, nil
}

func hexDigit(c byte) (byte, error) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', nil
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, nil
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, nil
	default:
		return 0, lmserrors.New(lmserrors.TagWritingError, "malformed hex digit in encoded tag parameter")
	}
}

// writeDecodedParameters emits a decoded tag's FieldMap, inserting the
// 0xCD alignment byte before the first STRING parameter if one exists, else
// appending it at the end, whenever the computed block size is odd.
func writeDecodedParameters(w *stream.Writer, fields *field.FieldMap, groupName, tagName string) error {
	size := 0
	for _, f := range fields.Fields() {
		if f.Datatype() == datatype.String {
			s, _ := f.Value().(string)
			n, err := w.EncodedStringLen(s)
			if err != nil {
				return wrapWriteErr(err, groupName, tagName, f.Name())
			}
			size += 2 + n
		} else {
			size += f.Datatype().StreamSize()
		}
	}
	needsPadding := size%2 != 0
	if needsPadding {
		size++
	}

	if err := w.WriteUint16(uint16(size)); err != nil {
		return err
	}

	for _, f := range fields.Fields() {
		if f.Datatype() == datatype.String {
			if needsPadding {
				if _, err := w.WriteBytes([]byte{paddingByte}); err != nil {
					return wrapWriteErr(err, groupName, tagName, f.Name())
				}
				needsPadding = false
			}
			s, _ := f.Value().(string)
			if err := w.WriteLenEncodedString(s); err != nil {
				return wrapWriteErr(err, groupName, tagName, f.Name())
			}
			continue
		}
		if err := field.WriteField(w, f); err != nil {
			return wrapWriteErr(err, groupName, tagName, f.Name())
		}
	}

	if needsPadding {
		if _, err := w.WriteBytes([]byte{paddingByte}); err != nil {
			return wrapWriteErr(err, groupName, tagName, "")
		}
	}
	return nil
}

func wrapWriteErr(err error, groupName, tagName, param string) error {
	return lmserrors.Wrap(lmserrors.TagWritingError,
		"writing tag '["+groupName+":"+tagName+"]'", err).WithTag(groupName, tagName, param)
}
