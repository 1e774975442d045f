package field

import (
	"github.com/scigolib/lms/internal/datatype"
	"github.com/scigolib/lms/internal/lmserrors"
	"github.com/scigolib/lms/internal/stream"
)

// ReadField reads one fixed-width value from r per def's datatype and
// constructs a validated Field. STRING is excluded: its on-disk form
// differs per caller (ATR1 uses a u32 offset into a NUL-terminated string
// pool, decoded tag parameters use a length-prefixed form), so callers read
// the raw string themselves and pass it to NewField directly.
func ReadField(r *stream.Reader, def ValueDefinition) (*Field, error) {
	value, err := readRaw(r, def)
	if err != nil {
		return nil, err
	}
	return NewField(value, def)
}

func readRaw(r *stream.Reader, def ValueDefinition) (Value, error) {
	dt := def.Datatype
	switch dt {
	case datatype.Uint8:
		v, err := r.ReadUint8()
		return int64(v), err
	case datatype.Int8:
		v, err := r.ReadInt8()
		return int64(v), err
	case datatype.Uint16:
		v, err := r.ReadUint16()
		return int64(v), err
	case datatype.Int16:
		v, err := r.ReadInt16()
		return int64(v), err
	case datatype.Uint32:
		v, err := r.ReadUint32()
		return int64(v), err
	case datatype.Int32:
		v, err := r.ReadInt32()
		return int64(v), err
	case datatype.Float32:
		return r.ReadFloat32()
	case datatype.Bool:
		v, err := r.ReadUint8()
		return v != 0, err
	case datatype.Bytes:
		b, err := r.ReadBytes(1)
		return b, err
	case datatype.List:
		idx, err := r.ReadUint8()
		if err != nil {
			return nil, err
		}
		if int(idx) >= len(def.ListItems) {
			return nil, lmserrors.New(lmserrors.ValueNotInList, "list index byte has no matching item in config").At(r.Tell() - 1)
		}
		return def.ListItems[idx], nil
	default:
		return nil, lmserrors.New(lmserrors.WrongValueType, "datatype has no fixed-width stream representation")
	}
}

// WriteField writes f's value to w in its fixed-width on-disk form. STRING
// fields are rejected; as in ReadField, callers handle STRING themselves.
func WriteField(w *stream.Writer, f *Field) error {
	switch f.Datatype() {
	case datatype.Uint8, datatype.Int8:
		v, _ := f.Value().(int64)
		return w.WriteUint8(uint8(v))
	case datatype.Uint16, datatype.Int16:
		v, _ := f.Value().(int64)
		return w.WriteUint16(uint16(v))
	case datatype.Uint32, datatype.Int32:
		v, _ := f.Value().(int64)
		return w.WriteUint32(uint32(v))
	case datatype.Float32:
		v, _ := f.Value().(float32)
		return w.WriteFloat32(v)
	case datatype.Bool:
		v, _ := f.Value().(bool)
		if v {
			return w.WriteUint8(1)
		}
		return w.WriteUint8(0)
	case datatype.Bytes:
		b, _ := f.Value().([]byte)
		_, err := w.WriteBytes(b)
		return err
	case datatype.List:
		s, _ := f.Value().(string)
		for i, item := range f.ListItems() {
			if item == s {
				return w.WriteUint8(uint8(i))
			}
		}
		return lmserrors.New(lmserrors.ValueNotInList, "value '"+s+"' is not in its list of items")
	default:
		return lmserrors.New(lmserrors.WrongValueType, "datatype has no fixed-width stream representation")
	}
}
