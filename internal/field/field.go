// Package field implements ValueDefinition/Field/FieldMap: a typed value
// bound to its schema definition, and an insertion-ordered map of them used
// for attributes and decoded tag parameters.
package field

import (
	"encoding/hex"
	"math"
	"strconv"
	"strings"

	"github.com/scigolib/lms/internal/datatype"
	"github.com/scigolib/lms/internal/lmserrors"
)

const (
	float32Min = 1.17549435e-38
	float32Max = 3.4028235e38
)

// ValueDefinition describes one named, typed value slot — an attribute
// field or a tag parameter — including its list of valid values when the
// datatype is List.
type ValueDefinition struct {
	Name        string
	Description string
	Datatype    datatype.DataType
	ListItems   []string
}

// Value is the set of Go types a Field may hold: int64 for every integer
// width (signed and unsigned), float32, string (STRING and LIST), bool, and
// a single byte ([]byte of length 1, BYTES).
type Value interface{}

// Field is a value bound to the ValueDefinition that constrains it.
type Field struct {
	def   ValueDefinition
	value Value
}

// NewField constructs a Field, validating value against def's datatype,
// range, and (for LIST) membership.
func NewField(value Value, def ValueDefinition) (*Field, error) {
	f := &Field{def: def}
	if err := f.verify(value); err != nil {
		return nil, err
	}
	f.value = value
	return f, nil
}

func (f *Field) Name() string                { return f.def.Name }
func (f *Field) Description() string         { return f.def.Description }
func (f *Field) Datatype() datatype.DataType { return f.def.Datatype }
func (f *Field) ListItems() []string         { return f.def.ListItems }
func (f *Field) Value() Value                { return f.value }
func (f *Field) Definition() ValueDefinition { return f.def }

// SetValue validates and replaces the field's value.
func (f *Field) SetValue(value Value) error {
	if err := f.verify(value); err != nil {
		return err
	}
	f.value = value
	return nil
}

func (f *Field) verify(value Value) error {
	dt := f.def.Datatype

	switch dt {
	case datatype.Bool:
		if _, ok := value.(bool); !ok {
			return wrongType(f.def, value)
		}
		return nil
	case datatype.String:
		if _, ok := value.(string); !ok {
			return wrongType(f.def, value)
		}
		return nil
	case datatype.Bytes:
		b, ok := value.([]byte)
		if !ok {
			return wrongType(f.def, value)
		}
		if len(b) != 1 {
			return lmserrors.New(lmserrors.InvalidByteLength, "byte types only work for values of length 1")
		}
		return nil
	case datatype.List:
		s, ok := value.(string)
		if !ok {
			return wrongType(f.def, value)
		}
		for _, item := range f.def.ListItems {
			if item == s {
				return nil
			}
		}
		return lmserrors.New(lmserrors.ValueNotInList,
			"value '"+s+"' provided for field '"+f.def.Name+"' is not in its list of items")
	case datatype.Float32:
		v, ok := asFloat(value)
		if !ok {
			return wrongType(f.def, value)
		}
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			return lmserrors.New(lmserrors.ValueOutOfRange, "float32 value must be finite")
		}
		return verifyRange(float64(v), -float64(float32Max), float64(float32Max), f.def)
	default:
		iv, ok := asInt(value)
		if !ok {
			return wrongType(f.def, value)
		}
		bits := dt.StreamSize() * 8
		signed, err := dt.Signed()
		if err != nil {
			return err
		}
		var min, max int64
		if signed {
			max = int64(1) << (bits - 1)
			min = -max
			max--
		} else {
			min = 0
			max = (int64(1) << bits) - 1
		}
		return verifyRange(float64(iv), float64(min), float64(max), f.def)
	}
}

func wrongType(def ValueDefinition, value Value) error {
	return lmserrors.New(lmserrors.WrongValueType,
		"value provided for '"+def.Name+"' has the wrong type for datatype "+def.Datatype.String())
}

func verifyRange(value, min, max float64, def ValueDefinition) error {
	if value < min || value > max {
		return lmserrors.New(lmserrors.ValueOutOfRange,
			"value provided for field '"+def.Name+"' is out of range")
	}
	return nil
}

func asInt(value Value) (int64, bool) {
	switch v := value.(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint8:
		return int64(v), true
	case int8:
		return int64(v), true
	case uint16:
		return int64(v), true
	case int16:
		return int64(v), true
	default:
		return 0, false
	}
}

func asFloat(value Value) (float32, bool) {
	switch v := value.(type) {
	case float32:
		return v, true
	case float64:
		return float32(v), true
	default:
		return 0, false
	}
}

// ConvertStringToType parses a textual value into the Go representation
// appropriate for dt, mirroring the original's convert_string_to_type used
// when building fields from tag/attribute string forms.
func ConvertStringToType(value string, dt datatype.DataType) (Value, error) {
	switch dt {
	case datatype.String, datatype.List:
		return value, nil
	case datatype.Bytes:
		b, err := parseHexByte(value)
		if err != nil {
			return nil, err
		}
		return b, nil
	case datatype.Bool:
		switch strings.ToLower(strings.TrimSpace(value)) {
		case "true":
			return true, nil
		case "false":
			return false, nil
		default:
			return nil, lmserrors.New(lmserrors.WrongValueType, "value must be true or false for bool type")
		}
	case datatype.Float32:
		f, err := strconv.ParseFloat(value, 32)
		if err != nil {
			return nil, lmserrors.Wrap(lmserrors.WrongValueType, "parsing float32 value", err)
		}
		return float32(f), nil
	default:
		i, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return nil, lmserrors.Wrap(lmserrors.WrongValueType, "parsing integer value", err)
		}
		return i, nil
	}
}

func parseHexByte(value string) ([]byte, error) {
	b, err := hex.DecodeString(strings.TrimSpace(value))
	if err != nil {
		return nil, lmserrors.Wrap(lmserrors.WrongValueType, "parsing hex byte value", err)
	}
	if len(b) != 1 {
		return nil, lmserrors.New(lmserrors.InvalidByteLength, "byte types only work for values of length 1")
	}
	return b, nil
}
