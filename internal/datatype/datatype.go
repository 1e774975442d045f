// Package datatype implements the LMS DataType enum shared by attribute and
// tag-parameter value definitions.
package datatype

import (
	"strconv"
	"strings"

	"github.com/scigolib/lms/internal/lmserrors"
)

// DataType enumerates the on-disk value types MSBT/MSBP use for attribute
// fields and tag parameters, plus two interface-only reinterpretations
// (Bool, Bytes) that configs use to view a single encoded byte as a bool or
// opaque byte rather than a raw integer.
type DataType uint8

const (
	Uint8  DataType = 0
	Uint16 DataType = 1
	Uint32 DataType = 2
	Int8   DataType = 3
	Int16  DataType = 4
	Int32  DataType = 5
	Float32 DataType = 6
	// 7 is reserved/undocumented in every known title; callers never
	// construct it, FromByte rejects it explicitly.
	Unknown7 DataType = 7
	String  DataType = 8
	List    DataType = 9

	// Bool and Bytes have no on-disk discriminant of their own; a config
	// declares a ValueDefinition as one of these to reinterpret a
	// single-byte stream value. They are assigned values outside the
	// on-disk range so they never collide with a parsed byte.
	Bool  DataType = 0xFE
	Bytes DataType = 0xFF
)

// FromByte maps an on-disk datatype byte to a DataType, failing for the
// reserved/undocumented value 7 or anything out of range.
func FromByte(b uint8) (DataType, error) {
	switch b {
	case 0, 1, 2, 3, 4, 5, 6, 8, 9:
		return DataType(b), nil
	default:
		return 0, lmserrors.New(lmserrors.UnknownDataType, "unsupported or reserved datatype byte "+strconv.Itoa(int(b)))
	}
}

// String returns the lowercase enum name (used when generating a
// TitleConfig from an MSBP).
func (d DataType) String() string {
	switch d {
	case Uint8:
		return "uint8"
	case Uint16:
		return "uint16"
	case Uint32:
		return "uint32"
	case Int8:
		return "int8"
	case Int16:
		return "int16"
	case Int32:
		return "int32"
	case Float32:
		return "float32"
	case String:
		return "string"
	case List:
		return "list"
	case Bool:
		return "bool"
	case Bytes:
		return "byte"
	default:
		return "unknown"
	}
}

// ParseDataType parses a datatype name, including its short aliases
// (u8, u16, u32, i8, i16, i32, f32, str).
func ParseDataType(s string) (DataType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "uint8", "u8":
		return Uint8, nil
	case "uint16", "u16":
		return Uint16, nil
	case "uint32", "u32":
		return Uint32, nil
	case "int8", "i8":
		return Int8, nil
	case "int16", "i16":
		return Int16, nil
	case "int32", "i32":
		return Int32, nil
	case "float32", "f32":
		return Float32, nil
	case "string", "str":
		return String, nil
	case "list":
		return List, nil
	case "bool":
		return Bool, nil
	case "byte", "bytes":
		return Bytes, nil
	default:
		return 0, lmserrors.New(lmserrors.UnknownDataType, "unknown datatype name '"+s+"'")
	}
}

// Signed reports whether the type is a signed integer. Panics semantics
// from the original ("raise TypeError") are replaced with an error return.
func (d DataType) Signed() (bool, error) {
	switch d {
	case String, List, Bool, Bytes:
		return false, lmserrors.New(lmserrors.WrongValueType, "signed is not a valid property for "+d.String())
	case Int8, Int16, Int32:
		return true, nil
	default:
		return false, nil
	}
}

// StreamSize returns the number of bytes this datatype occupies in a fixed
// inline stream position (STRING has no fixed inline size and is excluded;
// callers handle STRING specially).
func (d DataType) StreamSize() int {
	switch d {
	case Uint8, Int8, List, Bool, Bytes:
		return 1
	case Uint16, Int16:
		return 2
	case Uint32, Int32, Float32:
		return 4
	default:
		return 0
	}
}

// IsNumeric reports whether the type is one of the fixed-width numeric
// kinds (the ones read_field/write_field handle via the stream directly).
func (d DataType) IsNumeric() bool {
	switch d {
	case Uint8, Uint16, Uint32, Int8, Int16, Int32, Float32:
		return true
	default:
		return false
	}
}
