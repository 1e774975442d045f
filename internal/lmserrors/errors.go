// Package lmserrors defines the typed error taxonomy shared by every LMS
// codec package.
package lmserrors

import (
	"errors"
	"fmt"
)

// Kind identifies the category of failure a codec operation produced.
type Kind int

const (
	UnexpectedMagic Kind = iota
	MisalignedSize
	TruncatedStream
	DecodeError
	UnknownDataType
	ValueOutOfRange
	ValueNotInList
	InvalidByteLength
	WrongValueType
	UnknownTag
	InvalidTagFormat
	TagReadingError
	TagWritingError
	AttributeLayoutMismatch
	MissingConfig
	DuplicateLabel
	UnknownLabel
	SectionConsistency
	FieldNotFound
)

func (k Kind) String() string {
	switch k {
	case UnexpectedMagic:
		return "UnexpectedMagic"
	case MisalignedSize:
		return "MisalignedSize"
	case TruncatedStream:
		return "TruncatedStream"
	case DecodeError:
		return "DecodeError"
	case UnknownDataType:
		return "UnknownDataType"
	case ValueOutOfRange:
		return "ValueOutOfRange"
	case ValueNotInList:
		return "ValueNotInList"
	case InvalidByteLength:
		return "InvalidByteLength"
	case WrongValueType:
		return "WrongValueType"
	case UnknownTag:
		return "UnknownTag"
	case InvalidTagFormat:
		return "InvalidTagFormat"
	case TagReadingError:
		return "TagReadingError"
	case TagWritingError:
		return "TagWritingError"
	case AttributeLayoutMismatch:
		return "AttributeLayoutMismatch"
	case MissingConfig:
		return "MissingConfig"
	case DuplicateLabel:
		return "DuplicateLabel"
	case UnknownLabel:
		return "UnknownLabel"
	case SectionConsistency:
		return "SectionConsistency"
	case FieldNotFound:
		return "FieldNotFound"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Error is the single error type returned by every codec package in this
// module. It carries enough context (byte offset, and for tag-related
// failures the offending group/tag/parameter) that a caller can report a
// precise diagnosis without re-deriving it.
type Error struct {
	Kind      Kind
	Context   string
	Offset    int64 // -1 when not applicable
	Group     string
	Tag       string
	Parameter string
	Cause     error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Kind, e.Context)
	if e.Group != "" || e.Tag != "" {
		msg = fmt.Sprintf("%s (tag [%s:%s]", msg, e.Group, e.Tag)
		if e.Parameter != "" {
			msg += fmt.Sprintf(", parameter %q", e.Parameter)
		}
		msg += ")"
	}
	if e.Offset >= 0 {
		msg = fmt.Sprintf("%s at offset 0x%X", msg, e.Offset)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Cause }

// New creates an Error with no offset or cause.
func New(kind Kind, context string) *Error {
	return &Error{Kind: kind, Context: context, Offset: -1}
}

// Wrap creates an Error that wraps an underlying cause.
func Wrap(kind Kind, context string, cause error) *Error {
	if cause == nil {
		return nil
	}
	return &Error{Kind: kind, Context: context, Offset: -1, Cause: cause}
}

// At returns a copy of e with the byte offset set.
func (e *Error) At(offset int64) *Error {
	cp := *e
	cp.Offset = offset
	return &cp
}

// WithTag returns a copy of e annotated with the offending group/tag/
// parameter, used by the tag codec's TagReadingError/TagWritingError paths.
func (e *Error) WithTag(group, tag, parameter string) *Error {
	cp := *e
	cp.Group, cp.Tag, cp.Parameter = group, tag, parameter
	return &cp
}

// Is reports whether err is, or wraps, an *Error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
