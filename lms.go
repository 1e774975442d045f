// Package lms implements Nintendo's LibMessageStudio (LMS) binary message
// formats: MSBT (Message Studio Binary Text) and MSBP (Message Studio
// Binary Project). It reads and writes both formats bit-exactly, including
// unknown sections, and decodes/encodes message control tags and
// attributes against a caller-supplied TitleConfig.
//
// This package is a thin facade over internal/*: it re-exports the types a
// caller needs and exposes the read/write entry points. The heavy lifting —
// the section framer, the label hashtable, the tag codec's CD-padding rule,
// and so on — lives in the internal packages named in DESIGN.md.
package lms

import (
	"github.com/scigolib/lms/internal/datatype"
	"github.com/scigolib/lms/internal/field"
	"github.com/scigolib/lms/internal/lmserrors"
	"github.com/scigolib/lms/internal/msbp"
	"github.com/scigolib/lms/internal/msbt"
	"github.com/scigolib/lms/internal/section"
	"github.com/scigolib/lms/internal/stream"
	"github.com/scigolib/lms/internal/tagcodec"
	"github.com/scigolib/lms/internal/titleconfig"
	"github.com/scigolib/lms/internal/txt2"
)

// Encoding identifies the file-wide string encoding (UTF8/UTF16/UTF32) a
// FileInfo declares.
type Encoding = stream.Encoding

// The three encodings a file header may declare.
const (
	UTF8  = stream.UTF8
	UTF16 = stream.UTF16
	UTF32 = stream.UTF32
)

// DataType is the typed-value enum driving Field/ValueDefinition decoding.
type DataType = datatype.DataType

// The DataType enum members, per spec.md §3.
const (
	Uint8   = datatype.Uint8
	Uint16  = datatype.Uint16
	Uint32  = datatype.Uint32
	Int8    = datatype.Int8
	Int16   = datatype.Int16
	Int32   = datatype.Int32
	Float32 = datatype.Float32
	String  = datatype.String
	List    = datatype.List
	Bool    = datatype.Bool
	Bytes   = datatype.Bytes
)

// Header is the 32-byte file header shared by MSBT and MSBP.
type Header = section.Header

// ValueDefinition, Field, and FieldMap model one typed value slot, a value
// bound to one, and an insertion-ordered collection of them (spec.md §3).
type (
	ValueDefinition = field.ValueDefinition
	Field           = field.Field
	FieldMap        = field.FieldMap
	FieldValue      = field.Value
)

// ControlTag, EncodedTag, and DecodedTag model a message's embedded tags
// (spec.md §4.7).
type (
	ControlTag = tagcodec.ControlTag
	EncodedTag = tagcodec.EncodedTag
	DecodedTag = tagcodec.DecodedTag
)

// MessageText is a message's ordered sequence of text runs and control
// tags (spec.md §4.11).
type MessageText = txt2.MessageText

// AttributeConfig, TagDefinition, TagConfig, and TitleConfig model the
// per-game schema a decoded MSBT is read and written against (spec.md
// §4.5, §6.3).
type (
	AttributeConfig = titleconfig.AttributeConfig
	TagDefinition   = titleconfig.TagDefinition
	TagConfig       = titleconfig.TagConfig
	TitleConfig     = titleconfig.TitleConfig
)

// MSBT is a parsed or programmatically built MSBT file (spec.md §3).
type MSBT = msbt.MSBT

// Entry is one label's message, attribute, and style-index triple.
type Entry = msbt.Entry

// ReadOptions configures ReadMSBT's decoding behavior: the schema to
// decode attributes and tags against, and whether a tag decode failure
// against a matched definition falls back to an encoded tag instead of
// failing the whole read.
type ReadOptions = msbt.ReadOptions

// MSBP is a parsed or programmatically built MSBP project file (spec.md
// §3, §4.4).
type MSBP = msbp.Project

// Error is the single typed error every codec operation in this module
// returns; ErrorKind identifies its category (spec.md §7).
type (
	Error     = lmserrors.Error
	ErrorKind = lmserrors.Kind
)

// Error kinds, per spec.md §7.
const (
	ErrUnexpectedMagic         = lmserrors.UnexpectedMagic
	ErrMisalignedSize          = lmserrors.MisalignedSize
	ErrTruncatedStream         = lmserrors.TruncatedStream
	ErrDecodeError             = lmserrors.DecodeError
	ErrUnknownDataType         = lmserrors.UnknownDataType
	ErrValueOutOfRange         = lmserrors.ValueOutOfRange
	ErrValueNotInList          = lmserrors.ValueNotInList
	ErrInvalidByteLength       = lmserrors.InvalidByteLength
	ErrWrongValueType          = lmserrors.WrongValueType
	ErrUnknownTag              = lmserrors.UnknownTag
	ErrInvalidTagFormat        = lmserrors.InvalidTagFormat
	ErrTagReadingError         = lmserrors.TagReadingError
	ErrTagWritingError         = lmserrors.TagWritingError
	ErrAttributeLayoutMismatch = lmserrors.AttributeLayoutMismatch
	ErrMissingConfig           = lmserrors.MissingConfig
	ErrDuplicateLabel          = lmserrors.DuplicateLabel
	ErrUnknownLabel            = lmserrors.UnknownLabel
	ErrSectionConsistency      = lmserrors.SectionConsistency
	ErrFieldNotFound           = lmserrors.FieldNotFound
)

// ReadMSBT parses a complete MSBT byte stream, zipping its label, attribute,
// text, and style-index sections into one Entry per label and preserving
// any unrecognized section verbatim. opts.AttributeConfig/TagConfig may be
// nil, in which case attributes and tags are kept in their encoded form.
func ReadMSBT(data []byte, opts ReadOptions) (*MSBT, error) {
	return msbt.ReadMSBT(data, opts)
}

// WriteMSBT re-emits m as a complete MSBT byte stream, preserving section
// order and back-patching the file_size header field.
func WriteMSBT(m *MSBT) ([]byte, error) {
	return msbt.WriteMSBT(m)
}

// NewMSBT builds an empty MSBT ready for entries to be added via AddEntry.
func NewMSBT(h Header, attributeConfig *AttributeConfig, tagConfig *TagConfig) *MSBT {
	return msbt.New(h, attributeConfig, tagConfig)
}

// ReadMSBP parses a complete MSBP byte stream into a Project: its colors,
// styles, source files, attribute layout, and tag group/definition/
// parameter hierarchy.
func ReadMSBP(data []byte) (*MSBP, error) {
	return msbp.ReadProject(data)
}

// WriteMSBP re-emits p as a complete MSBP byte stream, preserving section
// order and back-patching the file_size header field.
func WriteMSBP(p *MSBP) ([]byte, error) {
	return msbp.WriteProject(p)
}

// NewTitleConfigFromProject derives a TitleConfig directly from a parsed
// MSBP Project (spec.md §9, "TitleConfig generation from an MSBP").
func NewTitleConfigFromProject(p *MSBP) *TitleConfig {
	return titleconfig.FromProject(p)
}

// NewTitleConfigFromData builds a TitleConfig from already-parsed config
// data, the shape an external YAML/JSON loader produces (spec.md §6.3).
func NewTitleConfigFromData(data map[string]any) (*TitleConfig, error) {
	return titleconfig.FromData(data)
}

// GenerateTitleConfigData renders a Project's schema into the generic map
// shape NewTitleConfigFromData consumes, so a caller can generate a
// skeleton TitleConfig document from an MSBP file and hand-edit it.
func GenerateTitleConfigData(p *MSBP) map[string]any {
	return titleconfig.GenerateFromProject(p)
}

// ParseMessageText splits a rendered message string into text runs and
// control tags (spec.md §4.11). config may be nil, in which case every
// bracketed span must parse as a numeric encoded tag.
func ParseMessageText(text string, config *TagConfig) (*MessageText, error) {
	return txt2.ParseMessageText(text, config)
}

// NewMessageText builds a MessageText from a single unparsed text run,
// with no tags.
func NewMessageText(text string) *MessageText {
	return txt2.NewMessageText(text)
}
