// Package msbp implements the MSBP (Message Studio Binary Project) schema
// codec: colors, styles, source files, attribute layouts, and the tag
// group/definition/parameter hierarchy that drives decoded MSBT tag
// reading and writing.
package msbp

import (
	"github.com/scigolib/lms/internal/datatype"
	"github.com/scigolib/lms/internal/section"
)

// Color is one CLR1 record.
type Color struct {
	R, G, B, A uint32
}

// Style is one SYL3 record.
type Style struct {
	RegionWidth, LineNumber, FontIndex, ColorIndex uint32
}

// AttributeDefinition is one ATI2 record, resolved against ALB1 (Name) and
// ALI2 (ListItems, when Datatype is List).
type AttributeDefinition struct {
	Name      string
	Datatype  datatype.DataType
	ListIndex uint16
	ListItems []string
}

// TagParamDefinition is one TGP2 record, resolved against TGL2.
type TagParamDefinition struct {
	Name        string
	Datatype    datatype.DataType
	ListIndexes []uint16
	ListItems   []string
}

// TagDefinition is one TAG2 record, resolved to its TGP2 parameters.
type TagDefinition struct {
	Name         string
	ParamIndexes []uint16
	Parameters   []TagParamDefinition
}

// TagGroup is one TGG2 record, resolved to its TAG2 definitions.
type TagGroup struct {
	Name           string
	ID             uint16
	TagIndexes     []uint16
	TagDefinitions []TagDefinition
}

// Project is a fully parsed MSBP file: the resolved schema plus the raw
// flat section contents needed to re-emit TGG2/TAG2/TGP2/TGL2/ATI2/ALI2
// byte-for-byte (several tag groups or attributes may share one entry in
// these flat tables, so the original flat layout is kept alongside the
// resolved view).
type Project struct {
	Header Header

	Name string

	Colors         []Color
	ColorLabels    []string
	ColorSlotCount uint32

	AttributeInfo      []AttributeDefinition
	AttributeLabels    []string
	AttributeSlotCount uint32

	TagGroups []TagGroup

	Styles         []Style
	StyleLabels    []string
	StyleSlotCount uint32

	SourceFiles []string

	// SectionOrder records the magics encountered on read, in order, so
	// Write can re-emit the file with identical section ordering.
	SectionOrder []string

	// Flat tables backing the resolved views above, preserved for
	// byte-exact re-encoding.
	rawAttributeListItems [][]string
	rawTagDefinitions     []TagDefinition
	rawTagParams          []TagParamDefinition
	rawTagListItems       []string
}

// Header is the subset of the file header msbp.Project needs; it mirrors
// section.Header but is named locally so callers don't need to import
// internal/section to build a Project by hand.
type Header = section.Header
