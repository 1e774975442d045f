// Package msbt implements the MSBT assembler: it orchestrates LBL1, ATR1,
// TXT2, and TSY1 (plus any unrecognized sections, preserved verbatim)
// behind a single entry-oriented view, and enforces that attribute/style
// data stays fully populated or fully absent across every entry.
package msbt

import (
	"github.com/scigolib/lms/internal/field"
	"github.com/scigolib/lms/internal/lmserrors"
	"github.com/scigolib/lms/internal/section"
	"github.com/scigolib/lms/internal/titleconfig"
	"github.com/scigolib/lms/internal/txt2"
)

// DefaultSlotCount is the LBL1 hash-table slot count almost every title
// uses; a handful override it, which is why it's read dynamically from
// LBL1 rather than assumed.
const DefaultSlotCount uint32 = 101

// MSBT is a parsed or programmatically built MSBT file.
type MSBT struct {
	Header       section.Header
	Entries      []*Entry
	SectionOrder []string
	Unsupported  map[string][]byte

	SlotCount             uint32
	SizePerAttribute      uint32
	AttrStringTable       []byte
	UsesEncodedAttributes bool

	AttributeConfig *titleconfig.AttributeConfig
	TagConfig       *titleconfig.TagConfig
}

// New builds an empty MSBT ready for entries to be added to it.
func New(h section.Header, attributeConfig *titleconfig.AttributeConfig, tagConfig *titleconfig.TagConfig) *MSBT {
	return &MSBT{
		Header:                h,
		Unsupported:           make(map[string][]byte),
		SlotCount:             DefaultSlotCount,
		UsesEncodedAttributes: true,
		AttributeConfig:       attributeConfig,
		TagConfig:             tagConfig,
	}
}

// SectionExists reports whether magic is among the sections this file
// carries (either because it was present on read, or because an entry
// operation has implicitly created it).
func (m *MSBT) SectionExists(magic string) bool {
	for _, s := range m.SectionOrder {
		if s == magic {
			return true
		}
	}
	return false
}

// HasAttributes reports whether the file carries an ATR1 section.
func (m *MSBT) HasAttributes() bool { return m.SectionExists("ATR1") }

// HasStyleIndexes reports whether the file carries a TSY1 section.
func (m *MSBT) HasStyleIndexes() bool { return m.SectionExists("TSY1") }

// UnsupportedSections lists the magics of every section this file doesn't
// natively interpret, preserved as opaque bytes.
func (m *MSBT) UnsupportedSections() []string {
	names := make([]string, 0, len(m.Unsupported))
	for magic := range m.Unsupported {
		names = append(names, magic)
	}
	return names
}

func (m *MSBT) addSection(magic string) {
	if m.SectionExists(magic) {
		return
	}
	m.SectionOrder = append(m.SectionOrder, magic)
}

// AddEntry appends a new entry. attribute is nil, a *field.FieldMap
// (decoded), or a []byte (encoded). Adding an entry whose attribute
// presence disagrees with the file's current ATR1 state is rejected,
// except for the very first attribute/style value supplied, which
// implicitly creates the section — SectionConsistency otherwise. An
// attribute in the other form than the one the file's ATR1 already uses
// is rejected with SectionConsistency too.
func (m *MSBT) AddEntry(name string, message *txt2.MessageText, attribute any, styleIndex *uint32) error {
	if _, err := m.GetEntryByName(name); err == nil {
		return lmserrors.New(lmserrors.DuplicateLabel, "an entry named '"+name+"' already exists")
	}

	entry := &Entry{Name: name, Message: message, StyleIndex: styleIndex}
	usesEncoded := m.UsesEncodedAttributes

	switch a := attribute.(type) {
	case nil:
		if m.HasAttributes() {
			return lmserrors.New(lmserrors.SectionConsistency, "file has ATR1; entry '"+name+"' supplies no attribute")
		}
	case *field.FieldMap:
		if !m.HasAttributes() && len(m.Entries) > 0 {
			return lmserrors.New(lmserrors.SectionConsistency, "entry '"+name+"' would leave earlier entries without an attribute")
		}
		if m.HasAttributes() && m.UsesEncodedAttributes {
			return lmserrors.New(lmserrors.SectionConsistency, "file stores raw attribute bytes; entry '"+name+"' supplies a decoded attribute")
		}
		entry.DecodedAttribute = a
		usesEncoded = false
	case []byte:
		if !m.HasAttributes() && len(m.Entries) > 0 {
			return lmserrors.New(lmserrors.SectionConsistency, "entry '"+name+"' would leave earlier entries without an attribute")
		}
		if m.HasAttributes() && !m.UsesEncodedAttributes {
			return lmserrors.New(lmserrors.SectionConsistency, "file stores decoded attributes; entry '"+name+"' supplies raw bytes")
		}
		entry.EncodedAttribute = a
		usesEncoded = true
	default:
		return lmserrors.New(lmserrors.WrongValueType, "attribute must be nil, a FieldMap, or raw bytes")
	}

	if styleIndex == nil {
		if m.HasStyleIndexes() {
			return lmserrors.New(lmserrors.SectionConsistency, "file has TSY1; entry '"+name+"' supplies no style index")
		}
	} else if !m.HasStyleIndexes() && len(m.Entries) > 0 {
		return lmserrors.New(lmserrors.SectionConsistency, "entry '"+name+"' would leave earlier entries without a style index")
	}

	// All validation passed: mutate section bookkeeping in canonical
	// MSBT section order (LBL1, ATR1, TXT2, TSY1).
	m.addSection("LBL1")
	if attribute != nil {
		m.addSection("ATR1")
		m.UsesEncodedAttributes = usesEncoded
	}
	if message != nil {
		m.addSection("TXT2")
	}
	if styleIndex != nil {
		m.addSection("TSY1")
	}

	m.Entries = append(m.Entries, entry)
	return nil
}

// DeleteEntry removes the entry named name.
func (m *MSBT) DeleteEntry(name string) error {
	for i, e := range m.Entries {
		if e.Name == name {
			m.Entries = append(m.Entries[:i], m.Entries[i+1:]...)
			return nil
		}
	}
	return lmserrors.New(lmserrors.UnknownLabel, "no entry named '"+name+"'")
}

// GetEntryByName retrieves the entry named name.
func (m *MSBT) GetEntryByName(name string) (*Entry, error) {
	for _, e := range m.Entries {
		if e.Name == name {
			return e, nil
		}
	}
	return nil, lmserrors.New(lmserrors.UnknownLabel, "no entry named '"+name+"'")
}

// GetEntryByIndex retrieves the entry at position i in declaration order.
func (m *MSBT) GetEntryByIndex(i int) (*Entry, error) {
	if i < 0 || i >= len(m.Entries) {
		return nil, lmserrors.New(lmserrors.UnknownLabel, "entry index out of range")
	}
	return m.Entries[i], nil
}
