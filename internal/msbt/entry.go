package msbt

import (
	"github.com/scigolib/lms/internal/field"
	"github.com/scigolib/lms/internal/lmserrors"
	"github.com/scigolib/lms/internal/titleconfig"
	"github.com/scigolib/lms/internal/txt2"
)

// Entry is one label's message, attribute, and style-index triple. Message
// is nil when the file has no TXT2 section; exactly one of EncodedAttribute
// and DecodedAttribute is set when the file has an ATR1 section, and both
// are nil when it doesn't; StyleIndex is nil when the file has no TSY1
// section.
type Entry struct {
	Name             string
	Message          *txt2.MessageText
	EncodedAttribute []byte
	DecodedAttribute *field.FieldMap
	StyleIndex       *uint32
}

// HasAttribute reports whether the entry carries attribute data in either
// form.
func (e *Entry) HasAttribute() bool {
	return e.EncodedAttribute != nil || e.DecodedAttribute != nil
}

// Text returns the entry's flattened message text, or "" if it has none.
func (e *Entry) Text() string {
	if e.Message == nil {
		return ""
	}
	return e.Message.Text()
}

// ToMap flattens an entry into a generic map, independent of any particular
// marshaling library, so a JSON/YAML layer built on this module has a plain
// value to serialize. The message is rendered to its bracketed text form;
// the attribute, whichever form it's carried in, is reduced to a
// name->value map.
func (e *Entry) ToMap() map[string]any {
	out := map[string]any{"name": e.Name}
	if e.Message != nil {
		out["text"] = e.Message.Text()
	}
	if e.DecodedAttribute != nil {
		out["attribute"] = e.DecodedAttribute.ToMap()
	} else if e.EncodedAttribute != nil {
		out["attribute"] = e.EncodedAttribute
	}
	if e.StyleIndex != nil {
		out["style_index"] = *e.StyleIndex
	}
	return out
}

// EntryFromMap builds an Entry from the generic shape ToMap produces: the
// counterpart a caller's JSON/YAML deserializer hands back after loading
// entries from a document. attrConfig and tagConfig may be nil; "attribute"
// must then be a []byte or absent, and "text" must contain no tags the
// caller expects decoded.
func EntryFromMap(data map[string]any, attrConfig *titleconfig.AttributeConfig, tagConfig *titleconfig.TagConfig) (*Entry, error) {
	name, _ := data["name"].(string)
	if name == "" {
		return nil, lmserrors.New(lmserrors.WrongValueType, "entry map is missing a 'name' string")
	}
	e := &Entry{Name: name}

	if text, ok := data["text"].(string); ok {
		msg, err := txt2.ParseMessageText(text, tagConfig)
		if err != nil {
			return nil, err
		}
		e.Message = msg
	}

	switch attr := data["attribute"].(type) {
	case nil:
	case []byte:
		e.EncodedAttribute = attr
	case map[string]field.Value:
		if attrConfig == nil {
			return nil, lmserrors.New(lmserrors.MissingConfig, "entry '"+name+"' has a decoded attribute but no AttributeConfig was supplied")
		}
		fields := make([]*field.Field, 0, len(attrConfig.Definitions))
		for _, def := range attrConfig.Definitions {
			v, ok := attr[def.Name]
			if !ok {
				return nil, lmserrors.New(lmserrors.WrongValueType, "entry '"+name+"' attribute map is missing field '"+def.Name+"'")
			}
			f, err := field.NewField(v, def)
			if err != nil {
				return nil, err
			}
			fields = append(fields, f)
		}
		e.DecodedAttribute = field.NewFieldMap(fields...)
	default:
		return nil, lmserrors.New(lmserrors.WrongValueType, "entry '"+name+"' has an unsupported attribute map shape")
	}

	if idx, ok := data["style_index"].(uint32); ok {
		e.StyleIndex = &idx
	}

	return e, nil
}
