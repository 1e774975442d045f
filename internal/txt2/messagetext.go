package txt2

import (
	"regexp"

	"github.com/scigolib/lms/internal/field"
	"github.com/scigolib/lms/internal/tagcodec"
	"github.com/scigolib/lms/internal/titleconfig"
)

// bracketedTag matches one bracketed tag span, encoded or decoded, so a
// rendered message can be split back into text runs and tags.
var bracketedTag = regexp.MustCompile(`\[[^\[\]]*]`)

// ParseMessageText splits a rendered message string into text runs and
// control tags, the construction path spec.md's Message Text Model offers
// as an alternative to building a MessageText part-by-part. config may be
// nil, in which case every bracketed span must parse as an encoded tag.
func ParseMessageText(text string, config *titleconfig.TagConfig) (*MessageText, error) {
	m := &MessageText{}
	matches := bracketedTag.FindAllStringIndex(text, -1)
	cursor := 0
	for _, span := range matches {
		if span[0] > cursor {
			m.AppendText(text[cursor:span[0]])
		}
		tag, err := tagcodec.ParseTagString(text[span[0]:span[1]], config)
		if err != nil {
			return nil, err
		}
		m.Parts = append(m.Parts, tag)
		cursor = span[1]
	}
	if cursor < len(text) {
		m.AppendText(text[cursor:])
	}
	return m, nil
}

// AppendText appends a plain text run, merging into the previous run if it
// was also plain text.
func (m *MessageText) AppendText(text string) {
	if text == "" {
		return
	}
	if n := len(m.Parts); n > 0 {
		if prev, ok := m.Parts[n-1].(string); ok {
			m.Parts[n-1] = prev + text
			return
		}
	}
	m.Parts = append(m.Parts, text)
}

// AppendEncodedTag appends a tag addressed by raw numeric group/tag
// indexes, with hex-byte-pair parameters (nil for no parameter block).
func (m *MessageText) AppendEncodedTag(groupID, tagIndex int, parameters []string, isClosing bool) {
	m.Parts = append(m.Parts, tagcodec.NewEncodedTag(groupID, tagIndex, parameters, false, isClosing))
}

// AppendDecodedTag appends a tag looked up by group/tag name against
// config, with parameter values supplied as their string form and
// converted/validated via the tag's ValueDefinitions. params is ignored
// for a closing tag.
func (m *MessageText) AppendDecodedTag(config *titleconfig.TagConfig, groupName, tagName string, params map[string]string, isClosing bool) error {
	def, err := config.ByNames(groupName, tagName)
	if err != nil {
		return err
	}
	if isClosing {
		m.Parts = append(m.Parts, tagcodec.NewDecodedTag(def, nil, true))
		return nil
	}
	var fm *field.FieldMap
	if len(def.Parameters) > 0 {
		fm, err = field.FromStringDict(params, def.Parameters)
		if err != nil {
			return err
		}
	}
	m.Parts = append(m.Parts, tagcodec.NewDecodedTag(def, fm, false))
	return nil
}

// AppendTagString appends one bracketed tag parsed from its textual form,
// encoded or decoded, the same notation ParseMessageText splits on.
func (m *MessageText) AppendTagString(s string, config *titleconfig.TagConfig) error {
	tag, err := tagcodec.ParseTagString(s, config)
	if err != nil {
		return err
	}
	m.Parts = append(m.Parts, tag)
	return nil
}
