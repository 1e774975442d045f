// Package tagcodec implements MSBT in-message control tags: the
// opening/closing 0x0E/0x0F indicators, the encoded (raw hex parameter)
// and decoded (schema-bound, named parameter) tag forms, their binary
// codec, and their bracketed textual notation.
package tagcodec

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/scigolib/lms/internal/field"
	"github.com/scigolib/lms/internal/lmserrors"
	"github.com/scigolib/lms/internal/titleconfig"
)

// paddingByte is the single byte inserted to make a decoded tag's parameter
// block an even number of bytes long.
const paddingByte = 0xCD

// ControlTag is the sum type every in-message tag decodes to.
type ControlTag interface {
	GroupID() int
	TagIndex() int
	IsClosing() bool
	ToText() string
}

// EncodedTag is a tag with no matching schema definition: its parameters
// are kept as raw uppercase hex byte pairs.
type EncodedTag struct {
	groupIDv, tagIndexv int
	parameters          []string
	isFallback          bool
	isClosingv          bool
}

// NewEncodedTag builds an EncodedTag. parameters is nil for a tag with no
// parameter block at all (as opposed to an explicit empty one).
func NewEncodedTag(groupID, tagIndex int, parameters []string, isFallback, isClosing bool) *EncodedTag {
	return &EncodedTag{groupIDv: groupID, tagIndexv: tagIndex, parameters: parameters, isFallback: isFallback, isClosingv: isClosing}
}

func (t *EncodedTag) GroupID() int         { return t.groupIDv }
func (t *EncodedTag) TagIndex() int        { return t.tagIndexv }
func (t *EncodedTag) IsClosing() bool      { return t.isClosingv }
func (t *EncodedTag) IsFallback() bool     { return t.isFallback }
func (t *EncodedTag) Parameters() []string { return t.parameters }

// ToText renders the tag's bracketed numeric notation, e.g. "[0:3 00-00-FF]".
func (t *EncodedTag) ToText() string {
	if t.isClosingv {
		return fmt.Sprintf("[/%d:%d]", t.groupIDv, t.tagIndexv)
	}
	if t.parameters == nil {
		return fmt.Sprintf("[%d:%d]", t.groupIDv, t.tagIndexv)
	}
	prefix := ""
	if t.isFallback {
		prefix = "!"
	}
	return fmt.Sprintf("[%s%d:%d %s]", prefix, t.groupIDv, t.tagIndexv, strings.Join(t.parameters, "-"))
}

var (
	encodedTagFormat   = regexp.MustCompile(`^\[\s*(/)?\s*(\d+)\s*:\s*(\d+)[^\]]*]`)
	encodedParamFormat = regexp.MustCompile(`^\s*[0-9A-Fa-f]{2}(\s*-\s*[0-9A-Fa-f]{2})*\s*$`)
)

// ParseEncodedTag parses a tag's numeric bracketed form, e.g. "[0:3 00-FF]"
// or the closing form "[/0:3]".
func ParseEncodedTag(tag string) (*EncodedTag, error) {
	m := encodedTagFormat.FindStringSubmatch(tag)
	if m == nil {
		return nil, lmserrors.New(lmserrors.InvalidTagFormat, "invalid encoded tag format detected for tag: '"+tag+"'")
	}

	isClosing := m[1] != ""
	groupID, err := strconv.Atoi(m[2])
	if err != nil {
		return nil, lmserrors.New(lmserrors.InvalidTagFormat, "the group id and or tag index must be digits in tag: '"+tag+"'")
	}
	tagIndex, err := strconv.Atoi(m[3])
	if err != nil {
		return nil, lmserrors.New(lmserrors.InvalidTagFormat, "the group id and or tag index must be digits in tag: '"+tag+"'")
	}

	if isClosing {
		return NewEncodedTag(groupID, tagIndex, nil, false, true), nil
	}

	loc := encodedTagFormat.FindStringSubmatchIndex(tag)
	paramStr := strings.TrimSuffix(strings.TrimSpace(tag[loc[7]:]), "]")
	paramStr = strings.TrimSpace(paramStr)
	if paramStr == "" {
		return NewEncodedTag(groupID, tagIndex, nil, false, false), nil
	}
	if !encodedParamFormat.MatchString(paramStr) {
		return nil, lmserrors.New(lmserrors.InvalidTagFormat, "malformed parameters located in tag: '"+tag+"'")
	}

	parts := strings.Split(paramStr, "-")
	parameters := make([]string, 0, len(parts)+1)
	for _, p := range parts {
		parameters = append(parameters, strings.ToUpper(strings.TrimSpace(p)))
	}
	if len(parameters)%2 == 1 {
		parameters = append(parameters, "CD")
	}
	return NewEncodedTag(groupID, tagIndex, parameters, false, false), nil
}

// DecodedTag is a tag bound to a titleconfig.TagDefinition: its parameters
// are a named, typed FieldMap instead of raw bytes.
type DecodedTag struct {
	definition *titleconfig.TagDefinition
	parameters *field.FieldMap
	isClosingv bool
}

// NewDecodedTag builds a DecodedTag.
func NewDecodedTag(definition *titleconfig.TagDefinition, parameters *field.FieldMap, isClosing bool) *DecodedTag {
	return &DecodedTag{definition: definition, parameters: parameters, isClosingv: isClosing}
}

func (t *DecodedTag) GroupID() int    { return t.definition.GroupID }
func (t *DecodedTag) TagIndex() int   { return t.definition.TagIndex }
func (t *DecodedTag) IsClosing() bool { return t.isClosingv }
func (t *DecodedTag) GroupName() string { return t.definition.GroupName }
func (t *DecodedTag) TagName() string   { return t.definition.TagName }
func (t *DecodedTag) Definition() *titleconfig.TagDefinition { return t.definition }
func (t *DecodedTag) Parameters() *field.FieldMap            { return t.parameters }

// ToText renders the tag's named bracketed notation, e.g.
// `[System:Color r="0" g="255" b="255" a="255"]`.
func (t *DecodedTag) ToText() string {
	if t.isClosingv {
		return fmt.Sprintf("[/%s:%s]", t.definition.GroupName, t.definition.TagName)
	}
	if t.parameters == nil || t.parameters.Len() == 0 {
		return fmt.Sprintf("[%s:%s]", t.definition.GroupName, t.definition.TagName)
	}
	parts := make([]string, 0, t.parameters.Len())
	for _, f := range t.parameters.Fields() {
		parts = append(parts, fmt.Sprintf("%s=%q", f.Name(), formatFieldValue(f)))
	}
	return fmt.Sprintf("[%s:%s %s]", t.definition.GroupName, t.definition.TagName, strings.Join(parts, " "))
}

func formatFieldValue(f *field.Field) string {
	if b, ok := f.Value().([]byte); ok {
		return fmt.Sprintf("%X", b)
	}
	return fmt.Sprintf("%v", f.Value())
}

var (
	decodedTagFormat   = regexp.MustCompile(`^\[\s*(/)?\s*([A-Za-z]\w*)\s*:\s*([A-Za-z]+)(?:\s+[^\]]*)?\s*]`)
	decodedParamFormat = regexp.MustCompile(`(\w+)="([^"]*)"`)
)

// ParseDecodedTag parses a tag's named bracketed form against config,
// e.g. `[System:Color r="0" g="255" b="255" a="255"]`.
func ParseDecodedTag(tag string, config *titleconfig.TagConfig) (*DecodedTag, error) {
	m := decodedTagFormat.FindStringSubmatch(tag)
	if m == nil {
		return nil, lmserrors.New(lmserrors.InvalidTagFormat, "invalid decoded tag format detected for tag '"+tag+"'")
	}

	isClosing := m[1] != ""
	groupName, tagName := m[2], m[3]
	definition, err := config.ByNames(groupName, tagName)
	if err != nil {
		return nil, err
	}

	if isClosing {
		return NewDecodedTag(definition, nil, true), nil
	}

	data := map[string]string{}
	for _, pair := range decodedParamFormat.FindAllStringSubmatch(tag, -1) {
		data[pair[1]] = pair[2]
	}
	fm, err := field.FromStringDict(data, definition.Parameters)
	if err != nil {
		return nil, err
	}
	return NewDecodedTag(definition, fm, false), nil
}

// numericTagHead recognizes the encoded form's "digit:digit" head so
// ParseTagString can dispatch to the right parser without trying both and
// discarding one error arbitrarily.
var numericTagHead = regexp.MustCompile(`^\[\s*/?\s*\d+\s*:\s*\d+`)

// ParseTagString parses a single bracketed tag in either its encoded
// ("[0:3 00-FF]") or decoded ("[System:Color r=\"0\"]") textual form,
// matching it against config when the form is named. config may be nil,
// in which case only the encoded form parses.
func ParseTagString(tag string, config *titleconfig.TagConfig) (ControlTag, error) {
	if numericTagHead.MatchString(tag) {
		return ParseEncodedTag(tag)
	}
	if config == nil {
		return nil, lmserrors.New(lmserrors.MissingConfig, "decoded tag '"+tag+"' requires a TagConfig")
	}
	return ParseDecodedTag(tag, config)
}
