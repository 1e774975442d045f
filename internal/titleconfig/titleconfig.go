// Package titleconfig implements the per-game schema (TitleConfig) that
// binds attribute and tag names to their ValueDefinitions, either loaded
// from already-parsed config data or derived straight from an MSBP Project.
package titleconfig

import (
	"strconv"

	"github.com/scigolib/lms/internal/datatype"
	"github.com/scigolib/lms/internal/field"
	"github.com/scigolib/lms/internal/lmserrors"
	"github.com/scigolib/lms/internal/msbp"
)

// Keys used by the generic config map FromData/GenerateFromProject exchange.
const (
	TagKey  = "tag_definitions"
	AttrKey = "attribute_definitions"
)

// AttributeConfig is one named attribute schema: the ordered list of
// ValueDefinitions an attribute's FieldMap is built from.
type AttributeConfig struct {
	Name        string
	Description string
	Definitions []field.ValueDefinition
}

// TagDefinition is one tag's parameter schema, addressed by group/tag name
// or by the numeric group/tag indexes a decoded ControlTag carries.
type TagDefinition struct {
	GroupName   string
	GroupID     int
	TagName     string
	TagIndex    int
	Description string
	Parameters  []field.ValueDefinition
}

// TagConfig is the full tag schema for a title: the group-id→name map plus
// every tag definition in it.
type TagConfig struct {
	GroupMap    map[int]string
	Definitions []TagDefinition
}

// ByNames looks up a tag definition by its group and tag name.
func (c *TagConfig) ByNames(group, tag string) (*TagDefinition, error) {
	groupID := -1
	for id, name := range c.GroupMap {
		if name == group {
			groupID = id
			break
		}
	}
	if groupID == -1 {
		return nil, lmserrors.New(lmserrors.MissingConfig, "tag group '"+group+"' is not defined")
	}
	for i := range c.Definitions {
		d := &c.Definitions[i]
		if d.GroupID == groupID && d.TagName == tag {
			return d, nil
		}
	}
	return nil, lmserrors.New(lmserrors.MissingConfig, "tag '"+tag+"' is not defined in group '"+group+"'")
}

// ByIndexes looks up a tag definition by the numeric group/tag indexes a
// decoded ControlTag carries. It returns nil when the group is unknown or
// has no tag at that index, matching a decoder's expectation to fall back
// to an encoded tag rather than fail outright.
func (c *TagConfig) ByIndexes(groupID, tagIndex int) *TagDefinition {
	if _, ok := c.GroupMap[groupID]; !ok {
		return nil
	}
	for i := range c.Definitions {
		d := &c.Definitions[i]
		if d.GroupID == groupID && d.TagIndex == tagIndex {
			return d
		}
	}
	return nil
}

// TitleConfig is the complete schema for one game/title: its attribute
// configs by name, and its tag config.
type TitleConfig struct {
	AttributeConfigs map[string]AttributeConfig
	TagConfig        *TagConfig
}

// FromData builds a TitleConfig from already-parsed config data (the result
// of decoding a YAML/JSON document elsewhere): a map keyed by TagKey/AttrKey
// in the same shape load_config expects.
func FromData(data map[string]any) (*TitleConfig, error) {
	tc := &TitleConfig{AttributeConfigs: map[string]AttributeConfig{}}

	if raw, ok := data[AttrKey]; ok {
		entries, err := asSlice(raw)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			m, err := asMap(entry)
			if err != nil {
				return nil, err
			}
			name, _ := m["name"].(string)
			desc, _ := m["description"].(string)
			defEntries, err := asSlice(m["definitions"])
			if err != nil {
				return nil, err
			}
			defs := make([]field.ValueDefinition, 0, len(defEntries))
			for _, de := range defEntries {
				vd, err := valueDefinitionFromMap(de)
				if err != nil {
					return nil, err
				}
				defs = append(defs, vd)
			}
			tc.AttributeConfigs[name] = AttributeConfig{Name: name, Description: desc, Definitions: defs}
		}
	}

	if raw, ok := data[TagKey]; ok {
		m, err := asMap(raw)
		if err != nil {
			return nil, err
		}
		groupMap, err := groupMapFromAny(m["groups"])
		if err != nil {
			return nil, err
		}
		tagEntries, err := asSlice(m["tags"])
		if err != nil {
			return nil, err
		}
		defs := make([]TagDefinition, 0, len(tagEntries))
		for _, te := range tagEntries {
			td, err := tagDefinitionFromMap(te, groupMap)
			if err != nil {
				return nil, err
			}
			defs = append(defs, td)
		}
		tc.TagConfig = &TagConfig{GroupMap: groupMap, Definitions: defs}
	}

	return tc, nil
}

func valueDefinitionFromMap(raw any) (field.ValueDefinition, error) {
	m, err := asMap(raw)
	if err != nil {
		return field.ValueDefinition{}, err
	}
	name, _ := m["name"].(string)
	desc, _ := m["description"].(string)
	dtName, _ := m["datatype"].(string)
	dt, err := datatype.ParseDataType(dtName)
	if err != nil {
		return field.ValueDefinition{}, err
	}
	var listItems []string
	if raw, ok := m["list_items"]; ok {
		items, err := asSlice(raw)
		if err != nil {
			return field.ValueDefinition{}, err
		}
		for _, it := range items {
			s, _ := it.(string)
			listItems = append(listItems, s)
		}
	}
	return field.ValueDefinition{Name: name, Description: desc, Datatype: dt, ListItems: listItems}, nil
}

func tagDefinitionFromMap(raw any, groupMap map[int]string) (TagDefinition, error) {
	m, err := asMap(raw)
	if err != nil {
		return TagDefinition{}, err
	}
	name, _ := m["name"].(string)
	desc, _ := m["description"].(string)
	groupID, err := asInt(m["group_id"])
	if err != nil {
		return TagDefinition{}, err
	}
	tagIndex, err := asInt(m["tag_index"])
	if err != nil {
		return TagDefinition{}, err
	}
	groupName, ok := groupMap[groupID]
	if !ok {
		return TagDefinition{}, lmserrors.New(lmserrors.MissingConfig, "tag references undefined group id")
	}

	var params []field.ValueDefinition
	if raw, ok := m["parameters"]; ok {
		entries, err := asSlice(raw)
		if err != nil {
			return TagDefinition{}, err
		}
		for _, pe := range entries {
			vd, err := valueDefinitionFromMap(pe)
			if err != nil {
				return TagDefinition{}, err
			}
			params = append(params, vd)
		}
	}

	return TagDefinition{
		GroupName:   groupName,
		GroupID:     groupID,
		TagName:     name,
		TagIndex:    tagIndex,
		Description: desc,
		Parameters:  params,
	}, nil
}

func groupMapFromAny(raw any) (map[int]string, error) {
	m, err := asMap(raw)
	if err != nil {
		return nil, err
	}
	out := make(map[int]string, len(m))
	for k, v := range m {
		id, err := asInt(k)
		if err != nil {
			return nil, err
		}
		name, _ := v.(string)
		out[id] = name
	}
	return out, nil
}

func asMap(v any) (map[string]any, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, lmserrors.New(lmserrors.WrongValueType, "expected a config map")
	}
	return m, nil
}

func asSlice(v any) ([]any, error) {
	if v == nil {
		return nil, nil
	}
	s, ok := v.([]any)
	if !ok {
		return nil, lmserrors.New(lmserrors.WrongValueType, "expected a config list")
	}
	return s, nil
}

func asInt(v any) (int, error) {
	switch t := v.(type) {
	case int:
		return t, nil
	case int64:
		return int(t), nil
	case float64:
		return int(t), nil
	case string:
		id, err := strconv.Atoi(t)
		if err != nil {
			return 0, lmserrors.New(lmserrors.WrongValueType, "expected an integer key")
		}
		return id, nil
	default:
		return 0, lmserrors.New(lmserrors.WrongValueType, "expected an integer value")
	}
}

// FromProject derives a TitleConfig directly from a parsed MSBP Project,
// equivalent to FromData(GenerateFromProject(project)) but without the
// round trip through the generic map shape.
func FromProject(p *msbp.Project) *TitleConfig {
	tc := &TitleConfig{AttributeConfigs: map[string]AttributeConfig{}}

	if len(p.TagGroups) > 0 {
		groupMap := make(map[int]string, len(p.TagGroups))
		var defs []TagDefinition
		for _, g := range p.TagGroups {
			groupMap[int(g.ID)] = g.Name
			for ti, td := range g.TagDefinitions {
				params := make([]field.ValueDefinition, 0, len(td.Parameters))
				for _, pd := range td.Parameters {
					params = append(params, field.ValueDefinition{
						Name:      pd.Name,
						Datatype:  pd.Datatype,
						ListItems: pd.ListItems,
					})
				}
				defs = append(defs, TagDefinition{
					GroupName:  g.Name,
					GroupID:    int(g.ID),
					TagName:    td.Name,
					TagIndex:   ti,
					Parameters: params,
				})
			}
		}
		tc.TagConfig = &TagConfig{GroupMap: groupMap, Definitions: defs}
	}

	if len(p.AttributeInfo) > 0 {
		defs := make([]field.ValueDefinition, 0, len(p.AttributeInfo))
		for _, a := range p.AttributeInfo {
			defs = append(defs, field.ValueDefinition{
				Name:      a.Name,
				Datatype:  a.Datatype,
				ListItems: a.ListItems,
			})
		}
		tc.AttributeConfigs[p.Name] = AttributeConfig{Name: p.Name, Definitions: defs}
	}

	return tc
}

// GenerateFromProject renders a Project's schema into the same generic map
// shape FromData consumes, so a config can be produced from an MSBP file
// and serialized by whatever document format a caller chooses.
func GenerateFromProject(p *msbp.Project) map[string]any {
	config := map[string]any{}

	if len(p.TagGroups) > 0 {
		groups := map[string]any{}
		var tags []any
		for _, g := range p.TagGroups {
			groups[strconv.Itoa(int(g.ID))] = g.Name
			for ti, td := range g.TagDefinitions {
				var params []any
				for _, pd := range td.Parameters {
					param := map[string]any{
						"name":        pd.Name,
						"description": "",
						"datatype":    pd.Datatype.String(),
					}
					if pd.Datatype == datatype.List {
						items := make([]any, len(pd.ListItems))
						for i, it := range pd.ListItems {
							items[i] = it
						}
						param["list_items"] = items
					}
					params = append(params, param)
				}
				tags = append(tags, map[string]any{
					"name":        td.Name,
					"group_id":    int(g.ID),
					"tag_index":   ti,
					"description": "",
					"parameters":  params,
				})
			}
		}
		config[TagKey] = map[string]any{"groups": groups, "tags": tags}
	}

	var attrDefs []any
	for _, a := range p.AttributeInfo {
		def := map[string]any{
			"name":        a.Name,
			"description": "",
			"datatype":    a.Datatype.String(),
		}
		if a.Datatype == datatype.List {
			items := make([]any, len(a.ListItems))
			for i, it := range a.ListItems {
				items[i] = it
			}
			def["list_items"] = items
		}
		attrDefs = append(attrDefs, def)
	}

	var attrConfigs []any
	if len(p.AttributeInfo) > 0 {
		attrConfigs = append(attrConfigs, map[string]any{
			"name":        p.Name,
			"description": "",
			"definitions": attrDefs,
		})
	}
	config[AttrKey] = attrConfigs

	return config
}
