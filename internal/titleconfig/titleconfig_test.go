package titleconfig_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/scigolib/lms/internal/datatype"
	"github.com/scigolib/lms/internal/msbp"
	"github.com/scigolib/lms/internal/titleconfig"
)

func TestFromData_ParsesAttributesAndTags(t *testing.T) {
	data := map[string]any{
		"attribute_definitions": []any{
			map[string]any{
				"name":        "Main",
				"description": "",
				"definitions": []any{
					map[string]any{"name": "Volume", "description": "", "datatype": "uint8"},
				},
			},
		},
		"tag_definitions": map[string]any{
			"groups": map[string]any{"0": "System"},
			"tags": []any{
				map[string]any{
					"name":        "Ruby",
					"group_id":    0,
					"tag_index":   0,
					"description": "",
					"parameters": []any{
						map[string]any{"name": "Text", "description": "", "datatype": "string"},
					},
				},
			},
		},
	}

	tc, err := titleconfig.FromData(data)
	require.NoError(t, err)

	require.Contains(t, tc.AttributeConfigs, "Main")
	require.Equal(t, "Volume", tc.AttributeConfigs["Main"].Definitions[0].Name)
	require.Equal(t, datatype.Uint8, tc.AttributeConfigs["Main"].Definitions[0].Datatype)

	def, err := tc.TagConfig.ByNames("System", "Ruby")
	require.NoError(t, err)
	require.Equal(t, "Text", def.Parameters[0].Name)

	require.Nil(t, tc.TagConfig.ByIndexes(99, 0))
	byIdx := tc.TagConfig.ByIndexes(0, 0)
	require.NotNil(t, byIdx)
	require.Equal(t, "Ruby", byIdx.TagName)
}

func TestTagConfig_ByNames_UnknownGroup(t *testing.T) {
	tc := &titleconfig.TagConfig{GroupMap: map[int]string{0: "System"}}
	_, err := tc.ByNames("Missing", "Ruby")
	require.Error(t, err)
}

func TestFromProjectAndGenerateFromProject_RoundTrip(t *testing.T) {
	p := &msbp.Project{
		Name: "Main",
		AttributeInfo: []msbp.AttributeDefinition{
			{Name: "Volume", Datatype: datatype.Uint8},
		},
		TagGroups: []msbp.TagGroup{
			{
				Name: "System",
				ID:   0,
				TagDefinitions: []msbp.TagDefinition{
					{Name: "Ruby", Parameters: []msbp.TagParamDefinition{{Name: "Text", Datatype: datatype.String}}},
				},
			},
		},
	}

	direct := titleconfig.FromProject(p)
	require.Contains(t, direct.AttributeConfigs, "Main")

	generated := titleconfig.GenerateFromProject(p)
	viaData, err := titleconfig.FromData(generated)
	require.NoError(t, err)

	require.Equal(t, direct.AttributeConfigs["Main"].Definitions[0].Name,
		viaData.AttributeConfigs["Main"].Definitions[0].Name)

	def, err := viaData.TagConfig.ByNames("System", "Ruby")
	require.NoError(t, err)
	require.Equal(t, "Text", def.Parameters[0].Name)
}
