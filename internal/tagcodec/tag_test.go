package tagcodec_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/scigolib/lms/internal/datatype"
	"github.com/scigolib/lms/internal/field"
	"github.com/scigolib/lms/internal/tagcodec"
	"github.com/scigolib/lms/internal/titleconfig"
)

func TestParseEncodedTag_WithParameters(t *testing.T) {
	tag, err := tagcodec.ParseEncodedTag("[0:3 00-00-00-FF]")
	require.NoError(t, err)
	require.Equal(t, 0, tag.GroupID())
	require.Equal(t, 3, tag.TagIndex())
	require.Equal(t, []string{"00", "00", "00", "FF"}, tag.Parameters())
	require.Equal(t, "[0:3 00-00-00-FF]", tag.ToText())
}

func TestParseEncodedTag_NoParameters(t *testing.T) {
	tag, err := tagcodec.ParseEncodedTag("[0:4]")
	require.NoError(t, err)
	require.Nil(t, tag.Parameters())
	require.Equal(t, "[0:4]", tag.ToText())
}

func TestParseEncodedTag_Closing(t *testing.T) {
	tag, err := tagcodec.ParseEncodedTag("[/0:3]")
	require.NoError(t, err)
	require.True(t, tag.IsClosing())
	require.Equal(t, "[/0:3]", tag.ToText())
}

func TestParseEncodedTag_OddParameterCountPadded(t *testing.T) {
	tag, err := tagcodec.ParseEncodedTag("[1:0 01]")
	require.NoError(t, err)
	require.Equal(t, []string{"01", "CD"}, tag.Parameters())
}

func TestParseEncodedTag_MalformedParameters(t *testing.T) {
	_, err := tagcodec.ParseEncodedTag("[1:0 zz]")
	require.Error(t, err)
}

func TestParseEncodedTag_InvalidFormat(t *testing.T) {
	_, err := tagcodec.ParseEncodedTag("not a tag")
	require.Error(t, err)
}

func colorTagConfig() *titleconfig.TagConfig {
	return &titleconfig.TagConfig{
		GroupMap: map[int]string{0: "System"},
		Definitions: []titleconfig.TagDefinition{
			{
				GroupName: "System",
				GroupID:   0,
				TagName:   "Color",
				TagIndex:  0,
				Parameters: []field.ValueDefinition{
					{Name: "r", Datatype: datatype.Uint8},
					{Name: "g", Datatype: datatype.Uint8},
					{Name: "b", Datatype: datatype.Uint8},
					{Name: "a", Datatype: datatype.Uint8},
				},
			},
			{
				GroupName: "System",
				GroupID:   0,
				TagName:   "PageBreak",
				TagIndex:  1,
			},
		},
	}
}

func TestParseDecodedTag_WithParameters(t *testing.T) {
	config := colorTagConfig()
	tag, err := tagcodec.ParseDecodedTag(`[System:Color r="0" g="255" b="255" a="255"]`, config)
	require.NoError(t, err)
	require.Equal(t, 0, tag.GroupID())
	require.Equal(t, 0, tag.TagIndex())
	r, err := tag.Parameters().Get("r")
	require.NoError(t, err)
	require.Equal(t, int64(0), r.Value())
	g, err := tag.Parameters().Get("g")
	require.NoError(t, err)
	require.Equal(t, int64(255), g.Value())
}

func TestParseDecodedTag_NoParameters(t *testing.T) {
	config := colorTagConfig()
	tag, err := tagcodec.ParseDecodedTag("[System:PageBreak]", config)
	require.NoError(t, err)
	require.Equal(t, "[System:PageBreak]", tag.ToText())
}

func TestParseDecodedTag_Closing(t *testing.T) {
	config := colorTagConfig()
	tag, err := tagcodec.ParseDecodedTag("[/System:Color]", config)
	require.NoError(t, err)
	require.True(t, tag.IsClosing())
	require.Equal(t, "[/System:Color]", tag.ToText())
}

func TestParseDecodedTag_UnknownGroup(t *testing.T) {
	config := colorTagConfig()
	_, err := tagcodec.ParseDecodedTag(`[Missing:Color r="0"]`, config)
	require.Error(t, err)
}
