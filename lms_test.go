package lms_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/scigolib/lms"
)

func plainHeader() lms.Header {
	return lms.Header{BigEndian: false, Encoding: lms.UTF16, Version: 3}
}

// TestEndToEnd_SingleMessageNoAttributes covers spec.md §8 scenario 2: one
// labeled message, no attributes, no styles, round-tripping through the
// public facade only.
func TestEndToEnd_SingleMessageNoAttributes(t *testing.T) {
	m := lms.NewMSBT(plainHeader(), nil, nil)
	require.NoError(t, m.AddEntry("Hello_00", lms.NewMessageText("Hi\n"), nil, nil))

	data, err := lms.WriteMSBT(m)
	require.NoError(t, err)

	got, err := lms.ReadMSBT(data, lms.ReadOptions{})
	require.NoError(t, err)

	e, err := got.GetEntryByName("Hello_00")
	require.NoError(t, err)
	require.Equal(t, "Hi\n", e.Text())

	// Round-trip is byte-exact.
	again, err := lms.WriteMSBT(got)
	require.NoError(t, err)
	require.Equal(t, data, again)
}

func colorTitleConfig() *lms.TagConfig {
	return &lms.TagConfig{
		GroupMap: map[int]string{0: "System"},
		Definitions: []lms.TagDefinition{
			{
				GroupName: "System",
				GroupID:   0,
				TagName:   "Color",
				TagIndex:  0,
				Parameters: []lms.ValueDefinition{
					{Name: "r", Datatype: lms.Uint8},
					{Name: "g", Datatype: lms.Uint8},
					{Name: "b", Datatype: lms.Uint8},
					{Name: "a", Datatype: lms.Uint8},
				},
			},
		},
	}
}

// TestEndToEnd_ColorTagRoundTrip covers spec.md §8 scenario 3: a decoded
// tag with a TitleConfig-resolved parameter schema round-trips through
// text parsing, binary encode, binary decode, and back to text.
func TestEndToEnd_ColorTagRoundTrip(t *testing.T) {
	config := colorTitleConfig()

	msg, err := lms.ParseMessageText(`[System:Color r="255" g="0" b="0" a="255"]Red[/System:Color]`, config)
	require.NoError(t, err)

	m := lms.NewMSBT(plainHeader(), nil, config)
	require.NoError(t, m.AddEntry("Red_00", msg, nil, nil))

	data, err := lms.WriteMSBT(m)
	require.NoError(t, err)

	got, err := lms.ReadMSBT(data, lms.ReadOptions{TagConfig: config})
	require.NoError(t, err)

	e, err := got.GetEntryByName("Red_00")
	require.NoError(t, err)
	require.Equal(t, `[System:Color r="255" g="0" b="0" a="255"]Red[/System:Color]`, e.Text())
}

// TestEndToEnd_UnknownSectionPreserved covers spec.md §8 scenario 6: an
// unrecognized section survives a read/write cycle byte-for-byte, in the
// same position relative to the sections this module understands.
func TestEndToEnd_UnknownSectionPreserved(t *testing.T) {
	m := lms.NewMSBT(plainHeader(), nil, nil)
	require.NoError(t, m.AddEntry("First", lms.NewMessageText("a"), []byte{1, 2, 3, 4}, nil))
	m.SizePerAttribute = 4

	payload := make([]byte, 32)
	for i := range payload {
		payload[i] = byte(i)
	}
	m.Unsupported["ATO1"] = payload
	m.SectionOrder = append(m.SectionOrder, "ATO1")

	data, err := lms.WriteMSBT(m)
	require.NoError(t, err)

	got, err := lms.ReadMSBT(data, lms.ReadOptions{})
	require.NoError(t, err)
	require.Equal(t, payload, got.Unsupported["ATO1"])
	require.Equal(t, []string{"LBL1", "ATR1", "TXT2", "ATO1"}, got.SectionOrder)
}

// TestEndToEnd_MSBPTitleConfigGeneration covers the TitleConfig-generation
// supplement (SPEC_FULL.md item 3): an MSBP project round-trips through the
// binary codec and its schema can be rendered to a generic config map and
// rebuilt from it.
func TestEndToEnd_MSBPTitleConfigGeneration(t *testing.T) {
	data, err := lms.WriteMSBP(&lms.MSBP{Header: lms.Header{BigEndian: false, Encoding: lms.UTF16, Version: 3}})
	require.NoError(t, err)

	got, err := lms.ReadMSBP(data)
	require.NoError(t, err)
	require.NotNil(t, got)

	config := lms.GenerateTitleConfigData(got)
	require.NotNil(t, config)

	tc, err := lms.NewTitleConfigFromData(config)
	require.NoError(t, err)
	require.NotNil(t, tc)
}
