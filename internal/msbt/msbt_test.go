package msbt_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/scigolib/lms/internal/datatype"
	"github.com/scigolib/lms/internal/field"
	"github.com/scigolib/lms/internal/lmserrors"
	"github.com/scigolib/lms/internal/msbt"
	"github.com/scigolib/lms/internal/section"
	"github.com/scigolib/lms/internal/stream"
	"github.com/scigolib/lms/internal/titleconfig"
	"github.com/scigolib/lms/internal/txt2"
)

func plainHeader() section.Header {
	return section.Header{BigEndian: false, Encoding: stream.UTF16, Version: 3}
}

func newEmpty() *msbt.MSBT {
	return msbt.New(plainHeader(), nil, nil)
}

func TestAddEntry_PlainTextRoundTrip(t *testing.T) {
	m := newEmpty()
	require.NoError(t, m.AddEntry("Greeting", txt2.NewMessageText("Hello"), nil, nil))
	require.NoError(t, m.AddEntry("Farewell", txt2.NewMessageText("Bye"), nil, nil))

	data, err := msbt.WriteMSBT(m)
	require.NoError(t, err)

	got, err := msbt.ReadMSBT(data, msbt.ReadOptions{})
	require.NoError(t, err)
	require.Len(t, got.Entries, 2)

	e0, err := got.GetEntryByName("Greeting")
	require.NoError(t, err)
	require.Equal(t, "Hello", e0.Text())

	e1, err := got.GetEntryByIndex(1)
	require.NoError(t, err)
	require.Equal(t, "Bye", e1.Text())
}

func TestReadMSBT_EmptyFile(t *testing.T) {
	m := newEmpty()
	data, err := msbt.WriteMSBT(m)
	require.NoError(t, err)

	got, err := msbt.ReadMSBT(data, msbt.ReadOptions{})
	require.NoError(t, err)
	require.Empty(t, got.Entries)
}

func TestAddEntry_SecondEntryMissingAttributeRejected(t *testing.T) {
	m := newEmpty()
	require.NoError(t, m.AddEntry("First", txt2.NewMessageText("a"), []byte{1, 2, 3, 4}, nil))

	err := m.AddEntry("Second", txt2.NewMessageText("b"), nil, nil)
	require.Error(t, err)
	var lerr *lmserrors.Error
	require.ErrorAs(t, err, &lerr)
	require.Equal(t, lmserrors.SectionConsistency, lerr.Kind)
}

func TestAddEntry_FirstEntryImplicitlyCreatesAttributeSection(t *testing.T) {
	m := newEmpty()
	require.False(t, m.HasAttributes())
	require.NoError(t, m.AddEntry("First", txt2.NewMessageText("a"), []byte{1, 2, 3, 4}, nil))
	require.True(t, m.HasAttributes())
}

func TestAddEntry_LaterEntryCannotIntroduceAttributeSection(t *testing.T) {
	m := newEmpty()
	require.NoError(t, m.AddEntry("First", txt2.NewMessageText("a"), nil, nil))

	err := m.AddEntry("Second", txt2.NewMessageText("b"), []byte{1, 2, 3, 4}, nil)
	require.Error(t, err)
	var lerr *lmserrors.Error
	require.ErrorAs(t, err, &lerr)
	require.Equal(t, lmserrors.SectionConsistency, lerr.Kind)
}

func TestAddEntry_DuplicateNameRejected(t *testing.T) {
	m := newEmpty()
	require.NoError(t, m.AddEntry("First", txt2.NewMessageText("a"), nil, nil))

	err := m.AddEntry("First", txt2.NewMessageText("b"), nil, nil)
	require.Error(t, err)
	var lerr *lmserrors.Error
	require.ErrorAs(t, err, &lerr)
	require.Equal(t, lmserrors.DuplicateLabel, lerr.Kind)
}

func TestDeleteEntry_RemovesAndRejectsUnknown(t *testing.T) {
	m := newEmpty()
	require.NoError(t, m.AddEntry("First", txt2.NewMessageText("a"), nil, nil))
	require.NoError(t, m.DeleteEntry("First"))
	require.Empty(t, m.Entries)

	err := m.DeleteEntry("First")
	require.Error(t, err)
	var lerr *lmserrors.Error
	require.ErrorAs(t, err, &lerr)
	require.Equal(t, lmserrors.UnknownLabel, lerr.Kind)
}

func TestEncodedAttributeRoundTrip(t *testing.T) {
	m := newEmpty()
	require.NoError(t, m.AddEntry("First", txt2.NewMessageText("a"), []byte{9, 9, 9, 9}, nil))
	m.SizePerAttribute = 4

	data, err := msbt.WriteMSBT(m)
	require.NoError(t, err)

	got, err := msbt.ReadMSBT(data, msbt.ReadOptions{})
	require.NoError(t, err)

	e, err := got.GetEntryByName("First")
	require.NoError(t, err)
	require.Equal(t, []byte{9, 9, 9, 9}, e.EncodedAttribute)
}

func volumeAttributeConfig() *titleconfig.AttributeConfig {
	return &titleconfig.AttributeConfig{
		Name: "Main",
		Definitions: []field.ValueDefinition{
			{Name: "volume", Datatype: datatype.Uint8},
		},
	}
}

func TestDecodedAttributeRoundTrip(t *testing.T) {
	config := volumeAttributeConfig()
	m := msbt.New(plainHeader(), config, nil)

	vf, err := field.NewField(int64(42), config.Definitions[0])
	require.NoError(t, err)
	fm := field.NewFieldMap(vf)

	require.NoError(t, m.AddEntry("First", txt2.NewMessageText("a"), fm, nil))
	m.SizePerAttribute = 1

	data, err := msbt.WriteMSBT(m)
	require.NoError(t, err)

	got, err := msbt.ReadMSBT(data, msbt.ReadOptions{AttributeConfig: config})
	require.NoError(t, err)

	e, err := got.GetEntryByName("First")
	require.NoError(t, err)
	require.NotNil(t, e.DecodedAttribute)
	v, err := e.DecodedAttribute.Get("volume")
	require.NoError(t, err)
	require.Equal(t, int64(42), v.Value())
}

func TestStyleIndexRoundTrip(t *testing.T) {
	m := newEmpty()
	idx := uint32(3)
	require.NoError(t, m.AddEntry("First", txt2.NewMessageText("a"), nil, &idx))
	require.True(t, m.HasStyleIndexes())

	data, err := msbt.WriteMSBT(m)
	require.NoError(t, err)

	got, err := msbt.ReadMSBT(data, msbt.ReadOptions{})
	require.NoError(t, err)

	e, err := got.GetEntryByName("First")
	require.NoError(t, err)
	require.NotNil(t, e.StyleIndex)
	require.Equal(t, uint32(3), *e.StyleIndex)
}

func TestUnsupportedSection_PreservedVerbatimWithOrder(t *testing.T) {
	m := newEmpty()
	require.NoError(t, m.AddEntry("First", txt2.NewMessageText("a"), []byte{1, 2, 3, 4}, nil))
	m.SizePerAttribute = 4

	extra := make([]byte, 32)
	for i := range extra {
		extra[i] = byte(i)
	}
	m.Unsupported["ATO1"] = extra
	m.SectionOrder = append(m.SectionOrder, "ATO1")

	data, err := msbt.WriteMSBT(m)
	require.NoError(t, err)

	got, err := msbt.ReadMSBT(data, msbt.ReadOptions{})
	require.NoError(t, err)
	require.Contains(t, got.UnsupportedSections(), "ATO1")
	require.Equal(t, extra, got.Unsupported["ATO1"])
	require.Equal(t, []string{"LBL1", "ATR1", "TXT2", "ATO1"}, got.SectionOrder)
}
