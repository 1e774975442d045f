package atr1_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/scigolib/lms/internal/atr1"
	"github.com/scigolib/lms/internal/datatype"
	"github.com/scigolib/lms/internal/field"
	"github.com/scigolib/lms/internal/stream"
	"github.com/scigolib/lms/internal/titleconfig"
)

func newWriter() *stream.Writer {
	w := stream.NewWriter()
	w.SetBigEndian(false)
	w.SetEncoding(stream.UTF16)
	return w
}

func newReader(data []byte) *stream.Reader {
	r := stream.NewReader(data)
	r.SetBigEndian(false)
	r.SetEncoding(stream.UTF16)
	return r
}

func TestReadWriteEncoded_RoundTrip(t *testing.T) {
	w := newWriter()
	require.NoError(t, atr1.Write(w, &atr1.Section{
		Encoded:          [][]byte{{1, 2, 3, 4}, {5, 6, 7, 8}},
		SizePerAttribute: 4,
		StringTable:      []byte{0xAA, 0xBB},
	}))

	section, err := atr1.Read(newReader(w.Bytes()), nil)
	require.NoError(t, err)
	require.False(t, section.IsDecoded())
	require.Equal(t, [][]byte{{1, 2, 3, 4}, {5, 6, 7, 8}}, section.Encoded)
	require.Equal(t, []byte{0xAA, 0xBB}, section.StringTable)
}

func TestReadWriteEncoded_NoStringTable(t *testing.T) {
	w := newWriter()
	require.NoError(t, atr1.Write(w, &atr1.Section{
		Encoded:          [][]byte{{9, 9}},
		SizePerAttribute: 2,
	}))

	section, err := atr1.Read(newReader(w.Bytes()), nil)
	require.NoError(t, err)
	require.Nil(t, section.StringTable)
}

func nameConfig() *titleconfig.AttributeConfig {
	return &titleconfig.AttributeConfig{
		Name: "Main",
		Definitions: []field.ValueDefinition{
			{Name: "volume", Datatype: datatype.Uint8},
			{Name: "name", Datatype: datatype.String},
		},
	}
}

func TestReadWriteDecoded_RoundTrip(t *testing.T) {
	config := nameConfig()

	vol, err := field.NewField(int64(7), config.Definitions[0])
	require.NoError(t, err)
	name, err := field.NewField("Abe", config.Definitions[1])
	require.NoError(t, err)
	fm := field.NewFieldMap(vol, name)

	w := newWriter()
	require.NoError(t, atr1.Write(w, &atr1.Section{
		Decoded:          []*field.FieldMap{fm},
		SizePerAttribute: 5, // uint8 + u32 string offset
	}))

	section, err := atr1.Read(newReader(w.Bytes()), config)
	require.NoError(t, err)
	require.True(t, section.IsDecoded())
	require.Len(t, section.Decoded, 1)

	gotVol, err := section.Decoded[0].Get("volume")
	require.NoError(t, err)
	require.Equal(t, int64(7), gotVol.Value())

	gotName, err := section.Decoded[0].Get("name")
	require.NoError(t, err)
	require.Equal(t, "Abe", gotName.Value())
}

func TestRead_LayoutMismatchFallsBackToEncoded(t *testing.T) {
	config := nameConfig() // implies size 5 (u8 + u32 offset)

	// Hand-build a section claiming size_per_attribute 2, which disagrees
	// with config's implied layout (5): two opaque 2-byte records.
	w := newWriter()
	require.NoError(t, w.WriteUint32(2))
	require.NoError(t, w.WriteUint32(2))
	_, err := w.WriteBytes([]byte{1, 2, 3, 4})
	require.NoError(t, err)

	section, err := atr1.Read(newReader(w.Bytes()), config)
	require.NoError(t, err)
	require.False(t, section.IsDecoded())
	require.Equal(t, [][]byte{{1, 2}, {3, 4}}, section.Encoded)
}

func TestReadWriteDecoded_EmptySection(t *testing.T) {
	w := newWriter()
	require.NoError(t, atr1.Write(w, &atr1.Section{Decoded: []*field.FieldMap{}, SizePerAttribute: 5}))

	section, err := atr1.Read(newReader(w.Bytes()), nameConfig())
	require.NoError(t, err)
	require.True(t, section.IsDecoded())
	require.Empty(t, section.Decoded)
}
