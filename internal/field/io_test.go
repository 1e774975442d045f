package field_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/scigolib/lms/internal/datatype"
	"github.com/scigolib/lms/internal/field"
	"github.com/scigolib/lms/internal/stream"
)

func TestReadWriteField_RoundTrip(t *testing.T) {
	defs := []field.ValueDefinition{
		{Name: "u8", Datatype: datatype.Uint8},
		{Name: "i32", Datatype: datatype.Int32},
		{Name: "f32", Datatype: datatype.Float32},
		{Name: "flag", Datatype: datatype.Bool},
		{Name: "raw", Datatype: datatype.Bytes},
		{Name: "color", Datatype: datatype.List, ListItems: []string{"red", "green", "blue"}},
	}
	values := []field.Value{int64(7), int64(-100), float32(2.5), true, []byte{0xAB}, "green"}

	w := stream.NewWriter()
	fields := make([]*field.Field, len(defs))
	for i, def := range defs {
		f, err := field.NewField(values[i], def)
		require.NoError(t, err)
		fields[i] = f
		require.NoError(t, field.WriteField(w, f))
	}

	r := stream.NewReader(w.Bytes())
	for i, def := range defs {
		got, err := field.ReadField(r, def)
		require.NoError(t, err)
		require.Equal(t, fields[i].Value(), got.Value(), "field %s", def.Name)
	}
}
