package txt2_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/scigolib/lms/internal/datatype"
	"github.com/scigolib/lms/internal/field"
	"github.com/scigolib/lms/internal/stream"
	"github.com/scigolib/lms/internal/tagcodec"
	"github.com/scigolib/lms/internal/titleconfig"
	"github.com/scigolib/lms/internal/txt2"
)

func newWriter() *stream.Writer {
	w := stream.NewWriter()
	w.SetBigEndian(false)
	w.SetEncoding(stream.UTF16)
	return w
}

func newReaderFrom(w *stream.Writer) *stream.Reader {
	r := stream.NewReader(w.Bytes())
	r.SetBigEndian(false)
	r.SetEncoding(stream.UTF16)
	return r
}

func TestWriteReadTxt2_PlainTextRoundTrip(t *testing.T) {
	messages := []*txt2.MessageText{
		txt2.NewMessageText("Hello"),
		txt2.NewMessageText("World"),
	}

	w := newWriter()
	require.NoError(t, txt2.Write(w, messages))

	got, err := txt2.Read(newReaderFrom(w), nil, false)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "Hello", got[0].Text())
	require.Equal(t, "World", got[1].Text())
}

func TestWriteReadTxt2_EmptyMessages(t *testing.T) {
	w := newWriter()
	require.NoError(t, txt2.Write(w, nil))

	got, err := txt2.Read(newReaderFrom(w), nil, false)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestWriteReadTxt2_EncodedTagRoundTrip(t *testing.T) {
	tag := tagcodec.NewEncodedTag(0, 3, []string{"00", "00", "00", "FF"}, false, false)
	msg := &txt2.MessageText{Parts: []txt2.Part{"Color: ", tag, " done"}}

	w := newWriter()
	require.NoError(t, txt2.Write(w, []*txt2.MessageText{msg}))

	got, err := txt2.Read(newReaderFrom(w), nil, false)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "Color: [0:3 00-00-00-FF] done", got[0].Text())
	require.Len(t, got[0].Tags(), 1)
}

func colorConfig() *titleconfig.TagConfig {
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
		},
	}
}

func TestWriteReadTxt2_DecodedTagRoundTrip(t *testing.T) {
	config := colorConfig()
	def := &config.Definitions[0]

	rf, _ := field.NewField(int64(0xFF), def.Parameters[0])
	gf, _ := field.NewField(int64(0), def.Parameters[1])
	bf, _ := field.NewField(int64(0), def.Parameters[2])
	af, _ := field.NewField(int64(0xFF), def.Parameters[3])
	fm := field.NewFieldMap(rf, gf, bf, af)
	tag := tagcodec.NewDecodedTag(def, fm, false)

	msg := &txt2.MessageText{Parts: []txt2.Part{"Text", tag}}

	w := newWriter()
	require.NoError(t, txt2.Write(w, []*txt2.MessageText{msg}))

	got, err := txt2.Read(newReaderFrom(w), config, false)
	require.NoError(t, err)
	require.Len(t, got, 1)

	tags := got[0].Tags()
	require.Len(t, tags, 1)
	decoded, ok := tags[0].(*tagcodec.DecodedTag)
	require.True(t, ok)
	rv, err := decoded.Parameters().Get("r")
	require.NoError(t, err)
	require.Equal(t, int64(0xFF), rv.Value())
}

func TestWriteReadTxt2_MultipleMessagesOffsetsIndependent(t *testing.T) {
	messages := []*txt2.MessageText{
		txt2.NewMessageText("short"),
		txt2.NewMessageText("a much longer second message"),
		txt2.NewMessageText(""),
	}

	w := newWriter()
	require.NoError(t, txt2.Write(w, messages))

	got, err := txt2.Read(newReaderFrom(w), nil, false)
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.Equal(t, "short", got[0].Text())
	require.Equal(t, "a much longer second message", got[1].Text())
	require.Equal(t, "", got[2].Text())
}
