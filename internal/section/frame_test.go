package section_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/scigolib/lms/internal/section"
	"github.com/scigolib/lms/internal/stream"
)

func TestWriteReadFrames_RoundTrip(t *testing.T) {
	w := stream.NewWriter()
	require.NoError(t, w.Seek(section.DataStart, stream.SeekStart))

	require.NoError(t, section.WriteFrame(w, "LBL1", func(w *stream.Writer) error {
		return w.WriteUint32(0x11223344)
	}))
	require.NoError(t, section.WriteUnsupportedFrame(w, "XYZ1", []byte{1, 2, 3}))

	r := stream.NewReader(w.Bytes())
	require.NoError(t, r.Seek(section.DataStart, stream.SeekStart))
	frames, err := section.ReadFrames(r, 2)
	require.NoError(t, err)
	require.Len(t, frames, 2)

	require.Equal(t, "LBL1", frames[0].Magic)
	require.Equal(t, []byte{0x44, 0x33, 0x22, 0x11}, frames[0].Data)

	require.Equal(t, "XYZ1", frames[1].Magic)
	require.Equal(t, []byte{1, 2, 3}, frames[1].Data)
}

func TestWriteFrame_PadsTo16ByteBoundary(t *testing.T) {
	w := stream.NewWriter()
	require.NoError(t, w.Seek(section.DataStart, stream.SeekStart))
	require.NoError(t, section.WriteFrame(w, "LBL1", func(w *stream.Writer) error {
		_, err := w.WriteBytes([]byte{1, 2, 3})
		return err
	}))
	require.Equal(t, int64(0), w.Tell()%16)
}
