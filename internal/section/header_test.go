package section_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/scigolib/lms/internal/lmserrors"
	"github.com/scigolib/lms/internal/section"
	"github.com/scigolib/lms/internal/stream"
)

func writeMinimalFile(t *testing.T, h section.Header, magic string) []byte {
	t.Helper()
	w := stream.NewWriter()
	require.NoError(t, section.WriteHeader(w, magic, h))
	require.NoError(t, section.PatchFileSize(w))
	return w.Bytes()
}

func TestHeader_RoundTrip(t *testing.T) {
	h := section.Header{BigEndian: false, Encoding: stream.UTF16, Version: 3, SectionCount: 1}
	data := writeMinimalFile(t, h, "MsgStdBn")
	require.Len(t, data, section.DataStart)

	r := stream.NewReader(data)
	got, err := section.ReadHeader(r, "MsgStdBn")
	require.NoError(t, err)
	require.Equal(t, h, *got)
	require.Equal(t, int64(section.DataStart), r.Tell())
}

func TestHeader_BigEndianBOM(t *testing.T) {
	h := section.Header{BigEndian: true, Encoding: stream.UTF16, Version: 3, SectionCount: 0}
	data := writeMinimalFile(t, h, "MsgStdBn")
	require.Equal(t, byte(0xFE), data[8])
	require.Equal(t, byte(0xFF), data[9])

	r := stream.NewReader(data)
	got, err := section.ReadHeader(r, "MsgStdBn")
	require.NoError(t, err)
	require.True(t, got.BigEndian)
}

func TestHeader_WrongMagic(t *testing.T) {
	h := section.Header{Encoding: stream.UTF16, Version: 3}
	data := writeMinimalFile(t, h, "MsgStdBn")

	r := stream.NewReader(data)
	_, err := section.ReadHeader(r, "MsgPrjBn")
	require.Error(t, err)
	require.True(t, lmserrors.Is(err, lmserrors.UnexpectedMagic))
}

func TestHeader_MisalignedSize(t *testing.T) {
	h := section.Header{Encoding: stream.UTF16, Version: 3}
	data := writeMinimalFile(t, h, "MsgStdBn")
	data = append(data, 0xAB, 0xAB, 0xAB, 0xAB) // trailing bytes the header doesn't account for

	r := stream.NewReader(data)
	_, err := section.ReadHeader(r, "MsgStdBn")
	require.Error(t, err)
	require.True(t, lmserrors.Is(err, lmserrors.MisalignedSize))
}
