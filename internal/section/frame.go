package section

import (
	"github.com/scigolib/lms/internal/stream"
)

// Frame is one section's magic and raw payload bytes, as found on disk
// between section frames (callers that know the magic decode the payload
// with their own sub-codec; callers that don't keep it verbatim).
type Frame struct {
	Magic string
	Data  []byte
}

// ReadFrames walks count section frames starting at the reader's current
// position (expected to be DataStart), returning each frame's magic and
// payload with the cursor advanced past the 0xAB alignment padding that
// follows it.
func ReadFrames(r *stream.Reader, count int) ([]Frame, error) {
	frames := make([]Frame, 0, count)
	for i := 0; i < count; i++ {
		magic, err := r.ReadStringLen(4)
		if err != nil {
			return nil, err
		}
		size, err := r.ReadUint32()
		if err != nil {
			return nil, err
		}
		if err := r.Skip(8); err != nil {
			return nil, err
		}
		data, err := r.ReadBytes(int(size))
		if err != nil {
			return nil, err
		}
		frames = append(frames, Frame{Magic: magic, Data: data})

		if err := r.Align(16); err != nil {
			return nil, err
		}
	}
	return frames, nil
}

// WriteFrame emits magic, a zero size placeholder, 8 reserved zero bytes,
// then writes the section body via encode, backpatches the size, and
// pads to the next 16-byte boundary with 0xAB.
func WriteFrame(w *stream.Writer, magic string, encode func(*stream.Writer) error) error {
	if err := w.WriteStringLen(magic); err != nil {
		return err
	}
	sizeOffset := w.Tell()
	if err := w.WriteUint32(0); err != nil {
		return err
	}
	if _, err := w.WriteBytes(make([]byte, 8)); err != nil {
		return err
	}
	dataStart := w.Tell()

	if err := encode(w); err != nil {
		return err
	}

	end := w.Tell()
	size := end - dataStart
	if err := w.Seek(sizeOffset, stream.SeekStart); err != nil {
		return err
	}
	if err := w.WriteUint32(uint32(size)); err != nil {
		return err
	}
	if err := w.Seek(end, stream.SeekStart); err != nil {
		return err
	}
	return w.Align(16, 0xAB)
}

// WriteUnsupportedFrame re-emits a frame whose payload is opaque bytes
// preserved verbatim from a prior read (round-tripping unknown sections).
func WriteUnsupportedFrame(w *stream.Writer, magic string, data []byte) error {
	return WriteFrame(w, magic, func(w *stream.Writer) error {
		_, err := w.WriteBytes(data)
		return err
	})
}
