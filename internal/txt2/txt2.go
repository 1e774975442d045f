// Package txt2 implements the MSBT TXT2 section: the per-message offset
// table and the scanning of each message's code-unit stream into
// alternating text runs and control tags.
package txt2

import (
	"bytes"

	"github.com/scigolib/lms/internal/stream"
	"github.com/scigolib/lms/internal/tagcodec"
	"github.com/scigolib/lms/internal/titleconfig"
)

// Part is either a plain string or a tagcodec.ControlTag; MessageText keeps
// them in declaration order exactly as they appear in the message.
type Part interface{}

// MessageText is one message's ordered sequence of text runs and control
// tags.
type MessageText struct {
	Parts []Part
}

// NewMessageText builds a MessageText from a single unparsed text run.
func NewMessageText(text string) *MessageText {
	return &MessageText{Parts: []Part{text}}
}

// Text flattens the message back to its textual form, rendering each tag
// via its own ToText.
func (m *MessageText) Text() string {
	var buf bytes.Buffer
	for _, part := range m.Parts {
		switch p := part.(type) {
		case string:
			buf.WriteString(p)
		case tagcodec.ControlTag:
			buf.WriteString(p.ToText())
		}
	}
	return buf.String()
}

// Tags returns every control tag appearing in the message, in order.
func (m *MessageText) Tags() []tagcodec.ControlTag {
	var tags []tagcodec.ControlTag
	for _, part := range m.Parts {
		if t, ok := part.(tagcodec.ControlTag); ok {
			tags = append(tags, t)
		}
	}
	return tags
}

// Read parses a TXT2 section payload into one MessageText per entry.
// config may be nil, forcing every tag to decode as encoded;
// suppressTagErrors controls whether a decoding failure against a matched
// tag definition falls back to an encoded read.
func Read(r *stream.Reader, config *titleconfig.TagConfig, suppressTagErrors bool) ([]*MessageText, error) {
	width := r.Encoding().Width()
	bigEndian := r.BigEndian()
	openIndicator := tagcodec.Indicator(tagcodec.OpenIndicator, width, bigEndian)
	closeIndicator := tagcodec.Indicator(tagcodec.CloseIndicator, width, bigEndian)
	terminator := r.Encoding().Terminator()

	count, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}
	offsets, err := r.ReadOffsetArray(int(count))
	if err != nil {
		return nil, err
	}

	messages := make([]*MessageText, 0, count)
	for _, offset := range offsets {
		if err := r.Seek(offset, stream.SeekStart); err != nil {
			return nil, err
		}
		msg, err := readMessage(r, config, suppressTagErrors, width, openIndicator, closeIndicator, terminator)
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

func readMessage(r *stream.Reader, config *titleconfig.TagConfig, suppressTagErrors bool, width int, openIndicator, closeIndicator, terminator []byte) (*MessageText, error) {
	msg := &MessageText{}
	var text []byte

	for {
		unit, err := r.ReadBytes(width)
		if err != nil {
			return nil, err
		}
		if bytes.Equal(unit, terminator) {
			break
		}

		isOpening := bytes.Equal(unit, openIndicator)
		isClosing := bytes.Equal(unit, closeIndicator)
		if !isOpening && !isClosing {
			text = append(text, unit...)
			continue
		}

		if len(text) > 0 {
			s, err := r.DecodeRaw(text)
			if err != nil {
				return nil, err
			}
			msg.Parts = append(msg.Parts, s)
			text = nil
		}

		tag, err := tagcodec.ReadTag(r, config, isClosing, suppressTagErrors)
		if err != nil {
			return nil, err
		}
		msg.Parts = append(msg.Parts, tag)
	}

	if len(text) > 0 {
		s, err := r.DecodeRaw(text)
		if err != nil {
			return nil, err
		}
		msg.Parts = append(msg.Parts, s)
	}

	return msg, nil
}

// Write emits messages as a TXT2 section payload, back-patching each
// message's offset once its bytes are known.
func Write(w *stream.Writer, messages []*MessageText) error {
	start := w.Tell()
	offset := uint32(4 + 4*len(messages))

	if err := w.WriteUint32(uint32(len(messages))); err != nil {
		return err
	}

	for _, msg := range messages {
		if err := w.WriteUint32(offset); err != nil {
			return err
		}
		nextOffset := w.Tell()

		if err := w.Seek(start+int64(offset), stream.SeekStart); err != nil {
			return err
		}
		textStart := w.Tell()

		for _, part := range msg.Parts {
			switch p := part.(type) {
			case string:
				if err := w.WriteEncodedString(p, false); err != nil {
					return err
				}
			case tagcodec.ControlTag:
				if err := tagcodec.WriteTag(w, p, w.Encoding(), w.BigEndian()); err != nil {
					return err
				}
			}
		}

		if _, err := w.WriteBytes(w.Encoding().Terminator()); err != nil {
			return err
		}

		offset += uint32(w.Tell() - textStart)
		if err := w.Seek(nextOffset, stream.SeekStart); err != nil {
			return err
		}
	}

	return w.Seek(start+int64(offset), stream.SeekStart)
}
