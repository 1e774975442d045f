package msbt

import (
	"github.com/scigolib/lms/internal/atr1"
	"github.com/scigolib/lms/internal/field"
	"github.com/scigolib/lms/internal/label"
	"github.com/scigolib/lms/internal/lmserrors"
	"github.com/scigolib/lms/internal/section"
	"github.com/scigolib/lms/internal/stream"
	"github.com/scigolib/lms/internal/titleconfig"
	"github.com/scigolib/lms/internal/txt2"
)

// Magic is the fixed 8-byte MSBT file signature.
const Magic = "MsgStdBn"

// ReadOptions configures ReadMSBT's decoding behavior.
type ReadOptions struct {
	AttributeConfig   *titleconfig.AttributeConfig
	TagConfig         *titleconfig.TagConfig
	SuppressTagErrors bool
}

// ReadMSBT parses a complete MSBT file, zipping LBL1/ATR1/TXT2/TSY1 into
// one Entry per label and preserving any unrecognized section verbatim.
func ReadMSBT(data []byte, opts ReadOptions) (*MSBT, error) {
	r := stream.NewReader(data)
	hdr, err := section.ReadHeader(r, Magic)
	if err != nil {
		return nil, err
	}

	m := New(*hdr, opts.AttributeConfig, opts.TagConfig)
	m.UsesEncodedAttributes = opts.AttributeConfig == nil

	frames, err := section.ReadFrames(r, int(hdr.SectionCount))
	if err != nil {
		return nil, err
	}

	var labels []string
	var atrData *atr1.Section
	var messages []*txt2.MessageText
	var styleIndexes []uint32

	for _, fr := range frames {
		m.addSection(fr.Magic)
		sr := stream.NewReader(fr.Data)
		sr.SetBigEndian(hdr.BigEndian)
		sr.SetEncoding(hdr.Encoding)

		switch fr.Magic {
		case "LBL1":
			tbl, err := label.Read(sr)
			if err != nil {
				return nil, err
			}
			labels = tbl.Labels
			m.SlotCount = tbl.SlotCount
		case "ATR1":
			atrData, err = atr1.Read(sr, opts.AttributeConfig)
			if err != nil {
				return nil, err
			}
			m.UsesEncodedAttributes = !atrData.IsDecoded()
			m.SizePerAttribute = atrData.SizePerAttribute
			m.AttrStringTable = atrData.StringTable
		case "TXT2":
			messages, err = txt2.Read(sr, opts.TagConfig, opts.SuppressTagErrors)
			if err != nil {
				return nil, err
			}
		case "TSY1":
			styleIndexes, err = readTSY1(sr, len(labels))
			if err != nil {
				return nil, err
			}
		default:
			m.Unsupported[fr.Magic] = fr.Data
		}
	}

	for i, name := range labels {
		entry := &Entry{Name: name}
		if messages != nil && i < len(messages) {
			entry.Message = messages[i]
		}
		if atrData != nil {
			if atrData.IsDecoded() {
				entry.DecodedAttribute = atrData.Decoded[i]
			} else {
				entry.EncodedAttribute = atrData.Encoded[i]
			}
		}
		if styleIndexes != nil {
			v := styleIndexes[i]
			entry.StyleIndex = &v
		}
		m.Entries = append(m.Entries, entry)
	}

	return m, nil
}

func readTSY1(r *stream.Reader, count int) ([]uint32, error) {
	out := make([]uint32, count)
	for i := range out {
		v, err := r.ReadUint32()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func writeTSY1(w *stream.Writer, indexes []uint32) error {
	for _, v := range indexes {
		if err := w.WriteUint32(v); err != nil {
			return err
		}
	}
	return nil
}

// WriteMSBT re-emits m as a complete MSBT file, walking the recorded
// section order (or a canonical default for a file built programmatically)
// and back-patching file_size at the end. The header's section_count is
// set to the number of sections written.
func WriteMSBT(m *MSBT) ([]byte, error) {
	order := m.SectionOrder
	if len(order) == 0 {
		order = defaultSectionOrder(m)
	}

	header := m.Header
	header.SectionCount = uint16(len(order))

	w := stream.NewWriter()
	if err := section.WriteHeader(w, Magic, header); err != nil {
		return nil, err
	}

	for _, magic := range order {
		if err := writeMSBTSection(w, m, magic); err != nil {
			return nil, err
		}
	}

	return w.Bytes(), section.PatchFileSize(w)
}

func defaultSectionOrder(m *MSBT) []string {
	order := []string{"LBL1"}
	if m.HasAttributes() {
		order = append(order, "ATR1")
	}
	order = append(order, "TXT2")
	if m.HasStyleIndexes() {
		order = append(order, "TSY1")
	}
	for magic := range m.Unsupported {
		order = append(order, magic)
	}
	return order
}

func writeMSBTSection(w *stream.Writer, m *MSBT, magic string) error {
	switch magic {
	case "LBL1":
		labels := make([]string, len(m.Entries))
		for i, e := range m.Entries {
			labels[i] = e.Name
		}
		return section.WriteFrame(w, "LBL1", func(sw *stream.Writer) error {
			return label.Write(sw, labels, m.SlotCount)
		})
	case "ATR1":
		return section.WriteFrame(w, "ATR1", func(sw *stream.Writer) error {
			return atr1.Write(sw, buildAttributeSection(m))
		})
	case "TXT2":
		messages := make([]*txt2.MessageText, len(m.Entries))
		for i, e := range m.Entries {
			if e.Message != nil {
				messages[i] = e.Message
			} else {
				messages[i] = txt2.NewMessageText("")
			}
		}
		return section.WriteFrame(w, "TXT2", func(sw *stream.Writer) error {
			return txt2.Write(sw, messages)
		})
	case "TSY1":
		indexes := make([]uint32, len(m.Entries))
		for i, e := range m.Entries {
			if e.StyleIndex != nil {
				indexes[i] = *e.StyleIndex
			}
		}
		return section.WriteFrame(w, "TSY1", func(sw *stream.Writer) error {
			return writeTSY1(sw, indexes)
		})
	default:
		data, ok := m.Unsupported[magic]
		if !ok {
			return lmserrors.New(lmserrors.UnexpectedMagic, "no data recorded for unsupported section '"+magic+"'")
		}
		return section.WriteUnsupportedFrame(w, magic, data)
	}
}

func buildAttributeSection(m *MSBT) *atr1.Section {
	if m.UsesEncodedAttributes {
		records := make([][]byte, len(m.Entries))
		for i, e := range m.Entries {
			records[i] = e.EncodedAttribute
		}
		return &atr1.Section{Encoded: records, SizePerAttribute: m.SizePerAttribute, StringTable: m.AttrStringTable}
	}
	records := make([]*field.FieldMap, len(m.Entries))
	for i, e := range m.Entries {
		records[i] = e.DecodedAttribute
	}
	return &atr1.Section{Decoded: records, SizePerAttribute: m.SizePerAttribute}
}
