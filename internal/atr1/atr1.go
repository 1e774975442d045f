// Package atr1 implements the MSBT ATR1 section: per-entry attribute
// records, either opaque fixed-size bytes with an out-of-band string pool
// (no config available) or schema-driven FieldMaps bound to an
// AttributeConfig.
package atr1

import (
	"github.com/scigolib/lms/internal/datatype"
	"github.com/scigolib/lms/internal/field"
	"github.com/scigolib/lms/internal/stream"
	"github.com/scigolib/lms/internal/titleconfig"
)

// Section holds one ATR1 section's attribute records in exactly one of two
// forms: Encoded (opaque per-record bytes plus the verbatim string pool
// they point into) or Decoded (typed FieldMaps). Exactly one of Encoded and
// Decoded is non-nil.
type Section struct {
	Encoded          [][]byte
	Decoded          []*field.FieldMap
	SizePerAttribute uint32
	StringTable      []byte // encoded path only; nil if the section had none
}

// IsDecoded reports whether the section holds typed FieldMaps rather than
// opaque records.
func (s *Section) IsDecoded() bool { return s.Decoded != nil }

// Read parses an ATR1 section payload. config nil forces the encoded path;
// otherwise the decoded path is attempted, falling back to encoded if the
// config's record layout doesn't match size_per_attribute on disk.
func Read(r *stream.Reader, config *titleconfig.AttributeConfig) (*Section, error) {
	if config == nil {
		return readEncoded(r)
	}

	start := r.Tell()
	count, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}
	sizePerAttribute, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}

	layoutSize := layoutSize(config)
	if count > 0 && uint32(layoutSize) != sizePerAttribute {
		if err := r.Seek(start, stream.SeekStart); err != nil {
			return nil, err
		}
		return readEncoded(r)
	}

	attrStart := r.Tell()
	decoded := make([]*field.FieldMap, 0, count)
	for i := uint32(0); i < count; i++ {
		if err := r.Seek(attrStart+int64(i*sizePerAttribute), stream.SeekStart); err != nil {
			return nil, err
		}
		fm, err := readRecord(r, start, config)
		if err != nil {
			return nil, err
		}
		decoded = append(decoded, fm)
	}

	return &Section{Decoded: decoded, SizePerAttribute: sizePerAttribute}, nil
}

// layoutSize computes the fixed-record byte size a config implies: every
// field is inline except STRING, which is a 4-byte out-of-band offset.
func layoutSize(config *titleconfig.AttributeConfig) int {
	size := 0
	for _, def := range config.Definitions {
		if def.Datatype == datatype.String {
			size += 4
		} else {
			size += def.Datatype.StreamSize()
		}
	}
	return size
}

func readRecord(r *stream.Reader, sectionStart int64, config *titleconfig.AttributeConfig) (*field.FieldMap, error) {
	fields := make([]*field.Field, 0, len(config.Definitions))
	for _, def := range config.Definitions {
		if def.Datatype == datatype.String {
			offset, err := r.ReadUint32()
			if err != nil {
				return nil, err
			}
			resume := r.Tell()
			if err := r.Seek(sectionStart+int64(offset), stream.SeekStart); err != nil {
				return nil, err
			}
			s, err := r.ReadEncodedString()
			if err != nil {
				return nil, err
			}
			if err := r.Seek(resume, stream.SeekStart); err != nil {
				return nil, err
			}
			f, err := field.NewField(s, def)
			if err != nil {
				return nil, err
			}
			fields = append(fields, f)
			continue
		}

		f, err := field.ReadField(r, def)
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	return field.NewFieldMap(fields...), nil
}

func readEncoded(r *stream.Reader) (*Section, error) {
	sectionSize := r.Len() - r.Tell()
	absoluteSize := r.Tell() + sectionSize

	count, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}
	sizePerAttribute, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}

	records := make([][]byte, 0, count)
	for i := uint32(0); i < count; i++ {
		b, err := r.ReadBytes(int(sizePerAttribute))
		if err != nil {
			return nil, err
		}
		records = append(records, b)
	}

	var stringTable []byte
	if sectionSize > int64(8+sizePerAttribute*count) {
		stringTable, err = r.ReadBytes(int(absoluteSize - r.Tell()))
		if err != nil {
			return nil, err
		}
	}

	return &Section{Encoded: records, SizePerAttribute: sizePerAttribute, StringTable: stringTable}, nil
}

// Write emits the section in whichever form it was parsed or constructed in.
func Write(w *stream.Writer, s *Section) error {
	if s.Decoded != nil {
		return writeDecoded(w, s.Decoded, s.SizePerAttribute)
	}
	return writeEncoded(w, s.Encoded, s.SizePerAttribute, s.StringTable)
}

func writeEncoded(w *stream.Writer, records [][]byte, sizePerAttribute uint32, stringTable []byte) error {
	if err := w.WriteUint32(uint32(len(records))); err != nil {
		return err
	}
	if len(records) > 0 {
		if err := w.WriteUint32(sizePerAttribute); err != nil {
			return err
		}
	} else if err := w.WriteUint32(0); err != nil {
		return err
	}

	for _, rec := range records {
		if _, err := w.WriteBytes(rec); err != nil {
			return err
		}
	}
	if stringTable != nil {
		if _, err := w.WriteBytes(stringTable); err != nil {
			return err
		}
	}
	return nil
}

func writeDecoded(w *stream.Writer, records []*field.FieldMap, sizePerAttribute uint32) error {
	if err := w.WriteUint32(uint32(len(records))); err != nil {
		return err
	}
	if err := w.WriteUint32(sizePerAttribute); err != nil {
		return err
	}

	var strings []string
	stringOffset := 8 + sizePerAttribute*uint32(len(records))
	term := len(w.Encoding().Terminator())

	for _, fm := range records {
		for _, f := range fm.Fields() {
			if f.Datatype() != datatype.String {
				if err := field.WriteField(w, f); err != nil {
					return err
				}
				continue
			}
			s, _ := f.Value().(string)
			strings = append(strings, s)
			if err := w.WriteUint32(stringOffset); err != nil {
				return err
			}
			n, err := w.EncodedStringLen(s)
			if err != nil {
				return err
			}
			stringOffset += uint32(n + term)
		}
	}

	for _, s := range strings {
		if err := w.WriteEncodedString(s, true); err != nil {
			return err
		}
	}
	return nil
}
