package msbp

import (
	"github.com/scigolib/lms/internal/datatype"
	"github.com/scigolib/lms/internal/stream"
)

// writeIndexedBlock emits the common MSBP "count + offset table + items"
// layout: a u32 count, n placeholder u32 offsets relative to the count
// field, then each item's body (written by writeItem, which returns that
// item's absolute start position implicitly by being called in order), with
// the offset table backpatched afterward.
func writeIndexedBlock(w *stream.Writer, n int, writeItem func(w *stream.Writer, i int) error) error {
	base := w.Tell()
	if err := w.WriteUint32(uint32(n)); err != nil {
		return err
	}
	offsetsPos := w.Tell()
	for i := 0; i < n; i++ {
		if err := w.WriteUint32(0); err != nil {
			return err
		}
	}

	offsets := make([]int64, n)
	for i := 0; i < n; i++ {
		offsets[i] = w.Tell()
		if err := writeItem(w, i); err != nil {
			return err
		}
	}

	end := w.Tell()
	if err := w.Seek(offsetsPos, stream.SeekStart); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if err := w.WriteUint32(uint32(offsets[i] - base)); err != nil {
			return err
		}
	}
	return w.Seek(end, stream.SeekStart)
}

func writeColors(w *stream.Writer, colors []Color) error {
	if err := w.WriteUint32(uint32(len(colors))); err != nil {
		return err
	}
	for _, c := range colors {
		for _, v := range [4]uint32{c.R, c.G, c.B, c.A} {
			if err := w.WriteUint32(v); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeStyles(w *stream.Writer, styles []Style) error {
	if err := w.WriteUint32(uint32(len(styles))); err != nil {
		return err
	}
	for _, s := range styles {
		for _, v := range [4]uint32{s.RegionWidth, s.LineNumber, s.FontIndex, s.ColorIndex} {
			if err := w.WriteUint32(v); err != nil {
				return err
			}
		}
	}
	return nil
}

// attributeFieldSize is the byte width of one attribute's fixed record
// slot: 4 for a STRING's out-of-band offset, else its stream size.
func attributeFieldSize(dt datatype.DataType) int {
	if dt == datatype.String {
		return 4
	}
	return dt.StreamSize()
}

func writeAttributeInfo(w *stream.Writer, defs []AttributeDefinition) error {
	if err := w.WriteUint32(uint32(len(defs))); err != nil {
		return err
	}
	var offset uint32
	for _, d := range defs {
		if err := w.WriteUint8(uint8(d.Datatype)); err != nil {
			return err
		}
		if err := w.WriteUint8(0); err != nil {
			return err
		}
		if err := w.WriteUint16(d.ListIndex); err != nil {
			return err
		}
		if err := w.WriteUint32(offset); err != nil {
			return err
		}
		offset += uint32(attributeFieldSize(d.Datatype))
	}
	return nil
}

func writeAttributeListItems(w *stream.Writer, lists [][]string) error {
	return writeIndexedBlock(w, len(lists), func(w *stream.Writer, i int) error {
		items := lists[i]
		return writeIndexedBlock(w, len(items), func(w *stream.Writer, j int) error {
			return w.WriteEncodedString(items[j], true)
		})
	})
}

func writeTagGroups(w *stream.Writer, groups []TagGroup, version uint8) error {
	return writeIndexedBlock(w, len(groups), func(w *stream.Writer, i int) error {
		g := groups[i]
		if version == 4 {
			if err := w.WriteUint16(g.ID); err != nil {
				return err
			}
		}
		if err := w.WriteUint16(uint16(len(g.TagIndexes))); err != nil {
			return err
		}
		if err := w.WriteUint16Array(g.TagIndexes); err != nil {
			return err
		}
		return w.WriteEncodedString(g.Name, true)
	})
}

func writeTagDefinitions(w *stream.Writer, defs []TagDefinition) error {
	return writeIndexedBlock(w, len(defs), func(w *stream.Writer, i int) error {
		d := defs[i]
		if err := w.WriteUint16(uint16(len(d.ParamIndexes))); err != nil {
			return err
		}
		if err := w.WriteUint16Array(d.ParamIndexes); err != nil {
			return err
		}
		return w.WriteEncodedString(d.Name, true)
	})
}

func writeTagParams(w *stream.Writer, params []TagParamDefinition) error {
	return writeIndexedBlock(w, len(params), func(w *stream.Writer, i int) error {
		p := params[i]
		if err := w.WriteUint8(uint8(p.Datatype)); err != nil {
			return err
		}
		if p.Datatype != datatype.List {
			return w.WriteEncodedString(p.Name, true)
		}
		if err := w.WriteUint8(0); err != nil {
			return err
		}
		if err := w.WriteUint16(uint16(len(p.ListIndexes))); err != nil {
			return err
		}
		if err := w.WriteUint16Array(p.ListIndexes); err != nil {
			return err
		}
		return w.WriteEncodedString(p.Name, true)
	})
}

// writeStringsSection implements the flat string-table layout TGL2 and CTI1
// both use: a uint32 count, an offset array, and the strings themselves.
func writeStringsSection(w *stream.Writer, items []string) error {
	base := w.Tell()
	if err := w.WriteUint32(uint32(len(items))); err != nil {
		return err
	}

	offsetsPos := w.Tell()
	for range items {
		if err := w.WriteUint32(0); err != nil {
			return err
		}
	}

	offsets := make([]int64, len(items))
	for i, s := range items {
		offsets[i] = w.Tell()
		if err := w.WriteEncodedString(s, true); err != nil {
			return err
		}
	}

	end := w.Tell()
	if err := w.Seek(offsetsPos, stream.SeekStart); err != nil {
		return err
	}
	for _, off := range offsets {
		if err := w.WriteUint32(uint32(off - base)); err != nil {
			return err
		}
	}
	return w.Seek(end, stream.SeekStart)
}
