package msbp

import (
	"github.com/scigolib/lms/internal/datatype"
	"github.com/scigolib/lms/internal/stream"
)

func readColors(r *stream.Reader) ([]Color, error) {
	count, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}
	out := make([]Color, count)
	for i := range out {
		rv, err := r.ReadUint32()
		if err != nil {
			return nil, err
		}
		gv, err := r.ReadUint32()
		if err != nil {
			return nil, err
		}
		bv, err := r.ReadUint32()
		if err != nil {
			return nil, err
		}
		av, err := r.ReadUint32()
		if err != nil {
			return nil, err
		}
		out[i] = Color{R: rv, G: gv, B: bv, A: av}
	}
	return out, nil
}

func readStyles(r *stream.Reader) ([]Style, error) {
	count, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}
	out := make([]Style, count)
	for i := range out {
		w, err := r.ReadUint32()
		if err != nil {
			return nil, err
		}
		ln, err := r.ReadUint32()
		if err != nil {
			return nil, err
		}
		font, err := r.ReadUint32()
		if err != nil {
			return nil, err
		}
		color, err := r.ReadUint32()
		if err != nil {
			return nil, err
		}
		out[i] = Style{RegionWidth: w, LineNumber: ln, FontIndex: font, ColorIndex: color}
	}
	return out, nil
}

func readAttributeInfo(r *stream.Reader) ([]AttributeDefinition, error) {
	count, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}
	out := make([]AttributeDefinition, count)
	for i := range out {
		dtByte, err := r.ReadUint8()
		if err != nil {
			return nil, err
		}
		dt, err := datatype.FromByte(dtByte)
		if err != nil {
			return nil, err
		}
		if err := r.Skip(1); err != nil {
			return nil, err
		}
		listIndex, err := r.ReadUint16()
		if err != nil {
			return nil, err
		}
		// The offset field locates this attribute's fixed record inside
		// ATR1; it is recomputed independently there, so it is not kept
		// on AttributeDefinition.
		if _, err := r.ReadUint32(); err != nil {
			return nil, err
		}
		out[i] = AttributeDefinition{Datatype: dt, ListIndex: listIndex}
	}
	return out, nil
}

func readAttributeListItems(r *stream.Reader) ([][]string, error) {
	count, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}
	offsets, err := r.ReadOffsetArray(int(count))
	if err != nil {
		return nil, err
	}
	out := make([][]string, count)
	for i, off := range offsets {
		if err := r.Seek(off, stream.SeekStart); err != nil {
			return nil, err
		}
		itemCount, err := r.ReadUint32()
		if err != nil {
			return nil, err
		}
		itemOffsets, err := r.ReadOffsetArray(int(itemCount))
		if err != nil {
			return nil, err
		}
		items := make([]string, itemCount)
		for j, itemOff := range itemOffsets {
			if err := r.Seek(itemOff, stream.SeekStart); err != nil {
				return nil, err
			}
			s, err := r.ReadEncodedString()
			if err != nil {
				return nil, err
			}
			items[j] = s
		}
		out[i] = items
	}
	return out, nil
}

func readTagGroups(r *stream.Reader, version uint8) ([]TagGroup, error) {
	count, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}
	offsets, err := r.ReadOffsetArray(int(count))
	if err != nil {
		return nil, err
	}
	out := make([]TagGroup, count)
	for i, off := range offsets {
		if err := r.Seek(off, stream.SeekStart); err != nil {
			return nil, err
		}
		id := uint16(i)
		if version == 4 {
			id, err = r.ReadUint16()
			if err != nil {
				return nil, err
			}
		}
		tagCount, err := r.ReadUint16()
		if err != nil {
			return nil, err
		}
		tagIndexes, err := r.ReadUint16Array(int(tagCount))
		if err != nil {
			return nil, err
		}
		name, err := r.ReadEncodedString()
		if err != nil {
			return nil, err
		}
		out[i] = TagGroup{Name: name, ID: id, TagIndexes: tagIndexes}
	}
	return out, nil
}

func readTagDefinitions(r *stream.Reader) ([]TagDefinition, error) {
	count, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}
	offsets, err := r.ReadOffsetArray(int(count))
	if err != nil {
		return nil, err
	}
	out := make([]TagDefinition, count)
	for i, off := range offsets {
		if err := r.Seek(off, stream.SeekStart); err != nil {
			return nil, err
		}
		paramCount, err := r.ReadUint16()
		if err != nil {
			return nil, err
		}
		paramIndexes, err := r.ReadUint16Array(int(paramCount))
		if err != nil {
			return nil, err
		}
		name, err := r.ReadEncodedString()
		if err != nil {
			return nil, err
		}
		out[i] = TagDefinition{Name: name, ParamIndexes: paramIndexes}
	}
	return out, nil
}

func readTagParams(r *stream.Reader) ([]TagParamDefinition, error) {
	count, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}
	offsets, err := r.ReadOffsetArray(int(count))
	if err != nil {
		return nil, err
	}
	out := make([]TagParamDefinition, count)
	for i, off := range offsets {
		if err := r.Seek(off, stream.SeekStart); err != nil {
			return nil, err
		}
		dtByte, err := r.ReadUint8()
		if err != nil {
			return nil, err
		}
		dt, err := datatype.FromByte(dtByte)
		if err != nil {
			return nil, err
		}
		if dt != datatype.List {
			name, err := r.ReadEncodedString()
			if err != nil {
				return nil, err
			}
			out[i] = TagParamDefinition{Name: name, Datatype: dt}
			continue
		}
		if err := r.Skip(1); err != nil {
			return nil, err
		}
		listCount, err := r.ReadUint16()
		if err != nil {
			return nil, err
		}
		listIndexes, err := r.ReadUint16Array(int(listCount))
		if err != nil {
			return nil, err
		}
		name, err := r.ReadEncodedString()
		if err != nil {
			return nil, err
		}
		out[i] = TagParamDefinition{Name: name, Datatype: dt, ListIndexes: listIndexes}
	}
	return out, nil
}

// readStrings implements the flat string-table layout TGL2 and CTI1 both
// use: a uint32 count, an offset array, and the strings themselves.
func readStrings(r *stream.Reader) ([]string, error) {
	count, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}
	offsets, err := r.ReadOffsetArray(int(count))
	if err != nil {
		return nil, err
	}
	out := make([]string, count)
	for i, off := range offsets {
		if err := r.Seek(off, stream.SeekStart); err != nil {
			return nil, err
		}
		s, err := r.ReadEncodedString()
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}
