// Package label implements the bucketed hash table shared by LBL1, CLB1,
// ALB1, and SLB1: index -> label lookup plus the slot_count a file declares
// for it.
package label

import (
	"sort"

	"github.com/scigolib/lms/internal/lmserrors"
	"github.com/scigolib/lms/internal/stream"
)

// Hash computes the bucket a label falls into for a hash table with
// slotCount slots.
func Hash(label string, slotCount uint32) uint32 {
	var h uint32
	for _, c := range label {
		h = h*0x492 + uint32(c)
	}
	return h % slotCount
}

// Table is a decoded label hash table: labels in ascending item-index
// order, plus the slot_count the file used (preserved for round-tripping
// even when it is not the format's usual default).
type Table struct {
	Labels    []string // Labels[i] is the label for item index i
	SlotCount uint32
}

// Read parses a hash table starting at the reader's current position,
// matching the bucketed slot-directory layout every LMS label section uses.
func Read(r *stream.Reader) (*Table, error) {
	dataStart := r.Tell()
	slotCount, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}
	if slotCount == 0 {
		return nil, lmserrors.New(lmserrors.MisalignedSize, "label hash table slot_count must be nonzero").At(dataStart)
	}

	byIndex := make(map[uint32]string)
	for slot := uint32(0); slot < slotCount; slot++ {
		labelCount, err := r.ReadUint32()
		if err != nil {
			return nil, err
		}
		offset, err := r.ReadUint32()
		if err != nil {
			return nil, err
		}
		nextOffset := r.Tell()

		if err := r.Seek(dataStart+int64(offset), stream.SeekStart); err != nil {
			return nil, err
		}
		for i := uint32(0); i < labelCount; i++ {
			length, err := r.ReadUint8()
			if err != nil {
				return nil, err
			}
			lbl, err := r.ReadStringLen(int(length))
			if err != nil {
				return nil, err
			}
			itemIndex, err := r.ReadUint32()
			if err != nil {
				return nil, err
			}
			byIndex[itemIndex] = lbl
		}
		if err := r.Seek(nextOffset, stream.SeekStart); err != nil {
			return nil, err
		}
	}

	indices := make([]uint32, 0, len(byIndex))
	for idx := range byIndex {
		indices = append(indices, idx)
	}
	sort.Slice(indices, func(i, j int) bool { return indices[i] < indices[j] })

	labels := make([]string, len(indices))
	for i, idx := range indices {
		labels[i] = byIndex[idx]
	}

	return &Table{Labels: labels, SlotCount: slotCount}, nil
}

// Write emits labels (indexed by their position) bucketed into slotCount
// hash slots, matching the original bucket-then-directory layout byte for
// byte: the slot directory is written first, then each bucket's records in
// slot order, with labels inside a bucket kept in the insertion order they
// appear in labels.
func Write(w *stream.Writer, labels []string, slotCount uint32) error {
	if err := w.WriteUint32(slotCount); err != nil {
		return err
	}

	buckets := make(map[uint32][]string)
	indexOf := make(map[string]uint32)
	for i, lbl := range labels {
		h := Hash(lbl, slotCount)
		buckets[h] = append(buckets[h], lbl)
		indexOf[lbl] = uint32(i)
	}

	labelOffset := int64(slotCount)*8 + 4
	offsets := make(map[uint32]int64, len(buckets))
	for slot := uint32(0); slot < slotCount; slot++ {
		bucket, ok := buckets[slot]
		if !ok {
			if err := w.WriteUint32(0); err != nil {
				return err
			}
			if err := w.WriteUint32(uint32(labelOffset)); err != nil {
				return err
			}
			continue
		}
		if err := w.WriteUint32(uint32(len(bucket))); err != nil {
			return err
		}
		if err := w.WriteUint32(uint32(labelOffset)); err != nil {
			return err
		}
		offsets[slot] = labelOffset
		for _, lbl := range bucket {
			labelOffset += int64(len(lbl)) + 5
		}
	}

	for slot := uint32(0); slot < slotCount; slot++ {
		bucket, ok := buckets[slot]
		if !ok {
			continue
		}
		for _, lbl := range bucket {
			if err := w.WriteUint8(uint8(len(lbl))); err != nil {
				return err
			}
			if err := w.WriteStringLen(lbl); err != nil {
				return err
			}
			if err := w.WriteUint32(indexOf[lbl]); err != nil {
				return err
			}
		}
	}
	return nil
}
