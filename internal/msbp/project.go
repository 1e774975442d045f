package msbp

import (
	"github.com/scigolib/lms/internal/datatype"
	"github.com/scigolib/lms/internal/label"
	"github.com/scigolib/lms/internal/lmserrors"
	"github.com/scigolib/lms/internal/section"
	"github.com/scigolib/lms/internal/stream"
)

// Magic is the fixed 8-byte MSBP file signature.
const Magic = "MsgPrjBn"

// ReadProject parses a complete MSBP file.
func ReadProject(data []byte) (*Project, error) {
	r := stream.NewReader(data)
	hdr, err := section.ReadHeader(r, Magic)
	if err != nil {
		return nil, err
	}

	p := &Project{Header: *hdr}

	frames, err := section.ReadFrames(r, int(hdr.SectionCount))
	if err != nil {
		return nil, err
	}

	for _, fr := range frames {
		p.SectionOrder = append(p.SectionOrder, fr.Magic)
		sr := stream.NewReader(fr.Data)
		sr.SetBigEndian(hdr.BigEndian)
		sr.SetEncoding(hdr.Encoding)

		switch fr.Magic {
		case "CLR1":
			p.Colors, err = readColors(sr)
		case "CLB1":
			p.ColorLabels, p.ColorSlotCount, err = readLabelNames(sr)
		case "ATI2":
			p.AttributeInfo, err = readAttributeInfo(sr)
		case "ALB1":
			p.AttributeLabels, p.AttributeSlotCount, err = readLabelNames(sr)
		case "ALI2":
			p.rawAttributeListItems, err = readAttributeListItems(sr)
		case "TGG2":
			p.TagGroups, err = readTagGroups(sr, hdr.Version)
		case "TAG2":
			p.rawTagDefinitions, err = readTagDefinitions(sr)
		case "TGP2":
			p.rawTagParams, err = readTagParams(sr)
		case "TGL2":
			p.rawTagListItems, err = readStrings(sr)
		case "SYL3":
			p.Styles, err = readStyles(sr)
		case "SLB1":
			p.StyleLabels, p.StyleSlotCount, err = readLabelNames(sr)
		case "CTI1":
			p.SourceFiles, err = readStrings(sr)
		default:
			return nil, lmserrors.New(lmserrors.UnexpectedMagic, "unknown MSBP section magic '"+fr.Magic+"'")
		}
		if err != nil {
			return nil, err
		}
	}

	for i := range p.AttributeInfo {
		if i < len(p.AttributeLabels) {
			p.AttributeInfo[i].Name = p.AttributeLabels[i]
		}
	}
	resolveAttributeListItems(p)
	resolveTagGroups(p)

	return p, nil
}

func readLabelNames(r *stream.Reader) ([]string, uint32, error) {
	tbl, err := label.Read(r)
	if err != nil {
		return nil, 0, err
	}
	return tbl.Labels, tbl.SlotCount, nil
}

func resolveAttributeListItems(p *Project) {
	for i := range p.AttributeInfo {
		def := &p.AttributeInfo[i]
		if def.Datatype == datatype.List && int(def.ListIndex) < len(p.rawAttributeListItems) {
			def.ListItems = p.rawAttributeListItems[def.ListIndex]
		}
	}
}

func resolveTagGroups(p *Project) {
	for gi := range p.TagGroups {
		g := &p.TagGroups[gi]
		g.TagDefinitions = make([]TagDefinition, 0, len(g.TagIndexes))
		for _, ti := range g.TagIndexes {
			if int(ti) >= len(p.rawTagDefinitions) {
				continue
			}
			tagDef := p.rawTagDefinitions[ti]
			tagDef.Parameters = make([]TagParamDefinition, 0, len(tagDef.ParamIndexes))
			for _, pi := range tagDef.ParamIndexes {
				if int(pi) >= len(p.rawTagParams) {
					continue
				}
				param := p.rawTagParams[pi]
				if param.Datatype == datatype.List {
					items := make([]string, 0, len(param.ListIndexes))
					for _, li := range param.ListIndexes {
						if int(li) < len(p.rawTagListItems) {
							items = append(items, p.rawTagListItems[li])
						}
					}
					param.ListItems = items
				}
				tagDef.Parameters = append(tagDef.Parameters, param)
			}
			g.TagDefinitions = append(g.TagDefinitions, tagDef)
		}
	}
}

// WriteProject re-emits a Project as a complete MSBP file, preserving the
// section order recorded on read (or a canonical default order for a
// Project built programmatically). The header's section_count is set to
// the number of sections written.
func WriteProject(p *Project) ([]byte, error) {
	order := p.SectionOrder
	if len(order) == 0 {
		order = defaultSectionOrder(p)
	}

	header := p.Header
	header.SectionCount = uint16(len(order))

	w := stream.NewWriter()
	if err := section.WriteHeader(w, Magic, header); err != nil {
		return nil, err
	}

	for _, magic := range order {
		if err := writeProjectSection(w, p, magic); err != nil {
			return nil, err
		}
	}

	return w.Bytes(), section.PatchFileSize(w)
}

func defaultSectionOrder(p *Project) []string {
	var order []string
	if len(p.Colors) > 0 {
		order = append(order, "CLR1", "CLB1")
	}
	if len(p.AttributeInfo) > 0 {
		order = append(order, "ATI2", "ALI2", "ALB1")
	}
	if len(p.TagGroups) > 0 {
		order = append(order, "TGG2", "TAG2", "TGP2", "TGL2")
	}
	if len(p.Styles) > 0 {
		order = append(order, "SYL3", "SLB1")
	}
	if len(p.SourceFiles) > 0 {
		order = append(order, "CTI1")
	}
	return order
}

func writeProjectSection(w *stream.Writer, p *Project, magic string) error {
	return section.WriteFrame(w, magic, func(sw *stream.Writer) error {
		sw.SetBigEndian(p.Header.BigEndian)
		sw.SetEncoding(p.Header.Encoding)
		switch magic {
		case "CLR1":
			return writeColors(sw, p.Colors)
		case "CLB1":
			return label.Write(sw, p.ColorLabels, resolveSlotCount(p.ColorSlotCount, 29))
		case "ATI2":
			return writeAttributeInfo(sw, p.AttributeInfo)
		case "ALB1":
			return label.Write(sw, p.AttributeLabels, resolveSlotCount(p.AttributeSlotCount, 29))
		case "ALI2":
			return writeAttributeListItems(sw, p.rawAttributeListItems)
		case "TGG2":
			return writeTagGroups(sw, p.TagGroups, p.Header.Version)
		case "TAG2":
			return writeTagDefinitions(sw, p.rawTagDefinitions)
		case "TGP2":
			return writeTagParams(sw, p.rawTagParams)
		case "TGL2":
			return writeStringsSection(sw, p.rawTagListItems)
		case "SYL3":
			return writeStyles(sw, p.Styles)
		case "SLB1":
			return label.Write(sw, p.StyleLabels, resolveSlotCount(p.StyleSlotCount, 59))
		case "CTI1":
			return writeStringsSection(sw, p.SourceFiles)
		default:
			return lmserrors.New(lmserrors.UnexpectedMagic, "unknown MSBP section magic '"+magic+"'")
		}
	})
}

// resolveSlotCount honors a slot_count recorded from a prior read (even a
// zero-length one some writers legitimately emit); a Project built
// programmatically with no recorded count falls back to fallback.
func resolveSlotCount(recorded uint32, fallback uint32) uint32 {
	if recorded == 0 {
		return fallback
	}
	return recorded
}
