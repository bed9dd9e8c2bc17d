package types

// NewStruct lays out members sequentially, aligning each one's offset to
// its own alignment, and rounds the final size up to the aggregate's
// alignment (the widest member alignment). Grounded on 9cc's struct_decl:
// offset accumulates across members; a union instead overlaps every
// member at offset 0 via NewUnion.
func NewStruct(tag string, members []*Member) *Struct {
	s := &Struct{Tag: tag, Members: members, align: 1}

	offset := 0
	for _, m := range members {
		offset = AlignTo(offset, m.Type.Align())
		m.Offset = offset
		offset += m.Type.Size()
		if m.Type.Align() > s.align {
			s.align = m.Type.Align()
		}
	}
	s.size = AlignTo(offset, s.align)
	return s
}

// NewUnion lays out every member at offset 0; the union's size is the
// widest member's size, rounded up to the widest member's alignment.
func NewUnion(tag string, members []*Member) *Struct {
	s := &Struct{Tag: tag, Members: members, IsUnion: true, align: 1}

	for _, m := range members {
		m.Offset = 0
		if m.Type.Align() > s.align {
			s.align = m.Type.Align()
		}
		if m.Type.Size() > s.size {
			s.size = m.Type.Size()
		}
	}
	s.size = AlignTo(s.size, s.align)
	return s
}
