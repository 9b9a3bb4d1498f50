package sortable

// viewport tracks cursor and scroll state of one list instance. It is the Surface the
// adapter notifies, so the cursor follows items as they move.
type viewport struct {
	offset int
	cursor int
	count  int
	// page is the number of rows that fit fully on screen.
	page int

	// anchor is the first fully visible position, recorded on every scroll. Authoritative
	// replacements scroll back to it. hasAnchor stays false until the first scroll.
	anchor    int
	hasAnchor bool
}

func (v *viewport) Inserted(pos, n int) {
	if v.count > 0 && pos <= v.cursor {
		v.cursor += n
	}
	v.count += n
}

func (v *viewport) Removed(pos, n int) {
	switch {
	case v.cursor >= pos+n:
		v.cursor -= n
	case v.cursor >= pos:
		v.cursor = pos
	}
	v.count -= n
	v.clampCursor()
}

func (v *viewport) Moved(from, to int) {
	switch {
	case v.cursor == from:
		v.cursor = to
	case from < v.cursor && v.cursor <= to:
		v.cursor--
	case to <= v.cursor && v.cursor < from:
		v.cursor++
	}
}

func (v *viewport) Changed(int, int) {}

// Settled re-anchors the offset. The cursor is only clamped to the new count, so a selection
// scrolled out of view stays where the user left it.
func (v *viewport) Settled(count int) {
	v.count = count
	v.clampCursor()
	if v.hasAnchor {
		v.offset = v.clampOffset(v.anchor)
	} else {
		v.offset = v.clampOffset(v.offset)
	}
}

func (v *viewport) clampCursor() {
	if v.cursor >= v.count {
		v.cursor = v.count - 1
	}
	if v.cursor < 0 {
		v.cursor = 0
	}
}

func (v *viewport) clampOffset(off int) int {
	maxOff := v.count - v.page
	if maxOff < 0 {
		maxOff = 0
	}
	if off > maxOff {
		off = maxOff
	}
	if off < 0 {
		off = 0
	}
	return off
}

// scrollTo moves the viewport and records the new anchor.
func (v *viewport) scrollTo(off int) {
	off = v.clampOffset(off)
	if off == v.offset && v.hasAnchor {
		return
	}
	v.offset = off
	v.anchor = off
	v.hasAnchor = true
}

func (v *viewport) moveCursor(delta int) {
	v.cursor += delta
	v.clampCursor()
	v.ensureVisible()
}

func (v *viewport) ensureVisible() {
	if v.page <= 0 {
		return
	}
	if v.cursor < v.offset {
		v.scrollTo(v.cursor)
	} else if v.cursor >= v.offset+v.page {
		v.scrollTo(v.cursor - v.page + 1)
	}
}

func (v *viewport) setPage(page int) {
	if page < 1 {
		page = 1
	}
	v.page = page
	v.offset = v.clampOffset(v.offset)
}
