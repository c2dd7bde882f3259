package column

// Cursor walks a column view in row order.
//
//	cur := col.Cursor()
//	for cur.Next() {
//		v, ok := cur.Value()
//	}
type Cursor struct {
	col       *Column
	chunk     int
	pos       int
	remaining int

	value float64
	valid bool
}

func (c *Column) Cursor() *Cursor {
	cur := &Cursor{col: c, remaining: c.length}
	if c.length > 0 {
		cur.chunk, cur.pos = c.locate(c.offset)
	}
	return cur
}

// Next advances to the next row and reports whether one was available.
func (cur *Cursor) Next() bool {
	if cur.remaining == 0 {
		return false
	}
	chunks := cur.col.chunks
	for cur.pos >= chunks[cur.chunk].Len() {
		cur.chunk++
		cur.pos = 0
	}
	cur.value, cur.valid = value(chunks[cur.chunk], cur.pos)
	cur.pos++
	cur.remaining--
	return true
}

// Value returns the current row and whether it is present.
func (cur *Cursor) Value() (float64, bool) {
	return cur.value, cur.valid
}
