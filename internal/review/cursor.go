package review

// Cursor is a position in an ordered item list. It only moves forward and is
// Done once Index reaches Total.
type Cursor struct {
	index int
	total int
}

// NewCursor returns a cursor at the first of total items.
func NewCursor(total int) Cursor {
	if total < 0 {
		total = 0
	}
	return Cursor{total: total}
}

// Index is the zero-based position of the current item.
func (c Cursor) Index() int { return c.index }

// Total is the list length.
func (c Cursor) Total() int { return c.total }

// Done reports whether every item has been handled.
func (c Cursor) Done() bool { return c.index >= c.total }

// Remaining is the number of items not yet handled, including the current one.
func (c Cursor) Remaining() int {
	if c.Done() {
		return 0
	}
	return c.total - c.index
}

// Next returns the cursor advanced by one. A Done cursor is returned unchanged.
func (c Cursor) Next() Cursor {
	if c.Done() {
		return c
	}
	return Cursor{index: c.index + 1, total: c.total}
}
