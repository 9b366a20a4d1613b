package app

import "olympiad-service/internal/domain"

// Cursor is the currently displayed question position.
type Cursor struct {
	index int
	count int
}

func NewCursor(count int) *Cursor {
	return &Cursor{count: count}
}

func (c *Cursor) Index() int { return c.index }

// IsLast reports whether there is no question after the cursor.
func (c *Cursor) IsLast() bool { return c.index >= c.count-1 }

// Next moves forward and reports whether it moved. On the last question it
// stays put; the session treats that as a completion request.
func (c *Cursor) Next() bool {
	if c.IsLast() {
		return false
	}
	c.index++
	return true
}

// Previous is a no-op on the first question.
func (c *Cursor) Previous() bool {
	if c.index == 0 {
		return false
	}
	c.index--
	return true
}

func (c *Cursor) JumpTo(index int) error {
	if index < 0 || index >= c.count {
		return domain.ErrInvalidIndex
	}
	c.index = index
	return nil
}
