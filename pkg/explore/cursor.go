package explore

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// listCursor is the selection and scroll state shared by the list panes.
type listCursor struct {
	cursor int
	offset int
}

// navigate applies a navigation key for a list of n items with visible rows
// on screen. It reports whether msg was a navigation key.
func (c *listCursor) navigate(msg tea.KeyMsg, n, visible int) bool {
	switch {
	case key.Matches(msg, defaultKeys.Up):
		c.cursor--
	case key.Matches(msg, defaultKeys.Down):
		c.cursor++
	case key.Matches(msg, defaultKeys.PageUp):
		c.cursor -= visible
	case key.Matches(msg, defaultKeys.PageDown):
		c.cursor += visible
	case key.Matches(msg, defaultKeys.Home):
		c.cursor = 0
	case key.Matches(msg, defaultKeys.End):
		c.cursor = n - 1
	default:
		return false
	}
	c.clamp(n, visible)
	return true
}

// clamp keeps the cursor inside [0, n) and scrolls it into view.
func (c *listCursor) clamp(n, visible int) {
	c.cursor = max(0, min(c.cursor, n-1))
	if c.cursor < c.offset {
		c.offset = c.cursor
	}
	if c.cursor >= c.offset+visible {
		c.offset = c.cursor - visible + 1
	}
}

// window returns the [start, end) range of items to draw.
func (c listCursor) window(n, visible int) (int, int) {
	return c.offset, min(c.offset+visible, n)
}
