package explore

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestListCursor_Navigate(t *testing.T) {
	tests := []struct {
		name       string
		start      listCursor
		msg        tea.KeyMsg
		wantCursor int
		wantOffset int
		handled    bool
	}{
		{"down", listCursor{}, runeKey("j"), 1, 0, true},
		{"up at top stays", listCursor{}, runeKey("k"), 0, 0, true},
		{"down scrolls", listCursor{cursor: 2}, tea.KeyMsg{Type: tea.KeyDown}, 3, 1, true},
		{"end", listCursor{}, runeKey("G"), 9, 7, true},
		{"home", listCursor{cursor: 9, offset: 7}, runeKey("g"), 0, 0, true},
		{"page down clamps", listCursor{cursor: 8, offset: 6}, tea.KeyMsg{Type: tea.KeyPgDown}, 9, 7, true},
		{"not navigation", listCursor{cursor: 4, offset: 2}, runeKey("s"), 4, 2, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := tt.start

			handled := c.navigate(tt.msg, 10, 3)

			assert.Equal(t, tt.handled, handled)
			assert.Equal(t, tt.wantCursor, c.cursor)
			assert.Equal(t, tt.wantOffset, c.offset)
		})
	}
}

func TestListCursor_EmptyList(t *testing.T) {
	c := listCursor{cursor: 3, offset: 2}

	c.clamp(0, 5)

	assert.Equal(t, 0, c.cursor)
	assert.Equal(t, 0, c.offset)
	start, end := c.window(0, 5)
	assert.Equal(t, 0, start)
	assert.Equal(t, 0, end)
}
