package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name    string
		content []byte
		want    []string
	}{
		{
			name:    "empty content",
			content: []byte{},
			want:    []string{""},
		},
		{
			name:    "single line without terminator",
			content: []byte("hello"),
			want:    []string{"hello"},
		},
		{
			name:    "trailing newline yields empty last line",
			content: []byte("a\nb\n"),
			want:    []string{"a", "b", ""},
		},
		{
			name:    "crlf terminators",
			content: []byte("a\r\nb\r\nc"),
			want:    []string{"a", "b", "c"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitLines(tt.content))
		})
	}
}
