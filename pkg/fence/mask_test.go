package fence

import (
	"strings"
	"testing"

	"github.com/praetorian-inc/aitags/pkg/document"
	"github.com/stretchr/testify/assert"
)

func docOf(lines ...string) document.Document {
	return document.New("/ws/README.md", []byte(strings.Join(lines, "\n")))
}

func TestBuildMask(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  []bool
	}{
		{
			name:  "backtick fence wrapping lines 2-3",
			lines: []string{"```ts", "// @AI:SYNC a.ts", "const a = 1", "```", "outro"},
			want:  []bool{false, true, true, false, false},
		},
		{
			name:  "fence opening after prose",
			lines: []string{"intro", "```", "x", "```", "outro"},
			want:  []bool{false, false, true, false, false},
		},
		{
			name:  "no fences",
			lines: []string{"a", "b"},
			want:  []bool{false, false},
		},
		{
			name:  "tilde line does not close backtick fence",
			lines: []string{"```", "x", "~~~", "y", "```", "z"},
			want:  []bool{false, true, true, true, false, false},
		},
		{
			name:  "unterminated fence masks the rest",
			lines: []string{"a", "~~~~", "b", "c"},
			want:  []bool{false, false, true, true},
		},
		{
			name:  "indented fence with longer run",
			lines: []string{"  ````", "x", "   ```", "y"},
			want:  []bool{false, true, false, false},
		},
		{
			name:  "two backticks are not a fence",
			lines: []string{"``", "x"},
			want:  []bool{false, false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildMask(docOf(tt.lines...)))
		})
	}
}
