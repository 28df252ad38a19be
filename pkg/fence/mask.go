// Package fence marks lines that sit inside markdown fenced code blocks.
package fence

import (
	"regexp"

	"github.com/praetorian-inc/aitags/pkg/document"
)

var fencePattern = regexp.MustCompile("^\\s*(```+|~~~+)")

// BuildMask returns one flag per document line, true for lines strictly
// inside a fenced block. Opening and closing fence lines are not masked.
// A fence only closes on a line starting with the same fence character;
// an unterminated fence masks the rest of the document.
func BuildMask(doc document.Document) []bool {
	count := doc.LineCount()
	mask := make([]bool, count)

	inFence := false
	var fenceChar byte

	for line := 0; line < count; line++ {
		if m := fencePattern.FindStringSubmatch(doc.Line(line)); m != nil {
			char := m[1][0]
			if !inFence {
				inFence = true
				fenceChar = char
				continue
			}
			if char == fenceChar {
				inFence = false
				fenceChar = 0
				continue
			}
		}

		if inFence {
			mask[line] = true
		}
	}

	return mask
}
