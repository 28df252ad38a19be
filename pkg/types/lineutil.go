package types

import "strings"

// SplitLines splits content into lines the way editors address them.
// "\n" and "\r\n" terminate lines; a trailing terminator yields a final
// empty line. Empty content is a single empty line.
func SplitLines(content []byte) []string {
	lines := strings.Split(string(content), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
