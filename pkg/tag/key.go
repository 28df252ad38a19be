// Package tag finds "@AI:<NAME>" annotations inside source comments.
//
// Comment detection is a line-local heuristic: a tag counts when a comment
// introducer ("//", "#", an open "/*" or an open "<!--") precedes it on the
// same line. No language tokenization is attempted.
package tag

import (
	"regexp"
	"strings"

	"github.com/praetorian-inc/aitags/pkg/types"
)

var (
	keyPattern = regexp.MustCompile(`@AI:([A-Z_]+)\b`)
	tagPattern = regexp.MustCompile(`@AI:([A-Z_]+)\b(.*)$`)
)

// Key is a comment-qualified tag key occurrence on a line.
type Key struct {
	TagKey    string
	Line      int
	StartChar int
	EndChar   int
}

// ParseKey locates the tag key on a line. The key must follow a comment
// introducer on the same line; the name is any run of [A-Z_].
func ParseKey(lineText string, line int) (Key, bool) {
	tagIndex := strings.Index(lineText, types.TagPrefix)
	if tagIndex == -1 {
		return Key{}, false
	}

	if findCommentStart(lineText, tagIndex) == -1 {
		return Key{}, false
	}

	loc := keyPattern.FindStringSubmatchIndex(lineText[tagIndex:])
	if loc == nil {
		return Key{}, false
	}

	tagKey := types.TagPrefix + lineText[tagIndex+loc[2]:tagIndex+loc[3]]
	if len(tagKey) <= len(types.TagPrefix) {
		return Key{}, false
	}

	startChar := tagIndex + loc[0]
	return Key{
		TagKey:    tagKey,
		Line:      line,
		StartChar: startChar,
		EndChar:   startChar + len(tagKey),
	}, true
}

// findCommentStart returns the index of the nearest comment opener before
// tagIndex, or -1. Block and HTML openers closed before the tag don't count.
func findCommentStart(lineText string, tagIndex int) int {
	before := lineText[:tagIndex]

	lineComment := strings.LastIndex(before, "//")
	hash := strings.LastIndex(before, "#")
	block := strings.LastIndex(before, "/*")
	html := strings.LastIndex(before, "<!--")

	if block != -1 && closedBefore(lineText, block+len("/*"), "*/", tagIndex) {
		block = -1
	}
	if html != -1 && closedBefore(lineText, html+len("<!--"), "-->", tagIndex) {
		html = -1
	}

	return max(lineComment, hash, block, html)
}

// closedBefore reports whether the first closer at or after from starts
// before limit.
func closedBefore(lineText string, from int, closer string, limit int) bool {
	idx := strings.Index(lineText[from:], closer)
	return idx != -1 && from+idx < limit
}
