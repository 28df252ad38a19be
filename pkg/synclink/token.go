// Package synclink parses "@AI:SYNC" payloads and resolves their targets
// inside the workspace sandbox.
package synclink

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/praetorian-inc/aitags/pkg/types"
)

var (
	lineRangePattern = regexp.MustCompile(`(?i):L(\d+)(?:-L?(\d+))?$`)
	symbolPattern    = regexp.MustCompile(`#([\w.]+)$`)
)

// SplitPayload splits a payload into tokens. A comma anywhere switches the
// whole payload to comma separation; otherwise whitespace separates tokens.
func SplitPayload(payload string) []string {
	var parts []string
	if strings.Contains(payload, ",") {
		parts = strings.Split(payload, ",")
	} else {
		parts = strings.Fields(payload)
	}

	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tokens = append(tokens, p)
		}
	}
	return tokens
}

// ParseLineRange parses a trailing ":L10" or ":L10-L20" suffix.
func ParseLineRange(token string) (types.ParsedSyncToken, bool) {
	loc := lineRangePattern.FindStringSubmatchIndex(token)
	if loc == nil {
		return types.ParsedSyncToken{}, false
	}

	start, err := strconv.Atoi(token[loc[2]:loc[3]])
	if err != nil {
		return types.ParsedSyncToken{}, false
	}

	lr := &types.LineRange{Start: start}
	if loc[4] != -1 {
		end, err := strconv.Atoi(token[loc[4]:loc[5]])
		if err != nil {
			return types.ParsedSyncToken{}, false
		}
		lr.End = &end
	}

	return types.ParsedSyncToken{FilePath: token[:loc[0]], LineRange: lr}, true
}

// ParseSymbol parses a trailing "#name" or "#Outer.inner" suffix.
func ParseSymbol(token string) (types.ParsedSyncToken, bool) {
	loc := symbolPattern.FindStringSubmatchIndex(token)
	if loc == nil {
		return types.ParsedSyncToken{}, false
	}
	return types.ParsedSyncToken{
		FilePath: token[:loc[0]],
		Symbol:   token[loc[2]:loc[3]],
	}, true
}

// ParseToken splits a token into path and suffix. A line range takes
// precedence over a symbol; a token with neither is all path.
func ParseToken(token string) types.ParsedSyncToken {
	if parsed, ok := ParseLineRange(token); ok {
		return parsed
	}
	if parsed, ok := ParseSymbol(token); ok {
		return parsed
	}
	return types.ParsedSyncToken{FilePath: token}
}
