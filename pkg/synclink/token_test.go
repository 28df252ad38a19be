package synclink

import (
	"testing"

	"github.com/praetorian-inc/aitags/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestSplitPayload(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    []string
	}{
		{
			name:    "comma mode despite colons and hashes",
			payload: "src/a.ts, src/b.ts:L5, src/c.ts#Foo.bar",
			want:    []string{"src/a.ts", "src/b.ts:L5", "src/c.ts#Foo.bar"},
		},
		{
			name:    "whitespace mode",
			payload: "  a.ts   b.ts\tc.ts ",
			want:    []string{"a.ts", "b.ts", "c.ts"},
		},
		{
			name:    "comma mode keeps inner spaces",
			payload: "my file.ts, other.ts",
			want:    []string{"my file.ts", "other.ts"},
		},
		{
			name:    "empty comma segments dropped",
			payload: ", a.ts,, ",
			want:    []string{"a.ts"},
		},
		{
			name:    "empty payload",
			payload: "   ",
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitPayload(tt.payload))
		})
	}
}

func TestParseLineRange(t *testing.T) {
	got, ok := ParseLineRange("file.ts:L10-L20")
	require.True(t, ok)
	assert.Equal(t, types.ParsedSyncToken{FilePath: "file.ts", LineRange: &types.LineRange{Start: 10, End: intPtr(20)}}, got)

	got, ok = ParseLineRange("file.ts:l10")
	require.True(t, ok)
	assert.Equal(t, types.ParsedSyncToken{FilePath: "file.ts", LineRange: &types.LineRange{Start: 10}}, got)

	got, ok = ParseLineRange("file.ts:L3-7")
	require.True(t, ok)
	assert.Equal(t, &types.LineRange{Start: 3, End: intPtr(7)}, got.LineRange)

	got, ok = ParseLineRange("file.ts:L3-l7")
	require.True(t, ok)
	assert.Equal(t, &types.LineRange{Start: 3, End: intPtr(7)}, got.LineRange)

	_, ok = ParseLineRange("file.ts")
	assert.False(t, ok)

	_, ok = ParseLineRange("file.ts:L10x")
	assert.False(t, ok)

	_, ok = ParseLineRange("file.ts:L99999999999999999999999")
	assert.False(t, ok)
}

func TestParseSymbol(t *testing.T) {
	got, ok := ParseSymbol("file.ts#Foo.bar")
	require.True(t, ok)
	assert.Equal(t, types.ParsedSyncToken{FilePath: "file.ts", Symbol: "Foo.bar"}, got)

	_, ok = ParseSymbol("file.ts#")
	assert.False(t, ok)

	_, ok = ParseSymbol("file.ts#foo-bar")
	assert.False(t, ok)
}

func TestParseToken(t *testing.T) {
	tests := []struct {
		token string
		want  types.ParsedSyncToken
	}{
		{"a.ts", types.ParsedSyncToken{FilePath: "a.ts"}},
		{"a.ts:L5", types.ParsedSyncToken{FilePath: "a.ts", LineRange: &types.LineRange{Start: 5}}},
		{"a.ts#hello", types.ParsedSyncToken{FilePath: "a.ts", Symbol: "hello"}},
		// Line range wins: the symbol-looking part stays in the path
		{"a.ts#Foo:L10", types.ParsedSyncToken{FilePath: "a.ts#Foo", LineRange: &types.LineRange{Start: 10}}},
		{"dir/", types.ParsedSyncToken{FilePath: "dir/"}},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseToken(tt.token))
		})
	}
}
