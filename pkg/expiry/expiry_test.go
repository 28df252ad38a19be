package expiry

import (
	"math"
	"testing"
	"time"

	"github.com/praetorian-inc/aitags/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func expiryTag(payload string) types.TagEntry {
	raw := "@AI:EXPIRY " + payload
	return types.TagEntry{
		Kind:      types.KindExpiry,
		Payload:   payload,
		Raw:       raw,
		Line:      3,
		StartChar: 3,
		EndChar:   3 + len(raw),
	}
}

func TestParsePayload(t *testing.T) {
	tests := []struct {
		name       string
		payload    string
		wantStatus types.ExpiryStatus
		wantAt     time.Time
		wantTZ     string
	}{
		{
			name:       "date only defaults to UTC",
			payload:    "2025-03-10",
			wantStatus: types.ExpiryOK,
			wantAt:     time.Date(2025, 3, 10, 23, 59, 59, 999_000_000, time.UTC),
			wantTZ:     "UTC",
		},
		{
			name:       "KST shifts to 14:59:59.999 UTC",
			payload:    "2025-03-10 KST",
			wantStatus: types.ExpiryOK,
			wantAt:     time.Date(2025, 3, 10, 14, 59, 59, 999_000_000, time.UTC),
			wantTZ:     "KST",
		},
		{
			name:       "timezone is case-insensitive",
			payload:    "2025-03-10 kst",
			wantStatus: types.ExpiryOK,
			wantAt:     time.Date(2025, 3, 10, 14, 59, 59, 999_000_000, time.UTC),
			wantTZ:     "KST",
		},
		{
			name:       "leap day",
			payload:    "2024-02-29",
			wantStatus: types.ExpiryOK,
			wantAt:     time.Date(2024, 2, 29, 23, 59, 59, 999_000_000, time.UTC),
			wantTZ:     "UTC",
		},
		{name: "impossible day", payload: "2025-02-30", wantStatus: types.ExpiryInvalid},
		{name: "non leap year", payload: "2023-02-29", wantStatus: types.ExpiryInvalid},
		{name: "month 13", payload: "2025-13-01", wantStatus: types.ExpiryInvalid},
		{name: "unsupported timezone", payload: "2025-03-10 PST", wantStatus: types.ExpiryInvalid},
		{name: "bad date shape", payload: "2025/03/10", wantStatus: types.ExpiryInvalid},
		{name: "single digit month", payload: "2025-3-10", wantStatus: types.ExpiryInvalid},
		{name: "empty payload", payload: "", wantStatus: types.ExpiryInvalid},
		{name: "too many tokens", payload: "2025-03-10 UTC extra", wantStatus: types.ExpiryInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParsePayload(tt.payload)
			require.Equal(t, tt.wantStatus, got.Status)
			if tt.wantStatus == types.ExpiryInvalid {
				assert.Equal(t, ReasonFormatInvalid, got.Reason)
				return
			}
			assert.True(t, tt.wantAt.Equal(got.ExpiresAt), "expires at %s, want %s", got.ExpiresAt, tt.wantAt)
			assert.Equal(t, tt.wantTZ, got.Timezone)
		})
	}
}

func TestEvaluate_Boundary(t *testing.T) {
	cfg := DefaultConfig()
	tags := []types.TagEntry{expiryTag("2025-03-10")}
	deadline := time.Date(2025, 3, 10, 23, 59, 59, 999_000_000, time.UTC)

	// At the deadline: still live
	assert.Empty(t, Evaluate(tags, cfg, deadline, "a.go"))

	// One instant after: expired
	findings := Evaluate(tags, cfg, deadline.Add(time.Nanosecond), "a.go")
	require.Len(t, findings, 1)
	assert.Equal(t, "@AI:EXPIRY expired on 2025-03-10 UTC", findings[0].Message)
	assert.Equal(t, types.SeverityWarning, findings[0].Severity)
	assert.Equal(t, tags[0].Span(), findings[0].Span)
	assert.Equal(t, "a.go", findings[0].Path)
}

func TestEvaluate_KSTBoundary(t *testing.T) {
	tags := []types.TagEntry{expiryTag("2025-03-10 KST")}
	deadline := time.Date(2025, 3, 10, 14, 59, 59, 999_000_000, time.UTC)

	assert.Empty(t, Evaluate(tags, DefaultConfig(), deadline, ""))

	findings := Evaluate(tags, DefaultConfig(), deadline.Add(time.Millisecond), "")
	require.Len(t, findings, 1)
	assert.Equal(t, "@AI:EXPIRY expired on 2025-03-10 KST", findings[0].Message)
}

func TestEvaluate_GraceDays(t *testing.T) {
	cfg := Config{Enabled: true, WarnOnInvalid: true, GraceDays: 2}
	tags := []types.TagEntry{expiryTag("2025-03-10")}
	graced := time.Date(2025, 3, 12, 23, 59, 59, 999_000_000, time.UTC)

	assert.Empty(t, Evaluate(tags, cfg, graced, ""))

	findings := Evaluate(tags, cfg, graced.Add(time.Nanosecond), "")
	require.Len(t, findings, 1)
	// Display uses the un-graced date
	assert.Equal(t, "@AI:EXPIRY expired on 2025-03-10 UTC", findings[0].Message)
}

func TestEvaluate_NegativeGraceIgnored(t *testing.T) {
	cfg := Config{Enabled: true, GraceDays: -5}
	tags := []types.TagEntry{expiryTag("2025-03-10")}
	deadline := time.Date(2025, 3, 10, 23, 59, 59, 999_000_000, time.UTC)

	assert.Empty(t, Evaluate(tags, cfg, deadline, ""))
	assert.Len(t, Evaluate(tags, cfg, deadline.Add(time.Nanosecond), ""), 1)
}

func TestEvaluate_Invalid(t *testing.T) {
	now := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	tags := []types.TagEntry{expiryTag("2025-02-30"), expiryTag("2025-03-10 PST")}

	findings := Evaluate(tags, DefaultConfig(), now, "")
	require.Len(t, findings, 2)
	assert.Equal(t, "@AI:EXPIRY format invalid. Use YYYY-MM-DD [TZ]", findings[0].Message)
	assert.Equal(t, "@AI:EXPIRY format invalid. Use YYYY-MM-DD [TZ]", findings[1].Message)

	quiet := Config{Enabled: true, WarnOnInvalid: false}
	assert.Empty(t, Evaluate(tags, quiet, now, ""))
}

func TestEvaluate_TemplatePlaceholderSkipped(t *testing.T) {
	now := time.Date(2099, 1, 1, 0, 0, 0, 0, time.UTC)
	tags := []types.TagEntry{
		expiryTag("${EXPIRY_DATE}"),
		expiryTag("2020-01-01 ${TZ}"),
		expiryTag("not-a-date ${x}"),
	}

	assert.Empty(t, Evaluate(tags, DefaultConfig(), now, ""))
}

func TestEvaluate_DisabledAndOtherKinds(t *testing.T) {
	now := time.Date(2099, 1, 1, 0, 0, 0, 0, time.UTC)
	tags := []types.TagEntry{
		expiryTag("2020-01-01"),
		{Kind: types.KindSync, Payload: "2020-01-01"},
	}

	assert.Empty(t, Evaluate(tags, Config{Enabled: false, WarnOnInvalid: true}, now, ""))
	assert.Len(t, Evaluate(tags, DefaultConfig(), now, ""), 1)
}

func TestDeadline(t *testing.T) {
	at := time.Date(2025, 3, 10, 23, 59, 59, 0, time.UTC)

	assert.Equal(t, at, Deadline(at, 0))
	assert.Equal(t, at.Add(72*time.Hour), Deadline(at, 3))
}

func TestEvaluate_HugeGraceDays(t *testing.T) {
	// Arrange
	tags := []types.TagEntry{expiryTag("2020-01-01")}
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	expiresAt := time.Date(2020, 1, 1, 23, 59, 59, 999_000_000, time.UTC)

	for _, grace := range []int{106_752, 200_000, math.MaxInt32, math.MaxInt} {
		cfg := Config{Enabled: true, WarnOnInvalid: true, GraceDays: grace}

		// Act
		findings := Evaluate(tags, cfg, now, "")

		// Assert
		assert.Empty(t, findings, "grace %d", grace)
		assert.True(t, Deadline(expiresAt, grace).After(expiresAt), "grace %d", grace)
	}
}
