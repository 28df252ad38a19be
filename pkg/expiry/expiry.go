// Package expiry evaluates "@AI:EXPIRY <YYYY-MM-DD> [TZ]" tags.
package expiry

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/praetorian-inc/aitags/pkg/types"
)

// ReasonFormatInvalid is reported for any payload that cannot be parsed.
const ReasonFormatInvalid = "format invalid. Use YYYY-MM-DD [TZ]"

// DefaultTimezone applies when the payload names none.
const DefaultTimezone = "UTC"

var datePattern = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)

// timezoneOffsets holds the supported timezones and their UTC offsets in hours.
var timezoneOffsets = map[string]int{
	"UTC": 0,
	"KST": 9,
}

// Config controls evaluation.
type Config struct {
	Enabled       bool `json:"enabled" yaml:"enabled" mapstructure:"enabled"`
	WarnOnInvalid bool `json:"warnOnInvalid" yaml:"warnOnInvalid" mapstructure:"warnOnInvalid"`
	// GraceDays extends every deadline. Negative values are treated as 0.
	GraceDays int `json:"graceDays" yaml:"graceDays" mapstructure:"graceDays"`
}

// DefaultConfig returns the configuration used when none is supplied.
func DefaultConfig() Config {
	return Config{Enabled: true, WarnOnInvalid: true, GraceDays: 0}
}

// ParsePayload parses an expiry payload. The expiry instant is the last
// millisecond of the date in the named timezone.
func ParsePayload(payload string) types.ExpiryResult {
	tokens := strings.Fields(payload)
	if len(tokens) < 1 || len(tokens) > 2 {
		return invalid(ReasonFormatInvalid)
	}

	dateText := tokens[0]
	timezone := DefaultTimezone
	if len(tokens) == 2 {
		timezone = strings.ToUpper(tokens[1])
	}

	expiresAt, ok := toExpiryInstant(dateText, timezone)
	if !ok {
		return invalid(ReasonFormatInvalid)
	}

	return types.ExpiryResult{
		Status:    types.ExpiryOK,
		ExpiresAt: expiresAt,
		Timezone:  timezone,
		Date:      dateText,
	}
}

func invalid(reason string) types.ExpiryResult {
	return types.ExpiryResult{Status: types.ExpiryInvalid, Reason: reason}
}

func toExpiryInstant(dateText, timezone string) (time.Time, bool) {
	m := datePattern.FindStringSubmatch(dateText)
	if m == nil {
		return time.Time{}, false
	}

	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])
	if !isValidDayInMonth(year, month, day) {
		return time.Time{}, false
	}

	offset, ok := timezoneOffsets[timezone]
	if !ok {
		return time.Time{}, false
	}

	// time.Date normalizes a negative hour into the previous day.
	return time.Date(year, time.Month(month), day, 23-offset, 59, 59, int(999*time.Millisecond), time.UTC), true
}

// isValidDayInMonth rejects dates time.Date would normalize (Feb 30 and so on).
func isValidDayInMonth(year, month, day int) bool {
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return t.Year() == year && int(t.Month()) == month && t.Day() == day
}

// maxGraceDays caps the grace window at roughly a million years, far beyond
// any real deadline and well inside time.Time's range.
const maxGraceDays = 366_000_000

// Deadline returns the instant after which an expiry is reported.
func Deadline(expiresAt time.Time, graceDays int) time.Time {
	if graceDays <= 0 {
		return expiresAt
	}
	return expiresAt.AddDate(0, 0, min(graceDays, maxGraceDays))
}

// Evaluate returns findings for expired or malformed expiry tags.
// Tags of other kinds are ignored, as are payloads holding an unresolved
// "${...}" template placeholder.
func Evaluate(tags []types.TagEntry, cfg Config, now time.Time, path string) []*types.Finding {
	if !cfg.Enabled {
		return nil
	}

	var findings []*types.Finding
	for _, tag := range tags {
		switch tag.Kind {
		case types.KindExpiry:
		case types.KindSync:
			continue
		default:
			panic(fmt.Sprintf("expiry: unknown tag kind %q", string(tag.Kind)))
		}

		if strings.Contains(tag.Payload, "${") {
			continue
		}

		parsed := ParsePayload(tag.Payload)
		switch parsed.Status {
		case types.ExpiryInvalid:
			if !cfg.WarnOnInvalid {
				continue
			}
			findings = append(findings, types.NewFinding(tag, path, fmt.Sprintf("%s %s", types.KindExpiry.Key(), parsed.Reason)))

		case types.ExpiryOK:
			if !now.After(Deadline(parsed.ExpiresAt, cfg.GraceDays)) {
				continue
			}
			findings = append(findings, types.NewFinding(tag, path,
				fmt.Sprintf("%s expired on %s %s", types.KindExpiry.Key(), parsed.Date, parsed.Timezone)))
		}
	}

	return findings
}
