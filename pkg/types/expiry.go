package types

import "time"

// ExpiryStatus discriminates ExpiryResult.
type ExpiryStatus string

const (
	ExpiryOK      ExpiryStatus = "ok"
	ExpiryInvalid ExpiryStatus = "invalid"
)

// ExpiryResult is a parsed expiry payload.
// ExpiresAt, Timezone and Date are set for ExpiryOK; Reason for ExpiryInvalid.
type ExpiryResult struct {
	Status    ExpiryStatus `json:"status"`
	ExpiresAt time.Time    `json:"expires_at,omitempty"`
	Timezone  string       `json:"timezone,omitempty"`
	// Date is the calendar date as written, YYYY-MM-DD.
	Date   string `json:"date,omitempty"`
	Reason string `json:"reason,omitempty"`
}
