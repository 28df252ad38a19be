package serve

import (
	"encoding/json"

	"github.com/praetorian-inc/aitags/pkg/types"
)

// Request represents an incoming NDJSON request
type Request struct {
	Type    string          `json:"type"` // "scan" | "resolve" | "locate" | "close"
	Payload json.RawMessage `json:"payload"`
}

// ScanPayload is the payload for "scan" requests. Content is the unsaved
// editor text of the document at Path.
type ScanPayload struct {
	Path       string `json:"path"`
	Content    string `json:"content"`
	LanguageID string `json:"languageId,omitempty"`
}

// ScanResult is the data of a "scan" response.
type ScanResult struct {
	Path     string           `json:"path"`
	Tags     []types.TagEntry `json:"tags"`
	Findings []*types.Finding `json:"findings"`
}

// ResolvePayload is the payload for "resolve" requests.
type ResolvePayload struct {
	Path              string `json:"path"`
	Content           string `json:"content"`
	Payload           string `json:"payload"`
	ExpandDirectories bool   `json:"expandDirectories,omitempty"`
}

// LocatePayload is the payload for "locate" requests.
type LocatePayload struct {
	Path   string `json:"path"`
	Symbol string `json:"symbol"`
}

// Response represents an outgoing NDJSON response
type Response struct {
	Success bool            `json:"success"`
	Type    string          `json:"type"` // "ready" | "scan" | "resolve" | "locate" | "decode" | "unknown"
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// ReadyData is the data field for "ready" responses
type ReadyData struct {
	Version string `json:"version"`
}
