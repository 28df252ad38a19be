//go:build wasm

package main

import (
	"encoding/json"
	"sync"
	"syscall/js"
	"time"

	"github.com/praetorian-inc/aitags/pkg/document"
	"github.com/praetorian-inc/aitags/pkg/expiry"
	"github.com/praetorian-inc/aitags/pkg/synclink"
	"github.com/praetorian-inc/aitags/pkg/tag"
	"github.com/praetorian-inc/aitags/pkg/types"
)

// The browser has no workspace to resolve against, so scanners here
// report tags and expiry findings only. Sync payloads can be parsed.
var (
	scanners   = make(map[int]expiry.Config)
	scannersMu sync.RWMutex
	nextID     int
)

// scanResult is the JSON shape returned by AitagsScan.
type scanResult struct {
	Tags     []types.TagEntry `json:"tags"`
	Findings []*types.Finding `json:"findings"`
}

// newScanner creates a scanner with the given expiry settings JSON.
// An empty string selects the defaults.
// JS: AitagsNewScanner(expiryConfigJSON) -> handle (int) or error string
func newScanner(this js.Value, args []js.Value) interface{} {
	cfg := expiry.DefaultConfig()
	if len(args) > 0 && args[0].String() != "" {
		if err := json.Unmarshal([]byte(args[0].String()), &cfg); err != nil {
			return map[string]interface{}{"error": "failed to parse config JSON: " + err.Error()}
		}
	}
	if cfg.GraceDays < 0 {
		cfg.GraceDays = 0
	}

	scannersMu.Lock()
	id := nextID
	nextID++
	scanners[id] = cfg
	scannersMu.Unlock()

	return map[string]interface{}{"handle": id}
}

// scan scans a single document.
// JS: AitagsScan(handle, content, path) -> JSON results or error
func scan(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return map[string]interface{}{"error": "handle and content arguments required"}
	}

	handle := args[0].Int()
	content := args[1].String()
	path := ""
	if len(args) > 2 {
		path = args[2].String()
	}

	scannersMu.RLock()
	cfg, ok := scanners[handle]
	scannersMu.RUnlock()

	if !ok {
		return map[string]interface{}{"error": "invalid scanner handle"}
	}

	return marshal(scanContent(cfg, path, content, time.Now()))
}

func scanContent(cfg expiry.Config, path, content string, now time.Time) scanResult {
	tags := tag.ScanDocument(document.New(path, []byte(content)))
	result := scanResult{
		Tags:     tags,
		Findings: expiry.Evaluate(tags, cfg, now, path),
	}
	if result.Tags == nil {
		result.Tags = []types.TagEntry{}
	}
	if result.Findings == nil {
		result.Findings = []*types.Finding{}
	}
	return result
}

// parseSyncPayload splits a sync payload into parsed tokens.
// JS: AitagsParseSyncPayload(payload) -> JSON tokens
func parseSyncPayload(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return map[string]interface{}{"error": "payload argument required"}
	}
	return marshal(parseTokens(args[0].String()))
}

func parseTokens(payload string) []types.ParsedSyncToken {
	tokens := []types.ParsedSyncToken{}
	for _, token := range synclink.SplitPayload(payload) {
		tokens = append(tokens, synclink.ParseToken(token))
	}
	return tokens
}

// closeScanner releases a scanner handle.
// JS: AitagsCloseScanner(handle)
func closeScanner(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return map[string]interface{}{"error": "handle argument required"}
	}

	handle := args[0].Int()

	scannersMu.Lock()
	_, ok := scanners[handle]
	if ok {
		delete(scanners, handle)
	}
	scannersMu.Unlock()

	if !ok {
		return map[string]interface{}{"error": "invalid scanner handle"}
	}
	return nil
}

func marshal(v any) interface{} {
	jsonBytes, err := json.Marshal(v)
	if err != nil {
		return map[string]interface{}{"error": "failed to marshal results: " + err.Error()}
	}
	return string(jsonBytes)
}
