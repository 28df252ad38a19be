//go:build wasm

package main

import (
	"syscall/js"
)

func main() {
	// Export functions to JavaScript
	js.Global().Set("AitagsNewScanner", js.FuncOf(newScanner))
	js.Global().Set("AitagsScan", js.FuncOf(scan))
	js.Global().Set("AitagsParseSyncPayload", js.FuncOf(parseSyncPayload))
	js.Global().Set("AitagsCloseScanner", js.FuncOf(closeScanner))

	// Keep WASM running
	<-make(chan struct{})
}
