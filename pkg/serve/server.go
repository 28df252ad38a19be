// Package serve answers scan, resolve and locate requests over NDJSON
// streams, one request per line, for editor integrations.
package serve

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/praetorian-inc/aitags/pkg/document"
	"github.com/praetorian-inc/aitags/pkg/scanner"
	"github.com/praetorian-inc/aitags/pkg/symbol"
	"github.com/praetorian-inc/aitags/pkg/synclink"
	"github.com/praetorian-inc/aitags/pkg/tag"
	"github.com/praetorian-inc/aitags/pkg/types"
)

// Version is the server protocol version
const Version = "1.0.0"

const (
	initialLineBuffer = 64 * 1024
	// maxLineSize bounds a single request, including inline document content.
	maxLineSize = 64 * 1024 * 1024
)

var errNoLocator = errors.New("symbol lookup is not configured")

// Server manages the streaming scanner
type Server struct {
	core     *scanner.Core
	resolver *synclink.Resolver
	locator  *symbol.Locator
	logger   *zap.Logger
	encoder  *json.Encoder
	in       io.Reader
}

// Option configures a Server.
type Option func(*Server)

// WithSymbolLocator enables "locate" requests.
func WithSymbolLocator(locator *symbol.Locator) Option {
	return func(s *Server) {
		s.locator = locator
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new streaming server
func NewServer(core *scanner.Core, resolver *synclink.Resolver, in io.Reader, out io.Writer, opts ...Option) *Server {
	s := &Server{
		core:     core,
		resolver: resolver,
		logger:   zap.NewNop(),
		encoder:  json.NewEncoder(out),
		in:       in,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run starts the server main loop. It returns nil when the input closes, a
// close request arrives or ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	// Send ready signal
	s.sendReady()

	// Stops the reader once Run returns.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan []byte)
	readErr := make(chan error, 1)

	go func() {
		defer close(lines)
		sc := bufio.NewScanner(s.in)
		sc.Buffer(make([]byte, 0, initialLineBuffer), maxLineSize)
		for sc.Scan() {
			line := bytes.TrimSpace(sc.Bytes())
			if len(line) == 0 {
				continue
			}
			select {
			case lines <- bytes.Clone(line):
			case <-ctx.Done():
				readErr <- nil
				return
			}
		}
		readErr <- sc.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("server stopped", zap.Error(ctx.Err()))
			return nil
		case line, ok := <-lines:
			if !ok {
				if err := <-readErr; err != nil {
					s.sendError("decode", err.Error())
					return fmt.Errorf("reading requests: %w", err)
				}
				return nil
			}
			var req Request
			if err := json.Unmarshal(line, &req); err != nil {
				s.sendError("decode", err.Error())
				continue
			}
			if s.processRequest(ctx, req) {
				return nil
			}
		}
	}
}

// processRequest handles a single request and returns true if the server should exit
func (s *Server) processRequest(ctx context.Context, req Request) bool {
	s.logger.Debug("request", zap.String("type", req.Type))

	switch req.Type {
	case "scan":
		s.handleScan(ctx, req.Payload)
	case "resolve":
		s.handleResolve(ctx, req.Payload)
	case "locate":
		s.handleLocate(ctx, req.Payload)
	case "close":
		s.send("close", struct{}{})
		return true
	default:
		s.sendError("unknown", "unknown request type: "+req.Type)
	}
	return false
}

func (s *Server) sendReady() {
	s.send("ready", ReadyData{Version: Version})
}

func (s *Server) handleScan(ctx context.Context, payload json.RawMessage) {
	var p ScanPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		s.sendError("scan", err.Error())
		return
	}

	doc := newDocument(p.Path, p.LanguageID, p.Content)
	result := ScanResult{
		Path:     p.Path,
		Tags:     tag.ScanDocument(doc),
		Findings: s.core.BuildFindings(ctx, doc),
	}
	if result.Tags == nil {
		result.Tags = []types.TagEntry{}
	}
	if result.Findings == nil {
		result.Findings = []*types.Finding{}
	}
	s.send("scan", result)
}

func (s *Server) handleResolve(ctx context.Context, payload json.RawMessage) {
	var p ResolvePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		s.sendError("resolve", err.Error())
		return
	}

	targets := s.resolver.ResolveTargets(ctx, newDocument(p.Path, "", p.Content), p.Payload, synclink.Options{
		ExpandDirectories: p.ExpandDirectories,
	})
	if targets == nil {
		targets = []types.ResolvedTarget{}
	}
	s.send("resolve", targets)
}

func (s *Server) handleLocate(ctx context.Context, payload json.RawMessage) {
	var p LocatePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		s.sendError("locate", err.Error())
		return
	}
	if s.locator == nil {
		s.sendError("locate", errNoLocator.Error())
		return
	}

	s.send("locate", s.locator.Locate(ctx, p.Path, p.Symbol))
}

func newDocument(path, languageID, content string) document.Document {
	if languageID != "" {
		return document.NewWithLanguage(path, languageID, []byte(content))
	}
	return document.New(path, []byte(content))
}

func (s *Server) send(reqType string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		s.sendError(reqType, err.Error())
		return
	}
	if err := s.encoder.Encode(Response{
		Success: true,
		Type:    reqType,
		Data:    data,
	}); err != nil {
		s.logger.Warn("writing response", zap.String("type", reqType), zap.Error(err))
	}
}

func (s *Server) sendError(reqType, msg string) {
	if err := s.encoder.Encode(Response{
		Success: false,
		Type:    reqType,
		Error:   msg,
	}); err != nil {
		s.logger.Warn("writing error response", zap.String("type", reqType), zap.Error(err))
	}
}
