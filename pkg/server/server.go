package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/bastiangx/prefixserve/internal/logger"
	"github.com/bastiangx/prefixserve/pkg/config"
	"github.com/bastiangx/prefixserve/pkg/metrics"
	"github.com/bastiangx/prefixserve/pkg/suggest"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/time/rate"
)

// Server handles msgpack IPC for prefix suggestions
type Server struct {
	completer suggest.ICompleter
	metrics   *metrics.Metrics
	dec       *msgpack.Decoder
	enc       *msgpack.Encoder
	log       *log.Logger

	mu       sync.RWMutex
	settings config.ServerConfig
	limiter  *rate.Limiter
}

// NewServer creates a server reading requests from in and writing responses to out.
func NewServer(completer suggest.ICompleter, settings config.ServerConfig, in io.Reader, out io.Writer) *Server {
	s := &Server{
		completer: completer,
		dec:       msgpack.NewDecoder(in),
		enc:       msgpack.NewEncoder(out),
		log:       logger.New("server"),
	}
	s.ApplySettings(settings)
	return s
}

// SetMetrics makes the server count every request in m.
func (s *Server) SetMetrics(m *metrics.Metrics) {
	s.metrics = m
}

// ApplySettings swaps the active settings, adjusting the rate limiter in place.
func (s *Server) ApplySettings(settings config.ServerConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings = settings
	switch {
	case settings.RateLimit <= 0:
		s.limiter = nil
	case s.limiter == nil:
		s.limiter = rate.NewLimiter(rate.Limit(settings.RateLimit), max(settings.Burst, 1))
	default:
		s.limiter.SetLimit(rate.Limit(settings.RateLimit))
		s.limiter.SetBurst(max(settings.Burst, 1))
	}
}

// Settings returns the active settings.
func (s *Server) Settings() config.ServerConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// Serve announces readiness and answers requests until the input ends (nil)
// or ctx is done, which is checked between requests.
func (s *Server) Serve(ctx context.Context) error {
	s.log.Debug("Starting server")
	words := s.completer.Stats()["totalWords"]
	if err := s.send(StatusResponse{Status: "ready", Words: words}); err != nil {
		return err
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		raw, err := s.dec.DecodeRaw()
		if err != nil {
			if errors.Is(err, io.EOF) {
				s.log.Debug("Input closed, stopping server")
				return nil
			}
			return fmt.Errorf("failed to read request: %w", err)
		}

		var req Request
		if err := msgpack.Unmarshal(raw, &req); err != nil {
			s.log.Errorf("Unmarshaling request: %v", err)
			if err := s.sendError("", "invalid msgpack request", 400); err != nil {
				return err
			}
			continue
		}
		if err := s.handleRequest(req); err != nil {
			return err
		}
	}
}

// handleRequest answers one request; only a failed write is returned.
// A panic while answering becomes a 500 for that request.
func (s *Server) handleRequest(req Request) (err error) {
	start := time.Now()
	action := req.Action
	if action == "" {
		action = ActionSuggest
	}

	defer func() {
		if r := recover(); r != nil {
			s.log.Errorf("Panic handling request %s: %v", req.ID, r)
			s.observe(action, "error", start)
			err = s.sendError(req.ID, "internal error", 500)
		}
	}()

	if !s.allow() {
		s.observe(action, "limited", start)
		return s.sendError(req.ID, "rate limit exceeded", 429)
	}

	settings := s.Settings()
	if settings.MaxPrefix > 0 && len(req.Prefix) > settings.MaxPrefix {
		s.observe(action, "error", start)
		return s.sendError(req.ID, fmt.Sprintf("prefix exceeds maximum length of %d characters", settings.MaxPrefix), 400)
	}

	switch action {
	case ActionSuggest:
		return s.handleSuggest(req, start)
	case ActionTop:
		return s.handleTop(req, settings, start)
	case ActionDefine:
		return s.handleDefine(req, start)
	case ActionStats:
		s.observe(action, "ok", start)
		return s.send(StatsResponse{ID: req.ID, Stats: s.completer.Stats()})
	default:
		s.observe("unknown", "error", start)
		return s.sendError(req.ID, fmt.Sprintf("unknown action: %s", req.Action), 400)
	}
}

func (s *Server) handleSuggest(req Request, start time.Time) error {
	resp := SuggestResponse{ID: req.ID}
	if sg, ok := s.completer.Suggest(req.Prefix); ok {
		resp.Found = true
		resp.Word = sg.Word
		resp.Definition = sg.Definition
		resp.Frequency = sg.Frequency
		resp.Count = sg.Count
	}
	resp.TimeTaken = time.Since(start).Microseconds()
	s.observe(ActionSuggest, result(resp.Found), start)
	return s.send(resp)
}

func (s *Server) handleTop(req Request, settings config.ServerConfig, start time.Time) error {
	limit := req.Limit
	if limit < 1 {
		limit = settings.DefaultLimit
	}
	if settings.MaxLimit > 0 && limit > settings.MaxLimit {
		limit = settings.MaxLimit
	}

	suggestions := s.completer.Complete(req.Prefix, limit)
	resp := TopResponse{ID: req.ID, Suggestions: make([]TopSuggestion, len(suggestions))}
	for i, sg := range suggestions {
		resp.Suggestions[i] = TopSuggestion{Word: sg.Word, Frequency: sg.Frequency, Rank: uint16(i + 1)}
		resp.Count = sg.Count
	}
	resp.TimeTaken = time.Since(start).Microseconds()
	s.observe(ActionTop, result(len(suggestions) > 0), start)
	return s.send(resp)
}

func (s *Server) handleDefine(req Request, start time.Time) error {
	resp := SuggestResponse{ID: req.ID}
	if sg, ok := s.completer.Define(req.Prefix); ok {
		resp.Found = true
		resp.Word = sg.Word
		resp.Definition = sg.Definition
		resp.Frequency = sg.Frequency
		resp.Count = sg.Count
	}
	resp.TimeTaken = time.Since(start).Microseconds()
	s.observe(ActionDefine, result(resp.Found), start)
	return s.send(resp)
}

func (s *Server) allow() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.limiter == nil || s.limiter.Allow()
}

func (s *Server) observe(action, res string, start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveRequest(action, res, time.Since(start))
	}
}

func (s *Server) send(v any) error {
	if err := s.enc.Encode(v); err != nil {
		s.log.Errorf("Encoding response: %v", err)
		return fmt.Errorf("failed to write response: %w", err)
	}
	return nil
}

func (s *Server) sendError(id, message string, code int) error {
	return s.send(ErrorResponse{ID: id, Error: message, Code: code})
}

func result(found bool) string {
	if found {
		return "found"
	}
	return "not_found"
}
