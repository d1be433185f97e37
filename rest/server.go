// Package rest exposes the interview engine over HTTP.
//
// The wire contract (routes, field names, status codes, and error messages)
// is fixed for compatibility with existing clients.
package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/hireloop/interview"
	"github.com/hireloop/interview/engine"
)

// Server routes interview API requests to the engine.
type Server struct {
	engine *engine.Engine
	logger zerolog.Logger
	debug  bool
}

// Option configures a [Server].
type Option func(*Server)

// WithLogger sets the logger. The default discards all output.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithDebug includes internal error detail in 500 responses. Never enable in
// production.
func WithDebug(debug bool) Option {
	return func(s *Server) { s.debug = debug }
}

// NewServer creates a Server backed by the given engine.
func NewServer(eng *engine.Engine, opts ...Option) *Server {
	s := &Server{
		engine: eng,
		logger: zerolog.Nop(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Handler returns the root handler for the interview API.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("POST /api/interview/start", s.handleStart)
	mux.HandleFunc("POST /api/interview/continue", s.handleContinue)
	mux.HandleFunc("/", s.handleNotFound)
	return s.logRequests(allowCORS(mux))
}

// allowCORS permits browser clients from any origin and answers preflight
// requests. Tighten the origin list before exposing this beyond development.
func allowCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type startRequest struct {
	JobTitle string `json:"jobTitle"`
}

type continueRequest struct {
	ConversationID string `json:"conversationId"`
	Message        string `json:"message"`
}

type interviewResponse struct {
	ConversationID string          `json:"conversationId"`
	Message        string          `json:"message"`
	InterviewState interview.State `json:"interviewState"`
}

type errorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, "Welcome to the Mock Interview Backend!")
}

func (s *Server) handleNotFound(w http.ResponseWriter, _ *http.Request) {
	s.writeError(w, http.StatusNotFound, "Not Found", nil)
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if !s.readJSON(w, r, &req) {
		return
	}

	if strings.TrimSpace(req.JobTitle) == "" {
		s.writeError(w, http.StatusBadRequest, "Job Title is required and must be a non-empty string.", nil)
		return
	}
	if utf8.RuneCountInString(req.JobTitle) > interview.MaxJobTitleLen {
		s.writeError(w, http.StatusBadRequest, "Job Title is too long (max 100 characters).", nil)
		return
	}

	res, err := s.engine.Start(r.Context(), req.JobTitle)
	if err != nil {
		var blocked *interview.BlockedError
		switch {
		case errors.As(err, &blocked):
			msg := fmt.Sprintf("Request blocked due to safety settings. %s Please revise the job title.", blocked.Reason)
			s.writeError(w, http.StatusBadRequest, msg, nil)
		case errors.Is(err, interview.ErrValidation):
			s.writeError(w, http.StatusBadRequest, err.Error(), nil)
		default:
			s.writeError(w, http.StatusInternalServerError, "An unexpected error occurred while starting the interview.", err)
		}
		return
	}

	s.writeJSON(w, http.StatusCreated, interviewResponse{
		ConversationID: res.ConversationID,
		Message:        res.Message,
		InterviewState: res.State,
	})
}

func (s *Server) handleContinue(w http.ResponseWriter, r *http.Request) {
	var req continueRequest
	if !s.readJSON(w, r, &req) {
		return
	}

	if strings.TrimSpace(req.ConversationID) == "" {
		s.writeError(w, http.StatusBadRequest, "Conversation ID is required.", nil)
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		s.writeError(w, http.StatusBadRequest, "User message is required and must be a non-empty string.", nil)
		return
	}
	if utf8.RuneCountInString(req.Message) > interview.MaxAnswerLen {
		s.writeError(w, http.StatusBadRequest, "Message is too long (max 2000 characters).", nil)
		return
	}

	res, err := s.engine.Continue(r.Context(), req.ConversationID, req.Message)
	if err != nil {
		var blocked *interview.BlockedError
		switch {
		case errors.Is(err, interview.ErrSessionNotFound):
			s.writeError(w, http.StatusNotFound, "Conversation not found. Please start a new interview.", nil)
		case errors.Is(err, interview.ErrInterviewFinished):
			s.writeError(w, http.StatusConflict, "This interview has already concluded. Please start a new interview.", nil)
		case errors.As(err, &blocked):
			msg := fmt.Sprintf("AI response blocked due to safety settings (%s). Please try phrasing your answer differently.", blocked.Reason)
			s.writeError(w, http.StatusBadRequest, msg, nil)
		case errors.Is(err, interview.ErrValidation):
			s.writeError(w, http.StatusBadRequest, err.Error(), nil)
		default:
			s.writeError(w, http.StatusInternalServerError, "An unexpected error occurred while continuing the interview.", err)
		}
		return
	}

	s.writeJSON(w, http.StatusOK, interviewResponse{
		ConversationID: res.ConversationID,
		Message:        res.Message,
		InterviewState: res.State,
	})
}

func (s *Server) readJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid JSON request body.", nil)
		return false
	}
	return true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error().Err(err).Msg("encode response")
	}
}

// writeError sends an error body. err is internal detail, included only in
// debug mode; msg is the stable client-facing message.
func (s *Server) writeError(w http.ResponseWriter, status int, msg string, err error) {
	if err != nil {
		s.logger.Error().Err(err).Int("status", status).Msg("request failed")
	}
	resp := errorResponse{Error: msg}
	if s.debug && err != nil {
		resp.Detail = err.Error()
	}
	s.writeJSON(w, status, resp)
}

// statusRecorder captures the response status for request logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}
