// Package api implements the HTTP API server for ctrev.
package api

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/sprite-ai/ctrev/internal/precheck"
	"github.com/sprite-ai/ctrev/internal/structtext"
)

// maxBodyBytes caps request bodies and websocket frames.
const maxBodyBytes = 8 << 20

// Logger receives server log lines. *log.Logger satisfies it.
type Logger interface {
	Printf(format string, args ...any)
}

// Server is the ctrev HTTP API server.
type Server struct {
	addr    string
	mux     *http.ServeMux
	server  *http.Server
	limits  structtext.ValidatorOptions
	checker *precheck.Checker
	logger  Logger
}

// New creates a new API server validating with limits. A nil logger logs
// through the standard logger.
func New(addr string, limits structtext.ValidatorOptions, logger Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		addr:    addr,
		limits:  limits,
		checker: precheck.New(limits),
		logger:  logger,
	}
	s.mux = http.NewServeMux()
	s.registerRoutes()
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("POST /api/validate", s.handleValidate)
	s.mux.HandleFunc("POST /api/flatten", s.handleFlatten)
	s.mux.HandleFunc("POST /api/encode", s.handleEncode)
	s.mux.HandleFunc("POST /api/decode", s.handleDecode)
	s.mux.HandleFunc("GET /api/ws", s.handleWebSocket)
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	s.logger.Printf("ctrev API server listening on %s", s.addr)
	return s.server.ListenAndServe()
}

// Handler returns the HTTP handler for testing.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// writeJSON writes a JSON response.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		s.logger.Printf("json encode error: %v", err)
	}
}

// writeError writes a JSON error response.
func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

// readJSON decodes a JSON request body into v.
func readJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return fmt.Errorf("empty request body")
	}
	defer r.Body.Close()
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	return dec.Decode(v)
}
