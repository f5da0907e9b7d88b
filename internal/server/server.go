// Package server exposes the conversion engine over HTTP for the editor:
// format discovery, diagram conversion and handle connectability checks.
// All endpoints speak JSON; recoverable conversion problems travel as a
// warnings array next to the result rather than failing the request.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/diaflow/diaflow/pkg/convert"
	"github.com/diaflow/diaflow/pkg/diagram"
	dferr "github.com/diaflow/diaflow/pkg/errors"
)

// Server is the HTTP conversion API.
type Server struct {
	logger *log.Logger
	router chi.Router
}

// New builds a server with all routes registered.
func New(logger *log.Logger) *Server {
	s := &Server{logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(corsMiddleware)

	r.Get("/health", s.handleHealth)
	r.Get("/api/formats", s.handleFormats)
	r.Post("/api/convert", s.handleConvert)
	r.Post("/api/connectable", s.handleConnectable)

	s.router = r
	return s
}

// Handler returns the root http.Handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe runs the server until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// corsMiddleware allows the browser-based editor to call the API from any
// origin. The API carries no credentials, so the wildcard is safe.
func corsMiddleware(next http.Handler) http.Handler {
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

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type formatInfo struct {
	Name      string `json:"name"`
	Extension string `json:"extension"`
}

func (s *Server) handleFormats(w http.ResponseWriter, r *http.Request) {
	var out []formatInfo
	for _, c := range convert.Formats() {
		out = append(out, formatInfo{Name: c.Name(), Extension: c.Extension()})
	}
	writeJSON(w, http.StatusOK, out)
}

type convertRequest struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Content string `json:"content"`
}

type convertResponse struct {
	Content  string            `json:"content"`
	Warnings []convert.Warning `json:"warnings,omitempty"`
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	var req convertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, dferr.New(dferr.CodeInvalidInput, "invalid request body"))
		return
	}

	src, err := resolveFormat(req.From, req.Content)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	dst, err := convert.ByName(req.To)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	d, warnings, err := src.Deserialize(req.Content, diagram.UUIDSource())
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	text, err := dst.Serialize(d)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	s.logger.Debug("converted diagram",
		"from", src.Name(), "to", dst.Name(),
		"nodes", len(d.Nodes), "warnings", len(warnings))
	writeJSON(w, http.StatusOK, convertResponse{Content: text, Warnings: warnings})
}

// resolveFormat honors an explicit format name and falls back to content
// sniffing when the editor does not know what it has.
func resolveFormat(name, content string) (convert.Converter, error) {
	if name != "" {
		return convert.ByName(name)
	}
	return convert.Detect(content)
}

type connectableRequest struct {
	Source  diagram.Handle `json:"source"`
	Target  diagram.Handle `json:"target"`
	Inbound int            `json:"inbound"`
}

type connectableResponse struct {
	Connectable bool   `json:"connectable"`
	Reason      string `json:"reason,omitempty"`
}

func (s *Server) handleConnectable(w http.ResponseWriter, r *http.Request) {
	var req connectableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, dferr.New(dferr.CodeInvalidInput, "invalid request body"))
		return
	}
	ok, reason := diagram.ExplainConnectable(req.Source, req.Target, req.Inbound)
	writeJSON(w, http.StatusOK, connectableResponse{Connectable: ok, Reason: reason})
}

type errorResponse struct {
	Error string     `json:"error"`
	Code  dferr.Code `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: dferr.UserMessage(err), Code: dferr.GetCode(err)})
}
