// Package httpapi exposes the decode → layout → render pipeline over HTTP
// for `iongraph serve`, so a browser-side viewer (out of scope here, per
// the CLI's Non-goals) can fetch computed layout geometry as JSON instead
// of shelling out to the CLI per request.
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/iongraph/iongraph/pkg/cfg/transform"
	"github.com/iongraph/iongraph/pkg/ir"
	"github.com/iongraph/iongraph/pkg/observability"
	"github.com/iongraph/iongraph/pkg/pipeline"
	"github.com/iongraph/iongraph/pkg/store"
)

// Server holds the dependencies shared by all HTTP handlers.
type Server struct {
	Runner *pipeline.Runner
	Store  store.Store
	Logger *log.Logger
}

// Router builds the chi router for the API.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/layout", s.handleComputeLayout)
		r.Get("/functions/{function}/passes/{pass}", s.handleGetStoredLayout)
	})

	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		observability.HTTP().OnRequest(r.Context(), r.Method, r.URL.Path)
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		observability.HTTP().OnResponse(r.Context(), r.Method, r.URL.Path, ww.Status(), time.Since(start))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// computeLayoutRequest is the JSON body accepted by POST /api/v1/layout.
type computeLayoutRequest struct {
	Function string           `json:"function"`
	Pass     string           `json:"pass"`
	Input    json.RawMessage  `json:"input"`
	Kind     ir.BlockKind     `json:"kind,omitempty"`
	Params   transform.Params `json:"params,omitempty"`
	Formats  []string         `json:"formats,omitempty"`
	Labels   bool             `json:"labels,omitempty"`
	Persist  bool             `json:"persist,omitempty"`
}

func (s *Server) handleComputeLayout(w http.ResponseWriter, r *http.Request) {
	var req computeLayoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if len(req.Input) == 0 || string(req.Input) == "null" {
		writeError(w, http.StatusBadRequest, "input is required")
		return
	}

	opts := pipeline.Options{
		Input:   req.Input,
		Kind:    req.Kind,
		Params:  req.Params,
		Formats: req.Formats,
		Labels:  req.Labels,
		Logger:  s.Logger,
		TraceID: middleware.GetReqID(r.Context()),
	}
	if len(opts.Formats) == 0 {
		opts.Formats = []string{pipeline.FormatJSON}
	}

	result, err := s.Runner.Execute(r.Context(), opts)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if req.Persist && s.Store != nil && req.Function != "" && req.Pass != "" {
		key := store.Key{Function: req.Function, Pass: req.Pass}
		if err := s.Store.Save(r.Context(), key, result.Layout); err != nil {
			s.Logger.Warnf("persist layout: %v", err)
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"graphHash": result.GraphHash,
		"traceId":   result.TraceID,
		"stats":     result.Stats,
		"cacheInfo": result.CacheInfo,
		"artifacts": encodeArtifacts(result.Artifacts),
	})
}

func (s *Server) handleGetStoredLayout(w http.ResponseWriter, r *http.Request) {
	if s.Store == nil {
		writeError(w, http.StatusNotImplemented, "no persistent store configured")
		return
	}

	key := store.Key{
		Function: chi.URLParam(r, "function"),
		Pass:     chi.URLParam(r, "pass"),
	}
	doc, ok, err := s.Store.Load(r.Context(), key)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "no stored layout for this function/pass")
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// encodeArtifacts base64-encodes binary artifacts (SVG, DOT are text but
// treated uniformly) so they can round-trip through a JSON envelope; the
// JSON format artifact is embedded directly since it's already JSON.
func encodeArtifacts(artifacts map[string][]byte) map[string]json.RawMessage {
	out := make(map[string]json.RawMessage, len(artifacts))
	for format, data := range artifacts {
		if format == pipeline.FormatJSON {
			out[format] = json.RawMessage(data)
			continue
		}
		encoded, _ := json.Marshal(data)
		out[format] = encoded
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// Serve starts the HTTP server on addr and blocks until ctx is cancelled.
func Serve(ctx context.Context, addr string, s *Server) error {
	srv := &http.Server{Addr: addr, Handler: s.Router()}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
