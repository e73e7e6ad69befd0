package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/aretw0/hfstol"
	"github.com/aretw0/hfstol/internal/logging"
	"github.com/aretw0/hfstol/pkg/domain"
	"github.com/aretw0/hfstol/pkg/ports"
	"github.com/aretw0/hfstol/pkg/runner"
)

//go:generate go tool oapi-codegen -package http -generate types,chi-server,spec -o api.gen.go ../../../api/openapi.yaml

// MaxBulkWords caps the number of words in one bulk request.
const MaxBulkWords = 1000

// Registry is the set of analyzers the server exposes.
type Registry interface {
	Get(name string) (ports.Analyzer, error)
	Specs() []domain.AnalyzerSpec
}

// Server implements the generated ServerInterface
type Server struct {
	Analyzers Registry
	Metrics   http.Handler
	Logger    *slog.Logger

	upgrader websocket.Upgrader
}

// Ensure Server implements ServerInterface
var _ ServerInterface = (*Server)(nil)

// Option configures the Server.
type Option func(*Server)

// WithMetrics mounts h on /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.Metrics = h
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.Logger = logger
	}
}

// NewHandler creates the HTTP handler for the analyzers in reg.
func NewHandler(reg Registry, opts ...Option) http.Handler {
	s := &Server{Analyzers: reg}
	for _, opt := range opts {
		opt(s)
	}
	if s.Logger == nil {
		s.Logger = logging.NewNop()
	}

	r := chi.NewRouter()

	// Swagger UI
	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		spec, err := rawSpec()
		if err != nil {
			s.Logger.Error("failed to load OpenAPI spec", "err", err)
			http.Error(w, "Failed to load spec", http.StatusInternalServerError)
			return
		}
		w.Write(spec)
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(swaggerHTML))
	})
	if s.Metrics != nil {
		r.Handle("/metrics", s.Metrics)
	}

	handler := HandlerWithOptions(s, ChiServerOptions{
		BaseRouter: r,
		ErrorHandlerFunc: func(w http.ResponseWriter, r *http.Request, err error) {
			s.writeError(w, fmt.Errorf("%w: %v", errBadRequest, err))
		},
	})
	return enableCORS(handler)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>hfstol API Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`

// GetHealth handles GET /healthz.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, Health{
		Status:    "ok",
		Version:   strings.TrimSpace(hfstol.Version),
		Analyzers: len(s.Analyzers.Specs()),
	})
}

// ListAnalyzers handles GET /analyzers.
func (s *Server) ListAnalyzers(w http.ResponseWriter, r *http.Request) {
	specs := s.Analyzers.Specs()
	out := make([]AnalyzerSpec, len(specs))
	for i, spec := range specs {
		out[i] = mapSpec(spec)
	}
	s.writeJSON(w, http.StatusOK, out)
}

// GetAnalyzer handles GET /analyzers/{name}.
func (s *Server) GetAnalyzer(w http.ResponseWriter, r *http.Request, name AnalyzerName) {
	a, ok := s.analyzer(w, name)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, mapInfo(a.Info()))
}

// Lookup handles GET /analyzers/{name}/lookup.
func (s *Server) Lookup(w http.ResponseWriter, r *http.Request, name AnalyzerName, params LookupParams) {
	a, ok := s.analyzer(w, name)
	if !ok {
		return
	}

	resp, err := s.lookup(r, a, params.Q, params.Format)
	if err != nil {
		s.Logger.Warn("lookup failed", "analyzer", a.Name(), "err", err)
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) lookup(r *http.Request, a ports.Analyzer, q string, format *Format) (LookupResponse, error) {
	resp := LookupResponse{Analyzer: a.Name(), Input: q}
	resp.Analyses.FromStringAnalyses(StringAnalyses{})

	clean, err := runner.SanitizeInput(q)
	if err != nil {
		return resp, err
	}
	resp.Input = clean

	f := FormatStrings
	if format != nil {
		f = *format
	}

	switch f {
	case FormatStrings:
		res, err := a.Lookup(r.Context(), clean)
		if err != nil {
			return resp, err
		}
		err = resp.Analyses.FromStringAnalyses(append(StringAnalyses{}, res.Strings()...))
		return resp, err
	case FormatSymbols:
		res, err := a.Lookup(r.Context(), clean)
		if err != nil {
			return resp, err
		}
		err = resp.Analyses.FromSymbolAnalyses(mapAnalyses(res))
		return resp, err
	case FormatAffixes:
		aff, err := a.LookupLemmaWithAffixes(r.Context(), clean)
		if err != nil {
			return resp, err
		}
		err = resp.Analyses.FromAffixAnalyses(mapAffixes(aff))
		return resp, err
	default:
		return resp, fmt.Errorf("%w: unknown format %q", errBadRequest, f)
	}
}

// BulkLookup handles POST /analyzers/{name}/bulk.
func (s *Server) BulkLookup(w http.ResponseWriter, r *http.Request, name AnalyzerName) {
	a, ok := s.analyzer(w, name)
	if !ok {
		return
	}

	var body BulkLookupJSONRequestBody
	limit := int64(MaxBulkWords) * int64(runner.MaxInputSize()+8)
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, limit)).Decode(&body); err != nil {
		s.writeError(w, fmt.Errorf("%w: invalid request body: %v", errBadRequest, err))
		return
	}
	if len(body.Words) > MaxBulkWords {
		s.writeError(w, fmt.Errorf("%w: at most %d words per request", errBadRequest, MaxBulkWords))
		return
	}

	words := make([]string, 0, len(body.Words))
	for _, word := range body.Words {
		clean, err := runner.SanitizeInput(word)
		if err != nil {
			s.writeError(w, err)
			return
		}
		words = append(words, clean)
	}

	results, err := a.BulkLookup(r.Context(), words)
	if err != nil {
		s.Logger.Warn("bulk lookup failed", "analyzer", a.Name(), "words", len(words), "err", err)
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, BulkResponse{Analyzer: a.Name(), Results: results})
}

// LookupStream handles GET /analyzers/{name}/ws. Each text message is one
// word; each reply is a LookupResponse in the requested format.
func (s *Server) LookupStream(w http.ResponseWriter, r *http.Request, name AnalyzerName, params LookupStreamParams) {
	a, ok := s.analyzer(w, name)
	if !ok {
		return
	}

	c, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.Logger.Warn("websocket upgrade failed", "err", err)
		return
	}
	defer c.Close()

	for {
		mt, message, err := c.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.Logger.Debug("websocket read ended", "err", err)
			}
			return
		}
		if mt != websocket.TextMessage {
			continue
		}

		resp, err := s.lookup(r, a, strings.TrimSpace(string(message)), params.Format)
		if err != nil {
			msg := err.Error()
			resp.Error = &msg
		}
		if err := c.WriteJSON(resp); err != nil {
			s.Logger.Debug("websocket write failed", "err", err)
			return
		}
	}
}

func (s *Server) analyzer(w http.ResponseWriter, name string) (ports.Analyzer, bool) {
	a, err := s.Analyzers.Get(name)
	if err != nil {
		s.writeError(w, err)
		return nil, false
	}
	return a, true
}

var errBadRequest = errors.New("bad request")

// StatusFor maps an error to its HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrAnalyzerNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, runner.ErrInputTooLarge),
		errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		s.Logger.Error("request failed", "err", err)
	}
	s.writeJSON(w, status, Error{Error: err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("response encode failed", "err", err)
	}
}

func mapSpec(d domain.AnalyzerSpec) AnalyzerSpec {
	spec := AnalyzerSpec{Name: d.Name, Path: d.Path}
	if d.Language != "" {
		spec.Language = &d.Language
	}
	if d.Description != "" {
		spec.Description = &d.Description
	}
	return spec
}

func mapInfo(d domain.Info) Info {
	info := Info{
		Name:                d.Name,
		Checksum:            d.Checksum,
		Type:                d.Type,
		Weighted:            d.Weighted,
		InputSymbolCount:    d.InputSymbolCount,
		SymbolCount:         d.SymbolCount,
		IndexTableSize:      d.IndexTableSize,
		TransitionTableSize: d.TransitionCount,
		States:              d.StateCount,
		FlagDiacritics:      d.FlagDiacritics,
	}
	if d.Path != "" {
		info.Path = &d.Path
	}
	if len(d.Properties) > 0 {
		info.Properties = &d.Properties
	}
	return info
}

func mapAnalyses(res domain.Result) SymbolAnalyses {
	out := make(SymbolAnalyses, len(res))
	for i, a := range res {
		out[i] = Analysis{Symbols: append([]string{}, a.Symbols...), Weight: a.Weight}
	}
	return out
}

func mapAffixes(affixes []domain.Affixes) AffixAnalyses {
	out := make(AffixAnalyses, len(affixes))
	for i, a := range affixes {
		out[i] = Affixes{
			Prefixes: append([]string{}, a.Prefixes...),
			Lemma:    a.Lemma,
			Suffixes: append([]string{}, a.Suffixes...),
		}
	}
	return out
}
