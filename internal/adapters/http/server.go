// Package http exposes tree analysis over a JSON API.
package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/aretw0/dtree"
	"github.com/aretw0/dtree/internal/metrics"
	diagram "github.com/aretw0/dtree/internal/presentation/graph"
	"github.com/aretw0/dtree/internal/validator"
	"github.com/aretw0/dtree/pkg/domain"
	"github.com/aretw0/dtree/pkg/graph"
	"github.com/aretw0/dtree/pkg/policy"
	"github.com/aretw0/dtree/pkg/treefile"
	"github.com/aretw0/dtree/pkg/utility"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cast"
)

// MaxBodyBytes bounds the size of a tree document accepted by the server.
const MaxBodyBytes = 1 << 20

// EvaluateResponse is the body of a successful POST /evaluate.
type EvaluateResponse struct {
	*dtree.Report
	Warnings []string `json:"warnings,omitempty"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Server analyzes the tree documents posted to it. Every request builds its
// own graph and runs its own pass.
type Server struct {
	Defaults dtree.Defaults
	Metrics  *metrics.Collector
	Logger   *slog.Logger
}

// NewHandler creates the HTTP handler for s.
func NewHandler(s *Server) http.Handler {
	if s.Logger == nil {
		s.Logger = slog.New(slog.DiscardHandler)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.Health)
	r.Post("/evaluate", s.Evaluate)
	r.Post("/mermaid", s.Mermaid)
	if s.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.Metrics.Handler())
	}
	return r
}

// Health handles GET /healthz.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": dtree.Version})
}

// Evaluate handles POST /evaluate. The body is a tree document; the query
// parameters utility, goal, precision and start override its fields.
func (s *Server) Evaluate(w http.ResponseWriter, r *http.Request) {
	report, g, err := s.analyze(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	resp := EvaluateResponse{Report: report}
	for _, issue := range validator.Issues(validator.ValidateGraph(g, report.Start)) {
		resp.Warnings = append(resp.Warnings, issue.Error())
	}
	writeJSON(w, http.StatusOK, resp)
}

// Mermaid handles POST /mermaid. Set highlight=false to draw the tree without
// the optimal path.
func (s *Server) Mermaid(w http.ResponseWriter, r *http.Request) {
	highlight := true
	if raw := r.URL.Query().Get("highlight"); raw != "" {
		var err error
		if highlight, err = cast.ToBoolE(raw); err != nil {
			s.fail(w, r, fmt.Errorf("highlight: %w", err))
			return
		}
	}

	report, g, err := s.analyze(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	overlay := &diagram.Overlay{Values: report.Values, Label: report.Label, Precision: report.Precision}
	if highlight {
		overlay.Path = report.Path
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, diagram.GenerateMermaid(g.Nodes(), g.Edges(), overlay))
}

func (s *Server) analyze(w http.ResponseWriter, r *http.Request) (*dtree.Report, *graph.Graph, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		return nil, nil, fmt.Errorf("read body: %w", err)
	}
	doc, err := treefile.Parse(body)
	if err != nil {
		return nil, nil, err
	}

	opts, err := s.options(r, doc)
	if err != nil {
		return nil, nil, err
	}
	return dtree.New(opts...).AnalyzeDocument(doc)
}

// options resolves each setting from the query string, then the document,
// then the server defaults.
func (s *Server) options(r *http.Request, doc *treefile.Document) ([]dtree.Option, error) {
	opts := []dtree.Option{dtree.WithLogger(s.Logger)}
	if s.Metrics != nil {
		opts = append(opts, dtree.WithLifecycleHooks(s.Metrics.Hooks()))
	}
	opts = append(opts, s.Defaults.Options(doc)...)

	q := r.URL.Query()
	if v := q.Get("utility"); v != "" {
		u, err := utility.Parse(v)
		if err != nil {
			return nil, err
		}
		opts = append(opts, dtree.WithUtility(u))
	}
	if v := q.Get("goal"); v != "" {
		goal, err := policy.ParseGoal(v)
		if err != nil {
			return nil, err
		}
		opts = append(opts, dtree.WithGoal(goal))
	}
	if v := q.Get("precision"); v != "" {
		decimals, err := cast.ToIntE(v)
		if err != nil || decimals < 0 {
			return nil, fmt.Errorf("precision: invalid value %q", v)
		}
		opts = append(opts, dtree.WithPrecision(decimals))
	}
	if v := q.Get("start"); v != "" {
		doc.Start = v
	}
	return opts, nil
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	s.Logger.Warn("Request failed", "path", r.URL.Path, "status", status, "err", err)
	writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

// statusFor maps analysis failures to HTTP statuses: malformed or
// inconsistent documents are 400, trees that cannot be evaluated are 422.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrCycle),
		errors.Is(err, domain.ErrNonFinite),
		errors.Is(err, domain.ErrNotEvaluated):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadRequest
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
