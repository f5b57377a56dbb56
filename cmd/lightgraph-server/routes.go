package main

import (
	"encoding/json"
	"errors"
	"expvar"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	graphrepo "github.com/lightgraph/lightgraph/internal/adapters/repository/graph"
	"github.com/lightgraph/lightgraph/internal/app/dto"
	"github.com/lightgraph/lightgraph/internal/app/mapping"
	"github.com/lightgraph/lightgraph/internal/app/services"
	"github.com/lightgraph/lightgraph/internal/app/usecases"
	"github.com/lightgraph/lightgraph/internal/core/graph"
	"github.com/lightgraph/lightgraph/internal/core/registry"
	"github.com/lightgraph/lightgraph/internal/core/store"
	"github.com/lightgraph/lightgraph/internal/infrastructure/metrics"
	"github.com/lightgraph/lightgraph/internal/nodes"
	"github.com/lightgraph/lightgraph/pkg/entities"
	"github.com/lightgraph/lightgraph/pkg/serialization"
	"github.com/lightgraph/lightgraph/pkg/validation"
)

type server struct {
	scripts   *services.ScriptService
	evaluator *usecases.ScriptEvaluator
	validator *validation.Middleware
	logger    *slog.Logger
}

func newServer(st store.ScriptStore, serializer *serialization.Serializer, logger *slog.Logger) *server {
	r := registry.New()
	if err := nodes.RegisterBuiltins(r); err != nil {
		panic(err)
	}
	mapper := mapping.NewScriptMapper(r, logger)
	scripts := services.NewScriptService(st, mapper, serializer, logger)
	return &server{
		scripts:   scripts,
		evaluator: usecases.NewScriptEvaluator(scripts, graphrepo.NewInMemoryScriptRepository(), nil, logger),
		validator: validation.NewMiddleware(nil),
		logger:    logger.With("component", "http"),
	}
}

func (s *server) routes(timeout time.Duration) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprintln(w, "lightgraph server is running. See /healthz, /metrics, /scripts, /debug/vars, /debug/pprof/")
	})
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprint(w, "ok")
	})
	mux.HandleFunc("GET /metrics", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
		metrics.WritePrometheus(w)
	})
	mux.Handle("GET /debug/vars", expvar.Handler())
	mux.Handle("GET /debug/pprof/", http.DefaultServeMux)

	mux.Handle("GET /scripts", s.validator.ValidateQueryParams(map[string]string{
		"limit":  "uint",
		"offset": "uint",
	})(http.HandlerFunc(s.listScripts)))
	mux.Handle("POST /scripts", validation.ValidateJSON[entities.NodeScriptEntity](s.validator)(http.HandlerFunc(s.createScript)))
	mux.HandleFunc("DELETE /scripts/{id}", s.deleteScript)
	mux.HandleFunc("POST /scripts/{id}/evaluate", s.evaluateScript)

	if timeout <= 0 {
		return mux
	}
	return http.TimeoutHandler(mux, timeout, "request timed out")
}

type scriptSummary struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Tags      []string  `json:"tags,omitempty"`
	Nodes     int       `json:"nodes"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *server) listScripts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.Filter{Name: q.Get("name"), Tag: q.Get("tag")}
	filter.Limit, _ = strconv.Atoi(q.Get("limit"))
	filter.Offset, _ = strconv.Atoi(q.Get("offset"))

	records, err := s.scripts.List(r.Context(), filter)
	if err != nil {
		s.fail(w, err)
		return
	}
	out := make([]scriptSummary, 0, len(records))
	for _, rec := range records {
		out = append(out, scriptSummary{
			ID:        rec.ID,
			Name:      rec.Name,
			Tags:      rec.Metadata.Tags,
			Nodes:     len(rec.Script.Nodes),
			UpdatedAt: rec.UpdatedAt,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *server) createScript(w http.ResponseWriter, r *http.Request) {
	e, ok := validation.BodyFrom[entities.NodeScriptEntity](r.Context())
	if !ok {
		http.Error(w, "missing body", http.StatusBadRequest)
		return
	}
	meta := store.Metadata{Source: "api", Tags: r.URL.Query()["tag"]}
	rec, err := s.scripts.SaveEntity(r.Context(), e, meta)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, scriptSummary{ID: rec.ID, Name: rec.Name, Tags: rec.Metadata.Tags, Nodes: len(rec.Script.Nodes), UpdatedAt: rec.UpdatedAt})
}

func (s *server) deleteScript(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "invalid script id", http.StatusBadRequest)
		return
	}
	if err := s.scripts.Delete(r.Context(), id); err != nil {
		s.fail(w, err)
		return
	}
	s.evaluator.Forget(r.Context(), id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) evaluateScript(w http.ResponseWriter, r *http.Request) {
	req := &dto.EvaluateRequest{}
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(req); err != nil {
			http.Error(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
			return
		}
	}
	req.ScriptID = r.PathValue("id")

	resp, err := s.evaluator.Evaluate(r.Context(), req)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// fail maps service errors to status codes
func (s *server) fail(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, store.ErrRecordNotFound), errors.Is(err, graph.ErrNodeNotFound):
		status = http.StatusNotFound
	case errors.Is(err, dto.ErrMissingScriptID), errors.Is(err, dto.ErrInvalidScriptID),
		errors.Is(err, store.ErrInvalidLimit), errors.Is(err, store.ErrInvalidOffset):
		status = http.StatusBadRequest
	case errors.Is(err, mapping.ErrInvalidEntity), errors.Is(err, mapping.ErrDanglingConnection):
		status = http.StatusUnprocessableEntity
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
