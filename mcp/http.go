package mcp

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterOptions configures NewRouter.
type RouterOptions struct {
	// Gatherer backs GET /metrics; nil leaves the route out.
	Gatherer prometheus.Gatherer
	Logger   *slog.Logger
}

// NewRouter exposes s over HTTP.
//
//	POST /mcp                   {operation, params} envelope
//	POST /tasks                 submit_paper
//	GET  /tasks/{id}            get_status
//	POST /tasks/{id}/execute    execute_review
//	GET  /tasks/{id}/trace      get_trace
//	GET  /metrics               Prometheus exposition
//	GET  /health                heartbeat
func NewRouter(s *Service, opts RouterOptions) http.Handler {
	h := &handler{svc: s, logger: opts.Logger}
	if h.logger == nil {
		h.logger = s.logger
	}

	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))

	r.Post("/mcp", h.envelope)
	r.Route("/tasks", func(r chi.Router) {
		r.Post("/", h.submit)
		r.Get("/{id}", h.status)
		r.Post("/{id}/execute", h.execute)
		r.Get("/{id}/trace", h.trace)
	})
	if opts.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

type handler struct {
	svc    *Service
	logger *slog.Logger
}

type submitBody struct {
	PaperPath string `json:"paper_path"`
}

func (h *handler) envelope(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, Response{Error: "invalid request body: " + err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, h.svc.HandleRequest(r.Context(), req))
}

func (h *handler) submit(w http.ResponseWriter, r *http.Request) {
	var body submitBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, Response{Error: "invalid request body: " + err.Error()})
		return
	}
	if body.PaperPath == "" {
		writeJSON(w, http.StatusBadRequest, Response{Error: "missing required param: paper_path"})
		return
	}
	t := h.svc.Submit(r.Context(), body.PaperPath)
	writeJSON(w, http.StatusAccepted, Response{
		TaskID:    t.ID,
		Status:    t.Status,
		Message:   "Paper submitted for review",
		PaperPath: t.PaperPath,
	})
}

func (h *handler) status(w http.ResponseWriter, r *http.Request) {
	t, err := h.svc.Status(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *handler) execute(w http.ResponseWriter, r *http.Request) {
	t, err := h.svc.Execute(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Response{TaskID: t.ID, Status: t.Status, Review: t.Result, Error: t.Error})
}

func (h *handler) trace(w http.ResponseWriter, r *http.Request) {
	tr, err := h.svc.Trace(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tr)
}

func (h *handler) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrTaskNotFound):
		status = http.StatusNotFound
	case errors.Is(err, ErrTaskNotCompleted):
		status = http.StatusConflict
	default:
		h.logger.Error("request failed", "error", err)
	}
	writeJSON(w, status, Response{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}
