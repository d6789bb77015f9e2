// Package server exposes the calculators and their histories over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/iwvelando/finance-calculators/internal/calculator"
	"github.com/iwvelando/finance-calculators/internal/history"
	"github.com/iwvelando/finance-calculators/pkg/constants"
	"github.com/iwvelando/finance-calculators/pkg/formulas"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

// Options configures the HTTP handler.
type Options struct {
	Logger         *zap.Logger
	MaxBodySize    int64
	AllowedOrigins []string
	Version        string

	// Metrics serves /metrics when set.
	Metrics http.Handler
}

type handler struct {
	calc        *calculator.Orchestrator
	logger      *zap.Logger
	maxBodySize int64
	version     string
}

// NewHandler constructs the HTTP handler that serves the calculator API.
func NewHandler(calc *calculator.Orchestrator, opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	maxBodySize := opts.MaxBodySize
	if maxBodySize <= 0 {
		maxBodySize = constants.DefaultMaxBodySizeBytes
	}

	version := strings.TrimSpace(opts.Version)
	if version == "" {
		version = "dev"
	}

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:*", "http://127.0.0.1:*"}
	}

	h := &handler{calc: calc, logger: logger, maxBodySize: maxBodySize, version: version}

	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(middleware.RealIP)
	r.Use(loggingMiddleware(logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", constants.RequestIDHeader},
		ExposedHeaders: []string{"Content-Disposition", constants.RequestIDHeader},
		MaxAge:         300,
	}))

	r.Get("/health", h.handleHealth)
	if opts.Metrics != nil {
		r.Handle("/metrics", opts.Metrics)
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/version", h.handleVersion)
		r.Get("/kinds", h.handleKinds)
		r.Post("/calculate", h.handleCalculate)
		r.Route("/history/{family}", func(r chi.Router) {
			r.Get("/", h.handleHistory)
			r.Delete("/", h.handleClearHistory)
			r.Post("/favorite/{timestamp}", h.handleToggleFavorite)
			r.Get("/export", h.handleExport)
		})
	})

	return otelhttp.NewHandler(r, "finance-calculators", otelhttp.WithFilter(shouldTraceRequest))
}

type calculateRequest struct {
	Kind      string   `json:"kind"`
	Operands  []string `json:"operands"`
	Precision *int     `json:"precision,omitempty"`
}

type calculateResponse struct {
	Kind         string            `json:"kind"`
	Family       string            `json:"family"`
	Value        *float64          `json:"value,omitempty"`
	Display      string            `json:"display,omitempty"`
	Formula      string            `json:"formula,omitempty"`
	Explanation  string            `json:"explanation,omitempty"`
	Details      []formulas.Detail `json:"details,omitempty"`
	Precision    int               `json:"precision"`
	Degenerate   bool              `json:"degenerate,omitempty"`
	Error        string            `json:"error,omitempty"`
	ErrorStage   string            `json:"errorStage,omitempty"`
	HistoryError string            `json:"historyError,omitempty"`
	Entry        *history.Entry    `json:"entry,omitempty"`
}

type historyResponse struct {
	Family   string          `json:"family"`
	Capacity int             `json:"capacity"`
	Entries  []history.Entry `json:"entries"`
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handleKinds(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, calculator.Catalog())
}

func (h *handler) handleCalculate(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleCalculate"

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	var req calculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request exceeds limit of %d bytes", h.maxBodySize), op)
			return
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
		return
	}

	kind, err := calculator.ParseKind(req.Kind)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	precision := h.calc.DefaultPrecision()
	if req.Precision != nil {
		precision = *req.Precision
	}

	result := h.calc.Execute(r.Context(), calculator.Request{
		Kind:      kind,
		Operands:  req.Operands,
		Precision: precision,
	})
	h.writeJSON(w, http.StatusOK, newCalculateResponse(result))
}

func newCalculateResponse(result calculator.Result) calculateResponse {
	resp := calculateResponse{
		Kind:      result.Kind.String(),
		Family:    result.Family.String(),
		Precision: result.Precision,
		Entry:     result.Entry,
	}
	if result.Failed() {
		resp.Error = result.Err.Error()
		resp.ErrorStage = result.Stage().String()
		return resp
	}

	value := result.Value
	resp.Value = &value
	resp.Display = result.Display
	resp.Formula = result.Formula
	resp.Explanation = result.Explanation
	resp.Details = result.Details
	if result.Degenerate() {
		resp.Degenerate = true
		resp.Error = result.Err.Error()
	}
	if result.HistoryErr != nil {
		resp.HistoryError = result.HistoryErr.Error()
	}
	return resp
}

func (h *handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	store, ok := h.store(w, r, "server.handleHistory")
	if !ok {
		return
	}

	entries := store.Entries()
	if favorites, _ := strconv.ParseBool(r.URL.Query().Get("favorites")); favorites {
		entries = store.Favorites()
	}
	if entries == nil {
		entries = []history.Entry{}
	}

	h.writeJSON(w, http.StatusOK, historyResponse{
		Family:   store.Family(),
		Capacity: store.Capacity(),
		Entries:  entries,
	})
}

func (h *handler) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleClearHistory"

	store, ok := h.store(w, r, op)
	if !ok {
		return
	}
	if err := store.Clear(); err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to clear history: %v", err), op)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) handleToggleFavorite(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleToggleFavorite"

	store, ok := h.store(w, r, op)
	if !ok {
		return
	}

	timestamp, err := strconv.ParseInt(chi.URLParam(r, "timestamp"), 10, 64)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("invalid timestamp %q", chi.URLParam(r, "timestamp")), op)
		return
	}

	found, err := store.ToggleFavorite(timestamp)
	if !found {
		h.respondErrorWithOp(w, http.StatusNotFound, fmt.Sprintf("%v: %d", history.ErrNotFound, timestamp), op)
		return
	}
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to persist favorite: %v", err), op)
		return
	}

	entry, err := store.Entry(timestamp)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusNotFound, err.Error(), op)
		return
	}
	h.writeJSON(w, http.StatusOK, entry)
}

func (h *handler) handleExport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleExport"

	store, ok := h.store(w, r, op)
	if !ok {
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = constants.ExportFormatJSON
	}
	snapshot, err := store.ExportSnapshot(format)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	w.Header().Set("Content-Type", snapshot.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", snapshot.Name))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(snapshot.Data); err != nil {
		h.logger.Warn("failed to write export",
			zap.String("op", op),
			zap.Error(err),
		)
	}
}

func (h *handler) store(w http.ResponseWriter, r *http.Request, op string) (*history.Store, bool) {
	family, err := calculator.ParseFamily(chi.URLParam(r, "family"))
	if err != nil {
		h.respondErrorWithOp(w, http.StatusNotFound, err.Error(), op)
		return nil, false
	}
	return h.calc.History(family), true
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	level := h.logger.Warn
	if status >= http.StatusInternalServerError {
		level = h.logger.Error
	}
	level("calculator request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
