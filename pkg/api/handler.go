package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/psantana5/tsperf-matrix/internal/report"
	"github.com/psantana5/tsperf-matrix/pkg/catalog"
	"github.com/psantana5/tsperf-matrix/pkg/generate"
	"github.com/psantana5/tsperf-matrix/pkg/logging"
	"github.com/psantana5/tsperf-matrix/pkg/matrix"
	"github.com/psantana5/tsperf-matrix/pkg/models"
	"github.com/psantana5/tsperf-matrix/pkg/tracing"
)

// MatrixHandler serves the catalog and generated matrices read-only
type MatrixHandler struct {
	generator *generate.Generator
	metrics   *report.Metrics
	logger    *logging.Logger
}

// NewMatrixHandler creates a handler for the generator's catalog
func NewMatrixHandler(g *generate.Generator, m *report.Metrics, logger *logging.Logger) *MatrixHandler {
	return &MatrixHandler{generator: g, metrics: m, logger: logger}
}

// RegisterRoutes registers all API routes
func (h *MatrixHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/presets", h.ListPresets).Methods("GET")
	r.HandleFunc("/presets/{name}", h.GetPreset).Methods("GET")
	r.HandleFunc("/matrix/{name}", h.GetMatrix).Methods("GET")
	r.HandleFunc("/health", h.Health).Methods("GET")
	r.Handle("/metrics", promhttp.HandlerFor(h.metrics, promhttp.HandlerOpts{})).Methods("GET")
}

type presetsResponse struct {
	Presets []catalog.PresetSummary `json:"presets"`
	Count   int                     `json:"count"`
}

type presetResponse struct {
	catalog.PresetSummary
	Entries models.Preset `json:"entries"`
}

// ListPresets returns a summary of every preset
func (h *MatrixHandler) ListPresets(w http.ResponseWriter, r *http.Request) {
	summaries := h.generator.Catalog().Summaries()
	writeJSON(w, http.StatusOK, presetsResponse{Presets: summaries, Count: len(summaries)})
}

// GetPreset returns one preset with its entries
func (h *MatrixHandler) GetPreset(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	preset, err := h.generator.Catalog().Resolve(name)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, presetResponse{
		PresetSummary: h.generator.Catalog().Summarize(name, preset),
		Entries:       preset,
	})
}

// queryBool parses an optional boolean query parameter; absent means false
func queryBool(r *http.Request, name string) (bool, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s value: %s", name, v)
	}
	return b, nil
}

// GetMatrix expands a preset. Baselining is enabled with ?baseline=true and
// name collisions fail the request with ?strict=true.
func (h *MatrixHandler) GetMatrix(w http.ResponseWriter, r *http.Request) {
	req := generate.Request{Preset: mux.Vars(r)["name"]}
	var err error
	if req.Baselining, err = queryBool(r, "baseline"); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if req.Strict, err = queryBool(r, "strict"); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	_, span := tracing.Start(r.Context(), "matrix.generate",
		tracing.PresetKey.String(req.Preset),
		tracing.BaseliningKey.Bool(req.Baselining),
		tracing.StrictKey.Bool(req.Strict),
	)
	defer span.End()

	doc, err := h.generator.Generate(req)
	if err != nil {
		tracing.RecordFailure(span, err)
		h.writeError(w, err)
		return
	}
	span.SetAttributes(
		tracing.RunIDKey.String(doc.RunID),
		tracing.JobsKey.Int(doc.JobCount),
		tracing.CollisionsKey.Int(len(doc.Collisions)),
	)

	h.metrics.RecordDocument(doc)
	report.LogDocument(h.logger, doc)
	writeJSON(w, http.StatusOK, doc)
}

// Health reports liveness
func (h *MatrixHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"presets": len(h.generator.Catalog().Names()),
	})
}

func (h *MatrixHandler) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, catalog.ErrUnknownPreset):
		status = http.StatusNotFound
	case errors.Is(err, catalog.ErrUnknownHost), errors.Is(err, catalog.ErrUnknownScenario),
		errors.Is(err, catalog.ErrEmptyCustomPreset):
		status = http.StatusBadRequest
	case errors.Is(err, matrix.ErrNameCollision):
		status = http.StatusConflict
	}
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", map[string]interface{}{"error": err.Error()})
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.Encode(v)
}
