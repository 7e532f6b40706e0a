package simulation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"montecarlo_valuation/pkg/core/fcf"
	"montecarlo_valuation/pkg/core/report"
	"montecarlo_valuation/pkg/core/scenario"
	sim "montecarlo_valuation/pkg/core/simulation"
)

// Handler serves simulation runs over HTTP.
type Handler struct {
	provider fcf.Provider
	defaults scenario.Scenario
}

// NewHandler creates the simulation handler. provider may be nil, in which
// case every request must carry an explicit base_fcf.
func NewHandler(provider fcf.Provider, defaults scenario.Scenario) *Handler {
	return &Handler{provider: provider, defaults: defaults}
}

// RunRequest selects the entity and optionally overrides the server-side
// default assumptions.
type RunRequest struct {
	Ticker        string      `json:"ticker"`
	BaseFCF       float64     `json:"base_fcf,omitempty"`
	Seed          *int64      `json:"seed,omitempty"`
	Assumptions   *sim.Config `json:"assumptions,omitempty"`
	Buckets       int         `json:"buckets,omitempty"`
	IncludeValues bool        `json:"include_values,omitempty"`
}

// RunResponse carries one completed run. RunID is a correlation identifier
// only; nothing is persisted server-side.
type RunResponse struct {
	RunID     string          `json:"run_id"`
	Ticker    string          `json:"ticker,omitempty"`
	BaseFCF   float64         `json:"base_fcf"`
	Seed      int64           `json:"seed"`
	Summary   sim.Summary     `json:"summary"`
	Histogram []report.Bucket `json:"histogram,omitempty"`
	Values    []float64       `json:"values,omitempty"`
	ElapsedMs int64           `json:"elapsed_ms"`
}

type errorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

// HandleRun executes a Monte Carlo run and returns the summary as JSON.
func (h *Handler) HandleRun(w http.ResponseWriter, r *http.Request) {
	if !h.begin(w, r) {
		return
	}

	req, base, cfg, seed, ok := h.prepare(w, r)
	if !ok {
		return
	}

	start := time.Now()
	out, err := sim.Run(base.Value, cfg, sim.NewSeededSource(seed))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "")
		return
	}
	summary, err := out.Summarize()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error(), "")
		return
	}

	buckets := req.Buckets
	if buckets <= 0 {
		buckets = 20
	}

	resp := RunResponse{
		RunID:     uuid.NewString(),
		Ticker:    base.Ticker,
		BaseFCF:   base.Value,
		Seed:      seed,
		Summary:   summary,
		Histogram: report.Histogram(out.Values, buckets),
		ElapsedMs: time.Since(start).Milliseconds(),
	}
	if req.IncludeValues {
		resp.Values = out.Values
	}

	fmt.Printf("[SIM] Run %s: %s base=%.0f iters=%d repaired=%d (%dms)\n",
		resp.RunID, base.Ticker, base.Value, summary.Iterations, summary.Repaired, resp.ElapsedMs)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// HandleReport executes a run and returns an HTML report.
func (h *Handler) HandleReport(w http.ResponseWriter, r *http.Request) {
	if !h.begin(w, r) {
		return
	}

	req, base, cfg, seed, ok := h.prepare(w, r)
	if !ok {
		return
	}

	out, err := sim.Run(base.Value, cfg, sim.NewSeededSource(seed))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "")
		return
	}
	summary, err := out.Summarize()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error(), "")
		return
	}

	buckets := req.Buckets
	if buckets <= 0 {
		buckets = 20
	}

	md := report.Markdown(base, summary, report.Histogram(out.Values, buckets))
	html, err := report.HTML(md)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error(), "")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, html)
}

// begin applies CORS and method gating shared by both endpoints.
func (h *Handler) begin(w http.ResponseWriter, r *http.Request) bool {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return false
	}
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required", "")
		return false
	}
	return true
}

// prepare decodes the request, resolves the base cash flow, and merges the
// assumption overrides. Precondition failures are written out here so no
// trial ever runs for a bad request.
func (h *Handler) prepare(w http.ResponseWriter, r *http.Request) (RunRequest, *fcf.BaseFCF, sim.Config, int64, bool) {
	var req RunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err), "")
		return req, nil, sim.Config{}, 0, false
	}

	base, ok := h.resolveBase(r.Context(), w, req)
	if !ok {
		return req, nil, sim.Config{}, 0, false
	}

	cfg := h.defaults.Assumptions
	if req.Assumptions != nil {
		cfg = *req.Assumptions
	}
	if err := cfg.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "")
		return req, nil, sim.Config{}, 0, false
	}

	seed := time.Now().UnixNano()
	if req.Seed != nil {
		seed = *req.Seed
	} else if h.defaults.Seed != nil {
		seed = *h.defaults.Seed
	}

	return req, base, cfg, seed, true
}

func (h *Handler) resolveBase(ctx context.Context, w http.ResponseWriter, req RunRequest) (*fcf.BaseFCF, bool) {
	if req.BaseFCF != 0 {
		if req.BaseFCF < 0 {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("base_fcf must be positive, got %v", req.BaseFCF), "")
			return nil, false
		}
		return &fcf.BaseFCF{Ticker: req.Ticker, Value: req.BaseFCF, Source: "request"}, true
	}

	if req.Ticker == "" {
		writeError(w, http.StatusBadRequest, "ticker or base_fcf required", "")
		return nil, false
	}
	if h.provider == nil {
		writeError(w, http.StatusBadRequest, "no data provider configured; pass base_fcf", "")
		return nil, false
	}

	base, err := h.provider.BaseFCF(ctx, req.Ticker)
	if err != nil {
		var unavailable *fcf.Unavailable
		if errors.As(err, &unavailable) {
			// No valuation possible for this input; report why, run nothing.
			writeError(w, http.StatusNotFound, unavailable.Error(), string(unavailable.Reason))
			return nil, false
		}
		writeError(w, http.StatusBadGateway, err.Error(), "")
		return nil, false
	}
	return base, true
}

func writeError(w http.ResponseWriter, code int, msg, reason string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(errorResponse{Error: msg, Reason: reason})
}
