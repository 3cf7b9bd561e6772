package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/revanth11rs/aetherum-main-loan-agent-v2.1/internal/domain"
	"github.com/revanth11rs/aetherum-main-loan-agent-v2.1/internal/usecase/loan"
)

// summaryShapeError matches the error the summary endpoint returns for any
// body that is not recognizable calculation output.
const summaryShapeError = "expected calculation output (must include 'summary')"

// LoanCalculator produces a full loan profile from a quote request.
type LoanCalculator interface {
	Calculate(ctx context.Context, input loan.CalculateInput) (*domain.LoanProfile, error)
}

// SummaryBuilder renders the analyst report for a computed profile.
type SummaryBuilder interface {
	Build(ctx context.Context, profile *domain.LoanProfile) *domain.AnalystSummary
}

// StorePinger reports whether the metrics store is reachable. *sql.DB
// satisfies it.
type StorePinger interface {
	PingContext(ctx context.Context) error
}

// Handlers bundles the HTTP handlers and their dependencies.
type Handlers struct {
	loan    LoanCalculator
	summary SummaryBuilder
	metrics domain.MetricsProvider
	store   StorePinger
	log     zerolog.Logger
}

// NewHandlers creates a new Handlers instance. store may be nil when the
// service runs without a metrics store.
func NewHandlers(loanSvc LoanCalculator, summarySvc SummaryBuilder, metricsSvc domain.MetricsProvider, store StorePinger, log zerolog.Logger) *Handlers {
	return &Handlers{
		loan:    loanSvc,
		summary: summarySvc,
		metrics: metricsSvc,
		store:   store,
		log:     log.With().Str("component", "handlers").Logger(),
	}
}

type calculateRequest struct {
	Assets []domain.AssetAllocation `json:"assets"`
	Months int                      `json:"months"`
}

// HandleCalculate prices a set of collateral allocations
// POST /loan/calculate
func (h *Handlers) HandleCalculate(w http.ResponseWriter, r *http.Request) {
	var req calculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	profile, err := h.loan.Calculate(r.Context(), loan.CalculateInput{
		Assets: req.Assets,
		Months: req.Months,
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, profile)
}

// HandleSummary renders the analyst report for calculation output. The
// body is either the /loan/calculate response itself or an object wrapping
// it under "calculation".
// POST /loan/summary
func (h *Handlers) HandleSummary(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, summaryShapeError)
		return
	}

	calc := extractCalculation(body)

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(calc, &probe); err != nil {
		h.writeError(w, http.StatusBadRequest, summaryShapeError)
		return
	}
	if _, ok := probe["summary"]; !ok {
		h.writeError(w, http.StatusBadRequest, summaryShapeError)
		return
	}

	var profile domain.LoanProfile
	if err := json.Unmarshal(calc, &profile); err != nil {
		h.writeError(w, http.StatusBadRequest, summaryShapeError)
		return
	}

	h.writeJSON(w, http.StatusOK, h.summary.Build(r.Context(), &profile))
}

// extractCalculation unwraps an optional {"calculation": ...} envelope and
// returns the bytes holding the calculation output.
func extractCalculation(body []byte) []byte {
	var envelope struct {
		Calculation json.RawMessage `json:"calculation"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return body
	}
	calc := bytes.TrimSpace(envelope.Calculation)
	if len(calc) == 0 || string(calc) == "null" {
		return body
	}
	return calc
}

// HandleMetrics serves the latest stored metrics for a symbol
// GET /metrics/{symbol}
func (h *Handlers) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	symbol := strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "symbol")))
	if symbol == "" {
		h.writeError(w, http.StatusBadRequest, "symbol_required")
		return
	}

	m, err := h.metrics.GetMetrics(r.Context(), symbol)
	if err != nil {
		if errors.Is(err, domain.ErrMetricsNotFound) {
			h.writeError(w, http.StatusNotFound, fmt.Sprintf("No metrics found for %s", symbol))
			return
		}
		h.writeServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, m)
}

// HandleHealth reports liveness and, when a store is configured, whether
// it is reachable
// GET /health
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]string{"status": "ok"}
	if h.store != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.store.PingContext(ctx); err != nil {
			h.log.Warn().Err(err).Msg("store ping failed")
			resp["store"] = "unreachable"
		} else {
			resp["store"] = "ok"
		}
	}
	h.writeJSON(w, http.StatusOK, resp)
}

// writeServiceError maps service errors onto HTTP statuses. AppError
// carries its own status and client-safe message; anything else is
// reported as an opaque 500.
func (h *Handlers) writeServiceError(w http.ResponseWriter, err error) {
	var appErr *domain.AppError
	if errors.As(err, &appErr) {
		h.log.Warn().Int("status", appErr.Status).Str("error", appErr.Message).Msg("request failed")
		h.writeError(w, appErr.Status, appErr.Message)
		return
	}

	h.log.Error().Err(err).Msg("Unhandled error")
	h.writeError(w, http.StatusInternalServerError, "internal_error")
}

func (h *Handlers) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func (h *Handlers) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
