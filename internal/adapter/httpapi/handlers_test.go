package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/revanth11rs/aetherum-main-loan-agent-v2.1/internal/domain"
	"github.com/revanth11rs/aetherum-main-loan-agent-v2.1/internal/usecase/loan"
)

// MockLoanService is a mock implementation of LoanCalculator
type MockLoanService struct {
	mock.Mock
}

func (m *MockLoanService) Calculate(ctx context.Context, input loan.CalculateInput) (*domain.LoanProfile, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoanProfile), args.Error(1)
}

// MockSummaryService is a mock implementation of SummaryBuilder
type MockSummaryService struct {
	mock.Mock
}

func (m *MockSummaryService) Build(ctx context.Context, profile *domain.LoanProfile) *domain.AnalystSummary {
	args := m.Called(ctx, profile)
	return args.Get(0).(*domain.AnalystSummary)
}

// MockMetricsProvider is a mock implementation of domain.MetricsProvider
type MockMetricsProvider struct {
	mock.Mock
}

func (m *MockMetricsProvider) GetMetrics(ctx context.Context, symbol string) (*domain.AssetMetrics, error) {
	args := m.Called(ctx, symbol)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AssetMetrics), args.Error(1)
}

type fakePinger struct {
	err error
}

func (f *fakePinger) PingContext(ctx context.Context) error {
	return f.err
}

func newTestServer(loanSvc LoanCalculator, summarySvc SummaryBuilder, metricsSvc domain.MetricsProvider, store StorePinger) *Server {
	return New(Config{
		Log:     zerolog.Nop(),
		Port:    0,
		DevMode: true,
		Loan:    loanSvc,
		Summary: summarySvc,
		Metrics: metricsSvc,
		Store:   store,
	})
}

func doRequest(s *Server, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	return doRequestRaw(s, req)
}

func doRequestRaw(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func sampleProfile() *domain.LoanProfile {
	return &domain.LoanProfile{
		Assets: []domain.AssetBreakdown{{
			Symbol:            "BTC",
			Tier:              domain.TierTwo,
			LTV:               0.60,
			BaseRate:          0.0633,
			RiskPremium:       0.15,
			VolatilityPremium: 0.01,
			InterestRate:      0.2233,
			CollateralUSD:     10000,
			LoanUSD:           6000,
		}},
		Summary: domain.PortfolioSummary{
			TotalCollateral: 10000,
			TotalLoan:       6000,
			PortfolioLTV:    60,
			LiquidationLTV:  72,
			MarginCallLTV:   68.4,
			InterestRate:    22.33,
			MonthlyEMI:      1063.60,
			Months:          6,
		},
	}
}

func TestHandleCalculate(t *testing.T) {
	loanSvc := new(MockLoanService)
	loanSvc.On("Calculate", mock.Anything, loan.CalculateInput{
		Assets: []domain.AssetAllocation{{Symbol: "BTC", AllocationUSD: 10000}},
		Months: 6,
	}).Return(sampleProfile(), nil)

	s := newTestServer(loanSvc, nil, nil, nil)
	rec := doRequest(s, http.MethodPost, "/loan/calculate",
		`{"assets": [{"symbol": "BTC", "allocation_usd": 10000}], "months": 6}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var got domain.LoanProfile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "BTC", got.Assets[0].Symbol)
	assert.Equal(t, 6000.0, got.Summary.TotalLoan)
	loanSvc.AssertExpectations(t)
}

func TestHandleCalculateInvalidJSON(t *testing.T) {
	s := newTestServer(new(MockLoanService), nil, nil, nil)
	rec := doRequest(s, http.MethodPost, "/loan/calculate", `{"assets": [`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error": "invalid JSON body"}`, rec.Body.String())
}

func TestHandleCalculateValidationError(t *testing.T) {
	loanSvc := new(MockLoanService)
	loanSvc.On("Calculate", mock.Anything, mock.Anything).
		Return(nil, domain.BadRequest("assets is required"))

	s := newTestServer(loanSvc, nil, nil, nil)
	rec := doRequest(s, http.MethodPost, "/loan/calculate", `{}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error": "assets is required"}`, rec.Body.String())
}

func TestHandleCalculateUnknownError(t *testing.T) {
	loanSvc := new(MockLoanService)
	loanSvc.On("Calculate", mock.Anything, mock.Anything).
		Return(nil, assert.AnError)

	s := newTestServer(loanSvc, nil, nil, nil)
	rec := doRequest(s, http.MethodPost, "/loan/calculate",
		`{"assets": [{"symbol": "BTC", "allocation_usd": 100}]}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error": "internal_error"}`, rec.Body.String())
}

func TestHandleSummary(t *testing.T) {
	profileJSON, err := json.Marshal(sampleProfile())
	require.NoError(t, err)

	tests := []struct {
		name string
		body string
	}{
		{name: "bare calculation output", body: string(profileJSON)},
		{name: "wrapped in calculation key", body: `{"calculation": ` + string(profileJSON) + `}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summarySvc := new(MockSummaryService)
			summarySvc.On("Build", mock.Anything, mock.MatchedBy(func(p *domain.LoanProfile) bool {
				return p.Summary.Months == 6 && len(p.Assets) == 1
			})).Return(&domain.AnalystSummary{
				Markdown: "# Aetherum Loan",
				Provider: "deterministic",
				Model:    "none",
				UsedLLM:  false,
			})

			s := newTestServer(nil, summarySvc, nil, nil)
			rec := doRequest(s, http.MethodPost, "/loan/summary", tt.body)

			require.Equal(t, http.StatusOK, rec.Code)

			var got domain.AnalystSummary
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.Equal(t, "# Aetherum Loan", got.Markdown)
			assert.Equal(t, "deterministic", got.Provider)
			assert.False(t, got.UsedLLM)
			summarySvc.AssertExpectations(t)
		})
	}
}

func TestHandleSummaryRejectsMissingSummary(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "empty object", body: `{}`},
		{name: "assets only", body: `{"assets": []}`},
		{name: "null calculation", body: `{"calculation": null}`},
		{name: "not an object", body: `[1, 2, 3]`},
		{name: "invalid JSON", body: `{"summary"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(nil, new(MockSummaryService), nil, nil)
			rec := doRequest(s, http.MethodPost, "/loan/summary", tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.JSONEq(t, `{"error": "expected calculation output (must include 'summary')"}`, rec.Body.String())
		})
	}
}

func TestHandleMetrics(t *testing.T) {
	name := "Bitcoin"
	vol := 12.5
	metricsSvc := new(MockMetricsProvider)
	metricsSvc.On("GetMetrics", mock.Anything, "BTC").Return(&domain.AssetMetrics{
		Symbol:          "BTC",
		Name:            &name,
		VolatilityScore: &vol,
	}, nil)

	s := newTestServer(nil, nil, metricsSvc, nil)
	// Lowercase path symbols are normalized before lookup.
	rec := doRequest(s, http.MethodGet, "/metrics/btc", "")

	require.Equal(t, http.StatusOK, rec.Code)

	var got domain.AssetMetrics
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "BTC", got.Symbol)
	require.NotNil(t, got.VolatilityScore)
	assert.Equal(t, 12.5, *got.VolatilityScore)
	metricsSvc.AssertExpectations(t)
}

func TestHandleMetricsNotFound(t *testing.T) {
	metricsSvc := new(MockMetricsProvider)
	metricsSvc.On("GetMetrics", mock.Anything, "XRP").Return(nil, domain.ErrMetricsNotFound)

	s := newTestServer(nil, nil, metricsSvc, nil)
	rec := doRequest(s, http.MethodGet, "/metrics/XRP", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error": "No metrics found for XRP"}`, rec.Body.String())
}

func TestHandleMetricsBlankSymbol(t *testing.T) {
	s := newTestServer(nil, nil, new(MockMetricsProvider), nil)
	rec := doRequest(s, http.MethodGet, "/metrics/%20", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error": "symbol_required"}`, rec.Body.String())
}

func TestHandleHealth(t *testing.T) {
	tests := []struct {
		name     string
		store    StorePinger
		expected string
	}{
		{name: "no store configured", store: nil, expected: `{"status": "ok"}`},
		{name: "store reachable", store: &fakePinger{}, expected: `{"status": "ok", "store": "ok"}`},
		{name: "store unreachable", store: &fakePinger{err: assert.AnError}, expected: `{"status": "ok", "store": "unreachable"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(nil, nil, nil, tt.store)
			rec := doRequest(s, http.MethodGet, "/health", "")

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.JSONEq(t, tt.expected, rec.Body.String())
		})
	}
}
