package metrics

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/revanth11rs/aetherum-main-loan-agent-v2.1/internal/domain"
)

// Cache policy for served metrics: short enough that a refresh cycle
// shows up quickly, long enough to absorb bursts of quote requests.
const (
	CacheTTL  = 60 * time.Second
	cacheSize = 1024
)

// Service serves per-symbol market metrics from the store, fronted by a
// 60-second cache. It implements domain.MetricsProvider for in-process
// deployments (the HTTP metrics client covers the split deployment).
type Service struct {
	repo  domain.MetricsRepository
	cache *TTLCache
	log   zerolog.Logger
}

// NewService creates a new metrics Service instance. repo may be nil when
// no store is configured; every lookup then reports ErrMetricsNotFound
// and the pricing path falls back to defaults.
func NewService(repo domain.MetricsRepository, log zerolog.Logger) *Service {
	return &Service{
		repo:  repo,
		cache: NewTTLCache(CacheTTL, cacheSize),
		log:   log.With().Str("component", "metrics").Logger(),
	}
}

// GetMetrics returns the freshest metrics document for a symbol: the
// cached copy when present, otherwise the latest store row (which is then
// cached). Unknown symbols yield domain.ErrMetricsNotFound.
func (s *Service) GetMetrics(ctx context.Context, symbol string) (*domain.AssetMetrics, error) {
	sym := strings.ToUpper(strings.TrimSpace(symbol))
	if sym == "" {
		return nil, domain.ErrMetricsNotFound
	}

	if cached := s.cache.Get(sym); cached != nil {
		return cached, nil
	}

	if s.repo == nil {
		return nil, domain.ErrMetricsNotFound
	}

	m, err := s.repo.GetLatest(ctx, sym)
	if err != nil {
		return nil, err
	}

	s.cache.Set(sym, m)
	return m, nil
}
