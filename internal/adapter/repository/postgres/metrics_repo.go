package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/revanth11rs/aetherum-main-loan-agent-v2.1/internal/domain"
)

// metricsRepository implements domain.MetricsRepository
type metricsRepository struct {
	db *DB
}

// NewMetricsRepository creates a new metrics repository
func NewMetricsRepository(db *DB) domain.MetricsRepository {
	return &metricsRepository{db: db}
}

// Upsert stores a freshly computed metrics document for a symbol,
// replacing the previous one. Nil fields are written as NULL.
func (r *metricsRepository) Upsert(ctx context.Context, metrics *domain.AssetMetrics) error {
	query := `
		INSERT INTO asset_metrics (symbol, name, pct_change_30d, pct_change_90d, volatility_score, computed_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (symbol) DO UPDATE SET
			name             = EXCLUDED.name,
			pct_change_30d   = EXCLUDED.pct_change_30d,
			pct_change_90d   = EXCLUDED.pct_change_90d,
			volatility_score = EXCLUDED.volatility_score,
			computed_at      = EXCLUDED.computed_at
	`

	computedAt := time.Now().UTC()
	if metrics.ComputedAt != nil {
		computedAt = *metrics.ComputedAt
	}

	_, err := r.db.ExecContext(ctx, query,
		metrics.Symbol,
		metrics.Name,
		metrics.PctChange30d,
		metrics.PctChange90d,
		metrics.VolatilityScore,
		computedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert metrics for %s: %w", metrics.Symbol, err)
	}

	return nil
}

// GetLatest retrieves the most recent metrics document for a symbol.
// Returns domain.ErrMetricsNotFound when no document exists.
func (r *metricsRepository) GetLatest(ctx context.Context, symbol string) (*domain.AssetMetrics, error) {
	query := `
		SELECT symbol, name, pct_change_30d, pct_change_90d, volatility_score, computed_at
		FROM asset_metrics
		WHERE symbol = $1
	`

	var m domain.AssetMetrics
	var name sql.NullString
	var pct30, pct90, vol sql.NullFloat64
	var computedAt time.Time

	err := r.db.QueryRowContext(ctx, query, symbol).Scan(
		&m.Symbol,
		&name,
		&pct30,
		&pct90,
		&vol,
		&computedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrMetricsNotFound
		}
		return nil, fmt.Errorf("failed to get metrics for %s: %w", symbol, err)
	}

	if name.Valid {
		m.Name = &name.String
	}
	if pct30.Valid {
		m.PctChange30d = &pct30.Float64
	}
	if pct90.Valid {
		m.PctChange90d = &pct90.Float64
	}
	if vol.Valid {
		m.VolatilityScore = &vol.Float64
	}
	m.ComputedAt = &computedAt

	return &m, nil
}
