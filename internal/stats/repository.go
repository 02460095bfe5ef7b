package stats

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
)

// HitRepository handles endpoint hit database operations
type HitRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewHitRepository creates a new HitRepository
func NewHitRepository(db *pgxpool.Pool) *HitRepository {
	return &HitRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Save inserts one endpoint hit
func (r *HitRepository) Save(ctx context.Context, hit *EndpointHit) (*EndpointHit, error) {
	sql, args, err := r.sb.Insert("endpoint_hits").
		Columns("app", "uri", "ip", "timestamp").
		Values(hit.App, hit.URI, hit.IP, hit.Timestamp).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build save hit query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&hit.ID); err != nil {
		return nil, fmt.Errorf("error saving endpoint hit: %w", err)
	}

	return hit, nil
}

// GetStats aggregates hits per app and URI within the window, most hit first.
// Unique counts each client IP once per app and URI.
func (r *HitRepository) GetStats(ctx context.Context, query StatsQuery) ([]ViewStats, error) {
	hits := "COUNT(*)"
	if query.Unique {
		hits = "COUNT(DISTINCT ip)"
	}

	builder := r.sb.Select("app", "uri", hits+" AS hits").
		From("endpoint_hits").
		Where(squirrel.GtOrEq{"timestamp": query.Start}).
		Where(squirrel.LtOrEq{"timestamp": query.End}).
		GroupBy("app", "uri").
		OrderBy("hits DESC")
	if len(query.URIs) > 0 {
		builder = builder.Where(squirrel.Eq{"uri": query.URIs})
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build stats query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying stats: %w", err)
	}
	defer rows.Close()

	stats := make([]ViewStats, 0)
	for rows.Next() {
		var s ViewStats
		if err := rows.Scan(&s.App, &s.URI, &s.Hits); err != nil {
			return nil, fmt.Errorf("error scanning stats row: %w", err)
		}
		stats = append(stats, s)
	}

	return stats, rows.Err()
}
