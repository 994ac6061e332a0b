package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/p28/portal/internal/model"
)

type TierStore struct {
	pg *pgxpool.Pool
}

func NewTierStore(pg *pgxpool.Pool) *TierStore {
	return &TierStore{pg: pg}
}

func (s *TierStore) ListPublished(ctx context.Context) ([]model.Tier, error) {
	rows, err := s.pg.Query(ctx,
		`SELECT id::text, slug, name, description, price_cents, currency, billing_interval,
		        COALESCE(features, '[]'::jsonb), is_published, sort_order, created_at
		 FROM package_subscription_tiers
		 WHERE is_published
		 ORDER BY sort_order ASC, id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list published tiers: %w", err)
	}
	defer rows.Close()

	tiers := []model.Tier{}
	for rows.Next() {
		var t model.Tier
		if err := rows.Scan(
			&t.ID, &t.Slug, &t.Name, &t.Description, &t.PriceCents, &t.Currency,
			&t.BillingInterval, &t.Features, &t.IsPublished, &t.SortOrder, &t.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan tier: %w", err)
		}
		if t.Features == nil {
			t.Features = []string{}
		}
		tiers = append(tiers, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tiers: %w", err)
	}
	return tiers, nil
}
