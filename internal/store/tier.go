package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/p28/portal/internal/model"
)

type TierStore struct {
	db *sql.DB
}

func NewTierStore(db *sql.DB) *TierStore {
	return &TierStore{db: db}
}

func scanTier(scanner interface{ Scan(...any) error }) (*model.Tier, error) {
	var t model.Tier
	var features string
	var published int
	err := scanner.Scan(
		&t.ID, &t.Slug, &t.Name, &t.Description, &t.PriceCents, &t.Currency,
		&t.BillingInterval, &features, &published, &t.SortOrder, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	t.IsPublished = published != 0
	t.Features = []string{}
	if features != "" {
		if err := json.Unmarshal([]byte(features), &t.Features); err != nil {
			return nil, fmt.Errorf("decode features for tier %s: %w", t.ID, err)
		}
	}
	return &t, nil
}

const tierCols = `id, slug, name, description, price_cents, currency, billing_interval, features, is_published, sort_order, created_at`

// ListPublished returns published tiers in display order. The result is
// never nil.
func (s *TierStore) ListPublished(ctx context.Context) ([]model.Tier, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+tierCols+` FROM package_subscription_tiers
		 WHERE is_published = 1
		 ORDER BY sort_order ASC, id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list published tiers: %w", err)
	}
	defer rows.Close()

	tiers := []model.Tier{}
	for rows.Next() {
		t, err := scanTier(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tier: %w", err)
		}
		tiers = append(tiers, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tiers: %w", err)
	}
	return tiers, nil
}
