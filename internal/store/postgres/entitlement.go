// Package postgres implements the portal stores against the Supabase
// Postgres database.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/p28/portal/internal/model"
)

type EntitlementStore struct {
	pg *pgxpool.Pool
}

func NewEntitlementStore(pg *pgxpool.Pool) *EntitlementStore {
	return &EntitlementStore{pg: pg}
}

const entitlementCols = `id::text, email, user_id::text, course_id, status, created_at, updated_at`

func scanEntitlement(row pgx.Row) (*model.Entitlement, error) {
	var e model.Entitlement
	if err := row.Scan(&e.ID, &e.Email, &e.UserID, &e.CourseID, &e.Status, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *EntitlementStore) FindActive(ctx context.Context, userID, courseID string) (*model.Entitlement, error) {
	row := s.pg.QueryRow(ctx,
		`SELECT `+entitlementCols+` FROM entitlements
		 WHERE user_id = $1::uuid AND course_id = $2 AND status = $3
		 LIMIT 1`,
		userID, courseID, model.StatusActive,
	)
	e, err := scanEntitlement(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find active entitlement: %w", err)
	}
	return e, nil
}

func (s *EntitlementStore) LinkByEmail(ctx context.Context, email, userID string) (int64, error) {
	tag, err := s.pg.Exec(ctx,
		`UPDATE entitlements SET user_id = $2::uuid, updated_at = NOW()
		 WHERE lower(email) = lower($1) AND user_id IS NULL`,
		email, userID,
	)
	if err != nil {
		return 0, fmt.Errorf("link entitlements: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (s *EntitlementStore) ListActiveByUser(ctx context.Context, userID string) ([]model.Entitlement, error) {
	rows, err := s.pg.Query(ctx,
		`SELECT `+entitlementCols+` FROM entitlements
		 WHERE user_id = $1::uuid AND status = $2
		 ORDER BY created_at ASC, id ASC`,
		userID, model.StatusActive,
	)
	if err != nil {
		return nil, fmt.Errorf("list entitlements: %w", err)
	}
	defer rows.Close()

	var out []model.Entitlement
	for rows.Next() {
		e, err := scanEntitlement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entitlement: %w", err)
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}
