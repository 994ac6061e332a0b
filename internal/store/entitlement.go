package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/p28/portal/internal/model"
)

type EntitlementStore struct {
	db *sql.DB
}

func NewEntitlementStore(db *sql.DB) *EntitlementStore {
	return &EntitlementStore{db: db}
}

func scanEntitlement(scanner interface{ Scan(...any) error }) (*model.Entitlement, error) {
	var e model.Entitlement
	var userID sql.NullString
	err := scanner.Scan(&e.ID, &e.Email, &userID, &e.CourseID, &e.Status, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if userID.Valid {
		e.UserID = &userID.String
	}
	return &e, nil
}

const entitlementCols = `id, email, user_id, course_id, status, created_at, updated_at`

// FindActive returns one active entitlement for the user and course, or nil
// if there is none.
func (s *EntitlementStore) FindActive(ctx context.Context, userID, courseID string) (*model.Entitlement, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+entitlementCols+` FROM entitlements
		 WHERE user_id = ? AND course_id = ? AND status = ?
		 LIMIT 1`,
		userID, courseID, model.StatusActive,
	)
	e, err := scanEntitlement(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find active entitlement: %w", err)
	}
	return e, nil
}

// LinkByEmail assigns userID to every unlinked entitlement bought with email
// and returns the number of rows it touched.
func (s *EntitlementStore) LinkByEmail(ctx context.Context, email, userID string) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		`UPDATE entitlements SET user_id = ? WHERE email = ? COLLATE NOCASE AND user_id IS NULL`,
		userID, email,
	)
	if err != nil {
		return 0, fmt.Errorf("link entitlements: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}

// ListActiveByUser returns the user's active entitlements, oldest first.
func (s *EntitlementStore) ListActiveByUser(ctx context.Context, userID string) ([]model.Entitlement, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+entitlementCols+` FROM entitlements
		 WHERE user_id = ? AND status = ?
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
