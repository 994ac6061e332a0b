// Package entitlement answers course access questions and attaches
// purchases made before signup to the account that signed up.
package entitlement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/p28/portal/internal/model"
)

var (
	// ErrLinkFailed wraps any store failure during linking.
	ErrLinkFailed = errors.New("link entitlements failed")
	// ErrInvalidLinkInput is returned when the email or user id is blank.
	ErrInvalidLinkInput = errors.New("email and user id are required")
)

// Store is the persistence the service needs. FindActive returns nil, nil
// when no active row exists.
type Store interface {
	FindActive(ctx context.Context, userID, courseID string) (*model.Entitlement, error)
	LinkByEmail(ctx context.Context, email, userID string) (int64, error)
	ListActiveByUser(ctx context.Context, userID string) ([]model.Entitlement, error)
}

type Service struct {
	store  Store
	logger *slog.Logger
}

func NewService(store Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, logger: logger}
}

// HasAccess reports whether the user holds an active entitlement for the
// course. Lookup failures deny access; they are logged but never returned.
func (s *Service) HasAccess(ctx context.Context, userID, courseID string) bool {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(courseID) == "" {
		return false
	}
	e, err := s.store.FindActive(ctx, userID, courseID)
	if err != nil {
		s.logger.Warn("access check failed, denying", "user_id", userID, "course_id", courseID, "error", err)
		return false
	}
	return e != nil && e.Status == model.StatusActive
}

// Link attaches every unlinked entitlement purchased with email to userID.
// Rows already owned by a user are left alone, so repeated calls are no-ops.
func (s *Service) Link(ctx context.Context, email, userID string) error {
	email = NormalizeEmail(email)
	userID = strings.TrimSpace(userID)
	if email == "" || userID == "" {
		return ErrInvalidLinkInput
	}

	n, err := s.store.LinkByEmail(ctx, email, userID)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLinkFailed, err)
	}
	if n > 0 {
		s.logger.Info("linked entitlements", "user_id", userID, "count", n)
	}
	return nil
}

// ActiveCourses returns the course ids the user can open.
func (s *Service) ActiveCourses(ctx context.Context, userID string) ([]string, error) {
	list, err := s.store.ListActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	courses := make([]string, 0, len(list))
	for _, e := range list {
		courses = append(courses, e.CourseID)
	}
	return courses, nil
}

// NormalizeEmail trims and lower-cases an address for comparison.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
