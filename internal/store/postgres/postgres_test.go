package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/p28/portal/internal/database"
)

// setupPool connects to the database named by PORTAL_TEST_DATABASE_URL and
// applies migrations. Tests are skipped when it is unset.
func setupPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("PORTAL_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("PORTAL_TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := database.OpenPostgres(ctx, dsn)
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}
	t.Cleanup(pool.Close)
	if err := database.MigratePostgres(pool); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return pool
}

// testEmail returns an address unique to this run and removes its rows
// when the test ends.
func testEmail(t *testing.T, pool *pgxpool.Pool, local string) string {
	t.Helper()
	email := local + "+" + uuid.NewString()[:8] + "@example.com"
	t.Cleanup(func() {
		pool.Exec(context.Background(), `DELETE FROM entitlements WHERE lower(email) = lower($1)`, email)
	})
	return email
}

func insertEntitlement(t *testing.T, pool *pgxpool.Pool, email string, userID *string, courseID, status string) {
	t.Helper()
	_, err := pool.Exec(context.Background(),
		`INSERT INTO entitlements (email, user_id, course_id, status) VALUES ($1, $2::uuid, $3, $4)`,
		email, userID, courseID, status,
	)
	if err != nil {
		t.Fatalf("insert entitlement: %v", err)
	}
}

func strPtr(s string) *string { return &s }

func TestEntitlementFindActive(t *testing.T) {
	pool := setupPool(t)
	s := NewEntitlementStore(pool)
	ctx := context.Background()

	user := uuid.NewString()
	email := testEmail(t, pool, "alice")
	insertEntitlement(t, pool, email, strPtr(user), "course-a", "active")
	insertEntitlement(t, pool, email, strPtr(user), "course-b", "revoked")

	e, err := s.FindActive(ctx, user, "course-a")
	if err != nil {
		t.Fatalf("find active: %v", err)
	}
	if e == nil || e.UserID == nil || *e.UserID != user {
		t.Fatalf("entitlement = %+v, want one owned by %s", e, user)
	}

	e, err = s.FindActive(ctx, user, "course-b")
	if err != nil {
		t.Fatalf("find revoked: %v", err)
	}
	if e != nil {
		t.Errorf("expected nil for revoked entitlement, got %+v", e)
	}
}

func TestEntitlementLinkByEmail(t *testing.T) {
	pool := setupPool(t)
	s := NewEntitlementStore(pool)
	ctx := context.Background()

	user := uuid.NewString()
	other := uuid.NewString()
	email := testEmail(t, pool, "alice")
	insertEntitlement(t, pool, email, nil, "course-a", "active")
	insertEntitlement(t, pool, email, nil, "course-b", "active")
	insertEntitlement(t, pool, email, strPtr(other), "course-c", "active")

	n, err := s.LinkByEmail(ctx, email, user)
	if err != nil {
		t.Fatalf("link: %v", err)
	}
	if n != 2 {
		t.Errorf("linked = %d, want 2", n)
	}

	var owner string
	if err := pool.QueryRow(ctx,
		`SELECT user_id::text FROM entitlements WHERE lower(email) = lower($1) AND course_id = 'course-c'`, email,
	).Scan(&owner); err != nil {
		t.Fatalf("read course-c owner: %v", err)
	}
	if owner != other {
		t.Errorf("course-c owner = %q, want %q", owner, other)
	}

	list, err := s.ListActiveByUser(ctx, user)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("active for user = %d, want 2", len(list))
	}
}

func TestEntitlementLinkByEmailIdempotent(t *testing.T) {
	pool := setupPool(t)
	s := NewEntitlementStore(pool)
	ctx := context.Background()

	user := uuid.NewString()
	email := testEmail(t, pool, "Carol")
	insertEntitlement(t, pool, email, nil, "course-a", "active")

	if n, err := s.LinkByEmail(ctx, email, user); err != nil || n != 1 {
		t.Fatalf("first link: n=%d err=%v", n, err)
	}
	n, err := s.LinkByEmail(ctx, email, user)
	if err != nil {
		t.Fatalf("second link: %v", err)
	}
	if n != 0 {
		t.Errorf("second link touched %d rows, want 0", n)
	}

	// A different user cannot take over a linked row.
	n, err = s.LinkByEmail(ctx, email, uuid.NewString())
	if err != nil {
		t.Fatalf("third link: %v", err)
	}
	if n != 0 {
		t.Errorf("relink touched %d rows, want 0", n)
	}
}

func TestTierListPublished(t *testing.T) {
	pool := setupPool(t)
	s := NewTierStore(pool)
	ctx := context.Background()

	suffix := uuid.NewString()[:8]
	slugs := []string{"late-" + suffix, "early-" + suffix, "hidden-" + suffix}
	t.Cleanup(func() {
		pool.Exec(context.Background(), `DELETE FROM package_subscription_tiers WHERE slug = ANY($1)`, slugs)
	})
	rows := []struct {
		slug      string
		published bool
		order     int
	}{
		{slugs[0], true, 9002},
		{slugs[1], true, 9001},
		{slugs[2], false, 9000},
	}
	for _, r := range rows {
		if _, err := pool.Exec(ctx,
			`INSERT INTO package_subscription_tiers (slug, name, features, is_published, sort_order)
			 VALUES ($1, $1, '["x"]'::jsonb, $2, $3)`,
			r.slug, r.published, r.order,
		); err != nil {
			t.Fatalf("insert tier: %v", err)
		}
	}

	tiers, err := s.ListPublished(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var got []string
	for _, tier := range tiers {
		if tier.Slug == slugs[0] || tier.Slug == slugs[1] || tier.Slug == slugs[2] {
			got = append(got, tier.Slug)
			if len(tier.Features) != 1 || tier.Features[0] != "x" {
				t.Errorf("%s features = %v", tier.Slug, tier.Features)
			}
		}
	}
	if len(got) != 2 || got[0] != slugs[1] || got[1] != slugs[0] {
		t.Errorf("published order = %v, want [%s %s]", got, slugs[1], slugs[0])
	}
}
