package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/p28/portal/internal/database"
)

func setupTierTestDB(t *testing.T) (*TierStore, *sql.DB) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewTierStore(db), db
}

func insertTier(t *testing.T, db *sql.DB, id, slug string, published bool, sortOrder int, features string) {
	t.Helper()
	pub := 0
	if published {
		pub = 1
	}
	_, err := db.Exec(
		`INSERT INTO package_subscription_tiers (id, slug, name, price_cents, features, is_published, sort_order)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, slug, "Tier "+slug, 1900, features, pub, sortOrder,
	)
	if err != nil {
		t.Fatalf("insert tier: %v", err)
	}
}

func TestTierListPublishedEmpty(t *testing.T) {
	s, db := setupTierTestDB(t)
	insertTier(t, db, "t1", "draft", false, 1, "[]")

	tiers, err := s.ListPublished(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if tiers == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(tiers) != 0 {
		t.Errorf("len = %d, want 0", len(tiers))
	}
}

func TestTierListPublishedOrder(t *testing.T) {
	s, db := setupTierTestDB(t)
	insertTier(t, db, "t1", "pro", true, 20, `["all courses","community"]`)
	insertTier(t, db, "t2", "starter", true, 10, `["one course"]`)
	insertTier(t, db, "t3", "hidden", false, 0, `[]`)
	insertTier(t, db, "t4", "team", true, 30, `[]`)

	tiers, err := s.ListPublished(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"starter", "pro", "team"}
	if len(tiers) != len(want) {
		t.Fatalf("len = %d, want %d", len(tiers), len(want))
	}
	for i, slug := range want {
		if tiers[i].Slug != slug {
			t.Errorf("tiers[%d] = %q, want %q", i, tiers[i].Slug, slug)
		}
		if !tiers[i].IsPublished {
			t.Errorf("tiers[%d] should be published", i)
		}
	}
	if len(tiers[1].Features) != 2 || tiers[1].Features[0] != "all courses" {
		t.Errorf("features = %v", tiers[1].Features)
	}
	if tiers[2].Features == nil {
		t.Error("features should be an empty slice, not nil")
	}
}

func TestTierListPublishedClosedDB(t *testing.T) {
	s, db := setupTierTestDB(t)
	db.Close()

	if _, err := s.ListPublished(context.Background()); err == nil {
		t.Fatal("expected error on closed database")
	}
}
