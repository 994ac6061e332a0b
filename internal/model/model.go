package model

import "time"

// Entitlement grants access to one course. Rows are created by purchase
// fulfilment keyed by email; UserID stays nil until the buyer signs in and
// the row is linked.
type Entitlement struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	UserID    *string   `json:"user_id"`
	CourseID  string    `json:"course_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const StatusActive = "active"

// Tier is a published subscription plan shown to prospective buyers.
type Tier struct {
	ID              string    `json:"id"`
	Slug            string    `json:"slug"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	PriceCents      int64     `json:"price_cents"`
	Currency        string    `json:"currency"`
	BillingInterval string    `json:"billing_interval"`
	Features        []string  `json:"features"`
	IsPublished     bool      `json:"is_published"`
	SortOrder       int       `json:"sort_order"`
	CreatedAt       time.Time `json:"created_at"`
}
