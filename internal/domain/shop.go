package domain

import "time"

// Shop is a seller storefront attached to a user profile.
// Payment and fulfillment are external; this record is catalog metadata.
type Shop struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	BannerRef   string    `json:"banner_ref,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Touch updates the UpdatedAt timestamp.
func (s *Shop) Touch() {
	s.UpdatedAt = time.Now()
}

// Listing is an item offered in a shop. PriceCents avoids float money.
type Listing struct {
	ID          string    `json:"id"`
	ShopID      string    `json:"shop_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	MediaRef    string    `json:"media_ref,omitempty"`
	PriceCents  int64     `json:"price_cents"`
	Currency    string    `json:"currency"`
	Available   bool      `json:"available"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Touch updates the UpdatedAt timestamp.
func (l *Listing) Touch() {
	l.UpdatedAt = time.Now()
}
