package models

import "time"

// Order is order entity
type Order struct {
	ID            string
	TenantID      string
	Status        Status
	Currency      string
	SubtotalCents int64
	TotalCents    int64
	ScheduledFor  *time.Time
	Timezone      string

	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	NotifyOnReady bool

	// notification tracking, mutated only by the dispatcher
	SentMarker        *time.Time
	ProviderMessageID string
	ProviderStatus    string
	ErrorMessage      string
	AttemptCount      int
	LastAttemptAt     *time.Time

	PaymentRef string
	Items      []OrderItem
	CreatedAt  time.Time
}

// OrderItem is single priced order line
type OrderItem struct {
	MenuItemID     string
	Name           string
	UnitPriceCents int64
	Quantity       int
	Note           string
	AddOns         []AddOnDefinition
}

// AddOnDefinition is one modifier parsed from catalog metadata
type AddOnDefinition struct {
	Name            string `json:"name"`
	PriceDeltaCents int64  `json:"price_delta_cents"`
}

// LineItemRequest is unpriced order line as submitted by customer
type LineItemRequest struct {
	MenuItemID string
	Quantity   int
	Note       string
	AddOns     []AddOnDefinition
}

// Contact is customer contact, email is required
type Contact struct {
	Name  string
	Email string
	Phone string
}
