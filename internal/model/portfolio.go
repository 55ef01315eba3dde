package model

import "time"

// Position is a user's recorded holding of a ticker.
// A portfolio holds at most one position per ticker.
type Position struct {
	Ticker       string    `json:"ticker"`
	Quantity     float64   `json:"quantity"`
	Price        float64   `json:"price"`
	PurchaseDate time.Time `json:"purchaseDate"`
	IsActive     bool      `json:"isActive"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Snapshot is the full list of a user's positions as the store saw it at UpdatedAt.
type Snapshot struct {
	UserID    string     `json:"userId"`
	Positions []Position `json:"positions"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// PriceDelta compares the purchase price of a position with the latest known price.
// Values are rounded to two decimal places.
type PriceDelta struct {
	Ticker        string  `json:"ticker"`
	PurchasePrice float64 `json:"purchasePrice"`
	CurrentPrice  float64 `json:"currentPrice"`
	NetChange     float64 `json:"netChange"`
	PositionValue float64 `json:"positionValue"`
}

// User is an account of the identity store.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}
