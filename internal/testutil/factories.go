package testutil

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/investifai/investif/internal/auth"
	"github.com/investifai/investif/internal/model"
	"github.com/investifai/investif/internal/repository"
)

// DefaultPassword is the password of users built without WithPassword.
const DefaultPassword = "correct horse battery"

// UserBuilder provides a fluent interface for creating test users.
//
// Example usage:
//
//	// Simple creation with defaults
//	user := testutil.NewUser().Build(t, db)
//
//	// Customized user
//	user := testutil.NewUser().
//	    WithEmail("ada@example.com").
//	    WithPassword("s3cret!").
//	    Build(t, db)
type UserBuilder struct {
	ID        string
	Email     string
	Password  string
	CreatedAt time.Time
}

// NewUser creates a UserBuilder with sensible defaults.
func NewUser() *UserBuilder {
	return &UserBuilder{
		ID:        MakeID(),
		Email:     MakeEmail("user"),
		Password:  DefaultPassword,
		CreatedAt: time.Now().UTC(),
	}
}

// WithID sets a custom ID.
func (b *UserBuilder) WithID(id string) *UserBuilder {
	b.ID = id
	return b
}

// WithEmail sets a custom email.
func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.Email = email
	return b
}

// WithPassword sets a custom password.
func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.Password = password
	return b
}

// Build creates the user in the database and returns it.
func (b *UserBuilder) Build(t *testing.T, db *sql.DB) model.User {
	t.Helper()

	hash, err := auth.HashPassword(b.Password)
	if err != nil {
		t.Fatalf("Failed to hash test password: %v", err)
	}
	u := model.User{
		ID:           b.ID,
		Email:        b.Email,
		PasswordHash: hash,
		CreatedAt:    b.CreatedAt,
	}
	if err := repository.NewUserRepository(db).InsertUser(context.Background(), &u); err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return u
}

// CreateUser creates a user with default values.
//
// Example usage:
//
//	user := testutil.CreateUser(t, db)
func CreateUser(t *testing.T, db *sql.DB) model.User {
	t.Helper()
	return NewUser().Build(t, db)
}

// PositionBuilder provides a fluent interface for creating test positions.
//
// Example usage:
//
//	position := testutil.NewPosition(user.ID).
//	    WithTicker("AAPL").
//	    WithQuantity(10).
//	    WithPrice(185.64).
//	    Build(t, db)
type PositionBuilder struct {
	UserID       string
	Ticker       string
	Quantity     float64
	Price        float64
	PurchaseDate time.Time
	IsActive     bool
	UpdatedAt    time.Time
}

// NewPosition creates a PositionBuilder with sensible defaults.
func NewPosition(userID string) *PositionBuilder {
	return &PositionBuilder{
		UserID:       userID,
		Ticker:       MakeTicker("T"),
		Quantity:     10,
		Price:        100,
		PurchaseDate: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
		IsActive:     true,
		UpdatedAt:    time.Now().UTC(),
	}
}

// WithTicker sets a custom ticker.
func (b *PositionBuilder) WithTicker(ticker string) *PositionBuilder {
	b.Ticker = ticker
	return b
}

// WithQuantity sets a custom quantity.
func (b *PositionBuilder) WithQuantity(quantity float64) *PositionBuilder {
	b.Quantity = quantity
	return b
}

// WithPrice sets a custom purchase price.
func (b *PositionBuilder) WithPrice(price float64) *PositionBuilder {
	b.Price = price
	return b
}

// WithPurchaseDate sets a custom purchase date.
func (b *PositionBuilder) WithPurchaseDate(date time.Time) *PositionBuilder {
	b.PurchaseDate = date
	return b
}

// Inactive hides the position from the portfolio chart.
func (b *PositionBuilder) Inactive() *PositionBuilder {
	b.IsActive = false
	return b
}

// Build creates the position in the database and returns it.
func (b *PositionBuilder) Build(t *testing.T, db *sql.DB) model.Position {
	t.Helper()

	p := model.Position{
		Ticker:       b.Ticker,
		Quantity:     b.Quantity,
		Price:        b.Price,
		PurchaseDate: b.PurchaseDate,
		IsActive:     b.IsActive,
		UpdatedAt:    b.UpdatedAt,
	}
	if err := repository.NewPositionRepository(db).UpsertPosition(context.Background(), b.UserID, p); err != nil {
		t.Fatalf("Failed to create test position: %v", err)
	}
	return p
}
