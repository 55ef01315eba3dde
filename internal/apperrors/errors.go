package apperrors

import "errors"

// Domain entity errors represent missing or invalid entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrUserNotFound indicates that a user with the given ID or email does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrPositionNotFound indicates that the user's portfolio holds no position for the ticker.
	ErrPositionNotFound = errors.New("position not found")

	// ErrStockNotFound indicates that the price gateway had no series for a ticker.
	// Any non-2xx answer from the gateway is reported this way.
	ErrStockNotFound = errors.New("stock not found")

	// ErrSymbolNotFound indicates that a symbol lookup returned no results
	ErrSymbolNotFound = errors.New("symbol not found")

	// ErrQuestionNotFound indicates that a quiz question index is out of range.
	ErrQuestionNotFound = errors.New("question not found")

	ErrGameNotStarted = errors.New("game not started")
)

// Business logic errors represent validation failures or constraint violations.
// These errors indicate that an operation cannot be completed due to business rules.
var (
	// ErrDuplicateEntry indicates that an entity with the same unique constraint already exists.
	ErrDuplicateEntry = errors.New("duplicate entry")

	// ErrInvalidTimeRange indicates that a requested chart window is not one of the known ranges.
	ErrInvalidTimeRange = errors.New("invalid time range")

	// ErrInvalidFormState indicates an illegal purchase-form transition
	// (e.g., saving a form that was never opened).
	ErrInvalidFormState = errors.New("invalid purchase form state")

	// ErrGameOver indicates a decision was submitted after the balance hit zero.
	ErrGameOver = errors.New("game is over")

	// Validation errors for required fields
	ErrInvalidSymbol   = errors.New("symbol is required")
	ErrInvalidQuantity = errors.New("quantity is required")
	ErrInvalidDecision = errors.New("decision must be buy, sell or hold")
	ErrInvalidAnswer   = errors.New("answer index out of range")
)

// Authentication errors are returned by sign-in, sign-up and token checks.
// None of them is retried.
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrInvalidToken       = errors.New("token is invalid or expired")
	ErrUnauthenticated    = errors.New("authentication required")
)

// Operation failure errors represent system-level failures when retrieving or processing data.
// These errors indicate that an operation failed, but not due to missing entities or validation issues.
var (
	// ErrStaleResponse indicates that a newer symbol search started while this one was in flight.
	ErrStaleResponse = errors.New("stale response discarded")

	// ErrHistoricalPriceUnavailable indicates the gateway could not backfill a purchase price.
	ErrHistoricalPriceUnavailable = errors.New("historical price unavailable")

	// ErrUpstream indicates that a remote collaborator answered with something unusable.
	ErrUpstream = errors.New("upstream service failure")

	ErrFailedToRetrievePositions = errors.New("failed to retrieve positions")
	ErrFailedToRetrieveMovers    = errors.New("failed to retrieve top movers")
	ErrFailedToRetrieveChart     = errors.New("failed to retrieve chart data")
	ErrFailedToSearchSymbols     = errors.New("failed to search symbols")
	ErrFailedToSummarize         = errors.New("failed to summarize news")
	ErrFailedToGetVersionInfo    = errors.New("failed to get version information")
)
