package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Common validation errors
var (
	ErrInvalidTicker = fmt.Errorf("invalid ticker format")
	ErrInvalidDate   = fmt.Errorf("invalid date")
)

// Letters, digits and the punctuation used by share classes and indices
// (BRK.B, ^GSPC, EURUSD=X).
var tickerPattern = regexp.MustCompile(`^[A-Z0-9^][A-Z0-9.\-=^]{0,15}$`)

// ValidateTicker checks that ticker looks like an exchange symbol. Case is ignored.
func ValidateTicker(ticker string) error {
	if !tickerPattern.MatchString(strings.ToUpper(strings.TrimSpace(ticker))) {
		return fmt.Errorf("%w: %q", ErrInvalidTicker, ticker)
	}
	return nil
}

// ParseDate parses a YYYY-MM-DD date in UTC.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(time.DateOnly, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q must be YYYY-MM-DD", ErrInvalidDate, s)
	}
	return d, nil
}
