// Package chart turns cached price series into chart payloads.
//
// Window plots each active ticker's own tail positionally against the label
// axis of the first active ticker. Merge performs a date-keyed join instead.
// Both are pure functions of their inputs.
package chart

import (
	"fmt"
	"math"
	"strings"

	"github.com/investifai/investif/internal/apperrors"
)

// TimeRange is a named display window.
type TimeRange string

const (
	Range5D  TimeRange = "5d"
	Range1M  TimeRange = "1mo"
	Range3M  TimeRange = "3mo"
	Range6M  TimeRange = "6mo"
	Range1Y  TimeRange = "1y"
	Range2Y  TimeRange = "2y"
	Range5Y  TimeRange = "5y"
	RangeMax TimeRange = "max"
)

// DefaultRange is the window shown before the user picks one.
const DefaultRange = Range6M

var rangePoints = map[TimeRange]int{
	Range5D:  5,
	Range1M:  30,
	Range3M:  90,
	Range6M:  180,
	Range1Y:  365,
	Range2Y:  365 * 2,
	Range5Y:  365 * 5,
	RangeMax: math.MaxInt,
}

// Ranges lists the ranges in display order.
func Ranges() []TimeRange {
	return []TimeRange{Range5D, Range1M, Range3M, Range6M, Range1Y, Range2Y, Range5Y, RangeMax}
}

// ParseTimeRange accepts a range name, case-insensitively.
func ParseTimeRange(s string) (TimeRange, error) {
	r := TimeRange(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := rangePoints[r]; !ok {
		return "", fmt.Errorf("%w: %q", apperrors.ErrInvalidTimeRange, s)
	}
	return r, nil
}

// Points returns the approximate number of points the range shows.
// RangeMax is unbounded and returns math.MaxInt.
func (r TimeRange) Points() int {
	if n, ok := rangePoints[r]; ok {
		return n
	}
	return rangePoints[DefaultRange]
}

// tail returns the start index of the last n entries of a sequence of length size.
func tail(size, n int) int {
	return max(0, size-n)
}
