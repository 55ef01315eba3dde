package validation

import (
	"time"

	"github.com/investifai/investif/internal/api/request"
)

// ValidatePurchase checks a submitted purchase form. now bounds the date.
func ValidatePurchase(req request.PurchaseRequest, now time.Time) error {
	errors := make(map[string]string)

	if req.Quantity <= 0 {
		errors["quantity"] = "quantity must be greater than zero"
	}

	if req.Price == nil && req.Date == nil {
		errors["price"] = "price or date is required"
	}
	if req.Price != nil && *req.Price <= 0 {
		errors["price"] = "price must be greater than zero"
	}

	if req.Date != nil {
		d, err := ParseDate(*req.Date)
		if err != nil {
			errors["date"] = "date must be YYYY-MM-DD"
		} else if d.After(now.UTC()) {
			errors["date"] = "date cannot be in the future"
		}
	}

	return result(errors)
}

// ValidateReprice checks a new purchase price.
func ValidateReprice(req request.RepriceRequest) error {
	errors := make(map[string]string)
	if req.Price <= 0 {
		errors["price"] = "price must be greater than zero"
	}
	return result(errors)
}

// ValidateSelectTicker checks a purchase-form ticker selection.
func ValidateSelectTicker(req request.SelectTickerRequest) error {
	errors := make(map[string]string)
	if err := ValidateTicker(req.Ticker); err != nil {
		errors["ticker"] = "ticker is invalid"
	}
	return result(errors)
}
