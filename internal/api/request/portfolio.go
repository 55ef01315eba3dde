package request

// SelectTickerRequest picks a search result in the purchase form
type SelectTickerRequest struct {
	Ticker string `json:"ticker"`
}

// PurchaseRequest is the submitted purchase form. Date is YYYY-MM-DD.
// At least one of Price and Date is required.
type PurchaseRequest struct {
	Quantity float64  `json:"quantity"`
	Price    *float64 `json:"price,omitempty"`
	Date     *string  `json:"date,omitempty"`
}

// RepriceRequest sets a new purchase price on a position
type RepriceRequest struct {
	Price float64 `json:"price"`
}
