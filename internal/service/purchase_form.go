package service

import (
	"fmt"

	"github.com/investifai/investif/internal/apperrors"
)

// FormState is a state of the purchase form.
type FormState string

const (
	FormClosed    FormState = "closed"
	FormSelecting FormState = "selecting"
	FormVisible   FormState = "form_visible"
)

// PurchaseForm is the add-position dialog:
//
//	closed -> selecting -> form_visible -> closed (saved or cancelled)
//
// Cancel is also allowed while selecting.
type PurchaseForm struct {
	State  FormState `json:"state"`
	Ticker string    `json:"ticker,omitempty"`
}

func (f *PurchaseForm) state() FormState {
	if f.State == "" {
		return FormClosed
	}
	return f.State
}

// Open starts a search.
func (f *PurchaseForm) Open() error {
	if f.state() != FormClosed {
		return f.illegal("open")
	}
	f.State = FormSelecting
	return nil
}

// Select picks ticker and shows the purchase details.
func (f *PurchaseForm) Select(ticker string) error {
	if f.state() != FormSelecting {
		return f.illegal("select")
	}
	f.State = FormVisible
	f.Ticker = ticker
	return nil
}

// Cancel closes the form without saving.
func (f *PurchaseForm) Cancel() error {
	if f.state() == FormClosed {
		return f.illegal("cancel")
	}
	f.reset()
	return nil
}

// ready returns the selected ticker if the form can be saved.
func (f *PurchaseForm) ready() (string, error) {
	if f.state() != FormVisible {
		return "", f.illegal("save")
	}
	return f.Ticker, nil
}

func (f *PurchaseForm) reset() {
	f.State = FormClosed
	f.Ticker = ""
}

func (f *PurchaseForm) illegal(action string) error {
	return fmt.Errorf("%w: cannot %s while %s", apperrors.ErrInvalidFormState, action, f.state())
}
