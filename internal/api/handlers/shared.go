package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/investifai/investif/internal/api/middleware"
	"github.com/investifai/investif/internal/api/response"
	"github.com/investifai/investif/internal/apperrors"
	"github.com/investifai/investif/internal/service"
	"github.com/investifai/investif/internal/validation"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// parseJSON decodes the request body into T. Unknown fields are rejected.
func parseJSON[T any](r *http.Request) (T, error) {
	var v T
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&v); err != nil {
		return v, fmt.Errorf("failed to decode request body: %w", err)
	}
	return v, nil
}

// statusFor maps a service error to an HTTP status.
func statusFor(err error) int {
	var vErr *validation.Error
	switch {
	case errors.As(err, &vErr):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrUserNotFound),
		errors.Is(err, apperrors.ErrPositionNotFound),
		errors.Is(err, apperrors.ErrStockNotFound),
		errors.Is(err, apperrors.ErrSymbolNotFound),
		errors.Is(err, apperrors.ErrQuestionNotFound),
		errors.Is(err, apperrors.ErrGameNotStarted):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrDuplicateEntry),
		errors.Is(err, apperrors.ErrInvalidFormState),
		errors.Is(err, apperrors.ErrGameOver),
		errors.Is(err, apperrors.ErrStaleResponse):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrInvalidTimeRange),
		errors.Is(err, apperrors.ErrInvalidSymbol),
		errors.Is(err, apperrors.ErrInvalidQuantity),
		errors.Is(err, apperrors.ErrInvalidDecision),
		errors.Is(err, apperrors.ErrInvalidAnswer),
		errors.Is(err, apperrors.ErrPasswordMismatch):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrInvalidCredentials),
		errors.Is(err, apperrors.ErrInvalidToken),
		errors.Is(err, apperrors.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, apperrors.ErrUpstream),
		errors.Is(err, apperrors.ErrHistoricalPriceUnavailable),
		errors.Is(err, apperrors.ErrFailedToSearchSymbols),
		errors.Is(err, apperrors.ErrFailedToRetrieveMovers):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// respondServiceError writes err with the status statusFor picks. message
// is used for 500s, where the sentinel text would say nothing useful.
func respondServiceError(w http.ResponseWriter, err error, message string) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		response.RespondError(w, status, message, err.Error())
		return
	}
	response.RespondError(w, status, headline(err), err.Error())
}

// headline returns the outermost sentinel message of err.
func headline(err error) string {
	var vErr *validation.Error
	if errors.As(err, &vErr) {
		return "validation failed"
	}
	for _, sentinel := range []error{
		apperrors.ErrUserNotFound, apperrors.ErrPositionNotFound, apperrors.ErrStockNotFound,
		apperrors.ErrSymbolNotFound, apperrors.ErrQuestionNotFound, apperrors.ErrGameNotStarted,
		apperrors.ErrDuplicateEntry, apperrors.ErrInvalidFormState, apperrors.ErrGameOver,
		apperrors.ErrStaleResponse, apperrors.ErrInvalidTimeRange, apperrors.ErrInvalidSymbol,
		apperrors.ErrInvalidQuantity, apperrors.ErrInvalidDecision, apperrors.ErrInvalidAnswer,
		apperrors.ErrPasswordMismatch, apperrors.ErrInvalidCredentials, apperrors.ErrInvalidToken,
		apperrors.ErrUnauthenticated, apperrors.ErrHistoricalPriceUnavailable,
		apperrors.ErrFailedToSearchSymbols, apperrors.ErrFailedToRetrieveMovers, apperrors.ErrUpstream,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return err.Error()
}

// workspace loads the workspace of the authenticated user. It writes the
// error response itself and returns nil on failure.
func workspace(w http.ResponseWriter, r *http.Request, workspaces *service.WorkspaceManager) *service.Workspace {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		response.RespondError(w, http.StatusUnauthorized, apperrors.ErrUnauthenticated.Error(), "")
		return nil
	}
	ws, err := workspaces.Get(r.Context(), userID)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrievePositions.Error(), err.Error())
		return nil
	}
	return ws
}
