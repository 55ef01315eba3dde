package handlers

import (
	"net/http"

	"github.com/investifai/investif/internal/api/middleware"
	"github.com/investifai/investif/internal/api/request"
	"github.com/investifai/investif/internal/api/response"
	"github.com/investifai/investif/internal/service"
	"github.com/investifai/investif/internal/validation"
)

// AuthHandler handles account and session endpoints.
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// SignUp registers an account and signs it in.
//
// Endpoint: POST /api/auth/signup
// Request Body: SignUpRequest (email, password, confirmPassword)
// Response: 201 Created with service.Session
// Error: 400 Bad Request if validation fails or the passwords differ
// Error: 409 Conflict if the email is taken
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.SignUpRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := validation.ValidateSignUp(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	session, err := h.authService.SignUp(r.Context(), req.Email, req.Password, req.ConfirmPassword)
	if err != nil {
		respondServiceError(w, err, "failed to sign up")
		return
	}
	response.RespondJSON(w, http.StatusCreated, session)
}

// SignIn exchanges credentials for a session token.
//
// Endpoint: POST /api/auth/signin
// Request Body: SignInRequest (email, password)
// Response: 200 OK with service.Session
// Error: 401 Unauthorized if the credentials are wrong
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.SignInRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := validation.ValidateSignIn(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	session, err := h.authService.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(w, err, "failed to sign in")
		return
	}
	response.RespondJSON(w, http.StatusOK, session)
}

// SignOut discards the caller's server-side session state.
//
// Endpoint: POST /api/auth/signout
// Response: 204 No Content
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())
	h.authService.SignOut(userID)
	response.RespondJSON(w, http.StatusNoContent, nil)
}

// Me returns the signed-in account.
//
// Endpoint: GET /api/auth/me
// Response: 200 OK with model.User
// Error: 404 Not Found if the account was deleted
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())
	user, err := h.authService.Me(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err, "failed to load account")
		return
	}
	response.RespondJSON(w, http.StatusOK, user)
}
