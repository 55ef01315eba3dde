package validation

import (
	"net/mail"
	"strings"

	"github.com/investifai/investif/internal/api/request"
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 6

// ValidateSignUp checks a registration form. Matching of the two passwords
// is left to the service so it can report it separately.
func ValidateSignUp(req request.SignUpRequest) error {
	errors := make(map[string]string)

	if msg := checkEmail(req.Email); msg != "" {
		errors["email"] = msg
	}
	if len(req.Password) < MinPasswordLength {
		errors["password"] = "password must be at least 6 characters"
	}

	return result(errors)
}

// ValidateSignIn checks that both credentials are present.
func ValidateSignIn(req request.SignInRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.Email) == "" {
		errors["email"] = "email is required"
	}
	if req.Password == "" {
		errors["password"] = "password is required"
	}

	return result(errors)
}

func checkEmail(email string) string {
	email = strings.TrimSpace(email)
	if email == "" {
		return "email is required"
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "email is invalid"
	}
	return ""
}
