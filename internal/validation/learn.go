package validation

import (
	"github.com/investifai/investif/internal/api/request"
)

// ValidateDecision checks a mini-game move.
func ValidateDecision(req request.DecisionRequest) error {
	errors := make(map[string]string)
	switch req.Decision {
	case "buy", "sell", "hold":
	default:
		errors["decision"] = "decision must be buy, sell or hold"
	}
	return result(errors)
}

// ValidateAnswer checks that a quiz answer names a question and a choice.
func ValidateAnswer(req request.AnswerRequest) error {
	errors := make(map[string]string)
	if req.QuestionID == nil {
		errors["questionId"] = "questionId is required"
	}
	if req.Choice == nil {
		errors["choice"] = "choice is required"
	}
	return result(errors)
}
