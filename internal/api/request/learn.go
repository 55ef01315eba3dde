package request

// AnswerRequest submits a quiz answer by index
type AnswerRequest struct {
	QuestionID *int `json:"questionId"`
	Choice     *int `json:"choice"`
}

// DecisionRequest is a mini-game move: buy, sell or hold
type DecisionRequest struct {
	Decision string `json:"decision"`
}
