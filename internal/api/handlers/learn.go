package handlers

import (
	"net/http"

	"github.com/investifai/investif/internal/api/request"
	"github.com/investifai/investif/internal/api/response"
	"github.com/investifai/investif/internal/service"
	"github.com/investifai/investif/internal/validation"
)

// LearnHandler serves the quiz and the investing mini-game.
type LearnHandler struct {
	workspaces *service.WorkspaceManager
	quiz       *service.QuizService
	game       *service.GameService
}

// NewLearnHandler creates a new LearnHandler
func NewLearnHandler(workspaces *service.WorkspaceManager, quiz *service.QuizService, game *service.GameService) *LearnHandler {
	return &LearnHandler{workspaces: workspaces, quiz: quiz, game: game}
}

// RandomQuestion draws a new question and makes it the caller's current one.
//
// Endpoint: GET /api/learn/quiz/random
// Response: 200 OK with model.QuestionView
func (h *LearnHandler) RandomQuestion(w http.ResponseWriter, r *http.Request) {
	ws := workspace(w, r, h.workspaces)
	if ws == nil {
		return
	}
	q, err := h.quiz.Random(ws)
	if err != nil {
		respondServiceError(w, err, "failed to draw question")
		return
	}
	response.RespondJSON(w, http.StatusOK, q)
}

// CurrentQuestion returns the last drawn question.
//
// Endpoint: GET /api/learn/quiz/current
// Response: 200 OK with model.QuestionView
// Error: 404 Not Found if none has been drawn
func (h *LearnHandler) CurrentQuestion(w http.ResponseWriter, r *http.Request) {
	ws := workspace(w, r, h.workspaces)
	if ws == nil {
		return
	}
	q, err := h.quiz.Current(ws)
	if err != nil {
		respondServiceError(w, err, "failed to get question")
		return
	}
	response.RespondJSON(w, http.StatusOK, q)
}

// Answer checks an answer.
//
// Endpoint: POST /api/learn/quiz/answer
// Request Body: AnswerRequest (questionId, choice)
// Response: 200 OK with model.AnswerResult
// Error: 400 Bad Request if the choice is out of range
// Error: 404 Not Found if the question does not exist
func (h *LearnHandler) Answer(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.AnswerRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := validation.ValidateAnswer(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	res, err := h.quiz.Answer(*req.QuestionID, *req.Choice)
	if err != nil {
		respondServiceError(w, err, "failed to check answer")
		return
	}
	response.RespondJSON(w, http.StatusOK, res)
}

// NewGame starts a game with the starting balance.
//
// Endpoint: POST /api/learn/game/new
// Response: 201 Created with model.GameState
func (h *LearnHandler) NewGame(w http.ResponseWriter, r *http.Request) {
	ws := workspace(w, r, h.workspaces)
	if ws == nil {
		return
	}
	response.RespondJSON(w, http.StatusCreated, h.game.New(ws))
}

// Game returns the running game.
//
// Endpoint: GET /api/learn/game
// Response: 200 OK with model.GameState
// Error: 404 Not Found if no game was started
func (h *LearnHandler) Game(w http.ResponseWriter, r *http.Request) {
	ws := workspace(w, r, h.workspaces)
	if ws == nil {
		return
	}
	state, err := h.game.State(ws)
	if err != nil {
		respondServiceError(w, err, "failed to get game")
		return
	}
	response.RespondJSON(w, http.StatusOK, state)
}

// Decide plays one turn.
//
// Endpoint: POST /api/learn/game/decision
// Request Body: DecisionRequest (decision)
// Response: 200 OK with model.GameState
// Error: 400 Bad Request if the decision is unknown
// Error: 404 Not Found if no game was started
// Error: 409 Conflict if the game is over
func (h *LearnHandler) Decide(w http.ResponseWriter, r *http.Request) {
	ws := workspace(w, r, h.workspaces)
	if ws == nil {
		return
	}
	req, err := parseJSON[request.DecisionRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := validation.ValidateDecision(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	state, err := h.game.Decide(ws, req.Decision)
	if err != nil {
		respondServiceError(w, err, "failed to play turn")
		return
	}
	response.RespondJSON(w, http.StatusOK, state)
}
