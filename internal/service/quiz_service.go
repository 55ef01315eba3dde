package service

import (
	"fmt"
	"math/rand/v2"

	"github.com/investifai/investif/internal/apperrors"
	"github.com/investifai/investif/internal/model"
)

// QuizService serves the investing quiz.
type QuizService struct {
	questions []model.Question
	pick      func(n int) int
}

// NewQuizService creates a QuizService over questions.
func NewQuizService(questions []model.Question) *QuizService {
	return &QuizService{questions: questions, pick: rand.IntN}
}

// Random picks a question and remembers it as the workspace's current one.
func (s *QuizService) Random(ws *Workspace) (model.QuestionView, error) {
	if len(s.questions) == 0 {
		return model.QuestionView{}, apperrors.ErrQuestionNotFound
	}
	i := s.pick(len(s.questions))

	ws.lock()
	ws.quizIndex = i
	ws.unlock()

	return s.view(i), nil
}

// Current returns the question last picked for the workspace.
func (s *QuizService) Current(ws *Workspace) (model.QuestionView, error) {
	ws.lock()
	i := ws.quizIndex
	ws.unlock()

	if i < 0 || i >= len(s.questions) {
		return model.QuestionView{}, apperrors.ErrQuestionNotFound
	}
	return s.view(i), nil
}

// Answer grades choice for question id and explains the chosen answer.
func (s *QuizService) Answer(id, choice int) (model.AnswerResult, error) {
	if id < 0 || id >= len(s.questions) {
		return model.AnswerResult{}, fmt.Errorf("%w: %d", apperrors.ErrQuestionNotFound, id)
	}
	q := s.questions[id]
	if choice < 0 || choice >= len(q.Answers) {
		return model.AnswerResult{}, fmt.Errorf("%w: %d", apperrors.ErrInvalidAnswer, choice)
	}
	return model.AnswerResult{
		Correct:      choice == q.Correct,
		CorrectIndex: q.Correct,
		Explanation:  q.Explanations[choice],
	}, nil
}

func (s *QuizService) view(i int) model.QuestionView {
	q := s.questions[i]
	answers := make([]string, len(q.Answers))
	copy(answers, q.Answers)
	return model.QuestionView{ID: i, Question: q.Question, Answers: answers}
}
