package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/investifai/investif/internal/content"
	"github.com/investifai/investif/internal/model"
	"github.com/investifai/investif/internal/service"
	"github.com/investifai/investif/internal/testutil"
)

func newLearnHandler(t *testing.T, env *testutil.Env) *LearnHandler {
	t.Helper()
	questions, err := content.Questions()
	if err != nil {
		t.Fatalf("Failed to load questions: %v", err)
	}
	events, err := content.Events()
	if err != nil {
		t.Fatalf("Failed to load events: %v", err)
	}
	return NewLearnHandler(env.Workspaces, service.NewQuizService(questions), service.NewGameService(events))
}

func TestLearnHandler_Quiz(t *testing.T) {
	t.Run("current before random is not found", func(t *testing.T) {
		env := testutil.NewTestEnv(t)
		h := newLearnHandler(t, env)
		userID := testutil.CreateUser(t, env.DB).ID

		w := httptest.NewRecorder()
		h.CurrentQuestion(w, newAuthedRequest(t, http.MethodGet, "/api/learn/quiz/current", userID, nil, nil))
		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", w.Code)
		}
	})

	t.Run("draw and answer", func(t *testing.T) {
		env := testutil.NewTestEnv(t)
		h := newLearnHandler(t, env)
		userID := testutil.CreateUser(t, env.DB).ID

		w := httptest.NewRecorder()
		h.RandomQuestion(w, newAuthedRequest(t, http.MethodGet, "/api/learn/quiz/random", userID, nil, nil))
		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
		q := decode[model.QuestionView](t, w)

		w = httptest.NewRecorder()
		h.CurrentQuestion(w, newAuthedRequest(t, http.MethodGet, "/api/learn/quiz/current", userID, nil, nil))
		if cur := decode[model.QuestionView](t, w); cur.ID != q.ID {
			t.Errorf("Expected current question %d, got %d", q.ID, cur.ID)
		}

		w = httptest.NewRecorder()
		h.Answer(w, newAuthedRequest(t, http.MethodPost, "/api/learn/quiz/answer", userID,
			map[string]int{"questionId": q.ID, "choice": 0}, nil))
		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
		if res := decode[model.AnswerResult](t, w); res.Explanation == "" {
			t.Error("Expected an explanation")
		}
	})

	t.Run("out of range choice", func(t *testing.T) {
		env := testutil.NewTestEnv(t)
		h := newLearnHandler(t, env)

		w := httptest.NewRecorder()
		h.Answer(w, newAuthedRequest(t, http.MethodPost, "/api/learn/quiz/answer", "u",
			map[string]int{"questionId": 0, "choice": 99}, nil))
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})

	t.Run("missing fields", func(t *testing.T) {
		env := testutil.NewTestEnv(t)
		h := newLearnHandler(t, env)

		w := httptest.NewRecorder()
		h.Answer(w, newAuthedRequest(t, http.MethodPost, "/api/learn/quiz/answer", "u",
			map[string]int{"choice": 1}, nil))
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})
}

func TestLearnHandler_Game(t *testing.T) {
	t.Run("state before new is not found", func(t *testing.T) {
		env := testutil.NewTestEnv(t)
		h := newLearnHandler(t, env)
		userID := testutil.CreateUser(t, env.DB).ID

		w := httptest.NewRecorder()
		h.Game(w, newAuthedRequest(t, http.MethodGet, "/api/learn/game", userID, nil, nil))
		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", w.Code)
		}
	})

	t.Run("new game and one turn", func(t *testing.T) {
		env := testutil.NewTestEnv(t)
		h := newLearnHandler(t, env)
		userID := testutil.CreateUser(t, env.DB).ID

		w := httptest.NewRecorder()
		h.NewGame(w, newAuthedRequest(t, http.MethodPost, "/api/learn/game/new", userID, nil, nil))
		if w.Code != http.StatusCreated {
			t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
		}
		state := decode[model.GameState](t, w)
		if state.Balance != service.StartingBalance || state.BalanceDisplay != "$10,000.00" {
			t.Errorf("Expected starting balance, got %+v", state)
		}

		w = httptest.NewRecorder()
		h.Decide(w, newAuthedRequest(t, http.MethodPost, "/api/learn/game/decision", userID,
			map[string]string{"decision": "hold"}, nil))
		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
		if next := decode[model.GameState](t, w); next.Round != state.Round+1 {
			t.Errorf("Expected round %d, got %d", state.Round+1, next.Round)
		}
	})

	t.Run("unknown decision", func(t *testing.T) {
		env := testutil.NewTestEnv(t)
		h := newLearnHandler(t, env)
		userID := testutil.CreateUser(t, env.DB).ID

		w := httptest.NewRecorder()
		h.Decide(w, newAuthedRequest(t, http.MethodPost, "/api/learn/game/decision", userID,
			map[string]string{"decision": "short"}, nil))
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})
}
