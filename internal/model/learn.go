package model

// Question is a multiple choice quiz question. Explanations is parallel to Answers.
type Question struct {
	Question     string   `yaml:"question" json:"question"`
	Answers      []string `yaml:"answers" json:"answers"`
	Explanations []string `yaml:"explanations" json:"-"`
	Correct      int      `yaml:"correct" json:"-"`
}

// QuestionView is a question as served to the player, without the answer key.
type QuestionView struct {
	ID       int      `json:"id"`
	Question string   `json:"question"`
	Answers  []string `json:"answers"`
}

// AnswerResult is the outcome of a submitted quiz answer.
type AnswerResult struct {
	Correct      bool   `json:"correct"`
	CorrectIndex int    `json:"correctIndex"`
	Explanation  string `json:"explanation"`
}

// GameEvent is an economic event of the mini-game.
type GameEvent struct {
	Name        string  `yaml:"name" json:"name"`
	Change      float64 `yaml:"change" json:"-"`
	GoodChoice  string  `yaml:"good_choice" json:"-"`
	Reason      string  `yaml:"reason" json:"-"`
	Description string  `yaml:"description" json:"description"`
}

// GameState is the visible state of a mini-game.
type GameState struct {
	Balance        float64    `json:"balance"`
	BalanceDisplay string     `json:"balanceDisplay"`
	History        []float64  `json:"history"`
	Rounds         []int      `json:"rounds"`
	Round          int        `json:"round"`
	Event          *GameEvent `json:"event,omitempty"`
	Message        string     `json:"message"`
	Over           bool       `json:"over"`
}
