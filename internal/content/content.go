// Package content holds the embedded quiz bank and mini-game events.
package content

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/investifai/investif/internal/model"
)

//go:embed quiz.yaml
var quizYAML []byte

//go:embed game.yaml
var gameYAML []byte

// Questions parses the embedded quiz bank.
func Questions() ([]model.Question, error) {
	var qs []model.Question
	if err := yaml.Unmarshal(quizYAML, &qs); err != nil {
		return nil, fmt.Errorf("failed to parse quiz bank: %w", err)
	}
	for i, q := range qs {
		if len(q.Answers) != len(q.Explanations) {
			return nil, fmt.Errorf("question %d: %d answers but %d explanations", i, len(q.Answers), len(q.Explanations))
		}
		if q.Correct < 0 || q.Correct >= len(q.Answers) {
			return nil, fmt.Errorf("question %d: correct index %d out of range", i, q.Correct)
		}
	}
	return qs, nil
}

// Events parses the embedded mini-game events.
func Events() ([]model.GameEvent, error) {
	var evs []model.GameEvent
	if err := yaml.Unmarshal(gameYAML, &evs); err != nil {
		return nil, fmt.Errorf("failed to parse game events: %w", err)
	}
	for _, ev := range evs {
		switch ev.GoodChoice {
		case "buy", "sell", "hold":
		default:
			return nil, fmt.Errorf("event %q: invalid good_choice %q", ev.Name, ev.GoodChoice)
		}
	}
	return evs, nil
}
