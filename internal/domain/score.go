package domain

import "math"

// Score is derived from a completed session's answers.
type Score struct {
	Correct    int     `json:"correct"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
}

// CalculateScore counts matching answers. Percentage is rounded to two
// decimals, so 2 of 3 yields 66.67.
func CalculateScore(questions []Question, answers []OptionKey) (Score, error) {
	if len(questions) == 0 {
		return Score{}, NewInvalidInputError("cannot score an empty question set")
	}
	if len(answers) != len(questions) {
		return Score{}, NewInvalidInputError("answers and questions differ in length")
	}

	correct := 0
	for i := range questions {
		if questions[i].IsCorrect(answers[i]) {
			correct++
		}
	}

	total := len(questions)
	pct := math.Round(float64(correct)*10000/float64(total)) / 100
	return Score{Correct: correct, Total: total, Percentage: pct}, nil
}
