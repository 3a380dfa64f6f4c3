package domain

import (
	"strings"
)

// OptionKey identifies one of the four answer options.
type OptionKey string

const (
	OptionA OptionKey = "A"
	OptionB OptionKey = "B"
	OptionC OptionKey = "C"
	OptionD OptionKey = "D"

	// NoAnswer marks an unanswered question.
	NoAnswer OptionKey = ""
)

// OptionKeys lists the option keys in display order.
var OptionKeys = []OptionKey{OptionA, OptionB, OptionC, OptionD}

// Valid reports whether k is one of A-D.
func (k OptionKey) Valid() bool {
	switch k {
	case OptionA, OptionB, OptionC, OptionD:
		return true
	}
	return false
}

// ParseOptionKey accepts "a".."d" in any case, surrounded by whitespace.
func ParseOptionKey(s string) (OptionKey, error) {
	k := OptionKey(strings.ToUpper(strings.TrimSpace(s)))
	if !k.Valid() {
		return NoAnswer, NewInvalidInputError("answer key must be one of A, B, C or D")
	}
	return k, nil
}

// Question is one multiple-choice item. It is never modified after creation.
type Question struct {
	Question      string               `json:"question"`
	Options       map[OptionKey]string `json:"options"`
	CorrectAnswer OptionKey            `json:"correctAnswer"`
}

// Validate checks the shape produced by the AI gateway.
func (q *Question) Validate() error {
	var errs ValidationErrors
	if strings.TrimSpace(q.Question) == "" {
		errs.Add(NewMissingFieldError("question"))
	}
	if len(q.Options) != len(OptionKeys) {
		errs.Add(NewInvalidFormatError("options", "exactly four options A, B, C and D are required"))
	}
	for _, k := range OptionKeys {
		if strings.TrimSpace(q.Options[k]) == "" {
			errs.Add(NewMissingFieldError("options." + string(k)))
		}
	}
	if !q.CorrectAnswer.Valid() {
		errs.Add(NewInvalidFormatError("correctAnswer", "must be one of A, B, C or D"))
	}
	return errs.Err()
}

// OptionText returns the text for k, or "" when k is NoAnswer.
func (q *Question) OptionText(k OptionKey) string {
	if k == NoAnswer {
		return ""
	}
	return q.Options[k]
}

// IsCorrect reports whether k matches the correct answer.
func (q *Question) IsCorrect(k OptionKey) bool {
	return k != NoAnswer && k == q.CorrectAnswer
}
