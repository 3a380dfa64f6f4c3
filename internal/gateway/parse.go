package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"quizmaster/internal/domain"

	"github.com/xeipuuv/gojsonschema"
)

const questionSchema = `{
  "type": "object",
  "required": ["question", "options", "correctAnswer"],
  "properties": {
    "question": {"type": "string", "minLength": 1},
    "options": {
      "type": "object",
      "required": ["A", "B", "C", "D"],
      "additionalProperties": false,
      "properties": {
        "A": {"type": "string", "minLength": 1},
        "B": {"type": "string", "minLength": 1},
        "C": {"type": "string", "minLength": 1},
        "D": {"type": "string", "minLength": 1}
      }
    },
    "correctAnswer": {"type": "string", "pattern": "^\\s*[A-Da-d]\\s*$"}
  }
}`

var errEmptyPayload = errors.New("empty provider response")

// cleanPayload removes reasoning blocks and markdown code fences and, when
// the model wrapped the object in prose, keeps only the outermost braces.
func cleanPayload(raw string) string {
	s := strings.TrimSpace(raw)

	if start := strings.Index(s, "<think>"); start != -1 {
		if end := strings.Index(s, "</think>"); end > start {
			s = strings.TrimSpace(s[:start] + s[end+len("</think>"):])
		}
	}

	if strings.HasPrefix(s, "```") {
		if nl := strings.IndexByte(s, '\n'); nl != -1 {
			s = s[nl+1:]
		} else {
			s = strings.TrimPrefix(s, "```")
		}
		s = strings.TrimSpace(s)
		s = strings.TrimSpace(strings.TrimSuffix(s, "```"))
	}

	if !strings.HasPrefix(s, "{") {
		first := strings.Index(s, "{")
		last := strings.LastIndex(s, "}")
		if first != -1 && last > first {
			s = s[first : last+1]
		}
	}
	return s
}

func parseQuestion(schema *gojsonschema.Schema, raw string) (*domain.Question, error) {
	payload := cleanPayload(raw)
	if payload == "" {
		return nil, errEmptyPayload
	}

	result, err := schema.Validate(gojsonschema.NewStringLoader(payload))
	if err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, re := range result.Errors() {
			msgs = append(msgs, re.String())
		}
		return nil, fmt.Errorf("schema violation: %s", strings.Join(msgs, "; "))
	}

	var q domain.Question
	if err := json.Unmarshal([]byte(payload), &q); err != nil {
		return nil, fmt.Errorf("failed to decode question: %w", err)
	}
	q.CorrectAnswer = domain.OptionKey(strings.ToUpper(strings.TrimSpace(string(q.CorrectAnswer))))
	q.Question = strings.TrimSpace(q.Question)

	if err := q.Validate(); err != nil {
		return nil, err
	}
	return &q, nil
}
