package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"quizmaster/internal/domain"
)

// QuestionList stores a generation's questions as one JSON text column.
type QuestionList []domain.Question

// Value implements the driver.Valuer interface
func (q QuestionList) Value() (driver.Value, error) {
	if q == nil {
		return "[]", nil
	}
	jsonData, err := json.Marshal(q)
	if err != nil {
		return nil, err
	}
	return string(jsonData), nil
}

// Scan implements the sql.Scanner interface
func (q *QuestionList) Scan(value interface{}) error {
	if value == nil {
		*q = QuestionList{}
		return nil
	}

	var bytesToParse []byte
	switch v := value.(type) {
	case []byte:
		bytesToParse = v
	case string:
		bytesToParse = []byte(v)
	default:
		return errors.New("QuestionList Scan: unsupported type " + fmt.Sprintf("%T", value))
	}

	if len(bytesToParse) == 0 || string(bytesToParse) == "null" {
		*q = QuestionList{}
		return nil
	}
	return json.Unmarshal(bytesToParse, q)
}

// Generation is the row shape of the generations table.
type Generation struct {
	ID            string       `db:"ID"` // ULID
	OwnerID       string       `db:"OWNER_ID"`
	Subject       string       `db:"SUBJECT"`
	Topic         string       `db:"TOPIC"`
	QuestionCount int          `db:"QUESTION_COUNT"`
	QuizData      QuestionList `db:"QUIZ_DATA"`
	CreatedAt     time.Time    `db:"CREATED_AT"`
}

// TableName returns the name of the table for the Generation model.
func (Generation) TableName() string {
	return "generations"
}
