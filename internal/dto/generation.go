package dto

import "time"

// CreateQuizRequest is the body of POST /generations.
// @Description Request body for generating a quiz from study material
type CreateQuizRequest struct {
	Subject string `json:"subject" example:"Biology"`
	Content string `json:"content" example:"Mitochondria are the powerhouse of the cell..."`
	Count   int    `json:"count" example:"5"`
}

// QuestionResponse is a question including its answer key. It is only sent
// for generations the caller owns and for completed sessions.
type QuestionResponse struct {
	Question      string            `json:"question"`
	Options       map[string]string `json:"options"`
	CorrectAnswer string            `json:"correct_answer"`
}

// GenerationSummary is one row of the generation list.
// @Description Generation list item
type GenerationSummary struct {
	ID            string    `json:"id"`
	Subject       string    `json:"subject"`
	Topic         string    `json:"topic"`
	QuestionCount int       `json:"question_count"`
	CreatedAt     time.Time `json:"created_at"`
}

// GenerationResponse is a full generation.
// @Description Generation with its questions
type GenerationResponse struct {
	GenerationSummary
	Questions []QuestionResponse `json:"questions"`
}

// GenerationListResponse wraps the list with the caller's quota usage.
type GenerationListResponse struct {
	Generations []GenerationSummary `json:"generations"`
	Usage       UsageResponse       `json:"usage"`
}
