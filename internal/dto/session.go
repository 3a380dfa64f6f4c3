package dto

// AnswerRequest is the body of PUT /sessions/:id/answer.
// @Description Selected option for the current question
type AnswerRequest struct {
	Key string `json:"key" example:"B"`
}

// CurrentQuestion is the question on screen. It never carries the answer key.
type CurrentQuestion struct {
	Number   int               `json:"number"` // 1-based
	Question string            `json:"question"`
	Options  map[string]string `json:"options"`
	Selected string            `json:"selected,omitempty"`
}

// ScoreResponse is the result of a submitted quiz.
type ScoreResponse struct {
	Correct    int     `json:"correct"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
}

// SessionResponse is the state of a quiz session.
// @Description Quiz session state
type SessionResponse struct {
	ID               string           `json:"id"`
	GenerationID     string           `json:"generation_id"`
	Phase            string           `json:"phase"`
	CurrentIndex     int              `json:"current_index"`
	Total            int              `json:"total"`
	Answered         int              `json:"answered"`
	RemainingSeconds int              `json:"remaining_seconds"`
	Current          *CurrentQuestion `json:"current,omitempty"`
	Score            *ScoreResponse   `json:"score,omitempty"`
}

// ReviewItem pairs one question with the answer given.
type ReviewItem struct {
	Question     string `json:"question"`
	SelectedKey  string `json:"selected_key,omitempty"`
	SelectedText string `json:"selected_text"`
	CorrectKey   string `json:"correct_key"`
	CorrectText  string `json:"correct_text"`
	IsCorrect    bool   `json:"is_correct"`
}

// FeedbackResponse reports the AI feedback request.
type FeedbackResponse struct {
	Status  string `json:"status"` // pending, ready or failed
	Text    string `json:"text,omitempty"`
	Message string `json:"message,omitempty"`
}

// ResultResponse is the review of a submitted quiz.
// @Description Score, per-question review and AI feedback
type ResultResponse struct {
	SessionID    string           `json:"session_id"`
	GenerationID string           `json:"generation_id"`
	Score        ScoreResponse    `json:"score"`
	Review       []ReviewItem     `json:"review"`
	Feedback     FeedbackResponse `json:"feedback"`
}
