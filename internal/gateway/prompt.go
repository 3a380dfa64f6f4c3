package gateway

import (
	"fmt"
	"strings"

	"quizmaster/internal/domain"
)

const questionPromptTemplate = `You are writing a quiz about "%s".

Using only the study material below, write ONE new multiple-choice question.
Give exactly four answer options labelled A, B, C and D, with exactly one of
them correct.

Reply with a single JSON object and nothing else, in this shape:
{
  "question": "question text",
  "options": {"A": "first option", "B": "second option", "C": "third option", "D": "fourth option"},
  "correctAnswer": "A"
}

Study material:
%s`

func buildQuestionPrompt(subject, content string) string {
	return fmt.Sprintf(questionPromptTemplate, subject, content)
}

const noAnswerText = "No answer"

func buildFeedbackPrompt(questions []domain.Question, answers []domain.OptionKey, score domain.Score) string {
	var b strings.Builder
	b.WriteString("A student has just finished a multiple-choice quiz. Here is how they answered:\n\n")

	for i := range questions {
		q := &questions[i]
		chosen := q.OptionText(answers[i])
		if chosen == "" {
			chosen = noAnswerText
		}
		fmt.Fprintf(&b, "Question %d: %s\n", i+1, q.Question)
		fmt.Fprintf(&b, "Correct answer: %s\n", q.OptionText(q.CorrectAnswer))
		fmt.Fprintf(&b, "Student's answer: %s\n\n", chosen)
	}

	fmt.Fprintf(&b, "Overall score: %.2f%% (%d of %d correct).\n\n", score.Percentage, score.Correct, score.Total)
	b.WriteString("Write short, encouraging feedback for the student: what they did well, " +
		"which topics to review, and one concrete tip. " +
		"Answer in plain text only. Do not use quotation marks or bold markup.")
	return b.String()
}
