package validation

import (
	"net/mail"
	"strings"
	"unicode/utf8"

	"quizmaster/internal/domain"
)

const (
	MaxSubjectLength  = 100
	MaxContentLength  = 20000
	MinPasswordLength = 8
	MaxNameLength     = 200
	MaxMessageLength  = 5000
)

// Validator provides request validation functionality
type Validator struct {
	maxQuestions int
}

// NewValidator creates a validator allowing up to maxQuestions questions per
// generation.
func NewValidator(maxQuestions int) *Validator {
	return &Validator{maxQuestions: maxQuestions}
}

// ValidateCreateQuiz validates the quiz creation input.
func (v *Validator) ValidateCreateQuiz(subject, content string, count int) domain.ValidationErrors {
	var errs domain.ValidationErrors

	if strings.TrimSpace(subject) == "" {
		errs.Add(domain.NewMissingFieldError("subject"))
	} else if utf8.RuneCountInString(subject) > MaxSubjectLength {
		errs.Add(domain.NewOutOfRangeError("subject", 1, MaxSubjectLength))
	}

	if strings.TrimSpace(content) == "" {
		errs.Add(domain.NewMissingFieldError("content"))
	} else if utf8.RuneCountInString(content) > MaxContentLength {
		errs.Add(domain.NewOutOfRangeError("content", 1, MaxContentLength))
	}

	if count < 1 || count > v.maxQuestions {
		errs.Add(domain.NewOutOfRangeError("count", 1, v.maxQuestions))
	}
	return errs
}

// ValidateSignUp validates account creation input.
func (v *Validator) ValidateSignUp(email, password, name string) domain.ValidationErrors {
	errs := v.ValidateSignIn(email, password)
	if utf8.RuneCountInString(password) > 0 && utf8.RuneCountInString(password) < MinPasswordLength {
		errs.Add(domain.NewInvalidFormatError("password", "must be at least 8 characters"))
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		errs.Add(domain.NewOutOfRangeError("name", 0, MaxNameLength))
	}
	return errs
}

// ValidateSignIn checks that credentials are present and the email parses.
func (v *Validator) ValidateSignIn(email, password string) domain.ValidationErrors {
	var errs domain.ValidationErrors

	if strings.TrimSpace(email) == "" {
		errs.Add(domain.NewMissingFieldError("email"))
	} else if !isValidEmail(email) {
		errs.Add(domain.NewInvalidFormatError("email", "is not a valid email address"))
	}
	if password == "" {
		errs.Add(domain.NewMissingFieldError("password"))
	}
	return errs
}

// ValidateContact validates a contact form submission.
func (v *Validator) ValidateContact(name, email, message string) domain.ValidationErrors {
	var errs domain.ValidationErrors

	if strings.TrimSpace(name) == "" {
		errs.Add(domain.NewMissingFieldError("name"))
	} else if utf8.RuneCountInString(name) > MaxNameLength {
		errs.Add(domain.NewOutOfRangeError("name", 1, MaxNameLength))
	}

	if strings.TrimSpace(email) == "" {
		errs.Add(domain.NewMissingFieldError("email"))
	} else if !isValidEmail(email) {
		errs.Add(domain.NewInvalidFormatError("email", "is not a valid email address"))
	}

	if strings.TrimSpace(message) == "" {
		errs.Add(domain.NewMissingFieldError("message"))
	} else if utf8.RuneCountInString(message) > MaxMessageLength {
		errs.Add(domain.NewOutOfRangeError("message", 1, MaxMessageLength))
	}
	return errs
}

func isValidEmail(email string) bool {
	addr, err := mail.ParseAddress(strings.TrimSpace(email))
	return err == nil && addr.Address == strings.TrimSpace(email)
}
