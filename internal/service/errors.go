package service

import "errors"

var (
	ErrValidation           = errors.New("validation failed")
	ErrQuestionsUnavailable = errors.New("questions are unavailable, try again later")
	ErrNoActiveQuiz         = errors.New("no active quiz")
	ErrQuizInProgress       = errors.New("quiz is still in progress")
	ErrInvalidCredentials   = errors.New("invalid username or password")
	ErrAccountExists        = errors.New("account already exists")
)

// ValidationError carries a message that is safe to show to the user.
type ValidationError struct {
	Message string
	kind    error
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.kind
}

func invalid(message string) error {
	return &ValidationError{Message: message, kind: ErrValidation}
}

func conflict(message string) error {
	return &ValidationError{Message: message, kind: ErrAccountExists}
}
