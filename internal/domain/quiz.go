package domain

import (
	"encoding/json"
)

// QuestionType is the kind of quiz question the model is asked to produce.
type QuestionType string

const (
	QuestionTypeSingle   QuestionType = "single"
	QuestionTypeMultiple QuestionType = "multiple"
	QuestionTypeOpen     QuestionType = "open"
	QuestionTypeReorder  QuestionType = "reorder"
)

// QuestionTypes lists every question type in selection order.
var QuestionTypes = []QuestionType{
	QuestionTypeSingle,
	QuestionTypeMultiple,
	QuestionTypeOpen,
	QuestionTypeReorder,
}

// QuizRequest is the per-request input to quiz generation.
type QuizRequest struct {
	Topic   string
	Context string
}

// Validate validates the request. Only an absent or empty topic is rejected.
func (r *QuizRequest) Validate() error {
	if r.Topic == "" {
		return NewInvalidInputError(MsgPromptRequired)
	}
	return nil
}

// ErrorRecord is the body returned when generation fails.
type ErrorRecord struct {
	Error     string `json:"error"`
	RawOutput string `json:"raw_output"`
}

// QuizResult holds exactly one of a parsed model payload or an error record.
type QuizResult struct {
	Quiz    json.RawMessage
	Failure *ErrorRecord
}

// NewQuizResult wraps a payload that already parsed as JSON.
func NewQuizResult(payload json.RawMessage) *QuizResult {
	return &QuizResult{Quiz: payload}
}

// NewFailedQuizResult builds an error-record result.
func NewFailedQuizResult(err error, rawOutput string) *QuizResult {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return &QuizResult{Failure: &ErrorRecord{Error: msg, RawOutput: rawOutput}}
}

// Failed reports whether the result is an error record.
func (r *QuizResult) Failed() bool {
	return r.Failure != nil
}

// MarshalJSON emits the model payload verbatim, or the error record.
func (r *QuizResult) MarshalJSON() ([]byte, error) {
	if r.Failure != nil {
		return json.Marshal(r.Failure)
	}
	if len(r.Quiz) == 0 {
		return []byte("null"), nil
	}
	return r.Quiz, nil
}
