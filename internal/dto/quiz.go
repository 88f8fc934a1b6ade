package dto

// ErrorResponse is the body of a rejected request
// @Description Error message
type ErrorResponse struct {
	Error string `json:"error" example:"Prompt is required"`
}

// GenerationFailureResponse is returned when the model call or JSON parsing fails
// @Description Generation error record
type GenerationFailureResponse struct {
	Error     string `json:"error" example:"LLM output is not valid JSON: invalid character 'H' looking for beginning of value"`
	RawOutput string `json:"raw_output" example:"Here is your quiz"`
}

// QuizItem documents the shape the model is asked to produce. It is not enforced.
// @Description Quiz question as requested from the model
type QuizItem struct {
	Type          string   `json:"type" example:"single"`
	Question      string   `json:"question" example:"Which organelle performs photosynthesis?"`
	Options       []string `json:"options"`
	CorrectAnswer []string `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
}

// HealthResponse represents service health
// @Description Health status
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
	Cache  string `json:"cache,omitempty" example:"ok"`
}
