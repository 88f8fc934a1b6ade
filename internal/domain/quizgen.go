package domain

import (
	"context"
)

// CompletionClient sends a single prompt to a generative model and returns its raw text.
type CompletionClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
	// Name identifies the provider and model, e.g. "googleai/gemini-1.5-flash".
	Name() string
}

// PromptBuilder renders the instruction sent to the model.
type PromptBuilder interface {
	Build(topic, context string) string
}

// QuizGenerationService turns a rendered prompt into exactly one QuizResult.
type QuizGenerationService interface {
	Generate(ctx context.Context, prompt string) *QuizResult
}
