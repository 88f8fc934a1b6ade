// Package prompt renders the instruction sent to the quiz-generating model.
package prompt

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"quiz-gen/internal/domain"
)

// weightedType pairs a question type with its selection weight.
type weightedType struct {
	Type   domain.QuestionType
	Weight float64
}

// defaultWeights is the selection distribution used by NewBuilder.
var defaultWeights = []weightedType{
	{domain.QuestionTypeSingle, 0.4},
	{domain.QuestionTypeMultiple, 0.3},
	{domain.QuestionTypeOpen, 0.2},
	{domain.QuestionTypeReorder, 0.1},
}

var typeDescriptions = map[domain.QuestionType]string{
	domain.QuestionTypeSingle:   "exactly one option is correct",
	domain.QuestionTypeMultiple: "one or more options are correct",
	domain.QuestionTypeOpen:     "free-text answer, options is an empty list",
	domain.QuestionTypeReorder:  "options must be put in the correct order, correctAnswer lists them in order",
}

const instructionTemplate = `You are an expert quiz generator.
Generate quiz on: %s
Question type: %s (%s)
Respond in JSON list format with type, question, options, correctAnswer, explanation, etc.
Respond with the JSON list only.`

// Builder selects a question type and renders the prompt. Safe for concurrent use.
type Builder struct {
	mu       sync.Mutex
	rng      *rand.Rand
	weights  []weightedType
	total    float64
	onSelect func(domain.QuestionType)
}

// Option configures a Builder.
type Option func(*Builder)

// WithSelectionObserver registers fn to be called with every selected type.
func WithSelectionObserver(fn func(domain.QuestionType)) Option {
	return func(b *Builder) {
		b.onSelect = fn
	}
}

// NewBuilder creates a Builder drawing from src. A nil src is seeded from the clock.
func NewBuilder(src rand.Source, opts ...Option) *Builder {
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	b := &Builder{
		rng:     rand.New(src),
		weights: defaultWeights,
	}
	for _, opt := range opts {
		opt(b)
	}
	for _, w := range b.weights {
		b.total += w.Weight
	}
	return b
}

// Select draws one question type according to the builder's weights.
func (b *Builder) Select() domain.QuestionType {
	b.mu.Lock()
	r := b.rng.Float64() * b.total
	b.mu.Unlock()

	for _, w := range b.weights {
		if r < w.Weight {
			return w.Type
		}
		r -= w.Weight
	}
	// float rounding can leave r just above the last bucket
	return b.weights[len(b.weights)-1].Type
}

// Build renders the prompt for topic, appending a context block when context is non-empty.
func (b *Builder) Build(topic, context string) string {
	questionType := b.Select()
	if b.onSelect != nil {
		b.onSelect(questionType)
	}
	return Render(topic, context, questionType)
}

// Render produces the instruction text for an already chosen question type.
func Render(topic, context string, questionType domain.QuestionType) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, instructionTemplate, topic, questionType, typeDescriptions[questionType])
	if context != "" {
		sb.WriteString("\n\nContext:\n")
		sb.WriteString(context)
	}
	return sb.String()
}

var _ domain.PromptBuilder = (*Builder)(nil)
