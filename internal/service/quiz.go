package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"quiz-gen/internal/cache"
	"quiz-gen/internal/domain"
	"quiz-gen/internal/logger"
	"quiz-gen/internal/metrics"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// quizService implements domain.QuizGenerationService.
type quizService struct {
	client   domain.CompletionClient
	cache    domain.Cache
	cacheTTL time.Duration
	timeout  time.Duration
	metrics  *metrics.Metrics
	sfGroup  singleflight.Group
}

// Option configures the quiz service.
type Option func(*quizService)

// WithCache stores successful completions in c for ttl. A nil cache disables caching.
func WithCache(c domain.Cache, ttl time.Duration) Option {
	return func(s *quizService) {
		s.cache = c
		s.cacheTTL = ttl
	}
}

// WithTimeout bounds each model call. Zero means no bound beyond the caller's context.
func WithTimeout(d time.Duration) Option {
	return func(s *quizService) {
		s.timeout = d
	}
}

// WithMetrics records outcomes on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *quizService) {
		s.metrics = m
	}
}

// NewQuizService creates a new quiz generation service around client.
func NewQuizService(client domain.CompletionClient, opts ...Option) domain.QuizGenerationService {
	s := &quizService{client: client}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generate sends prompt to the model once and parses its output as JSON.
// Any failure is reported as an error record, never as a Go error.
func (s *quizService) Generate(ctx context.Context, prompt string) *domain.QuizResult {
	l := logger.Get()
	start := time.Now()

	raw, err := s.complete(ctx, prompt)
	if err != nil {
		l.Error("LLM completion failed",
			zap.String("client", s.client.Name()),
			zap.Error(err),
		)
		s.metrics.ObserveGeneration(metrics.OutcomeModelError, time.Since(start))
		return domain.NewFailedQuizResult(domain.NewLLMServiceError(err), "")
	}

	raw = strings.TrimSpace(raw)
	payload, err := ParseCompletion(raw)
	if err != nil {
		l.Warn("LLM output is not valid JSON",
			zap.String("client", s.client.Name()),
			zap.Error(err),
			zap.String("raw_output", raw),
		)
		s.metrics.ObserveGeneration(metrics.OutcomeParseError, time.Since(start))
		return domain.NewFailedQuizResult(domain.NewMalformedOutputError(err), raw)
	}

	l.Debug("LLM output parsed", zap.Int("bytes", len(payload)), zap.Duration("duration", time.Since(start)))
	s.metrics.ObserveGeneration(metrics.OutcomeSuccess, time.Since(start))
	return domain.NewQuizResult(payload)
}

// callModel makes the single outbound call, bounded by the configured timeout.
func (s *quizService) callModel(ctx context.Context, prompt string) (string, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	return s.client.Complete(ctx, prompt)
}

// complete returns the raw completion, going through the cache when one is configured.
func (s *quizService) complete(ctx context.Context, prompt string) (string, error) {
	if s.cache == nil {
		return s.callModel(ctx, prompt)
	}

	l := logger.Get()
	cacheKey := cache.CompletionKey(s.client.Name(), prompt)

	cached, err := s.cache.Get(ctx, cacheKey)
	switch {
	case err == nil && cached != "":
		if _, parseErr := ParseCompletion(strings.TrimSpace(cached)); parseErr == nil {
			s.metrics.ObserveCache(metrics.CacheHit)
			l.Debug("Completion cache hit", zap.String("key", cacheKey))
			return cached, nil
		}
		// unparseable entries are never written by this service; drop and refetch
		s.metrics.ObserveCache(metrics.CacheMiss)
		l.Warn("Evicting unparseable cached completion", zap.String("key", cacheKey))
		if delErr := s.cache.Delete(ctx, cacheKey); delErr != nil {
			l.Error("Failed to evict cached completion", zap.Error(delErr), zap.String("key", cacheKey))
		}
	case err == nil, errors.Is(err, domain.ErrCacheMiss):
		s.metrics.ObserveCache(metrics.CacheMiss)
	default:
		s.metrics.ObserveCache(metrics.CacheError)
		l.Error("Failed to read completion cache", zap.Error(err), zap.String("key", cacheKey))
	}

	// The shared call ignores caller cancellation; each caller stops waiting on its own ctx.
	sharedCtx := context.WithoutCancel(ctx)
	ch := s.sfGroup.DoChan(cacheKey, func() (interface{}, error) {
		raw, fetchErr := s.callModel(sharedCtx, prompt)
		if fetchErr != nil {
			return "", fetchErr
		}
		// only parseable output is worth replaying
		if _, parseErr := ParseCompletion(strings.TrimSpace(raw)); parseErr == nil {
			if setErr := s.cache.Set(sharedCtx, cacheKey, raw, s.cacheTTL); setErr != nil {
				l.Error("Failed to write completion cache", zap.Error(setErr), zap.String("key", cacheKey))
			}
		}
		return raw, nil
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		raw, ok := res.Val.(string)
		if !ok {
			return "", fmt.Errorf("unexpected type from singleflight.DoChan for completion: %T", res.Val)
		}
		return raw, nil
	}
}

// ParseCompletion extracts the JSON value from a model completion.
// A surrounding markdown code fence and <think>...</think> blocks are removed first.
func ParseCompletion(raw string) (json.RawMessage, error) {
	cleaned := stripThinkBlock(strings.TrimSpace(raw))
	cleaned = stripCodeFence(cleaned)

	var payload json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func stripThinkBlock(s string) string {
	start := strings.Index(s, "<think>")
	if start == -1 {
		return s
	}
	end := strings.Index(s, "</think>")
	if end == -1 || end < start {
		return s
	}
	return strings.TrimSpace(s[:start] + s[end+len("</think>"):])
}

func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") || !strings.HasSuffix(s, "```") || len(s) < 6 {
		return s
	}
	body := strings.TrimSuffix(s, "```")
	// drop the opening fence line, including an optional language tag
	if nl := strings.IndexByte(body, '\n'); nl != -1 {
		body = body[nl+1:]
	} else {
		body = strings.TrimPrefix(body, "```")
	}
	return strings.TrimSpace(body)
}
