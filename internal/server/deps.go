package server

import (
	"context"
	"fmt"

	"quiz-gen/internal/adapter"
	"quiz-gen/internal/adapter/llm"
	"quiz-gen/internal/cache"
	"quiz-gen/internal/config"
	"quiz-gen/internal/domain"
	"quiz-gen/internal/logger"
	"quiz-gen/internal/metrics"
	"quiz-gen/internal/prompt"
	"quiz-gen/internal/service"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Dependencies is the generation pipeline shared by the HTTP server and the CLI.
type Dependencies struct {
	Builder *prompt.Builder
	Service domain.QuizGenerationService
	Cache   domain.Cache
	Metrics *metrics.Metrics

	closers []func() error
}

// NewDependencies wires the model client, the optional completion cache and
// the prompt builder from cfg. reg may be nil, in which case nothing is recorded.
func NewDependencies(ctx context.Context, cfg *config.Config, reg prometheus.Registerer, opts ...prompt.Option) (*Dependencies, error) {
	l := logger.Get()

	client, err := llm.New(ctx, cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	l.Info("LLM client initialized", zap.String("client", client.Name()))

	d := &Dependencies{}
	if reg != nil {
		d.Metrics = metrics.New(reg)
		m := d.Metrics
		opts = append(opts, prompt.WithSelectionObserver(func(qt domain.QuestionType) {
			m.ObserveQuestionType(string(qt))
		}))
	}
	d.Builder = prompt.NewBuilder(nil, opts...)

	svcOpts := []service.Option{
		service.WithTimeout(cfg.LLM.Timeout),
		service.WithMetrics(d.Metrics),
	}

	if cfg.CacheActive() {
		redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		d.closers = append(d.closers, redisClient.Close)
		d.Cache = adapter.NewRedisCacheAdapter(redisClient)
		svcOpts = append(svcOpts, service.WithCache(d.Cache, cfg.Cache.TTL))
		l.Info("Completion cache enabled", zap.String("address", cfg.Redis.Address), zap.Duration("ttl", cfg.Cache.TTL))
	}

	d.Service = service.NewQuizService(client, svcOpts...)
	return d, nil
}

// Close releases connections opened by NewDependencies.
func (d *Dependencies) Close() error {
	var firstErr error
	for _, c := range d.closers {
		if err := c(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
