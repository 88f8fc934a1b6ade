package main

import (
	"context"
	"encoding/json"
	"fmt"

	"quiz-gen/internal/config"
	"quiz-gen/internal/domain"
	"quiz-gen/internal/logger"
	"quiz-gen/internal/server"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate <topic>",
		Short: "Generate a quiz for a topic and print the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			quizContext, _ := cmd.Flags().GetString("context")

			req := domain.QuizRequest{Topic: args[0], Context: quizContext}
			if err := req.Validate(); err != nil {
				return err
			}

			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			// stdout carries the result
			cfg.Logger.Output = "stderr"
			if err := logger.Initialize(cfg.Logger); err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			defer logger.Sync()
			if cfg.File != "" {
				logger.Get().Info("Using config file", zap.String("path", cfg.File))
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			deps, err := server.NewDependencies(ctx, cfg, nil)
			if err != nil {
				return err
			}
			defer deps.Close()

			return runGenerate(ctx, cmd, deps.Builder, deps.Service, req)
		},
	}

	cmd.Flags().String("context", "", "Source text the quiz should be based on")
	return cmd
}

// runGenerate prints the result as indented JSON. An error record is printed
// too, and reported as a command failure.
func runGenerate(ctx context.Context, cmd *cobra.Command, builder domain.PromptBuilder, svc domain.QuizGenerationService, req domain.QuizRequest) error {
	result := svc.Generate(ctx, builder.Build(req.Topic, req.Context))

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), string(out)); err != nil {
		return err
	}
	if result.Failed() {
		return fmt.Errorf("generation failed: %s", result.Failure.Error)
	}
	return nil
}
