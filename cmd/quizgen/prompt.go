package main

import (
	"fmt"
	"math/rand"

	"quiz-gen/internal/domain"
	"quiz-gen/internal/prompt"

	"github.com/spf13/cobra"
)

func newPromptCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prompt <topic>",
		Short: "Print the prompt that would be sent for a topic",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			quizContext, _ := cmd.Flags().GetString("context")
			seed, _ := cmd.Flags().GetInt64("seed")

			req := domain.QuizRequest{Topic: args[0], Context: quizContext}
			if err := req.Validate(); err != nil {
				return err
			}

			var src rand.Source
			if cmd.Flags().Changed("seed") {
				src = rand.NewSource(seed)
			}
			builder := prompt.NewBuilder(src)

			_, err := fmt.Fprintln(cmd.OutOrStdout(), builder.Build(req.Topic, req.Context))
			return err
		},
	}

	cmd.Flags().String("context", "", "Source text the quiz should be based on")
	cmd.Flags().Int64("seed", 0, "Seed for question type selection (random when unset)")
	return cmd
}
