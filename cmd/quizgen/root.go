package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "quizgen",
		Short:         "Generate quiz questions with a language model",
		Long:          "quizgen renders quiz prompts and runs them against the configured model, using the same configuration as the API server.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.AddCommand(newPromptCmd())
	rootCmd.AddCommand(newGenerateCmd())
	return rootCmd
}
