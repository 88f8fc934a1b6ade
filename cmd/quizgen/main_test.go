package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"quiz-gen/internal/domain"
	"quiz-gen/internal/prompt"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(new(bytes.Buffer))
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func TestPromptCmd_SeedIsReproducible(t *testing.T) {
	first, err := execute(t, "prompt", "Photosynthesis", "--seed", "5")
	require.NoError(t, err)
	second, err := execute(t, "prompt", "Photosynthesis", "--seed", "5")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Contains(t, first, "Generate quiz on: Photosynthesis")
	assert.Equal(t, prompt.NewBuilder(rand.NewSource(5)).Build("Photosynthesis", "")+"\n", first)
}

func TestPromptCmd_Context(t *testing.T) {
	out, err := execute(t, "prompt", "Cells", "--context", "Mitochondria produce ATP.")
	require.NoError(t, err)
	assert.Contains(t, out, "Context:\nMitochondria produce ATP.")
}

func TestPromptCmd_RejectsEmptyTopic(t *testing.T) {
	_, err := execute(t, "prompt", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.MsgPromptRequired)
}

func TestPromptCmd_RequiresTopic(t *testing.T) {
	_, err := execute(t, "prompt")
	assert.Error(t, err)
}

type staticService struct {
	result  *domain.QuizResult
	prompts []string
}

func (s *staticService) Generate(ctx context.Context, prompt string) *domain.QuizResult {
	s.prompts = append(s.prompts, prompt)
	return s.result
}

func TestRunGenerate(t *testing.T) {
	tests := []struct {
		name    string
		result  *domain.QuizResult
		wantErr bool
	}{
		{"payload", domain.NewQuizResult(json.RawMessage(`[{"type":"single"}]`)), false},
		{"error record", domain.NewFailedQuizResult(assert.AnError, "raw"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &staticService{result: tt.result}
			cmd := &cobra.Command{}
			buf := new(bytes.Buffer)
			cmd.SetOut(buf)

			err := runGenerate(context.Background(), cmd, prompt.NewBuilder(rand.NewSource(1)), svc, domain.QuizRequest{Topic: "Rivers"})

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			require.Len(t, svc.prompts, 1)
			assert.Contains(t, svc.prompts[0], "Generate quiz on: Rivers")
			assert.True(t, json.Valid(buf.Bytes()), "output should be JSON: %s", buf.String())
		})
	}
}

func TestGenerateCmd_StdoutIsJSONWithConfigFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "config"), 0o755))
	configYAML := "logger:\n  level: debug\nllm:\n  provider: ollama\n  model: qwen3:0.6b\n  server_url: http://127.0.0.1:1\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config", "config.yaml"), []byte(configYAML), 0o644))
	t.Chdir(dir)
	t.Setenv("ENV", "")

	r, w, err := os.Pipe()
	require.NoError(t, err)
	origStdout := os.Stdout
	os.Stdout = w
	root := newRootCmd()
	root.SetOut(w)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"generate", "Photosynthesis"})
	execErr := root.Execute()
	os.Stdout = origStdout
	require.NoError(t, w.Close())

	out, err := io.ReadAll(r)
	require.NoError(t, err)

	// the model endpoint is unreachable, so the result is an error record
	assert.Error(t, execErr)
	var record domain.ErrorRecord
	require.NoError(t, json.Unmarshal(out, &record), "stdout must hold only the result: %q", out)
	assert.NotEmpty(t, record.Error)
	assert.Empty(t, record.RawOutput)
}
