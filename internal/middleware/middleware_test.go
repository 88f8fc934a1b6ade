package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"quiz-gen/internal/domain"
	"quiz-gen/internal/dto"
	"quiz-gen/internal/util"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(handler fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
	app.Use(RequestIDMiddleware())
	app.Use(RequestLogger())
	app.Get("/", handler)
	return app
}

func decodeError(t *testing.T, resp *http.Response) dto.ErrorResponse {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out dto.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &out), "body: %s", body)
	return out
}

func TestRequestIDMiddleware(t *testing.T) {
	var seen string
	app := newTestApp(func(c *fiber.Ctx) error {
		seen = RequestID(c)
		return c.SendStatus(fiber.StatusNoContent)
	})

	t.Run("generates an id", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
		require.NoError(t, err)

		id := resp.Header.Get(RequestIDHeader)
		assert.True(t, util.IsValidULID(id))
		assert.Equal(t, id, seen)
	})

	t.Run("keeps a valid incoming id", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set(RequestIDHeader, "01HGZ8VNRYXS8QKNJV5GRWPWDQ")
		resp, err := app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, "01HGZ8VNRYXS8QKNJV5GRWPWDQ", resp.Header.Get(RequestIDHeader))
	})

	t.Run("replaces a garbage incoming id", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set(RequestIDHeader, "<script>")
		resp, err := app.Test(req)
		require.NoError(t, err)

		id := resp.Header.Get(RequestIDHeader)
		assert.NotEqual(t, "<script>", id)
		assert.True(t, util.IsValidULID(id))
	})
}

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{
			name:       "invalid input",
			err:        domain.NewInvalidInputError(domain.MsgPromptRequired),
			wantStatus: http.StatusBadRequest,
			wantError:  "Prompt is required",
		},
		{
			name:       "llm service error",
			err:        domain.NewLLMServiceError(errors.New("timeout")),
			wantStatus: http.StatusServiceUnavailable,
			wantError:  "Failed to process with LLM service",
		},
		{
			name:       "malformed output",
			err:        domain.NewMalformedOutputError(errors.New("bad")),
			wantStatus: http.StatusBadGateway,
			wantError:  "LLM output is not valid JSON",
		},
		{
			name:       "internal error",
			err:        domain.NewInternalError("boom", nil),
			wantStatus: http.StatusInternalServerError,
			wantError:  "boom",
		},
		{
			name:       "fiber error",
			err:        fiber.NewError(fiber.StatusMethodNotAllowed, "Method Not Allowed"),
			wantStatus: http.StatusMethodNotAllowed,
			wantError:  "Method Not Allowed",
		},
		{
			name:       "unknown error",
			err:        errors.New("kaboom"),
			wantStatus: http.StatusInternalServerError,
			wantError:  "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(func(c *fiber.Ctx) error { return tt.err })

			resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
			require.NoError(t, err)

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.wantError, decodeError(t, resp).Error)
		})
	}
}
