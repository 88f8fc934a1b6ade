package handler

import (
	"quiz-gen/internal/domain"
	"quiz-gen/internal/dto"
	"quiz-gen/internal/logger"
	"quiz-gen/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// QuizHandler handles quiz generation requests
type QuizHandler struct {
	builder       domain.PromptBuilder
	service       domain.QuizGenerationService
	failureStatus int
}

// NewQuizHandler creates a new QuizHandler instance.
// failureStatus is the status written with an error record; 0 means 200.
func NewQuizHandler(builder domain.PromptBuilder, service domain.QuizGenerationService, failureStatus int) *QuizHandler {
	if failureStatus == 0 {
		failureStatus = fiber.StatusOK
	}
	return &QuizHandler{
		builder:       builder,
		service:       service,
		failureStatus: failureStatus,
	}
}

// GenerateQuiz godoc
// @Summary Generate a quiz
// @Description Builds a quiz prompt for the topic, sends it to the language model and returns the model's JSON output verbatim.
// @Description When the model call fails or its output is not JSON, an error record is returned instead.
// @Tags quiz
// @Accept x-www-form-urlencoded
// @Accept mpfd
// @Produce json
// @Param prompt formData string true "Quiz topic"
// @Param context formData string false "Optional source text the quiz should be based on"
// @Success 200 {array} dto.QuizItem
// @Failure 400 {object} dto.ErrorResponse
// @Failure 502 {object} dto.GenerationFailureResponse
// @Router /generate [post]
func (h *QuizHandler) GenerateQuiz(c *fiber.Ctx) error {
	req := domain.QuizRequest{
		Topic:   formField(c, "prompt"),
		Context: formField(c, "context"),
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: domain.MsgPromptRequired,
		})
	}

	prompt := h.builder.Build(req.Topic, req.Context)
	result := h.service.Generate(c.UserContext(), prompt)
	if result == nil {
		return domain.NewInternalError("quiz generation returned no result", nil)
	}

	if result.Failed() {
		logger.Get().Warn("Quiz generation failed",
			zap.String("request_id", middleware.RequestID(c)),
			zap.String("topic", req.Topic),
			zap.String("error", result.Failure.Error),
		)
		return c.Status(h.failureStatus).JSON(result)
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

// formField reads a field from a urlencoded or multipart body. Query parameters are ignored.
func formField(c *fiber.Ctx, name string) string {
	if v := c.Request().PostArgs().Peek(name); len(v) > 0 {
		return string(v)
	}
	if form, err := c.MultipartForm(); err == nil {
		if values := form.Value[name]; len(values) > 0 {
			return values[0]
		}
	}
	return ""
}
