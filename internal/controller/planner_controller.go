package controller

import (
	"errors"

	"ai-planner-be/internal/dto"
	"ai-planner-be/internal/pkg/serverutils"
	"ai-planner-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type PlannerController interface {
	RegisterRoutes(api fiber.Router, jwtMiddleware fiber.Handler)
}

type plannerController struct {
	plannerService service.IPlannerService
}

func NewPlannerController(plannerService service.IPlannerService) PlannerController {
	return &plannerController{
		plannerService: plannerService,
	}
}

func (c *plannerController) RegisterRoutes(api fiber.Router, jwtMiddleware fiber.Handler) {
	planner := api.Group("/planner/v1", jwtMiddleware)
	planner.Post("/sessions", c.CreateSession)
	planner.Get("/sessions", c.GetAllSessions)
	planner.Get("/sessions/:id/history", c.GetHistory)
	planner.Post("/sessions/:id/messages", c.SendMessage)
	planner.Get("/sessions/:id/progress", c.GetProgress)
}

// CreateSession starts a new planning conversation
// @Summary Create planning session
// @Description Starts a planning conversation and returns the onboarding greeting
// @Tags Planner
// @Security BearerAuth
// @Accept json
// @Produce json
// @Success 200 {object} dto.CreateSessionResponse
// @Router /api/planner/v1/sessions [post]
func (c *plannerController) CreateSession(ctx *fiber.Ctx) error {
	userId, err := authenticatedUser(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Unauthorized"))
	}

	// Body is optional: a session may start without a project link.
	var request dto.CreateSessionRequest
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(&request); err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
		}
	}

	response, err := c.plannerService.CreateSession(ctx.Context(), userId, &request)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}

	return ctx.JSON(serverutils.SuccessResponse("Session created", response))
}

// GetAllSessions lists the user's planning sessions
// @Summary List planning sessions
// @Tags Planner
// @Security BearerAuth
// @Produce json
// @Success 200 {object} []dto.SessionResponse
// @Router /api/planner/v1/sessions [get]
func (c *plannerController) GetAllSessions(ctx *fiber.Ctx) error {
	userId, err := authenticatedUser(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Unauthorized"))
	}

	sessions, err := c.plannerService.GetAllSessions(ctx.Context(), userId)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}

	return ctx.JSON(serverutils.SuccessResponse("Sessions retrieved", sessions))
}

// GetHistory returns a session's transcript
// @Summary Get session history
// @Tags Planner
// @Security BearerAuth
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.HistoryResponse
// @Router /api/planner/v1/sessions/{id}/history [get]
func (c *plannerController) GetHistory(ctx *fiber.Ctx) error {
	userId, err := authenticatedUser(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Unauthorized"))
	}
	sessionId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid session ID"))
	}

	history, err := c.plannerService.GetHistory(ctx.Context(), userId, sessionId)
	if err != nil {
		return plannerError(ctx, err)
	}

	return ctx.JSON(serverutils.SuccessResponse("History retrieved", history))
}

// SendMessage routes one user message into the conversation
// @Summary Send a message
// @Description Sends one user message and returns the agent's reply
// @Tags Planner
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.SendMessageResponse
// @Router /api/planner/v1/sessions/{id}/messages [post]
func (c *plannerController) SendMessage(ctx *fiber.Ctx) error {
	userId, err := authenticatedUser(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Unauthorized"))
	}
	sessionId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid session ID"))
	}

	var request dto.SendMessageRequest
	if err := ctx.BodyParser(&request); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateStruct(&request); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	response, err := c.plannerService.SendMessage(ctx.Context(), userId, sessionId, &request)
	if err != nil {
		return plannerError(ctx, err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Message processed", response))
}

// GetProgress reports interview completeness
// @Summary Get session progress
// @Tags Planner
// @Security BearerAuth
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.ProgressResponse
// @Router /api/planner/v1/sessions/{id}/progress [get]
func (c *plannerController) GetProgress(ctx *fiber.Ctx) error {
	userId, err := authenticatedUser(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Unauthorized"))
	}
	sessionId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid session ID"))
	}

	progressResponse, err := c.plannerService.GetProgress(ctx.Context(), userId, sessionId)
	if err != nil {
		return plannerError(ctx, err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Progress retrieved", progressResponse))
}

// authenticatedUser extracts the user ID set by the JWT middleware.
func authenticatedUser(ctx *fiber.Ctx) (uuid.UUID, error) {
	userIdStr, ok := ctx.Locals("user_id").(string)
	if !ok {
		return uuid.Nil, errors.New("missing user identity")
	}
	userId, err := uuid.Parse(userIdStr)
	if err != nil {
		return uuid.Nil, errors.New("invalid user identity")
	}
	return userId, nil
}

// plannerError maps known service errors to response codes.
func plannerError(ctx *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, "Session not found"))
	case errors.Is(err, service.ErrInterviewFinished):
		return ctx.Status(fiber.StatusConflict).JSON(serverutils.ErrorResponse(409, err.Error()))
	case errors.Is(err, service.ErrDesignNotReady):
		return ctx.Status(fiber.StatusConflict).JSON(serverutils.ErrorResponse(409, err.Error()))
	case errors.Is(err, service.ErrNoDesignJob):
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, err.Error()))
	default:
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
}
