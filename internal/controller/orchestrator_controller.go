package controller

import (
	"ai-planner-be/internal/pkg/serverutils"
	"ai-planner-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type OrchestratorController interface {
	RegisterRoutes(api fiber.Router, jwtMiddleware fiber.Handler)
}

type orchestratorController struct {
	orchestratorService service.IOrchestratorService
}

func NewOrchestratorController(orchestratorService service.IOrchestratorService) OrchestratorController {
	return &orchestratorController{
		orchestratorService: orchestratorService,
	}
}

func (c *orchestratorController) RegisterRoutes(api fiber.Router, jwtMiddleware fiber.Handler) {
	orch := api.Group("/orchestrator/v1", jwtMiddleware)
	orch.Post("/sessions/:id/design", c.TriggerDesign)
	orch.Get("/sessions/:id/design/progress", c.GetDesignProgress)
	orch.Post("/sessions/:id/design/cancel", c.CancelDesign)
}

// TriggerDesign hands the session to the design service
// @Summary Trigger the design phase
// @Description Submits the finished PRD and user flow to the design service and starts monitoring
// @Tags Orchestrator
// @Security BearerAuth
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.DesignProgressResponse
// @Router /api/orchestrator/v1/sessions/{id}/design [post]
func (c *orchestratorController) TriggerDesign(ctx *fiber.Ctx) error {
	userId, err := authenticatedUser(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Unauthorized"))
	}
	sessionId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid session ID"))
	}

	response, err := c.orchestratorService.TriggerDesign(ctx.Context(), userId, sessionId)
	if err != nil {
		return plannerError(ctx, err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Design phase started", response))
}

// GetDesignProgress reports the design job's progress
// @Summary Get design progress
// @Tags Orchestrator
// @Security BearerAuth
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.DesignProgressResponse
// @Router /api/orchestrator/v1/sessions/{id}/design/progress [get]
func (c *orchestratorController) GetDesignProgress(ctx *fiber.Ctx) error {
	userId, err := authenticatedUser(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Unauthorized"))
	}
	sessionId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid session ID"))
	}

	response, err := c.orchestratorService.GetDesignProgress(ctx.Context(), userId, sessionId)
	if err != nil {
		return plannerError(ctx, err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Progress retrieved", response))
}

// CancelDesign aborts the running design job
// @Summary Cancel the design job
// @Tags Orchestrator
// @Security BearerAuth
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} serverutils.Response
// @Router /api/orchestrator/v1/sessions/{id}/design/cancel [post]
func (c *orchestratorController) CancelDesign(ctx *fiber.Ctx) error {
	userId, err := authenticatedUser(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Unauthorized"))
	}
	sessionId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid session ID"))
	}

	if err := c.orchestratorService.CancelDesign(ctx.Context(), userId, sessionId); err != nil {
		return plannerError(ctx, err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Design job cancelled", nil))
}
