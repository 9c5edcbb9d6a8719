package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/shulehub/shule-api/internal/dto"
	"github.com/shulehub/shule-api/internal/observability"
	"github.com/shulehub/shule-api/internal/service"
	"github.com/shulehub/shule-api/internal/utils"
)

// ResultHandler wires term result HTTP routes.
type ResultHandler struct {
	service service.ResultService
	logger  zerolog.Logger
}

// NewResultHandler constructs the handler.
func NewResultHandler(service service.ResultService, logger zerolog.Logger) *ResultHandler {
	return &ResultHandler{
		service: service,
		logger:  logger.With().Str("component", "result_handler").Logger(),
	}
}

// Register attaches result endpoints to the router group.
func (h *ResultHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
	router.Post("", h.create)
	router.Patch("/:id", h.update)
	router.Delete("/:id", h.delete)
}

func (h *ResultHandler) list(c *fiber.Ctx) error {
	results, err := h.service.List(c.Context(), principalFromCtx(c))
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "results retrieved", results)
}

func (h *ResultHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	result, err := h.service.Get(c.Context(), principalFromCtx(c), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "result retrieved", result)
}

func (h *ResultHandler) create(c *fiber.Ctx) error {
	var payload dto.ResultCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.service.Create(c.Context(), principalFromCtx(c), payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "result recorded", result)
}

func (h *ResultHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.ResultUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.service.Update(c.Context(), principalFromCtx(c), id, payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "result updated", result)
}

func (h *ResultHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.Delete(c.Context(), principalFromCtx(c), id); err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "result deleted", fiber.Map{"id": id})
}

// ReportHandler wires student report HTTP routes.
type ReportHandler struct {
	service service.ReportService
	logger  zerolog.Logger
}

// NewReportHandler constructs the handler.
func NewReportHandler(service service.ReportService, logger zerolog.Logger) *ReportHandler {
	return &ReportHandler{
		service: service,
		logger:  logger.With().Str("component", "report_handler").Logger(),
	}
}

// Register attaches report endpoints to the router group.
func (h *ReportHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
	router.Post("/generate", h.generate)
	router.Patch("/:id", h.update)
	router.Delete("/:id", h.delete)
}

func (h *ReportHandler) list(c *fiber.Ctx) error {
	reports, err := h.service.List(c.Context(), principalFromCtx(c))
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "reports retrieved", reports)
}

func (h *ReportHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	report, err := h.service.Get(c.Context(), principalFromCtx(c), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "report retrieved", report)
}

func (h *ReportHandler) generate(c *fiber.Ctx) error {
	var payload dto.GenerateReportRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	report, err := h.service.Generate(c.Context(), principalFromCtx(c), payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	observability.ReportsGenerated().Inc()
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "report generated", report)
}

func (h *ReportHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.ReportUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	report, err := h.service.Update(c.Context(), principalFromCtx(c), id, payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "report updated", report)
}

func (h *ReportHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.Delete(c.Context(), principalFromCtx(c), id); err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "report deleted", fiber.Map{"id": id})
}

// PerformanceHandler wires class performance HTTP routes.
type PerformanceHandler struct {
	service service.PerformanceService
	logger  zerolog.Logger
}

// NewPerformanceHandler constructs the handler.
func NewPerformanceHandler(service service.PerformanceService, logger zerolog.Logger) *PerformanceHandler {
	return &PerformanceHandler{
		service: service,
		logger:  logger.With().Str("component", "performance_handler").Logger(),
	}
}

// Register attaches class performance endpoints to the router group.
func (h *PerformanceHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
	router.Post("/generate", h.generate)
	router.Delete("/:id", h.delete)
}

func (h *PerformanceHandler) list(c *fiber.Ctx) error {
	performances, err := h.service.List(c.Context(), principalFromCtx(c))
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "class performance retrieved", performances)
}

func (h *PerformanceHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	performance, err := h.service.Get(c.Context(), principalFromCtx(c), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "class performance retrieved", performance)
}

func (h *PerformanceHandler) generate(c *fiber.Ctx) error {
	var payload dto.GeneratePerformanceRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	performance, err := h.service.Generate(c.Context(), principalFromCtx(c), payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	observability.SummariesComputed().Inc()
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "class performance generated", performance)
}

func (h *PerformanceHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.Delete(c.Context(), principalFromCtx(c), id); err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "class performance deleted", fiber.Map{"id": id})
}
