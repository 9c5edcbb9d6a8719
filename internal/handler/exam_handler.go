package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/shulehub/shule-api/internal/dto"
	"github.com/shulehub/shule-api/internal/service"
	"github.com/shulehub/shule-api/internal/utils"
)

// ExamHandler wires exam HTTP routes.
type ExamHandler struct {
	service service.ExamService
	logger  zerolog.Logger
}

// NewExamHandler constructs the handler.
func NewExamHandler(service service.ExamService, logger zerolog.Logger) *ExamHandler {
	return &ExamHandler{
		service: service,
		logger:  logger.With().Str("component", "exam_handler").Logger(),
	}
}

// Register attaches exam endpoints to the router group.
func (h *ExamHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
	router.Post("", h.create)
	router.Patch("/:id", h.update)
	router.Delete("/:id", h.delete)
}

func (h *ExamHandler) list(c *fiber.Ctx) error {
	exams, err := h.service.List(c.Context(), principalFromCtx(c))
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "exams retrieved", exams)
}

func (h *ExamHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	exam, err := h.service.Get(c.Context(), principalFromCtx(c), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "exam retrieved", exam)
}

func (h *ExamHandler) create(c *fiber.Ctx) error {
	var payload dto.ExamCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	exam, err := h.service.Create(c.Context(), principalFromCtx(c), payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "exam created", exam)
}

func (h *ExamHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.ExamUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	exam, err := h.service.Update(c.Context(), principalFromCtx(c), id, payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "exam updated", exam)
}

func (h *ExamHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.Delete(c.Context(), principalFromCtx(c), id); err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "exam deleted", fiber.Map{"id": id})
}

// ExamSubjectHandler wires exam-subject link HTTP routes.
type ExamSubjectHandler struct {
	service service.ExamSubjectService
	logger  zerolog.Logger
}

// NewExamSubjectHandler constructs the handler.
func NewExamSubjectHandler(service service.ExamSubjectService, logger zerolog.Logger) *ExamSubjectHandler {
	return &ExamSubjectHandler{
		service: service,
		logger:  logger.With().Str("component", "exam_subject_handler").Logger(),
	}
}

// Register attaches exam-subject endpoints to the router group.
func (h *ExamSubjectHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
	router.Post("", h.create)
	router.Patch("/:id", h.update)
	router.Delete("/:id", h.delete)
}

func (h *ExamSubjectHandler) list(c *fiber.Ctx) error {
	examSubjects, err := h.service.List(c.Context(), principalFromCtx(c))
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "exam subjects retrieved", examSubjects)
}

func (h *ExamSubjectHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	examSubject, err := h.service.Get(c.Context(), principalFromCtx(c), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "exam subject retrieved", examSubject)
}

func (h *ExamSubjectHandler) create(c *fiber.Ctx) error {
	var payload dto.ExamSubjectCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	examSubject, err := h.service.Create(c.Context(), principalFromCtx(c), payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "exam subject created", examSubject)
}

func (h *ExamSubjectHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.ExamSubjectUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	examSubject, err := h.service.Update(c.Context(), principalFromCtx(c), id, payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "exam subject updated", examSubject)
}

func (h *ExamSubjectHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.Delete(c.Context(), principalFromCtx(c), id); err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "exam subject deleted", fiber.Map{"id": id})
}
