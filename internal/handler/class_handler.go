package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/shulehub/shule-api/internal/dto"
	"github.com/shulehub/shule-api/internal/service"
	"github.com/shulehub/shule-api/internal/utils"
)

// ClassHandler wires class HTTP routes.
type ClassHandler struct {
	service service.ClassService
	logger  zerolog.Logger
}

// NewClassHandler constructs the handler.
func NewClassHandler(service service.ClassService, logger zerolog.Logger) *ClassHandler {
	return &ClassHandler{
		service: service,
		logger:  logger.With().Str("component", "class_handler").Logger(),
	}
}

// Register attaches class endpoints to the router group.
func (h *ClassHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
	router.Post("", h.create)
	router.Patch("/:id", h.update)
	router.Delete("/:id", h.delete)
}

func (h *ClassHandler) list(c *fiber.Ctx) error {
	classes, err := h.service.List(c.Context(), principalFromCtx(c))
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "classes retrieved", classes)
}

func (h *ClassHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	class, err := h.service.Get(c.Context(), principalFromCtx(c), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "class retrieved", class)
}

func (h *ClassHandler) create(c *fiber.Ctx) error {
	var payload dto.ClassCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	class, err := h.service.Create(c.Context(), principalFromCtx(c), payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "class created", class)
}

func (h *ClassHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.ClassUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	class, err := h.service.Update(c.Context(), principalFromCtx(c), id, payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "class updated", class)
}

func (h *ClassHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.Delete(c.Context(), principalFromCtx(c), id); err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "class deleted", fiber.Map{"id": id})
}

// SubjectHandler wires the global subject catalogue routes.
type SubjectHandler struct {
	service service.SubjectService
	logger  zerolog.Logger
}

// NewSubjectHandler constructs the handler.
func NewSubjectHandler(service service.SubjectService, logger zerolog.Logger) *SubjectHandler {
	return &SubjectHandler{
		service: service,
		logger:  logger.With().Str("component", "subject_handler").Logger(),
	}
}

// Register attaches subject endpoints to the router group.
func (h *SubjectHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
	router.Post("", h.create)
	router.Patch("/:id", h.update)
	router.Delete("/:id", h.delete)
}

func (h *SubjectHandler) list(c *fiber.Ctx) error {
	subjects, err := h.service.List(c.Context())
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "subjects retrieved", subjects)
}

func (h *SubjectHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	subject, err := h.service.Get(c.Context(), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "subject retrieved", subject)
}

func (h *SubjectHandler) create(c *fiber.Ctx) error {
	var payload dto.SubjectCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	subject, err := h.service.Create(c.Context(), payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "subject created", subject)
}

func (h *SubjectHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.SubjectUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	subject, err := h.service.Update(c.Context(), id, payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "subject updated", subject)
}

func (h *SubjectHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.Delete(c.Context(), principalFromCtx(c), id); err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "subject deleted", fiber.Map{"id": id})
}
