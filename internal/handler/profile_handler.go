package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/shulehub/shule-api/internal/dto"
	"github.com/shulehub/shule-api/internal/service"
	"github.com/shulehub/shule-api/internal/utils"
)

// ProfileHandler wires account profile HTTP routes, including avatar upload.
type ProfileHandler struct {
	service service.ProfileService
	logger  zerolog.Logger
}

// NewProfileHandler constructs the handler.
func NewProfileHandler(service service.ProfileService, logger zerolog.Logger) *ProfileHandler {
	return &ProfileHandler{
		service: service,
		logger:  logger.With().Str("component", "profile_handler").Logger(),
	}
}

// Register attaches profile endpoints to the router group.
func (h *ProfileHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
	router.Patch("/:id", h.update)
	router.Put("/:id/avatar", h.updateAvatar)
	router.Delete("/:id", h.delete)
}

func (h *ProfileHandler) list(c *fiber.Ctx) error {
	profiles, err := h.service.List(c.Context(), principalFromCtx(c))
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "profiles retrieved", profiles)
}

func (h *ProfileHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	profile, err := h.service.Get(c.Context(), principalFromCtx(c), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "profile retrieved", profile)
}

func (h *ProfileHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.ProfileUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	profile, err := h.service.Update(c.Context(), principalFromCtx(c), id, payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "profile updated", profile)
}

func (h *ProfileHandler) updateAvatar(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	file, err := c.FormFile("avatar")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "avatar file is required")
	}

	profile, err := h.service.UpdateAvatar(c.Context(), principalFromCtx(c), id, file)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "avatar updated", profile)
}

func (h *ProfileHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.Delete(c.Context(), principalFromCtx(c), id); err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "profile deleted", fiber.Map{"id": id})
}
