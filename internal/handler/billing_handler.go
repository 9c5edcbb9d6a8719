package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/shulehub/shule-api/internal/dto"
	"github.com/shulehub/shule-api/internal/service"
	"github.com/shulehub/shule-api/internal/utils"
)

// SubscriptionHandler wires billing subscription HTTP routes.
type SubscriptionHandler struct {
	service service.SubscriptionService
	logger  zerolog.Logger
}

// NewSubscriptionHandler constructs the handler.
func NewSubscriptionHandler(service service.SubscriptionService, logger zerolog.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{
		service: service,
		logger:  logger.With().Str("component", "subscription_handler").Logger(),
	}
}

// Register attaches subscription endpoints to the router group.
func (h *SubscriptionHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
	router.Post("", h.create)
	router.Patch("/:id", h.update)
	router.Delete("/:id", h.delete)
}

func (h *SubscriptionHandler) list(c *fiber.Ctx) error {
	subscriptions, err := h.service.List(c.Context(), principalFromCtx(c))
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "subscriptions retrieved", subscriptions)
}

func (h *SubscriptionHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	subscription, err := h.service.Get(c.Context(), principalFromCtx(c), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "subscription retrieved", subscription)
}

func (h *SubscriptionHandler) create(c *fiber.Ctx) error {
	var payload dto.SubscriptionCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	subscription, err := h.service.Create(c.Context(), principalFromCtx(c), payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "subscription created", subscription)
}

func (h *SubscriptionHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.SubscriptionUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	subscription, err := h.service.Update(c.Context(), principalFromCtx(c), id, payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "subscription updated", subscription)
}

func (h *SubscriptionHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.Delete(c.Context(), principalFromCtx(c), id); err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "subscription deleted", fiber.Map{"id": id})
}

// PaymentHandler wires the append-only payment ledger routes.
type PaymentHandler struct {
	service service.PaymentService
	logger  zerolog.Logger
}

// NewPaymentHandler constructs the handler.
func NewPaymentHandler(service service.PaymentService, logger zerolog.Logger) *PaymentHandler {
	return &PaymentHandler{
		service: service,
		logger:  logger.With().Str("component", "payment_handler").Logger(),
	}
}

// Register attaches payment endpoints to the router group. There is no
// update route: payment records are immutable.
func (h *PaymentHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
	router.Post("", h.create)
	router.Delete("/:id", h.delete)
}

func (h *PaymentHandler) list(c *fiber.Ctx) error {
	payments, err := h.service.List(c.Context(), principalFromCtx(c))
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "payments retrieved", payments)
}

func (h *PaymentHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	payment, err := h.service.Get(c.Context(), principalFromCtx(c), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "payment retrieved", payment)
}

func (h *PaymentHandler) create(c *fiber.Ctx) error {
	var payload dto.PaymentCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	payment, err := h.service.Create(c.Context(), principalFromCtx(c), payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "payment recorded", payment)
}

func (h *PaymentHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.Delete(c.Context(), principalFromCtx(c), id); err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "payment deleted", fiber.Map{"id": id})
}
