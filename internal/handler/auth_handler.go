package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/shulehub/shule-api/internal/dto"
	"github.com/shulehub/shule-api/internal/observability"
	"github.com/shulehub/shule-api/internal/service"
	"github.com/shulehub/shule-api/internal/utils"
)

// AuthHandler wires the open registration and login routes.
type AuthHandler struct {
	service service.AuthService
	logger  zerolog.Logger
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(service service.AuthService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger.With().Str("component", "auth_handler").Logger(),
	}
}

// Register attaches auth endpoints to the router group.
func (h *AuthHandler) Register(router fiber.Router) {
	router.Post("/register", h.register)
	router.Post("/login", h.login)
}

func (h *AuthHandler) register(c *fiber.Ctx) error {
	var payload dto.RegisterRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	teacher, err := h.service.Register(c.Context(), payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "account registered", teacher)
}

func (h *AuthHandler) login(c *fiber.Ctx) error {
	var payload dto.LoginRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	session, err := h.service.Login(c.Context(), payload)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			observability.Logins().WithLabelValues("rejected").Inc()
		case errors.Is(err, service.ErrLoginThrottled):
			observability.Logins().WithLabelValues("throttled").Inc()
		}
		return respondError(c, h.logger, err)
	}

	observability.Logins().WithLabelValues("accepted").Inc()
	return utils.SendSuccess(c, "login successful", session)
}
