package handler

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/shulehub/shule-api/internal/middleware"
	"github.com/shulehub/shule-api/internal/scope"
	"github.com/shulehub/shule-api/internal/service"
	"github.com/shulehub/shule-api/internal/utils"
)

func parseUintParam(c *fiber.Ctx, name string) (uint, error) {
	value := c.Params(name)
	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, errors.New("invalid identifier")
	}
	return uint(parsed), nil
}

func principalFromCtx(c *fiber.Ctx) scope.Principal {
	return middleware.PrincipalFromCtx(c)
}

func requestLogger(base zerolog.Logger, c *fiber.Ctx) *zerolog.Logger {
	logger := base
	if c != nil {
		if correlation := middleware.GetCorrelationID(c); correlation != "" {
			logger = base.With().Str("correlation_id", correlation).Logger()
		}
	}
	return &logger
}

// fieldError is one entry in the validation detail list.
type fieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

var notFoundErrors = []error{
	service.ErrTeacherNotFound,
	service.ErrProfileNotFound,
	service.ErrClassNotFound,
	service.ErrSubjectNotFound,
	service.ErrExamNotFound,
	service.ErrExamSubjectNotFound,
	service.ErrStudentNotFound,
	service.ErrScoreNotFound,
	service.ErrResultNotFound,
	service.ErrReportNotFound,
	service.ErrPerformanceNotFound,
	service.ErrSubscriptionNotFound,
	service.ErrPaymentNotFound,
}

// respondError translates service errors into the API's status taxonomy:
// validation failures are 400 with field detail, scope misses are 404,
// explicit permission failures 403, constraint violations 409, throttling
// 429, everything else a logged 500.
func respondError(c *fiber.Ctx, logger zerolog.Logger, err error) error {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		fields := make([]fieldError, 0, len(validationErrors))
		for _, fe := range validationErrors {
			fields = append(fields, fieldError{
				Field: strings.ToLower(fe.Field()),
				Rule:  fe.Tag(),
			})
		}
		return utils.SendValidationError(c, fields)
	}

	for _, notFound := range notFoundErrors {
		if errors.Is(err, notFound) {
			return utils.SendError(c, fiber.StatusNotFound, notFound.Error())
		}
	}

	switch {
	case errors.Is(err, service.ErrForbidden):
		return utils.SendError(c, fiber.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrNoTeacherProfile):
		return utils.SendError(c, fiber.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		return utils.SendError(c, fiber.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrLoginThrottled):
		return utils.SendError(c, fiber.StatusTooManyRequests, err.Error())
	case errors.Is(err, service.ErrNoResultsForTerm):
		return utils.SendError(c, fiber.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, service.ErrAvatarTooLarge):
		return utils.SendError(c, fiber.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, service.ErrAvatarNotImage):
		return utils.SendError(c, fiber.StatusUnsupportedMediaType, err.Error())
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return utils.SendError(c, fiber.StatusConflict, "resource already exists")
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return utils.SendError(c, fiber.StatusConflict, "referenced resource is in use or missing")
	default:
		requestLogger(logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
