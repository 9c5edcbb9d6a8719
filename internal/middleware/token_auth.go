package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/shulehub/shule-api/internal/repository"
	"github.com/shulehub/shule-api/internal/scope"
	"github.com/shulehub/shule-api/internal/utils"
)

const principalKey = "principal"

// TokenAuth resolves the bearer token on each request into a scope.Principal
// and stores it in the request locals. Requests without a valid token are
// rejected before reaching any handler.
func TokenAuth(tokens repository.TokenRepository, teachers repository.TeacherRepository, logger zerolog.Logger) fiber.Handler {
	authLogger := logger.With().Str("component", "token_auth").Logger()

	return func(c *fiber.Ctx) error {
		header := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
		if header == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "authorization required")
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid authorization header")
		}

		token, err := tokens.GetByKey(c.Context(), strings.TrimSpace(parts[1]))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.SendError(c, fiber.StatusUnauthorized, "invalid token")
			}
			authLogger.Error().Err(err).Msg("token lookup failed")
			return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
		}

		principal := scope.Principal{
			AccountID: token.AccountID,
			IsStaff:   token.Account.IsStaff,
		}

		// A missing teacher profile is not an error here: the principal simply
		// owns no teaching resources and the scope predicates match nothing.
		teacher, err := teachers.GetByAccount(c.Context(), token.AccountID)
		if err == nil {
			principal.TeacherID = teacher.ID
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			authLogger.Error().Err(err).Msg("teacher lookup failed")
			return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
		}

		c.Locals(principalKey, principal)
		c.Locals("user_id", token.AccountID)

		return c.Next()
	}
}

// PrincipalFromCtx returns the authenticated principal for the request. The
// zero value is returned when authentication middleware did not run.
func PrincipalFromCtx(c *fiber.Ctx) scope.Principal {
	if v := c.Locals(principalKey); v != nil {
		if p, ok := v.(scope.Principal); ok {
			return p
		}
	}
	return scope.Principal{}
}
