package middleware

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/vidtube-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/vidtube-backend/internal/security"
	"github.com/ahmetcoskunkizilkaya/vidtube-backend/internal/services"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"

	tokenLocalsKey     = "jwt"
	principalLocalsKey = "principal"
)

// Authenticate verifies the access token (cookie first, then the
// Authorization header), loads the user it names and stores the resulting
// principal for downstream handlers.
func Authenticate(signer *security.TokenSigner, auth *services.AuthService) fiber.Handler {
	return jwtware.New(jwtware.Config{
		TokenLookup: "cookie:" + AccessTokenCookie + ",header:Authorization",
		AuthScheme:  "Bearer",
		ContextKey:  tokenLocalsKey,
		Claims:      &security.AccessClaims{},
		KeyFunc:     signer.AccessKeyFunc(),
		SuccessHandler: func(c *fiber.Ctx) error {
			token, ok := c.Locals(tokenLocalsKey).(*jwt.Token)
			if !ok {
				return unauthorized(c)
			}
			claims, ok := token.Claims.(*security.AccessClaims)
			if !ok {
				return unauthorized(c)
			}
			principal, err := auth.ResolvePrincipal(c.UserContext(), claims)
			if err != nil {
				if !errors.Is(err, services.ErrUnauthorized) {
					slog.Error("failed to resolve principal", "error", err, "request_id", requestID(c))
					return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
						Error: true, Message: "Internal server error",
					})
				}
				return unauthorized(c)
			}
			c.Locals(principalLocalsKey, principal)
			return c.Next()
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return unauthorized(c)
		},
	})
}

// PrincipalFrom returns the caller resolved by Authenticate, or nil on
// unauthenticated routes.
func PrincipalFrom(c *fiber.Ctx) *services.Principal {
	p, _ := c.Locals(principalLocalsKey).(*services.Principal)
	return p
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error:   true,
		Message: "Unauthorized: invalid or expired token",
	})
}

func requestID(c *fiber.Ctx) string {
	id, _ := c.Locals("requestid").(string)
	return id
}
