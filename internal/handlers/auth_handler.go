package handlers

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/vidtube-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/vidtube-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/vidtube-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

// CookieOptions controls the token cookies set on login and refresh.
type CookieOptions struct {
	Secure     bool
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type AuthHandler struct {
	authService *services.AuthService
	cookies     CookieOptions
}

func NewAuthHandler(authService *services.AuthService, cookies CookieOptions) *AuthHandler {
	return &AuthHandler{authService: authService, cookies: cookies}
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	res, err := h.authService.Login(c.UserContext(), req.Username, req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}

	h.setTokenCookies(c, res.Tokens)
	return c.JSON(dto.LoginResponse{
		User:         dto.NewUserResponse(res.User),
		AccessToken:  res.Tokens.AccessToken,
		RefreshToken: res.Tokens.RefreshToken,
	})
}

// Refresh takes the refresh token from its cookie, falling back to the JSON body.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	token := c.Cookies(middleware.RefreshTokenCookie)
	if token == "" {
		var req dto.RefreshRequest
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&req); err != nil {
				return invalidBody(c)
			}
		}
		token = req.RefreshToken
	}

	pair, err := h.authService.RotateRefreshToken(c.UserContext(), token)
	if err != nil {
		return respondError(c, err)
	}

	h.setTokenCookies(c, *pair)
	return c.JSON(dto.TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return respondError(c, err)
	}
	if err := h.authService.Logout(c.UserContext(), p.ID); err != nil {
		return respondError(c, err)
	}

	h.clearTokenCookies(c)
	return c.JSON(dto.MessageResponse{Message: "Logged out successfully"})
}

func (h *AuthHandler) setTokenCookies(c *fiber.Ctx, pair services.TokenPair) {
	now := time.Now()
	c.Cookie(h.cookie(middleware.AccessTokenCookie, pair.AccessToken, now.Add(h.cookies.AccessTTL)))
	c.Cookie(h.cookie(middleware.RefreshTokenCookie, pair.RefreshToken, now.Add(h.cookies.RefreshTTL)))
}

func (h *AuthHandler) clearTokenCookies(c *fiber.Ctx) {
	expired := time.Unix(0, 0)
	c.Cookie(h.cookie(middleware.AccessTokenCookie, "", expired))
	c.Cookie(h.cookie(middleware.RefreshTokenCookie, "", expired))
}

func (h *AuthHandler) cookie(name, value string, expires time.Time) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HTTPOnly: true,
		Secure:   h.cookies.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	}
}
