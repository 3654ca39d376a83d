package handler

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/taskloop/task-service/config"
	"github.com/taskloop/task-service/internal/auth/dto"
	"github.com/taskloop/task-service/internal/auth/service"
	autherror "github.com/taskloop/task-service/internal/errors"
)

// AccessTokenCookie carries the access token for browser flows; API clients
// use the Authorization header instead.
const AccessTokenCookie = "access_token"

var validate = validator.New()

type AuthHandler struct {
	userService *service.UserService
	cfg         *config.Config
}

func NewAuthHandler(userService *service.UserService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{userService: userService, cfg: cfg}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input dto.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}
	if err := validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}

	user, err := h.userService.Register(c.Context(), input)
	if err != nil {
		if errors.Is(err, autherror.ErrEmailAlreadyInUse) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "email already registered"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
	}

	return c.Status(fiber.StatusOK).JSON(dto.UserOutput{
		ID:          user.ID,
		Email:       user.Email,
		Permissions: user.Permissions.Strings(),
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input dto.LoginInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}
	if err := validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}

	tokenPair, err := h.userService.Login(c.Context(), input)
	if err != nil {
		if errors.Is(err, autherror.ErrInvalidCredentials) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid credentials"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
	}

	c.Cookie(&fiber.Cookie{
		Name:     AccessTokenCookie,
		Value:    tokenPair.AccessToken,
		Expires:  time.Now().Add(time.Duration(h.cfg.AccessExpiryMin) * time.Minute),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return c.Status(fiber.StatusOK).JSON(tokenPair)
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var input dto.RefreshInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}

	tokens, err := h.userService.Refresh(c.Context(), input)
	if err != nil {
		if isUnauthorized(err) {
			return unauthorized(c)
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
	}

	return c.Status(fiber.StatusOK).JSON(tokens)
}

// Logout revokes the refresh token from the body, if any, and clears the
// access cookie. Always 200: revoking an already-revoked token is a no-op.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	var input dto.RefreshInput
	_ = c.BodyParser(&input)

	if err := h.userService.Logout(c.Context(), input.RefreshToken); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
	}

	c.Cookie(&fiber.Cookie{
		Name:     AccessTokenCookie,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "logged out"})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user := UserFromCtx(c)
	if user == nil {
		return unauthorized(c)
	}

	return c.Status(fiber.StatusOK).JSON(dto.UserOutput{
		ID:          user.ID,
		Email:       user.Email,
		Permissions: user.Permissions.Strings(),
	})
}

func (h *AuthHandler) Admin(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Admin access granted"})
}

// isUnauthorized collapses every token and ledger failure into the single
// externally-visible unauthorized class; responses never say which check
// failed.
func isUnauthorized(err error) bool {
	for _, target := range []error{
		autherror.ErrInvalidToken,
		autherror.ErrTokenExpired,
		autherror.ErrWrongTokenType,
		autherror.ErrRefreshTokenNotFound,
		autherror.ErrRefreshTokenRevoked,
		autherror.ErrRefreshTokenExpired,
		autherror.ErrUserNotFound,
	} {
		if errors.Is(err, target) {
			return true
		}
	}

	return false
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
}
