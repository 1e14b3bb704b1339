package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/fitrahmoef/Saintara-Mobile/internal/middleware/auth"
	"github.com/fitrahmoef/Saintara-Mobile/internal/usecase"
)

type AuthHandler struct {
	auth       *usecase.AuthUsecase
	activities *usecase.ActivityUsecase
	logger     *zap.Logger
}

func NewAuthHandler(auth *usecase.AuthUsecase, activities *usecase.ActivityUsecase, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		auth:       auth,
		activities: activities,
		logger:     logger,
	}
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(c echo.Context) error {
	var req usecase.RegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, h.logger, err, "Invalid registration request")
	}

	user, err := h.auth.Register(c.Request().Context(), req)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to register user")
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Registration successful, please check your email to verify your account",
		"user":    user,
	})
}

// VerifyEmail handles GET /auth/verify-email?token=
func (h *AuthHandler) VerifyEmail(c echo.Context) error {
	user, err := h.auth.VerifyEmail(c.Request().Context(), c.QueryParam("token"))
	if err != nil {
		return respondError(c, h.logger, err, "Failed to verify email")
	}

	return ok(c, echo.Map{
		"message": "Email verified",
		"user":    user,
	})
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c echo.Context) error {
	var req usecase.LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, h.logger, err, "Invalid login request")
	}

	resp, err := h.auth.Login(c.Request().Context(), req)
	if err != nil {
		return respondError(c, h.logger, err, "Login failed")
	}

	return ok(c, resp)
}

// Me handles GET /users/me
func (h *AuthHandler) Me(c echo.Context) error {
	principal, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	user, err := h.auth.Me(c.Request().Context(), principal)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to get profile")
	}

	return ok(c, user)
}

// Activities handles GET /users/me/activities?limit=
func (h *AuthHandler) Activities(c echo.Context) error {
	principal, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	activities, err := h.activities.List(c.Request().Context(), principal, limit)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to list activities")
	}

	return ok(c, activities)
}
