package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/growthpods/growthpods/internal/common"
	"github.com/growthpods/growthpods/internal/logging"
	"github.com/growthpods/growthpods/internal/server/auth"
	"github.com/growthpods/growthpods/internal/server/copilot"
	"github.com/growthpods/growthpods/internal/server/models"
	"github.com/growthpods/growthpods/internal/server/services"
	"github.com/labstack/echo/v4"
)

// Users is the part of services.UserService the handlers depend on.
type Users interface {
	Register(ctx context.Context, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*services.Session, error)
	Authenticate(ctx context.Context, bearer string) (*services.Identity, error)
	Refresh(ctx context.Context, id *services.Identity) (*services.Session, error)
	Logout(ctx context.Context, id *services.Identity) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
}

// Copilot is the part of copilot.Runtime the handlers depend on.
type Copilot interface {
	copilot.Completer
	Enabled() bool
}

type Handler struct {
	users   Users
	copilot Copilot
	logger  logging.Logger
}

func NewHandler(users Users, cp Copilot, logger logging.Logger) *Handler {
	return &Handler{users: users, copilot: cp, logger: logger}
}

func (h *Handler) register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid request body")
	}

	user, err := h.users.Register(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if !errors.Is(err, common.ErrorValidation) {
			h.logger.Warn(c.Request().Context(), "register failed", "error", err)
			return jsonError(c, http.StatusConflict, "account could not be created")
		}
		return writeServiceError(c, err)
	}

	return c.JSON(http.StatusCreated, toUserResponse(user))
}

func (h *Handler) login(c echo.Context) error {
	email, password, ok := auth.ParseBasic(c.Request().Header.Get(echo.HeaderAuthorization))
	if !ok {
		return jsonError(c, http.StatusUnauthorized, "missing or invalid basic credentials")
	}

	sess, err := h.users.Login(c.Request().Context(), email, password)
	if err != nil {
		return writeServiceError(c, err)
	}

	return c.JSON(http.StatusOK, authResponse{Token: sess.Token, User: toUserResponse(sess.User)})
}

func (h *Handler) refresh(c echo.Context) error {
	sess, err := h.users.Refresh(c.Request().Context(), getIdentity(c))
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, authResponse{Token: sess.Token, User: toUserResponse(sess.User)})
}

func (h *Handler) logout(c echo.Context) error {
	if err := h.users.Logout(c.Request().Context(), getIdentity(c)); err != nil {
		return writeServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) forgotPassword(c echo.Context) error {
	var req forgotPasswordRequest
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Email) == "" {
		return jsonError(c, http.StatusBadRequest, "email is required")
	}

	if err := h.users.ForgotPassword(c.Request().Context(), req.Email); err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusAccepted, map[string]string{"status": "if the account exists, a reset link has been sent"})
}

func (h *Handler) resetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid request body")
	}

	if err := h.users.ResetPassword(c.Request().Context(), req.Token, req.NewPassword); err != nil {
		return writeServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ping(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "OK"})
}

func (h *Handler) chat(c echo.Context) error {
	if h.copilot == nil || !h.copilot.Enabled() {
		return jsonError(c, http.StatusServiceUnavailable, "copilot is not configured")
	}

	var req copilotRequest
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid request body")
	}

	reply, err := h.copilot.Complete(c.Request().Context(), req.Messages)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, copilotResponse{Reply: reply})
	case errors.Is(err, copilot.ErrEmptyPrompt):
		return jsonError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, copilot.ErrNotConfigured):
		return jsonError(c, http.StatusServiceUnavailable, err.Error())
	default:
		h.logger.Error(c.Request().Context(), "copilot", "error", err)
		return jsonError(c, http.StatusBadGateway, "copilot unavailable")
	}
}
