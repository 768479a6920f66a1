package httpapi

import (
	"errors"
	"net/http"

	"github.com/growthpods/growthpods/internal/common"
	"github.com/labstack/echo/v4"
)

func jsonError(c echo.Context, status int, msg string) error {
	return c.JSON(status, errorResponse{Error: msg})
}

// writeServiceError maps service sentinels onto HTTP statuses.
func writeServiceError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, common.ErrorValidation):
		return jsonError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, common.ErrResetTokenInvalid):
		return jsonError(c, http.StatusBadRequest, "invalid or expired reset token")
	case errors.Is(err, common.ErrTokenExpired):
		return jsonError(c, http.StatusUnauthorized, "session expired")
	case errors.Is(err, common.ErrTokenRevoked):
		return jsonError(c, http.StatusUnauthorized, "session revoked")
	case errors.Is(err, common.ErrorUnauthorized), errors.Is(err, common.ErrInvalidToken):
		return jsonError(c, http.StatusUnauthorized, "invalid credentials")
	default:
		return jsonError(c, http.StatusInternalServerError, "internal error")
	}
}
