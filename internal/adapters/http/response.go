package http

import (
	"errors"
	nethttp "net/http"

	"github.com/dkeye/Town/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// envelope wraps every REST response.
type envelope struct {
	IsOK     bool   `json:"isOK"`
	Response any    `json:"response,omitempty"`
	Message  string `json:"message,omitempty"`
}

func respond(c *gin.Context, payload any) {
	c.JSON(nethttp.StatusOK, envelope{IsOK: true, Response: payload})
}

func fail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, envelope{IsOK: false, Message: msg})
}

func failErr(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= nethttp.StatusInternalServerError {
		log.Error().Err(err).Str("module", "adapters.http").Str("path", c.FullPath()).Msg("request failed")
	} else {
		log.Warn().Err(err).Str("module", "adapters.http").Str("path", c.FullPath()).Msg("request rejected")
	}
	fail(c, status, err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return nethttp.StatusNotFound
	case errors.Is(err, domain.ErrUnauthorized):
		return nethttp.StatusForbidden
	case errors.Is(err, domain.ErrValidation):
		return nethttp.StatusBadRequest
	case errors.Is(err, domain.ErrRoomDestroyed):
		return nethttp.StatusGone
	case errors.Is(err, domain.ErrExternalService):
		return nethttp.StatusBadGateway
	default:
		return nethttp.StatusInternalServerError
	}
}
