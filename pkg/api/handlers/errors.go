package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/urmzd/tled/pkg/api/types"
	"github.com/urmzd/tled/pkg/command"
	"github.com/urmzd/tled/pkg/device"
)

// writeError maps a command failure to a status code and error body.
func writeError(c *gin.Context, err error) {
	status, code := classify(err)

	msg := err.Error()
	var cmdErr *command.Error
	if errors.As(err, &cmdErr) {
		msg = cmdErr.Message
	}

	c.JSON(status, types.ErrorResponse{
		Error:   code,
		Message: msg,
	})
}

func classify(err error) (int, string) {
	var attrErr *device.AttributeSetError
	var cmdErr *command.Error

	switch {
	case errors.Is(err, device.ErrValidation):
		return http.StatusBadRequest, "validation_error"
	case errors.Is(err, device.ErrNotInitialized):
		return http.StatusConflict, "not_initialized"
	case errors.Is(err, device.ErrUnsupported):
		return http.StatusUnprocessableEntity, "unsupported"
	case errors.Is(err, device.ErrAudioInit):
		return http.StatusServiceUnavailable, "audio_unavailable"
	case errors.Is(err, device.ErrConnection):
		return http.StatusBadGateway, "connection_failed"
	case errors.As(err, &attrErr), errors.As(err, &cmdErr):
		return http.StatusBadGateway, "device_error"
	}
	return http.StatusInternalServerError, "internal_error"
}
