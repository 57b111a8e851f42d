package http

import (
	"errors"
	nethttp "net/http"

	"github.com/gin-gonic/gin"

	"github.com/pulsefeed-app/backend/internal/lib"
)

// statusFor maps service error kinds onto HTTP statuses. Anything unmatched is
// a server failure; its detail stays in the logs.
func statusFor(err error) int {
	switch {
	case errors.Is(err, lib.ErrInvalidInput):
		return nethttp.StatusBadRequest
	case errors.Is(err, lib.ErrUnauthorized):
		return nethttp.StatusUnauthorized
	case errors.Is(err, lib.ErrNotFound):
		return nethttp.StatusNotFound
	case errors.Is(err, lib.ErrAlreadyReacted), errors.Is(err, lib.ErrConflict):
		return nethttp.StatusConflict
	case errors.Is(err, lib.ErrUpstream):
		return nethttp.StatusBadGateway
	default:
		return nethttp.StatusInternalServerError
	}
}

func writeError(c *gin.Context, err error) {
	status := statusFor(err)
	message := "internal error"
	if lib.IsClientError(err) {
		message = err.Error()
	}
	c.JSON(status, gin.H{"error": message})
}
