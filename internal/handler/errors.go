package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"dnaarchive/internal/access"
	"dnaarchive/internal/middleware"
	"dnaarchive/internal/service"
	"dnaarchive/pkg/response"

	"github.com/gin-gonic/gin"
)

// statusFor maps service sentinels onto HTTP statuses
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrTwoFactorRequired),
		errors.Is(err, service.ErrInvalidTwoFactorCode):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrOAuthDisabled):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// respondError writes the envelope for a service error. Internal errors are
// logged with the request id and hidden from the client.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		log.Printf("[%s] %s %s: %v", middleware.RequestID(c), c.Request.Method, c.FullPath(), err)
		msg = response.MsgInternal
	}
	c.JSON(status, response.Error(status, msg))
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
}

// pathID parses a numeric :param, writing a 400 when it is not one
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid "+name))
		return 0, false
	}
	return uint(id), true
}

// queryID parses an optional numeric query filter; absent or malformed means 0
func queryID(c *gin.Context, name string) uint {
	id, err := strconv.ParseUint(c.Query(name), 10, 64)
	if err != nil {
		return 0
	}
	return uint(id)
}

// actor returns the caller placed on the context by the access middleware
func actor(c *gin.Context) (*access.AuthenticatedUser, bool) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Message(response.MsgUnauthorized))
		return nil, false
	}
	return user, true
}
