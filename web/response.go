package web

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"jeongsan/api"
	dbt "jeongsan/db/db"
	"jeongsan/trip"
)

// Business codes carried in every JSON response next to the HTTP status.
const (
	CodeOK           = 0
	CodeInvalidParam = 40001
	CodeNotFound     = 40401
	CodeConflict     = 40901
	CodeServerErr    = 50001
	CodeBackend      = 50201
)

func success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{
		"code": CodeOK,
		"data": data,
	})
}

func created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, gin.H{
		"code": CodeOK,
		"data": data,
	})
}

func fail(c *gin.Context, httpStatus int, code int, msg string) {
	c.AbortWithStatusJSON(httpStatus, gin.H{
		"code":    code,
		"message": msg,
	})
}

func badRequest(c *gin.Context, msg string) {
	fail(c, http.StatusBadRequest, CodeInvalidParam, msg)
}

// renderError maps an error from the domain, the store or the backend to a
// response.
func renderError(c *gin.Context, err error) {
	var backendErr *api.Error
	switch {
	case trip.IsValidationError(err):
		badRequest(c, err.Error())
	case errors.Is(err, dbt.ErrNotFound):
		fail(c, http.StatusNotFound, CodeNotFound, err.Error())
	case errors.Is(err, dbt.ErrAlreadyExists):
		fail(c, http.StatusConflict, CodeConflict, err.Error())
	case errors.As(err, &backendErr):
		slog.Warn("backend call failed", "path", c.FullPath(), "status", backendErr.Status, "error", backendErr.Message)
		if backendErr.Status == http.StatusNotFound {
			fail(c, http.StatusNotFound, CodeNotFound, backendErr.Message)
			return
		}
		fail(c, http.StatusBadGateway, CodeBackend, backendErr.Message)
	default:
		slog.Error("request failed", "path", c.FullPath(), "error", err)
		fail(c, http.StatusInternalServerError, CodeServerErr, "internal server error")
	}
}
