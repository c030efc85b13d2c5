package resputil

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/raids-lab/taskflow/pkg/board"
	"github.com/raids-lab/taskflow/pkg/logutils"
)

type Response[T any] struct {
	Success bool      `json:"success"`
	Code    ErrorCode `json:"code"`
	Data    T         `json:"data,omitempty"`
	Message string    `json:"message,omitempty"`
}

func wrapResponse[T any](c *gin.Context, httpCode int, msg string, data T, code ErrorCode) {
	c.JSON(httpCode, Response[T]{
		Success: code == OK,
		Code:    code,
		Data:    data,
		Message: msg,
	})
}

func Success[T any](c *gin.Context, data T) {
	wrapResponse(c, http.StatusOK, "", data, OK)
}

func Created[T any](c *gin.Context, data T) {
	wrapResponse(c, http.StatusCreated, "", data, OK)
}

func Error(c *gin.Context, msg string, errorCode ErrorCode) {
	wrapResponse[any](c, http.StatusInternalServerError, msg, nil, errorCode)
}

func HTTPError(c *gin.Context, httpCode int, msg string, errorCode ErrorCode) {
	wrapResponse[any](c, httpCode, msg, nil, errorCode)
}

func BadRequestError(c *gin.Context, msg string) {
	wrapResponse[any](c, http.StatusBadRequest, msg, nil, InvalidRequest)
}

// BoardError writes the response for an error returned by the board service.
// Unknown errors are logged and reported as a generic internal error.
func BoardError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, board.ErrNotFound):
		HTTPError(c, http.StatusNotFound, err.Error(), NotFound)
	case errors.Is(err, board.ErrAccessDenied):
		HTTPError(c, http.StatusForbidden, err.Error(), UserNotAllowed)
	case errors.Is(err, board.ErrInvalidAssignee):
		HTTPError(c, http.StatusBadRequest, err.Error(), InvalidAssignee)
	case errors.Is(err, board.ErrInvalidInput):
		HTTPError(c, http.StatusBadRequest, err.Error(), InvalidRequest)
	case errors.Is(err, board.ErrInvalidState):
		HTTPError(c, http.StatusConflict, err.Error(), InvalidState)
	case errors.Is(err, board.ErrDuplicateMembership):
		HTTPError(c, http.StatusConflict, err.Error(), DuplicateMembership)
	default:
		logutils.Log.WithFields(logutils.Fields{
			"method": c.Request.Method,
			"path":   c.FullPath(),
		}).Error(err)
		Error(c, "internal server error", NotSpecified)
	}
}
